package utils

// Error codes specific to housekeeping-service only.
const (
	ErrCodePayloadTooLarge = "payload_too_large"
)
