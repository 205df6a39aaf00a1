package utils

import "errors"

/*
Sentinel errors for housekeeping-service domain logic.
The controller can do: if errors.Is(err, ErrXYZ) { ... }
*/
var (
	ErrValidation       = errors.New("validation_error")
	ErrPropertyNotFound = errors.New("property_not_found")
	ErrRoomNotFound     = errors.New("room_not_found")
	ErrInvalidPayload   = errors.New("invalid_payload")

	// Returned by object stores; MediaService logs it and yields "".
	ErrMediaUpload = errors.New("media_upload_failed")
)
