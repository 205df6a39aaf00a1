package utils

const (
	OrganizationName                      = "KiwiStays"
	CORSLowSecurityAllowedOriginLocalhost = "http://localhost:*"
)
