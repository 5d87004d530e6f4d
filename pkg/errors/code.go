package errors

import "net/http"

// ErrorCode represents a unique error identifier
type ErrorCode int

// Error code ranges allocation:
// 10000-10999: System & Common errors
// 12000-12099: Country errors
// 12100-12199: Team errors
// 12200-12299: Image storage errors

const (
	// ========== System & Common Errors (10000-10999) ==========

	// Success
	Success ErrorCode = 10000

	// Generic errors (10000-10099)
	InternalServerError ErrorCode = 10001
	InvalidParams       ErrorCode = 10002
	NotFound            ErrorCode = 10003
	Unauthorized        ErrorCode = 10004
	Forbidden           ErrorCode = 10005
	ServiceUnavailable  ErrorCode = 10007
	Timeout             ErrorCode = 10008

	// Database errors (10100-10199)
	DatabaseError       ErrorCode = 10100
	RecordNotFound      ErrorCode = 10101
	RecordAlreadyExists ErrorCode = 10102
	TransactionFailed   ErrorCode = 10103
	RecordInUse         ErrorCode = 10104

	// Cache errors (10200-10299)
	CacheError ErrorCode = 10200

	// Validation errors (10300-10399)
	ValidationFailed   ErrorCode = 10300
	InvalidFormat      ErrorCode = 10301
	InvalidValue       ErrorCode = 10302
	RequiredFieldEmpty ErrorCode = 10303

	// ========== Country Errors (12000-12099) ==========
	CountryNotFound      ErrorCode = 12000
	CountryAlreadyExists ErrorCode = 12001
	CountryInUse         ErrorCode = 12002

	// ========== Team Errors (12100-12199) ==========
	TeamNotFound        ErrorCode = 12100
	TeamAlreadyExists   ErrorCode = 12101
	TeamInUse           ErrorCode = 12102
	TeamCountryNotFound ErrorCode = 12103
	TeamImageInvalid    ErrorCode = 12104

	// ========== Image Storage Errors (12200-12299) ==========
	ImageStorageFailed ErrorCode = 12200
)

// Kind is the closed set of failure categories an ErrorCode falls into.
type Kind int

const (
	KindNone Kind = iota
	KindNotFound
	KindDuplicate
	KindForeignKey
	KindInvalid
	KindUnauthorized
	KindForbidden
	KindUnavailable
	KindUnexpected
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNotFound:
		return "not_found"
	case KindDuplicate:
		return "duplicate"
	case KindForeignKey:
		return "foreign_key"
	case KindInvalid:
		return "invalid"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindUnavailable:
		return "unavailable"
	default:
		return "unexpected"
	}
}

// errorMessages maps error codes to their default English messages
var errorMessages = map[ErrorCode]string{
	// System & Common
	Success:             "Success",
	InternalServerError: "Internal server error",
	InvalidParams:       "Invalid parameters",
	NotFound:            "Resource not found",
	Unauthorized:        "Unauthorized access",
	Forbidden:           "Access forbidden",
	ServiceUnavailable:  "Service temporarily unavailable",
	Timeout:             "Request timeout",

	// Database
	DatabaseError:       "Database operation failed",
	RecordNotFound:      "Record not found in database",
	RecordAlreadyExists: "Record already exists",
	TransactionFailed:   "Database transaction failed",
	RecordInUse:         "Record is referenced by other records",

	// Cache
	CacheError: "Cache operation failed",

	// Validation
	ValidationFailed:   "Validation failed",
	InvalidFormat:      "Invalid format",
	InvalidValue:       "Invalid value",
	RequiredFieldEmpty: "Required field is empty",

	// Country
	CountryNotFound:      "Country not found",
	CountryAlreadyExists: "A country with the same name already exists",
	CountryInUse:         "Country has teams and cannot be deleted",

	// Team
	TeamNotFound:        "Team not found",
	TeamAlreadyExists:   "A team with the same name already exists in this country",
	TeamInUse:           "Team is referenced by other records and cannot be deleted",
	TeamCountryNotFound: "Country of the team does not exist",
	TeamImageInvalid:    "Team image is not valid base64",

	// Image storage
	ImageStorageFailed: "Failed to store image",
}

// Message returns the default message for the error code
func (c ErrorCode) Message() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return "Unknown error"
}

// Kind classifies the error code.
func (c ErrorCode) Kind() Kind {
	switch c {
	case Success:
		return KindNone
	case NotFound, RecordNotFound, CountryNotFound, TeamNotFound:
		return KindNotFound
	case RecordAlreadyExists, CountryAlreadyExists, TeamAlreadyExists:
		return KindDuplicate
	case TeamCountryNotFound, RecordInUse, CountryInUse, TeamInUse:
		return KindForeignKey
	case Unauthorized:
		return KindUnauthorized
	case Forbidden:
		return KindForbidden
	case ServiceUnavailable, Timeout:
		return KindUnavailable
	case InternalServerError:
		return KindUnexpected
	}
	switch {
	case c >= 10300 && c < 10400, c == InvalidParams, c == TeamImageInvalid:
		return KindInvalid
	default:
		return KindUnexpected
	}
}

// HTTPStatus returns the recommended HTTP status code for the error code.
// Persistence failures, including unexpected ones, surface as 400 so
// clients can show the message; only InternalServerError is a 500.
func (c ErrorCode) HTTPStatus() int {
	switch c.Kind() {
	case KindNone:
		return http.StatusOK
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindUnavailable:
		return http.StatusServiceUnavailable
	}
	if c == InternalServerError {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}
