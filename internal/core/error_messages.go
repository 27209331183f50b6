package core

// error_messages.go maps technical errors to user-facing messages with codes
// that can be quoted to support.
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key            Patterns: "duplicate key", "violates unique"
//	DB002 - Unknown family reference Patterns: "violates foreign key"
//	DB003 - Value not allowed        Patterns: "violates check constraint", "invalid input value for enum"
//	DB004 - Connection refused       Patterns: "connection refused"
//	DB005 - Connection reset         Patterns: "connection reset"
//	DB006 - Timeout                  Patterns: "timeout"
//	DB007 - Deadlock                 Patterns: "deadlock"
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - No file                 Patterns: "no file provided"
//	IMP002 - System busy             Patterns: "too many concurrent imports"
//	IMP003 - File too large          Patterns: "request body too large", "file too large"
//	IMP004 - Empty file              Patterns: "appears to be empty or unreadable"
//	IMP005 - Missing headers         Patterns: "missing required headers"
//	IMP006 - Unreadable file         Patterns: "could not be read"
//	IMP007 - Async imports disabled  Patterns: "async imports are not enabled"
//	IMP008 - Job not found           Patterns: "task not found"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled       Patterns: "context canceled"
//	REQ002 - Request timeout         Patterns: "context deadline exceeded"
//	REQ003 - Report not found        Patterns: "report not found"
//	RATE001 - Rate limited           Patterns: "rate limit"
//
// ERR000 is the fallback when nothing matches; the original error is only in
// the logs.
//
// Patterns are matched case-insensitively with strings.Contains and the first
// match wins, so specific patterns come before general ones.

import "strings"

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Database constraint errors
	{"duplicate key", UserMessage{"A record with this key already exists", "Check the file for duplicate keys", "DB001"}},
	{"violates unique", UserMessage{"A record with this key already exists", "Check the file for duplicate keys", "DB001"}},
	{"violates foreign key", UserMessage{"Referenced family does not exist", "Upload the families file first", "DB002"}},
	{"violates check constraint", UserMessage{"A value is not allowed for its column", "Use ACTIVE or INACTIVE for Status", "DB003"}},
	{"invalid input value for enum", UserMessage{"A value is not allowed for its column", "Use ACTIVE or INACTIVE for Status", "DB003"}},

	// Database connection errors
	{"connection refused", UserMessage{"Unable to connect to database", "Please try again in a few moments", "DB004"}},
	{"connection reset", UserMessage{"Database connection was interrupted", "Please try again", "DB005"}},

	// Import errors
	{"no file provided", UserMessage{"Please upload at least one file.", "Attach familiesFile, productsFile or both", "IMP001"}},
	{"too many concurrent imports", UserMessage{"System is busy processing other imports", "Please wait a moment and try again", "IMP002"}},
	{"request body too large", UserMessage{"File exceeds maximum size limit", "Split the file into smaller chunks", "IMP003"}},
	{"file too large", UserMessage{"File exceeds maximum size limit", "Split the file into smaller chunks", "IMP003"}},
	{"appears to be empty or unreadable", UserMessage{"The uploaded file is empty", "Upload a file with a header row", "IMP004"}},
	{"missing required headers", UserMessage{"Required column is missing from the file", "Check the header row against the import template", "IMP005"}},
	{"could not be read", UserMessage{"The file could not be read", "Save the file as semicolon-separated UTF-8 text", "IMP006"}},
	{"async imports are not enabled", UserMessage{"Background imports are not available", "Retry without async=true", "IMP007"}},
	{"task not found", UserMessage{"Import job not found", "The job may have expired. Start a new import", "IMP008"}},

	// Request errors. These come after the specific patterns above because
	// "timeout" also appears in many driver messages.
	{"context canceled", UserMessage{"Request was cancelled", "Please try again", "REQ001"}},
	{"context deadline exceeded", UserMessage{"Request timed out", "Try a smaller file or try again later", "REQ002"}},
	{"report not found", UserMessage{"Report not found", "Reports are replaced by each import. Run the import again", "REQ003"}},
	{"timeout", UserMessage{"Operation timed out", "Try a smaller file or try again later", "DB006"}},
	{"deadlock", UserMessage{"Database was busy with conflicting operations", "Please try again", "DB007"}},
	{"rate limit", UserMessage{"Too many requests", "Please wait a moment before trying again", "RATE001"}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. If no
// pattern matches, the ERR000 fallback is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// IsUserFacing reports whether err matches a known pattern rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
