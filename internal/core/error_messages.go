// Error codes reference for the migration API.
//
// This file maps technical error text to user-facing messages with codes
// that can be quoted when reporting a problem.
//
// Database errors (DB001-DB099):
//
//	DB001 - duplicate key: a record with this id already exists
//	DB002 - foreign key: referenced record does not exist
//	DB003 - connection refused: database unavailable
//	DB004 - timeout: operation timed out
//
// Validation errors (VAL001-VAL099):
//
//	VAL001 - required field missing or empty
//	VAL002 - value must be an integer
//	VAL003 - invalid timestamp format
//	VAL004 - string exceeds maximum length
//
// Batch errors (BATCH001-BATCH099):
//
//	BATCH001 - batch is empty
//	BATCH002 - batch exceeds the maximum size
//
// File errors (FILE001-FILE099):
//
//	FILE001 - unrecognized csv layout
//	FILE002 - invalid csv
//	FILE003 - empty file
//	FILE004 - no file provided
//
// Table errors (TBL001-TBL099):
//
//	TBL001 - unknown table
//
// Fallback (ERR000): unexpected error, check server logs.
//
// Patterns are matched case-insensitively with strings.Contains; the
// first match wins, so specific patterns come before general ones.
package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with a support code.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Support reference code
}

// errorPattern pairs a substring to match with its user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Database constraint errors
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A record with this id already exists",
			Action:  "Remove or renumber the duplicate rows and retry",
			Code:    "DB001",
		},
	},
	{
		pattern: "unique constraint",
		msg: UserMessage{
			Message: "A record with this value already exists",
			Action:  "Check your data for duplicates",
			Code:    "DB001",
		},
	},
	{
		pattern: "referenced record does not exist",
		msg: UserMessage{
			Message: "Referenced record does not exist",
			Action:  "Load departments and jobs before rows that reference them",
			Code:    "DB002",
		},
	},
	{
		pattern: "foreign key",
		msg: UserMessage{
			Message: "Referenced record does not exist",
			Action:  "Load departments and jobs before rows that reference them",
			Code:    "DB002",
		},
	},

	// Database connectivity errors
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to the database",
			Action:  "Try again in a few moments",
			Code:    "DB003",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "The operation timed out",
			Action:  "Try a smaller batch or retry later",
			Code:    "DB004",
		},
	},

	// Validation errors
	{
		pattern: "required field",
		msg: UserMessage{
			Message: "A required field is missing or empty",
			Action:  "Fill in all required fields",
			Code:    "VAL001",
		},
	},
	{
		pattern: "must be an integer",
		msg: UserMessage{
			Message: "A numeric field contains a non-integer value",
			Action:  "Use plain integer ids",
			Code:    "VAL002",
		},
	},
	{
		pattern: "invalid timestamp",
		msg: UserMessage{
			Message: "A datetime field has an invalid format",
			Action:  "Use ISO 8601, e.g. 2021-11-07T02:48:42Z",
			Code:    "VAL003",
		},
	},
	{
		pattern: "exceeds maximum length",
		msg: UserMessage{
			Message: "A text field is too long",
			Action:  "Shorten the value to 100 characters or fewer",
			Code:    "VAL004",
		},
	},

	// Batch errors
	{
		pattern: "batch is empty",
		msg: UserMessage{
			Message: "The batch contains no records",
			Action:  "Submit between 1 and 1000 records",
			Code:    "BATCH001",
		},
	},
	{
		pattern: "batch exceeds",
		msg: UserMessage{
			Message: "The batch has too many records",
			Action:  "Split the data into batches of at most 1000 records",
			Code:    "BATCH002",
		},
	},

	// File errors
	{
		pattern: "unrecognized csv layout",
		msg: UserMessage{
			Message: "The CSV columns do not match the target table",
			Action:  "Check the column order against the table layout",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "The file is not a valid CSV",
			Action:  "Ensure the file is comma-separated UTF-8 text",
			Code:    "FILE002",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file has no data rows",
			Action:  "Upload a CSV with at least one data row",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was attached to the request",
			Action:  "Attach a CSV file in the 'file' form field",
			Code:    "FILE004",
		},
	},

	// Table errors
	{
		pattern: "unknown table",
		msg: UserMessage{
			Message: "The requested table does not exist",
			Action:  "Use departments, jobs, or hired_employees",
			Code:    "TBL001",
		},
	},
}

// defaultMessage is the ERR000 fallback when no pattern matches.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Try again or check the server logs",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// The first matching pattern wins; unmatched errors get the ERR000
// fallback.
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

// FormatUserError renders a mapped error as a single display string:
// "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
