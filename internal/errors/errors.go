package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// NotFound indicates an expected file is absent
	NotFound ErrorCode = "NOT_FOUND"
	// PermissionDenied indicates a file exists but cannot be read
	PermissionDenied ErrorCode = "PERMISSION_DENIED"
	// ReadFailure indicates any other I/O failure while reading
	ReadFailure ErrorCode = "READ_FAILURE"
	// WriteFailure indicates a generated file could not be written
	WriteFailure ErrorCode = "WRITE_FAILURE"
	// ParseFailure indicates file content is not in the expected format
	ParseFailure ErrorCode = "PARSE_FAILURE"
	// AnalysisFailure wraps a failure raised while analyzing a project
	AnalysisFailure ErrorCode = "ANALYSIS_FAILURE"
	// ConfigInvalid indicates a configuration or declaration file is invalid
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// FileExists indicates generated output would overwrite an existing file
	FileExists ErrorCode = "FILE_EXISTS"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// EditFile suggests editing a file by hand
	EditFile FixActionType = "edit-file"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Safe        bool          `json:"safe,omitempty"`
	Description string        `json:"description,omitempty"`
}

// DevenvError is a classified error with a stable code and the path it concerns.
type DevenvError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Path    string    `json:"path,omitempty"`
	cause   error     // Underlying error (not exported to JSON)
}

// New creates a DevenvError. path and cause may be empty.
func New(code ErrorCode, message, path string, cause error) *DevenvError {
	return &DevenvError{
		Code:    code,
		Message: message,
		Path:    path,
		cause:   cause,
	}
}

// Error implements the error interface
func (e *DevenvError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *DevenvError) Unwrap() error {
	return e.cause
}

// CodeOf returns the code of the outermost DevenvError in err's chain,
// or InternalError when there is none.
func CodeOf(err error) ErrorCode {
	var de *DevenvError
	if stderrors.As(err, &de) {
		return de.Code
	}
	return InternalError
}

// Is reports whether any DevenvError in err's chain carries code.
func Is(err error, code ErrorCode) bool {
	for err != nil {
		var de *DevenvError
		if !stderrors.As(err, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		err = de.cause
	}
	return false
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	ParseFailure: {
		{
			Type:        RunCommand,
			Command:     "node -e \"JSON.parse(require('fs').readFileSync('package.json','utf8'))\"",
			Safe:        true,
			Description: "Locate the syntax error in package.json",
		},
	},
	PermissionDenied: {
		{
			Type:        EditFile,
			Description: "Make the file readable by the current user",
		},
	},
	FileExists: {
		{
			Type:        RunCommand,
			Command:     "devenv generate --force",
			Safe:        false,
			Description: "Overwrite the existing files",
		},
		{
			Type:        RunCommand,
			Command:     "devenv generate --dry-run",
			Safe:        true,
			Description: "Print the generated files without writing them",
		},
	},
	ConfigInvalid: {
		{
			Type:        RunCommand,
			Command:     "devenv config show",
			Safe:        true,
			Description: "Inspect the effective configuration",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
