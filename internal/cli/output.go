package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/motorbench/internal/bench"
	"github.com/roach88/motorbench/internal/params"
	"github.com/roach88/motorbench/internal/runner"
	"github.com/roach88/motorbench/internal/store"
	"github.com/roach88/motorbench/internal/timing"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // The simulator rejected the bench (non-zero exit)
	ExitCommandError = 2 // Bad input: unknown scenario, invalid parameter, missing file, etc.
)

// Error codes, unified across all CLI commands.
const (
	ErrCodeGeneric         = "E001" // Generic/unknown error
	ErrCodeNotFound        = "E002" // File or run not found
	ErrCodeParamsFile      = "E003" // Parameter file could not be parsed
	ErrCodeUnknownScenario = "E101" // Scenario name not recognized
	ErrCodeMissingParam    = "E102" // A required parameter was not supplied
	ErrCodeDivideByZero    = "E103" // Non-positive frequency or period
	ErrCodeInvalidParam    = "E104" // Value outside the range the bench can represent
	ErrCodeToolFailure     = "E201" // Simulator exited non-zero
	ErrCodeToolStart       = "E202" // Simulator could not be started
	ErrCodeLedger          = "E301" // Run ledger error
	ErrCodeTestFailed      = "E401" // One or more bench cases failed
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// classifyError maps a domain error to an error code and exit code.
func classifyError(err error) (string, int) {
	var (
		ipe *bench.InvalidParameterError
		me  *params.MissingError
		ce  *params.CUEError
		tf  *runner.ToolFailure
	)
	switch {
	case errors.As(err, &tf):
		return ErrCodeToolFailure, ExitFailure
	case errors.Is(err, bench.ErrUnknownScenario):
		return ErrCodeUnknownScenario, ExitCommandError
	case errors.As(err, &ipe):
		return ErrCodeInvalidParam, ExitCommandError
	case errors.Is(err, timing.ErrDivideByZero):
		return ErrCodeDivideByZero, ExitCommandError
	case errors.As(err, &me):
		return ErrCodeMissingParam, ExitCommandError
	case errors.As(err, &ce):
		return ErrCodeParamsFile, ExitCommandError
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrNoLedger):
		return ErrCodeNotFound, ExitCommandError
	default:
		return ErrCodeGeneric, ExitCommandError
	}
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E002", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

func (f *OutputFormatter) isJSON() bool {
	return f.Format == "json"
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.isJSON() {
		return f.encode(CLIResponse{Status: "ok", Data: data})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.isJSON() {
		return f.encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail reports err in the configured format and returns the matching ExitError.
func (f *OutputFormatter) Fail(message string, err error) error {
	code, exit := classifyError(err)
	_ = f.Error(code, fmt.Sprintf("%s: %v", message, err), nil)
	return WrapExitError(exit, message, err)
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// Printer returns a printer that groups digits in human-readable output.
// Tokens handed to the simulator never go through it.
func (f *OutputFormatter) Printer() *message.Printer {
	return message.NewPrinter(language.English)
}

// newLogger builds the command logger: text on w, Debug when verbose.
func newLogger(verbose bool, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
