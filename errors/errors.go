package errors

import (
	"fmt"
)

// AppError is the error type every pipeline stage returns to the transport.
// Message is safe to show to clients; Cause is only logged.
type AppError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Retryable  bool           `json:"retryable"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

func (e *AppError) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += " (cause: " + e.Cause.Error() + ")"
	}
	return msg
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause attaches the underlying error, which is logged but never sent.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// With adds key/value detail pairs. Non-string keys are skipped.
func (e *AppError) With(kv ...any) *AppError {
	for i := 0; i+1 < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			continue
		}
		if e.Details == nil {
			e.Details = make(map[string]any, len(kv)/2)
		}
		e.Details[k] = kv[i+1]
	}
	return e
}

// New builds an error with an explicit status. Retryable follows the code.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus, Retryable: IsRetryableCode(code)}
}

func coded(code ErrorCode, message string) *AppError {
	return New(code, message, StatusFor(code))
}

// Request errors.

func Validation(message string) *AppError {
	return coded(ErrCodeInvalidInput, message)
}

// InvalidInput omits the field detail when field is empty.
func InvalidInput(field, reason string) *AppError {
	e := coded(ErrCodeInvalidInput, "Invalid input: "+reason)
	if field != "" {
		e.With("field", field)
	}
	return e
}

func MissingField(field string) *AppError {
	return coded(ErrCodeMissingField, "Missing required field: "+field).With("field", field)
}

func InvalidFormat(field, expected string) *AppError {
	return coded(ErrCodeInvalidFormat, fmt.Sprintf("Invalid format for %s. Expected: %s", field, expected)).
		With("field", field, "expected_format", expected)
}

func PayloadTooLarge(limit string) *AppError {
	return coded(ErrCodePayloadTooLarge, "Request body exceeds the "+limit+" limit.").With("limit", limit)
}

// NotFound omits the id detail when id is empty.
func NotFound(resource, id string) *AppError {
	e := coded(ErrCodeNotFound, "The requested "+resource+" was not found.").With("resource", resource)
	if id != "" {
		e.With("id", id)
	}
	return e
}

// Pipeline stage errors. Each records the stage it came from.

// ConversionFailed treats the upload as unprocessable input.
func ConversionFailed(cause error) *AppError {
	return coded(ErrCodeConversionFailed, "Audio could not be converted. Please upload a supported recording.").
		WithCause(cause).With("stage", "transcode")
}

func RecognitionFailed(cause error) *AppError {
	return coded(ErrCodeRecognitionFailed, "Speech recognition failed.").WithCause(cause).With("stage", "recognize")
}

// TranslationFailed never reaches clients: the pipeline falls back to the
// original text. It exists for logs and metrics.
func TranslationFailed(reason string, cause error) *AppError {
	return coded(ErrCodeTranslationFailed, "Translation failed.").WithCause(cause).
		With("stage", "translate", "reason", reason)
}

func SynthesisFailed(cause error) *AppError {
	return coded(ErrCodeSynthesisFailed, "TTS generation failed").WithCause(cause).With("stage", "synthesize")
}

func UnsupportedLanguage(lang string) *AppError {
	return coded(ErrCodeUnsupportedLanguage, fmt.Sprintf("Language %q is not supported.", lang)).With("language", lang)
}

// Availability errors.

func Timeout(operation string) *AppError {
	return coded(ErrCodeTimeout, "The request took too long. Please try again.").With("operation", operation)
}

func ServiceUnavailable(service string) *AppError {
	return coded(ErrCodeServiceUnavailable, "The "+service+" is temporarily unavailable. Please try again.").
		With("service", service)
}

func Internal(cause error) *AppError {
	return coded(ErrCodeInternal, "An unexpected error occurred. Please try again or contact support.").WithCause(cause)
}
