package errors

import "net/http"

// ErrorCode is the machine-readable code sent to clients.
type ErrorCode string

const (
	ErrCodeInvalidInput    ErrorCode = "INVALID_INPUT"
	ErrCodeMissingField    ErrorCode = "MISSING_FIELD"
	ErrCodeInvalidFormat   ErrorCode = "INVALID_FORMAT"
	ErrCodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"

	ErrCodeConversionFailed    ErrorCode = "CONVERSION_FAILED"
	ErrCodeRecognitionFailed   ErrorCode = "RECOGNITION_FAILED"
	ErrCodeTranslationFailed   ErrorCode = "TRANSLATION_FAILED"
	ErrCodeSynthesisFailed     ErrorCode = "SYNTHESIS_FAILED"
	ErrCodeUnsupportedLanguage ErrorCode = "UNSUPPORTED_LANGUAGE"

	ErrCodeTimeout            ErrorCode = "TIMEOUT"
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
)

type codeSpec struct {
	status    int
	retryable bool
}

// Retryable is advisory for clients; the service never retries on its own.
var codeSpecs = map[ErrorCode]codeSpec{
	ErrCodeInvalidInput:        {http.StatusBadRequest, false},
	ErrCodeMissingField:        {http.StatusBadRequest, false},
	ErrCodeInvalidFormat:       {http.StatusBadRequest, false},
	ErrCodePayloadTooLarge:     {http.StatusRequestEntityTooLarge, false},
	ErrCodeNotFound:            {http.StatusNotFound, false},
	ErrCodeConversionFailed:    {http.StatusUnprocessableEntity, false},
	ErrCodeRecognitionFailed:   {http.StatusInternalServerError, true},
	ErrCodeTranslationFailed:   {http.StatusBadGateway, true},
	ErrCodeSynthesisFailed:     {http.StatusInternalServerError, true},
	ErrCodeUnsupportedLanguage: {http.StatusBadRequest, false},
	ErrCodeTimeout:             {http.StatusGatewayTimeout, true},
	ErrCodeServiceUnavailable:  {http.StatusServiceUnavailable, true},
	ErrCodeInternal:            {http.StatusInternalServerError, false},
}

// IsRetryableCode reports whether clients may retry a request that failed
// with code.
func IsRetryableCode(code ErrorCode) bool {
	return codeSpecs[code].retryable
}

// StatusFor returns the HTTP status for code, 500 for unknown codes.
func StatusFor(code ErrorCode) int {
	if spec, ok := codeSpecs[code]; ok {
		return spec.status
	}
	return http.StatusInternalServerError
}
