package errors

import stderrors "errors"

// ErrorResponse is the JSON body of every failed request. Error holds the
// client-safe message, so clients that only read "error" keep working.
type ErrorResponse struct {
	Error     string         `json:"error"`
	Code      ErrorCode      `json:"code"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
}

// ToResponse drops the cause and keeps everything a client may see.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message, Code: e.Code, Retryable: e.Retryable, Details: e.Details}
}

// AsAppError finds the first *AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	return stderrors.AsType[*AppError](err)
}

func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

// Wrap is err's *AppError, or Internal(err) when it has none. Nil stays nil.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if e, ok := AsAppError(err); ok {
		return e
	}
	return Internal(err)
}

func HasCode(err error, code ErrorCode) bool {
	e, ok := AsAppError(err)
	return ok && e.Code == code
}
