package logger

import "time"

// Field keys shared across packages.
const (
	FieldService    = "service"
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldState      = "state"
	FieldProvider   = "provider"
	FieldOperation  = "operation"
	FieldError      = "error"
	FieldErrorCode  = "error_code"
	FieldDuration   = "duration_ms"
	FieldTargetLang = "target_lang"
	FieldSourceLang = "source_lang"
	FieldFile       = "file"
)

// Fields pairs up alternating keys and values. Non-string keys and a
// trailing key without a value are dropped.
//
//	log.Info("converted", logger.Fields(logger.FieldFile, name, "bytes", n))
func Fields(kvs ...any) map[string]any {
	m := make(map[string]any, len(kvs)/2)
	for i := 0; i+1 < len(kvs); i += 2 {
		if k, ok := kvs[i].(string); ok {
			m[k] = kvs[i+1]
		}
	}
	return m
}

// DurationFields describes a timed operation.
func DurationFields(op string, d time.Duration) map[string]any {
	return MergeWithDuration(Fields(FieldOperation, op), d)
}

// MergeWithError sets the error field on fields, allocating it when nil.
func MergeWithError(fields map[string]any, err error) map[string]any {
	return merge(fields, FieldError, err.Error())
}

// MergeWithDuration sets the duration field on fields, allocating it when nil.
func MergeWithDuration(fields map[string]any, d time.Duration) map[string]any {
	return merge(fields, FieldDuration, d.Milliseconds())
}

func merge(fields map[string]any, key string, value any) map[string]any {
	if fields == nil {
		fields = map[string]any{}
	}
	fields[key] = value
	return fields
}
