package validation

import (
	stderrors "errors"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"

	"github.com/kbukum/lingolink/errors"
)

var structValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(clientFieldName)
	_ = v.RegisterValidation("language", func(fl validator.FieldLevel) bool {
		return IsLanguageTag(fl.Field().String())
	})
	return v
})

// clientFieldName reports a field under the name the client sent: its form,
// json or mapstructure tag, else the snake_cased Go name.
func clientFieldName(f reflect.StructField) string {
	for _, key := range []string{"form", "json", "mapstructure"} {
		name, _, _ := strings.Cut(f.Tag.Get(key), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return snakeCase(f.Name)
}

// IsLanguageTag reports whether s parses as a BCP-47 tag such as "en",
// "es" or "zh-CN".
func IsLanguageTag(s string) bool {
	if s == "" {
		return false
	}
	_, err := language.Parse(s)
	return err == nil
}

// formatTags are rules about the shape of a present value.
var formatTags = map[string]bool{"language": true, "url": true, "hostname": true}

// Validate checks s against its `validate` tags. The AppError code is
// MISSING_FIELD when a required field is absent, INVALID_FORMAT when only
// format rules failed, and INVALID_INPUT otherwise.
func Validate(s any) error {
	err := structValidator().Struct(s)
	if err == nil {
		return nil
	}
	var failed validator.ValidationErrors
	if !stderrors.As(err, &failed) {
		return errors.Validation("validation failed")
	}

	code := errors.ErrCodeInvalidFormat
	fields := make([]FieldError, len(failed))
	messages := make([]string, len(failed))
	for i, fe := range failed {
		fields[i] = FieldError{Field: fe.Field(), Message: ruleMessage(fe)}
		messages[i] = fe.Field() + ": " + fields[i].Message
		switch {
		case fe.Tag() == "required":
			code = errors.ErrCodeMissingField
		case code == errors.ErrCodeInvalidFormat && !formatTags[fe.Tag()]:
			code = errors.ErrCodeInvalidInput
		}
	}
	return errors.New(code, strings.Join(messages, "; "), http.StatusBadRequest).
		With("fields", fields)
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "language":
		return "must be a BCP-47 language code such as en, es or zh-CN"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "url":
		return "must be a valid URL"
	}
	return "is invalid"
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
