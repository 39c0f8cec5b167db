package validation

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/kbukum/lingolink/errors"
)

type form struct {
	TargetLang string `form:"target_lang" validate:"required,language"`
}

type mixedForm struct {
	TargetLang string `form:"target_lang" validate:"required,language"`
	Voice      string `json:"voice" validate:"omitempty,oneof=alloy echo"`
}

func TestStructValidateValid(t *testing.T) {
	for _, lang := range []string{"en", "es", "fr", "zh-CN", "pt-BR", "de"} {
		if err := Validate(form{TargetLang: lang}); err != nil {
			t.Errorf("expected %q to be valid, got %v", lang, err)
		}
	}
}

func TestStructValidateInvalidLanguage(t *testing.T) {
	for _, lang := range []string{"english", "e", "12", "en_US!", "not a tag"} {
		err := Validate(form{TargetLang: lang})
		if err == nil {
			t.Errorf("expected %q to be rejected", lang)
			continue
		}
		if !errors.HasCode(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("expected INVALID_FORMAT for %q, got %v", lang, err)
		}
	}
}

func TestStructValidateMissing(t *testing.T) {
	err := Validate(form{})
	if !errors.HasCode(err, errors.ErrCodeMissingField) {
		t.Fatalf("expected MISSING_FIELD, got %v", err)
	}
	appErr, _ := errors.AsAppError(err)
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 1 || fields[0].Field != "target_lang" {
		t.Errorf("expected target_lang field error, got %v", appErr.Details["fields"])
	}
}

func TestStructValidateNonFormatRule(t *testing.T) {
	err := Validate(mixedForm{TargetLang: "en", Voice: "bass"})
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for oneof failure, got %v", err)
	}
}

func TestIsLanguageTag(t *testing.T) {
	if IsLanguageTag("") {
		t.Error("empty string must not be a language tag")
	}
	if !IsLanguageTag("ja") {
		t.Error("expected ja to be a language tag")
	}
}

func TestChecks(t *testing.T) {
	tests := []struct {
		name   string
		checks *Checks
		want   string
	}{
		{"all pass", Check("recognizer").
			Required("provider", "whisper").
			Language("language", "").
			AtLeast("max_concurrent", 1, 1).
			Positive("timeout", time.Second).
			OneOf("provider", "whisper", "whisper", "openai"), ""},
		{"blank required", Check("pipeline").Required("work_dir", "  "), "pipeline.work_dir is required"},
		{"bad language", Check("pipeline").Language("default_target_lang", "klingon!"),
			"pipeline.default_target_lang must be a BCP-47 language code"},
		{"below minimum", Check("recognizer").AtLeast("max_concurrent", 0, 1),
			"recognizer.max_concurrent must be at least 1 (got: 0)"},
		{"not positive", Check("retention").Positive("max_age", 0), "retention.max_age must be positive (got: 0s)"},
		{"not allowed", Check("storage").OneOf("provider", "ftp", "local", "s3"),
			"storage.provider must be one of local, s3 (got: ftp)"},
		{"joined", Check("x").Required("a", "").That(false, "b", "is bad"), "x.a is required; x.b is bad"},
		{"no section", Check("").Required("name", ""), "name is required"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.checks.Err()
			if tc.want == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || err.Error() != tc.want {
				t.Errorf("got %v, want %q", err, tc.want)
			}
		})
	}
}

func TestChecksProblems(t *testing.T) {
	c := Check("retention").Positive("max_age", 0).Positive("sweep_interval", -time.Second)
	var cfgErr *ConfigError
	if !stderrors.As(c.Err(), &cfgErr) || len(cfgErr.Problems) != 2 {
		t.Fatalf("expected two problems, got %v", c.Err())
	}
	if c.Problems()[1].Field != "retention.sweep_interval" {
		t.Errorf("unexpected order %v", c.Problems())
	}
}
