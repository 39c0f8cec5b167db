package validation

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// FieldError is one failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Checks collects problems of one config section. Fields are reported as
// "<section>.<field>".
//
//	return validation.Check("pipeline").
//	    Required("work_dir", c.WorkDir).
//	    Positive("request_timeout", c.RequestTimeout).
//	    Err()
type Checks struct {
	section  string
	problems []FieldError
}

// Check starts a checklist for section.
func Check(section string) *Checks {
	return &Checks{section: section}
}

func (c *Checks) add(field, format string, args ...any) *Checks {
	if c.section != "" {
		field = c.section + "." + field
	}
	c.problems = append(c.problems, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	return c
}

// That records message for field unless ok.
func (c *Checks) That(ok bool, field, message string) *Checks {
	if ok {
		return c
	}
	return c.add(field, "%s", message)
}

// Required rejects empty and blank strings.
func (c *Checks) Required(field, value string) *Checks {
	return c.That(strings.TrimSpace(value) != "", field, "is required")
}

// Language accepts an empty value; pair it with Required when needed.
func (c *Checks) Language(field, value string) *Checks {
	return c.That(value == "" || IsLanguageTag(value), field, "must be a BCP-47 language code")
}

func (c *Checks) AtLeast(field string, value, minimum int) *Checks {
	if value >= minimum {
		return c
	}
	return c.add(field, "must be at least %d (got: %d)", minimum, value)
}

func (c *Checks) Positive(field string, d time.Duration) *Checks {
	if d > 0 {
		return c
	}
	return c.add(field, "must be positive (got: %s)", d)
}

// OneOf accepts an empty value.
func (c *Checks) OneOf(field, value string, allowed ...string) *Checks {
	if value == "" || slices.Contains(allowed, value) {
		return c
	}
	return c.add(field, "must be one of %s (got: %s)", strings.Join(allowed, ", "), value)
}

// Problems returns the failed rules in the order they were checked.
func (c *Checks) Problems() []FieldError { return c.problems }

// Err returns nil when every rule passed.
func (c *Checks) Err() error {
	if len(c.problems) == 0 {
		return nil
	}
	return &ConfigError{Problems: c.problems}
}

// ConfigError lists every failed rule of a section.
type ConfigError struct {
	Problems []FieldError
}

func (e *ConfigError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.Field + " " + p.Message
	}
	return strings.Join(parts, "; ")
}
