// Package validation checks request payloads and config sections.
//
// Request structs use validator/v10 tags, plus a "language" tag for
// BCP-47 codes. Failures come back as AppErrors:
//
//	type processForm struct {
//	    TargetLang string `form:"target_lang" validate:"required,language"`
//	}
//	err := validation.Validate(form)
//
// Config sections use Check, which reports every failed rule at once:
//
//	err := validation.Check("retention").Positive("max_age", c.MaxAge).Err()
package validation
