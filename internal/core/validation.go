package core

// validation.go provides per-record field validation.
//
// ValidateRecord is a pure function: it inspects a raw record against a
// table's field specs and reports the first problem, or nil if the record
// is insertable. Coercion itself happens later in BuildParams; validation
// uses the same As* helpers so the two can never disagree.

import (
	"fmt"
	"unicode/utf8"
)

// ValidationError describes a single invalid field in a record.
type ValidationError struct {
	Field   string // Field name
	Message string // Human-readable problem description
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("field %q: %s", e.Field, e.Message)
	}
	return e.Message
}

// ValidateRecord checks a record against the table's field specs and
// returns the first validation error, or nil if the record is valid.
// Fields not covered by a spec are ignored.
func ValidateRecord(rec Record, def TableDefinition) *ValidationError {
	for _, spec := range def.FieldSpecs {
		v, present := rec[spec.Name]
		if !present || isAbsent(v) {
			if spec.Required {
				return &ValidationError{Field: spec.Name, Message: "required field is missing or empty"}
			}
			continue
		}

		if err := validateField(v, spec); err != nil {
			return &ValidationError{Field: spec.Name, Message: err.Error()}
		}
	}
	return nil
}

// validateField checks a single present value against its spec.
func validateField(v any, spec FieldSpec) error {
	switch spec.Type {
	case FieldInt:
		if _, err := AsInt4(v); err != nil {
			return err
		}
	case FieldTimestamp:
		if _, err := AsTimestamp(v); err != nil {
			return err
		}
	case FieldText:
		s, err := AsText(v)
		if err != nil {
			return err
		}
		if spec.MaxLen > 0 && utf8.RuneCountInString(s) > spec.MaxLen {
			return fmt.Errorf("exceeds maximum length of %d characters", spec.MaxLen)
		}
	}
	return nil
}

// isAbsent reports whether a value counts as not provided:
// nil, or a string that is empty after cell cleanup.
func isAbsent(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return CleanCell(s) == ""
	}
	return false
}
