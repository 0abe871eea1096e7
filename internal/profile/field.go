package profile

import (
	"fmt"
	"strconv"

	"github.com/muurk/autoinstall/internal/messages"
)

// Kind is the semantic type of a field, used for parsing and display.
type Kind int

const (
	KindBool Kind = iota
	KindInteger
	KindString
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Field is a single named, typed and validated profile value.
//
// The stored value is nil (unset), a bool, a uint64 or a string depending on
// Kind. It only changes through Set, SetValue and Clear, and a value stored by
// Set always passed the field's Rule.
type Field struct {
	name     string
	label    string
	kind     Kind
	rule     Rule
	nullable bool
	secret   bool

	value any
	log   *messages.Log
}

// Name returns the persisted key of the field
func (f *Field) Name() string { return f.name }

// Label returns the human-readable name shown in menus
func (f *Field) Label() string { return f.label }

// Kind returns the semantic type of the field
func (f *Field) Kind() Kind { return f.kind }

// Rule returns the validation rule of the field
func (f *Field) Rule() Rule { return f.rule }

// Nullable reports whether the field may be unset
func (f *Field) Nullable() bool { return f.nullable }

// Secret reports whether the value should be masked in summaries
func (f *Field) Secret() bool { return f.secret }

// Get returns the current value, or nil when unset.
func (f *Field) Get() any { return f.value }

// IsSet reports whether the field holds a value.
func (f *Field) IsSet() bool { return f.value != nil }

// Bool returns the value of a bool field (false when unset).
func (f *Field) Bool() bool {
	b, _ := f.value.(bool)
	return b
}

// Uint returns the value of an integer field (0 when unset).
func (f *Field) Uint() uint64 {
	n, _ := f.value.(uint64)
	return n
}

// Text returns the value of a string field ("" when unset).
func (f *Field) Text() string {
	s, _ := f.value.(string)
	return s
}

// Display returns the textual form of the value, "" when unset.
func (f *Field) Display() string {
	switch v := f.value.(type) {
	case nil:
		return ""
	case bool:
		return strconv.FormatBool(v)
	case uint64:
		return strconv.FormatUint(v, 10)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Set converts candidate to the field's kind, validates it and stores it.
// On failure exactly one error message is logged and the previous value is
// kept. An empty candidate unsets a nullable field.
func (f *Field) Set(candidate string) bool {
	if f.nullable && candidate == "" {
		f.value = nil
		return true
	}

	value, err := f.convert(candidate)
	if err == nil {
		err = f.rule.Validate(candidate)
	}
	if err != nil {
		f.log.Error(err.Error())
		return false
	}
	f.value = value
	return true
}

// SetValue stores a typed value (as decoded from a persisted profile) by
// passing its textual form through Set. A nil value clears nullable fields
// and is rejected for the others.
func (f *Field) SetValue(v any) bool {
	if v == nil {
		if f.nullable {
			f.value = nil
			return true
		}
		f.log.Errorf("A value is required for %s", f.label)
		return false
	}
	return f.Set(candidateText(v))
}

// Clear unsets a nullable field. It reports false for required fields.
func (f *Field) Clear() bool {
	if !f.nullable {
		return false
	}
	f.value = nil
	return true
}

func (f *Field) convert(candidate string) (any, error) {
	switch f.kind {
	case KindBool:
		switch candidate {
		case "0", "false":
			return false, nil
		case "1", "true":
			return true, nil
		}
		return nil, fmt.Errorf("The given value is not a valid choice: %s", candidate)
	case KindInteger:
		if err := ValidateNumeric(candidate); err != nil {
			return nil, err
		}
		n, err := strconv.ParseUint(candidate, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("The given value is too large: %s", candidate)
		}
		return n, nil
	default:
		return candidate, nil
	}
}

// candidateText renders decoded document values the way an operator would
// type them.
func candidateText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
