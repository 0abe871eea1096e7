package profile

import (
	"fmt"
)

// Rule selects the validation applied to a field's textual candidate.
type Rule int

const (
	// RuleNone accepts any candidate
	RuleNone Rule = iota
	// RuleNumeric requires a non-empty run of ASCII digits
	RuleNumeric
	// RuleBootLabel requires a non-empty printable ASCII label
	RuleBootLabel
	// RuleHostname requires 1-64 characters of [a-z0-9-]
	RuleHostname
	// RuleName applies the user/group name rules
	RuleName
	// RulePassword requires a non-empty printable ASCII password
	RulePassword
)

// Limits enforced by the rules
const (
	MaxHostnameLength = 64
	MaxNameLength     = 32
)

// String returns the rule name
func (r Rule) String() string {
	switch r {
	case RuleNone:
		return "none"
	case RuleNumeric:
		return "numeric"
	case RuleBootLabel:
		return "boot label"
	case RuleHostname:
		return "hostname"
	case RuleName:
		return "name"
	case RulePassword:
		return "password"
	default:
		return fmt.Sprintf("Rule(%d)", int(r))
	}
}

// Validate runs the rule's checks in order and returns the first violation.
func (r Rule) Validate(value string) error {
	switch r {
	case RuleNumeric:
		return ValidateNumeric(value)
	case RuleBootLabel:
		return ValidateBootLabel(value)
	case RuleHostname:
		return ValidateHostname(value)
	case RuleName:
		return ValidateName(value)
	case RulePassword:
		return ValidatePassword(value)
	default:
		return nil
	}
}

// ValidateNumeric checks that value is made only of ASCII digits.
func ValidateNumeric(value string) error {
	if !isDigits(value) {
		return NewValidationError(RuleNumeric, "The given value is not numeric: "+value)
	}
	return nil
}

// ValidateBootLabel validates a boot loader entry label.
func ValidateBootLabel(value string) error {
	if value == "" {
		return NewValidationError(RuleBootLabel, "Boot labels must contain at least one character")
	}
	if !isPrintableASCII(value) {
		return NewValidationError(RuleBootLabel, "Boot labels cannot contain non-printable or non-ascii characters")
	}
	return nil
}

// ValidateHostname validates a system hostname.
func ValidateHostname(value string) error {
	if value == "" {
		return NewValidationError(RuleHostname, "Hostnames must contain at least one character")
	}
	if len(value) > MaxHostnameLength {
		return NewValidationError(RuleHostname, fmt.Sprintf("Hostnames cannot be longer than %d characters", MaxHostnameLength))
	}
	for i := 0; i < len(value); i++ {
		c := value[i]
		if !isLowerAlpha(c) && !isDigit(c) && c != '-' {
			return NewValidationError(RuleHostname, "Hostnames may only contain lowercase letters, numbers, and hyphens")
		}
	}
	return nil
}

// ValidateName validates a user or group name.
func ValidateName(value string) error {
	if value == "" {
		return NewValidationError(RuleName, "Names must contain at least one character")
	}
	if isDigits(value) {
		return NewValidationError(RuleName, "Names cannot be entirely numeric")
	}
	if value[0] == '-' {
		return NewValidationError(RuleName, "Names cannot start with a hyphen")
	}
	if len(value) > MaxNameLength {
		return NewValidationError(RuleName, fmt.Sprintf("Names cannot be longer than %d characters", MaxNameLength))
	}
	for i := 0; i < len(value); i++ {
		c := value[i]
		if !isLowerAlpha(c) && !isUpperAlpha(c) && !isDigit(c) && c != '_' && c != '-' {
			return NewValidationError(RuleName, "Names may only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

// ValidatePassword validates a login password.
func ValidatePassword(value string) error {
	if value == "" {
		return NewValidationError(RulePassword, "Passwords must contain at least one character")
	}
	if !isPrintableASCII(value) {
		return NewValidationError(RulePassword, "Passwords cannot contain non-printable or non-ascii characters")
	}
	return nil
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isLowerAlpha(c byte) bool { return c >= 'a' && c <= 'z' }
func isUpperAlpha(c byte) bool { return c >= 'A' && c <= 'Z' }

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		if !isDigit(value[i]) {
			return false
		}
	}
	return true
}

// isPrintableASCII rejects control characters and anything outside 0x20-0x7e.
func isPrintableASCII(value string) bool {
	for i := 0; i < len(value); i++ {
		if value[i] < 0x20 || value[i] > 0x7e {
			return false
		}
	}
	return true
}
