package schema

import (
	"errors"
	"fmt"
)

// ErrInvalidSpec is returned when a schema or attribute definition cannot be built.
var ErrInvalidSpec = errors.New("invalid schema specification")

// Sentinel errors matching each validation failure kind with errors.Is.
var (
	ErrMissingRequiredAttribute = errors.New("missing required attribute")
	ErrTypeMismatched           = errors.New("type mismatched")
	ErrInvalidAttributeValue    = errors.New("invalid attribute value")
	ErrTypeCasting              = errors.New("type casting failed")
	ErrNotArray                 = errors.New("value is not an array")
)

// Kind classifies a validation failure.
type Kind int

const (
	KindMissingRequired Kind = iota + 1
	KindTypeMismatched
	KindInvalidValue
	KindTypeCasting
	KindNotArray
)

// String returns the category name of the kind. Operations use it as the result code
// of contract violations.
func (k Kind) String() string {
	switch k {
	case KindMissingRequired:
		return "MissingRequiredAttribute"
	case KindTypeMismatched:
		return "TypeMismatched"
	case KindInvalidValue:
		return "InvalidAttributeValue"
	case KindTypeCasting:
		return "TypeCastingError"
	case KindNotArray:
		return "NotArrayError"
	default:
		return "ValidationError"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindMissingRequired:
		return ErrMissingRequiredAttribute
	case KindTypeMismatched:
		return ErrTypeMismatched
	case KindInvalidValue:
		return ErrInvalidAttributeValue
	case KindTypeCasting:
		return ErrTypeCasting
	case KindNotArray:
		return ErrNotArray
	default:
		return nil
	}
}

// ValidationError represents a single attribute validation failure.
type ValidationError struct {
	Kind      Kind   // Failure category
	Attribute string // Display name of the attribute (upper-cased name)
	Reason    string // Human-readable reason, empty for missing and not-array failures
	Value     any    // The value that failed validation
	Err       error  // Underlying cause, set for casting failures
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindMissingRequired:
		return fmt.Sprintf("Missing required attribute %s", e.Attribute)
	case KindTypeMismatched:
		return fmt.Sprintf("Type MISMATCHED for attribute %s: %s", e.Attribute, e.Reason)
	case KindInvalidValue:
		return fmt.Sprintf("Invalid value for attribute %s: %s", e.Attribute, e.Reason)
	case KindTypeCasting:
		return fmt.Sprintf("Failed to cast attribute %s: %s", e.Attribute, e.Reason)
	case KindNotArray:
		return fmt.Sprintf("Value for attribute %s MUST be an array", e.Attribute)
	default:
		return fmt.Sprintf("Invalid attribute %s: %s", e.Attribute, e.Reason)
	}
}

// Category returns the name of the failure kind, e.g. "MissingRequiredAttribute".
func (e *ValidationError) Category() string {
	return e.Kind.String()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel error of this failure kind.
func (e *ValidationError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// AsValidationError returns the *ValidationError wrapped in err, if any.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

func specError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSpec, fmt.Sprintf(format, args...))
}
