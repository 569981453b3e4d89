package schema

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
)

// Constraint restricts the values an attribute accepts.
type Constraint interface {
	Includes(v any) bool
	String() string
}

// normalizer is implemented by constraints whose operands are cast to the
// attribute type when the attribute is built.
type normalizer interface {
	normalize(castFn func(any) (any, error)) (Constraint, error)
}

// OneOf accepts any of the given values.
func OneOf(values ...any) Constraint {
	return oneOf{values: values}
}

// Between accepts values in the closed interval [min, max]. Operands must be
// numbers, strings, times or dates.
func Between(min, max any) Constraint {
	return between{min: min, max: max}
}

type oneOf struct {
	values []any
}

func (c oneOf) Includes(v any) bool {
	for _, candidate := range c.values {
		if equal(candidate, v) {
			return true
		}
	}
	return false
}

func (c oneOf) String() string {
	parts := make([]string, len(c.values))
	for i, v := range c.values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}

func (c oneOf) normalize(castFn func(any) (any, error)) (Constraint, error) {
	values := make([]any, len(c.values))
	for i, v := range c.values {
		cv, err := castFn(v)
		if err != nil {
			return nil, err
		}
		values[i] = cv
	}
	return oneOf{values: values}, nil
}

type between struct {
	min, max any
}

func (c between) Includes(v any) bool {
	lo, ok := compare(c.min, v)
	if !ok || lo > 0 {
		return false
	}
	hi, ok := compare(v, c.max)
	return ok && hi <= 0
}

func (c between) String() string {
	return fmt.Sprintf("%v..%v", c.min, c.max)
}

func (c between) normalize(castFn func(any) (any, error)) (Constraint, error) {
	lo, err := castFn(c.min)
	if err != nil {
		return nil, err
	}
	hi, err := castFn(c.max)
	if err != nil {
		return nil, err
	}
	if _, ok := compare(lo, hi); !ok {
		return nil, fmt.Errorf("range bounds %v and %v are not comparable", lo, hi)
	}
	return between{min: lo, max: hi}, nil
}

func equal(a, b any) bool {
	switch x := a.(type) {
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	case Date:
		y, ok := b.(Date)
		return ok && x.Equal(y)
	}
	if isNumber(a) && isNumber(b) {
		c, _ := compare(a, b)
		return c == 0
	}
	return reflect.DeepEqual(a, b)
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}

func compare(a, b any) (int, bool) {
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(x, y), true
	case Symbol:
		y, ok := b.(Symbol)
		if !ok {
			return 0, false
		}
		return strings.Compare(string(x), string(y)), true
	case time.Time:
		y, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return x.Compare(y), true
	case Date:
		y, ok := b.(Date)
		if !ok {
			return 0, false
		}
		return x.Compare(y.Time), true
	}
	if !isNumber(a) || !isNumber(b) {
		return 0, false
	}
	fa, _ := cast.ToFloat64E(a)
	fb, _ := cast.ToFloat64E(b)
	switch {
	case fa < fb:
		return -1, true
	case fa > fb:
		return 1, true
	default:
		return 0, true
	}
}

// compilePattern compiles a match expression. Patterns use the regexp2 dialect,
// which supports lookarounds and backreferences.
func compilePattern(expr string) (*regexp2.Regexp, error) {
	return regexp2.Compile(expr, regexp2.None)
}

func matchPattern(re *regexp2.Regexp, v any) bool {
	s, err := cast.ToStringE(v)
	if err != nil {
		s = fmt.Sprint(v)
	}
	ok, err := re.MatchString(s)
	return err == nil && ok
}

var tagValidator = validator.New(validator.WithRequiredStructEnabled())

// checkTag runs a validator tag against v. Tags that do not apply to the value
// type make the validator panic; those are reported as failures.
func checkTag(v any, tag string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return tagValidator.Var(v, tag)
}

// verifyTag rejects tags the validator cannot parse.
func verifyTag(tag string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	_ = tagValidator.Var("", tag)
	return nil
}
