package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
	"github.com/spf13/cast"
)

// Type names a declared attribute type.
type Type string

const (
	TypeString   Type = "string"
	TypeInteger  Type = "integer"
	TypeFloat    Type = "float"
	TypeDecimal  Type = "decimal"
	TypeSymbol   Type = "symbol"
	TypeTime     Type = "time"
	TypeDate     Type = "date"
	TypeDatetime Type = "datetime"
	TypeBool     Type = "bool"
)

// Types lists every supported type in a stable order.
func Types() []Type {
	return []Type{
		TypeString, TypeInteger, TypeFloat, TypeDecimal, TypeSymbol,
		TypeTime, TypeDate, TypeDatetime, TypeBool,
	}
}

// ParseType converts a type name to a Type. Names are case-insensitive.
func ParseType(name string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := typeHandlers[t]; !ok {
		return "", fmt.Errorf("unsupported type: %s", name)
	}
	return t, nil
}

// Symbol is the Go value of the symbol type: an interned identifier.
type Symbol string

func (s Symbol) String() string { return string(s) }

// Date is the Go value of the date type: a calendar day at midnight UTC.
type Date struct {
	time.Time
}

// NewDate returns the Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func (d Date) String() string {
	return d.Format(time.DateOnly)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Equal reports whether d and other are the same day.
func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

type typeHandler struct {
	is   func(v any) bool
	cast func(v any, f Formats) (any, error)
}

var typeHandlers = map[Type]typeHandler{
	TypeString:   {is: isString, cast: castString},
	TypeInteger:  {is: isInteger, cast: castInteger},
	TypeFloat:    {is: isFloat, cast: castFloat},
	TypeDecimal:  {is: isFloat, cast: castDecimal},
	TypeSymbol:   {is: isSymbol, cast: castSymbol},
	TypeTime:     {is: isTime, cast: castTime},
	TypeDate:     {is: isDate, cast: castDate},
	TypeDatetime: {is: isTime, cast: castDatetime},
	TypeBool:     {is: isBool, cast: castBool},
}

func isString(v any) bool  { _, ok := v.(string); return ok }
func isInteger(v any) bool { _, ok := v.(int); return ok }
func isFloat(v any) bool   { _, ok := v.(float64); return ok }
func isSymbol(v any) bool  { _, ok := v.(Symbol); return ok }
func isTime(v any) bool    { _, ok := v.(time.Time); return ok }
func isDate(v any) bool    { _, ok := v.(Date); return ok }
func isBool(v any) bool    { _, ok := v.(bool); return ok }

func castString(v any, f Formats) (any, error) {
	switch t := v.(type) {
	case Date:
		return strftime.Format(f.DateFormat, t.Time), nil
	case time.Time:
		return strftime.Format(f.TimeFormat, t), nil
	}
	if s, err := cast.ToStringE(v); err == nil {
		return s, nil
	}
	return fmt.Sprint(v), nil
}

func castInteger(v any, f Formats) (any, error) {
	switch n := v.(type) {
	case string:
		return parseInteger(n, f.IntegerBase)
	case []byte:
		return parseInteger(string(n), f.IntegerBase)
	case json.Number:
		i, err := n.Int64()
		return int(i), err
	case float64:
		return wholeNumber(n)
	case float32:
		return wholeNumber(float64(n))
	case bool, nil:
		return nil, fmt.Errorf("can't convert %T into integer", v)
	}
	return cast.ToIntE(v)
}

func parseInteger(s string, base int) (any, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	n, err := strconv.ParseInt(s, base, 0)
	if err != nil {
		return nil, err
	}
	return int(n), nil
}

// wholeNumber converts f to an int. Fractions are rejected rather than
// truncated, and so are values outside the int64 range.
func wholeNumber(f float64) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, fmt.Errorf("%v is not a whole number", f)
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return nil, fmt.Errorf("%v is out of range for integer", f)
	}
	return int(f), nil
}

func castFloat(v any, _ Formats) (any, error) {
	switch n := v.(type) {
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	case []byte:
		return strconv.ParseFloat(strings.TrimSpace(string(n)), 64)
	case bool, nil:
		return nil, fmt.Errorf("can't convert %T into float", v)
	}
	return cast.ToFloat64E(v)
}

func castDecimal(v any, f Formats) (any, error) {
	n, err := castFloat(v, f)
	if err != nil {
		return nil, err
	}
	return roundTo(n.(float64), f.DecimalPrecision), nil
}

func roundTo(n float64, precision int) float64 {
	p := math.Pow(10, float64(precision))
	return math.Round(n*p) / p
}

func castSymbol(v any, _ Formats) (any, error) {
	switch s := v.(type) {
	case string:
		return Symbol(s), nil
	case []byte:
		return Symbol(s), nil
	case fmt.Stringer:
		return Symbol(s.String()), nil
	}
	return nil, fmt.Errorf("undefined method to_sym for %T", v)
}

func castTime(v any, f Formats) (any, error) {
	return parseTime(v, f.TimeFormat)
}

func castDatetime(v any, f Formats) (any, error) {
	return parseTime(v, f.DatetimeFormat)
}

func castDate(v any, f Formats) (any, error) {
	if t, ok := v.(time.Time); ok {
		return DateOf(t), nil
	}
	t, err := parseTime(v, f.DateFormat)
	if err != nil {
		return nil, err
	}
	return DateOf(t.(time.Time)), nil
}

func parseTime(v any, format string) (any, error) {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case []byte:
		s = string(t)
	default:
		return nil, fmt.Errorf("no implicit conversion of %T into String", v)
	}
	return strftime.Parse(format, s)
}

func castBool(v any, _ Formats) (any, error) {
	switch v {
	case "false":
		return false, nil
	case "true":
		return true, nil
	}
	return v != nil, nil
}
