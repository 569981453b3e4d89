package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxInputSize is 1MB
	DefaultMaxInputSize = 1 << 20
	// EnvMaxInputSize is the environment variable to override the default
	EnvMaxInputSize = "CITRINE_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// sanitizeInput enforces the size limit, validates UTF-8 and strips control
// characters other than newlines, tabs and carriage returns from a data document.
func sanitizeInput(input []byte) ([]byte, error) {
	limit := maxInputSize()
	if len(input) > limit {
		return nil, fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}

	if !utf8.Valid(input) {
		return nil, ErrInvalidUTF8
	}

	// Fast path: if no control chars, return as is.
	clean := true
	for _, r := range string(input) {
		if unicode.IsControl(r) && !isSafeControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return input, nil
	}

	out := make([]byte, 0, len(input))
	for _, r := range string(input) {
		if !unicode.IsControl(r) || isSafeControl(r) {
			out = utf8.AppendRune(out, r)
		}
	}
	return out, nil
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}

func maxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
