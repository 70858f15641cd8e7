package combinator

import (
	"fmt"
	"math"
	"strings"
)

// Tag matches the literal s.
func Tag(s string) Parser[string] {
	return func(input string) (string, string, error) {
		if !strings.HasPrefix(input, s) {
			return input, "", fail(input, fmt.Sprintf("%q", s))
		}
		return input[len(s):], s, nil
	}
}

// TakeUntil consumes everything before the first occurrence of s, which must exist.
// s itself is not consumed.
func TakeUntil(s string) Parser[string] {
	return func(input string) (string, string, error) {
		idx := strings.Index(input, s)
		if idx == -1 {
			return input, "", fail(input, fmt.Sprintf("text terminated by %q", s))
		}
		return input[idx:], input[:idx], nil
	}
}

// NotLineEnding consumes everything up to the next "\n" or "\r\n". It never fails.
func NotLineEnding() Parser[string] {
	return func(input string) (string, string, error) {
		end := strings.IndexByte(input, '\n')
		if end == -1 {
			end = len(input)
		}
		if end > 0 && input[end-1] == '\r' {
			end--
		}
		return input[end:], input[:end], nil
	}
}

func takeWhile(pred func(byte) bool) Parser[string] {
	return func(input string) (string, string, error) {
		i := 0
		for i < len(input) && pred(input[i]) {
			i++
		}
		return input[i:], input[:i], nil
	}
}

func takeWhile1(pred func(byte) bool, expected string) Parser[string] {
	return func(input string) (string, string, error) {
		rest, out, _ := takeWhile(pred)(input)
		if out == "" {
			return input, "", fail(input, expected)
		}
		return rest, out, nil
	}
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

func isMultispace(c byte) bool {
	return isSpace(c) || c == '\r' || c == '\n'
}

// Alpha1 matches one or more ASCII letters.
func Alpha1() Parser[string] {
	return takeWhile1(isAlpha, "letters")
}

// Alphanumeric1 matches one or more ASCII letters or digits.
func Alphanumeric1() Parser[string] {
	return takeWhile1(func(c byte) bool { return isAlpha(c) || isDigit(c) }, "an identifier")
}

// Space1 matches one or more spaces or tabs.
func Space1() Parser[string] {
	return takeWhile1(isSpace, "a space")
}

// Multispace0 matches any run of spaces, tabs, carriage returns and newlines, including none.
func Multispace0() Parser[string] {
	return takeWhile(isMultispace)
}

// Multispace1 matches a non-empty run of spaces, tabs, carriage returns and newlines.
func Multispace1() Parser[string] {
	return takeWhile1(isMultispace, "whitespace")
}

// Uint32 matches a decimal unsigned integer that fits in 32 bits.
func Uint32() Parser[uint32] {
	return func(input string) (string, uint32, error) {
		rest, digits, err := takeWhile1(isDigit, "an unsigned integer")(input)
		if err != nil {
			return input, 0, err
		}
		var v uint64
		for i := 0; i < len(digits); i++ {
			v = v*10 + uint64(digits[i]-'0')
			if v > math.MaxUint32 {
				return input, 0, fail(input, "an unsigned 32-bit integer")
			}
		}
		return rest, uint32(v), nil
	}
}

// Curlied wraps inner in a brace-delimited block: "{" inner "}".
func Curlied[T any](inner Parser[T]) Parser[T] {
	return Delimited(Tag("{"), inner, Tag("}"))
}

// Squared wraps inner in a bracket-delimited header: "[" inner "]".
func Squared[T any](inner Parser[T]) Parser[T] {
	return Delimited(Tag("["), inner, Tag("]"))
}

// Quoted wraps inner in double quotes.
func Quoted[T any](inner Parser[T]) Parser[T] {
	return Delimited(Tag(`"`), inner, Tag(`"`))
}

// Spaced allows optional whitespace on both sides of inner.
func Spaced[T any](inner Parser[T]) Parser[T] {
	return Delimited(Multispace0(), inner, Multispace0())
}
