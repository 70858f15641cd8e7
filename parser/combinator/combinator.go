// Package combinator provides small generic parser combinators over a string cursor.
//
// A Parser consumes a prefix of its input and returns the unconsumed rest together with the
// parsed value. Every section grammar of the chart format is built from these pieces, so no
// grammar handles delimiters or whitespace by hand.
package combinator

import (
	"errors"
	"fmt"
	"strings"
)

// A Parser consumes a prefix of input and returns the remaining input and the parsed value.
type Parser[T any] func(input string) (rest string, out T, err error)

// Error is returned when a parser does not match its input.
type Error struct {
	Remaining string // The input left at the point of failure.
	Expected  string // A short description of what was expected.
	Context   string // The innermost named grammar rule that failed, if any.

	// Committed errors are not recovered from by Alt, Opt, Many1 or SeparatedList1.
	Committed bool
}

func (e *Error) Error() string {
	near := e.Remaining
	if idx := strings.IndexAny(near, "\r\n"); idx != -1 {
		near = near[:idx]
	}
	if len(near) > 32 {
		near = near[:32] + "..."
	}
	if e.Context != "" {
		return fmt.Sprintf("%s: expected %s near %q", e.Context, e.Expected, near)
	}
	return fmt.Sprintf("expected %s near %q", e.Expected, near)
}

func fail(input, expected string) *Error {
	return &Error{Remaining: input, Expected: expected}
}

// IsCommitted reports whether err must be propagated instead of backtracked over.
// Errors that are not produced by this package are always treated as committed.
func IsCommitted(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Committed
	}
	return err != nil
}

// furthest returns whichever error got further into the input. When both stopped at the same
// place their expectations are merged.
func furthest(a, b error) error {
	if a == nil {
		return b
	}
	var ea, eb *Error
	if !errors.As(a, &ea) || !errors.As(b, &eb) {
		return b
	}
	switch {
	case len(eb.Remaining) < len(ea.Remaining):
		return eb
	case len(eb.Remaining) > len(ea.Remaining):
		return ea
	}
	if ea.Expected == eb.Expected {
		return ea
	}
	merged := *ea
	merged.Expected = ea.Expected + " or " + eb.Expected
	return &merged
}

// Preceded runs first then second, keeping only the result of second.
func Preceded[A, B any](first Parser[A], second Parser[B]) Parser[B] {
	return func(input string) (string, B, error) {
		var zero B
		rest, _, err := first(input)
		if err != nil {
			return input, zero, err
		}
		return second(rest)
	}
}

// Terminated runs first then second, keeping only the result of first.
func Terminated[A, B any](first Parser[A], second Parser[B]) Parser[A] {
	return func(input string) (string, A, error) {
		var zero A
		rest, out, err := first(input)
		if err != nil {
			return input, zero, err
		}
		rest, _, err = second(rest)
		if err != nil {
			return input, zero, err
		}
		return rest, out, nil
	}
}

// Delimited runs open, inner and close in sequence, keeping only the result of inner.
func Delimited[A, B, C any](open Parser[A], inner Parser[B], close Parser[C]) Parser[B] {
	return Preceded(open, Terminated(inner, close))
}

// Map transforms the result of p with f.
func Map[A, B any](p Parser[A], f func(A) B) Parser[B] {
	return func(input string) (string, B, error) {
		var zero B
		rest, out, err := p(input)
		if err != nil {
			return input, zero, err
		}
		return rest, f(out), nil
	}
}

// Maybe holds the result of an optional parser.
type Maybe[T any] struct {
	Value T
	Ok    bool
}

// Opt runs p and succeeds without consuming input if p fails with an uncommitted error.
func Opt[T any](p Parser[T]) Parser[Maybe[T]] {
	return func(input string) (string, Maybe[T], error) {
		rest, out, err := p(input)
		if err != nil {
			if IsCommitted(err) {
				return input, Maybe[T]{}, err
			}
			return input, Maybe[T]{}, nil
		}
		return rest, Maybe[T]{Value: out, Ok: true}, nil
	}
}

// Alt tries each parser in order and returns the first success.
// A committed error stops the search immediately.
func Alt[T any](parsers ...Parser[T]) Parser[T] {
	return func(input string) (string, T, error) {
		var zero T
		var best error
		for _, p := range parsers {
			rest, out, err := p(input)
			if err == nil {
				return rest, out, nil
			}
			if IsCommitted(err) {
				return input, zero, err
			}
			best = furthest(best, err)
		}
		if best == nil {
			best = fail(input, "an alternative")
		}
		return input, zero, best
	}
}

// Many1 applies p until it fails, requiring at least one success.
func Many1[T any](p Parser[T]) Parser[[]T] {
	return func(input string) (string, []T, error) {
		rest, first, err := p(input)
		if err != nil {
			return input, nil, err
		}
		out := []T{first}
		for {
			next, item, err := p(rest)
			if err != nil {
				if IsCommitted(err) {
					return input, nil, err
				}
				return rest, out, nil
			}
			if len(next) == len(rest) {
				// p matched without consuming anything; stop rather than loop forever.
				return rest, out, nil
			}
			out = append(out, item)
			rest = next
		}
	}
}

// SeparatedList1 parses one or more p separated by sep.
// A separator that is not followed by an element is left unconsumed.
func SeparatedList1[T, S any](sep Parser[S], p Parser[T]) Parser[[]T] {
	return func(input string) (string, []T, error) {
		rest, first, err := p(input)
		if err != nil {
			return input, nil, err
		}
		out := []T{first}
		for {
			afterSep, _, err := sep(rest)
			if err != nil {
				if IsCommitted(err) {
					return input, nil, err
				}
				return rest, out, nil
			}
			next, item, err := p(afterSep)
			if err != nil {
				if IsCommitted(err) {
					return input, nil, err
				}
				return rest, out, nil
			}
			out = append(out, item)
			rest = next
		}
	}
}

// Cut marks any failure of p as committed.
func Cut[T any](p Parser[T]) Parser[T] {
	return func(input string) (string, T, error) {
		rest, out, err := p(input)
		if err != nil {
			var e *Error
			if errors.As(err, &e) && !e.Committed {
				committed := *e
				committed.Committed = true
				return input, out, &committed
			}
			return input, out, err
		}
		return rest, out, nil
	}
}

// Context names the grammar rule p implements. Only the innermost name is kept.
func Context[T any](name string, p Parser[T]) Parser[T] {
	return func(input string) (string, T, error) {
		rest, out, err := p(input)
		if err != nil {
			var e *Error
			if errors.As(err, &e) && e.Context == "" {
				named := *e
				named.Context = name
				return input, out, &named
			}
			return input, out, err
		}
		return rest, out, nil
	}
}

// Peek runs p without consuming input.
func Peek[T any](p Parser[T]) Parser[T] {
	return func(input string) (string, T, error) {
		_, out, err := p(input)
		if err != nil {
			return input, out, err
		}
		return input, out, nil
	}
}

// AllConsuming fails unless p consumes the whole input.
func AllConsuming[T any](p Parser[T]) Parser[T] {
	return func(input string) (string, T, error) {
		rest, out, err := p(input)
		if err != nil {
			return input, out, err
		}
		if rest != "" {
			var zero T
			return input, zero, fail(rest, "end of input")
		}
		return rest, out, nil
	}
}
