package config

import (
	"fmt"
	"strconv"
	"strings"
)

// TokenizeStr splits a brace list such as "{a,b,{c,d}}" into its top-level
// elements ["a", "b", "{c,d}"]. Nested braces and parentheses are kept intact.
// A string without outer braces is a single element.
func TokenizeStr(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if !hasOuterBraces(s) {
		return []string{s}
	}

	inner := s[1 : len(s)-1]
	tokens := []string{}
	depth := 0
	start := 0

	for i, r := range inner {
		switch r {
		case '{', '(':
			depth++
		case '}', ')':
			depth--
		case ',':
			if depth == 0 {
				tokens = append(tokens, strings.TrimSpace(inner[start:i]))
				start = i + 1
			}
		}
	}

	last := strings.TrimSpace(inner[start:])
	if last != "" || len(tokens) > 0 {
		tokens = append(tokens, last)
	}

	return tokens
}

func hasOuterBraces(s string) bool {
	if len(s) < 2 || s[0] != '{' || s[len(s)-1] != '}' {
		return false
	}

	depth := 0
	for i, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 && i != len(s)-1 {
				return false
			}
		}
	}

	return depth == 0
}

// TokenizeInt splits a brace list of integers.
func TokenizeInt(s string) ([]int, error) {
	tokens := TokenizeStr(s)
	values := make([]int, 0, len(tokens))

	for _, t := range tokens {
		v, err := strconv.Atoi(t)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer list: %w", s, err)
		}

		values = append(values, v)
	}

	return values, nil
}

// TokenizeFloat splits a brace list of numbers.
func TokenizeFloat(s string) ([]float64, error) {
	tokens := TokenizeStr(s)
	values := make([]float64, 0, len(tokens))

	for _, t := range tokens {
		v, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number list: %w", s, err)
		}

		values = append(values, v)
	}

	return values, nil
}

// BroadcastInts stretches or truncates values to n entries. Missing entries
// repeat the last given value.
func BroadcastInts(values []int, n int) []int {
	return broadcast(values, n)
}

// BroadcastStrs stretches or truncates values to n entries. Missing entries
// repeat the last given value.
func BroadcastStrs(values []string, n int) []string {
	return broadcast(values, n)
}

// BroadcastFloats stretches or truncates values to n entries. Missing entries
// repeat the last given value.
func BroadcastFloats(values []float64, n int) []float64 {
	return broadcast(values, n)
}

func broadcast[T any](values []T, n int) []T {
	if len(values) == 0 {
		panic("cannot broadcast an empty list")
	}

	out := make([]T, n)
	for i := 0; i < n; i++ {
		if i < len(values) {
			out[i] = values[i]
		} else {
			out[i] = values[len(values)-1]
		}
	}

	return out
}
