// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

package ltlf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBasics(t *testing.T) {
	a, b, c := Atom("a"), Atom("b"), Atom("c")
	var cases = []struct {
		input string
		want  *Formula
	}{
		{"a", a},
		{"1", True()},
		{"0", False()},
		{"true", True()},
		{"ff", False()},
		{"!a", Not(a)},
		{"a & b", And(a, b)},
		{"a && b", And(a, b)},
		{"a | b | c", Or(a, b, c)},
		{"a -> b", Implies(a, b)},
		{"a <-> b", Equiv(a, b)},
		{"a xor b", Xor(a, b)},
		{"X a", Next(a)},
		{"X[!] a", StrongNext(a)},
		{"F a", Eventually(a)},
		{"G a", Globally(a)},
		{"a U b", Until(a, b)},
		{"a W b", WeakUntil(a, b)},
		{"a R b", Release(a, b)},
		{"a M b", StrongRelease(a, b)},
		{"(a)", a},
	}
	for _, tt := range cases {
		got, err := Parse(tt.input)
		require.NoError(t, err, tt.input)
		assert.Same(t, tt.want, got, tt.input)
	}
}

func TestParsePrecedence(t *testing.T) {
	a, b, c := Atom("a"), Atom("b"), Atom("c")
	var cases = []struct {
		input string
		want  *Formula
	}{
		{"a & b | c", Or(And(a, b), c)},
		{"a | b & c", Or(a, And(b, c))},
		{"a -> b | c", Implies(a, Or(b, c))},
		{"a -> b -> c", Implies(a, Implies(b, c))},
		{"a U b U c", Until(a, Until(b, c))},
		{"a U b & c", And(Until(a, b), c)},
		{"!a U b", Until(Not(a), b)},
		{"X a U b", Until(Next(a), b)},
		{"G (a -> X b)", Globally(Implies(a, Next(b)))},
		{"F G a", Eventually(Globally(a))},
		{"a <-> b -> c", Equiv(a, Implies(b, c))},
	}
	for _, tt := range cases {
		got, err := Parse(tt.input)
		require.NoError(t, err, tt.input)
		assert.Same(t, tt.want, got, tt.input)
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{"", "a &", "(a", "U a", "a b"} {
		_, err := Parse(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, input := range []string{
		"G (req -> X grant)",
		"a U b -> F c",
		"!(a & b) | X[!] c",
		"G F a <-> F G a",
	} {
		f, err := Parse(input)
		require.NoError(t, err)
		back, err := Parse(f.String())
		require.NoError(t, err)
		assert.Same(t, f, back, "round trip of %q", input)
	}
}
