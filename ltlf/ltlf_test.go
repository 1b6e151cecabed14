// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

package ltlf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashConsing(t *testing.T) {
	a, b := Atom("a"), Atom("b")
	assert.Same(t, a, Atom("a"))
	assert.Same(t, And(a, b), And(b, a), "And arguments are sorted")
	assert.Same(t, Until(a, b), Until(a, b))
	assert.NotSame(t, Until(a, b), Until(b, a))
	assert.Same(t, And(a, And(a, b)), And(a, b), "And is flattened and deduplicated")
}

func TestConstructorSimplifications(t *testing.T) {
	a, b := Atom("a"), Atom("b")
	assert.Same(t, True(), And())
	assert.Same(t, a, And(a, True()))
	assert.Same(t, False(), And(a, False()))
	assert.Same(t, a, Or(a, False()))
	assert.Same(t, True(), Or(a, True()))
	assert.Same(t, a, Not(Not(a)))
	assert.Same(t, False(), Not(True()))
	assert.Same(t, b, Implies(True(), b))
	assert.Same(t, True(), Implies(a, a))
	assert.Same(t, Not(b), Xor(True(), b))
	assert.Same(t, False(), Xor(b, b))
	assert.Same(t, b, Until(False(), b))
	assert.Same(t, True(), Until(a, True()))
	assert.Same(t, Eventually(b), Until(True(), b))
	assert.Same(t, Globally(a), WeakUntil(a, False()))
	assert.Same(t, Globally(b), Release(False(), b))
	assert.Same(t, False(), StrongRelease(a, False()))
	assert.Same(t, Eventually(Atom("c")), Eventually(Eventually(Atom("c"))))
}

func TestIsBoolean(t *testing.T) {
	a, b := Atom("a"), Atom("b")
	assert.True(t, And(a, Not(b)).IsBoolean())
	assert.True(t, Implies(a, Xor(a, b)).IsBoolean())
	assert.False(t, And(a, Next(b)).IsBoolean())
	assert.False(t, Globally(a).IsBoolean())
}

func TestString(t *testing.T) {
	a, b := Atom("a"), Atom("b")
	var cases = []struct {
		f    *Formula
		want string
	}{
		{True(), "1"},
		{Not(a), "!a"},
		{Until(a, b), "a U b"},
		{Globally(Implies(a, Next(b))), "G (a -> X b)"},
		{StrongNext(a), "X[!] a"},
		{Implies(Until(a, b), b), "a U b -> b"},
		{Eventually(And(a, b)), "F (a & b)"},
	}
	for _, tt := range cases {
		assert.Equal(t, tt.want, tt.f.String())
	}
}

func TestCollectAtoms(t *testing.T) {
	f := Globally(Implies(Atom("req"), Next(Atom("grant"))))
	assert.Equal(t, []string{"grant", "req"}, CollectAtoms(f))
	assert.Empty(t, CollectAtoms(True()))
}

func TestTraverse(t *testing.T) {
	f := Until(Atom("a"), Not(Atom("b")))
	var count int
	Traverse(f, func(*Formula) bool { count++; return true })
	assert.Equal(t, 4, count)
}
