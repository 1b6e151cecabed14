// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

package mtdfa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ltlfsynt/ltlfsynt/mtbdd"
)

func TestMinimizePreservesLanguage(t *testing.T) {
	dict := mtbdd.NewDict()
	for _, input := range []string{
		"a U b", "F a & G b", "G (a -> X b)", "(F a) xor (G b)",
		"X X a", "a U (b U c)",
	} {
		dfa := translateOn(t, dict, input)
		min := Minimize(dfa)
		sameLanguage(t, dfa, min)
		assert.LessOrEqual(t, min.NumRoots(), dfa.NumRoots(), input)
	}
}

func TestMinimizeNoDuplicateRoots(t *testing.T) {
	dict := mtbdd.NewDict()
	for _, input := range []string{
		"X X a", "F (a & X b)", "G (a -> X b)", "a U (b U c)",
	} {
		min := Minimize(translateOn(t, dict, input))
		seen := make(map[mtbdd.Node]bool)
		for _, root := range min.States {
			assert.False(t, seen[root], "duplicate root in minimization of %s", input)
			seen[root] = true
		}
	}
}

func TestMinimizeToConstant(t *testing.T) {
	dict := mtbdd.NewDict()
	// (F a) | (G !a) accepts every nonempty word
	dfa := translateOn(t, dict, "F a | G !a")
	min := Minimize(dfa)
	require.Equal(t, 1, min.NumRoots())
	assert.Equal(t, mtbdd.True, min.States[0])

	// F a & G !a accepts nothing
	dfa2 := translateOn(t, dict, "F a & G !a")
	min2 := Minimize(dfa2)
	require.Equal(t, 1, min2.NumRoots())
	assert.Equal(t, mtbdd.False, min2.States[0])
}

func TestMinimizeIdempotent(t *testing.T) {
	dict := mtbdd.NewDict()
	min := Minimize(translateOn(t, dict, "G (a -> X b)"))
	again := Minimize(min)
	assert.Equal(t, min.NumRoots(), again.NumRoots())
	sameLanguage(t, min, again)
}

func TestMinimizeKeepsNames(t *testing.T) {
	dict := mtbdd.NewDict()
	dfa := translateOn(t, dict, "a U b")
	min := Minimize(dfa)
	assert.Len(t, min.Names, min.NumRoots())
}
