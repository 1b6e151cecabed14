// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

package mtdfa

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ltlfsynt/ltlfsynt/ltlf"
	"github.com/ltlfsynt/ltlfsynt/mtbdd"
)

// step follows the transition of one state under an assignment of
// proposition names. It returns the destination state (-1 for the
// True sink, -2 for a rejected letter) and the accepting bit.
func step(dfa *MTDFA, state int, assign map[string]bool) (int, bool) {
	b := dfa.Dict()
	n := dfa.States[state]
	for !b.IsLeaf(n) {
		name, _ := b.VarName(b.Var(n))
		if assign[name] {
			n = b.High(n)
		} else {
			n = b.Low(n)
		}
	}
	switch n {
	case mtbdd.False:
		return -2, false
	case mtbdd.True:
		return -1, true
	}
	v := b.TerminalValue(n)
	return v / 2, v&1 == 1
}

// accepts runs a word (a sequence of assignments) through the
// automaton.
func accepts(dfa *MTDFA, word []map[string]bool) bool {
	state := 0
	acc := false
	for _, letter := range word {
		if state == -1 {
			return true
		}
		state, acc = step(dfa, state, letter)
		if state == -2 {
			return false
		}
	}
	return acc || state == -1
}

// translate is a shorthand for the direct translation over a fresh
// dictionary.
func translate(t *testing.T, input string) *MTDFA {
	t.Helper()
	f, err := ltlf.Parse(input)
	require.NoError(t, err)
	return LtlfToMTDFA(f, mtbdd.NewDict(), true, true, true)
}

// sameLanguage checks language equality through the symmetric
// difference, which must be empty.
func sameLanguage(t *testing.T, a, b *MTDFA) {
	t.Helper()
	x, err := ProductXor(a, b)
	require.NoError(t, err)
	assert.True(t, x.IsEmpty(), "languages differ")
}

func TestTranslateConstants(t *testing.T) {
	top := translate(t, "1")
	assert.Equal(t, 1, top.NumRoots())
	assert.Equal(t, mtbdd.True, top.States[0])
	assert.False(t, top.IsEmpty())

	bot := translate(t, "0")
	assert.Equal(t, 1, bot.NumRoots())
	assert.Equal(t, mtbdd.False, bot.States[0])
	assert.True(t, bot.IsEmpty())
}

func TestTranslateAtom(t *testing.T) {
	dfa := translate(t, "a")
	require.Equal(t, 1, dfa.NumRoots())
	b := dfa.Dict()
	root := dfa.States[0]
	require.False(t, b.IsLeaf(root))
	name, _ := b.VarName(b.Var(root))
	assert.Equal(t, "a", name)
	assert.Equal(t, mtbdd.True, b.High(root))
	assert.Equal(t, mtbdd.False, b.Low(root))
	assert.Equal(t, []string{"a"}, dfa.APs)
}

func TestTranslateStrongNextTrue(t *testing.T) {
	// X[!] 1 needs one more step: the initial state transitions
	// unconditionally to an accepting sink
	dfa := translate(t, "X[!] 1")
	require.Equal(t, 2, dfa.NumRoots())
	b := dfa.Dict()
	root := dfa.States[0]
	require.True(t, b.IsTerminal(root))
	v := b.TerminalValue(root)
	assert.Equal(t, 1, v/2)
	assert.Zero(t, v&1)
	assert.Equal(t, mtbdd.True, dfa.States[1])
	assert.False(t, dfa.IsEmpty())
}

func TestTranslateGlobally(t *testing.T) {
	// G a: a single state looping on a=1 with the accepting bit set
	dfa := translate(t, "G a")
	require.Equal(t, 1, dfa.NumRoots())
	dst, acc := step(dfa, 0, map[string]bool{"a": true})
	assert.Equal(t, 0, dst)
	assert.True(t, acc)
	dst, _ = step(dfa, 0, map[string]bool{"a": false})
	assert.Equal(t, -2, dst)
	assert.False(t, dfa.IsEmpty())

	st := dfa.GetStats(true, true)
	want := Stats{States: 1, APs: 1, Nodes: 1, Terminals: 1,
		HasTrue: false, HasFalse: true, Edges: 2, Paths: 2}
	if diff := cmp.Diff(want, st); diff != "" {
		t.Errorf("unexpected stats (-want +got):\n%s", diff)
	}
}

func TestTranslateEventually(t *testing.T) {
	dfa := Minimize(translate(t, "F a"))
	require.Equal(t, 1, dfa.NumRoots())
	dst, acc := step(dfa, 0, map[string]bool{"a": true})
	assert.Equal(t, -1, dst)
	assert.True(t, acc)
	dst, acc = step(dfa, 0, map[string]bool{"a": false})
	assert.Equal(t, 0, dst)
	assert.False(t, acc)
	assert.False(t, dfa.IsEmpty())
}

func TestTranslateUntil(t *testing.T) {
	dfa := Minimize(translate(t, "a U b"))
	// b=1 accepts, a=1 & b=0 loops, otherwise dead
	dst, acc := step(dfa, 0, map[string]bool{"b": true})
	assert.Equal(t, -1, dst)
	assert.True(t, acc)
	dst, acc = step(dfa, 0, map[string]bool{"a": true})
	assert.Equal(t, 0, dst)
	assert.False(t, acc)
	dst, _ = step(dfa, 0, map[string]bool{})
	assert.Equal(t, -2, dst)
}

func TestAcceptsWords(t *testing.T) {
	dfa := translate(t, "a U b")
	A := map[string]bool{"a": true}
	B := map[string]bool{"b": true}
	N := map[string]bool{}
	assert.True(t, accepts(dfa, []map[string]bool{B}))
	assert.True(t, accepts(dfa, []map[string]bool{A, A, B}))
	assert.False(t, accepts(dfa, []map[string]bool{A}))
	assert.False(t, accepts(dfa, []map[string]bool{N, B}))
	assert.False(t, accepts(dfa, nil))
}

// terminals always point below the state count (P1)
func TestTerminalsInRange(t *testing.T) {
	for _, input := range []string{
		"a U b", "G (a -> X b)", "F a & G b", "(a U b) xor F c",
		"G (a -> F b)",
	} {
		dfa := translate(t, input)
		b := dfa.Dict()
		for _, root := range dfa.States {
			for _, leaf := range b.Leaves(root) {
				if b.IsTerminal(leaf) {
					assert.Less(t, b.TerminalValue(leaf)/2, dfa.NumRoots(), input)
				}
			}
		}
	}
}

func TestFormulaToIntStable(t *testing.T) {
	dict := mtbdd.NewDict()
	tr := NewTranslator(dict, true)
	defer tr.Close()
	f := ltlf.MustParse("a U b")
	id := tr.FormulaToInt(f)
	assert.Equal(t, id, tr.FormulaToInt(f))
	assert.Same(t, f, tr.TerminalToFormula(2*id))
	assert.Equal(t, 2*id+1, tr.FormulaToTerminal(f, true))
}

func TestPropositionalEquivalence(t *testing.T) {
	dict := mtbdd.NewDict()
	tr := NewTranslator(dict, true)
	defer tr.Close()
	// propositionally equivalent formulas share an id
	f1 := ltlf.MustParse("a | b")
	f2 := ltlf.MustParse("b | a | (a & b)")
	assert.Equal(t, tr.FormulaToInt(f1), tr.FormulaToInt(f2))
	// the redundancy rewrites collapse (a U b) | b
	f3 := ltlf.MustParse("(a U b) | b")
	f4 := ltlf.MustParse("a U b")
	assert.Equal(t, tr.FormulaToInt(f3), tr.FormulaToInt(f4))
	// G a & a reduces to G a
	f5 := ltlf.MustParse("G a & a")
	f6 := ltlf.MustParse("G a")
	assert.Equal(t, tr.FormulaToInt(f5), tr.FormulaToInt(f6))
}

func TestDetectEmptyUniverse(t *testing.T) {
	// a tautology produces no rejecting leaf, so it collapses to the
	// universal automaton.
	f := ltlf.MustParse("a | !a")
	dfa := LtlfToMTDFA(f, mtbdd.NewDict(), true, true, true)
	assert.Equal(t, 1, dfa.NumRoots())
	assert.Equal(t, mtbdd.True, dfa.States[0])
}
