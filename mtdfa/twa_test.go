// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

package mtdfa

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ltlfsynt/ltlfsynt/mtbdd"
)

func TestAsAutomatonTransitionBased(t *testing.T) {
	dict := mtbdd.NewDict()
	dfa := translateOn(t, dict, "a U b")
	aut := dfa.AsAutomaton(false, true)
	assert.True(t, aut.IsDeterministic())
	// one state per MTDFA state, plus the accepting sink
	assert.Equal(t, dfa.NumRoots()+1, aut.NumStates())
}

func TestAsAutomatonStateBased(t *testing.T) {
	dict := mtbdd.NewDict()
	dfa := translateOn(t, dict, "a U b")
	aut := dfa.AsAutomaton(true, false)
	assert.True(t, aut.StateAcc)
	assert.True(t, aut.IsDeterministic())
}

// state-based export followed by import is a round trip modulo
// minimization (P8)
func TestAutomatonRoundTrip(t *testing.T) {
	for _, input := range []string{"a U b", "G (a -> X b)", "F a & G b"} {
		dict := mtbdd.NewDict()
		dfa := translateOn(t, dict, input)
		aut := dfa.AsAutomaton(true, false)
		back, err := FromAutomaton(aut, 0)
		require.NoError(t, err, input)
		sameLanguage(t, Minimize(back), Minimize(dfa))
	}
}

func TestFromAutomatonRejectsNondeterminism(t *testing.T) {
	dict := mtbdd.NewDict()
	dict.RegisterProposition("a", t)
	aut := NewAutomaton(dict)
	aut.NewStates(2)
	aut.NewEdge(0, 0, dict.Ithvar(0), false)
	aut.NewEdge(0, 1, dict.Ithvar(0), true)
	_, err := FromAutomaton(aut, 0)
	assert.ErrorIs(t, err, ErrNotDeterministic)
}

func TestMergeEdges(t *testing.T) {
	dict := mtbdd.NewDict()
	dict.RegisterProposition("a", t)
	aut := NewAutomaton(dict)
	aut.NewStates(2)
	aut.NewEdge(0, 1, dict.Ithvar(0), false)
	aut.NewEdge(0, 1, dict.NIthvar(0), false)
	aut.MergeEdges()
	out := aut.Out(0)
	require.Len(t, out, 1)
	assert.Equal(t, mtbdd.True, out[0].Cond)
}

func TestAutomatonPrintDot(t *testing.T) {
	dict := mtbdd.NewDict()
	dfa := translateOn(t, dict, "F a")
	aut := dfa.AsAutomaton(false, true)
	var sb strings.Builder
	aut.PrintDot(&sb)
	assert.Contains(t, sb.String(), "digraph")
}

func TestMTDFAPrintDot(t *testing.T) {
	dict := mtbdd.NewDict()
	dfa := translateOn(t, dict, "G (a -> X b)")
	var sb strings.Builder
	dfa.PrintDot(&sb, -1, true)
	out := sb.String()
	assert.Contains(t, out, "digraph mtdfa")
	assert.Contains(t, out, "S0")
}
