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

func TestMealyFromStrategy(t *testing.T) {
	dfa := gameFor(t, "X[!] (i <-> g)", []string{"g"})
	strat := WinningStrategy(dfa, true)
	require.NotEqual(t, mtbdd.False, strat.States[0])

	mealy := StrategyToMealy(strat, true)
	assert.Equal(t, strat.ControllableVariables(), mealy.SynthesisOutputs)
	assert.Greater(t, mealy.NumStates(), 0)

	// every state must react to every input: the disjunction of
	// the outgoing labels, projected on the inputs, is total
	b := mealy.Dict()
	for s := 0; s < mealy.NumStates(); s++ {
		all := mtbdd.False
		for _, e := range mealy.Out(s) {
			all = b.Or(all, e.Cond)
		}
		inputs := b.Exist(all, mealy.SynthesisOutputs)
		assert.Equal(t, mtbdd.True, inputs, "state %d is not input-complete", s)
	}
}

func TestMealyOutputObligation(t *testing.T) {
	// in the second step the system must match the input of the
	// first: every surviving transition constrains the output
	dfa := gameFor(t, "X[!] (i <-> g)", []string{"g"})
	strat := WinningStrategy(dfa, true)
	b := strat.Dict()

	dst, _ := step(strat, 0, map[string]bool{"i": true, "g": true})
	require.GreaterOrEqual(t, dst, 0)
	root := strat.States[dst]
	paths := 0
	b.EachPath(root, func(cube, leaf mtbdd.Node) {
		paths++
		hasG := false
		for c := cube; !b.IsLeaf(c); c = next(b, c) {
			if name, _ := b.VarName(b.Var(c)); name == "g" {
				hasG = true
			}
		}
		assert.True(t, hasG, "a strategy path leaves the output unconstrained")
	})
	assert.Greater(t, paths, 0)
}

// next follows the live branch of a cube node.
func next(b *mtbdd.Dict, c mtbdd.Node) mtbdd.Node {
	if b.Low(c) == mtbdd.False {
		return b.High(c)
	}
	return b.Low(c)
}

func TestMealyTrivialStrategy(t *testing.T) {
	// with a weak next the system may stop immediately, so the
	// strategy accepts everywhere and the machine degenerates to
	// the initial state plus the accepting sink
	dfa := gameFor(t, "G (req -> X grant)", []string{"grant"})
	strat := WinningStrategy(dfa, true)
	require.NotEqual(t, mtbdd.False, strat.States[0])
	mealy := StrategyToMealy(strat, false)
	assert.GreaterOrEqual(t, mealy.NumStates(), 1)
	assert.LessOrEqual(t, mealy.NumStates(), 2)
}
