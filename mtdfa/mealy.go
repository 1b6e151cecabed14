// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

package mtdfa

import "github.com/ltlfsynt/ltlfsynt/mtbdd"

// StrategyToMealy converts a strategy MTDFA into a transition-based
// Mealy machine: one edge per root-to-terminal path, labeled by the
// path's cube. Consecutive edges sharing both the destination and
// the controllable projection of their label are merged by union of
// labels. The SynthesisOutputs attribute of the result is the cube
// of controllable variables.
func StrategyToMealy(strategy *MTDFA, labels bool) *Automaton {
	b := strategy.Dict()
	res := NewAutomaton(b)
	b.RegisterAllPropositionsOf(strategy, res)

	outputs := strategy.ControllableVariables()
	res.SynthesisOutputs = outputs

	wantNames := labels && len(strategy.Names) == len(strategy.States)

	bddToState := make(map[mtbdd.Node]int)
	var states []mtbdd.Node

	// mapState interns a result state by the MTBDD of its
	// successors; stateIndex < 0 stands for the accepting sink
	// (successors True).
	mapState := func(stateIndex int) int {
		succs := mtbdd.True
		if stateIndex >= 0 {
			succs = strategy.States[stateIndex]
		}
		if s, ok := bddToState[succs]; ok {
			return s
		}
		s := res.NewState()
		bddToState[succs] = s
		states = append(states, succs)
		if wantNames {
			if stateIndex >= 0 {
				res.Names = append(res.Names, strategy.stateName(stateIndex))
			} else {
				res.Names = append(res.Names, "1")
			}
		}
		return s
	}

	mapState(0)
	// states grows while we iterate
	for i := 0; i < len(states); i++ {
		succs := states[i]
		if succs == mtbdd.False {
			continue
		}
		if succs == mtbdd.True {
			res.NewEdge(i, i, mtbdd.True, false)
			continue
		}
		previousOutputLabel := mtbdd.False
		previousDst := -1
		previousEdge := -1
		b.EachPath(succs, func(cube, leaf mtbdd.Node) {
			dst := -1
			if leaf != mtbdd.True {
				term := b.TerminalValue(leaf)
				if term&1 == 0 {
					dst = term / 2
				}
			}
			dstIdx := mapState(dst)
			outputLabel := b.ExistComp(cube, outputs)
			if previousEdge >= 0 && previousDst == dstIdx &&
				previousOutputLabel == outputLabel {
				e := res.Edge(previousEdge)
				e.Cond = b.Or(e.Cond, cube)
				return
			}
			previousEdge = res.NewEdge(i, dstIdx, cube, false)
			previousDst = dstIdx
			previousOutputLabel = outputLabel
		})
	}
	return res
}
