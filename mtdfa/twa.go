// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

package mtdfa

import (
	"fmt"
	"io"
	"strings"

	"github.com/ltlfsynt/ltlfsynt/mtbdd"
)

// Automaton is an explicit transition-based automaton over BDD
// labels: the target of AsAutomaton and the representation of the
// Mealy machines extracted from strategies. State 0 is initial.
type Automaton struct {
	dict *mtbdd.Dict

	numStates int
	edges     []Edge
	out       [][]int // edge indices, per source state

	// Names are optional state labels.
	Names []string

	// StateAcc marks automata with state-based acceptance.
	StateAcc bool

	// SynthesisOutputs is the cube of controllable variables of a
	// Mealy machine, True otherwise.
	SynthesisOutputs mtbdd.Node
}

// Edge is a transition labeled by a BDD over the atomic
// propositions. Acc marks accepting transitions.
type Edge struct {
	Src  int
	Dst  int
	Cond mtbdd.Node
	Acc  bool
}

// NewAutomaton returns an empty automaton over dict.
func NewAutomaton(dict *mtbdd.Dict) *Automaton {
	return &Automaton{dict: dict, SynthesisOutputs: mtbdd.True}
}

// Dict returns the dictionary of the automaton.
func (a *Automaton) Dict() *mtbdd.Dict {
	return a.dict
}

// NumStates returns the number of states.
func (a *Automaton) NumStates() int {
	return a.numStates
}

// NewState creates a state and returns its index.
func (a *Automaton) NewState() int {
	a.out = append(a.out, nil)
	a.numStates++
	return a.numStates - 1
}

// NewStates creates n states.
func (a *Automaton) NewStates(n int) {
	for i := 0; i < n; i++ {
		a.NewState()
	}
}

// NewEdge adds a transition and returns its index.
func (a *Automaton) NewEdge(src, dst int, cond mtbdd.Node, acc bool) int {
	a.edges = append(a.edges, Edge{Src: src, Dst: dst, Cond: cond, Acc: acc})
	idx := len(a.edges) - 1
	a.out[src] = append(a.out[src], idx)
	return idx
}

// Edge returns a pointer to the idx'th edge.
func (a *Automaton) Edge(idx int) *Edge {
	return &a.edges[idx]
}

// Out returns the edges leaving state s.
func (a *Automaton) Out(s int) []*Edge {
	res := make([]*Edge, 0, len(a.out[s]))
	for _, idx := range a.out[s] {
		res = append(res, &a.edges[idx])
	}
	return res
}

// MergeEdges fuses the transitions sharing source, destination and
// acceptance by or-ing their labels.
func (a *Automaton) MergeEdges() {
	type ekey struct {
		dst int
		acc bool
	}
	newEdges := make([]Edge, 0, len(a.edges))
	newOut := make([][]int, a.numStates)
	for s := 0; s < a.numStates; s++ {
		merged := make(map[ekey]int)
		for _, idx := range a.out[s] {
			e := a.edges[idx]
			k := ekey{e.Dst, e.Acc}
			if pos, ok := merged[k]; ok {
				newEdges[pos].Cond = a.dict.Or(newEdges[pos].Cond, e.Cond)
				continue
			}
			newEdges = append(newEdges, e)
			pos := len(newEdges) - 1
			merged[k] = pos
			newOut[s] = append(newOut[s], pos)
		}
	}
	a.edges = newEdges
	a.out = newOut
}

// IsDeterministic reports whether no two transitions out of a state
// overlap.
func (a *Automaton) IsDeterministic() bool {
	for s := 0; s < a.numStates; s++ {
		outs := a.out[s]
		for i := 0; i < len(outs); i++ {
			for j := i + 1; j < len(outs); j++ {
				if a.dict.And(a.edges[outs[i]].Cond, a.edges[outs[j]].Cond) != mtbdd.False {
					return false
				}
			}
		}
	}
	return true
}

// labelString prints a transition label as a disjunction of cubes.
func (a *Automaton) labelString(cond mtbdd.Node) string {
	switch cond {
	case mtbdd.True:
		return "1"
	case mtbdd.False:
		return "0"
	}
	var cubes []string
	a.dict.EachPath(cond, func(cube mtbdd.Node, leaf mtbdd.Node) {
		if leaf != mtbdd.True {
			return
		}
		var lits []string
		for c := cube; !a.dict.IsConst(c); {
			v := a.dict.Var(c)
			name, ok := a.dict.VarName(v)
			if !ok {
				name = fmt.Sprintf("var%d", v)
			}
			if a.dict.Low(c) == mtbdd.False {
				lits = append(lits, name)
				c = a.dict.High(c)
			} else {
				lits = append(lits, "!"+name)
				c = a.dict.Low(c)
			}
		}
		if len(lits) == 0 {
			cubes = append(cubes, "1")
			return
		}
		cubes = append(cubes, strings.Join(lits, " & "))
	})
	return strings.Join(cubes, " | ")
}

// PrintDot writes a Graphviz view of the automaton. Accepting
// transitions carry a "⓿" marker after their label; states are drawn
// alike whatever the acceptance.
func (a *Automaton) PrintDot(w io.Writer) {
	fmt.Fprintln(w, "digraph automaton {")
	fmt.Fprintln(w, "    rankdir=LR;")
	for s := 0; s < a.numStates; s++ {
		label := fmt.Sprint(s)
		if s < len(a.Names) && a.Names[s] != "" {
			label = a.Names[s]
		}
		fmt.Fprintf(w, "    q%d [shape=circle, label=\"%s\"];\n", s, dotEscape(label))
	}
	fmt.Fprintln(w, "    _start [shape=point];")
	if a.numStates > 0 {
		fmt.Fprintln(w, "    _start -> q0;")
	}
	for _, e := range a.edges {
		marker := ""
		if e.Acc {
			marker = " ⓿"
		}
		fmt.Fprintf(w, "    q%d -> q%d [label=\"%s%s\"];\n",
			e.Src, e.Dst, dotEscape(a.labelString(e.Cond)), marker)
	}
	fmt.Fprintln(w, "}")
}

// AsAutomaton converts the MTDFA into an explicit automaton. In the
// default transition-based form, states map one-to-one and each
// root-to-leaf path becomes one edge, accepting when the leaf is.
// With stateBased set, the result's states are the leaves of the
// MTDFA (pairs of destination and accepting bit), so that acceptance
// can be carried by states. With labels, state names are attached.
func (a *MTDFA) AsAutomaton(stateBased, labels bool) *Automaton {
	b := a.dict
	res := NewAutomaton(b)
	res.StateAcc = stateBased
	n := len(a.States)
	wantNames := labels && len(a.Names) == n

	if !stateBased {
		res.NewStates(n)
		if wantNames {
			for i := 0; i < n; i++ {
				res.Names = append(res.Names, a.stateName(i))
			}
		}
		trueState := -1
		for i := 0; i < n; i++ {
			b.EachPath(a.States[i], func(cube, leaf mtbdd.Node) {
				if leaf != mtbdd.True {
					v := b.TerminalValue(leaf)
					res.NewEdge(i, v/2, cube, v&1 == 1)
					return
				}
				if trueState == -1 {
					trueState = res.NewState()
					res.NewEdge(trueState, trueState, mtbdd.True, true)
					if wantNames {
						res.Names = append(res.Names, "1")
					}
				}
				res.NewEdge(i, trueState, cube, true)
			})
		}
		res.MergeEdges()
		return res
	}

	// state-based: one state per distinct leaf of the MTDFA
	bddToState := make(map[mtbdd.Node]int)
	var states []mtbdd.Node
	initState := b.Terminal(0)
	states = append(states, initState)
	bddToState[initState] = res.NewState()
	var deadAcc []int

	for i := 0; i < len(states); i++ {
		src := states[i]
		if src == mtbdd.True {
			res.NewEdge(i, i, mtbdd.True, true)
			if wantNames {
				res.Names = append(res.Names, "1")
			}
			continue
		}
		term := b.TerminalValue(src)
		acc := term&1 == 1
		term /= 2
		if wantNames {
			res.Names = append(res.Names, a.stateName(term))
		}
		hasEdge := false
		b.EachPath(a.States[term], func(cube, leaf mtbdd.Node) {
			dst, ok := bddToState[leaf]
			if !ok {
				dst = res.NewState()
				bddToState[leaf] = dst
				states = append(states, leaf)
			}
			res.NewEdge(i, dst, cube, acc)
			hasEdge = true
		})
		if acc && !hasEdge {
			deadAcc = append(deadAcc, i)
		}
	}
	res.MergeEdges()
	// only add the false self-loops after MergeEdges
	for _, i := range deadAcc {
		res.NewEdge(i, i, mtbdd.False, true)
	}
	return res
}

// FromAutomaton converts a deterministic, complete, explicit DFA
// back into an MTDFA. Sink states (accepting true self-loop) are
// dropped in favor of the True constant, and the initial state is
// remapped to 0.
func FromAutomaton(twa *Automaton, init int) (*MTDFA, error) {
	if !twa.IsDeterministic() {
		return nil, ErrNotDeterministic
	}
	b := twa.dict
	dfa := New(b)
	n := twa.NumStates()

	// remap states so that the initial state is 0 and sinks vanish
	remap := make([]int, n)
	next := 1
	for i := 0; i < n; i++ {
		if i == init {
			remap[i] = 0
			continue
		}
		sink := false
		for _, e := range twa.Out(i) {
			if e.Dst == i && e.Acc && e.Cond == mtbdd.True {
				sink = true
				break
			}
		}
		if sink {
			remap[i] = -1
			continue
		}
		remap[i] = next
		next++
	}

	dfa.States = make([]mtbdd.Node, next)
	sbacc := twa.StateAcc
	stateIsAccepting := func(s int) bool {
		for _, e := range twa.Out(s) {
			if e.Acc {
				return true
			}
		}
		return false
	}
	cache := mtbdd.NewExtCache(1 << 12)
	key := 0
	// union of transitions with pairwise-disjoint labels: where one
	// side has a leaf the other is False
	disjointOr := func(l, r mtbdd.Node) mtbdd.Node {
		key++
		return b.Apply2Leaves(l, r, func(lb mtbdd.Node, _ int, rb mtbdd.Node, _ int) mtbdd.Node {
			if lb == mtbdd.False {
				return rb
			}
			return lb
		}, cache, key, mtbdd.OPnone)
	}
	for i := 0; i < n; i++ {
		state := remap[i]
		if state == -1 { // sink
			continue
		}
		root := mtbdd.False
		for _, e := range twa.Out(i) {
			var leaf mtbdd.Node
			dst := remap[e.Dst]
			switch {
			case dst == -1: // sink
				leaf = mtbdd.True
			case sbacc && stateIsAccepting(e.Dst):
				leaf = b.Terminal(2*dst + 1)
			case !sbacc && e.Acc:
				leaf = b.Terminal(2*dst + 1)
			default:
				leaf = b.Terminal(2 * dst)
			}
			key++
			withLeaf := b.Apply1Leaves(e.Cond, func(l mtbdd.Node, _ int) mtbdd.Node {
				if l == mtbdd.True {
					return leaf
				}
				return l
			}, cache, key)
			root = disjointOr(root, withLeaf)
		}
		dfa.States[state] = root
	}
	return dfa, nil
}
