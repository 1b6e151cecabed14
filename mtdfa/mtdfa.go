// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

// Package mtdfa translates LTLf formulas into transition-based
// deterministic finite automata represented with multi-terminal
// BDDs, combines and minimizes such automata, and solves the
// two-player reachability game used for reactive synthesis.
//
// An MTDFA stores one MTBDD per state: the root-to-leaf paths of
// states[i] are the outgoing transitions of state i, and each leaf
// is either a Boolean constant or a terminal whose value encodes
// 2·destination + accepting_bit. The accepting bit says that the
// input word may stop on this transition and be accepted.
package mtdfa

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ltlfsynt/ltlfsynt/ltlf"
	"github.com/ltlfsynt/ltlfsynt/mtbdd"
)

// MTDFA is a deterministic finite automaton over finite words whose
// transition function is represented by one MTBDD per state. State 0
// is the initial state. A single-state automaton whose root is the
// constant False (resp. True) denotes the empty (resp. universal)
// language; this is the only form in which the constants appear as
// roots.
type MTDFA struct {
	dict *mtbdd.Dict

	// States[i] is the MTBDD rooted at state i.
	States []mtbdd.Node

	// Names[i] is an optional display label for state i.
	Names []*ltlf.Formula

	// APs is the ordered list of atomic propositions of the
	// automaton.
	APs []string

	controllable mtbdd.Node
}

// New returns an empty automaton attached to dict.
func New(dict *mtbdd.Dict) *MTDFA {
	return &MTDFA{dict: dict, controllable: mtbdd.True}
}

// Dict returns the BDD dictionary of the automaton.
func (a *MTDFA) Dict() *mtbdd.Dict {
	return a.dict
}

// NumRoots returns the number of states.
func (a *MTDFA) NumRoots() int {
	return len(a.States)
}

// ControllableVariables returns the cube of the variables owned by
// the system player; True when no variable is controllable.
func (a *MTDFA) ControllableVariables() mtbdd.Node {
	return a.controllable
}

// SetControllableVariables declares the cube of system variables.
func (a *MTDFA) SetControllableVariables(vars mtbdd.Node) {
	a.controllable = vars
}

// SetControllableNames declares the system variables by name. Names
// that are not registered for this automaton are an error, unless
// ignoreUnregistered is set.
func (a *MTDFA) SetControllableNames(names []string, ignoreUnregistered bool) error {
	cube := mtbdd.True
	for _, s := range names {
		v := a.dict.HasRegisteredProposition(s, a)
		if v < 0 {
			if ignoreUnregistered {
				continue
			}
			return fmt.Errorf("atomic proposition %s is not registered by automaton", s)
		}
		cube = a.dict.And(cube, a.dict.Ithvar(v))
	}
	a.controllable = cube
	return nil
}

// Release drops the automaton's references on the dictionary
// variables. The automaton must not be used afterwards.
func (a *MTDFA) Release() {
	a.dict.UnregisterAll(a)
	a.States = nil
	a.Names = nil
}

// IsEmpty reports whether the automaton accepts no word: no leaf of
// any state is accepting.
func (a *MTDFA) IsEmpty() bool {
	for _, root := range a.States {
		for _, leaf := range a.dict.Leaves(root) {
			if leaf == mtbdd.True {
				return false
			}
			if a.dict.IsTerminal(leaf) && a.dict.TerminalValue(leaf)&1 == 1 {
				return false
			}
		}
	}
	return true
}

// Stats describes the size of an MTDFA, see GetStats.
type Stats struct {
	States    int
	APs       int
	Nodes     int
	Terminals int
	HasTrue   bool
	HasFalse  bool
	Edges     int
	Paths     int
}

// GetStats returns size statistics. Node counts are gathered only
// when nodes is set, and edge/path counts only when paths is set,
// because both require a traversal.
func (a *MTDFA) GetStats(nodes, paths bool) Stats {
	res := Stats{States: len(a.States), APs: len(a.APs)}
	if nodes {
		res.Nodes, res.Terminals, res.HasFalse, res.HasTrue = a.dict.NodeCount(a.States)
	}
	if paths {
		terms := make(map[mtbdd.Node]struct{})
		for _, root := range a.States {
			clear(terms)
			a.dict.EachPathLeaf(root, func(leaf mtbdd.Node) {
				res.Paths++
				terms[leaf] = struct{}{}
			})
			res.Edges += len(terms)
		}
	}
	return res
}

// apUnion returns the sorted union of two sorted AP lists.
func apUnion(left, right []string) []string {
	res := make([]string, 0, len(left)+len(right))
	i, j := 0, 0
	for i < len(left) && j < len(right) {
		switch {
		case left[i] == right[j]:
			res = append(res, left[i])
			i++
			j++
		case left[i] < right[j]:
			res = append(res, left[i])
			i++
		default:
			res = append(res, right[j])
			j++
		}
	}
	res = append(res, left[i:]...)
	res = append(res, right[j:]...)
	return res
}

// stateName returns a printable label for state i.
func (a *MTDFA) stateName(i int) string {
	if i < len(a.Names) && a.Names[i] != nil {
		return a.Names[i].String()
	}
	return fmt.Sprint(i)
}

// PrintDot writes a Graphviz view of the automaton on w. When state
// is a valid index only this state is drawn, otherwise all of them.
// With labels set, states are labeled by their formula names instead
// of their numbers. Decision nodes on controllable variables are
// drawn as diamonds, accepting leaves with a double border.
func (a *MTDFA) PrintDot(w io.Writer, state int, labels bool) {
	controllable := make(map[int]bool)
	for _, v := range a.dict.Scanset(a.controllable) {
		controllable[v] = true
	}

	fmt.Fprintf(w, "digraph mtdfa {\n  rankdir=TB;\n  node [shape=circle];\n")
	var edges strings.Builder

	statemin, statemax := 0, len(a.States)
	if state >= 0 && state < statemax {
		statemin, statemax = state, state+1
	} else {
		fmt.Fprintf(w, "  I [label=\"\", style=invis, width=0];\n")
		edges.WriteString("  I -> S0;\n")
	}

	for i := statemin; i < statemax; i++ {
		label := fmt.Sprint(i)
		if labels {
			label = a.stateName(i)
		}
		fmt.Fprintf(w, "  S%d [shape=box, style=\"filled,rounded\", fillcolor=\"#e9f4fb\", label=\"%s\"];\n",
			i, dotEscape(label))
		fmt.Fprintf(&edges, "  S%d -> B%d;\n", i, a.States[i])
	}

	seen := make(map[mtbdd.Node]bool)
	var todo []mtbdd.Node
	for i := statemin; i < statemax; i++ {
		if !seen[a.States[i]] {
			seen[a.States[i]] = true
			todo = append(todo, a.States[i])
		}
	}
	for len(todo) > 0 {
		n := todo[0]
		todo = todo[1:]
		if a.dict.IsConst(n) {
			peri := ""
			if n == mtbdd.True {
				peri = ", peripheries=2"
			}
			fmt.Fprintf(w, "  B%d [shape=square, style=filled, fillcolor=\"#ffe6cc\", label=\"%d\"%s];\n",
				n, n, peri)
			continue
		}
		if a.dict.IsTerminal(n) {
			t := a.dict.TerminalValue(n)
			label := fmt.Sprint(t / 2)
			if labels && t/2 < len(a.Names) && a.Names[t/2] != nil {
				label = a.Names[t/2].String()
			}
			peri := ""
			if t&1 == 1 {
				peri = ", peripheries=2"
			}
			fmt.Fprintf(w, "  B%d [shape=box, style=\"filled,rounded\", fillcolor=\"#ffe5f1\", label=\"%s\"%s];\n",
				n, dotEscape(label), peri)
			continue
		}
		v := a.dict.Var(n)
		label := fmt.Sprintf("var%d", v)
		if name, ok := a.dict.VarName(v); ok {
			label = name
		}
		shape := "circle"
		if controllable[v] {
			shape = "diamond"
		}
		fmt.Fprintf(w, "  B%d [shape=%s, label=\"%s\"];\n", n, shape, dotEscape(label))
		low, high := a.dict.Low(n), a.dict.High(n)
		for _, c := range []mtbdd.Node{low, high} {
			if !seen[c] {
				seen[c] = true
				todo = append(todo, c)
			}
		}
		fmt.Fprintf(&edges, "  B%d -> B%d [style=dotted];\n  B%d -> B%d [style=filled];\n",
			n, low, n, high)
	}
	fmt.Fprint(w, edges.String())
	fmt.Fprintf(w, "}\n")
}

func dotEscape(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	return strings.ReplaceAll(s, "\"", "\\\"")
}

// sortedAPs returns the atomic propositions of f, sorted.
func sortedAPs(f *ltlf.Formula) []string {
	aps := ltlf.CollectAtoms(f)
	sort.Strings(aps)
	return aps
}
