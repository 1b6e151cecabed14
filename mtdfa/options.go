// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

package mtdfa

import (
	"fmt"

	"github.com/ltlfsynt/ltlfsynt/ltlf"
	"github.com/ltlfsynt/ltlfsynt/mtbdd"
)

// Translation selects how a formula is turned into an MTDFA.
type Translation int

const (
	TransDirect Translation = iota
	TransCompositional
	TransDirectRestricted
	TransDFSOnTheFly
	TransDFSStrictOnTheFly
	TransBFSOnTheFly
)

var translationNames = map[Translation]string{
	TransDirect:            "direct",
	TransCompositional:     "compositional",
	TransDirectRestricted:  "direct-restricted",
	TransDFSOnTheFly:       "dfs-on-the-fly",
	TransDFSStrictOnTheFly: "dfs-strict-on-the-fly",
	TransBFSOnTheFly:       "bfs-on-the-fly",
}

func (t Translation) String() string { return translationNames[t] }

// ParseTranslation maps an option string to a Translation.
func ParseTranslation(s string) (Translation, error) {
	for k, v := range translationNames {
		if v == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown translation %q", s)
}

// Composition selects the ordering heuristic of the compositional
// translator.
type Composition int

const (
	CompositionSize Composition = iota
	CompositionAP
)

func (c Composition) String() string {
	if c == CompositionAP {
		return "ap"
	}
	return "size"
}

// ParseComposition maps an option string to a Composition.
func ParseComposition(s string) (Composition, error) {
	switch s {
	case "size":
		return CompositionSize, nil
	case "ap":
		return CompositionAP, nil
	}
	return 0, fmt.Errorf("unknown composition %q", s)
}

// BackpropMode selects the granularity of the game solver.
type BackpropMode int

const (
	BackpropNodes BackpropMode = iota
	BackpropStates
	BackpropTrivalStates
)

var backpropNames = map[BackpropMode]string{
	BackpropNodes:        "nodes",
	BackpropStates:       "states",
	BackpropTrivalStates: "trival-states",
}

func (m BackpropMode) String() string { return backpropNames[m] }

// ParseBackpropMode maps an option string to a BackpropMode.
func ParseBackpropMode(s string) (BackpropMode, error) {
	for k, v := range backpropNames {
		if v == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown backprop mode %q", s)
}

// SynthesisBackprop selects the exploration order of the on-the-fly
// translator+solver.
type SynthesisBackprop int

const (
	BFSNodeBackprop SynthesisBackprop = iota
	DFSNodeBackprop
	StateRefine
	DFSStrictNodeBackprop
)

// Semantics decides which player moves first, which translates into
// the BDD variable order: for Mealy the uncontrollable (input)
// variables precede the controllable ones, for Moore the opposite.
type Semantics int

const (
	SemanticsMealy Semantics = iota
	SemanticsMoore
)

func (s Semantics) String() string {
	if s == SemanticsMoore {
		return "Moore"
	}
	return "Mealy"
}

// ParseSemantics maps an option string to a Semantics.
func ParseSemantics(s string) (Semantics, error) {
	switch s {
	case "Mealy", "mealy":
		return SemanticsMealy, nil
	case "Moore", "moore":
		return SemanticsMoore, nil
	}
	return 0, fmt.Errorf("unknown semantics %q", s)
}

// PreregisterSemantics registers the atomic propositions of f on the
// dictionary in the order mandated by the chosen semantics, so that
// the variable order is fixed before any translation runs. The
// propositions are owned by owner.
func PreregisterSemantics(dict *mtbdd.Dict, f *ltlf.Formula, outvars []string, sem Semantics, owner interface{}) {
	out := make(map[string]bool, len(outvars))
	for _, o := range outvars {
		out[o] = true
	}
	first, second := false, true // Mealy: inputs first
	if sem == SemanticsMoore {
		first, second = second, first
	}
	for _, class := range []bool{first, second} {
		ltlf.Traverse(f, func(g *ltlf.Formula) bool {
			if g.Is(ltlf.OpAtom) && out[g.Name()] == class {
				dict.RegisterProposition(g.Name(), owner)
			}
			return true
		})
	}
}
