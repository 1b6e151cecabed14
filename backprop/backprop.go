// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

// Package backprop implements the determination graph of a
// two-player reachability game: a directed graph whose vertices
// belong to one of two players and whose winners are propagated
// backward from determined vertices (the terminals of the game) as
// the graph is being built.
//
// A vertex owned by player P is determined as winning for P as soon
// as one of its successors is winning for P; it is determined as
// losing for P once it is frozen (no further successors will be
// declared) and all its successors are losing for P. Owners and
// winners are booleans: true is the "system" player, false the
// "environment".
package backprop

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrFrozenState is latched when an edge is added to a frozen
// source.
var ErrFrozenState = errors.New("backprop: cannot add successor to frozen state")

// ErrAlreadyDetermined is latched when a winner is assigned to an
// already determined vertex.
var ErrAlreadyDetermined = errors.New("backprop: cannot change status of determined state")

type state struct {
	owner      bool
	frozen     bool
	determined bool
	winner     bool
	counter    int // number of undetermined successors
	choice     int // winning successor, for owner-winning vertices
}

// Graph is a back-propagation game arena. The zero value is not
// usable; see New.
type Graph struct {
	states   []state
	reverse  [][]int // predecessors of each undetermined vertex
	names    map[int]string
	stopASAP bool
	err      error
}

// New returns an empty graph. When stopASAP is set, edge insertions
// and winner assignments report true as soon as vertex 0 becomes
// determined, so that a construction interleaved with the solving
// can stop early.
func New(stopASAP bool) *Graph {
	return &Graph{names: make(map[int]string), stopASAP: stopASAP}
}

// Err returns the latched protocol error, if any.
func (g *Graph) Err() error {
	return g.err
}

func (g *Graph) seterror(err error) {
	if g.err == nil {
		g.err = err
	}
}

// NumStates returns the number of vertices.
func (g *Graph) NumStates() int {
	return len(g.states)
}

// NewState creates a vertex for the given owner and returns its
// index.
func (g *Graph) NewState(owner bool) int {
	g.states = append(g.states, state{owner: owner})
	g.reverse = append(g.reverse, nil)
	return len(g.states) - 1
}

// SetName attaches a display name to a vertex, used by PrintDot.
func (g *Graph) SetName(s int, name string) {
	g.names[s] = name
}

// IsDetermined reports whether the winner of s is known.
func (g *Graph) IsDetermined(s int) bool {
	return g.states[s].determined
}

// IsFrozen reports whether all successors of s have been declared.
func (g *Graph) IsFrozen(s int) bool {
	return g.states[s].frozen
}

// Winner returns the winner of a determined vertex.
func (g *Graph) Winner(s int) bool {
	return g.states[s].winner
}

// Choice returns the successor recorded as the winning move of a
// vertex determined in favor of its owner.
func (g *Graph) Choice(s int) int {
	return g.states[s].choice
}

// NewEdge declares the edge src -> dst. If dst is already determined
// in favor of src's owner, src is determined on the spot and the
// determination propagates backward. Edges into vertices determined
// against src's owner are dropped. The result is true when the
// insertion determined vertex 0 (only in stopASAP mode, otherwise
// propagation runs to completion and the result still reports the
// determination of vertex 0).
func (g *Graph) NewEdge(src, dst int) bool {
	ss := &g.states[src]
	if ss.frozen {
		g.seterror(fmt.Errorf("%w (%d -> %d)", ErrFrozenState, src, dst))
		return false
	}
	if ss.determined { // the edge is useless
		return false
	}
	ds := &g.states[dst]
	if !ds.determined {
		// declare an edge for backward propagation
		g.reverse[dst] = append(g.reverse[dst], src)
		ss.counter++
	} else if ss.owner == ds.winner {
		return g.setwinner(src, ss.owner, dst)
	}
	// ignore other edges
	return false
}

// FreezeState declares that src has no further successors. A frozen
// vertex with no undetermined successor left is determined against
// its owner. The result reports the determination of vertex 0, as
// in NewEdge.
func (g *Graph) FreezeState(s int) bool {
	ss := &g.states[s]
	ss.frozen = true
	if !ss.determined && ss.counter == 0 {
		return g.setwinner(s, !ss.owner, 0)
	}
	return false
}

// SetWinner forces the winner of an undetermined vertex, typically a
// terminal of the game, and propagates backward. The result reports
// the determination of vertex 0.
func (g *Graph) SetWinner(s int, winner bool) bool {
	return g.setwinner(s, winner, 0)
}

func (g *Graph) setwinner(s int, winner bool, choice int) bool {
	ss := &g.states[s]
	if ss.determined {
		g.seterror(fmt.Errorf("%w (%d)", ErrAlreadyDetermined, s))
		return false
	}
	ss.determined = true
	ss.winner = winner
	ss.choice = choice
	result := false
	if s == 0 {
		if g.stopASAP {
			return true
		}
		result = true
	}
	todo := []int{s}
	for len(todo) > 0 {
		v := todo[0]
		todo = todo[1:]
		for _, p := range g.reverse[v] {
			prev := &g.states[p]
			if prev.determined {
				continue
			}
			existChoice := prev.owner == winner
			if !existChoice {
				prev.counter--
				if prev.counter > 0 || !prev.frozen {
					continue
				}
			}
			prev.determined = true
			prev.winner = winner
			if existChoice {
				prev.choice = v
			}
			if p == 0 {
				if g.stopASAP {
					return true
				}
				result = true
			}
			todo = append(todo, p)
		}
	}
	return result
}

// PrintDot writes a Graphviz view of the arena: diamonds for system
// vertices, boxes for environment ones, green for system-winning and
// red for environment-winning determined vertices; dashed borders
// mark unfrozen vertices and thick edges recorded choices.
func (g *Graph) PrintDot(w io.Writer) {
	fmt.Fprintf(w, "digraph backprop {\n  rankdir=TB;\n")
	for s := range g.states {
		ss := g.states[s]
		shape := "box"
		style := "filled,rounded"
		if ss.owner {
			shape = "diamond"
			style = "filled"
		}
		if !ss.frozen {
			style += ",dashed"
		}
		color := "white"
		if ss.determined {
			if ss.winner {
				color = "\"#33A02C\""
			} else {
				color = "\"#E31A1C\""
			}
		}
		label := g.names[s]
		if label == "" {
			label = fmt.Sprint(s)
		}
		fmt.Fprintf(w, "  %d [shape=%s, style=\"%s\", fillcolor=%s, label=\"%s\"];\n",
			s, shape, style, color, escape(label))
	}
	for s := range g.states {
		ss := g.states[s]
		if ss.determined && ss.winner == ss.owner && ss.choice != 0 {
			fmt.Fprintf(w, "  %d -> %d [penwidth=2];\n", s, ss.choice)
		}
		for _, p := range g.reverse[s] {
			sp := g.states[p]
			if !sp.determined || sp.winner != sp.owner || sp.choice != s {
				fmt.Fprintf(w, "  %d -> %d;\n", p, s)
			}
		}
	}
	fmt.Fprintf(w, "}\n")
}

func escape(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	return strings.ReplaceAll(s, "\"", "\\\"")
}
