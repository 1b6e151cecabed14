// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

package mtdfa

import (
	"github.com/ltlfsynt/ltlfsynt/backprop"
	"github.com/ltlfsynt/ltlfsynt/mtbdd"
)

// bddEncoder turns MTBDDs into a back-propagation game arena. Every
// BDD node becomes a vertex owned by the player of its variable
// (system for controllable ones), every non-accepting terminal
// becomes a "root number" vertex that is later linked to the
// encoding of the corresponding state, accepting terminals map to
// the True vertex, and the constants are pre-determined terminals of
// the game.
//
// The quantification buffer of the dictionary must be prepared with
// the controllable variables before encoding.
type bddEncoder struct {
	dict            *mtbdd.Dict
	graph           *backprop.Graph
	rootnumToVertex map[int]int
	bddToVertex     map[mtbdd.Node]int
	bddSeen         map[mtbdd.Node]bool // only used when recomputing successors
}

func newBDDEncoder(dict *mtbdd.Dict) *bddEncoder {
	return &bddEncoder{
		dict:            dict,
		graph:           backprop.New(false),
		rootnumToVertex: make(map[int]int),
		bddToVertex:     make(map[mtbdd.Node]int),
		bddSeen:         make(map[mtbdd.Node]bool),
	}
}

func (e *bddEncoder) rootIsDetermined(rootNum int) bool {
	v, ok := e.rootnumToVertex[rootNum]
	if !ok {
		return false
	}
	return e.graph.IsDetermined(v)
}

func (e *bddEncoder) rootWinner(rootNum int) bool {
	v, ok := e.rootnumToVertex[rootNum]
	if !ok {
		return false
	}
	return e.graph.Winner(v)
}

// encodeState encodes one MTDFA state, given by its root number and
// its MTBDD, into the arena. The successors found on the terminals
// are appended to newRootnums (for vertices created by this call) or
// oldRootnums (for vertices that already existed). With recompute
// set, the encoding walks through already-encoded undetermined nodes
// so that all undetermined successors are collected again; this is
// what the strict DFS construction needs. The result reports that
// vertex 0 of the arena became determined.
func (e *bddEncoder) encodeState(rootNum int, root mtbdd.Node, name string, newRootnums, oldRootnums *[]int, recompute bool) bool {
	if recompute {
		clear(e.bddSeen)
	}
	type item struct {
		vertex    int
		low, high mtbdd.Node
	}
	var todo []item

	rootnumVertex := func(t int) int {
		if v, ok := e.rootnumToVertex[t]; ok {
			if oldRootnums != nil {
				*oldRootnums = append(*oldRootnums, t)
			}
			return v
		}
		// The owner does not matter: this vertex has a single
		// successor.
		v := e.graph.NewState(false)
		e.rootnumToVertex[t] = v
		if newRootnums != nil {
			*newRootnums = append(*newRootnums, t)
		}
		return v
	}

	var bddVertex func(n mtbdd.Node) int
	bddVertex = func(n mtbdd.Node) int {
		v, known := e.bddToVertex[n]
		if known && (!recompute || n == mtbdd.False || n == mtbdd.True) {
			return v
		}
		if n == mtbdd.False || n == mtbdd.True {
			s := e.graph.NewState(n == mtbdd.False)
			e.bddToVertex[n] = s
			e.graph.SetWinner(s, n == mtbdd.True)
			if name != "" {
				if n == mtbdd.True {
					e.graph.SetName(s, "true")
				} else {
					e.graph.SetName(s, "false")
				}
			}
			return s
		}
		if recompute {
			// see each node only once per call to encodeState
			if e.bddSeen[n] {
				return v
			}
			e.bddSeen[n] = true
		}
		if e.dict.IsTerminal(n) {
			term := e.dict.TerminalValue(n)
			if recompute && known {
				if term&1 == 1 {
					return v
				}
				return rootnumVertex(term / 2)
			}
			if term&1 == 1 {
				s := bddVertex(mtbdd.True)
				e.bddToVertex[n] = s
				return s
			}
			s := rootnumVertex(term / 2)
			e.bddToVertex[n] = s
			return s
		}
		if recompute && known && e.graph.IsDetermined(v) {
			return v
		}
		owner, low, high := e.dict.QuantifiedOwner(n)
		if recompute && known {
			todo = append(todo, item{v, low, high})
			return v
		}
		s := e.graph.NewState(owner)
		e.bddToVertex[n] = s
		todo = append(todo, item{s, low, high})
		return s
	}

	// create one vertex for the root number (if it does not exist
	// yet), and link it to the BDD root as its only successor
	rootVertex := rootnumVertex(rootNum)
	if name != "" {
		e.graph.SetName(rootVertex, name)
	}
	if e.graph.NewEdge(rootVertex, bddVertex(root)) {
		return true
	}
	if e.graph.FreezeState(rootVertex) {
		return true
	}

	// encode the rest of the BDD; terminals met below create "root
	// number" vertices that will be connected to their own encoding
	// once known
	for len(todo) > 0 {
		it := todo[0]
		todo = todo[1:]
		if recompute && e.graph.IsFrozen(it.vertex) {
			bddVertex(it.low)
			bddVertex(it.high)
			continue
		}
		lowVertex := bddVertex(it.low)
		if e.graph.NewEdge(it.vertex, lowVertex) {
			return true
		}
		// if the previous edge determined the source, the other
		// branch is useless
		if e.graph.IsDetermined(it.vertex) {
			continue
		}
		highVertex := bddVertex(it.high)
		if e.graph.NewEdge(it.vertex, highVertex) {
			return true
		}
		if e.graph.FreezeState(it.vertex) {
			return true
		}
	}
	return false
}

// getChoice returns the branch of a system-owned decision node that
// the solved arena recorded as the winning move, or False when the
// node is unknown or not winning.
func (e *bddEncoder) getChoice(n mtbdd.Node) mtbdd.Node {
	v, ok := e.bddToVertex[n]
	if !ok || !e.graph.Winner(v) {
		return mtbdd.False
	}
	ch := e.graph.Choice(v)
	low := e.dict.Low(n)
	if lv, ok := e.bddToVertex[low]; ok && lv == ch {
		return low
	}
	return e.dict.High(n)
}
