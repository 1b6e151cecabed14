// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

package mtbdd

// _MAXVAR is the maximal number of levels in the BDD. The constants
// and the terminal nodes all live at level _MAXVAR, above every
// possible variable.
const _MAXVAR int32 = 0x1FFFFF

// _DEFAULTCACHESIZE is the initial number of entries in the operator
// caches owned by the dictionary.
const _DEFAULTCACHESIZE int = 10007

// Node is a reference to a vertex of an MTBDD: an index in the node
// table of a Dict. The constants False and True are the indices 0
// and 1.
type Node = int

// False is the constant false node.
const False Node = 0

// True is the constant true node.
const True Node = 1

type huddnode struct {
	level int32 // Order of the variable in the BDD; _MAXVAR for leaves
	low   int   // False branch; terminal value for terminal nodes
	high  int   // True branch; -1 for terminal nodes
}

type huddkey struct {
	level int32
	low   int
	high  int
}

func (b *Dict) level(n int) int32 {
	return b.nodes[n].level
}

func (b *Dict) low(n int) int {
	return b.nodes[n].low
}

func (b *Dict) high(n int) int {
	return b.nodes[n].high
}

// isleaf reports whether n is a constant or a terminal node.
func (b *Dict) isleaf(n int) bool {
	return b.nodes[n].level == _MAXVAR
}

// makenode returns the node (level, low, high), creating it on first
// sight. The node table is append-only: node ids are stable for the
// whole life of the dictionary, which is what keeps the operation
// caches of read-only automata valid between operations.
func (b *Dict) makenode(level int32, low, high int) int {
	b.uniqueAccess++
	if low == high {
		return low
	}
	k := huddkey{level, low, high}
	if n, ok := b.unique[k]; ok {
		b.uniqueHit++
		return n
	}
	b.uniqueMiss++
	b.produced++
	b.nodes = append(b.nodes, huddnode{level: level, low: low, high: high})
	n := len(b.nodes) - 1
	b.unique[k] = n
	return n
}
