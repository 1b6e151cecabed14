// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

package mtbdd

import "math"

// The quantified operations below interpret a prepared set of
// variables as owned by the "system" player of a two-player game:
// system variables are combined existentially, the remaining ones
// universally. QuantifyPrepare must be called before any of them,
// and called again whenever new variables have been registered in
// the meantime, because the buffer is sized to the variable count.

// QuantifyPrepare records the set of system variables for the
// quantified operations, given as a cube (see Makeset). Passing the
// constant True empties the set.
func (b *Dict) QuantifyPrepare(varset Node) {
	b.quantsetID++
	if b.quantsetID == math.MaxInt32 || len(b.quantset) != len(b.vars) {
		b.quantset = make([]int32, len(b.vars))
		b.quantsetID = 1
	}
	b.quantlast = -1
	for i := varset; i > 1 && !b.isleaf(i); i = b.high(i) {
		b.quantset[b.level(i)] = b.quantsetID
		b.quantlast = b.level(i)
	}
}

// insetlvl reports whether the variable at the given level belongs
// to the prepared set.
func (b *Dict) insetlvl(level int32) bool {
	return b.quantset[level] == b.quantsetID
}

// QuantifiedOwner reports whether the variable labeling decision
// node n belongs to the prepared system set, together with the two
// branches of n.
func (b *Dict) QuantifiedOwner(n Node) (owner bool, low, high Node) {
	return b.insetlvl(b.level(n)), b.low(n), b.high(n)
}

// QuantifyToBool evaluates root under the game interpretation:
// system variables are OR-ed, the others AND-ed, and every leaf is
// mapped to a Boolean by leaf. A nil leaf callback interprets a
// terminal by its accepting bit. The result is true exactly when the
// system can force an accepting leaf whatever the environment plays.
func (b *Dict) QuantifyToBool(root Node, leaf func(term int) bool, cache *ExtCache, key int) bool {
	return b.quantbool(root, leaf, cache, key)
}

func (b *Dict) quantbool(n int, leaf func(int) bool, cache *ExtCache, key int) bool {
	if n == 0 {
		return false
	}
	if n == 1 {
		return true
	}
	if b.isleaf(n) {
		v := b.nodes[n].low
		if leaf == nil {
			return v&1 == 1
		}
		return leaf(v)
	}
	if res, _, ok := cache.match1(n, key); ok {
		return res != 0
	}
	low := b.quantbool(b.low(n), leaf, cache, key)
	high := b.quantbool(b.high(n), leaf, cache, key)
	var res bool
	if b.insetlvl(b.level(n)) {
		res = low || high
	} else {
		res = low && high
	}
	r := 0
	if res {
		r = 1
	}
	cache.set1(n, key, r, 0)
	return res
}

// Trival is a three-valued truth value used by the lazy region
// computation. The two-bit encoding is chosen so that the game
// combinations are plain bit operations: and for universal nodes, or
// for existential ones.
type Trival uint8

const (
	TrivalFalse Trival = 0
	TrivalMaybe Trival = 2
	TrivalTrue  Trival = 3
)

// IsTrue reports whether the value is definitely true.
func (t Trival) IsTrue() bool { return t == TrivalTrue }

// IsFalse reports whether the value is definitely false.
func (t Trival) IsFalse() bool { return t == TrivalFalse }

// IsMaybe reports whether the value is undecided.
func (t Trival) IsMaybe() bool { return t == TrivalMaybe }

func (t Trival) String() string {
	switch t {
	case TrivalTrue:
		return "true"
	case TrivalFalse:
		return "false"
	}
	return "maybe"
}

// QuantifyToTrival is the three-valued variant of QuantifyToBool: a
// leaf may also evaluate to TrivalMaybe, and the lattice propagates
// so that a definite false under a universal node (or a definite
// true under an existential one) decides the node regardless of the
// undecided branches.
func (b *Dict) QuantifyToTrival(root Node, leaf func(term int) Trival, cache *ExtCache, key int) Trival {
	return b.quanttrival(root, leaf, cache, key)
}

func (b *Dict) quanttrival(n int, leaf func(int) Trival, cache *ExtCache, key int) Trival {
	if n == 0 {
		return TrivalFalse
	}
	if n == 1 {
		return TrivalTrue
	}
	if b.isleaf(n) {
		v := b.nodes[n].low
		if leaf == nil {
			if v&1 == 1 {
				return TrivalTrue
			}
			return TrivalFalse
		}
		return leaf(v)
	}
	if res, _, ok := cache.match1(n, key); ok {
		return Trival(res)
	}
	low := b.quanttrival(b.low(n), leaf, cache, key)
	high := b.quanttrival(b.high(n), leaf, cache, key)
	var res Trival
	if b.insetlvl(b.level(n)) {
		res = low | high
	} else {
		res = low & high
	}
	cache.set1(n, key, int(res), 0)
	return res
}

// Apply1Synthesis restricts root to the system's winning choices
// while evaluating it like QuantifyToBool. At a system-owned
// decision node with a winning branch, only that branch is kept: the
// other one is sent to False, so that the variable test (and with it
// the output choice) stays visible in the diagram. Environment nodes
// keep both rewritten branches. The finalize callback maps each
// terminal to its replacement leaf and its verdict; nil keeps
// terminals unchanged and reads the accepting bit. The rewritten
// root and the verdict of the original root are returned.
func (b *Dict) Apply1Synthesis(root Node, finalize func(term int) (Node, bool), cache *ExtCache, key int) (Node, bool) {
	return b.mtsynth(root, finalize, cache, key)
}

func (b *Dict) mtsynth(n int, finalize func(int) (Node, bool), cache *ExtCache, key int) (int, bool) {
	if n == 0 {
		return 0, false
	}
	if n == 1 {
		return 1, true
	}
	if b.isleaf(n) {
		if finalize == nil {
			return n, b.nodes[n].low&1 == 1
		}
		return finalize(b.nodes[n].low)
	}
	if res, extra, ok := cache.match1(n, key); ok {
		return res, extra != 0
	}
	low, lwin := b.mtsynth(b.low(n), finalize, cache, key)
	high, hwin := b.mtsynth(b.high(n), finalize, cache, key)
	var res int
	var win bool
	if b.insetlvl(b.level(n)) {
		switch {
		case lwin:
			res, win = b.makenode(b.level(n), low, 0), true
		case hwin:
			res, win = b.makenode(b.level(n), 0, high), true
		default:
			res, win = b.makenode(b.level(n), low, high), false
		}
	} else {
		res, win = b.makenode(b.level(n), low, high), lwin && hwin
	}
	extra := 0
	if win {
		extra = 1
	}
	cache.set1(n, key, res, extra)
	return res, win
}

// Apply1SynthesisWithChoice rewrites root using choices recorded in
// a solved game arena: at every system-owned decision node for which
// choice returns a branch, only that branch is kept and the other
// one is sent to False; terminals are rewritten through finalize. A
// choice result of False means "no recorded choice" and keeps both
// branches.
func (b *Dict) Apply1SynthesisWithChoice(root Node, choice func(n Node) Node, finalize func(term int) (Node, bool), cache *ExtCache, key int) Node {
	return b.mtsynthchoice(root, choice, finalize, cache, key)
}

func (b *Dict) mtsynthchoice(n int, choice func(Node) Node, finalize func(int) (Node, bool), cache *ExtCache, key int) int {
	if n < 2 {
		return n
	}
	if b.isleaf(n) {
		res, _ := finalize(b.nodes[n].low)
		return res
	}
	if res, _, ok := cache.match1(n, key); ok {
		return res
	}
	var res int
	if b.insetlvl(b.level(n)) {
		if c := choice(n); c != False {
			sub := b.mtsynthchoice(c, choice, finalize, cache, key)
			if c == b.low(n) {
				res = b.makenode(b.level(n), sub, 0)
			} else {
				res = b.makenode(b.level(n), 0, sub)
			}
			return cache.set1(n, key, res, 0)
		}
	}
	low := b.mtsynthchoice(b.low(n), choice, finalize, cache, key)
	high := b.mtsynthchoice(b.high(n), choice, finalize, cache, key)
	res = b.makenode(b.level(n), low, high)
	return cache.set1(n, key, res, 0)
}
