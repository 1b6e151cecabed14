// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

package mtbdd

import (
	"strings"
	"testing"
)

// eval walks a plain BDD under an assignment of variables.
func eval(b *Dict, n Node, assign []bool) bool {
	for !b.isleaf(n) {
		if assign[b.Var(n)] {
			n = b.High(n)
		} else {
			n = b.Low(n)
		}
	}
	return n == True
}

func newDictWithVars(t *testing.T, n int) *Dict {
	t.Helper()
	b := NewDict()
	for i := 0; i < n; i++ {
		b.RegisterProposition(string(rune('a'+i)), t)
	}
	return b
}

//********************************************************************************************

func TestMakenode(t *testing.T) {
	b := newDictWithVars(t, 2)
	if b.Ithvar(0) != b.Ithvar(0) {
		t.Errorf("Ithvar is not interned")
	}
	n1 := b.Apply(b.Ithvar(0), b.Ithvar(1), OPand)
	n2 := b.Apply(b.Ithvar(1), b.Ithvar(0), OPand)
	if n1 != n2 {
		t.Errorf("a & b and b & a should share a node, got %d and %d", n1, n2)
	}
	if b.Error() != "" {
		t.Errorf("unexpected error status: %s", b.Error())
	}
}

func TestApplyTruthTables(t *testing.T) {
	b := newDictWithVars(t, 2)
	a, c := b.Ithvar(0), b.Ithvar(1)
	var applyTests = []struct {
		op       Operator
		expected [4]bool // for assignments 00 01 10 11 of (a, c)
	}{
		{OPand, [4]bool{false, false, false, true}},
		{OPor, [4]bool{false, true, true, true}},
		{OPxor, [4]bool{false, true, true, false}},
		{OPimp, [4]bool{true, true, false, true}},
		{OPbiimp, [4]bool{true, false, false, true}},
		{OPnand, [4]bool{true, true, true, false}},
		{OPnor, [4]bool{true, false, false, false}},
		{OPdiff, [4]bool{false, false, true, false}},
	}
	for _, tt := range applyTests {
		res := b.Apply(a, c, tt.op)
		for i := 0; i < 4; i++ {
			assign := []bool{i&2 != 0, i&1 != 0}
			if eval(b, res, assign) != tt.expected[i] {
				t.Errorf("%s(%v): expected %v", tt.op, assign, tt.expected[i])
			}
		}
	}
}

func TestNot(t *testing.T) {
	b := newDictWithVars(t, 2)
	n := b.Apply(b.Ithvar(0), b.Ithvar(1), OPor)
	nn := b.Not(n)
	for i := 0; i < 4; i++ {
		assign := []bool{i&2 != 0, i&1 != 0}
		if eval(b, n, assign) == eval(b, nn, assign) {
			t.Errorf("Not(n) should differ from n on %v", assign)
		}
	}
	if b.Not(b.Not(n)) != n {
		t.Errorf("double negation should be the identity")
	}
}

func TestMakesetScanset(t *testing.T) {
	b := newDictWithVars(t, 4)
	set := []int{0, 2, 3}
	cube := b.Makeset(set)
	got := b.Scanset(cube)
	if len(got) != len(set) {
		t.Fatalf("Scanset(Makeset(%v)) = %v", set, got)
	}
	for i := range set {
		if got[i] != set[i] {
			t.Errorf("Scanset(Makeset(%v)) = %v", set, got)
		}
	}
}

//********************************************************************************************

func TestTerminal(t *testing.T) {
	b := newDictWithVars(t, 1)
	t1 := b.Terminal(42)
	t2 := b.Terminal(42)
	if t1 != t2 {
		t.Errorf("terminals are not interned")
	}
	if !b.IsTerminal(t1) || b.IsTerminal(True) || b.IsTerminal(b.Ithvar(0)) {
		t.Errorf("IsTerminal misclassifies nodes")
	}
	if b.TerminalValue(t1) != 42 {
		t.Errorf("TerminalValue = %d, want 42", b.TerminalValue(t1))
	}
	if b.Terminal(43) == t1 {
		t.Errorf("distinct values should give distinct terminals")
	}
}

func TestApplyRejectsTerminals(t *testing.T) {
	b := newDictWithVars(t, 1)
	b.Apply(b.Terminal(4), b.Ithvar(0), OPand)
	if b.Error() == "" {
		t.Errorf("Apply on a terminal should latch an error")
	}
}

func TestApply2Leaves(t *testing.T) {
	b := newDictWithVars(t, 2)
	// left: a ? t(2) : t(4); right: b ? t(6) : False
	left := b.makenode(0, b.Terminal(4), b.Terminal(2))
	right := b.makenode(1, False, b.Terminal(6))
	cache := NewExtCache(0)
	sum := func(lb Node, lt int, rb Node, rt int) Node {
		if rb == False {
			return False
		}
		return b.Terminal(lt + rt)
	}
	res := b.Apply2Leaves(left, right, sum, cache, 1, OPnone)
	// expected: a ? (b ? t(8) : F) : (b ? t(10) : F)
	for _, tt := range []struct {
		a, c bool
		want int // -1 for False
	}{
		{false, false, -1},
		{false, true, 10},
		{true, false, -1},
		{true, true, 8},
	} {
		n := res
		for !b.isleaf(n) {
			assign := tt.c
			if b.Var(n) == 0 {
				assign = tt.a
			}
			if assign {
				n = b.High(n)
			} else {
				n = b.Low(n)
			}
		}
		if tt.want == -1 {
			if n != False {
				t.Errorf("assignment (%v,%v): expected False, got node %d", tt.a, tt.c, n)
			}
		} else if !b.IsTerminal(n) || b.TerminalValue(n) != tt.want {
			t.Errorf("assignment (%v,%v): expected terminal %d", tt.a, tt.c, tt.want)
		}
	}
}

func TestApply1(t *testing.T) {
	b := newDictWithVars(t, 1)
	root := b.makenode(0, b.Terminal(2), True)
	cache := NewExtCache(0)
	res := b.Apply1(root, func(v int) int { return v + 1 }, False, b.Terminal(7), cache, 1)
	if low := b.Low(res); !b.IsTerminal(low) || b.TerminalValue(low) != 3 {
		t.Errorf("terminal not remapped")
	}
	if high := b.High(res); !b.IsTerminal(high) || b.TerminalValue(high) != 7 {
		t.Errorf("constant True not replaced")
	}
}

func TestTerminalToConst(t *testing.T) {
	b := newDictWithVars(t, 1)
	ft, tt_ := b.Terminal(8), b.Terminal(9)
	root := b.makenode(0, ft, tt_)
	cache := NewExtCache(0)
	res := b.TerminalToConst(root, ft, tt_, cache, 1)
	if b.Low(res) != False || b.High(res) != True {
		t.Errorf("pseudo-terminals not replaced by constants")
	}
}

//********************************************************************************************

func TestQuantifyToBool(t *testing.T) {
	b := newDictWithVars(t, 2) // a is the input (level 0), c the output (level 1)
	out := b.Makeset([]int{1})
	b.QuantifyPrepare(out)

	// a ? (c ? True : False) : True -- the system picks c after seeing a
	root := b.makenode(0, True, b.makenode(1, False, True))
	cache := NewExtCache(0)
	if !b.QuantifyToBool(root, nil, cache, 1) {
		t.Errorf("expected forall a exists c to win")
	}

	// a ? False : True -- the environment can always pick a=1
	root2 := b.makenode(0, True, False)
	if b.QuantifyToBool(root2, nil, cache, 2) {
		t.Errorf("expected the environment to win")
	}

	// terminals are read through the callback
	root3 := b.makenode(0, b.Terminal(3), b.Terminal(5))
	if !b.QuantifyToBool(root3, nil, cache, 3) {
		t.Errorf("accepting terminals should win with a nil callback")
	}
	if b.QuantifyToBool(root3, func(v int) bool { return false }, cache, 4) {
		t.Errorf("the callback verdict should be used")
	}
}

func TestQuantifyToTrival(t *testing.T) {
	if TrivalTrue&TrivalMaybe != TrivalMaybe || TrivalTrue|TrivalMaybe != TrivalTrue {
		t.Fatalf("trival encoding is broken")
	}
	b := newDictWithVars(t, 2)
	b.QuantifyPrepare(b.Makeset([]int{1}))
	cache := NewExtCache(0)

	maybe := func(v int) Trival { return TrivalMaybe }
	root := b.makenode(0, b.Terminal(2), b.makenode(1, b.Terminal(4), True))
	// a=0: maybe; a=1: exists c with True: true. forall: maybe & true = maybe
	if res := b.QuantifyToTrival(root, maybe, cache, 1); !res.IsMaybe() {
		t.Errorf("expected maybe, got %s", res)
	}
	// with all-false leaves, the universal branch decides false
	false3 := func(v int) Trival { return TrivalFalse }
	if res := b.QuantifyToTrival(root, false3, cache, 2); !res.IsFalse() {
		t.Errorf("expected false, got %s", res)
	}
}

func TestApply1Synthesis(t *testing.T) {
	b := newDictWithVars(t, 2) // a input, c output
	b.QuantifyPrepare(b.Makeset([]int{1}))
	cache := NewExtCache(0)

	// a ? (c ? t(3) : t(2)) : t(3); t(3) is accepting, t(2) is not
	inner := b.makenode(1, b.Terminal(2), b.Terminal(3))
	root := b.makenode(0, b.Terminal(3), inner)
	res, win := b.Apply1Synthesis(root, nil, cache, 1)
	if !win {
		t.Fatalf("the system should win by picking c=1")
	}
	// the c node must keep its variable, with the losing branch at False
	n := b.High(res)
	if b.isleaf(n) || b.Var(n) != 1 {
		t.Fatalf("output decision node should survive the restriction")
	}
	if b.Low(n) != False {
		t.Errorf("unchosen branch should be False")
	}
	if hi := b.High(n); !b.IsTerminal(hi) || b.TerminalValue(hi) != 3 {
		t.Errorf("chosen branch should keep the winning terminal")
	}
}

//********************************************************************************************

func TestEachPath(t *testing.T) {
	b := newDictWithVars(t, 2)
	root := b.makenode(0, b.makenode(1, False, b.Terminal(2)), True)
	var paths int
	b.EachPath(root, func(cube, leaf Node) {
		paths++
		// the cube must evaluate to true exactly on its own path
		if b.isleaf(cube) && cube != True {
			t.Errorf("invalid cube %d", cube)
		}
	})
	// a=1 -> True, a=0 & c=1 -> t(2); the False path is skipped
	if paths != 2 {
		t.Errorf("expected 2 paths, got %d", paths)
	}

	var leaves int
	b.EachPathLeaf(root, func(leaf Node) { leaves++ })
	if leaves != 3 {
		t.Errorf("expected 3 path leaves (False included), got %d", leaves)
	}
}

func TestExist(t *testing.T) {
	b := newDictWithVars(t, 2)
	// exists c . (a & c) == a
	f := b.And(b.Ithvar(0), b.Ithvar(1))
	if b.Exist(f, b.Makeset([]int{1})) != b.Ithvar(0) {
		t.Errorf("Exist should remove variable 1")
	}
	// exists c . (c & !c) == false
	g := b.And(b.Ithvar(1), b.NIthvar(1))
	if b.Exist(g, b.Makeset([]int{1})) != False {
		t.Errorf("Exist over an unsatisfiable function should be False")
	}
	if b.Exist(f, True) != f {
		t.Errorf("Exist over an empty set is the identity")
	}
}

func TestExistComp(t *testing.T) {
	b := newDictWithVars(t, 3)
	varset := b.Makeset([]int{1})
	// cube !a & b & c
	cube := b.And(b.NIthvar(0), b.Ithvar(1), b.Ithvar(2))
	res := b.ExistComp(cube, varset)
	if res != b.Ithvar(1) {
		t.Errorf("projection should keep only variable 1")
	}
}

func TestPrint(t *testing.T) {
	b := newDictWithVars(t, 2)
	if got := b.Print(False); got != "False" {
		t.Errorf("Print(False) = %q", got)
	}
	if got := b.Print(b.Terminal(6)); got != "term(6)" {
		t.Errorf("Print(term) = %q", got)
	}
	var sb strings.Builder
	b.Fprint(&sb, b.makenode(0, False, b.Terminal(2)))
	if !strings.Contains(sb.String(), "term(2)") {
		t.Errorf("unexpected table:\n%s", sb.String())
	}
}

func TestNodeCount(t *testing.T) {
	b := newDictWithVars(t, 2)
	root := b.makenode(0, b.makenode(1, False, b.Terminal(2)), True)
	nodes, terminals, hasFalse, hasTrue := b.NodeCount([]Node{root})
	if nodes != 2 || terminals != 1 || !hasFalse || !hasTrue {
		t.Errorf("NodeCount = (%d,%d,%v,%v), want (2,1,true,true)",
			nodes, terminals, hasFalse, hasTrue)
	}
}
