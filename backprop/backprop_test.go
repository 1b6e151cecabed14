// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

package backprop

import (
	"errors"
	"strings"
	"testing"
)

func TestTerminalPropagation(t *testing.T) {
	g := New(false)
	root := g.NewState(true) // system-owned
	win := g.NewState(false)
	g.SetWinner(win, true)
	// a system vertex with one winning successor is winning
	g.NewEdge(root, win)
	if !g.IsDetermined(root) || !g.Winner(root) {
		t.Errorf("root should be system-winning")
	}
	if g.Choice(root) != win {
		t.Errorf("the winning successor should be recorded as choice")
	}
}

func TestFreezeLoses(t *testing.T) {
	g := New(false)
	root := g.NewState(false) // environment-owned
	win := g.NewState(false)
	g.SetWinner(win, true)
	// the edge to a system-winning vertex is useless for the
	// environment and dropped
	g.NewEdge(root, win)
	// frozen with no live successor: the owner loses
	g.FreezeState(root)
	if !g.IsDetermined(root) || !g.Winner(root) {
		t.Errorf("a frozen environment vertex without moves is system-winning")
	}
}

func TestBackwardPropagation(t *testing.T) {
	g := New(false)
	v0 := g.NewState(false) // environment
	v1 := g.NewState(true)  // system
	v2 := g.NewState(false)
	g.NewEdge(v0, v1)
	g.NewEdge(v0, v2)
	g.FreezeState(v0)
	g.NewEdge(v1, v2)
	g.FreezeState(v1)
	// determining v2 for the system wins v1 (choice) and then v0
	// (all successors system-winning)
	g.SetWinner(v2, true)
	for _, v := range []int{v0, v1, v2} {
		if !g.IsDetermined(v) || !g.Winner(v) {
			t.Errorf("vertex %d should be system-winning", v)
		}
	}
	if g.Choice(v1) != v2 {
		t.Errorf("v1 should record v2 as its choice")
	}
	if g.Err() != nil {
		t.Errorf("unexpected error: %v", g.Err())
	}
}

func TestCounterLoss(t *testing.T) {
	g := New(false)
	v0 := g.NewState(true) // system with two successors
	v1 := g.NewState(false)
	v2 := g.NewState(false)
	g.NewEdge(v0, v1)
	g.NewEdge(v0, v2)
	g.FreezeState(v0)
	g.SetWinner(v1, false)
	if g.IsDetermined(v0) {
		t.Fatalf("one losing successor does not determine a system vertex")
	}
	g.SetWinner(v2, false)
	if !g.IsDetermined(v0) || g.Winner(v0) {
		t.Errorf("all successors lost: the system vertex loses")
	}
}

func TestFrozenStateError(t *testing.T) {
	g := New(false)
	v0 := g.NewState(false)
	v1 := g.NewState(false)
	g.FreezeState(v0)
	g.NewEdge(v0, v1)
	if !errors.Is(g.Err(), ErrFrozenState) {
		t.Errorf("expected ErrFrozenState, got %v", g.Err())
	}
}

func TestAlreadyDeterminedError(t *testing.T) {
	g := New(false)
	v0 := g.NewState(false)
	g.SetWinner(v0, true)
	g.SetWinner(v0, false)
	if !errors.Is(g.Err(), ErrAlreadyDetermined) {
		t.Errorf("expected ErrAlreadyDetermined, got %v", g.Err())
	}
}

func TestStopASAP(t *testing.T) {
	g := New(true)
	v0 := g.NewState(false) // environment-owned
	v1 := g.NewState(true)  // system vertex feeding v0
	g.NewEdge(v0, v1)
	g.FreezeState(v0)
	v2 := g.NewState(false)
	g.SetWinner(v2, true)
	// v1 becomes system-winning, which determines v0; with
	// stop-asap this is reported immediately
	if !g.NewEdge(v1, v2) {
		t.Errorf("stop-asap should report the determination of vertex 0")
	}
	if !g.IsDetermined(v0) || !g.Winner(v0) {
		t.Errorf("vertex 0 should be determined")
	}
}

func TestPrintDot(t *testing.T) {
	g := New(false)
	v0 := g.NewState(true)
	v1 := g.NewState(false)
	g.SetName(v0, "init")
	g.NewEdge(v0, v1)
	var sb strings.Builder
	g.PrintDot(&sb)
	out := sb.String()
	if !strings.Contains(out, "digraph") || !strings.Contains(out, "init") {
		t.Errorf("unexpected dot output:\n%s", out)
	}
}
