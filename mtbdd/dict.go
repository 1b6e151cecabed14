// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

package mtbdd

import "fmt"

// Dict is the shared BDD variable dictionary and node table. All the
// MTBDDs of one translation pipeline live in a single Dict; automata
// built over the same Dict can be combined, automata from different
// Dicts cannot.
type Dict struct {
	nodes  []huddnode
	unique map[huddkey]int
	vars   []vardecl
	byname map[string]int

	// quantification buffer, set by QuantifyPrepare
	quantset   []int32
	quantsetID int32
	quantlast  int32

	applycache applycache // Cache for Apply/Not results
	quantcache quantcache // Cache for Exist results

	produced     int // Total number of nodes ever produced
	uniqueAccess int // accesses to the unique node table
	uniqueHit    int // entries actually found in the unique node table
	uniqueMiss   int // entries not found in the unique node table

	error error // latched error status, see seterror
}

// vardecl describes one registered BDD variable. Anonymous variables
// have an empty name. The refs map counts registrations per owner;
// the variable is considered dead when the map empties, but its
// level is never reused.
type vardecl struct {
	name     string
	positive int // node for the positive literal
	negative int // node for the negative literal
	refs     map[interface{}]int
}

// NewDict returns a fresh dictionary with no variable. Options, in
// the style of the kernel configuration functions, can preset the
// cache size.
func NewDict(options ...func(*configs)) *Dict {
	c := makeconfigs()
	for _, opt := range options {
		opt(c)
	}
	b := &Dict{
		nodes:  make([]huddnode, 2, 1024),
		unique: make(map[huddkey]int, 1024),
		byname: make(map[string]int),
	}
	b.nodes[0] = huddnode{level: _MAXVAR, low: 0, high: 0}
	b.nodes[1] = huddnode{level: _MAXVAR, low: 1, high: 1}
	b.applycache.cacheinit(c.cachesize)
	b.quantcache.cacheinit(c.cachesize)
	return b
}

// Varnum returns the number of registered variables.
func (b *Dict) Varnum() int {
	return len(b.vars)
}

// newvar allocates the next BDD level together with its two literal
// nodes.
func (b *Dict) newvar(name string, owner interface{}) int {
	level := int32(len(b.vars))
	if level >= _MAXVAR {
		b.seterror("too many variables (%d)", level)
		return -1
	}
	pos := b.makenode(level, 0, 1)
	neg := b.makenode(level, 1, 0)
	b.vars = append(b.vars, vardecl{
		name:     name,
		positive: pos,
		negative: neg,
		refs:     map[interface{}]int{owner: 1},
	})
	if name != "" {
		b.byname[name] = int(level)
	}
	return int(level)
}

// RegisterProposition returns the variable associated with the named
// atomic proposition, creating it on first sight, and records a
// reference from owner.
func (b *Dict) RegisterProposition(name string, owner interface{}) int {
	if v, ok := b.byname[name]; ok {
		b.vars[v].refs[owner]++
		return v
	}
	return b.newvar(name, owner)
}

// RegisterAnonymous creates a fresh anonymous variable owned by
// owner. Anonymous variables are used to encode non-Boolean subterms
// during propositional-equivalence checks.
func (b *Dict) RegisterAnonymous(owner interface{}) int {
	return b.newvar("", owner)
}

// HasRegisteredProposition returns the variable registered for name
// by owner, or -1.
func (b *Dict) HasRegisteredProposition(name string, owner interface{}) int {
	v, ok := b.byname[name]
	if !ok {
		return -1
	}
	if b.vars[v].refs[owner] == 0 {
		return -1
	}
	return v
}

// RegisterAllPropositionsOf records, for every named variable
// referenced by from, an additional reference from to.
func (b *Dict) RegisterAllPropositionsOf(from, to interface{}) {
	for v := range b.vars {
		if b.vars[v].name != "" && b.vars[v].refs[from] > 0 {
			b.vars[v].refs[to]++
		}
	}
}

// UnregisterAll drops every reference held by owner. Levels are
// never reused, so nodes built from unregistered variables stay
// valid; the reference counts only track which automata still name a
// variable.
func (b *Dict) UnregisterAll(owner interface{}) {
	for v := range b.vars {
		delete(b.vars[v].refs, owner)
	}
}

// VarName returns the proposition name attached to a variable. The
// second result is false for anonymous variables.
func (b *Dict) VarName(v int) (string, bool) {
	if v < 0 || v >= len(b.vars) || b.vars[v].name == "" {
		return "", false
	}
	return b.vars[v].name, true
}

// Ithvar returns the node for the positive literal of variable v.
func (b *Dict) Ithvar(v int) Node {
	if v < 0 || v >= len(b.vars) {
		b.seterror("unknown variable used (%d) in call to Ithvar", v)
		return False
	}
	return b.vars[v].positive
}

// NIthvar returns the node for the negative literal of variable v.
func (b *Dict) NIthvar(v int) Node {
	if v < 0 || v >= len(b.vars) {
		b.seterror("unknown variable used (%d) in call to NIthvar", v)
		return False
	}
	return b.vars[v].negative
}

// Var returns the variable labeling a decision node.
func (b *Dict) Var(n Node) int {
	if b.isleaf(n) {
		b.seterror("try to access the variable of leaf node %d", n)
		return -1
	}
	return int(b.nodes[n].level)
}

// Low returns the false branch of a decision node.
func (b *Dict) Low(n Node) Node {
	if b.isleaf(n) {
		b.seterror("illegal access to node %d in call to Low", n)
		return False
	}
	return b.nodes[n].low
}

// High returns the true branch of a decision node.
func (b *Dict) High(n Node) Node {
	if b.isleaf(n) {
		b.seterror("illegal access to node %d in call to High", n)
		return False
	}
	return b.nodes[n].high
}

// Stats returns information about the node table.
func (b *Dict) Stats() string {
	res := fmt.Sprintf("Allocated:      %d\n", len(b.nodes))
	res += fmt.Sprintf("Variables:      %d\n", len(b.vars))
	res += fmt.Sprintf("Produced:       %d\n", b.produced)
	res += fmt.Sprintf("Unique Access:  %d\n", b.uniqueAccess)
	res += fmt.Sprintf("Unique Hit:     %d\n", b.uniqueHit)
	res += fmt.Sprintf("Unique Miss:    %d", b.uniqueMiss)
	return res
}
