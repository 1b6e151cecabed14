// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

/*
Package mtbdd implements Multi-Terminal Binary Decision Diagrams
(MTBDD): BDDs whose leaves are either the Boolean constants or
terminal nodes carrying an arbitrary integer value.

# Basics

Nodes are identified by non-negative integers, with the convention
that 1 (respectively 0) is the address of the constant True
(respectively False). Every other node is either a decision node,
labeled by the level of a BDD variable with a low and a high branch,
or a terminal node carrying an integer value. Terminal nodes live at
the same (maximal) level as the constants, so all the recursive
operations treat them as leaves.

Variables are registered dynamically on a Dict, the shared variable
dictionary. The variable order is the registration order. Each
registration names an owner; a variable stays attached to the
dictionary as long as at least one owner references it, which lets
automata built over the same dictionary share nodes safely.

# Caches

The basic Boolean operations (Apply, Not) use caches owned by the
dictionary, because their entries stay valid for the whole life of
the dictionary. The multi-terminal operations take an explicit
ExtCache owned by the calling operation, plus a caller-chosen key:
the interpretation of terminals may change between passes, and
bumping the key is how a caller invalidates previous entries.

The data structures and algorithms of the kernel are an adaptation of
the BuDDy library design: a unique table maps each (level, low, high)
triplet to a single node, and the operation caches are keyed by node
ids.
*/
package mtbdd
