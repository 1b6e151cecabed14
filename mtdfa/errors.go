// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

package mtdfa

import "errors"

// ErrDifferentDictionaries is returned when combining automata that
// do not share their BDD dictionary.
var ErrDifferentDictionaries = errors.New("mtdfa: automata should share their dictionary")

// ErrUnsupportedOperator is returned when a translation meets an
// operator it cannot handle.
var ErrUnsupportedOperator = errors.New("mtdfa: unsupported operator")

// ErrNotDeterministic is returned by FromAutomaton on automata that
// have overlapping transitions out of a state.
var ErrNotDeterministic = errors.New("mtdfa: input automaton is not deterministic")
