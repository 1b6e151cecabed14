// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

package mtbdd

// Operator describes the binary operations available on an Apply,
// and the constant-shortcut policies accepted by Apply2Leaves.
//
// The restricted operators OPandZero, OPorOne and OPimpOne only
// apply the rewrites whose result is a Boolean constant. They are
// meant for multi-terminal applies in which a constant operand still
// has to be combined with the terminals of the other operand, as in
// the product of two automata: there 1 & x cannot be shortcut to x,
// but 0 & x is still 0.
type Operator int

const (
	OPand     Operator = iota // Boolean conjunction
	OPxor                     // Exclusive or
	OPor                      // Disjunction
	OPnand                    // Negation of and
	OPnor                     // Negation of or
	OPimp                     // Implication
	OPbiimp                   // Equivalence
	OPdiff                    // Set difference
	OPandZero                 // shortcut only 0 & x = x & 0 = 0
	OPorOne                   // shortcut only 1 | x = x | 1 = 1
	OPimpOne                  // shortcut only 0 -> x = 1 and x -> 1 = 1
	OPnone                    // no constant shortcut
	op_not                    // Negation. Only used in cache entries
)

var opnames = [...]string{
	OPand:     "and",
	OPxor:     "xor",
	OPor:      "or",
	OPnand:    "nand",
	OPnor:     "nor",
	OPimp:     "imp",
	OPbiimp:   "biimp",
	OPdiff:    "diff",
	OPandZero: "and-zero",
	OPorOne:   "or-one",
	OPimpOne:  "imp-one",
	OPnone:    "none",
	op_not:    "not",
}

func (op Operator) String() string {
	return opnames[op]
}

var opres = [...][2][2]int{
	//                      00    01               10    11
	OPand:   {0: [2]int{0: 0, 1: 0}, 1: [2]int{0: 0, 1: 1}}, // 0001
	OPxor:   {0: [2]int{0: 0, 1: 1}, 1: [2]int{0: 1, 1: 0}}, // 0110
	OPor:    {0: [2]int{0: 0, 1: 1}, 1: [2]int{0: 1, 1: 1}}, // 0111
	OPnand:  {0: [2]int{0: 1, 1: 1}, 1: [2]int{0: 1, 1: 0}}, // 1110
	OPnor:   {0: [2]int{0: 1, 1: 0}, 1: [2]int{0: 0, 1: 0}}, // 1000
	OPimp:   {0: [2]int{0: 1, 1: 1}, 1: [2]int{0: 0, 1: 1}}, // 1101
	OPbiimp: {0: [2]int{0: 1, 1: 0}, 1: [2]int{0: 0, 1: 1}}, // 1001
	OPdiff:  {0: [2]int{0: 0, 1: 0}, 1: [2]int{0: 1, 1: 0}}, // 0010
}
