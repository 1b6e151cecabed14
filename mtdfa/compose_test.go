// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

package mtdfa

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ltlfsynt/ltlfsynt/ltlf"
	"github.com/ltlfsynt/ltlfsynt/mtbdd"
)

func TestComposeMatchesDirect(t *testing.T) {
	inputs := []string{
		"G a & G b",
		"F a | G b",
		"(a U b) & (c U d)",
		"G (a -> X b) & F c",
		"!(F a & G b)",
		"(F a) xor (F b)",
		"(G a) <-> (G b)",
		"(F a) -> (F b)",
		"F a & F b & F c & F d",
		"G a | G b | G c",
	}
	for _, minimize := range []bool{false, true} {
		for _, byAPs := range []bool{false, true} {
			for _, input := range inputs {
				dict := mtbdd.NewDict()
				f, err := ltlf.Parse(input)
				require.NoError(t, err)
				direct := LtlfToMTDFA(f, dict, true, true, true)
				composed := LtlfToMTDFACompose(f, dict, minimize, byAPs, true, true, true)
				sameLanguage(t, direct, composed)
			}
		}
	}
}

func TestComposeTemporalLeaf(t *testing.T) {
	dict := mtbdd.NewDict()
	f := ltlf.MustParse("a U b")
	composed := LtlfToMTDFACompose(f, dict, true, false, true, true, true)
	direct := LtlfToMTDFA(f, dict, true, true, true)
	sameLanguage(t, direct, composed)
}

func TestComposeDropsNames(t *testing.T) {
	dict := mtbdd.NewDict()
	f := ltlf.MustParse("F a")
	composed := LtlfToMTDFACompose(f, dict, true, false, false, true, true)
	require.Empty(t, composed.Names)
}

func TestComposeIndependentConjuncts(t *testing.T) {
	// no shared proposition anywhere: exercises the independent
	// list of the AP ordering
	dict := mtbdd.NewDict()
	f := ltlf.MustParse("F a & F b & F c")
	composed := LtlfToMTDFACompose(f, dict, true, true, true, true, true)
	direct := LtlfToMTDFA(f, dict, true, true, true)
	sameLanguage(t, direct, composed)
}
