// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

package mtdfa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ltlfsynt/ltlfsynt/ltlf"
	"github.com/ltlfsynt/ltlfsynt/mtbdd"
)

// translateOn translates over a shared dictionary so that the
// results can be combined.
func translateOn(t *testing.T, dict *mtbdd.Dict, input string) *MTDFA {
	t.Helper()
	f, err := ltlf.Parse(input)
	require.NoError(t, err)
	return LtlfToMTDFA(f, dict, true, true, true)
}

func TestProductAnd(t *testing.T) {
	dict := mtbdd.NewDict()
	ga := translateOn(t, dict, "G a")
	gb := translateOn(t, dict, "G b")
	gab := translateOn(t, dict, "G (a & b)")

	prod, err := Product(ga, gb)
	require.NoError(t, err)
	sameLanguage(t, Minimize(prod), gab)
	assert.Equal(t, []string{"a", "b"}, prod.APs)

	// scenario: one state, both propositions high, accepting
	// self-loop
	min := Minimize(prod)
	require.Equal(t, 1, min.NumRoots())
	dst, acc := step(min, 0, map[string]bool{"a": true, "b": true})
	assert.Equal(t, 0, dst)
	assert.True(t, acc)
	dst, _ = step(min, 0, map[string]bool{"a": true})
	assert.Equal(t, -2, dst)
}

func TestProductBooleanLaws(t *testing.T) {
	dict := mtbdd.NewDict()
	fa := translateOn(t, dict, "F a")
	gb := translateOn(t, dict, "G b")

	// L(A or B) == complement(L(!A and !B))
	or, err := ProductOr(fa, gb)
	require.NoError(t, err)
	nand, err := Product(Complement(fa), Complement(gb))
	require.NoError(t, err)
	sameLanguage(t, or, Complement(nand))

	// implication as disjunction
	imp, err := ProductImplies(fa, gb)
	require.NoError(t, err)
	or2, err := ProductOr(Complement(fa), gb)
	require.NoError(t, err)
	sameLanguage(t, imp, or2)

	// xor and xnor are complements
	x, err := ProductXor(fa, gb)
	require.NoError(t, err)
	xn, err := ProductXnor(fa, gb)
	require.NoError(t, err)
	sameLanguage(t, x, Complement(xn))
}

func TestComplement(t *testing.T) {
	dict := mtbdd.NewDict()
	fa := translateOn(t, dict, "F a")
	gna := translateOn(t, dict, "G !a")
	// complement(F a) recognizes the same language as G !a
	sameLanguage(t, Complement(fa), gna)
	// and the double complement is the identity
	sameLanguage(t, Complement(Complement(fa)), fa)
}

func TestProductDifferentDictionaries(t *testing.T) {
	a := translate(t, "G a")
	b := translate(t, "G b")
	_, err := Product(a, b)
	assert.ErrorIs(t, err, ErrDifferentDictionaries)
}

func TestProductXorSelfIsEmpty(t *testing.T) {
	dict := mtbdd.NewDict()
	for _, input := range []string{"a U b", "G (a -> X b)", "F a & G b"} {
		dfa := translateOn(t, dict, input)
		x, err := ProductXor(dfa, dfa)
		require.NoError(t, err)
		assert.True(t, x.IsEmpty(), input)
	}
}
