// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

package ltlf

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// The grammar mirrors the precedence used by the printer, loosest
// binding first: <->, ->, xor, |, &, U/W/R/M, unary, atoms. The
// binary operators ->, U, W, R and M associate to the right.

type grmEquiv struct {
	Left *grmImplies   `parser:"@@"`
	Rest []*grmImplies `parser:"( Equiv @@ )*"`
}

type grmImplies struct {
	Left *grmXor   `parser:"@@"`
	Rest []*grmXor `parser:"( Implies @@ )*"`
}

type grmXor struct {
	Left *grmOr   `parser:"@@"`
	Rest []*grmOr `parser:"( 'xor' @@ )*"`
}

type grmOr struct {
	Left *grmAnd   `parser:"@@"`
	Rest []*grmAnd `parser:"( Or @@ )*"`
}

type grmAnd struct {
	Left *grmUntil   `parser:"@@"`
	Rest []*grmUntil `parser:"( And @@ )*"`
}

type grmUntil struct {
	Left *grmUnary      `parser:"@@"`
	Rest []*grmUntilArm `parser:"@@*"`
}

type grmUntilArm struct {
	Op    string    `parser:"@('U' | 'W' | 'R' | 'M')"`
	Right *grmUnary `parser:"@@"`
}

type grmUnary struct {
	Op    *string   `parser:"( @( '!' | StrongX | 'X' | 'F' | 'G' )"`
	Unary *grmUnary `parser:"  @@ )"`
	Prim  *grmPrim  `parser:"| @@"`
}

type grmPrim struct {
	True  bool      `parser:"  @( '1' | 'true' | 'tt' )"`
	False bool      `parser:"| @( '0' | 'false' | 'ff' )"`
	Atom  *string   `parser:"| @Ident"`
	Sub   *grmEquiv `parser:"| '(' @@ ')'"`
}

var ltlfLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "whitespace", Pattern: `\s+`},
	{Name: "Equiv", Pattern: `<->`},
	{Name: "Implies", Pattern: `->`},
	{Name: "StrongX", Pattern: `X\[!\]`},
	{Name: "Or", Pattern: `\|\||\|`},
	{Name: "And", Pattern: `&&|&`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[!()01]`},
})

var ltlfParser = participle.MustBuild[grmEquiv](
	participle.Lexer(ltlfLexer),
	participle.UseLookahead(2),
)

// Parse reads a formula in infix syntax. The identifiers F, G, M, R,
// U, W, X, tt, ff, true, false and xor are reserved and cannot be
// used as atomic propositions.
func Parse(input string) (*Formula, error) {
	g, err := ltlfParser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("ltlf: %w", err)
	}
	return g.formula(), nil
}

// MustParse is like Parse but panics on error. Intended for tests
// and examples.
func MustParse(input string) *Formula {
	f, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return f
}

func (g *grmEquiv) formula() *Formula {
	res := g.Left.formula()
	for _, r := range g.Rest {
		res = Equiv(res, r.formula())
	}
	return res
}

func (g *grmImplies) formula() *Formula {
	// fold to the right: a -> b -> c is a -> (b -> c)
	res := g.Left.formula()
	if len(g.Rest) == 0 {
		return res
	}
	args := []*Formula{res}
	for _, r := range g.Rest {
		args = append(args, r.formula())
	}
	res = args[len(args)-1]
	for i := len(args) - 2; i >= 0; i-- {
		res = Implies(args[i], res)
	}
	return res
}

func (g *grmXor) formula() *Formula {
	res := g.Left.formula()
	for _, r := range g.Rest {
		res = Xor(res, r.formula())
	}
	return res
}

func (g *grmOr) formula() *Formula {
	res := g.Left.formula()
	for _, r := range g.Rest {
		res = Or(res, r.formula())
	}
	return res
}

func (g *grmAnd) formula() *Formula {
	res := g.Left.formula()
	for _, r := range g.Rest {
		res = And(res, r.formula())
	}
	return res
}

func (g *grmUntil) formula() *Formula {
	// fold to the right: a U b U c is a U (b U c)
	res := g.Left.formula()
	if len(g.Rest) == 0 {
		return res
	}
	last := len(g.Rest) - 1
	acc := g.Rest[last].Right.formula()
	for i := last; i >= 0; i-- {
		left := res
		if i > 0 {
			left = g.Rest[i-1].Right.formula()
		}
		switch g.Rest[i].Op {
		case "U":
			acc = Until(left, acc)
		case "W":
			acc = WeakUntil(left, acc)
		case "R":
			acc = Release(left, acc)
		case "M":
			acc = StrongRelease(left, acc)
		}
	}
	return acc
}

func (g *grmUnary) formula() *Formula {
	if g.Prim != nil {
		return g.Prim.formula()
	}
	sub := g.Unary.formula()
	switch *g.Op {
	case "!":
		return Not(sub)
	case "X":
		return Next(sub)
	case "X[!]":
		return StrongNext(sub)
	case "F":
		return Eventually(sub)
	case "G":
		return Globally(sub)
	}
	return sub
}

func (g *grmPrim) formula() *Formula {
	switch {
	case g.True:
		return True()
	case g.False:
		return False()
	case g.Atom != nil:
		return Atom(*g.Atom)
	default:
		return g.Sub.formula()
	}
}
