package ast

// Str is a plain string literal. Value holds the unescaped contents.
type Str struct {
	Loc
	Value string
}

func (*Str) Kind() Kind { return KindStr }

// XStr is a shell command literal, `` `cmd` ``.
type XStr struct {
	Loc
	Value string
}

func (*XStr) Kind() Kind { return KindXStr }

// Interp is an interpolated string, symbol, regexp or shell command. Parts
// alternate between *Str segments and *EvStr expressions. Options holds
// regexp flags.
type Interp struct {
	Loc
	Of      Kind
	Parts   []Node
	Options string
}

func (i *Interp) Kind() Kind { return i.Of }

// EvStr is an interpolated `#{expr}` segment.
type EvStr struct {
	Loc
	Value Node
}

func (*EvStr) Kind() Kind { return KindEvStr }

// Lit is a self-evaluating literal: numbers, symbols, regexps and
// numeric ranges.
type Lit struct {
	Loc
	Value Literal
}

func (*Lit) Kind() Kind { return KindLit }

// Literal is the value held by a Lit.
type Literal interface {
	literal()
}

type Int int64

type Float float64

type Symbol string

type Regexp struct {
	Source  string
	Options string
}

type Range struct {
	Low, High int64
	Exclusive bool
}

func (Int) literal()    {}
func (Float) literal()  {}
func (Symbol) literal() {}
func (Regexp) literal() {}
func (Range) literal()  {}

type Array struct {
	Loc
	Elems []Node
}

func (*Array) Kind() Kind { return KindArray }

// Pair is one `key => value` entry of a Hash.
type Pair struct {
	Key   Node
	Value Node
}

type Hash struct {
	Loc
	Pairs []Pair
}

func (*Hash) Kind() Kind { return KindHash }

// RangeExpr is a range with non-literal bounds, dot2 or dot3.
type RangeExpr struct {
	Loc
	Exclusive bool
	Low       Node
	High      Node
}

func (r *RangeExpr) Kind() Kind {
	if r.Exclusive {
		return KindDot3
	}
	return KindDot2
}
