package ast

import (
	"regexp"
	"strings"
)

// KindOf is nil-safe: a nil node has KindUnknown.
func KindOf(n Node) Kind {
	if n == nil {
		return KindUnknown
	}
	return n.Kind()
}

// NameOf returns the name a node is known by: the method of a call or
// block invocation, the name of a definition, the target of an
// assignment, or the referenced variable or constant.
func NameOf(n Node) (string, bool) {
	switch n := n.(type) {
	case *Call:
		return n.Name, true
	case *AttrAsgn:
		return n.Name, true
	case *Iter:
		return NameOf(n.Call)
	case *Defn:
		return n.Name, true
	case *Defs:
		return n.Name, true
	case *Class:
		return ConstPath(n.Name)
	case *Module:
		return ConstPath(n.Name)
	case *Asgn:
		return n.Name, true
	case *Var:
		return n.Name, true
	case *Colon2, *Colon3:
		return ConstPath(n)
	}
	return "", false
}

// ConstPath renders a constant reference as a `::` separated path.
func ConstPath(n Node) (string, bool) {
	switch n := n.(type) {
	case *Var:
		if n.Of == KindConst {
			return n.Name, true
		}
	case *Colon2:
		scope, ok := ConstPath(n.Scope)
		if !ok {
			return "", false
		}
		return scope + "::" + n.Name, true
	case *Colon3:
		return "::" + n.Name, true
	}
	return "", false
}

// ArgumentsOf returns the argument list subtree of a node: the *Arglist of
// a call or block invocation, or the *Args of a method definition.
func ArgumentsOf(n Node) (Node, bool) {
	switch n := n.(type) {
	case *Call:
		if n.Args == nil {
			return nil, false
		}
		return n.Args, true
	case *AttrAsgn:
		if n.Args == nil {
			return nil, false
		}
		return n.Args, true
	case *Iter:
		return ArgumentsOf(n.Call)
	case *Defn:
		if n.Args == nil {
			return nil, false
		}
		return n.Args, true
	case *Defs:
		if n.Args == nil {
			return nil, false
		}
		return n.Args, true
	}
	return nil, false
}

// FlattenedArgumentNames resolves a parameter list or binding pattern into
// the ordered names it binds. Method definitions yield their formal
// parameters; block invocations yield their block parameters.
func FlattenedArgumentNames(n Node) []string {
	var names []string
	var flatten func(Node)
	flatten = func(n Node) {
		switch n := n.(type) {
		case *Args:
			if n == nil {
				return
			}
			for _, p := range n.Params {
				names = append(names, p.Name)
			}
		case *Defn:
			flatten(n.Args)
		case *Defs:
			flatten(n.Args)
		case *Iter:
			flatten(n.Params)
		case *Asgn:
			names = append(names, n.Name)
		case *Masgn:
			for _, t := range n.Targets {
				flatten(t)
			}
		case *Splat:
			flatten(n.Value)
		case *BlockPass:
			flatten(n.Value)
		case *Var:
			names = append(names, n.Name)
		}
	}
	flatten(n)
	return names
}

func argumentCount(n Node) int {
	switch n := n.(type) {
	case *Call:
		return n.Args.Len()
	case *AttrAsgn:
		return n.Args.Len()
	case *Iter:
		return argumentCount(n.Call)
	case *Defn:
		if n.Args != nil {
			return len(n.Args.Params)
		}
	case *Defs:
		if n.Args != nil {
			return len(n.Args.Params)
		}
	}
	return 0
}

// NameMatcher matches a node name.
type NameMatcher interface {
	MatchName(string) bool
}

type exactName string

func (e exactName) MatchName(s string) bool { return string(e) == s }

type patternName struct{ re *regexp.Regexp }

func (p patternName) MatchName(s string) bool { return p.re.MatchString(s) }

type nameSet map[string]struct{}

func (ns nameSet) MatchName(s string) bool {
	_, ok := ns[s]
	return ok
}

// Exactly matches one name.
func Exactly(name string) NameMatcher { return exactName(name) }

// Like matches names against a regular expression.
func Like(re *regexp.Regexp) NameMatcher { return patternName{re} }

// OneOf matches any of the given names.
func OneOf(names ...string) NameMatcher {
	ns := make(nameSet, len(names))
	for _, n := range names {
		ns[n] = struct{}{}
	}
	return ns
}

// CountMatcher matches a number of arguments or block parameters.
type CountMatcher interface {
	MatchCount(int) bool
}

type exactCount int

func (c exactCount) MatchCount(n int) bool { return int(c) == n }

type countRange struct{ lo, hi int }

func (c countRange) MatchCount(n int) bool { return n >= c.lo && n <= c.hi }

type presence bool

func (p presence) MatchCount(n int) bool { return (n > 0) == bool(p) }

// Count matches exactly n.
func Count(n int) CountMatcher { return exactCount(n) }

// Between matches lo through hi inclusive.
func Between(lo, hi int) CountMatcher { return countRange{lo, hi} }

// Present matches any non-zero count when true and zero when false.
func Present(present bool) CountMatcher { return presence(present) }

// ConditionalType classifies an If by which branches it has.
type ConditionalType int

const (
	AnyConditional ConditionalType = iota
	CondIf
	CondUnless
	CondIfElse
)

// TypeOf classifies a conditional by branch presence alone.
func TypeOf(n *If) ConditionalType {
	switch {
	case n.Then != nil && n.Else == nil:
		return CondIf
	case n.Then == nil && n.Else != nil:
		return CondUnless
	case n.Then != nil && n.Else != nil:
		return CondIfElse
	}
	return AnyConditional
}

// Predicate describes a node to match. Zero fields match anything.
//
// Block counts block parameters and only matches block invocations, so
// Block: Present(true) rejects a plain call.
type Predicate struct {
	Kinds       []Kind
	Name        NameMatcher
	Arguments   CountMatcher
	Block       CountMatcher
	Conditional ConditionalType
}

// Match reports whether n satisfies p.
func Match(n Node, p Predicate) bool {
	if n == nil {
		return false
	}
	if len(p.Kinds) > 0 {
		found := false
		for _, k := range p.Kinds {
			if n.Kind() == k {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if p.Name != nil {
		name, ok := NameOf(n)
		if !ok || !p.Name.MatchName(name) {
			return false
		}
	}
	if p.Arguments != nil && !p.Arguments.MatchCount(argumentCount(n)) {
		return false
	}
	if p.Block != nil {
		iter, ok := n.(*Iter)
		if !ok || !p.Block.MatchCount(len(FlattenedArgumentNames(iter.Params))) {
			return false
		}
	}
	if p.Conditional != AnyConditional {
		cond, ok := n.(*If)
		if !ok || TypeOf(cond) != p.Conditional {
			return false
		}
	}
	return true
}

func IsModule(n Node, name NameMatcher) bool {
	return Match(n, Predicate{Kinds: []Kind{KindModule}, Name: name})
}

func IsClass(n Node, name NameMatcher) bool {
	return Match(n, Predicate{Kinds: []Kind{KindClass}, Name: name})
}

// IsMethod matches both instance and receiver method definitions.
func IsMethod(n Node, name NameMatcher) bool {
	return Match(n, Predicate{Kinds: []Kind{KindDefn, KindDefs}, Name: name})
}

// IsCall matches calls and block invocations.
func IsCall(n Node, p Predicate) bool {
	p.Kinds = []Kind{KindCall, KindIter}
	return Match(n, p)
}

func IsConditional(n Node, t ConditionalType) bool {
	return Match(n, Predicate{Kinds: []Kind{KindIf}, Conditional: t})
}

func IsCase(n Node) bool {
	return KindOf(n) == KindCase
}

// Shape is the surface syntax a conditional is rendered with.
type Shape int

const (
	BlockIf Shape = iota
	BlockUnless
	Ternary
	DanglingIf
	DanglingUnless
)

func (s Shape) String() string {
	switch s {
	case BlockIf:
		return "block_if"
	case BlockUnless:
		return "block_unless"
	case Ternary:
		return "ternary"
	case DanglingIf:
		return "dangling_if"
	case DanglingUnless:
		return "dangling_unless"
	}
	return "unknown"
}

// ConditionalShape recovers the surface form of a conditional from the
// lines its condition and branches started on. The parser does not keep
// this distinction, so a hand-wrapped ternary or a one-line block if is
// classified by where its parts landed, not by how it was written.
func ConditionalShape(n *If) Shape {
	l0 := lineOf(n.Cond)
	switch {
	case n.Then != nil && n.Else != nil:
		if lineOf(n.Then) == l0 && lineOf(n.Else) == l0 {
			return Ternary
		}
		return BlockIf
	case n.Then != nil:
		if lineOf(n.Then) == l0 && KindOf(n.Then) != KindBlock {
			return DanglingIf
		}
		return BlockIf
	case n.Else != nil:
		if lineOf(n.Else) == l0 && KindOf(n.Else) != KindBlock {
			return DanglingUnless
		}
		return BlockUnless
	}
	return BlockIf
}

func lineOf(n Node) int {
	if n == nil {
		return 0
	}
	return n.SourceLine()
}

// EnclosingIter finds the block invocation whose call is target, searching
// from root. The tree is not modified and no parent links are kept.
func EnclosingIter(root Node, target Node) (*Iter, bool) {
	var found *Iter
	Walk(root, func(n Node) bool {
		if found != nil {
			return false
		}
		if it, ok := n.(*Iter); ok && it.Call == target {
			found = it
			return false
		}
		return true
	})
	return found, found != nil
}

// Parent finds the node whose direct children include target.
func Parent(root Node, target Node) (Node, bool) {
	var found Node
	Walk(root, func(n Node) bool {
		if found != nil {
			return false
		}
		for _, c := range Children(n) {
			if c == target {
				found = n
				return false
			}
		}
		return true
	})
	return found, found != nil
}

// IsOperator reports whether a method name is spelled with punctuation.
func IsOperator(name string) bool {
	if name == "" {
		return false
	}
	return strings.IndexFunc(name, func(r rune) bool {
		return r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
	}) < 0
}
