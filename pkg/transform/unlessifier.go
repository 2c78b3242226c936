package transform

import "github.com/vito/scribe/pkg/ast"

// Unlessifier turns a negated condition with no else branch into an
// unless: `x if !y` becomes `x unless y`.
type Unlessifier struct{}

func (Unlessifier) Transform(n ast.Node) ast.Node {
	cond, ok := n.(*ast.If)
	if !ok || cond.Then == nil || cond.Else != nil {
		return n
	}
	not, ok := cond.Cond.(*ast.Not)
	if !ok || not.Value == nil {
		return n
	}
	return &ast.If{Loc: cond.Loc, Cond: not.Value, Else: cond.Then}
}
