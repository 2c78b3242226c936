package transform

import "github.com/vito/scribe/pkg/ast"

// Eachifier rewrites `for x in coll` loops into `coll.each do |x| ... end`.
type Eachifier struct{}

func (Eachifier) Transform(n ast.Node) ast.Node {
	loop, ok := n.(*ast.For)
	if !ok || loop.Iterable == nil || loop.Var == nil {
		return n
	}
	call := ast.BuildCall(loop.Iterable, "each")
	call.Loc = loop.Loc
	call.Args.Loc = loop.Loc
	return &ast.Iter{
		Loc:    loop.Loc,
		Call:   call,
		Params: loop.Var,
		Body:   loop.Body,
	}
}
