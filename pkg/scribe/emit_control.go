package scribe

import (
	"strings"

	"github.com/vito/scribe/pkg/ast"
)

func (r *renderer) emitBlock(b *ast.Block) string {
	var out strings.Builder
	for i, stmt := range b.Stmts {
		if i > 0 {
			if r.needsBlankLineBetween(b.Stmts[i-1], stmt) {
				out.WriteString(r.nl())
			}
			out.WriteString(r.nl())
		}
		out.WriteString(r.emit(stmt))
	}
	return out.String()
}

// needsBlankLineBetween sets multi-line constructs apart from their
// neighbours, and grouped calls apart from anything but more calls of the
// same name.
func (r *renderer) needsBlankLineBetween(prev, next ast.Node) bool {
	if isMultiline(prev) || isMultiline(next) {
		return true
	}

	prevName, prevCall := callName(prev)
	nextName, nextCall := callName(next)
	if (prevCall && r.grouped[prevName]) || (nextCall && r.grouped[nextName]) {
		return !(prevCall && nextCall && prevName == nextName)
	}
	return false
}

// isMultiline reports whether n renders as a header, a body and an `end`.
func isMultiline(n ast.Node) bool {
	switch n := n.(type) {
	case *ast.Class, *ast.SClass, *ast.Module, *ast.Defn, *ast.Defs,
		*ast.Iter, *ast.Case, *ast.Loop, *ast.For, *ast.Ensure:
		return true
	case *ast.If:
		switch ast.ConditionalShape(n) {
		case ast.BlockIf, ast.BlockUnless:
			return true
		}
	case *ast.Rescue:
		return !isDanglingRescue(n)
	}
	return false
}

// callName is the name of a plain call without a block.
func callName(n ast.Node) (string, bool) {
	if c, ok := n.(*ast.Call); ok {
		return c.Name, true
	}
	return "", false
}

func (r *renderer) emitIf(n *ast.If) string {
	cond := r.require(n, "condition", n.Cond)

	switch ast.ConditionalShape(n) {
	case ast.Ternary:
		return r.operand(cond) + " ? " + r.operand(n.Then) + " : " + r.operand(n.Else)
	case ast.DanglingIf:
		return r.emit(n.Then) + " if " + r.emit(cond)
	case ast.DanglingUnless:
		return r.emit(n.Else) + " unless " + r.emit(cond)
	case ast.BlockUnless:
		return "unless " + r.emit(cond) + r.body(n.Else) + r.nl("end")
	}

	out := "if " + r.emit(cond) + r.body(n.Then)
	els := n.Else
	for {
		elsif, ok := els.(*ast.If)
		if !ok || elsif.Then == nil || ast.ConditionalShape(elsif) != ast.BlockIf {
			break
		}
		out += r.nl("elsif "+r.emit(r.require(elsif, "condition", elsif.Cond))) + r.body(elsif.Then)
		els = elsif.Else
	}
	if els != nil {
		out += r.nl("else") + r.body(els)
	}
	return out + r.nl("end")
}

func (r *renderer) emitCase(n *ast.Case) string {
	out := "case"
	if n.Subject != nil {
		out += " " + r.emit(n.Subject)
	}
	for _, w := range n.Whens {
		out += r.emitWhen(w)
	}
	if n.Else != nil {
		out += r.nl("else") + r.body(n.Else)
	}
	return out + r.nl("end")
}

// emitWhen renders a clause on a new line at the level of its case.
func (r *renderer) emitWhen(n *ast.When) string {
	return r.nl("when "+r.list(n.Values)) + r.body(n.Body)
}

func (r *renderer) emitLoop(n *ast.Loop) string {
	keyword := "while"
	if n.Until {
		keyword = "until"
	}
	cond := r.emit(r.require(n, "condition", n.Cond))
	if n.PostCondition {
		return "begin" + r.body(n.Body) + r.nl("end "+keyword+" "+cond)
	}
	return keyword + " " + cond + r.body(n.Body) + r.nl("end")
}

func (r *renderer) emitFor(n *ast.For) string {
	header := "for " + r.pattern(r.require(n, "variable", n.Var)) +
		" in " + r.emit(r.require(n, "iterable", n.Iterable))
	return header + r.body(n.Body) + r.nl("end")
}

// isDanglingRescue reports whether a rescue is the `stmt rescue value`
// modifier: one bare clause with the statement and the handler on the
// rescue's own line.
func isDanglingRescue(n *ast.Rescue) bool {
	if n.Body == nil || n.Else != nil || len(n.Clauses) != 1 {
		return false
	}
	c := n.Clauses[0]
	if len(c.Exceptions) > 0 || c.Var != "" || c.Body == nil {
		return false
	}
	if _, ok := c.Body.(*ast.Block); ok {
		return false
	}
	line := n.SourceLine()
	return n.Body.SourceLine() == line && c.Body.SourceLine() == line
}

func (r *renderer) emitRescue(n *ast.Rescue) string {
	if isDanglingRescue(n) {
		return r.emit(n.Body) + " rescue " + r.emit(n.Clauses[0].Body)
	}
	return "begin" + r.beginBody(n) + r.nl("end")
}

// beginBody renders the inside of a begin block at the current level:
// the body and, for a rescue, its clauses.
func (r *renderer) beginBody(n ast.Node) string {
	if rescue, ok := n.(*ast.Rescue); ok && !isDanglingRescue(rescue) {
		return r.body(rescue.Body) + r.rescueClauses(rescue)
	}
	return r.body(n)
}

func (r *renderer) rescueClauses(n *ast.Rescue) string {
	var out strings.Builder
	for _, c := range n.Clauses {
		out.WriteString(r.emitResBody(c))
	}
	if n.Else != nil {
		out.WriteString(r.nl("else") + r.body(n.Else))
	}
	return out.String()
}

// emitResBody renders `rescue A, B => var` and its body on new lines.
func (r *renderer) emitResBody(n *ast.ResBody) string {
	header := "rescue"
	if len(n.Exceptions) > 0 {
		header += " " + r.list(n.Exceptions)
	}
	if n.Var != "" {
		header += " => " + n.Var
	}
	return r.nl(header) + r.body(n.Body)
}

func (r *renderer) emitEnsure(n *ast.Ensure) string {
	return "begin" + r.beginBody(n.Body) + r.nl("ensure") + r.body(n.Ensure) + r.nl("end")
}

func (r *renderer) emitJump(n *ast.Jump) string {
	keyword := n.Of.String()
	if n.Value == nil {
		return keyword
	}
	return keyword + " " + r.value(n.Value)
}

func (r *renderer) emitYield(n *ast.Yield) string {
	if len(n.Args) == 0 {
		return "yield"
	}
	return "yield(" + r.arguments(n.Args) + ")"
}

func (r *renderer) emitKeyword(n *ast.Keyword) string {
	if n.Of == ast.KindZSuper {
		return "super"
	}
	return n.Of.String()
}

func (r *renderer) emitLogical(n *ast.Logical) string {
	op := " && "
	if n.Of == ast.KindOr {
		op = " || "
	}
	left := r.emit(r.require(n, "left operand", n.Left))
	right := r.emit(r.require(n, "right operand", n.Right))
	return "(" + left + op + right + ")"
}

// emitNot folds negated equality and matching into `!=` and `!~`.
func (r *renderer) emitNot(n *ast.Not) string {
	value := r.require(n, "value", n.Value)
	if c, ok := value.(*ast.Call); ok && c.Receiver != nil && c.Args.Len() == 1 {
		switch c.Name {
		case "==":
			return r.binary(c, "!=")
		case "=~":
			return r.binary(c, "!~")
		}
	}
	return "!" + r.operand(value)
}
