package scribe

import (
	"strings"

	"github.com/vito/scribe/pkg/ast"
)

var unaryOperators = map[string]string{
	"-@": "-",
	"+@": "+",
	"~":  "~",
	"!":  "!",
}

var binaryPrecedence = map[string]int{
	"**": 10,
	"*":  8, "/": 8, "%": 8,
	"+": 7, "-": 7,
	"<<": 6, ">>": 6,
	"&": 5,
	"|": 4, "^": 4,
	">": 3, ">=": 3, "<": 3, "<=": 3,
	"<=>": 2, "==": 2, "===": 2, "!=": 2, "=~": 2, "!~": 2,
}

// emitCall renders a method call. forceParens parenthesises the arguments
// even for methods configured without parens, which a brace block needs
// to bind to the call.
func (r *renderer) emitCall(c *ast.Call, forceParens bool) string {
	args := c.Args.Items()
	if c.Receiver != nil {
		switch {
		case c.Name == "[]":
			return r.receiver(c.Receiver) + "[" + r.list(args) + "]"
		case len(args) == 0 && unaryOperators[c.Name] != "":
			return unaryOperators[c.Name] + r.receiver(c.Receiver)
		case len(args) == 1 && r.syntactic[c.Name]:
			return r.binary(c, c.Name)
		}
	}

	out := c.Name
	if c.Receiver != nil {
		out = r.receiver(c.Receiver) + "." + c.Name
	}
	if len(args) == 0 {
		return out
	}
	if r.noParens[c.Name] && !forceParens {
		return out + " " + r.arguments(args)
	}
	return out + "(" + r.arguments(args) + ")"
}

// binary renders `recv op arg`, grouping operands that bind more loosely
// than op.
func (r *renderer) binary(c *ast.Call, op string) string {
	prec := binaryPrecedence[op]
	rightAssoc := op == "**"

	left := r.emit(c.Receiver)
	if p, ok := r.precedenceOf(c.Receiver); ok && (p < prec || p == prec && rightAssoc) || needsGrouping(c.Receiver) {
		left = "(" + left + ")"
	}

	arg := c.Args.Args[0]
	right := r.emit(arg)
	if p, ok := r.precedenceOf(arg); ok && (p < prec || p == prec && !rightAssoc) || needsGrouping(arg) {
		right = "(" + right + ")"
	}

	return left + " " + op + " " + right
}

// precedenceOf returns the binding strength of n when it renders as an
// infix operation.
func (r *renderer) precedenceOf(n ast.Node) (int, bool) {
	switch n := n.(type) {
	case *ast.Call:
		if n.Receiver != nil && n.Args.Len() == 1 && r.syntactic[n.Name] {
			p, ok := binaryPrecedence[n.Name]
			return p, ok
		}
	case *ast.Not:
		if c, ok := n.Value.(*ast.Call); ok && c.Receiver != nil && c.Args.Len() == 1 {
			switch c.Name {
			case "==", "=~":
				return binaryPrecedence["=="], true
			}
		}
	}
	return 0, false
}

// needsGrouping reports whether n must be parenthesised wherever it is
// used as an operand.
func needsGrouping(n ast.Node) bool {
	switch n := n.(type) {
	case *ast.If, *ast.Masgn, *ast.OpAsgn, *ast.OpAsgn1, *ast.OpAsgn2, *ast.RangeExpr:
		return true
	case *ast.Asgn:
		return n.Value != nil
	case *ast.Rescue:
		return isDanglingRescue(n)
	case *ast.Lit:
		_, isRange := n.Value.(ast.Range)
		return isRange
	}
	return false
}

// operand renders n inside a larger expression.
func (r *renderer) operand(n ast.Node) string {
	out := r.emit(n)
	if needsGrouping(n) {
		return "(" + out + ")"
	}
	return out
}

// value renders n where an expression is expected: an argument, an
// assigned value, a jump operand or a hash pair. Modifier forms are wrapped
// so they cannot bind to the enclosing statement.
func (r *renderer) value(n ast.Node) string {
	out := r.emit(n)
	if isModifier(n) {
		return "(" + out + ")"
	}
	return out
}

// isModifier reports whether n renders as a trailing `if`, `unless` or
// `rescue` modifier.
func isModifier(n ast.Node) bool {
	switch n := n.(type) {
	case *ast.If:
		switch ast.ConditionalShape(n) {
		case ast.DanglingIf, ast.DanglingUnless:
			return true
		}
	case *ast.Rescue:
		return isDanglingRescue(n)
	}
	return false
}

// receiver renders n before a `.`, `[` or prefix operator.
func (r *renderer) receiver(n ast.Node) string {
	out := r.emit(n)
	if _, ok := r.precedenceOf(n); ok || needsGrouping(n) || isUnary(n) || ast.KindOf(n) == ast.KindNot {
		return "(" + out + ")"
	}
	return out
}

func isUnary(n ast.Node) bool {
	c, ok := n.(*ast.Call)
	return ok && c.Receiver != nil && c.Args.Len() == 0 && unaryOperators[c.Name] != ""
}

// arguments renders call arguments. A trailing hash, optionally followed
// by a block argument, drops its braces.
func (r *renderer) arguments(args []ast.Node) string {
	last := len(args) - 1
	if last >= 0 && ast.KindOf(args[last]) == ast.KindBlockPass {
		last--
	}
	parts := make([]string, len(args))
	for i, a := range args {
		if h, ok := a.(*ast.Hash); ok && i == last && len(h.Pairs) > 0 {
			parts[i] = r.pairs(h.Pairs)
			continue
		}
		parts[i] = r.value(a)
	}
	return strings.Join(parts, ", ")
}

func (r *renderer) emitAttrAsgn(n *ast.AttrAsgn) string {
	recv := r.receiver(r.require(n, "receiver", n.Receiver))
	args := n.Args.Items()
	var value ast.Node
	if len(args) > 0 {
		value = args[len(args)-1]
	}
	r.require(n, "value", value)

	if n.Name == "[]=" {
		return recv + "[" + r.list(args[:len(args)-1]) + "] = " + r.value(value)
	}
	return recv + "." + strings.TrimSuffix(n.Name, "=") + " = " + r.value(value)
}

func (r *renderer) emitIter(n *ast.Iter) string {
	call := r.require(n, "call", n.Call)

	params := ""
	if n.Params != nil {
		params = "|" + r.pattern(n.Params) + "|"
	}

	if isBraceBlock(n) {
		return r.invocation(call, true) + " {" + params + " " + r.emit(n.Body) + " }"
	}

	out := r.invocation(call, false) + " do"
	if params != "" {
		out += " " + params
	}
	return out + r.body(n.Body) + r.nl("end")
}

func (r *renderer) invocation(n ast.Node, forceParens bool) string {
	if c, ok := n.(*ast.Call); ok {
		return r.emitCall(c, forceParens)
	}
	return r.emit(n)
}

// isBraceBlock reports whether a block fits `{ ... }`: a single statement
// on the line of the call.
func isBraceBlock(n *ast.Iter) bool {
	if n.Body == nil || isMultiline(n.Body) {
		return false
	}
	if _, ok := n.Body.(*ast.Block); ok {
		return false
	}
	return n.Body.SourceLine() == n.SourceLine()
}

// pattern renders an assignment target list, shared by block parameters,
// for loops and multiple assignment.
func (r *renderer) pattern(n ast.Node) string {
	switch n := n.(type) {
	case *ast.Asgn:
		return n.Name
	case *ast.Masgn:
		parts := make([]string, len(n.Targets))
		for i, t := range n.Targets {
			if _, nested := t.(*ast.Masgn); nested {
				parts[i] = "(" + r.pattern(t) + ")"
			} else {
				parts[i] = r.pattern(t)
			}
		}
		return strings.Join(parts, ", ")
	case *ast.Splat:
		if n.Value == nil {
			return "*"
		}
		return "*" + r.pattern(n.Value)
	case *ast.BlockPass:
		return "&" + r.pattern(r.require(n, "value", n.Value))
	case *ast.AttrAsgn:
		recv := r.receiver(r.require(n, "receiver", n.Receiver))
		if n.Name == "[]=" {
			return recv + "[" + r.list(n.Args.Items()) + "]"
		}
		return recv + "." + strings.TrimSuffix(n.Name, "=")
	default:
		return r.emit(n)
	}
}

func (r *renderer) emitAsgn(n *ast.Asgn) string {
	if n.Value == nil {
		return n.Name
	}
	return n.Name + " = " + r.value(n.Value)
}

func (r *renderer) emitMasgn(n *ast.Masgn) string {
	lhs := r.pattern(n)
	if n.Value == nil {
		return lhs
	}
	if values, ok := n.Value.(*ast.Array); ok {
		return lhs + " = " + r.list(values.Elems)
	}
	return lhs + " = " + r.value(n.Value)
}

func (r *renderer) emitOpAsgn(n *ast.OpAsgn) string {
	op := " ||= "
	if n.Of == ast.KindOpAsgnAnd {
		op = " &&= "
	}
	target := r.emit(r.require(n, "target", n.Target))
	return target + op + r.value(r.require(n, "value", n.Value))
}

func (r *renderer) emitOpAsgn1(n *ast.OpAsgn1) string {
	recv := r.receiver(r.require(n, "receiver", n.Receiver))
	value := r.value(r.require(n, "value", n.Value))
	return recv + "[" + r.list(n.Index.Items()) + "] " + n.Op + "= " + value
}

func (r *renderer) emitOpAsgn2(n *ast.OpAsgn2) string {
	recv := r.receiver(r.require(n, "receiver", n.Receiver))
	value := r.value(r.require(n, "value", n.Value))
	return recv + "." + n.Attr + " " + n.Op + "= " + value
}
