package sexp

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/vito/scribe/pkg/ast"
)

// Lower converts a generic s-expression tree into typed nodes. Types the
// node model does not cover become *ast.Unknown. A node without a line
// annotation takes the line of its parent.
func Lower(sx *Sexp) (node ast.Node, err error) {
	if sx == nil {
		return nil, nil
	}
	defer func() {
		if r := recover(); r != nil {
			slotErr, ok := r.(*SlotError)
			if !ok {
				panic(r)
			}
			node, err = nil, errors.WithStack(slotErr)
		}
	}()
	return lower(sx, 0), nil
}

// Parse reads and lowers src in one step.
func Parse(src []byte) (ast.Node, error) {
	sx, err := Read(src)
	if err != nil {
		return nil, err
	}
	return Lower(sx)
}

func fail(sx *Sexp, line int, format string, args ...any) {
	panic(&SlotError{Type: sx.Type, Line: line, Msg: fmt.Sprintf(format, args...)})
}

type lowering struct {
	sx   *Sexp
	line int
}

func (l lowering) loc() ast.Loc {
	return ast.At(l.line)
}

func (l lowering) arity(lo, hi int) {
	n := l.sx.Len()
	if n < lo || (hi >= 0 && n > hi) {
		switch {
		case lo == hi:
			fail(l.sx, l.line, "expected %d slots, got %d", lo, n)
		case hi < 0:
			fail(l.sx, l.line, "expected at least %d slots, got %d", lo, n)
		default:
			fail(l.sx, l.line, "expected %d to %d slots, got %d", lo, hi, n)
		}
	}
}

// node lowers the sexp in slot i; nil and missing slots give nil.
func (l lowering) node(i int) ast.Node {
	switch v := l.sx.At(i).(type) {
	case nil:
		return nil
	case *Sexp:
		return lower(v, l.line)
	default:
		fail(l.sx, l.line, "slot %d: expected s-expression, got %T", i, v)
		return nil
	}
}

func (l lowering) required(i int) ast.Node {
	n := l.node(i)
	if n == nil {
		fail(l.sx, l.line, "slot %d: missing", i)
	}
	return n
}

func (l lowering) nodes(from int) []ast.Node {
	var out []ast.Node
	for i := from; i < l.sx.Len(); i++ {
		if n := l.node(i); n != nil {
			out = append(out, n)
		}
	}
	return out
}

func (l lowering) sym(i int) string {
	switch v := l.sx.At(i).(type) {
	case Symbol:
		return string(v)
	case string:
		return v
	default:
		fail(l.sx, l.line, "slot %d: expected symbol, got %T", i, v)
		return ""
	}
}

func (l lowering) str(i int) string {
	v, ok := l.sx.At(i).(string)
	if !ok {
		fail(l.sx, l.line, "slot %d: expected string, got %T", i, l.sx.At(i))
	}
	return v
}

// sub returns slot i if it is an s-expression of one of the given types.
func (l lowering) sub(i int, types ...string) (*Sexp, bool) {
	sx, ok := l.sx.At(i).(*Sexp)
	if !ok {
		return nil, false
	}
	if len(types) == 0 {
		return sx, true
	}
	for _, t := range types {
		if sx.Type == t {
			return sx, true
		}
	}
	return nil, false
}

func (l lowering) child(sx *Sexp) lowering {
	line := sx.Line
	if line == 0 {
		line = l.line
	}
	return lowering{sx: sx, line: line}
}

// body joins the nodes from slot i onward into a single statement.
func (l lowering) body(from int) ast.Node {
	stmts := l.nodes(from)
	switch len(stmts) {
	case 0:
		return nil
	case 1:
		return stmts[0]
	default:
		return &ast.Block{Loc: ast.At(stmts[0].SourceLine()), Stmts: stmts}
	}
}

func (l lowering) scope(i int) *ast.Scope {
	if sx, ok := l.sub(i, "scope"); ok {
		return lower(sx, l.line).(*ast.Scope)
	}
	return &ast.Scope{Loc: l.loc(), Body: l.body(i)}
}

// constName lowers a class or module name, given either as a bare symbol
// or as a colon2/colon3 path.
func (l lowering) constName(i int) ast.Node {
	switch v := l.sx.At(i).(type) {
	case Symbol:
		return &ast.Var{Loc: l.loc(), Of: ast.KindConst, Name: string(v)}
	case *Sexp:
		return lower(v, l.line)
	default:
		fail(l.sx, l.line, "slot %d: expected constant name, got %T", i, v)
		return nil
	}
}

// arglist lowers call arguments given either as an s(:arglist, ...) in slot
// i or inline from slot i onward.
func (l lowering) arglist(i int) *ast.Arglist {
	if sx, ok := l.sub(i, "arglist"); ok {
		return lower(sx, l.line).(*ast.Arglist)
	}
	return &ast.Arglist{Loc: l.loc(), Args: l.nodes(i)}
}

func lower(sx *Sexp, parentLine int) ast.Node {
	line := sx.Line
	if line == 0 {
		line = parentLine
	}
	l := lowering{sx: sx, line: line}
	loc := l.loc()

	kind, known := ast.KindNamed(sx.Type)
	switch sx.Type {
	case "dregx_once":
		kind, known = ast.KindDRegx, true
	case "to_ary":
		l.arity(1, 1)
		return l.required(0)
	}
	if !known {
		return &ast.Unknown{Loc: loc, Type: sx.Type, Items: sx.Items}
	}

	switch kind {
	case ast.KindBlock:
		return &ast.Block{Loc: loc, Stmts: l.nodes(0)}

	case ast.KindScope:
		l.arity(0, -1)
		return &ast.Scope{Loc: loc, Body: l.body(0)}

	case ast.KindClass:
		l.arity(2, -1)
		return &ast.Class{
			Loc:        loc,
			Comments:   sx.Comments,
			Name:       l.constName(0),
			Superclass: l.node(1),
			Body:       l.scope(2),
		}

	case ast.KindSClass:
		l.arity(1, -1)
		return &ast.SClass{Loc: loc, Comments: sx.Comments, Target: l.required(0), Body: l.scope(1)}

	case ast.KindModule:
		l.arity(1, -1)
		return &ast.Module{Loc: loc, Comments: sx.Comments, Name: l.constName(0), Body: l.scope(1)}

	case ast.KindDefn:
		l.arity(2, -1)
		return &ast.Defn{
			Loc:      loc,
			Comments: sx.Comments,
			Name:     l.sym(0),
			Args:     l.args(1),
			Body:     l.scope(2),
		}

	case ast.KindDefs:
		l.arity(3, -1)
		return &ast.Defs{
			Loc:      loc,
			Comments: sx.Comments,
			Receiver: l.required(0),
			Name:     l.sym(1),
			Args:     l.args(2),
			Body:     l.scope(3),
		}

	case ast.KindArgs:
		return lowerArgs(l)

	case ast.KindAlias:
		l.arity(2, 2)
		return &ast.Alias{Loc: loc, New: l.required(0), Old: l.required(1)}

	case ast.KindCall:
		l.arity(2, -1)
		return &ast.Call{Loc: loc, Receiver: l.node(0), Name: l.sym(1), Args: l.arglist(2)}

	case ast.KindAttrAsgn:
		l.arity(2, -1)
		return &ast.AttrAsgn{Loc: loc, Receiver: l.node(0), Name: l.sym(1), Args: l.arglist(2)}

	case ast.KindArglist:
		return &ast.Arglist{Loc: loc, Args: l.nodes(0)}

	case ast.KindIter:
		l.arity(1, -1)
		return &ast.Iter{Loc: loc, Call: l.required(0), Params: l.blockParams(1), Body: l.body(2)}

	case ast.KindBlockPass:
		l.arity(1, 2)
		pass := &ast.BlockPass{Loc: loc, Value: l.required(0)}
		if sx.Len() == 1 {
			return pass
		}
		// s(:block_pass, value, call) attaches the block to the call
		call, ok := l.required(1).(*ast.Call)
		if !ok {
			fail(sx, line, "slot 1: expected call")
		}
		c := *call
		args := &ast.Arglist{Loc: loc}
		if c.Args != nil {
			args.Loc = c.Args.Loc
			args.Args = append(args.Args, c.Args.Args...)
		}
		args.Args = append(args.Args, pass)
		c.Args = args
		return &c

	case ast.KindSplat:
		l.arity(0, 1)
		return &ast.Splat{Loc: loc, Value: l.node(0)}

	case ast.KindIf:
		l.arity(3, 3)
		return &ast.If{Loc: loc, Cond: l.required(0), Then: l.node(1), Else: l.node(2)}

	case ast.KindCase:
		l.arity(1, -1)
		c := &ast.Case{Loc: loc, Subject: l.node(0)}
		for i := 1; i < sx.Len(); i++ {
			n := l.node(i)
			if w, ok := n.(*ast.When); ok {
				c.Whens = append(c.Whens, w)
			} else if i == sx.Len()-1 {
				c.Else = n
			} else if n != nil {
				fail(sx, line, "slot %d: expected when, got %s", i, n.Kind())
			}
		}
		return c

	case ast.KindWhen:
		l.arity(1, -1)
		vals, ok := l.sub(0, "array")
		if !ok {
			fail(sx, line, "slot 0: expected array of values")
		}
		return &ast.When{Loc: loc, Values: l.child(vals).nodes(0), Body: l.body(1)}

	case ast.KindWhile, ast.KindUntil:
		l.arity(2, 3)
		loop := &ast.Loop{
			Loc:   loc,
			Until: kind == ast.KindUntil,
			Cond:  l.required(0),
			Body:  l.node(1),
		}
		if pre, ok := sx.At(2).(bool); ok {
			loop.PostCondition = !pre
		}
		return loop

	case ast.KindFor:
		l.arity(2, 3)
		return &ast.For{Loc: loc, Iterable: l.required(0), Var: l.required(1), Body: l.node(2)}

	case ast.KindRescue:
		l.arity(1, -1)
		r := &ast.Rescue{Loc: loc}
		for i := 0; i < sx.Len(); i++ {
			n := l.node(i)
			switch {
			case n == nil:
			case n.Kind() == ast.KindResBody:
				r.Clauses = append(r.Clauses, n.(*ast.ResBody))
			case len(r.Clauses) == 0 && i == 0:
				r.Body = n
			case len(r.Clauses) > 0 && i == sx.Len()-1:
				r.Else = n
			default:
				fail(sx, line, "slot %d: unexpected %s", i, n.Kind())
			}
		}
		if len(r.Clauses) == 0 {
			fail(sx, line, "no rescue clauses")
		}
		return r

	case ast.KindResBody:
		l.arity(1, -1)
		excs, ok := l.sub(0, "array")
		if !ok {
			fail(sx, line, "slot 0: expected array of exceptions")
		}
		rb := &ast.ResBody{Loc: loc, Body: l.body(1)}
		for _, n := range l.child(excs).nodes(0) {
			if asgn, ok := n.(*ast.Asgn); ok && asgn.Of == ast.KindLasgn && isErrInfo(asgn.Value) {
				rb.Var = asgn.Name
				continue
			}
			rb.Exceptions = append(rb.Exceptions, n)
		}
		return rb

	case ast.KindEnsure:
		l.arity(1, 2)
		if sx.Len() == 1 {
			return &ast.Ensure{Loc: loc, Ensure: l.node(0)}
		}
		return &ast.Ensure{Loc: loc, Body: l.node(0), Ensure: l.node(1)}

	case ast.KindLasgn, ast.KindIasgn, ast.KindGasgn, ast.KindCvdecl, ast.KindCvasgn, ast.KindCdecl:
		l.arity(1, 2)
		name := ""
		if kind == ast.KindCdecl {
			if path, ok := ast.ConstPath(l.constName(0)); ok {
				name = path
			} else {
				fail(sx, line, "slot 0: expected constant path")
			}
		} else {
			name = l.sym(0)
		}
		return &ast.Asgn{Loc: loc, Of: kind, Name: name, Value: l.node(1)}

	case ast.KindMasgn:
		l.arity(1, 2)
		targets, ok := l.sub(0, "array")
		if !ok {
			fail(sx, line, "slot 0: expected array of targets")
		}
		return &ast.Masgn{Loc: loc, Targets: l.child(targets).nodes(0), Value: l.node(1)}

	case ast.KindOpAsgnOr, ast.KindOpAsgnAnd:
		l.arity(2, 2)
		op := &ast.OpAsgn{Loc: loc, Of: kind, Target: l.required(0)}
		switch v := l.required(1).(type) {
		case *ast.Asgn:
			op.Value = v.Value
		case *ast.AttrAsgn:
			if v.Args.Len() > 0 {
				op.Value = v.Args.Args[v.Args.Len()-1]
			}
		default:
			op.Value = v
		}
		if op.Value == nil {
			fail(sx, line, "slot 1: missing assigned value")
		}
		return op

	case ast.KindOpAsgn1:
		l.arity(4, 4)
		idx, ok := l.sub(1, "arglist", "array")
		if !ok {
			fail(sx, line, "slot 1: expected index arglist")
		}
		return &ast.OpAsgn1{
			Loc:      loc,
			Receiver: l.required(0),
			Index:    &ast.Arglist{Loc: loc, Args: l.child(idx).nodes(0)},
			Op:       l.sym(2),
			Value:    l.required(3),
		}

	case ast.KindOpAsgn2:
		l.arity(4, 4)
		return &ast.OpAsgn2{
			Loc:      loc,
			Receiver: l.required(0),
			Attr:     strings.TrimSuffix(l.sym(1), "="),
			Op:       l.sym(2),
			Value:    l.required(3),
		}

	case ast.KindAnd, ast.KindOr:
		l.arity(2, 2)
		return &ast.Logical{Loc: loc, Of: kind, Left: l.required(0), Right: l.required(1)}

	case ast.KindNot:
		l.arity(1, 1)
		return &ast.Not{Loc: loc, Value: l.required(0)}

	case ast.KindDefined:
		l.arity(1, 1)
		return &ast.Defined{Loc: loc, Value: l.required(0)}

	case ast.KindReturn, ast.KindNext, ast.KindBreak:
		l.arity(0, 1)
		return &ast.Jump{Loc: loc, Of: kind, Value: l.node(0)}

	case ast.KindYield:
		return &ast.Yield{Loc: loc, Args: l.arglist(0).Args}

	case ast.KindSuper:
		return &ast.Super{Loc: loc, Args: l.arglist(0).Args}

	case ast.KindRedo, ast.KindRetry, ast.KindZSuper, ast.KindTrue, ast.KindFalse, ast.KindNil, ast.KindSelf:
		l.arity(0, 0)
		return &ast.Keyword{Loc: loc, Of: kind}

	case ast.KindStr:
		l.arity(1, 1)
		return &ast.Str{Loc: loc, Value: l.str(0)}

	case ast.KindXStr:
		l.arity(1, 1)
		return &ast.XStr{Loc: loc, Value: l.str(0)}

	case ast.KindDStr, ast.KindDSym, ast.KindDRegx, ast.KindDXStr:
		l.arity(1, -1)
		interp := &ast.Interp{Loc: loc, Of: kind}
		if lead := l.str(0); lead != "" {
			interp.Parts = append(interp.Parts, &ast.Str{Loc: loc, Value: lead})
		}
		for i := 1; i < sx.Len(); i++ {
			switch v := sx.At(i).(type) {
			case *Sexp:
				interp.Parts = append(interp.Parts, lower(v, line))
			case int64:
				if kind != ast.KindDRegx {
					fail(sx, line, "slot %d: unexpected flags", i)
				}
				interp.Options = regexpFlags(v)
			default:
				fail(sx, line, "slot %d: unexpected %T", i, v)
			}
		}
		return interp

	case ast.KindEvStr:
		l.arity(0, 1)
		return &ast.EvStr{Loc: loc, Value: l.node(0)}

	case ast.KindLit:
		l.arity(1, 1)
		return &ast.Lit{Loc: loc, Value: literal(l)}

	case ast.KindArray:
		return &ast.Array{Loc: loc, Elems: l.nodes(0)}

	case ast.KindHash:
		if sx.Len()%2 != 0 {
			fail(sx, line, "odd number of hash items")
		}
		h := &ast.Hash{Loc: loc}
		for i := 0; i < sx.Len(); i += 2 {
			h.Pairs = append(h.Pairs, ast.Pair{Key: l.required(i), Value: l.required(i + 1)})
		}
		return h

	case ast.KindDot2, ast.KindDot3:
		l.arity(2, 2)
		return &ast.RangeExpr{Loc: loc, Exclusive: kind == ast.KindDot3, Low: l.node(0), High: l.node(1)}

	case ast.KindLvar, ast.KindIvar, ast.KindGvar, ast.KindCvar, ast.KindConst:
		l.arity(1, 1)
		return &ast.Var{Loc: loc, Of: kind, Name: l.sym(0)}

	case ast.KindColon2:
		l.arity(2, 2)
		return &ast.Colon2{Loc: loc, Scope: l.required(0), Name: l.sym(1)}

	case ast.KindColon3:
		l.arity(1, 1)
		return &ast.Colon3{Loc: loc, Name: l.sym(0)}

	case ast.KindNthRef:
		l.arity(1, 1)
		n, ok := sx.At(0).(int64)
		if !ok {
			fail(sx, line, "slot 0: expected integer")
		}
		return &ast.NthRef{Loc: loc, N: int(n)}

	case ast.KindBackRef:
		l.arity(1, 1)
		return &ast.BackRef{Loc: loc, Name: l.sym(0)}
	}

	return &ast.Unknown{Loc: loc, Type: sx.Type, Items: sx.Items}
}

// args lowers the formal parameters in slot i.
func (l lowering) args(i int) *ast.Args {
	sx, ok := l.sub(i, "args")
	if !ok {
		fail(l.sx, l.line, "slot %d: expected args", i)
	}
	return lowerArgs(l.child(sx))
}

// lowerArgs reads parameter symbols followed by an optional s(:block) of
// default value assignments.
func lowerArgs(l lowering) *ast.Args {
	args := &ast.Args{Loc: l.loc()}
	defaults := map[string]ast.Node{}
	for i, item := range l.sx.Items {
		switch v := item.(type) {
		case Symbol:
			args.Params = append(args.Params, param(string(v)))
		case *Sexp:
			switch v.Type {
			case "block":
				for _, n := range l.child(v).nodes(0) {
					asgn, ok := n.(*ast.Asgn)
					if !ok || asgn.Of != ast.KindLasgn {
						fail(l.sx, l.line, "slot %d: expected default assignments", i)
					}
					defaults[asgn.Name] = asgn.Value
				}
			case "lasgn":
				asgn := lower(v, l.line).(*ast.Asgn)
				args.Params = append(args.Params, ast.Param{Name: asgn.Name, Kind: ast.ParamOptional, Default: asgn.Value})
			default:
				fail(l.sx, l.line, "slot %d: unexpected %s", i, v.Type)
			}
		default:
			fail(l.sx, l.line, "slot %d: expected parameter, got %T", i, v)
		}
	}
	for i, p := range args.Params {
		if def, ok := defaults[p.Name]; ok && p.Kind == ast.ParamRequired {
			args.Params[i].Kind = ast.ParamOptional
			args.Params[i].Default = def
		}
	}
	return args
}

func param(name string) ast.Param {
	switch {
	case strings.HasPrefix(name, "&"):
		return ast.Param{Name: name[1:], Kind: ast.ParamBlock}
	case strings.HasPrefix(name, "*"):
		return ast.Param{Name: name[1:], Kind: ast.ParamSplat}
	default:
		return ast.Param{Name: name}
	}
}

// blockParams lowers the parameters of a block. ruby_parser uses nil for no
// parameters and 0 for explicitly empty pipes.
func (l lowering) blockParams(i int) ast.Node {
	switch v := l.sx.At(i).(type) {
	case nil, int64:
		return nil
	case *Sexp:
		if v.Type != "args" {
			return lower(v, l.line)
		}
		// newer parsers give an s(:args) instead of an assignment pattern
		args := lowerArgs(l.child(v))
		var targets []ast.Node
		for _, p := range args.Params {
			var t ast.Node = &ast.Asgn{Loc: args.Loc, Of: ast.KindLasgn, Name: p.Name}
			switch p.Kind {
			case ast.ParamSplat:
				t = &ast.Splat{Loc: args.Loc, Value: t}
			case ast.ParamBlock:
				t = &ast.BlockPass{Loc: args.Loc, Value: t}
			}
			targets = append(targets, t)
		}
		switch len(targets) {
		case 0:
			return nil
		case 1:
			if _, ok := targets[0].(*ast.Asgn); ok {
				return targets[0]
			}
		}
		return &ast.Masgn{Loc: args.Loc, Targets: targets}
	default:
		fail(l.sx, l.line, "slot %d: expected block parameters, got %T", i, v)
		return nil
	}
}

func literal(l lowering) ast.Literal {
	switch v := l.sx.At(0).(type) {
	case int64:
		return ast.Int(v)
	case float64:
		return ast.Float(v)
	case Symbol:
		return ast.Symbol(v)
	case Regexp:
		return ast.Regexp{Source: v.Source, Options: v.Options}
	case Range:
		return ast.Range{Low: v.Low, High: v.High, Exclusive: v.Exclusive}
	default:
		fail(l.sx, l.line, "slot 0: unsupported literal %T", v)
		return nil
	}
}

func isErrInfo(n ast.Node) bool {
	v, ok := n.(*ast.Var)
	return ok && v.Of == ast.KindGvar && v.Name == "$!"
}

func regexpFlags(flags int64) string {
	var opts string
	if flags&1 != 0 {
		opts += "i"
	}
	if flags&2 != 0 {
		opts += "x"
	}
	if flags&4 != 0 {
		opts += "m"
	}
	return opts
}
