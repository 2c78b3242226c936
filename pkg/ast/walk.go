package ast

// At returns a Loc for the given source line.
func At(line int) Loc {
	return Loc{Line: line}
}

// Children returns the direct child nodes of n in slot order, skipping
// empty slots.
func Children(n Node) []Node {
	var out []Node
	add := func(ns ...Node) {
		for _, c := range ns {
			if c != nil {
				out = append(out, c)
			}
		}
	}
	switch n := n.(type) {
	case *Block:
		add(n.Stmts...)
	case *Scope:
		add(n.Body)
	case *Class:
		add(n.Name, n.Superclass)
		if n.Body != nil {
			add(n.Body)
		}
	case *SClass:
		add(n.Target)
		if n.Body != nil {
			add(n.Body)
		}
	case *Module:
		add(n.Name)
		if n.Body != nil {
			add(n.Body)
		}
	case *Defn:
		if n.Args != nil {
			add(n.Args)
		}
		if n.Body != nil {
			add(n.Body)
		}
	case *Defs:
		add(n.Receiver)
		if n.Args != nil {
			add(n.Args)
		}
		if n.Body != nil {
			add(n.Body)
		}
	case *Args:
		for _, p := range n.Params {
			add(p.Default)
		}
	case *Alias:
		add(n.New, n.Old)
	case *Call:
		add(n.Receiver)
		if n.Args != nil {
			add(n.Args)
		}
	case *Arglist:
		add(n.Args...)
	case *AttrAsgn:
		add(n.Receiver)
		if n.Args != nil {
			add(n.Args)
		}
	case *Iter:
		add(n.Call, n.Params, n.Body)
	case *BlockPass:
		add(n.Value)
	case *Splat:
		add(n.Value)
	case *If:
		add(n.Cond, n.Then, n.Else)
	case *Case:
		add(n.Subject)
		for _, w := range n.Whens {
			add(w)
		}
		add(n.Else)
	case *When:
		add(n.Values...)
		add(n.Body)
	case *Loop:
		add(n.Cond, n.Body)
	case *For:
		add(n.Iterable, n.Var, n.Body)
	case *Rescue:
		add(n.Body)
		for _, c := range n.Clauses {
			add(c)
		}
		add(n.Else)
	case *ResBody:
		add(n.Exceptions...)
		add(n.Body)
	case *Ensure:
		add(n.Body, n.Ensure)
	case *Asgn:
		add(n.Value)
	case *Masgn:
		add(n.Targets...)
		add(n.Value)
	case *OpAsgn:
		add(n.Target, n.Value)
	case *OpAsgn1:
		add(n.Receiver)
		if n.Index != nil {
			add(n.Index)
		}
		add(n.Value)
	case *OpAsgn2:
		add(n.Receiver, n.Value)
	case *Logical:
		add(n.Left, n.Right)
	case *Not:
		add(n.Value)
	case *Defined:
		add(n.Value)
	case *Jump:
		add(n.Value)
	case *Yield:
		add(n.Args...)
	case *Super:
		add(n.Args...)
	case *Colon2:
		add(n.Scope)
	case *Interp:
		add(n.Parts...)
	case *EvStr:
		add(n.Value)
	case *Array:
		add(n.Elems...)
	case *Hash:
		for _, p := range n.Pairs {
			add(p.Key, p.Value)
		}
	case *RangeExpr:
		add(n.Low, n.High)
	}
	return out
}

// Walk visits n and its descendants depth-first in pre-order. Returning
// false from fn skips the children of that node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}

// Rewrite rebuilds the tree bottom-up, replacing every node with the
// result of fn. The input tree is left untouched; unchanged subtrees are
// shared with the result.
func Rewrite(n Node, fn func(Node) Node) Node {
	if n == nil {
		return nil
	}
	r := func(c Node) Node { return Rewrite(c, fn) }
	all := func(ns []Node) []Node {
		if ns == nil {
			return nil
		}
		out := make([]Node, len(ns))
		for i, c := range ns {
			out[i] = r(c)
		}
		return out
	}
	scope := func(s *Scope) *Scope {
		if s == nil {
			return nil
		}
		if rs, ok := r(s).(*Scope); ok {
			return rs
		}
		return s
	}
	params := func(a *Args) *Args {
		if a == nil {
			return nil
		}
		if ra, ok := r(a).(*Args); ok {
			return ra
		}
		return a
	}
	arglist := func(a *Arglist) *Arglist {
		if a == nil {
			return nil
		}
		if ra, ok := r(a).(*Arglist); ok {
			return ra
		}
		return a
	}

	switch n := n.(type) {
	case *Block:
		c := *n
		c.Stmts = all(n.Stmts)
		return fn(&c)
	case *Scope:
		c := *n
		c.Body = r(n.Body)
		return fn(&c)
	case *Class:
		c := *n
		c.Name, c.Superclass, c.Body = r(n.Name), r(n.Superclass), scope(n.Body)
		return fn(&c)
	case *SClass:
		c := *n
		c.Target, c.Body = r(n.Target), scope(n.Body)
		return fn(&c)
	case *Module:
		c := *n
		c.Name, c.Body = r(n.Name), scope(n.Body)
		return fn(&c)
	case *Defn:
		c := *n
		c.Args = params(n.Args)
		c.Body = scope(n.Body)
		return fn(&c)
	case *Defs:
		c := *n
		c.Receiver = r(n.Receiver)
		c.Args = params(n.Args)
		c.Body = scope(n.Body)
		return fn(&c)
	case *Args:
		return fn(rewriteArgs(n, fn))
	case *Alias:
		c := *n
		c.New, c.Old = r(n.New), r(n.Old)
		return fn(&c)
	case *Call:
		c := *n
		c.Receiver, c.Args = r(n.Receiver), arglist(n.Args)
		return fn(&c)
	case *Arglist:
		c := *n
		c.Args = all(n.Args)
		return fn(&c)
	case *AttrAsgn:
		c := *n
		c.Receiver, c.Args = r(n.Receiver), arglist(n.Args)
		return fn(&c)
	case *Iter:
		c := *n
		c.Call, c.Params, c.Body = r(n.Call), r(n.Params), r(n.Body)
		return fn(&c)
	case *BlockPass:
		c := *n
		c.Value = r(n.Value)
		return fn(&c)
	case *Splat:
		c := *n
		c.Value = r(n.Value)
		return fn(&c)
	case *If:
		c := *n
		c.Cond, c.Then, c.Else = r(n.Cond), r(n.Then), r(n.Else)
		return fn(&c)
	case *Case:
		c := *n
		c.Subject = r(n.Subject)
		c.Whens = make([]*When, 0, len(n.Whens))
		for _, w := range n.Whens {
			if rw, ok := r(w).(*When); ok {
				c.Whens = append(c.Whens, rw)
			} else {
				c.Whens = append(c.Whens, w)
			}
		}
		c.Else = r(n.Else)
		return fn(&c)
	case *When:
		c := *n
		c.Values, c.Body = all(n.Values), r(n.Body)
		return fn(&c)
	case *Loop:
		c := *n
		c.Cond, c.Body = r(n.Cond), r(n.Body)
		return fn(&c)
	case *For:
		c := *n
		c.Iterable, c.Var, c.Body = r(n.Iterable), r(n.Var), r(n.Body)
		return fn(&c)
	case *Rescue:
		c := *n
		c.Body = r(n.Body)
		c.Clauses = make([]*ResBody, 0, len(n.Clauses))
		for _, rb := range n.Clauses {
			if rrb, ok := r(rb).(*ResBody); ok {
				c.Clauses = append(c.Clauses, rrb)
			} else {
				c.Clauses = append(c.Clauses, rb)
			}
		}
		c.Else = r(n.Else)
		return fn(&c)
	case *ResBody:
		c := *n
		c.Exceptions, c.Body = all(n.Exceptions), r(n.Body)
		return fn(&c)
	case *Ensure:
		c := *n
		c.Body, c.Ensure = r(n.Body), r(n.Ensure)
		return fn(&c)
	case *Asgn:
		c := *n
		c.Value = r(n.Value)
		return fn(&c)
	case *Masgn:
		c := *n
		c.Targets, c.Value = all(n.Targets), r(n.Value)
		return fn(&c)
	case *OpAsgn:
		c := *n
		c.Target, c.Value = r(n.Target), r(n.Value)
		return fn(&c)
	case *OpAsgn1:
		c := *n
		c.Receiver, c.Index, c.Value = r(n.Receiver), arglist(n.Index), r(n.Value)
		return fn(&c)
	case *OpAsgn2:
		c := *n
		c.Receiver, c.Value = r(n.Receiver), r(n.Value)
		return fn(&c)
	case *Logical:
		c := *n
		c.Left, c.Right = r(n.Left), r(n.Right)
		return fn(&c)
	case *Not:
		c := *n
		c.Value = r(n.Value)
		return fn(&c)
	case *Defined:
		c := *n
		c.Value = r(n.Value)
		return fn(&c)
	case *Jump:
		c := *n
		c.Value = r(n.Value)
		return fn(&c)
	case *Yield:
		c := *n
		c.Args = all(n.Args)
		return fn(&c)
	case *Super:
		c := *n
		c.Args = all(n.Args)
		return fn(&c)
	case *Colon2:
		c := *n
		c.Scope = r(n.Scope)
		return fn(&c)
	case *Interp:
		c := *n
		c.Parts = all(n.Parts)
		return fn(&c)
	case *EvStr:
		c := *n
		c.Value = r(n.Value)
		return fn(&c)
	case *Array:
		c := *n
		c.Elems = all(n.Elems)
		return fn(&c)
	case *Hash:
		c := *n
		c.Pairs = make([]Pair, len(n.Pairs))
		for i, p := range n.Pairs {
			c.Pairs[i] = Pair{Key: r(p.Key), Value: r(p.Value)}
		}
		return fn(&c)
	case *RangeExpr:
		c := *n
		c.Low, c.High = r(n.Low), r(n.High)
		return fn(&c)
	default:
		// leaves: Var, Keyword, Str, XStr, Lit, Colon3, NthRef, BackRef, Unknown
		return fn(n)
	}
}

func rewriteArgs(a *Args, fn func(Node) Node) *Args {
	if a == nil {
		return nil
	}
	c := *a
	c.Params = make([]Param, len(a.Params))
	for i, p := range a.Params {
		p.Default = Rewrite(p.Default, fn)
		c.Params[i] = p
	}
	return &c
}
