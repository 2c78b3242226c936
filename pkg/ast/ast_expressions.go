package ast

// Call is a method call. Operators are calls too: `a + b` has receiver a,
// name "+" and a single argument b.
type Call struct {
	Loc
	Receiver Node
	Name     string
	Args     *Arglist
}

func (*Call) Kind() Kind { return KindCall }

// Arglist holds the actual arguments of a call.
type Arglist struct {
	Loc
	Args []Node
}

func (*Arglist) Kind() Kind { return KindArglist }

// Len is nil-safe.
func (a *Arglist) Len() int {
	if a == nil {
		return 0
	}
	return len(a.Args)
}

// Items is nil-safe.
func (a *Arglist) Items() []Node {
	if a == nil {
		return nil
	}
	return a.Args
}

// AttrAsgn is an attribute or index assignment, `recv.name = v` or
// `recv[i] = v`. The assigned value is the last argument.
type AttrAsgn struct {
	Loc
	Receiver Node
	Name     string
	Args     *Arglist
}

func (*AttrAsgn) Kind() Kind { return KindAttrAsgn }

// Iter is a method call with an attached block. Params is an assignment
// pattern (*Asgn, *Masgn, *Splat) or nil when the block takes none.
type Iter struct {
	Loc
	Call   Node
	Params Node
	Body   Node
}

func (*Iter) Kind() Kind { return KindIter }

// BlockPass is a `&blk` argument.
type BlockPass struct {
	Loc
	Value Node
}

func (*BlockPass) Kind() Kind { return KindBlockPass }

// Splat is `*value`; Value is nil for a bare `*`.
type Splat struct {
	Loc
	Value Node
}

func (*Splat) Kind() Kind { return KindSplat }

// If is every conditional: block if/unless, modifiers and ternaries share
// this shape. See ConditionalShape.
type If struct {
	Loc
	Cond Node
	Then Node
	Else Node
}

func (*If) Kind() Kind { return KindIf }

type Case struct {
	Loc
	Subject Node
	Whens   []*When
	Else    Node
}

func (*Case) Kind() Kind { return KindCase }

type When struct {
	Loc
	Values []Node
	Body   Node
}

func (*When) Kind() Kind { return KindWhen }

// Loop is while or until. PostCondition is set for `begin ... end while c`.
type Loop struct {
	Loc
	Until         bool
	Cond          Node
	Body          Node
	PostCondition bool
}

func (l *Loop) Kind() Kind {
	if l.Until {
		return KindUntil
	}
	return KindWhile
}

// For is `for var in iterable`.
type For struct {
	Loc
	Iterable Node
	Var      Node
	Body     Node
}

func (*For) Kind() Kind { return KindFor }

// Rescue is a begin/rescue construct, a method-wide rescue or a rescue
// modifier depending on its lines.
type Rescue struct {
	Loc
	Body    Node
	Clauses []*ResBody
	Else    Node
}

func (*Rescue) Kind() Kind { return KindRescue }

// ResBody is one `rescue A, B => var` clause.
type ResBody struct {
	Loc
	Exceptions []Node
	Var        string
	Body       Node
}

func (*ResBody) Kind() Kind { return KindResBody }

type Ensure struct {
	Loc
	Body   Node
	Ensure Node
}

func (*Ensure) Kind() Kind { return KindEnsure }

// Asgn assigns to a named variable or constant. Of is one of KindLasgn,
// KindIasgn, KindGasgn, KindCvdecl, KindCvasgn or KindCdecl. Value is nil
// when the node is a binding target inside a pattern.
type Asgn struct {
	Loc
	Of    Kind
	Name  string
	Value Node
}

func (a *Asgn) Kind() Kind { return a.Of }

// Masgn is a multiple assignment, also used as a block parameter pattern.
type Masgn struct {
	Loc
	Targets []Node
	Value   Node
}

func (*Masgn) Kind() Kind { return KindMasgn }

// OpAsgn is `target ||= value` or `target &&= value`.
type OpAsgn struct {
	Loc
	Of     Kind
	Target Node
	Value  Node
}

func (o *OpAsgn) Kind() Kind { return o.Of }

// OpAsgn1 is an indexed compound assignment, `recv[index] op= value`.
type OpAsgn1 struct {
	Loc
	Receiver Node
	Index    *Arglist
	Op       string
	Value    Node
}

func (*OpAsgn1) Kind() Kind { return KindOpAsgn1 }

// OpAsgn2 is an attribute compound assignment, `recv.attr op= value`.
type OpAsgn2 struct {
	Loc
	Receiver Node
	Attr     string
	Op       string
	Value    Node
}

func (*OpAsgn2) Kind() Kind { return KindOpAsgn2 }

// Logical is `and` or `or`.
type Logical struct {
	Loc
	Of    Kind
	Left  Node
	Right Node
}

func (l *Logical) Kind() Kind { return l.Of }

type Not struct {
	Loc
	Value Node
}

func (*Not) Kind() Kind { return KindNot }

type Defined struct {
	Loc
	Value Node
}

func (*Defined) Kind() Kind { return KindDefined }

// Jump is return, next or break with an optional value.
type Jump struct {
	Loc
	Of    Kind
	Value Node
}

func (j *Jump) Kind() Kind { return j.Of }

type Yield struct {
	Loc
	Args []Node
}

func (*Yield) Kind() Kind { return KindYield }

// Super is super with explicit (possibly empty) arguments. A bare `super`
// forwarding the current arguments is a Keyword of KindZSuper.
type Super struct {
	Loc
	Args []Node
}

func (*Super) Kind() Kind { return KindSuper }

// Keyword is a node with no slots: true, false, nil, self, redo, retry
// and zsuper.
type Keyword struct {
	Loc
	Of Kind
}

func (k *Keyword) Kind() Kind { return k.Of }

// Var references a local, instance, global or class variable or a
// constant by name.
type Var struct {
	Loc
	Of   Kind
	Name string
}

func (v *Var) Kind() Kind { return v.Of }

// Colon2 is a scoped constant, `Scope::Name`.
type Colon2 struct {
	Loc
	Scope Node
	Name  string
}

func (*Colon2) Kind() Kind { return KindColon2 }

// Colon3 is a top-level constant, `::Name`.
type Colon3 struct {
	Loc
	Name string
}

func (*Colon3) Kind() Kind { return KindColon3 }

// NthRef is `$1`.
type NthRef struct {
	Loc
	N int
}

func (*NthRef) Kind() Kind { return KindNthRef }

// BackRef is one of `$&`, `$'`, `` $` `` and `$+`; Name excludes the `$`.
type BackRef struct {
	Loc
	Name string
}

func (*BackRef) Kind() Kind { return KindBackRef }

// Unknown carries an s-expression type the tree model does not cover.
type Unknown struct {
	Loc
	Type  string
	Items []any
}

func (*Unknown) Kind() Kind { return KindUnknown }
