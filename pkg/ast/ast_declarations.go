package ast

// Block is a sequence of statements.
type Block struct {
	Loc
	Stmts []Node
}

func (*Block) Kind() Kind { return KindBlock }

// Scope wraps the body of a class, module or method.
type Scope struct {
	Loc
	Body Node
}

func (*Scope) Kind() Kind { return KindScope }

// Class is `class Name < Superclass`.
type Class struct {
	Loc
	Comments   string
	Name       Node
	Superclass Node
	Body       *Scope
}

func (*Class) Kind() Kind { return KindClass }

// SClass is an eigenclass definition, `class << self`.
type SClass struct {
	Loc
	Comments string
	Target   Node
	Body     *Scope
}

func (*SClass) Kind() Kind { return KindSClass }

type Module struct {
	Loc
	Comments string
	Name     Node
	Body     *Scope
}

func (*Module) Kind() Kind { return KindModule }

// Defn is an instance method definition.
type Defn struct {
	Loc
	Comments string
	Name     string
	Args     *Args
	Body     *Scope
}

func (*Defn) Kind() Kind { return KindDefn }

// Defs is a method definition with an explicit receiver, `def self.name`.
type Defs struct {
	Loc
	Comments string
	Receiver Node
	Name     string
	Args     *Args
	Body     *Scope
}

func (*Defs) Kind() Kind { return KindDefs }

// ParamKind distinguishes the forms a method parameter can take.
type ParamKind int

const (
	ParamRequired ParamKind = iota
	ParamOptional
	ParamSplat
	ParamBlock
)

// Param is one formal parameter of a method definition.
type Param struct {
	Name    string
	Kind    ParamKind
	Default Node
}

// Args is the formal parameter list of a method definition.
type Args struct {
	Loc
	Params []Param
}

func (*Args) Kind() Kind { return KindArgs }

// Alias is `alias new old`.
type Alias struct {
	Loc
	New Node
	Old Node
}

func (*Alias) Kind() Kind { return KindAlias }
