// Package scribe renders pkg/ast trees back into formatted Ruby source.
package scribe

import (
	"fmt"
	"strings"

	"github.com/vito/scribe/pkg/ast"
)

// Emitter renders trees with a fixed configuration. It holds no per-call
// state, so one Emitter may be used from many goroutines at once.
type Emitter struct {
	config    Config
	noParens  map[string]bool
	grouped   map[string]bool
	syntactic map[string]bool
}

// New returns an Emitter that owns a copy of config.
func New(config Config) *Emitter {
	config = config.Clone()
	return &Emitter{
		config:    config,
		noParens:  set(config.MethodsWithoutParenthesis),
		grouped:   set(config.GroupedMethods),
		syntactic: set(config.SyntacticMethods),
	}
}

func set(names []string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// Config returns a copy of the configuration the Emitter was built with.
func (e *Emitter) Config() Config {
	return e.config.Clone()
}

// Emit renders node as source text. Constructs the tree model does not
// cover render as an inline `## UNKNOWN: kind ##` marker. A node missing a
// required child aborts the emission with a *MalformedNodeError.
func (e *Emitter) Emit(node ast.Node) (out string, err error) {
	r := &renderer{Emitter: e}
	defer func() {
		if p := recover(); p != nil {
			malformed, ok := p.(*MalformedNodeError)
			if !ok {
				panic(p)
			}
			out, err = "", malformed
		}
	}()
	return r.emit(node), nil
}

// Emit renders node with the default configuration.
func Emit(node ast.Node) (string, error) {
	return New(DefaultConfig()).Emit(node)
}

// MalformedNodeError reports a node whose required slot is empty.
type MalformedNodeError struct {
	Kind ast.Kind
	Line int
	Slot string
}

func (e *MalformedNodeError) Error() string {
	return fmt.Sprintf("line %d: malformed %s: missing %s", e.Line, e.Kind, e.Slot)
}

// renderer is the state of a single emission.
type renderer struct {
	*Emitter
	textBuilder
}

// require aborts the emission when a slot of n is empty.
func (r *renderer) require(n ast.Node, slot string, child ast.Node) ast.Node {
	if child == nil {
		panic(&MalformedNodeError{Kind: n.Kind(), Line: n.SourceLine(), Slot: slot})
	}
	return child
}

func (r *renderer) indent(fn func() string) string {
	return r.indented(r.config.DefaultIndent, fn)
}

func (r *renderer) outdent(fn func() string) string {
	return r.indented(-r.config.DefaultIndent, fn)
}

// body renders n on its own line one level deeper. An empty body still
// gets its line.
func (r *renderer) body(n ast.Node) string {
	return r.indent(func() string {
		return r.nl(r.emit(n))
	})
}

func (r *renderer) emit(node ast.Node) string {
	if node == nil {
		return ""
	}

	switch n := node.(type) {
	case *ast.Block:
		return r.emitBlock(n)
	case *ast.Scope:
		return r.emit(n.Body)
	case *ast.Class:
		return r.emitClass(n)
	case *ast.SClass:
		return r.emitSClass(n)
	case *ast.Module:
		return r.emitModule(n)
	case *ast.Defn:
		return r.emitDefn(n)
	case *ast.Defs:
		return r.emitDefs(n)
	case *ast.Args:
		return r.params(n)
	case *ast.Alias:
		return "alias " + r.emit(r.require(n, "new name", n.New)) + " " + r.emit(r.require(n, "old name", n.Old))
	case *ast.Call:
		return r.emitCall(n, false)
	case *ast.Arglist:
		return r.arguments(n.Args)
	case *ast.AttrAsgn:
		return r.emitAttrAsgn(n)
	case *ast.Iter:
		return r.emitIter(n)
	case *ast.BlockPass:
		return "&" + r.emit(r.require(n, "value", n.Value))
	case *ast.Splat:
		return "*" + r.emit(n.Value)
	case *ast.If:
		return r.emitIf(n)
	case *ast.Case:
		return r.emitCase(n)
	case *ast.When:
		return r.emitWhen(n)
	case *ast.Loop:
		return r.emitLoop(n)
	case *ast.For:
		return r.emitFor(n)
	case *ast.Rescue:
		return r.emitRescue(n)
	case *ast.ResBody:
		return r.emitResBody(n)
	case *ast.Ensure:
		return r.emitEnsure(n)
	case *ast.Asgn:
		return r.emitAsgn(n)
	case *ast.Masgn:
		return r.emitMasgn(n)
	case *ast.OpAsgn:
		return r.emitOpAsgn(n)
	case *ast.OpAsgn1:
		return r.emitOpAsgn1(n)
	case *ast.OpAsgn2:
		return r.emitOpAsgn2(n)
	case *ast.Logical:
		return r.emitLogical(n)
	case *ast.Not:
		return r.emitNot(n)
	case *ast.Defined:
		return "defined?(" + r.emit(r.require(n, "value", n.Value)) + ")"
	case *ast.Jump:
		return r.emitJump(n)
	case *ast.Yield:
		return r.emitYield(n)
	case *ast.Super:
		return "super(" + r.arguments(n.Args) + ")"
	case *ast.Keyword:
		return r.emitKeyword(n)
	case *ast.Str:
		return quote(n.Value)
	case *ast.XStr:
		return "`" + escapeXStr(n.Value) + "`"
	case *ast.Interp:
		return r.emitInterp(n)
	case *ast.EvStr:
		return "#{" + r.emit(n.Value) + "}"
	case *ast.Lit:
		return emitLiteral(n.Value)
	case *ast.Array:
		return "[" + r.list(n.Elems) + "]"
	case *ast.Hash:
		return r.emitHash(n)
	case *ast.RangeExpr:
		return r.emitRange(n)
	case *ast.Var:
		return n.Name
	case *ast.Colon2:
		return r.emit(r.require(n, "scope", n.Scope)) + "::" + n.Name
	case *ast.Colon3:
		return "::" + n.Name
	case *ast.NthRef:
		return fmt.Sprintf("$%d", n.N)
	case *ast.BackRef:
		return "$" + n.Name
	case *ast.Unknown:
		return unknown(n.Type)
	}

	return unknown(node.Kind().String())
}

func unknown(kind string) string {
	return "## UNKNOWN: " + kind + " ##"
}

// list renders nodes as a comma separated list.
func (r *renderer) list(nodes []ast.Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = r.value(n)
	}
	return strings.Join(parts, ", ")
}
