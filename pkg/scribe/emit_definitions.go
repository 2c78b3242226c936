package scribe

import (
	"strings"

	"github.com/vito/scribe/pkg/ast"
)

// comments renders leading comment lines, each followed by a newline at
// the current indentation.
func (r *renderer) comments(text string) string {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return ""
	}
	var out strings.Builder
	for _, line := range strings.Split(text, "\n") {
		out.WriteString(strings.TrimSpace(line))
		out.WriteString(r.nl())
	}
	return out.String()
}

func (r *renderer) emitClass(n *ast.Class) string {
	header := "class " + r.emit(r.require(n, "name", n.Name))
	if n.Superclass != nil {
		header += " < " + r.emit(n.Superclass)
	}
	return r.comments(n.Comments) + header + r.body(n.Body) + r.nl("end")
}

func (r *renderer) emitSClass(n *ast.SClass) string {
	header := "class << " + r.emit(r.require(n, "target", n.Target))
	return r.comments(n.Comments) + header + r.body(n.Body) + r.nl("end")
}

func (r *renderer) emitModule(n *ast.Module) string {
	header := "module " + r.emit(r.require(n, "name", n.Name))
	return r.comments(n.Comments) + header + r.body(n.Body) + r.nl("end")
}

func (r *renderer) emitDefn(n *ast.Defn) string {
	header := "def " + n.Name + r.paramList(n.Args)
	return r.comments(n.Comments) + header + r.methodBody(n.Body) + r.nl("end")
}

func (r *renderer) emitDefs(n *ast.Defs) string {
	recv := r.emit(r.require(n, "receiver", n.Receiver))
	header := "def " + recv + "." + n.Name + r.paramList(n.Args)
	return r.comments(n.Comments) + header + r.methodBody(n.Body) + r.nl("end")
}

// paramList renders parenthesised parameters, or nothing when there are
// none.
func (r *renderer) paramList(args *ast.Args) string {
	if args == nil || len(args.Params) == 0 {
		return ""
	}
	return "(" + r.params(args) + ")"
}

func (r *renderer) params(args *ast.Args) string {
	parts := make([]string, len(args.Params))
	for i, p := range args.Params {
		switch p.Kind {
		case ast.ParamOptional:
			parts[i] = p.Name + " = " + r.value(p.Default)
		case ast.ParamSplat:
			parts[i] = "*" + p.Name
		case ast.ParamBlock:
			parts[i] = "&" + p.Name
		default:
			parts[i] = p.Name
		}
	}
	return strings.Join(parts, ", ")
}

// methodBody renders the statements of a method. A body that is only nil
// renders empty, and a lone begin/rescue or ensure spanning the whole body
// becomes a method-wide rescue with its clauses dedented to the def.
func (r *renderer) methodBody(scope *ast.Scope) string {
	body := soleStatement(scope)

	switch b := body.(type) {
	case *ast.Keyword:
		if b.Of == ast.KindNil {
			return r.body(nil)
		}
	case *ast.Rescue:
		if !isDanglingRescue(b) {
			return r.indent(func() string {
				return r.nl(r.emit(b.Body)) + r.outdent(func() string {
					return r.rescueClauses(b)
				})
			})
		}
	case *ast.Ensure:
		return r.beginBody(b.Body) + r.nl("ensure") + r.body(b.Ensure)
	}

	return r.body(body)
}

// soleStatement unwraps a scope and a single-statement block.
func soleStatement(scope *ast.Scope) ast.Node {
	if scope == nil {
		return nil
	}
	body := scope.Body
	if blk, ok := body.(*ast.Block); ok {
		switch len(blk.Stmts) {
		case 0:
			return nil
		case 1:
			return blk.Stmts[0]
		}
	}
	return body
}
