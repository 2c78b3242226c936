package ast

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"
)

// ConstName normalises a constant reference. A string may be a plain name,
// a `::` path or a slash-separated file path ("ruby_scribe/emitter" becomes
// RubyScribe::Emitter). Nodes pass through unchanged and nil stays nil.
func ConstName(name any) Node {
	switch name := name.(type) {
	case nil:
		return nil
	case Node:
		return name
	case string:
		return constPath(name)
	default:
		panic(fmt.Sprintf("ast: cannot use %T as a constant name", name))
	}
}

func constPath(name string) Node {
	var segs []string
	if strings.Contains(name, "/") {
		for _, seg := range strings.Split(name, "/") {
			if seg != "" {
				segs = append(segs, strcase.ToCamel(seg))
			}
		}
	} else {
		segs = strings.Split(name, "::")
	}

	var n Node
	for i, seg := range segs {
		switch {
		case i == 0 && seg == "":
			// leading :: marks a top-level constant
			continue
		case n == nil && i > 0:
			n = &Colon3{Name: seg}
		case n == nil:
			n = &Var{Of: KindConst, Name: seg}
		default:
			n = &Colon2{Scope: n, Name: seg}
		}
	}
	return n
}

// EnsureScope wraps body in a Scope unless it already is one.
func EnsureScope(body Node) *Scope {
	switch b := body.(type) {
	case *Scope:
		return b
	case nil:
		return &Scope{}
	default:
		return &Scope{Loc: At(b.SourceLine()), Body: b}
	}
}

func BuildModule(name any, body Node) *Module {
	return &Module{Name: ConstName(name), Body: EnsureScope(body)}
}

// BuildClass builds a class. The superclass is optional and accepts the same
// forms as the name.
func BuildClass(name any, superclass any, body Node) *Class {
	return &Class{
		Name:       ConstName(name),
		Superclass: ConstName(superclass),
		Body:       EnsureScope(body),
	}
}

// BuildMethod builds an instance method. Parameter names prefixed with `*`
// or `&` become splat and block parameters.
func BuildMethod(name string, params []string, body Node) *Defn {
	args := &Args{}
	for _, p := range params {
		switch {
		case strings.HasPrefix(p, "&"):
			args.Params = append(args.Params, Param{Name: p[1:], Kind: ParamBlock})
		case strings.HasPrefix(p, "*"):
			args.Params = append(args.Params, Param{Name: p[1:], Kind: ParamSplat})
		default:
			args.Params = append(args.Params, Param{Name: p})
		}
	}
	return &Defn{Name: name, Args: args, Body: EnsureScope(body)}
}

// BuildCall builds a method call; receiver may be nil.
func BuildCall(receiver Node, name string, args ...Node) *Call {
	line := 0
	if receiver != nil {
		line = receiver.SourceLine()
	}
	return &Call{
		Loc:      At(line),
		Receiver: receiver,
		Name:     name,
		Args:     &Arglist{Loc: At(line), Args: args},
	}
}
