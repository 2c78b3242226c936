// Package transform rewrites trees before emission.
package transform

import (
	"fmt"
	"sort"

	"github.com/vito/scribe/pkg/ast"
)

// Transformer rewrites a single node. It is called bottom-up on every node
// of the tree and returns the node unchanged when it does not apply.
type Transformer interface {
	Transform(ast.Node) ast.Node
}

// Func adapts a function to Transformer.
type Func func(ast.Node) ast.Node

func (f Func) Transform(n ast.Node) ast.Node { return f(n) }

// Preprocessor applies its transformers in order, each over the whole tree.
type Preprocessor struct {
	Transformers []Transformer
}

// Process returns the rewritten tree. The input tree is not modified.
func (p *Preprocessor) Process(root ast.Node) ast.Node {
	for _, t := range p.Transformers {
		root = ast.Rewrite(root, t.Transform)
	}
	return root
}

var registry = map[string]func() Transformer{
	"eachify":   func() Transformer { return Eachifier{} },
	"unlessify": func() Transformer { return Unlessifier{} },
}

// Lookup returns the transformer registered under name.
func Lookup(name string) (Transformer, error) {
	mk, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown transformer %q (available: %v)", name, Names())
	}
	return mk(), nil
}

// Names lists the registered transformers.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds a Preprocessor from transformer names.
func New(names ...string) (*Preprocessor, error) {
	p := &Preprocessor{}
	for _, name := range names {
		t, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		p.Transformers = append(p.Transformers, t)
	}
	return p, nil
}
