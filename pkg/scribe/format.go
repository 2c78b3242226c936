package scribe

import (
	"fmt"

	"github.com/vito/scribe/pkg/ast"
	"github.com/vito/scribe/pkg/sexp"
)

// Preprocessor rewrites a tree before it is emitted.
type Preprocessor interface {
	Process(ast.Node) ast.Node
}

// Format reads an s-expression dump, optionally preprocesses it, and emits
// formatted source.
func (e *Emitter) Format(src []byte, pre Preprocessor) (string, error) {
	node, err := sexp.Parse(src)
	if err != nil {
		return "", fmt.Errorf("parse: %w", err)
	}
	if pre != nil {
		node = pre.Process(node)
	}
	out, err := e.Emit(node)
	if err != nil {
		return "", fmt.Errorf("emit: %w", err)
	}
	return out, nil
}

// FormatSource formats src with the default configuration and no
// preprocessing.
func FormatSource(src []byte) (string, error) {
	return New(DefaultConfig()).Format(src, nil)
}
