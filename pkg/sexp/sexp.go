// Package sexp reads the s-expression notation printed by ruby_parser
// (`Sexp#inspect`) and lowers it into pkg/ast nodes.
//
// Two method-call suffixes are understood after a closing paren so that
// metadata survives serialization:
//
//	s(:call, nil, :foo, s(:arglist)).line(3)
//	s(:defn, :bar, s(:args), s(:scope, s(:block, s(:nil)))).comments("# does bar\n")
package sexp

import (
	"fmt"
	"strings"
)

// Sexp is an untyped node: a type tag followed by heterogeneous items.
type Sexp struct {
	Type     string
	Items    []any
	Line     int
	Comments string
}

// Symbol is a Ruby symbol item, `:name`.
type Symbol string

// Regexp is a regexp literal item, `/source/opts`.
type Regexp struct {
	Source  string
	Options string
}

// Range is a numeric range literal item, `1..10` or `1...10`.
type Range struct {
	Low, High int64
	Exclusive bool
}

// Len is the number of items after the type.
func (s *Sexp) Len() int {
	return len(s.Items)
}

// At returns the item at i, or nil when out of range.
func (s *Sexp) At(i int) any {
	if i < 0 || i >= len(s.Items) {
		return nil
	}
	return s.Items[i]
}

// String prints s back in the notation Read accepts.
func (s *Sexp) String() string {
	var b strings.Builder
	writeItem(&b, s)
	return b.String()
}

func writeItem(b *strings.Builder, v any) {
	switch v := v.(type) {
	case nil:
		b.WriteString("nil")
	case *Sexp:
		b.WriteString("s(:")
		b.WriteString(v.Type)
		for _, it := range v.Items {
			b.WriteString(", ")
			writeItem(b, it)
		}
		b.WriteString(")")
		if v.Line > 0 {
			fmt.Fprintf(b, ".line(%d)", v.Line)
		}
		if v.Comments != "" {
			fmt.Fprintf(b, ".comments(%q)", v.Comments)
		}
	case Symbol:
		b.WriteString(":")
		if needsQuotes(string(v)) {
			fmt.Fprintf(b, "%q", string(v))
		} else {
			b.WriteString(string(v))
		}
	case string:
		fmt.Fprintf(b, "%q", v)
	case Regexp:
		b.WriteString("/" + v.Source + "/" + v.Options)
	case Range:
		dots := ".."
		if v.Exclusive {
			dots = "..."
		}
		fmt.Fprintf(b, "%d%s%d", v.Low, dots, v.High)
	case float64:
		b.WriteString(formatFloat(v))
	default:
		fmt.Fprint(b, v)
	}
}

func needsQuotes(sym string) bool {
	return sym == "" || strings.ContainsAny(sym, " ,()\"\t\n")
}
