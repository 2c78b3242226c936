package scribe

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/vito/scribe/pkg/ast"
)

func emitLiteral(lit ast.Literal) string {
	switch v := lit.(type) {
	case ast.Int:
		return strconv.FormatInt(int64(v), 10)
	case ast.Float:
		return formatFloat(float64(v))
	case ast.Symbol:
		return symbol(string(v))
	case ast.Regexp:
		return "/" + v.Source + "/" + v.Options
	case ast.Range:
		dots := ".."
		if v.Exclusive {
			dots = "..."
		}
		return fmt.Sprintf("%d%s%d", v.Low, dots, v.High)
	}
	return unknown(fmt.Sprintf("%T", lit))
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eIN") {
		s += ".0"
	}
	return s
}

var (
	bareSymbol     = regexp.MustCompile(`^(@@?|\$)?[A-Za-z_][A-Za-z0-9_]*$|^[A-Za-z_][A-Za-z0-9_]*[?!=]$`)
	specialGlobal  = regexp.MustCompile(`^\$([!@&` + "`" + `'+~=/\\,;.<>_*$?:"0]|-[A-Za-z0-9_]|[1-9][0-9]*)$`)
	operatorSymbol = map[string]bool{
		"+": true, "-": true, "*": true, "/": true, "%": true, "**": true,
		"==": true, "===": true, "!=": true, "=~": true, "!~": true, "<=>": true,
		"<": true, "<=": true, ">": true, ">=": true, "<<": true, ">>": true,
		"!": true, "~": true, "&": true, "|": true, "^": true,
		"[]": true, "[]=": true, "+@": true, "-@": true, "`": true,
	}
)

// symbol renders :name, quoting names that are not valid bare symbols.
func symbol(name string) string {
	if operatorSymbol[name] || bareSymbol.MatchString(name) || specialGlobal.MatchString(name) {
		return ":" + name
	}
	return ":" + quote(name)
}

func quote(s string) string {
	return `"` + escape(s, '"') + `"`
}

// escape writes s as the inside of a double-quoted Ruby literal delimited
// by delim, keeping `#{`, `#@` and `#$` from starting an interpolation.
// Bytes that are not valid UTF-8 are written as \xHH escapes.
func escape(s string, delim rune) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		c, size := utf8.DecodeRuneInString(s[i:])
		if c == utf8.RuneError && size == 1 {
			fmt.Fprintf(&b, `\x%02X`, s[i])
			i++
			continue
		}
		i += size

		switch c {
		case '\\':
			b.WriteString(`\\`)
		case delim:
			b.WriteRune('\\')
			b.WriteRune(c)
		case '#':
			if i < len(s) && strings.IndexByte("{$@", s[i]) >= 0 {
				b.WriteString(`\#`)
			} else {
				b.WriteRune(c)
			}
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\f':
			b.WriteString(`\f`)
		case '\v':
			b.WriteString(`\v`)
		case '\a':
			b.WriteString(`\a`)
		case '\b':
			b.WriteString(`\b`)
		case 0x1b:
			b.WriteString(`\e`)
		default:
			if c < 0x20 || c == 0x7f {
				fmt.Fprintf(&b, `\x%02X`, c)
			} else {
				b.WriteRune(c)
			}
		}
	}
	return b.String()
}

func escapeXStr(s string) string {
	return escape(s, '`')
}

func (r *renderer) emitInterp(n *ast.Interp) string {
	var body strings.Builder
	for _, part := range n.Parts {
		switch p := part.(type) {
		case *ast.Str:
			switch n.Of {
			case ast.KindDRegx:
				body.WriteString(p.Value)
			case ast.KindDXStr:
				body.WriteString(escapeXStr(p.Value))
			default:
				body.WriteString(escape(p.Value, '"'))
			}
		case *ast.EvStr:
			body.WriteString("#{" + r.emit(p.Value) + "}")
		default:
			body.WriteString("#{" + r.emit(p) + "}")
		}
	}

	switch n.Of {
	case ast.KindDSym:
		return `:"` + body.String() + `"`
	case ast.KindDRegx:
		return "/" + body.String() + "/" + n.Options
	case ast.KindDXStr:
		return "`" + body.String() + "`"
	default:
		return `"` + body.String() + `"`
	}
}

// emitHash renders a hash inline below the configured key count and one
// pair per line from it on.
func (r *renderer) emitHash(n *ast.Hash) string {
	if len(n.Pairs) == 0 {
		return "{}"
	}
	if len(n.Pairs) < r.config.LongHashKeySize {
		return "{" + r.pairs(n.Pairs) + "}"
	}
	return "{" + r.indent(func() string {
		lines := make([]string, len(n.Pairs))
		for i, p := range n.Pairs {
			lines[i] = r.nl(r.pair(p))
		}
		return strings.Join(lines, ",")
	}) + r.nl("}")
}

func (r *renderer) pairs(pairs []ast.Pair) string {
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = r.pair(p)
	}
	return strings.Join(parts, ", ")
}

func (r *renderer) pair(p ast.Pair) string {
	if p.Key == nil || p.Value == nil {
		panic(&MalformedNodeError{Kind: ast.KindHash, Line: lineOf(p.Key, p.Value), Slot: "pair"})
	}
	return r.value(p.Key) + " => " + r.value(p.Value)
}

func lineOf(nodes ...ast.Node) int {
	for _, n := range nodes {
		if n != nil {
			return n.SourceLine()
		}
	}
	return 0
}

func (r *renderer) emitRange(n *ast.RangeExpr) string {
	dots := ".."
	if n.Exclusive {
		dots = "..."
	}
	return r.operand(n.Low) + dots + r.operand(n.High)
}
