package sexp

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

type scanner struct {
	src  []byte
	off  int
	line int
	col  int
}

func newScanner(src []byte) *scanner {
	return &scanner{src: src, line: 1, col: 1}
}

func (s *scanner) eof() bool {
	return s.off >= len(s.src)
}

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.src[s.off]
}

func (s *scanner) peekAt(n int) byte {
	if s.off+n >= len(s.src) {
		return 0
	}
	return s.src[s.off+n]
}

func (s *scanner) advance() byte {
	c := s.src[s.off]
	s.off++
	if c == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return c
}

func (s *scanner) hasPrefix(p string) bool {
	return strings.HasPrefix(string(s.src[s.off:min(len(s.src), s.off+len(p))]), p)
}

func (s *scanner) skipSpace() {
	for !s.eof() {
		switch s.peek() {
		case ' ', '\t', '\r', '\n':
			s.advance()
		default:
			return
		}
	}
}

func (s *scanner) errorf(format string, args ...any) error {
	return errors.WithStack(&SyntaxError{
		Line:   s.line,
		Column: s.col,
		Msg:    fmt.Sprintf(format, args...),
	})
}

func (s *scanner) expect(c byte) error {
	s.skipSpace()
	if s.peek() != c {
		return s.unexpected(fmt.Sprintf("%q", c))
	}
	s.advance()
	return nil
}

func (s *scanner) unexpected(want string) error {
	if s.eof() {
		return s.errorf("unexpected end of input, expected %s", want)
	}
	r, _ := utf8.DecodeRune(s.src[s.off:])
	return s.errorf("unexpected %q, expected %s", r, want)
}

func isWordByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func (s *scanner) scanWord() string {
	start := s.off
	for !s.eof() && isWordByte(s.peek()) {
		s.advance()
	}
	return string(s.src[start:s.off])
}

// scanSymbol reads a symbol after its leading colon. Operator symbols such
// as :<=> or :[]= run until the next delimiter.
func (s *scanner) scanSymbol() (Symbol, error) {
	if s.peek() == '"' {
		str, err := s.scanString()
		return Symbol(str), err
	}
	start := s.off
scan:
	for !s.eof() {
		switch s.peek() {
		case ',', ')', ' ', '\t', '\r', '\n':
			break scan
		}
		s.advance()
	}
	if s.off == start {
		return "", s.unexpected("symbol name")
	}
	return Symbol(s.src[start:s.off]), nil
}

// scanString reads a double-quoted string with Ruby escapes.
func (s *scanner) scanString() (string, error) {
	if err := s.expect('"'); err != nil {
		return "", err
	}
	var b strings.Builder
	for {
		if s.eof() {
			return "", s.errorf("unterminated string")
		}
		c := s.advance()
		switch c {
		case '"':
			return b.String(), nil
		case '\\':
			if err := s.scanEscape(&b); err != nil {
				return "", err
			}
		default:
			b.WriteByte(c)
		}
	}
}

func (s *scanner) scanEscape(b *strings.Builder) error {
	if s.eof() {
		return s.errorf("unterminated escape")
	}
	c := s.advance()
	switch c {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'e':
		b.WriteByte(0x1b)
	case 'a':
		b.WriteByte('\a')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'v':
		b.WriteByte('\v')
	case 's':
		b.WriteByte(' ')
	case '0':
		b.WriteByte(0)
	case 'x':
		return s.scanCode(b, 2, 16)
	case 'u':
		if s.peek() == '{' {
			s.advance()
			start := s.off
			for !s.eof() && s.peek() != '}' {
				s.advance()
			}
			if s.eof() {
				return s.errorf("unterminated unicode escape")
			}
			for _, hex := range strings.Fields(string(s.src[start:s.off])) {
				r, err := strconv.ParseUint(hex, 16, 32)
				if err != nil {
					return s.errorf("invalid unicode escape %q", hex)
				}
				b.WriteRune(rune(r))
			}
			s.advance()
			return nil
		}
		return s.scanCode(b, 4, 16)
	default:
		// \" \\ \# and anything else stand for themselves
		b.WriteByte(c)
	}
	return nil
}

func (s *scanner) scanCode(b *strings.Builder, width int, base int) error {
	start := s.off
	for i := 0; i < width && !s.eof(); i++ {
		s.advance()
	}
	code, err := strconv.ParseUint(string(s.src[start:s.off]), base, 32)
	if err != nil {
		return s.errorf("invalid escape %q", s.src[start:s.off])
	}
	if width == 2 {
		b.WriteByte(byte(code))
	} else {
		b.WriteRune(rune(code))
	}
	return nil
}

// scanRegexp reads /source/options, keeping the source escapes verbatim.
func (s *scanner) scanRegexp() (Regexp, error) {
	if err := s.expect('/'); err != nil {
		return Regexp{}, err
	}
	start := s.off
	for {
		if s.eof() {
			return Regexp{}, s.errorf("unterminated regexp")
		}
		c := s.peek()
		if c == '\\' {
			s.advance()
			if !s.eof() {
				s.advance()
			}
			continue
		}
		if c == '/' {
			break
		}
		s.advance()
	}
	src := string(s.src[start:s.off])
	s.advance()
	optStart := s.off
	for !s.eof() && s.peek() >= 'a' && s.peek() <= 'z' {
		s.advance()
	}
	return Regexp{Source: src, Options: string(s.src[optStart:s.off])}, nil
}

// scanNumber reads an integer, a float, or an integer range.
func (s *scanner) scanNumber() (any, error) {
	low, isFloat, err := s.scanNumeral()
	if err != nil {
		return nil, err
	}
	if isFloat {
		f, err := strconv.ParseFloat(low, 64)
		if err != nil {
			return nil, s.errorf("invalid float %q", low)
		}
		return f, nil
	}
	lo, err := strconv.ParseInt(low, 0, 64)
	if err != nil {
		return nil, s.errorf("invalid integer %q", low)
	}
	if !s.hasPrefix("..") {
		return lo, nil
	}
	rng := Range{Low: lo}
	s.advance()
	s.advance()
	if s.peek() == '.' {
		s.advance()
		rng.Exclusive = true
	}
	high, isFloat, err := s.scanNumeral()
	if err != nil {
		return nil, err
	}
	if isFloat {
		return nil, s.errorf("float range bounds are not supported")
	}
	rng.High, err = strconv.ParseInt(high, 0, 64)
	if err != nil {
		return nil, s.errorf("invalid integer %q", high)
	}
	return rng, nil
}

func (s *scanner) scanNumeral() (string, bool, error) {
	start := s.off
	if s.peek() == '-' || s.peek() == '+' {
		s.advance()
	}
	if !isDigit(s.peek()) {
		return "", false, s.unexpected("digit")
	}
	isFloat := false
	digits := func() {
		for !s.eof() && (isDigit(s.peek()) || s.peek() == '_') {
			s.advance()
		}
	}
	digits()
	if s.peek() == '.' && isDigit(s.peekAt(1)) {
		isFloat = true
		s.advance()
		digits()
	}
	if s.peek() == 'e' || s.peek() == 'E' {
		isFloat = true
		s.advance()
		if s.peek() == '-' || s.peek() == '+' {
			s.advance()
		}
		digits()
	}
	return strings.ReplaceAll(string(s.src[start:s.off]), "_", ""), isFloat, nil
}

func formatFloat(f float64) string {
	str := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(str, ".eIN") {
		str += ".0"
	}
	return str
}
