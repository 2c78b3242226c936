package sexp

import (
	"strconv"
)

// Read parses a single s-expression. An input consisting of `nil` (the
// parse of an empty file) reads as a nil *Sexp.
func Read(src []byte) (*Sexp, error) {
	s := newScanner(src)
	s.skipSpace()
	if s.eof() {
		return nil, s.errorf("empty input")
	}
	v, err := readValue(s)
	if err != nil {
		return nil, err
	}
	s.skipSpace()
	if !s.eof() {
		return nil, s.unexpected("end of input")
	}
	switch v := v.(type) {
	case nil:
		return nil, nil
	case *Sexp:
		return v, nil
	default:
		return nil, s.errorf("top level must be an s-expression, got %T", v)
	}
}

func readValue(s *scanner) (any, error) {
	s.skipSpace()
	switch c := s.peek(); {
	case c == 's' && s.peekAt(1) == '(':
		return readSexp(s)
	case c == ':':
		s.advance()
		return s.scanSymbol()
	case c == '"':
		return s.scanString()
	case c == '/':
		return s.scanRegexp()
	case isDigit(c), (c == '-' || c == '+') && isDigit(s.peekAt(1)):
		return s.scanNumber()
	case isWordByte(c):
		word := s.scanWord()
		switch word {
		case "nil":
			return nil, nil
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, s.errorf("unknown word %q", word)
	default:
		return nil, s.unexpected("value")
	}
}

func readSexp(s *scanner) (*Sexp, error) {
	s.advance() // s
	s.advance() // (
	s.skipSpace()
	if s.peek() != ':' {
		return nil, s.unexpected("type symbol")
	}
	s.advance()
	typ, err := s.scanSymbol()
	if err != nil {
		return nil, err
	}
	node := &Sexp{Type: string(typ)}

	for {
		s.skipSpace()
		if s.peek() == ')' {
			s.advance()
			break
		}
		if err := s.expect(','); err != nil {
			return nil, err
		}
		v, err := readValue(s)
		if err != nil {
			return nil, err
		}
		node.Items = append(node.Items, v)
	}

	if err := readSuffixes(s, node); err != nil {
		return nil, err
	}
	return node, nil
}

// readSuffixes consumes any `.line(n)` and `.comments("...")` calls
// following a closing paren.
func readSuffixes(s *scanner, node *Sexp) error {
	for s.peek() == '.' && isWordByte(s.peekAt(1)) {
		s.advance()
		name := s.scanWord()
		if err := s.expect('('); err != nil {
			return err
		}
		s.skipSpace()
		switch name {
		case "line":
			num, _, err := s.scanNumeral()
			if err != nil {
				return err
			}
			node.Line, err = strconv.Atoi(num)
			if err != nil {
				return s.errorf("invalid line %q", num)
			}
		case "comments":
			str, err := s.scanString()
			if err != nil {
				return err
			}
			node.Comments = str
		default:
			return s.errorf("unknown suffix .%s", name)
		}
		if err := s.expect(')'); err != nil {
			return err
		}
	}
	return nil
}
