// Package sexpr implements the tokenizer and parser for the compiler's
// S-expression source dialect: parenthesized lists of atoms, with ";;"
// line comments and a lone ";" treated as an ordinary atom character.
package sexpr

import (
	"strings"

	"github.com/rkl-go/rkl/internal/rklerr"
)

// Expr is a parsed S-expression node. Exactly one of Atom or List is
// meaningful, selected by IsAtom.
type Expr struct {
	atom    string
	list    []Expr
	isAtom  bool
	line    int
	column  int
}

// Atom builds an atom node, mainly for tests and synthetic expressions.
func Atom(s string) Expr { return Expr{atom: s, isAtom: true} }

// List builds a list node.
func List(items []Expr) Expr { return Expr{list: items} }

// IsAtom reports whether e is an atom node.
func (e Expr) IsAtom() bool { return e.isAtom }

// AsAtom returns the atom text, or a ShapeError if e is a list.
func (e Expr) AsAtom() (string, error) {
	if !e.isAtom {
		return "", &rklerr.ShapeError{Msg: "expected atom, found list", Form: e.Pretty()}
	}
	return e.atom, nil
}

// AsList returns the child expressions, or a ShapeError if e is an atom.
func (e Expr) AsList() ([]Expr, error) {
	if e.isAtom {
		return nil, &rklerr.ShapeError{Msg: "expected list, found atom", Form: e.Pretty()}
	}
	return e.list, nil
}

// Line and Column report the 1-based source position of the first token
// of this expression, when the expression was produced by Parse. Expr
// values built directly via Atom/List report 0.
func (e Expr) Line() int   { return e.line }
func (e Expr) Column() int { return e.column }

// Pretty renders e back into its textual form, used in error messages.
func (e Expr) Pretty() string {
	var b strings.Builder
	e.writeTo(&b)
	return b.String()
}

func (e Expr) String() string { return e.Pretty() }

func (e Expr) writeTo(b *strings.Builder) {
	if e.isAtom {
		b.WriteString(e.atom)
		return
	}
	b.WriteByte('(')
	for i, c := range e.list {
		if i > 0 {
			b.WriteByte(' ')
		}
		c.writeTo(b)
	}
	b.WriteByte(')')
}

type token struct {
	text   string
	line   int
	column int
}

// tokenize splits input into "(", ")", and maximal runs of non-whitespace,
// non-paren, non-comment characters, dropping ";;"-to-end-of-line
// comments. A lone ";" is a legal atom character.
func tokenize(input string) []token {
	var tokens []token
	line, col := 1, 1
	start := -1
	startLine, startCol := 1, 1
	inComment := false

	advance := func(r byte) {
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}

	flush := func(end int) {
		if start >= 0 {
			tokens = append(tokens, token{text: input[start:end], line: startLine, column: startCol})
			start = -1
		}
	}

	i := 0
	for i < len(input) {
		c := input[i]
		if inComment {
			if c == '\n' {
				inComment = false
			}
			advance(c)
			i++
			continue
		}
		switch {
		case c == ';':
			if i+1 < len(input) && input[i+1] == ';' {
				flush(i)
				inComment = true
				advance(c)
				i++
				continue
			}
			if start < 0 {
				start, startLine, startCol = i, line, col
			}
		case c == '(' || c == ')':
			flush(i)
			tokens = append(tokens, token{text: input[i : i+1], line: line, column: col})
		case isSpace(c):
			flush(i)
		default:
			if start < 0 {
				start, startLine, startCol = i, line, col
			}
		}
		advance(c)
		i++
	}
	flush(len(input))
	return tokens
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

// Parse reads the entirety of input as a single top-level expression.
// The caller typically wraps multi-form sources in "(...)" first (see
// internal/layout), since the grammar otherwise allows only one root
// expression.
func Parse(input string) (Expr, error) {
	tokens := tokenize(input)
	if len(tokens) == 0 {
		return Expr{}, &rklerr.ParseError{Msg: "empty token stream"}
	}
	expr, rest, err := parse(tokens)
	if err != nil {
		return Expr{}, err
	}
	if len(rest) != 0 {
		return Expr{}, &rklerr.ParseError{Msg: "unbalanced parens: trailing tokens after root form"}
	}
	return expr, nil
}

func parse(tokens []token) (Expr, []token, error) {
	if len(tokens) == 0 {
		return Expr{}, nil, &rklerr.ParseError{Msg: "unbalanced parens: unexpected end of input"}
	}
	head := tokens[0]
	rest := tokens[1:]

	switch head.text {
	case "(":
		var items []Expr
		for {
			if len(rest) == 0 {
				return Expr{}, nil, &rklerr.ParseError{Msg: "unbalanced parens: missing )"}
			}
			if rest[0].text == ")" {
				rest = rest[1:]
				break
			}
			var item Expr
			var err error
			item, rest, err = parse(rest)
			if err != nil {
				return Expr{}, nil, err
			}
			items = append(items, item)
		}
		return Expr{list: items, line: head.line, column: head.column}, rest, nil
	case ")":
		return Expr{}, nil, &rklerr.ParseError{Msg: "unbalanced parens: unexpected )"}
	default:
		return Expr{atom: head.text, isAtom: true, line: head.line, column: head.column}, rest, nil
	}
}
