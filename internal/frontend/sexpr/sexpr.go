// Package sexpr reads the s-expression serialization of a Thrush AST.
//
// It is the boundary format used to hand a parsed unit to the semantic core
// without linking against the parser: one datum per top-level item, lists in
// parentheses, symbols, integers or floats, and double-quoted strings.
// A semicolon starts a comment that runs to the end of the line.
package sexpr

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/thrushlang/thrushc-sub007/internal/source"
)

// NodeType represents the type of a Node
type NodeType int

const (
	NodeSymbol NodeType = iota
	NodeString
	NodeNumber
	NodeList
)

// Node is one datum with the span it was read from
type Node struct {
	Type  NodeType
	Text  string  // NodeSymbol, NodeString, NodeNumber
	Items []*Node // NodeList
	Start source.Position
	End   source.Position
}

func (n *Node) String() string {
	switch n.Type {
	case NodeSymbol, NodeNumber:
		return n.Text
	case NodeString:
		escaped := strings.ReplaceAll(n.Text, "\\", "\\\\")
		escaped = strings.ReplaceAll(escaped, "\"", "\\\"")
		return fmt.Sprintf("\"%s\"", escaped)
	case NodeList:
		parts := make([]string, len(n.Items))
		for i, item := range n.Items {
			parts[i] = item.String()
		}
		return fmt.Sprintf("(%s)", strings.Join(parts, " "))
	default:
		return fmt.Sprintf("UNKNOWN_NODE_TYPE_%d", n.Type)
	}
}

// IsSymbol reports whether n is the symbol name
func (n *Node) IsSymbol(name string) bool {
	return n != nil && n.Type == NodeSymbol && n.Text == name
}

// Head returns the leading symbol of a list, or "".
func (n *Node) Head() string {
	if n == nil || n.Type != NodeList || len(n.Items) == 0 || n.Items[0].Type != NodeSymbol {
		return ""
	}
	return n.Items[0].Text
}

// Parse reads every datum in input.
func Parse(input string) ([]*Node, error) {
	p := &parser{lexer: newLexer(input)}
	p.nextToken()

	var nodes []*Node
	for p.current.typ != tokenEOF {
		node, err := p.parseDatum()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	if p.lexer.err != nil {
		return nil, p.lexer.err
	}
	return nodes, nil
}

type parser struct {
	lexer   *lexer
	current token
}

func (p *parser) nextToken() {
	p.current = p.lexer.nextToken()
}

func (p *parser) parseDatum() (*Node, error) {
	tok := p.current
	switch tok.typ {
	case tokenSymbol, tokenString, tokenNumber:
		p.nextToken()
		return &Node{Type: atomTypes[tok.typ], Text: tok.value, Start: tok.start, End: tok.end}, nil
	case tokenLParen:
		return p.parseList()
	case tokenError:
		return nil, p.lexer.err
	default:
		return nil, fmt.Errorf("%d:%d: unexpected %s", tok.start.Line, tok.start.Column, tok.typ)
	}
}

var atomTypes = map[tokenType]NodeType{
	tokenSymbol: NodeSymbol,
	tokenString: NodeString,
	tokenNumber: NodeNumber,
}

func (p *parser) parseList() (*Node, error) {
	list := &Node{Type: NodeList, Start: p.current.start}
	p.nextToken() // consume '('

	for p.current.typ != tokenRParen {
		if p.current.typ == tokenEOF {
			return nil, fmt.Errorf("%d:%d: unterminated list", list.Start.Line, list.Start.Column)
		}
		item, err := p.parseDatum()
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, item)
	}

	list.End = p.current.end
	p.nextToken() // consume ')'
	return list, nil
}

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenSymbol
	tokenString
	tokenNumber
	tokenLParen
	tokenRParen
	tokenError
)

func (t tokenType) String() string {
	switch t {
	case tokenEOF:
		return "EOF"
	case tokenSymbol:
		return "symbol"
	case tokenString:
		return "string"
	case tokenNumber:
		return "number"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	default:
		return "error"
	}
}

type token struct {
	typ   tokenType
	value string
	start source.Position
	end   source.Position
}

type lexer struct {
	input []rune
	pos   int
	at    source.Position
	err   error
}

func newLexer(input string) *lexer {
	return &lexer{input: []rune(input), at: *source.NewPosition()}
}

func (l *lexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *lexer) advance() rune {
	r := l.input[l.pos]
	l.pos++
	l.at.Advance(string(r))
	return r
}

func (l *lexer) skipSpaceAndComments() {
	for l.pos < len(l.input) {
		r := l.peek()
		switch {
		case unicode.IsSpace(r) || r == ',':
			l.advance()
		case r == ';':
			for l.pos < len(l.input) && l.peek() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *lexer) nextToken() token {
	l.skipSpaceAndComments()
	start := l.at
	if l.pos >= len(l.input) {
		return token{typ: tokenEOF, start: start, end: start}
	}

	switch r := l.peek(); {
	case r == '(':
		l.advance()
		return token{typ: tokenLParen, value: "(", start: start, end: l.at}
	case r == ')':
		l.advance()
		return token{typ: tokenRParen, value: ")", start: start, end: l.at}
	case r == '"':
		return l.readString(start)
	default:
		return l.readAtom(start)
	}
}

func (l *lexer) readString(start source.Position) token {
	l.advance() // opening quote
	var sb strings.Builder
	for {
		if l.pos >= len(l.input) {
			l.err = fmt.Errorf("%d:%d: unterminated string", start.Line, start.Column)
			return token{typ: tokenError, start: start, end: l.at}
		}
		r := l.advance()
		if r == '"' {
			break
		}
		if r == '\\' && l.pos < len(l.input) {
			switch esc := l.advance(); esc {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case '0':
				sb.WriteRune(0)
			default:
				sb.WriteRune(esc)
			}
			continue
		}
		sb.WriteRune(r)
	}
	return token{typ: tokenString, value: sb.String(), start: start, end: l.at}
}

func (l *lexer) readAtom(start source.Position) token {
	begin := l.pos
	for l.pos < len(l.input) {
		r := l.peek()
		if unicode.IsSpace(r) || r == '(' || r == ')' || r == '"' || r == ';' || r == ',' {
			break
		}
		l.advance()
	}
	text := string(l.input[begin:l.pos])
	typ := tokenSymbol
	if isNumberStart(text) {
		typ = tokenNumber
	}
	return token{typ: typ, value: text, start: start, end: l.at}
}

func isNumberStart(text string) bool {
	if text == "" {
		return false
	}
	if text[0] == '-' {
		text = text[1:]
	}
	return text != "" && text[0] >= '0' && text[0] <= '9'
}
