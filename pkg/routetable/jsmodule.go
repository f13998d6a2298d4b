package routetable

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// componentCreator is the factory call the site generator wraps every
// component handle in: ComponentCreator(handle, version).
const componentCreator = "ComponentCreator"

// ParseJSModule reads the routes.js module emitted by the site generator.
//
// Only the literal subset the generator writes is understood: import lines,
// an "export default" array of object literals, single or double quoted
// strings, booleans, numbers, ComponentCreator(...) calls, comments and
// trailing commas. A bare array literal without the export is accepted too.
// Unknown object keys are ignored.
func ParseJSModule(src []byte) ([]ManifestEntry, error) {
	p := &jsParser{lex: newJSLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}

	if err := p.seekExport(); err != nil {
		return nil, err
	}

	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if p.tok.kind == tokPunct && p.tok.text == ";" {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if p.tok.kind != tokEOF {
		return nil, p.errorf("unexpected %s after route array", p.tok)
	}

	return routesFromJS(v)
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokNumber
	tokPunct
)

type token struct {
	kind tokenKind
	text string
	line int
	col  int
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokString:
		return strconv.Quote(t.text)
	default:
		return "'" + t.text + "'"
	}
}

// jsLexer splits a JavaScript source into the tokens the parser needs.
type jsLexer struct {
	src  []byte
	pos  int
	line int
	col  int
}

func newJSLexer(src []byte) *jsLexer {
	return &jsLexer{src: src, line: 1, col: 1}
}

func (l *jsLexer) peek(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *jsLexer) step() rune {
	r, size := utf8.DecodeRune(l.src[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *jsLexer) errorf(line, col int, format string, args ...any) error {
	return fmt.Errorf("routes.js:%d:%d: %s", line, col, fmt.Sprintf(format, args...))
}

// skipSpace skips whitespace and comments.
func (l *jsLexer) skipSpace() error {
	for l.pos < len(l.src) {
		c := l.peek(0)
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.step()
		case c == '/' && l.peek(1) == '/':
			for l.pos < len(l.src) && l.peek(0) != '\n' {
				l.step()
			}
		case c == '/' && l.peek(1) == '*':
			line, col := l.line, l.col
			l.step()
			l.step()
			for {
				if l.pos >= len(l.src) {
					return l.errorf(line, col, "unterminated comment")
				}
				if l.peek(0) == '*' && l.peek(1) == '/' {
					l.step()
					l.step()
					break
				}
				l.step()
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *jsLexer) next() (token, error) {
	if err := l.skipSpace(); err != nil {
		return token{}, err
	}
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, line: l.line, col: l.col}, nil
	}

	line, col := l.line, l.col
	c := l.peek(0)

	switch {
	case c == '\'' || c == '"' || c == '`':
		s, err := l.readString(c)
		if err != nil {
			return token{}, err
		}
		return token{kind: tokString, text: s, line: line, col: col}, nil

	case c == '-' || (c >= '0' && c <= '9'):
		start := l.pos
		l.step()
		for l.pos < len(l.src) {
			d := l.peek(0)
			if (d >= '0' && d <= '9') || d == '.' || d == 'e' || d == 'E' {
				l.step()
				continue
			}
			break
		}
		return token{kind: tokNumber, text: string(l.src[start:l.pos]), line: line, col: col}, nil

	case strings.IndexByte("{}[](),:;.=*", c) >= 0:
		l.step()
		return token{kind: tokPunct, text: string(c), line: line, col: col}, nil
	}

	r, _ := utf8.DecodeRune(l.src[l.pos:])
	if r == '_' || r == '$' || unicode.IsLetter(r) {
		start := l.pos
		for l.pos < len(l.src) {
			r, _ := utf8.DecodeRune(l.src[l.pos:])
			if r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r) {
				l.step()
				continue
			}
			break
		}
		return token{kind: tokIdent, text: string(l.src[start:l.pos]), line: line, col: col}, nil
	}

	return token{}, l.errorf(line, col, "unexpected character %q", r)
}

func (l *jsLexer) readString(quote byte) (string, error) {
	line, col := l.line, l.col
	l.step()

	var sb strings.Builder
	for {
		if l.pos >= len(l.src) {
			return "", l.errorf(line, col, "unterminated string")
		}
		c := l.peek(0)
		if c == quote {
			l.step()
			return sb.String(), nil
		}
		if c == '\n' && quote != '`' {
			return "", l.errorf(line, col, "unterminated string")
		}
		if c != '\\' {
			sb.WriteRune(l.step())
			continue
		}

		l.step()
		if l.pos >= len(l.src) {
			return "", l.errorf(line, col, "unterminated string")
		}
		if err := l.readEscape(&sb); err != nil {
			return "", err
		}
	}
}

// readEscape decodes the escape sequence after a backslash into sb.
// Legacy octal escapes and unknown letter or digit escapes are rejected.
func (l *jsLexer) readEscape(sb *strings.Builder) error {
	line, col := l.line, l.col
	esc := l.step()
	switch esc {
	case 'n':
		sb.WriteByte('\n')
	case 't':
		sb.WriteByte('\t')
	case 'r':
		sb.WriteByte('\r')
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'v':
		sb.WriteByte('\v')
	case '0':
		if c := l.peek(0); c >= '0' && c <= '9' {
			return l.errorf(line, col, "octal escapes are not supported")
		}
		sb.WriteByte(0)
	case 'x':
		n, err := l.readHex(2)
		if err != nil {
			return l.errorf(line, col, "invalid \\x escape")
		}
		sb.WriteRune(rune(n))
	case 'u':
		r, err := l.readUnicodeEscape()
		if err != nil {
			return l.errorf(line, col, "invalid \\u escape")
		}
		if utf16.IsSurrogate(r) && l.peek(0) == '\\' && l.peek(1) == 'u' {
			save := *l
			l.step()
			l.step()
			if lo, err := l.readUnicodeEscape(); err == nil {
				if pair := utf16.DecodeRune(r, lo); pair != utf8.RuneError {
					sb.WriteRune(pair)
					return nil
				}
			}
			*l = save
		}
		sb.WriteRune(r)
	case '\r':
		// Line continuation; CRLF counts as one terminator.
		if l.peek(0) == '\n' {
			l.step()
		}
	case '\n', '\u2028', '\u2029':
		// Line continuation.
	default:
		if esc < utf8.RuneSelf && (unicode.IsLetter(esc) || unicode.IsDigit(esc)) {
			return l.errorf(line, col, "unknown escape \\%c", esc)
		}
		sb.WriteRune(esc)
	}
	return nil
}

// readUnicodeEscape reads the part after "\\u": four hex digits or a
// braced code point.
func (l *jsLexer) readUnicodeEscape() (rune, error) {
	if l.peek(0) != '{' {
		n, err := l.readHex(4)
		return rune(n), err
	}

	l.step()
	end := strings.IndexByte(string(l.src[l.pos:]), '}')
	if end < 1 || end > 6 {
		return 0, fmt.Errorf("bad code point")
	}
	n, err := l.readHex(end)
	if err != nil || n > unicode.MaxRune {
		return 0, fmt.Errorf("bad code point")
	}
	l.step()
	return rune(n), nil
}

// readHex consumes exactly n hex digits.
func (l *jsLexer) readHex(n int) (uint64, error) {
	if l.pos+n > len(l.src) {
		return 0, fmt.Errorf("short escape")
	}
	v, err := strconv.ParseUint(string(l.src[l.pos:l.pos+n]), 16, 32)
	if err != nil {
		return 0, err
	}
	for i := 0; i < n; i++ {
		l.step()
	}
	return v, nil
}

type jsKind int

const (
	jsString jsKind = iota
	jsNumber
	jsBool
	jsNull
	jsArray
	jsObject
	jsCall
)

type jsField struct {
	key   string
	value jsValue
}

// jsValue is a parsed literal.
type jsValue struct {
	kind   jsKind
	str    string
	b      bool
	items  []jsValue
	fields []jsField
	line   int
	col    int
}

func (v jsValue) field(key string) (jsValue, bool) {
	for _, f := range v.fields {
		if f.key == key {
			return f.value, true
		}
	}
	return jsValue{}, false
}

type jsParser struct {
	lex *jsLexer
	tok token
}

func (p *jsParser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *jsParser) errorf(format string, args ...any) error {
	return p.lex.errorf(p.tok.line, p.tok.col, format, args...)
}

func (p *jsParser) expect(punct string) error {
	if p.tok.kind != tokPunct || p.tok.text != punct {
		return p.errorf("expected '%s', found %s", punct, p.tok)
	}
	return p.advance()
}

// seekExport positions the parser at the exported value. Import statements
// and anything else before "export default" are skipped. When the module has
// no export, the first top-level "[" is used.
func (p *jsParser) seekExport() error {
	for p.tok.kind != tokEOF {
		if p.tok.kind == tokIdent && p.tok.text == "export" {
			if err := p.advance(); err != nil {
				return err
			}
			if p.tok.kind != tokIdent || p.tok.text != "default" {
				return p.errorf("expected 'default' after export, found %s", p.tok)
			}
			return p.advance()
		}
		if p.tok.kind == tokPunct && p.tok.text == "[" {
			return nil
		}
		if err := p.advance(); err != nil {
			return err
		}
	}
	return p.errorf("no exported route array")
}

func (p *jsParser) parseValue() (jsValue, error) {
	tok := p.tok
	v := jsValue{line: tok.line, col: tok.col}

	switch tok.kind {
	case tokString:
		v.kind, v.str = jsString, tok.text
		return v, p.advance()

	case tokNumber:
		v.kind, v.str = jsNumber, tok.text
		return v, p.advance()

	case tokIdent:
		switch tok.text {
		case "true", "false":
			v.kind, v.b = jsBool, tok.text == "true"
			return v, p.advance()
		case "null", "undefined":
			v.kind = jsNull
			return v, p.advance()
		}
		if err := p.advance(); err != nil {
			return v, err
		}
		if p.tok.kind != tokPunct || p.tok.text != "(" {
			return v, p.lex.errorf(tok.line, tok.col, "unsupported identifier %s", tok)
		}
		v.kind, v.str = jsCall, tok.text
		items, err := p.parseList("(", ")")
		v.items = items
		return v, err

	case tokPunct:
		switch tok.text {
		case "[":
			v.kind = jsArray
			items, err := p.parseList("[", "]")
			v.items = items
			return v, err
		case "{":
			v.kind = jsObject
			fields, err := p.parseObject()
			v.fields = fields
			return v, err
		}
	}

	return v, p.errorf("unexpected %s", tok)
}

// parseList parses comma separated values between open and close,
// allowing a trailing comma.
func (p *jsParser) parseList(open, close string) ([]jsValue, error) {
	if err := p.expect(open); err != nil {
		return nil, err
	}
	var items []jsValue
	for {
		if p.tok.kind == tokPunct && p.tok.text == close {
			return items, p.advance()
		}
		item, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		if p.tok.kind == tokPunct && p.tok.text == "," {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		if p.tok.kind != tokPunct || p.tok.text != close {
			return nil, p.errorf("expected ',' or '%s', found %s", close, p.tok)
		}
	}
}

func (p *jsParser) parseObject() ([]jsField, error) {
	if err := p.expect("{"); err != nil {
		return nil, err
	}
	var fields []jsField
	for {
		if p.tok.kind == tokPunct && p.tok.text == "}" {
			return fields, p.advance()
		}
		if p.tok.kind != tokIdent && p.tok.kind != tokString {
			return nil, p.errorf("expected object key, found %s", p.tok)
		}
		key := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expect(":"); err != nil {
			return nil, err
		}
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		fields = append(fields, jsField{key: key, value: value})

		if p.tok.kind == tokPunct && p.tok.text == "," {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		if p.tok.kind != tokPunct || p.tok.text != "}" {
			return nil, p.errorf("expected ',' or '}', found %s", p.tok)
		}
	}
}

func jsErrorf(v jsValue, format string, args ...any) error {
	return fmt.Errorf("routes.js:%d:%d: %s", v.line, v.col, fmt.Sprintf(format, args...))
}

// routesFromJS converts a parsed route array into manifest entries.
func routesFromJS(v jsValue) ([]ManifestEntry, error) {
	if v.kind != jsArray {
		return nil, jsErrorf(v, "route table must be an array")
	}
	out := make([]ManifestEntry, 0, len(v.items))
	for _, item := range v.items {
		e, err := routeFromJS(item)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func routeFromJS(v jsValue) (ManifestEntry, error) {
	var e ManifestEntry
	if v.kind != jsObject {
		return e, jsErrorf(v, "route must be an object")
	}

	path, ok := v.field("path")
	if !ok || path.kind != jsString {
		return e, jsErrorf(v, "route is missing a string path")
	}
	e.Path = path.str

	if c, ok := v.field("component"); ok {
		switch {
		case c.kind == jsString:
			e.Component = c.str
		case c.kind == jsCall && c.str == componentCreator:
			if len(c.items) == 0 || c.items[0].kind != jsString {
				return e, jsErrorf(c, "%s needs a string handle", componentCreator)
			}
			e.Component = c.items[0].str
			if len(c.items) > 1 && c.items[1].kind == jsString {
				e.Version = c.items[1].str
			}
		default:
			return e, jsErrorf(c, "unsupported component value for %s", e.Path)
		}
	}

	if x, ok := v.field("exact"); ok {
		if x.kind != jsBool {
			return e, jsErrorf(x, "exact must be a boolean")
		}
		e.Exact = x.b
	}

	if s, ok := v.field("sidebar"); ok && s.kind == jsString {
		e.Sidebar = s.str
	}

	if r, ok := v.field("routes"); ok {
		children, err := routesFromJS(r)
		if err != nil {
			return e, err
		}
		e.Routes = children
	}

	return e, nil
}

// writeJSModule emits routes in the shape the site generator writes.
func writeJSModule(w io.Writer, routes []ManifestEntry) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("import React from 'react';\n")
	bw.WriteString("import ComponentCreator from '@docusaurus/ComponentCreator';\n\n")
	bw.WriteString("export default [\n")
	for _, r := range routes {
		writeJSRoute(bw, r, 1)
		bw.WriteString(",\n")
	}
	bw.WriteString("];\n")
	return bw.Flush()
}

func writeJSRoute(bw *bufio.Writer, r ManifestEntry, depth int) {
	indent := strings.Repeat("  ", depth)
	inner := indent + "  "

	fields := []string{"path: " + jsQuote(r.Path)}
	if r.Component != "" {
		args := jsQuote(r.Component)
		if r.Version != "" {
			args += ", " + jsQuote(r.Version)
		}
		fields = append(fields, "component: "+componentCreator+"("+args+")")
	}
	if r.Exact {
		fields = append(fields, "exact: true")
	}
	if r.Sidebar != "" {
		fields = append(fields, "sidebar: "+strconv.Quote(r.Sidebar))
	}

	bw.WriteString(indent + "{\n")
	for i, f := range fields {
		bw.WriteString(inner + f)
		if i < len(fields)-1 || len(r.Routes) > 0 {
			bw.WriteString(",")
		}
		bw.WriteString("\n")
	}
	if len(r.Routes) > 0 {
		bw.WriteString(inner + "routes: [\n")
		for i, child := range r.Routes {
			writeJSRoute(bw, child, depth+2)
			if i < len(r.Routes)-1 {
				bw.WriteString(",")
			}
			bw.WriteString("\n")
		}
		bw.WriteString(inner + "]\n")
	}
	bw.WriteString(indent + "}")
}

func jsQuote(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		"\n", `\n`,
		"\r", `\r`,
		"\u2028", `\u2028`,
		"\u2029", `\u2029`,
	)
	return "'" + r.Replace(s) + "'"
}
