package engine

import "strings"

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource rewrites scene script source before passing it to
// zygomys:
//
//  1. Keywords become marked strings: :height -> "__kw_height". Builtins
//     recognise the prefix, so no keyword symbols need to be registered.
//  2. Kebab-case identifiers become snake case: part-ref -> part_ref.
//     zygomys reads a hyphen inside an identifier as subtraction.
//  3. ; and ;; line comments become //, the zygomys comment syntax.
//
// String literals pass through untouched.
func preprocessSource(source string) string {
	p := preprocessor{src: source}
	p.out.Grow(len(source) + len(source)/4)
	for p.i < len(p.src) {
		switch c := p.src[p.i]; {
		case c == '"':
			p.copyQuoted('"', true)
		case c == '`':
			p.copyQuoted('`', false)
		case c == ';':
			p.comment()
		case c == ':' && p.peek(1) == '=':
			p.copyN(2)
		case c == ':' && isLetter(p.peek(1)):
			p.keyword()
		case c == '-' && p.i > 0 && isIdentChar(p.src[p.i-1]) && isLetter(p.peek(1)):
			p.out.WriteByte('_')
			p.i++
		default:
			p.copyN(1)
		}
	}
	return p.out.String()
}

type preprocessor struct {
	src string
	i   int
	out strings.Builder
}

// peek returns the byte n positions ahead, or 0 past the end.
func (p *preprocessor) peek(n int) byte {
	if p.i+n < len(p.src) {
		return p.src[p.i+n]
	}
	return 0
}

func (p *preprocessor) copyN(n int) {
	end := p.i + n
	if end > len(p.src) {
		end = len(p.src)
	}
	p.out.WriteString(p.src[p.i:end])
	p.i = end
}

// copyQuoted copies a string literal including both quotes.
func (p *preprocessor) copyQuoted(quote byte, escapes bool) {
	p.copyN(1)
	for p.i < len(p.src) && p.src[p.i] != quote {
		if escapes && p.src[p.i] == '\\' {
			p.copyN(2)
			continue
		}
		p.copyN(1)
	}
	p.copyN(1)
}

func (p *preprocessor) comment() {
	p.out.WriteString("//")
	for p.i < len(p.src) && p.src[p.i] == ';' {
		p.i++
	}
	for p.i < len(p.src) && p.src[p.i] != '\n' {
		p.copyN(1)
	}
}

func (p *preprocessor) keyword() {
	j := p.i + 1
	for j < len(p.src) && isKWChar(p.src[j]) {
		j++
	}
	p.out.WriteByte('"')
	p.out.WriteString(kwPrefix)
	p.out.WriteString(p.src[p.i+1 : j])
	p.out.WriteByte('"')
	p.i = j
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}
