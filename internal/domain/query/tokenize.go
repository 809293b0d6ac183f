package query

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokOperator
	tokNumber
	tokPunct
	tokInvalid
)

type token struct {
	kind tokenKind
	text string
}

// tokenize splits a literal-free, lower-cased clause. It stops at the first
// character outside the vocabulary and reports it as tokInvalid.
func tokenize(s string) []token {
	var out []token
	rs := []rune(s)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			i++
		case r == '_' || isLetter(r):
			j := i + 1
			for j < len(rs) && (rs[j] == '_' || isLetter(rs[j]) || isDigit(rs[j])) {
				j++
			}
			out = append(out, token{tokIdent, string(rs[i:j])})
			i = j
		case startsNumber(rs, i):
			j := i
			if rs[j] == '-' || rs[j] == '+' {
				j++
			}
			for j < len(rs) && isDigit(rs[j]) {
				j++
			}
			if j+1 < len(rs) && rs[j] == '.' && isDigit(rs[j+1]) {
				j++
				for j < len(rs) && isDigit(rs[j]) {
					j++
				}
			}
			out = append(out, token{tokNumber, string(rs[i:j])})
			i = j
		case isOperator(r):
			j := i + 1
			for j < len(rs) && isOperator(rs[j]) {
				j++
			}
			out = append(out, token{tokOperator, string(rs[i:j])})
			i = j
		case r == '(' || r == ')' || r == ',' || r == '%':
			out = append(out, token{tokPunct, string(r)})
			i++
		default:
			return append(out, token{tokInvalid, string(r)})
		}
	}
	return out
}

// startsNumber reports whether a numeric literal begins at rs[i]: digits, or a
// sign or decimal point directly followed by them (-1, +2, .5, -.5).
func startsNumber(rs []rune, i int) bool {
	j := i
	if rs[j] == '-' || rs[j] == '+' {
		j++
	}
	if j < len(rs) && rs[j] == '.' {
		j++
	}
	return j < len(rs) && isDigit(rs[j])
}

func isLetter(r rune) bool { return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' }

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isOperator(r rune) bool { return r == '<' || r == '>' || r == '=' || r == '!' }
