package splitter

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

/*
 * Scanner walks a script left to right with one character of lookahead and
 * yields statements as it meets top-level semicolons.
 *
 * The statement in progress is always the contiguous slice src[start:pos]:
 * every character except a top-level ';' belongs to it, so no separate
 * buffer is kept. All triggers are ASCII, which lets the scan step over
 * UTF-8 input byte by byte; only dollar-quote tags decode runes.
 */
type Scanner struct {
	src    string
	pos    int
	start  int    // Offset where the statement in progress begins
	state  State  // Current lexical context
	tag    string // Opening $tag$ while in DollarQuoted
	depth  int    // Block comment nesting, > 1 only with nested comments
	opened int    // Offset where the current non-Normal context opened
	nested bool
	index  int
	lines  lineCounter
}

// NewScanner returns a Scanner that reads from src.
func NewScanner(src string, opts ...Option) *Scanner {
	s := &Scanner{src: src, lines: lineCounter{line: 1}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the lexical context after the last consumed character.
// Once Next has returned false this is the end-of-input state.
func (s *Scanner) State() State { return s.state }

// Tag returns the opening delimiter, e.g. "$$" or "$body$", while the
// scanner is inside a dollar-quoted body.
func (s *Scanner) Tag() string { return s.tag }

// Pos returns the byte offset of the next character to be read.
func (s *Scanner) Pos() int { return s.pos }

// Next returns the next non-empty statement. It returns false once the
// input is exhausted. An unterminated literal or comment at end of input is
// not an error: whatever is left is returned as the final statement.
func (s *Scanner) Next() (Statement, bool) {
	for s.pos < len(s.src) {
		if !s.step() {
			continue
		}
		// step consumed the ';', which is not part of the statement
		stmt, ok := s.flush(s.pos - 1)
		s.start = s.pos
		if ok {
			return stmt, true
		}
	}

	if s.start < len(s.src) {
		stmt, ok := s.flush(len(s.src))
		s.start = len(s.src)
		if ok {
			return stmt, true
		}
	}
	return Statement{}, false
}

// All drains the scanner and returns the remaining statements in order.
func (s *Scanner) All() []Statement {
	var stmts []Statement
	for {
		stmt, ok := s.Next()
		if !ok {
			return stmts
		}
		stmts = append(stmts, stmt)
	}
}

// flush trims src[start:end] and turns it into a Statement. Whitespace-only
// spans yield false.
func (s *Scanner) flush(end int) (Statement, bool) {
	raw := s.src[s.start:end]
	text := strings.TrimLeftFunc(raw, isSpace)
	begin := s.start + len(raw) - len(text)
	text = strings.TrimRightFunc(text, isSpace)
	if text == "" {
		return Statement{}, false
	}

	s.index++
	return Statement{
		Index:     s.index,
		Text:      text,
		Start:     begin,
		End:       begin + len(text),
		StartLine: s.lines.at(s.src, begin),
		EndLine:   s.lines.at(s.src, begin+len(text)-1),
	}, true
}

// step consumes one trigger (one or more bytes) and reports whether it was
// a top-level semicolon.
func (s *Scanner) step() bool {
	ch := s.src[s.pos]

	switch s.state {
	case Normal:
		switch {
		case ch == '-' && s.peek(1) == '-':
			s.enter(LineComment)
			s.pos += 2
		case ch == '/' && s.peek(1) == '*':
			s.enter(BlockComment)
			s.depth = 1
			s.pos += 2
		case ch == '\'':
			s.enter(SingleQuoted)
			s.pos++
		case ch == '"':
			s.enter(DoubleQuoted)
			s.pos++
		case ch == '$':
			tag, next, ok := scanDollarTag(s.src, s.pos)
			if ok {
				s.enter(DollarQuoted)
				s.tag = tag
				s.pos = next
			} else {
				s.pos++
			}
		case ch == ';':
			s.pos++
			return true
		default:
			s.pos++
		}

	case LineComment:
		if ch == '\n' {
			s.state = Normal
		}
		s.pos++

	case BlockComment:
		switch {
		case ch == '*' && s.peek(1) == '/':
			s.pos += 2
			s.depth--
			if !s.nested || s.depth == 0 {
				s.depth = 0
				s.state = Normal
			}
		case s.nested && ch == '/' && s.peek(1) == '*':
			s.pos += 2
			s.depth++
		default:
			s.pos++
		}

	case SingleQuoted:
		if ch == '\'' {
			if s.peek(1) == '\'' {
				s.pos += 2
				return false
			}
			s.state = Normal
		}
		s.pos++

	case DoubleQuoted:
		if ch == '"' {
			s.state = Normal
		}
		s.pos++

	case DollarQuoted:
		if ch == '$' {
			// A delimiter with a different tag is body text, but it is
			// still consumed whole so its closing '$' cannot start a match.
			if tag, next, ok := scanDollarTag(s.src, s.pos); ok {
				if tag == s.tag {
					s.state = Normal
					s.tag = ""
				}
				s.pos = next
				return false
			}
		}
		s.pos++
	}

	return false
}

func (s *Scanner) enter(state State) {
	s.state = state
	s.opened = s.pos
}

// peek returns the byte at position s.pos+offset, or 0 if out of bounds.
func (s *Scanner) peek(offset int) byte {
	if i := s.pos + offset; i < len(s.src) {
		return s.src[i]
	}
	return 0
}

/*
 * scanDollarTag reads a dollar-quote delimiter starting at src[pos], which
 * must be '$': zero or more letters, digits or underscores followed by a
 * closing '$'. It returns the whole delimiter ("$$", "$fn$") and the offset
 * just past it, or ok=false when src[pos:] is not a delimiter (e.g. "$1 ").
 */
func scanDollarTag(src string, pos int) (tag string, next int, ok bool) {
	if pos >= len(src) || src[pos] != '$' {
		return "", pos, false
	}
	j := pos + 1
	for j < len(src) {
		r, size := utf8.DecodeRuneInString(src[j:])
		if !isTagRune(r) {
			break
		}
		j += size
	}
	if j < len(src) && src[j] == '$' {
		return src[pos : j+1], j + 1, true
	}
	return "", pos, false
}

// isSpace also treats the ASCII information separators 0x1C-0x1F as
// whitespace, so files using them as padding trim the same as other blanks.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

func isTagRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// lineCounter converts byte offsets to 1-indexed line numbers. Offsets must
// be requested in non-decreasing order, which keeps a full scan linear.
type lineCounter struct {
	off  int
	line int
}

func (lc *lineCounter) at(src string, offset int) int {
	if offset > len(src) {
		offset = len(src)
	}
	if offset > lc.off {
		lc.line += strings.Count(src[lc.off:offset], "\n")
		lc.off = offset
	}
	return lc.line
}
