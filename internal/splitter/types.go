package splitter

// State is the lexical context the scanner is in at a given byte offset.
// Exactly one state is active at a time; states never stack.
type State int

const (
	Normal       State = iota // Outside any literal or comment; ';' ends a statement
	LineComment               // -- until end of line
	BlockComment              // /* ... */
	SingleQuoted              // '...' string literal, '' is an escaped quote
	DoubleQuoted              // "..." quoted identifier
	DollarQuoted              // $tag$ ... $tag$ body
)

// String returns a string representation of State
func (s State) String() string {
	switch s {
	case Normal:
		return "normal"
	case LineComment:
		return "line comment"
	case BlockComment:
		return "block comment"
	case SingleQuoted:
		return "single-quoted string"
	case DoubleQuoted:
		return "double-quoted identifier"
	case DollarQuoted:
		return "dollar-quoted string"
	default:
		return "unknown"
	}
}

// Statement is one executable unit of a script, delimited by top-level
// semicolons. Text is trimmed and never empty.
type Statement struct {
	Index     int    // 1-indexed position in the script
	Text      string // Trimmed statement text, without the terminating ';'
	Start     int    // Byte offset of Text in the script
	End       int    // Byte offset just past Text
	StartLine int    // 1-indexed line number
	EndLine   int    // 1-indexed line number
}

// Option adjusts scanner behaviour
type Option func(*Scanner)

// WithNestedComments makes /* ... */ comments nest, so every /* needs its
// own */ before the comment ends. By default the first */ closes the comment.
func WithNestedComments() Option {
	return func(s *Scanner) {
		s.nested = true
	}
}
