package splitter

import (
	"strings"

	"github.com/cybertec-postgresql/pgscript/internal/errors"
)

// Split divides a script into its statements, in order of appearance.
// Each statement is trimmed and empty statements are dropped. Split never
// fails: malformed SQL is split best-effort.
func Split(script string) []string {
	var texts []string
	s := NewScanner(script)
	for {
		stmt, ok := s.Next()
		if !ok {
			return texts
		}
		texts = append(texts, stmt.Text)
	}
}

// SplitStatements is Split with position information for every statement.
func SplitStatements(script string, opts ...Option) []Statement {
	return NewScanner(script, opts...).All()
}

// Validate scans the whole script and reports an *errors.UnterminatedError
// when it ends inside a string, quoted identifier, comment or dollar-quoted
// body. A line comment running to end of input is accepted, since end of
// input terminates it; every other non-Normal end state is rejected.
func Validate(file, script string, opts ...Option) error {
	s := NewScanner(script, opts...)
	for {
		if _, ok := s.Next(); !ok {
			break
		}
	}

	switch s.State() {
	case Normal, LineComment:
		return nil
	}

	return errors.NewUnterminatedError(file, lineOf(script, s.opened), s.State().String(), s.Tag())
}

func lineOf(src string, offset int) int {
	if offset > len(src) {
		offset = len(src)
	}
	return strings.Count(src[:offset], "\n") + 1
}
