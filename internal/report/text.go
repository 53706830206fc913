package report

import (
	"fmt"
	"io"

	"github.com/cybertec-postgresql/pgscript/internal/splitter"
)

// TextReporter writes statements back as SQL, each terminated by ';' and
// separated by a blank line. Splitting its output again yields the same
// statements. A statement ending in a line comment gets its ';' on the
// next line.
type TextReporter struct{}

// NewTextReporter creates a new text reporter
func NewTextReporter() *TextReporter {
	return &TextReporter{}
}

// Format writes the statements of doc as a SQL script
func (r *TextReporter) Format(doc *Document, writer io.Writer) error {
	for i, stmt := range doc.Statements {
		sep := "\n"
		if i == len(doc.Statements)-1 {
			sep = ""
		}
		format := "%s;\n%s"
		if endsInLineComment(stmt.Text) {
			format = "%s\n;\n%s"
		}
		if _, err := fmt.Fprintf(writer, format, stmt.Text, sep); err != nil {
			return fmt.Errorf("failed to write statement %d: %w", stmt.Index, err)
		}
	}
	return nil
}

func endsInLineComment(text string) bool {
	s := splitter.NewScanner(text)
	s.All()
	return s.State() == splitter.LineComment
}

// Name returns the name of this reporter
func (r *TextReporter) Name() string {
	return "text"
}
