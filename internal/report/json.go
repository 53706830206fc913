package report

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONReporter formats split results as JSON
type JSONReporter struct{}

type jsonDocument struct {
	Source     string          `json:"source,omitempty"`
	Count      int             `json:"count"`
	Statements []jsonStatement `json:"statements"`
}

type jsonStatement struct {
	Index     int    `json:"index"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	Text      string `json:"text"`
}

// NewJSONReporter creates a new JSON reporter
func NewJSONReporter() *JSONReporter {
	return &JSONReporter{}
}

// Format formats the document as JSON and writes to the writer
func (r *JSONReporter) Format(doc *Document, writer io.Writer) error {
	out := jsonDocument{
		Source:     doc.Source,
		Count:      len(doc.Statements),
		Statements: make([]jsonStatement, 0, len(doc.Statements)),
	}
	for _, stmt := range doc.Statements {
		out.Statements = append(out.Statements, jsonStatement{
			Index:     stmt.Index,
			StartLine: stmt.StartLine,
			EndLine:   stmt.EndLine,
			Text:      stmt.Text,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal statements to JSON: %w", err)
	}

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}

	_, err = writer.Write([]byte("\n"))
	return err
}

// Name returns the name of this reporter
func (r *JSONReporter) Name() string {
	return "json"
}
