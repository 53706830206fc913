package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/cybertec-postgresql/pgscript/internal/splitter"
)

// Document is the split result of one script
type Document struct {
	Source     string
	Statements []splitter.Statement
}

// Formatter is an interface for split output formatters
type Formatter interface {
	// Format formats the document and writes to the writer
	Format(doc *Document, writer io.Writer) error

	// Name returns the name of this formatter
	Name() string
}

// FormatType represents supported output formats
type FormatType string

const (
	FormatText FormatType = "text"
	FormatJSON FormatType = "json"
)

// GetFormatter returns a formatter for the specified format type
func GetFormatter(format FormatType) (Formatter, error) {
	switch format {
	case FormatText:
		return NewTextReporter(), nil
	case FormatJSON:
		return NewJSONReporter(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: %s)", format, strings.Join(SupportedFormats(), ", "))
	}
}

// FormatToWriter formats a document to a writer using the specified format
func FormatToWriter(doc *Document, format FormatType, writer io.Writer) error {
	formatter, err := GetFormatter(format)
	if err != nil {
		return err
	}
	return formatter.Format(doc, writer)
}

// ValidFormat checks if a format string is valid
func ValidFormat(format string) bool {
	switch FormatType(format) {
	case FormatText, FormatJSON:
		return true
	default:
		return false
	}
}

// SupportedFormats returns a list of supported format names
func SupportedFormats() []string {
	return []string{string(FormatText), string(FormatJSON)}
}
