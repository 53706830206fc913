package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// UnterminatedError reports a script that ends inside a literal, quoted
// identifier, block comment or dollar-quoted body.
type UnterminatedError struct {
	File    string
	Line    int    // Line where the unterminated context opened
	Context string // e.g. "dollar-quoted string"
	Tag     string // Dollar-quote delimiter, if any
}

func (e *UnterminatedError) Error() string {
	what := "unterminated " + e.Context
	if e.Tag != "" {
		what += " " + e.Tag
	}
	if e.File == "" {
		return fmt.Sprintf("line %d: %s", e.Line, what)
	}
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, what)
}

// NewUnterminatedError creates a new UnterminatedError
func NewUnterminatedError(file string, line int, context, tag string) *UnterminatedError {
	return &UnterminatedError{
		File:    file,
		Line:    line,
		Context: context,
		Tag:     tag,
	}
}

// ConnectionError represents PostgreSQL connection failure
type ConnectionError struct {
	Message    string
	Suggestion string
}

func (e *ConnectionError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s\nSuggestion: %s", e.Message, e.Suggestion)
	}
	return e.Message
}

// StatementError represents the failure of one statement of a script.
// Execution stops at the first StatementError.
type StatementError struct {
	Script    string
	Index     int // 1-indexed
	Total     int
	Statement string
	Err       error
}

func (e *StatementError) Error() string {
	where := fmt.Sprintf("statement %d/%d", e.Index, e.Total)
	if e.Script != "" {
		where = e.Script + ": " + where
	}
	if pgErr := e.PgError(); pgErr != nil {
		return fmt.Sprintf("%s failed: [%s] %s", where, pgErr.Code, pgErr.Message)
	}
	return fmt.Sprintf("%s failed: %v", where, e.Err)
}

func (e *StatementError) Unwrap() error {
	return e.Err
}

// PgError returns the PostgreSQL error details, or nil when the failure
// did not come from the server (timeout, cancellation, broken connection).
func (e *StatementError) PgError() *pgconn.PgError {
	var pgErr *pgconn.PgError
	if stderrors.As(e.Err, &pgErr) {
		return pgErr
	}
	return nil
}

// NewStatementError creates a new StatementError
func NewStatementError(script string, index, total int, statement string, err error) *StatementError {
	return &StatementError{
		Script:    script,
		Index:     index,
		Total:     total,
		Statement: statement,
		Err:       err,
	}
}
