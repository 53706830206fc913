package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestStatementError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *StatementError
		want string
	}{
		{
			name: "postgres error",
			err:  NewStatementError("005_admin_config.sql", 3, 7, "ALTER TABLE x", &pgconn.PgError{Code: "42P01", Message: `relation "x" does not exist`}),
			want: `005_admin_config.sql: statement 3/7 failed: [42P01] relation "x" does not exist`,
		},
		{
			name: "wrapped postgres error",
			err:  NewStatementError("", 1, 1, "SELECT", fmt.Errorf("exec: %w", &pgconn.PgError{Code: "42601", Message: "syntax error"})),
			want: "statement 1/1 failed: [42601] syntax error",
		},
		{
			name: "non postgres error",
			err:  NewStatementError("a.sql", 2, 2, "SELECT pg_sleep(10)", context.DeadlineExceeded),
			want: "a.sql: statement 2/2 failed: context deadline exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatementError_Unwrap(t *testing.T) {
	err := NewStatementError("a.sql", 1, 1, "SELECT 1", context.Canceled)
	if !stderrors.Is(err, context.Canceled) {
		t.Error("expected errors.Is to find context.Canceled")
	}
	if err.PgError() != nil {
		t.Error("expected no PgError for a context error")
	}
}

func TestUnterminatedError_Error(t *testing.T) {
	err := NewUnterminatedError("fn.sql", 4, "dollar-quoted string", "$body$")
	if got, want := err.Error(), "fn.sql:4: unterminated dollar-quoted string $body$"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err = NewUnterminatedError("", 1, "single-quoted string", "")
	if got, want := err.Error(), "line 1: unterminated single-quoted string"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestConnectionError_Error(t *testing.T) {
	err := &ConnectionError{Message: "failed to create connection pool", Suggestion: "Check the host"}
	if !strings.Contains(err.Error(), "Suggestion: Check the host") {
		t.Errorf("expected suggestion in %q", err.Error())
	}
}
