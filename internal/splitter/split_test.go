package splitter

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/cybertec-postgresql/pgscript/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []string
	}{
		{
			name: "empty script",
			sql:  "",
			want: nil,
		},
		{
			name: "whitespace only",
			sql:  "  \n\t \r\n",
			want: nil,
		},
		{
			name: "only semicolons",
			sql:  ";;; ;\n;",
			want: nil,
		},
		{
			name: "no semicolon",
			sql:  "\n  SELECT 1\n",
			want: []string{"SELECT 1"},
		},
		{
			name: "multi statement",
			sql:  "SELECT 1; SELECT 2;",
			want: []string{"SELECT 1", "SELECT 2"},
		},
		{
			name: "semicolon in single quotes",
			sql:  "SELECT 'a;b';",
			want: []string{"SELECT 'a;b'"},
		},
		{
			name: "escaped quote",
			sql:  "INSERT INTO t VALUES ('a''b;c');",
			want: []string{"INSERT INTO t VALUES ('a''b;c')"},
		},
		{
			name: "semicolon in line comment",
			sql:  "SELECT 1; -- stop; now\nSELECT 2;",
			want: []string{"SELECT 1", "-- stop; now\nSELECT 2"},
		},
		{
			name: "line comment with CRLF",
			sql:  "SELECT 1; -- stop;\r\nSELECT 2",
			want: []string{"SELECT 1", "-- stop;\r\nSELECT 2"},
		},
		{
			name: "semicolon in block comment",
			sql:  "/* a; b */ SELECT 1; SELECT 2",
			want: []string{"/* a; b */ SELECT 1", "SELECT 2"},
		},
		{
			name: "semicolon in double quotes",
			sql:  `SELECT "a;b" FROM t; SELECT 2`,
			want: []string{`SELECT "a;b" FROM t`, "SELECT 2"},
		},
		{
			name: "quote inside comment",
			sql:  "-- it's fine\nSELECT 1; SELECT 2",
			want: []string{"-- it's fine\nSELECT 1", "SELECT 2"},
		},
		{
			name: "comment marker inside string",
			sql:  "SELECT '--', '/*'; SELECT 2",
			want: []string{"SELECT '--', '/*'", "SELECT 2"},
		},
		{
			name: "dollar-quoted function body",
			sql:  "CREATE FUNCTION f() RETURNS void AS $$ BEGIN RAISE NOTICE 'x;y'; END; $$ LANGUAGE plpgsql;",
			want: []string{"CREATE FUNCTION f() RETURNS void AS $$ BEGIN RAISE NOTICE 'x;y'; END; $$ LANGUAGE plpgsql"},
		},
		{
			name: "tagged dollar quote containing other tag",
			sql:  "DO $fn$ BEGIN PERFORM $$;$$; END $fn$; SELECT 1",
			want: []string{"DO $fn$ BEGIN PERFORM $$;$$; END $fn$", "SELECT 1"},
		},
		{
			name: "sequential dollar quotes with different tags",
			sql:  "SELECT $a$;$a$, $b$;$b$; SELECT 2",
			want: []string{"SELECT $a$;$a$, $b$;$b$", "SELECT 2"},
		},
		{
			name: "unicode dollar tag",
			sql:  "SELECT $тег$ a;b $тег$; SELECT 2",
			want: []string{"SELECT $тег$ a;b $тег$", "SELECT 2"},
		},
		{
			name: "information separators are trimmed",
			sql:  "\x1cSELECT 1\x1f;\x1d\x1e; SELECT 2",
			want: []string{"SELECT 1", "SELECT 2"},
		},
		{
			name: "positional parameters are not tags",
			sql:  "SELECT $1; SELECT $2",
			want: []string{"SELECT $1", "SELECT $2"},
		},
		{
			name: "unterminated string at end",
			sql:  "SELECT 1; SELECT 'oops; SELECT 2",
			want: []string{"SELECT 1", "SELECT 'oops; SELECT 2"},
		},
		{
			name: "unterminated dollar quote at end",
			sql:  "SELECT 1; DO $$ BEGIN; ",
			want: []string{"SELECT 1", "DO $$ BEGIN;"},
		},
		{
			name: "block comments do not nest by default",
			sql:  "/* outer /* inner */ SELECT 1; */ SELECT 2",
			want: []string{"/* outer /* inner */ SELECT 1", "*/ SELECT 2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(tt.sql))
		})
	}
}

func TestSplit_NoSemicolons(t *testing.T) {
	for _, sql := range []string{"SELECT 1", "  CREATE TABLE t (id int)\n", "-- just a comment"} {
		got := Split(sql)
		require.Len(t, got, 1, sql)
		assert.Equal(t, strings.TrimSpace(sql), got[0])
	}
}

func TestSplit_TopLevelSemicolons(t *testing.T) {
	for n := 0; n < 10; n++ {
		chunks := make([]string, n+1)
		for i := range chunks {
			chunks[i] = fmt.Sprintf("INSERT INTO t VALUES (%d, 'x;%d')", i, i)
		}
		got := Split(strings.Join(chunks, ";\n"))
		assert.Equal(t, chunks, got, "n=%d", n)
	}
}

func TestSplit_Idempotent(t *testing.T) {
	scripts := []string{
		"SELECT 1; -- stop; now\nSELECT 2;",
		"CREATE TABLE t (id int);\nALTER TABLE t ADD COLUMN name text;\n\n\n",
		"CREATE FUNCTION f() RETURNS void AS $$ BEGIN RAISE NOTICE 'x;y'; END; $$ LANGUAGE plpgsql;\nSELECT f();",
		"INSERT INTO t VALUES ('a''b;c'); /* done; */ SELECT \"x;\" FROM t",
	}

	for _, sql := range scripts {
		first := Split(sql)
		second := Split(strings.Join(first, ";\n") + ";")
		assert.Equal(t, first, second, sql)
	}
}

func TestSplit_Concurrent(t *testing.T) {
	sql := "CREATE TABLE a (id int); DO $$ BEGIN RAISE NOTICE ';'; END $$; SELECT 'x;y'"
	want := Split(sql)

	var wg sync.WaitGroup
	results := make([][]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Split(sql)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestSplitStatements_Positions(t *testing.T) {
	sql := "\n  SELECT 1;\n\nINSERT INTO t\nVALUES (1);  "

	stmts := SplitStatements(sql)
	require.Len(t, stmts, 2)

	assert.Equal(t, Statement{Index: 1, Text: "SELECT 1", Start: 3, End: 11, StartLine: 2, EndLine: 2}, stmts[0])

	assert.Equal(t, 2, stmts[1].Index)
	assert.Equal(t, "INSERT INTO t\nVALUES (1)", stmts[1].Text)
	assert.Equal(t, 4, stmts[1].StartLine)
	assert.Equal(t, 5, stmts[1].EndLine)

	for _, stmt := range stmts {
		assert.Equal(t, stmt.Text, sql[stmt.Start:stmt.End])
	}
}

func TestSplitStatements_NestedComments(t *testing.T) {
	sql := "/* outer /* inner */ SELECT 1; */ SELECT 2; SELECT 3"

	stmts := SplitStatements(sql, WithNestedComments())
	require.Len(t, stmts, 2)
	assert.Equal(t, "/* outer /* inner */ SELECT 1; */ SELECT 2", stmts[0].Text)
	assert.Equal(t, "SELECT 3", stmts[1].Text)
}

func TestScanner_EndState(t *testing.T) {
	tests := []struct {
		sql   string
		state State
		tag   string
	}{
		{"SELECT 1;", Normal, ""},
		{"SELECT 1 -- trailing", LineComment, ""},
		{"SELECT 1 /* open", BlockComment, ""},
		{"SELECT 'open", SingleQuoted, ""},
		{`SELECT "open`, DoubleQuoted, ""},
		{"DO $body$ BEGIN", DollarQuoted, "$body$"},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			s := NewScanner(tt.sql)
			s.All()
			assert.Equal(t, tt.state, s.State())
			assert.Equal(t, tt.tag, s.Tag())
			assert.Equal(t, len(tt.sql), s.Pos())
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		opts     []Option
		wantErr  bool
		wantLine int
		wantCtx  string
		wantTag  string
	}{
		{name: "terminated", sql: "SELECT 1; SELECT 'a;b';"},
		{name: "trailing line comment", sql: "SELECT 1;\n-- the end"},
		{name: "non nested comment closes early", sql: "/* a /* b */ SELECT 1"},
		{
			name:     "unterminated string",
			sql:      "SELECT 1;\nSELECT 'x",
			wantErr:  true,
			wantLine: 2,
			wantCtx:  "single-quoted string",
		},
		{
			name:     "unterminated dollar quote",
			sql:      "CREATE FUNCTION f() RETURNS int AS $body$\nBEGIN\n  RETURN 1;\nEND",
			wantErr:  true,
			wantLine: 1,
			wantCtx:  "dollar-quoted string",
			wantTag:  "$body$",
		},
		{
			name:     "unterminated nested comment",
			sql:      "SELECT 1;\n\n/* a /* b */ c",
			opts:     []Option{WithNestedComments()},
			wantErr:  true,
			wantLine: 3,
			wantCtx:  "block comment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate("script.sql", tt.sql, tt.opts...)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			var unterminated *errors.UnterminatedError
			require.ErrorAs(t, err, &unterminated)
			assert.Equal(t, "script.sql", unterminated.File)
			assert.Equal(t, tt.wantLine, unterminated.Line)
			assert.Equal(t, tt.wantCtx, unterminated.Context)
			assert.Equal(t, tt.wantTag, unterminated.Tag)
		})
	}
}

func TestScanDollarTag(t *testing.T) {
	tests := []struct {
		src  string
		pos  int
		tag  string
		next int
		ok   bool
	}{
		{"$$", 0, "$$", 2, true},
		{"$a_1$x", 0, "$a_1$", 5, true},
		{"x$$", 1, "$$", 3, true},
		{"$1$", 0, "$1$", 3, true},
		{"$1 ", 0, "", 0, false},
		{"$abc", 0, "", 0, false},
		{"$", 0, "", 0, false},
		{"$a-b$", 0, "", 0, false},
		{"a", 0, "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tag, next, ok := scanDollarTag(tt.src, tt.pos)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.tag, tag)
			if ok {
				assert.Equal(t, tt.next, next)
			} else {
				assert.Equal(t, tt.pos, next)
			}
		})
	}
}
