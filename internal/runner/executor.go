package runner

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cybertec-postgresql/pgscript/internal/discovery"
	"github.com/cybertec-postgresql/pgscript/internal/errors"
	"github.com/cybertec-postgresql/pgscript/internal/logger"
	"github.com/cybertec-postgresql/pgscript/internal/splitter"
	"github.com/jackc/pgx/v5/pgconn"
)

// Execer runs one SQL statement. *pgx.Conn, *pgxpool.Conn and *pgxpool.Pool
// satisfy it; statements must all go to the same session, so pass a single
// connection rather than a pool when scripts use session state.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Executor applies statements strictly in order on one connection
type Executor struct {
	conn     Execer
	timeout  time.Duration
	progress io.Writer
}

// NewExecutor creates a new executor. timeout bounds every statement
// (0 = no limit); progress receives one "OK i/N" line per statement.
func NewExecutor(conn Execer, timeout time.Duration, progress io.Writer) *Executor {
	if progress == nil {
		progress = io.Discard
	}
	return &Executor{
		conn:     conn,
		timeout:  timeout,
		progress: progress,
	}
}

// Execute runs the statements of one script in order and stops at the first
// failure, which is returned as *errors.StatementError. Statements are never
// retried or skipped. The returned ScriptRun is never nil.
func (e *Executor) Execute(ctx context.Context, script *discovery.Script, statements []splitter.Statement) (*ScriptRun, error) {
	run := &ScriptRun{
		Script:    script,
		StartTime: time.Now(),
		Status:    ScriptRunning,
		Total:     len(statements),
	}
	defer func() {
		run.EndTime = time.Now()
	}()

	name := ""
	if script != nil {
		name = script.Name()
	}

	for i, stmt := range statements {
		err := ctx.Err()
		if err == nil {
			logger.Debug("%s: statement %d/%d (line %d)", name, i+1, len(statements), stmt.StartLine)
			err = e.exec(ctx, stmt.Text)
		}
		if err != nil {
			run.Status = ScriptFailed
			run.Error = errors.NewStatementError(name, i+1, len(statements), stmt.Text, err)
			return run, run.Error
		}

		run.Executed++
		fmt.Fprintf(e.progress, "OK %d/%d\n", i+1, len(statements))
	}

	run.Status = ScriptApplied
	return run, nil
}

// ExecuteBatch runs scripts in order and stops at the first failed script.
// Runs for the scripts executed so far are returned along with the error.
func (e *Executor) ExecuteBatch(ctx context.Context, plans []ScriptPlan) ([]*ScriptRun, error) {
	var runs []*ScriptRun

	for _, plan := range plans {
		if plan.Script != nil {
			logger.Debug("applying %s (%d statements)", plan.Script.Name(), len(plan.Statements))
		}

		run, err := e.Execute(ctx, plan.Script, plan.Statements)
		runs = append(runs, run)
		if err != nil {
			return runs, err
		}
	}

	return runs, nil
}

func (e *Executor) exec(ctx context.Context, sql string) error {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	_, err := e.conn.Exec(ctx, sql)
	return err
}

// SummarizeRuns creates a summary of a batch; totalScripts counts scripts
// that were planned, including those never reached.
func SummarizeRuns(runs []*ScriptRun, totalScripts int) *Summary {
	summary := &Summary{
		TotalScripts: totalScripts,
	}

	for _, run := range runs {
		summary.TotalDuration += run.Duration()
		summary.TotalStatements += run.Total
		summary.ExecutedStatements += run.Executed

		switch run.Status {
		case ScriptApplied:
			summary.AppliedScripts++
		case ScriptFailed:
			summary.FailedScripts++
		}
	}

	summary.SkippedScripts = totalScripts - summary.AppliedScripts - summary.FailedScripts
	if summary.SkippedScripts < 0 {
		summary.SkippedScripts = 0
	}

	return summary
}
