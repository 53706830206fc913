package runner

import (
	"time"

	"github.com/cybertec-postgresql/pgscript/internal/discovery"
	"github.com/cybertec-postgresql/pgscript/internal/splitter"
)

// ScriptPlan is a script together with its statements, ready to execute
type ScriptPlan struct {
	Script     *discovery.Script
	Statements []splitter.Statement
}

// ScriptRun represents the execution of a single script
type ScriptRun struct {
	Script    *discovery.Script
	StartTime time.Time
	EndTime   time.Time
	Status    RunStatus
	Total     int   // Statements in the script
	Executed  int   // Statements that completed successfully
	Error     error // Non-nil if the script failed
}

// RunStatus represents the current state of a script execution
type RunStatus int

const (
	ScriptPending RunStatus = iota
	ScriptRunning
	ScriptApplied
	ScriptFailed
)

// String returns a string representation of RunStatus
func (rs RunStatus) String() string {
	switch rs {
	case ScriptPending:
		return "pending"
	case ScriptRunning:
		return "running"
	case ScriptApplied:
		return "applied"
	case ScriptFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Duration returns the script execution duration
func (sr *ScriptRun) Duration() time.Duration {
	if sr.EndTime.IsZero() {
		return time.Since(sr.StartTime)
	}
	return sr.EndTime.Sub(sr.StartTime)
}

// Summary summarizes a batch of script executions
type Summary struct {
	TotalScripts       int
	AppliedScripts     int
	FailedScripts      int
	SkippedScripts     int // Never started because an earlier script failed
	TotalStatements    int
	ExecutedStatements int
	TotalDuration      time.Duration
}

// AllApplied returns true if every script was applied
func (s *Summary) AllApplied() bool {
	return s.FailedScripts == 0 && s.SkippedScripts == 0
}

// ExitCode returns the appropriate exit code based on execution results
func (s *Summary) ExitCode() int {
	if s.AllApplied() {
		return 0
	}
	return 1
}
