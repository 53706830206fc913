package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/cybertec-postgresql/pgscript/internal/database"
	"github.com/cybertec-postgresql/pgscript/internal/discovery"
	"github.com/cybertec-postgresql/pgscript/internal/logger"
	"github.com/cybertec-postgresql/pgscript/internal/runner"
	"github.com/cybertec-postgresql/pgscript/internal/splitter"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Apply executes the apply workflow and returns the process exit code
func Apply(ctx context.Context, config *Config, paths []string) (int, error) {
	startTime := time.Now()

	// Step 1: Discover, read and split scripts
	plans, err := LoadPlans(paths, config.Strict, SplitOptions(config)...)
	if err != nil {
		return 1, err
	}

	if len(plans) == 0 {
		fmt.Println("No SQL scripts found (*.sql)")
		return 0, nil
	}

	logger.Debug("loaded %d script(s)", len(plans))

	// Step 2: Connect to PostgreSQL
	pool, err := database.NewPool(ctx, config)
	if err != nil {
		return 1, fmt.Errorf("database connection failed: %w", err)
	}
	defer pool.Close()

	// Step 3: Pick the target database
	target := pool.Pool
	if config.DryRun {
		tempPool, err := database.CreateTempDatabase(ctx, pool)
		if err != nil {
			return 1, err
		}
		logger.Info("dry run: applying into scratch database %s", tempPool.Config().ConnConfig.Database)
		defer func() {
			cleanupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := database.DestroyTempDatabase(cleanupCtx, pool, tempPool); err != nil {
				logger.Error("failed to drop scratch database: %v", err)
			}
		}()
		target = tempPool
	}

	// Step 4: Execute every statement on one connection
	runs, execErr := execute(ctx, target, config.Timeout, plans)

	// Step 5: Display summary
	summary := runner.SummarizeRuns(runs, len(plans))

	fmt.Printf("\n")
	fmt.Printf("Scripts:    %d applied, %d failed, %d skipped, %d total\n",
		summary.AppliedScripts, summary.FailedScripts, summary.SkippedScripts, summary.TotalScripts)
	fmt.Printf("Statements: %d/%d executed\n", summary.ExecutedStatements, summary.TotalStatements)
	fmt.Printf("Time:       %v\n", time.Since(startTime).Round(time.Millisecond))

	if execErr != nil {
		return summary.ExitCode(), execErr
	}
	return summary.ExitCode(), nil
}

func execute(ctx context.Context, target *pgxpool.Pool, timeout time.Duration, plans []runner.ScriptPlan) ([]*runner.ScriptRun, error) {
	conn, err := target.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()

	executor := runner.NewExecutor(conn, timeout, os.Stdout)
	return executor.ExecuteBatch(ctx, plans)
}

// LoadPlans discovers, reads and splits the scripts under paths. With strict
// set, a script ending inside a literal or comment is rejected before any
// statement runs.
func LoadPlans(paths []string, strict bool, opts ...splitter.Option) ([]runner.ScriptPlan, error) {
	scripts, err := discovery.DiscoverAll(paths)
	if err != nil {
		return nil, fmt.Errorf("failed to discover scripts: %w", err)
	}

	pool := runner.NewWorkerPool(runtime.GOMAXPROCS(0))
	results := pool.Prepare(context.Background(), scripts, strict, opts...)

	plans := make([]runner.ScriptPlan, 0, len(results))
	for _, result := range results {
		if result.Err != nil {
			return nil, result.Err
		}
		plans = append(plans, result.Plan)
	}

	return plans, nil
}
