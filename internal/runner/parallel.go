package runner

import (
	"context"
	"sync"

	"github.com/cybertec-postgresql/pgscript/internal/discovery"
	"github.com/cybertec-postgresql/pgscript/internal/logger"
	"github.com/cybertec-postgresql/pgscript/internal/splitter"
)

// Prepared is the outcome of reading, validating and splitting one script
type Prepared struct {
	Plan ScriptPlan
	Err  error // read failure, *errors.UnterminatedError or context error
}

// WorkerPool reads and splits scripts concurrently. Statements are still
// executed sequentially by Executor; only the preparation fans out.
type WorkerPool struct {
	maxWorkers int
}

// NewWorkerPool creates a new worker pool with at most maxWorkers goroutines
func NewWorkerPool(maxWorkers int) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &WorkerPool{maxWorkers: maxWorkers}
}

// Prepare reads and splits every script. With validate set, scripts ending
// inside a literal, quoted identifier, block comment or dollar-quoted body
// get an *errors.UnterminatedError. Results are in the order of scripts.
func (wp *WorkerPool) Prepare(ctx context.Context, scripts []discovery.Script, validate bool, opts ...splitter.Option) []Prepared {
	results := make([]Prepared, len(scripts))
	if len(scripts) == 0 {
		return results
	}

	workers := min(wp.maxWorkers, len(scripts))
	jobs := make(chan int, len(scripts))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = prepare(ctx, &scripts[idx], validate, opts)
			}
		}()
	}

	for i := range scripts {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

func prepare(ctx context.Context, script *discovery.Script, validate bool, opts []splitter.Option) Prepared {
	result := Prepared{Plan: ScriptPlan{Script: script}}

	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	sql, err := script.Read()
	if err != nil {
		result.Err = err
		return result
	}

	if validate {
		if err := splitter.Validate(script.Name(), sql, opts...); err != nil {
			result.Err = err
			return result
		}
	}

	result.Plan.Statements = splitter.SplitStatements(sql, opts...)
	logger.Debug("%s: %d statement(s)", script.Name(), len(result.Plan.Statements))
	return result
}
