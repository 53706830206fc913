package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/cybertec-postgresql/pgscript/internal/discovery"
	"github.com/cybertec-postgresql/pgscript/internal/errors"
	"github.com/cybertec-postgresql/pgscript/internal/logger"
	"github.com/cybertec-postgresql/pgscript/internal/report"
	"github.com/cybertec-postgresql/pgscript/internal/runner"
	"github.com/cybertec-postgresql/pgscript/internal/splitter"
)

// Split prints the statements of a single script in the given format
func Split(path string, format string, outputPath string, opts ...splitter.Option) error {
	// Step 1: Validate format
	if !report.ValidFormat(format) {
		return fmt.Errorf("unsupported format: %s (supported: %v)", format, report.SupportedFormats())
	}

	// Step 2: Read script
	scripts, err := discovery.Discover(path)
	if err != nil {
		return err
	}
	if len(scripts) != 1 {
		return fmt.Errorf("split expects a single script file, %s holds %d", path, len(scripts))
	}
	sql, err := scripts[0].Read()
	if err != nil {
		return err
	}

	doc := &report.Document{
		Source:     scripts[0].Name(),
		Statements: splitter.SplitStatements(sql, opts...),
	}

	// Step 3: Format and output
	var writer io.Writer = os.Stdout
	if outputPath != "-" && outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		writer = file
	}

	if err := report.FormatToWriter(doc, report.FormatType(format), writer); err != nil {
		return fmt.Errorf("failed to format statements: %w", err)
	}

	// Print to stderr so it doesn't interfere with stdout output
	if outputPath != "-" && outputPath != "" {
		fmt.Fprintf(os.Stderr, "%d statement(s) written to %s\n", len(doc.Statements), outputPath)
	}

	return nil
}

// Check verifies that every script ends outside any literal, quoted
// identifier, block comment or dollar-quoted body. It reports each problem
// and returns exit code 1 if any script is unterminated.
func Check(paths []string, out io.Writer, opts ...splitter.Option) (int, error) {
	scripts, err := discovery.DiscoverAll(paths)
	if err != nil {
		return 1, fmt.Errorf("failed to discover scripts: %w", err)
	}

	pool := runner.NewWorkerPool(runtime.GOMAXPROCS(0))
	results := pool.Prepare(context.Background(), scripts, true, opts...)

	failed := 0
	for _, result := range results {
		name := result.Plan.Script.Name()

		var unterminated *errors.UnterminatedError
		if stderrors.As(result.Err, &unterminated) {
			fmt.Fprintf(out, "FAIL %v\n", unterminated)
			failed++
			continue
		}
		if result.Err != nil {
			return 1, result.Err
		}

		logger.Debug("%s: ok", name)
		fmt.Fprintf(out, "ok   %s (%d statements)\n", name, len(result.Plan.Statements))
	}

	if failed > 0 {
		return 1, nil
	}
	return 0, nil
}
