package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cybertec-postgresql/pgscript/internal/cli"
	"github.com/cybertec-postgresql/pgscript/internal/logger"
	urfavecli "github.com/urfave/cli/v3"
)

const version = "1.0.0"

func main() {
	app := &urfavecli.Command{
		Name:    "pgscript",
		Usage:   "Split PostgreSQL scripts into statements and apply them",
		Version: version,
		Commands: []*urfavecli.Command{
			{
				Name:      "apply",
				Usage:     "Apply SQL scripts statement by statement",
				ArgsUsage: "[paths...]",
				Action:    applyCommand,
				Flags: []urfavecli.Flag{
					&urfavecli.StringFlag{
						Name:    "connection",
						Aliases: []string{"c"},
						Usage:   "PostgreSQL connection string (URI or key=value format). Falls back to DATABASE_URL and the env file.",
					},
					&urfavecli.StringFlag{
						Name:  "env-file",
						Usage: "Env file consulted when DATABASE_URL is not set (default .env.local)",
					},
					&urfavecli.StringFlag{
						Name:  "config",
						Usage: "YAML config file",
					},
					&urfavecli.DurationFlag{
						Name:  "timeout",
						Usage: "Per-statement timeout (0 = none)",
					},
					&urfavecli.BoolFlag{
						Name:  "strict",
						Usage: "Refuse scripts that end inside a literal or comment",
					},
					&urfavecli.BoolFlag{
						Name:  "nested-comments",
						Usage: "Treat /* */ comments as nesting",
					},
					&urfavecli.BoolFlag{
						Name:  "dry-run",
						Usage: "Apply into a temporary database that is dropped afterwards",
					},
					&urfavecli.BoolFlag{
						Name:  "verbose",
						Usage: "Enable debug output",
					},
				},
			},
			{
				Name:      "split",
				Usage:     "Print the statements of a script",
				ArgsUsage: "<path>",
				Action:    splitCommand,
				Flags: []urfavecli.Flag{
					&urfavecli.StringFlag{
						Name:  "format",
						Usage: "Output format (text or json)",
						Value: "text",
					},
					&urfavecli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (use - for stdout)",
						Value:   "-",
					},
					&urfavecli.BoolFlag{
						Name:  "nested-comments",
						Usage: "Treat /* */ comments as nesting",
					},
				},
			},
			{
				Name:      "check",
				Usage:     "Report scripts that end inside a literal or comment",
				ArgsUsage: "[paths...]",
				Action:    checkCommand,
				Flags: []urfavecli.Flag{
					&urfavecli.BoolFlag{
						Name:  "nested-comments",
						Usage: "Treat /* */ comments as nesting",
					},
				},
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// applyCommand handles the 'pgscript apply' command
func applyCommand(ctx context.Context, cmd *urfavecli.Command) error {
	config := cli.NewConfig()

	if path := cmd.String("config"); path != "" {
		if err := cli.LoadConfigFile(config, path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
	}

	cli.ApplyFlagsToConfig(config,
		cmd.String("connection"),
		cmd.String("env-file"),
		cmd.Duration("timeout"),
		cmd.Bool("strict"),
		cmd.Bool("nested-comments"),
		cmd.Bool("dry-run"),
		cmd.Bool("verbose"),
	)
	logger.SetVerbose(config.Verbose)

	if err := cli.ResolveConnection(config, os.LookupEnv); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if err := config.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	exitCode, err := cli.Apply(ctx, config, searchPaths(cmd))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	if exitCode != 0 {
		os.Exit(exitCode)
	}
	return nil
}

// splitCommand handles the 'pgscript split' command
func splitCommand(ctx context.Context, cmd *urfavecli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("split requires a script path")
	}

	config := cli.NewConfig()
	config.NestedComments = cmd.Bool("nested-comments")

	return cli.Split(path, cmd.String("format"), cmd.String("output"), cli.SplitOptions(config)...)
}

// checkCommand handles the 'pgscript check' command
func checkCommand(ctx context.Context, cmd *urfavecli.Command) error {
	config := cli.NewConfig()
	config.NestedComments = cmd.Bool("nested-comments")

	exitCode, err := cli.Check(searchPaths(cmd), os.Stdout, cli.SplitOptions(config)...)
	if err != nil {
		return err
	}
	if exitCode != 0 {
		os.Exit(exitCode)
	}
	return nil
}

// searchPaths returns the positional arguments, defaulting to the current directory
func searchPaths(cmd *urfavecli.Command) []string {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return []string{"."}
	}
	return paths
}
