package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/vk/beatfx/internal/app"
	"github.com/vk/beatfx/internal/version"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("beatfx", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
beatfx - apply beat effects to songs through a processing backend.

Usage:
  beatfx [options] [JOB_PATH...]

Arguments:
  JOB_PATH
    A .hcl, .yaml or .yml job file, or a directory searched recursively.

Options:
`)
		flagSet.PrintDefaults()
	}

	defaultBackend := os.Getenv("BASE_URL")
	if defaultBackend == "" {
		defaultBackend = app.DefaultBackendURL
	}

	jobFlag := flagSet.String("job", "", "Path to a job file or directory.")
	jFlag := flagSet.String("j", "", "Path to a job file or directory (shorthand).")
	backendFlag := flagSet.String("backend-url", defaultBackend, "Base URL of the processing backend. Defaults to $BASE_URL.")
	apiAddrFlag := flagSet.String("api-addr", "", "Address for the effect catalog API, e.g. ':8080'. Empty disables it.")
	listFlag := flagSet.Bool("list-effects", false, "Print the effect catalog.")
	versionFlag := flagSet.Bool("version", false, "Print the version and exit.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	workersFlag := flagSet.Int("workers", 4, "Number of jobs processed concurrently.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if *versionFlag {
		fmt.Fprintln(output, "beatfx", version.String())
		return nil, true, nil
	}

	var paths []string
	if *jobFlag != "" {
		paths = append(paths, *jobFlag)
	}
	if *jFlag != "" {
		paths = append(paths, *jFlag)
	}
	paths = append(paths, flagSet.Args()...)
	slog.Debug("Job paths determined.", "paths", paths)

	if len(paths) == 0 && *apiAddrFlag == "" && !*listFlag {
		slog.Debug("Nothing to do, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		JobPaths:    paths,
		BackendURL:  *backendFlag,
		APIAddr:     *apiAddrFlag,
		ListEffects: *listFlag,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
		WorkerCount: *workersFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
