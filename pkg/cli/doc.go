/*
Package cli provides command-line utilities shared by the prism command.

The package includes output formatters, exit-code mapping, and signal
handling used by every subcommand.

Output Formatting:

Commands support text (default) and JSON output:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Exit Codes:

Errors map to process exit codes through ExitCode. Commands wrap failures
in the package's typed errors so main can translate uniformly:

	err := run()
	os.Exit(cli.ExitCode(err))

0 means success, 1 a runtime failure, 2 a usage error, 3 an invalid
configuration, and 4 an unavailable adapter.

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
	// Use ctx for operations that should be cancelled on shutdown
*/
package cli
