package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sinclairtarget/git-authors/internal/git"
	"github.com/sinclairtarget/git-authors/internal/pretty"
	"github.com/sinclairtarget/git-authors/internal/subcommands"
)

var Commit = "unknown"
var Version = "unknown"

type rootFlags struct {
	branch   string
	provider string
	verbose  bool
	noColor  bool
}

// What the commands read from and write to outside the process.
type env struct {
	newProvider func(name string, progress io.Writer) (git.Provider, error)
	stdout      io.Writer
	stderr      io.Writer
	now         func() time.Time
}

func defaultEnv() env {
	return env{
		newProvider: git.NewProvider,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		now:         time.Now,
	}
}

// Main builds the command tree, runs it, and exits with the code exitCode()
// picks for the error.
func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)

	rootCmd := newRootCmd(defaultEnv())
	err := rootCmd.ExecuteContext(ctx)
	stop()

	code, msg := exitCode(err)
	if msg != "" {
		fmt.Fprintf(os.Stderr, "%s\n", msg)
	}

	if code != 0 {
		os.Exit(code)
	}
}

// Maps the error a command returned to an exit code and a message for stderr.
//
// A missing branch has already been reported on stdout, so it gets no message.
func exitCode(err error) (int, string) {
	if err == nil {
		return 0, ""
	}

	if errors.Is(err, git.ErrBranchNotFound) {
		return 1, ""
	}

	return 1, err.Error()
}

// -v- Command definitions -----------------------------------------------------

func newRootCmd(e env) *cobra.Command {
	var flags rootFlags
	var sinceMonths int

	rootCmd := &cobra.Command{
		Use:     "git-authors [flags] <url>",
		Short:   "Ranks the recent commit authors of a remote repository",
		Long:    "git-authors clones a repository and tallies commits by author on one branch",
		Version: fmt.Sprintf("%s %s", Version, Commit),
		Args:    cobra.ExactArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(e.stderr, flags.verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if sinceMonths < 0 {
				return errors.New("--since-months must be zero or a positive integer")
			}

			provider, err := newProvider(e, flags)
			if err != nil {
				return err
			}

			return subcommands.Authors(cmd.Context(), subcommands.AuthorsOpts{
				URL:         args[0],
				Branch:      flags.branch,
				SinceMonths: sinceMonths,
				Provider:    provider,
				Out:         newPrinter(e.stdout, flags.noColor),
				Now:         e.now(),
			})
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetOut(e.stdout)
	rootCmd.SetErr(e.stderr)
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	addSharedFlags(rootCmd.PersistentFlags(), &flags)

	rootCmd.Flags().IntVar(
		&sinceMonths,
		"since-months",
		6,
		"Only count commits from the last N calendar months",
	)

	rootCmd.AddCommand(parseCmd(e, &flags))

	return rootCmd
}

func parseCmd(e env, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:    "parse [flags] <url>",
		Short:  "Print every commit on the branch as parsed",
		Hidden: true,
		Args:   cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := newProvider(e, *flags)
			if err != nil {
				return err
			}

			return subcommands.Parse(cmd.Context(), subcommands.ParseOpts{
				URL:      args[0],
				Branch:   flags.branch,
				Provider: provider,
				Out:      newPrinter(e.stdout, flags.noColor),
			})
		},
	}
}

// -^---------------------------------------------------------------------------

func configureLogging(out io.Writer, verbose bool) {
	logrus.SetOutput(out)
	logrus.SetFormatter(&logrus.TextFormatter{})

	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
		logger().Debug("log level set to DEBUG")
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}

// Flags understood by every command.
func addSharedFlags(set *pflag.FlagSet, flags *rootFlags) {
	set.StringVar(&flags.branch, "branch", "main", "Branch to analyze")
	set.StringVar(
		&flags.provider,
		"provider",
		git.GoGitProviderName,
		fmt.Sprintf(
			"How to clone and read history (%s or %s)",
			git.GoGitProviderName,
			git.ExecProviderName,
		),
	)
	set.BoolVarP(&flags.verbose, "verbose", "v", false, "Enables debug logging")
	set.BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
}

// Clone progress goes to stderr only with -v.
func newProvider(e env, flags rootFlags) (git.Provider, error) {
	var progress io.Writer
	if flags.verbose {
		progress = e.stderr
	}

	return e.newProvider(flags.provider, progress)
}

func newPrinter(out io.Writer, noColor bool) *pretty.Printer {
	useColor := false
	if f, ok := out.(*os.File); ok {
		useColor = !noColor && pretty.AllowDynamic(f)
	}

	return pretty.NewPrinter(out, useColor)
}
