package cmd

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"iter"
	"os/exec"
	"strings"
)

type SubprocessErr struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (err SubprocessErr) Error() string {
	if err.Stderr != "" {
		return fmt.Sprintf(
			"Git subprocess exited with code %d. Error output:\n%s",
			err.ExitCode,
			err.Stderr,
		)
	}

	return fmt.Sprintf("Git subprocess exited with code %d", err.ExitCode)
}

func (err SubprocessErr) Unwrap() error {
	return err.Err
}

type Subprocess struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr *bytes.Buffer
}

// Returns a single-use iterator over the output from git log -z.
//
// Lines are split on NULLs with some additional processing.
func (s Subprocess) StdoutNullDelimitedLines() (
	iter.Seq[string],
	func() error,
) {
	var iterErr error

	seq := func(yield func(string) bool) {
		scanner := bufio.NewScanner(s.stdout)

		scanner.Split(func(data []byte, atEOF bool) (int, []byte, error) {
			null_i := bytes.IndexByte(data, '\x00')

			if null_i >= 0 {
				return null_i + 1, data[:null_i], nil
			}

			if atEOF {
				if len(data) == 0 {
					return 0, nil, nil
				}

				return 0, data, bufio.ErrFinalToken
			}

			return 0, nil, nil // Scan more
		})

		for scanner.Scan() {
			line := strings.TrimPrefix(scanner.Text(), "\n")
			if !yield(line) {
				return
			}
		}

		iterErr = scanner.Err()
	}

	finish := func() error {
		if iterErr != nil {
			iterErr = fmt.Errorf("error while scanning: %w", iterErr)
		}

		return iterErr
	}

	return seq, finish
}

func (s Subprocess) Wait() error {
	logger().Debug("waiting for subprocess...")

	// Drain whatever the caller did not read so the process can exit
	_, err := io.Copy(io.Discard, s.stdout)
	if err != nil {
		return fmt.Errorf("could not drain stdout: %w", err)
	}

	err = s.cmd.Wait()
	logger().WithField("code", s.cmd.ProcessState.ExitCode()).Debug(
		"subprocess exited",
	)

	if err != nil {
		return SubprocessErr{
			ExitCode: s.cmd.ProcessState.ExitCode(),
			Stderr:   strings.TrimSpace(s.stderr.String()),
			Err:      err,
		}
	}

	return nil
}

// Starts git with the given args. If dir is not empty, git runs there.
func run(ctx context.Context, dir string, args []string) (*Subprocess, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	// Never stop to ask for credentials; fail instead
	cmd.Env = append(cmd.Environ(), "GIT_TERMINAL_PROMPT=0")

	logger().WithField("cmd", cmd.String()).Debug("running subprocess")

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdout pipe: %w", err)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err = cmd.Start()
	if err != nil {
		return nil, fmt.Errorf("failed to start subprocess: %w", err)
	}

	return &Subprocess{
		cmd:    cmd,
		stdout: stdout,
		stderr: &stderr,
	}, nil
}
