package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/amp-labs/easyapply/logger"
)

// ErrHelperFailed is returned when the helper exits non-zero.
var ErrHelperFailed = errors.New("upload helper failed")

// Command delivers a path by running an external helper, for example a script that
// focuses the native "Open" dialog and types the path into it. The path is passed as
// the last argument.
type Command struct {
	name string
	args []string
	dir  string
	env  []string
}

var _ Deliverer = (*Command)(nil)

// NewCommand creates a helper invocation. The command line is split on whitespace.
func NewCommand(commandLine string) (*Command, error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty helper command", ErrHelperFailed)
	}

	return &Command{
		name: fields[0],
		args: fields[1:],
		env:  os.Environ(),
	}, nil
}

func (c *Command) SetDir(dir string) *Command {
	c.dir = dir

	return c
}

func (c *Command) AppendEnv(key, value string) *Command {
	c.env = append(c.env, key+"="+value)

	return c
}

// Deliver runs the helper with path appended to its arguments.
func (c *Command) Deliver(ctx context.Context, path string) error {
	if path == "" {
		return ErrNoPath
	}

	cmd := exec.CommandContext(ctx, c.name, append(append([]string(nil), c.args...), path)...) //nolint:gosec // Operator-configured helper
	cmd.Dir = c.dir
	cmd.Env = c.env

	var out bytes.Buffer

	cmd.Stdout = &out
	cmd.Stderr = &out

	logger.Get(ctx).Debug("run upload helper", "cmd", strings.Join(cmd.Args, " "))

	code, err := status(cmd.Run())
	if err != nil {
		return err
	}

	if code != 0 {
		return fmt.Errorf("%w: exit status %d: %s", ErrHelperFailed, code, strings.TrimSpace(out.String()))
	}

	return nil
}

func status(err error) (int, error) {
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}

	return 1, fmt.Errorf("%w: %w", ErrHelperFailed, err)
}
