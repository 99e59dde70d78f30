package system

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rook-computer/minihost/internal/logging"
)

type Runner interface {
	Run(ctx context.Context, cmd string, args ...string) (stdout, stderr string, err error)
}

type NoopRunner struct{}

func (NoopRunner) Run(ctx context.Context, cmd string, args ...string) (string, string, error) {
	return "", "", nil
}

// ShellRunner executes commands via sudo and uses PATH to resolve scripts.
// It returns stdout, stderr, and an error if the command exits non-zero.
type ShellRunner struct {
	Logger logging.Logger
}

func (r ShellRunner) Run(ctx context.Context, cmd string, args ...string) (string, string, error) {
	fullArgs := append([]string{cmd}, args...)
	c := exec.CommandContext(ctx, "sudo", fullArgs...)
	var outBuf, errBuf bytes.Buffer
	c.Stdout = &outBuf
	c.Stderr = &errBuf
	err := c.Run()
	if err != nil {
		if r.Logger != nil {
			r.Logger.Errorf("system", "%s failed: %v: %s", cmd, err, strings.TrimSpace(errBuf.String()))
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			return outBuf.String(), errBuf.String(), fmt.Errorf("exit %d: %w", exitErr.ExitCode(), err)
		}
		return outBuf.String(), errBuf.String(), err
	}
	if r.Logger != nil {
		r.Logger.Infof("system", "%s ok", cmd)
	}
	return outBuf.String(), errBuf.String(), nil
}
