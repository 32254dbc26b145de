package effectors

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/voxflow/voxflow/pkg/protocol"
)

// ShellRunner executes allowlisted local commands under a hard wall-clock
// timeout. Past the timeout the process is killed, not waited on.
type ShellRunner struct {
	allowed map[string]bool
}

// NewShellRunner restricts execution to the given command names (matched on
// the basename). An empty allowlist permits nothing.
func NewShellRunner(allowedCommands []string) *ShellRunner {
	allowed := make(map[string]bool, len(allowedCommands))
	for _, command := range allowedCommands {
		allowed[filepath.Base(command)] = true
	}

	return &ShellRunner{allowed: allowed}
}

func (s *ShellRunner) Run(ctx context.Context, command string, args []string, timeout time.Duration) (string, error) {
	if !s.allowed[filepath.Base(command)] {
		return "", fmt.Errorf("command %q is not allowlisted", command)
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, command, args...)

	output, err := cmd.CombinedOutput()
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return "", fmt.Errorf("command %q killed after %s timeout", command, timeout)
	}

	if err != nil {
		return "", fmt.Errorf("command %q failed: %w: %s", command, err, strings.TrimSpace(string(output)))
	}

	return strings.TrimSpace(string(output)), nil
}

var _ protocol.ShellRunner = (*ShellRunner)(nil)
