// Package runner invokes local language interpreters to execute submitted
// code. It is a collaborator of the sync engine, not part of it: the captured
// output is just one more payload broadcast through the room.
//
// Running untrusted code through a bare subprocess is only acceptable behind
// a sandboxed deployment; the container boundary is assumed to be that
// sandbox here.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"
)

// Result carries the captured stdout and stderr of one execution.
type Result struct {
	Output string `json:"output"`
	Error  string `json:"error,omitempty"`
}

// Runner shells out to the configured interpreter binaries.
type Runner struct {
	pythonBin string
	nodeBin   string
	timeout   time.Duration
}

func New(pythonBin, nodeBin string, timeout time.Duration) *Runner {
	return &Runner{pythonBin: pythonBin, nodeBin: nodeBin, timeout: timeout}
}

// Run executes code for the given language tag and captures its output.
// Unsupported languages return a Result describing that, not an error: a
// failed run is a normal payload for the room.
func (r *Runner) Run(ctx context.Context, code, language string) Result {
	switch language {
	case "python":
		return r.exec(ctx, r.pythonBin, "-c", code)
	case "javascript":
		res := r.exec(ctx, r.nodeBin, "-e", code)
		if res.Output == "" && res.Error != "" {
			res.Error += "\nMake sure Node.js is installed."
		}
		return res
	default:
		return Result{Error: fmt.Sprintf("Execution for %s not supported on server yet.", language)}
	}
}

func (r *Runner) exec(ctx context.Context, bin string, args ...string) Result {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	res := Result{Output: stdout.String(), Error: stderr.String()}
	if ctx.Err() == context.DeadlineExceeded {
		res.Error = "execution timed out"
		return res
	}
	if err != nil && res.Error == "" {
		res.Error = err.Error()
	}
	return res
}
