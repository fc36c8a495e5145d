package lib

import (
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Runner runs external commands.
type Runner interface {
	Run(name string, args ...string) error
}

// Type assertions
var (
	_ Runner = &ExecRunner{}
)

// ExecRunner runs commands as subprocesses, printing each command before it
// runs it.
type ExecRunner struct {
	Stdout, Stderr io.Writer
}

// Run runs the command and waits for it to finish.
func (r *ExecRunner) Run(name string, args ...string) error {
	fmt.Fprintln(r.Stdout, ">> "+strings.Join(append([]string{name}, args...), " "))

	cmd := exec.Command(name, args...)
	cmd.Stdout, cmd.Stderr = r.Stdout, r.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("'%s' failed: %s", name, err.Error())
	}
	return nil
}
