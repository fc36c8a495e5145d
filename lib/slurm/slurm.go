/*package slurm writes sbatch scripts, submits them to a SLURM cluster, and
cleans up the files that the resulting jobs leave behind.
*/
package slurm

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"
)

//go:embed script.tmpl
var templates embed.FS

var scriptTemplate = template.Must(template.ParseFS(templates, "script.tmpl"))

// OverwriteSignal is printed to stderr by the query driver when it refuses to
// overwrite an existing query. Error files containing it are deleted by
// Cleanup.
const OverwriteSignal = "!!! OVERWRITE FAILURE IN RUN_QUERY, " +
	"BURN_QUERY WAS NOT RUN !!!"

// Script is a single-task sbatch script.
type Script struct {
	// Partition is omitted from the script if empty.
	Partition string
	Cores     int
	// Walltime has the form D-HH:MM.
	Walltime string
	// Stdout and Stderr may contain sbatch patterns like %j.
	Stdout, Stderr string
	// The mail options are omitted if MailUser is empty.
	MailType, MailUser string
	Commands           []string
}

var walltimePattern = regexp.MustCompile(`^[0-9]+-[0-9]{2}:[0-9]{2}$`)

// Validate returns an error if the Script can't be submitted.
func (s *Script) Validate() error {
	if s.Cores < 1 {
		return fmt.Errorf("sbatch script requests %d cores.", s.Cores)
	} else if !walltimePattern.MatchString(s.Walltime) {
		return fmt.Errorf("sbatch walltime '%s' isn't of the form D-HH:MM.",
			s.Walltime)
	} else if s.Stdout == "" || s.Stderr == "" {
		return fmt.Errorf("sbatch script doesn't set both stdout and stderr.")
	} else if len(s.Commands) == 0 {
		return fmt.Errorf("sbatch script has no commands.")
	}
	return nil
}

// Write writes the text of the script to w.
func (s *Script) Write(w io.Writer) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return scriptTemplate.Execute(w, s)
}

// WriteFile writes the script to an executable file.
func (s *Script) WriteFile(fname string) error {
	buf := &bytes.Buffer{}
	if err := s.Write(buf); err != nil {
		return fmt.Errorf("Could not write %s: %s", fname, err.Error())
	}
	return os.WriteFile(fname, buf.Bytes(), 0755)
}

// Submitter submits scripts to a scheduler and returns the job ID.
type Submitter interface {
	Submit(fname string) (string, error)
}

// Type assertions
var (
	_ Submitter = &Sbatch{}
)

// Sbatch submits scripts by running the sbatch executable.
type Sbatch struct {
	// Command is the sbatch executable, "sbatch" if empty.
	Command string
	// Stdout receives the output of each sbatch call. May be nil.
	Stdout io.Writer
}

// Submit runs sbatch on fname.
func (sb *Sbatch) Submit(fname string) (string, error) {
	command := sb.Command
	if command == "" {
		command = "sbatch"
	}

	out, err := exec.Command(command, fname).CombinedOutput()
	if sb.Stdout != nil {
		sb.Stdout.Write(out)
	}
	if err != nil {
		return "", fmt.Errorf("'%s %s' failed: %s %s", command, fname,
			err.Error(), strings.TrimSpace(string(out)))
	}
	return ParseJobID(string(out))
}

var jobIDPattern = regexp.MustCompile(`Submitted batch job ([0-9]+)`)

// ParseJobID finds the job ID in the output of sbatch, which looks like
// "Submitted batch job 49229449".
func ParseJobID(out string) (string, error) {
	match := jobIDPattern.FindStringSubmatch(out)
	if match == nil {
		return "", fmt.Errorf("Could not find a job ID in the sbatch "+
			"output '%s'.", strings.TrimSpace(out))
	}
	return match[1], nil
}

// Cleanup deletes the empty slurm.*.*.out and slurm.*.*.err files in dir,
// along with any slurm.*.*.err files which contain OverwriteSignal. It
// returns the deleted files.
func Cleanup(dir string) ([]string, error) {
	removed := []string{}
	for _, ext := range []string{"out", "err"} {
		files, err := filepath.Glob(filepath.Join(dir, "slurm.*.*."+ext))
		if err != nil {
			return removed, err
		}

		for _, fname := range files {
			remove, err := shouldRemove(fname, ext == "err")
			if err != nil {
				return removed, err
			}
			if !remove {
				continue
			}
			if err := os.Remove(fname); err != nil {
				return removed, err
			}
			removed = append(removed, fname)
		}
	}
	return removed, nil
}

func shouldRemove(fname string, checkSignal bool) (bool, error) {
	info, err := os.Stat(fname)
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return true, nil
	}
	if !checkSignal {
		return false, nil
	}

	text, err := os.ReadFile(fname)
	if err != nil {
		return false, err
	}
	return bytes.Contains(text, []byte(OverwriteSignal)), nil
}
