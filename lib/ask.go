package lib

/* ask.go contains functions for asking the user for permission before doing
something expensive, like spending cluster time. */

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Asker asks yes/no questions.
type Asker struct {
	In  *bufio.Reader
	Out io.Writer
	// AssumeYes answers every question with yes without reading In.
	AssumeYes bool
}

// NewAsker returns an Asker which reads answers from in and writes
// questions to out.
func NewAsker(in io.Reader, out io.Writer, assumeYes bool) *Asker {
	return &Asker{bufio.NewReader(in), out, assumeYes}
}

// Ask prints the question and waits for a y or n answer, asking again after
// anything else. An unanswered question (EOF) is a no.
func (a *Asker) Ask(question string) (bool, error) {
	if a.AssumeYes {
		fmt.Fprintf(a.Out, "%s [y/n] y\n", question)
		return true, nil
	}

	for {
		fmt.Fprintf(a.Out, "%s [y/n] ", question)
		line, err := a.In.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}

		if err == io.EOF {
			fmt.Fprintln(a.Out)
			return false, nil
		} else if err != nil {
			return false, err
		}
		fmt.Fprintln(a.Out, "Please answer y or n.")
	}
}

// Continue asks whether to continue after step and returns an *AbortError
// if the answer is no.
func (a *Asker) Continue(step string) error {
	ok, err := a.Ask("Continue program execution?")
	if err != nil {
		return err
	} else if !ok {
		return &AbortError{step}
	}
	return nil
}
