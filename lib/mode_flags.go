package lib

import (
	"fmt"
	"strings"
)

// Mode is the command that snpost was asked to run.
type Mode int
const (
	HelpMode Mode = iota
	CheckMode
	PreprocessMode
	SubmitMode
	PostprocessMode
	MergeMode
	CleanupMode
	QueryMode
	StatsMode
)

var modeNames = []string{
	"help", "check", "preprocess", "submit", "postprocess", "merge",
	"cleanup", "query", "stats",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode returns the Mode with the given name.
func ParseMode(name string) (Mode, error) {
	for i := range modeNames {
		if modeNames[i] == name {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("You attempted to run snpost in the mode '%s', "+
		"but the only valid modes are %s.", name,
		strings.Join(quoted(modeNames), ", "))
}

func quoted(names []string) []string {
	out := make([]string, len(names))
	for i := range names {
		out[i] = "'" + names[i] + "'"
	}
	return out
}

// CheckStrictness indicates how functions related to the "check" snpost mode
// should behave when it encounters an error.
type CheckStrictness int
const (
	CrashOnError CheckStrictness = iota
	WarnOnError
)
