package lib

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsk(t *testing.T) {
	tests := []struct {
		in      string
		yes     bool
		reasked bool
	}{
		{"y\n", true, false},
		{"Y\n", true, false},
		{"yes\n", true, false},
		{"n\n", false, false},
		{"no\n", false, false},
		{"maybe\ny\n", true, true},
		{"\n\nn\n", false, true},
		{"", false, false},
		{"y", true, false},
	}

	for i := range tests {
		out := &bytes.Buffer{}
		a := NewAsker(strings.NewReader(tests[i].in), out, false)
		yes, err := a.Ask("Proceed?")
		require.NoError(t, err, "%d)", i)
		assert.Equal(t, tests[i].yes, yes, "%d)", i)
		assert.True(t, strings.HasPrefix(out.String(), "Proceed? [y/n] "),
			"%d)", i)
		assert.Equal(t, tests[i].reasked,
			strings.Contains(out.String(), "Please answer y or n."), "%d)", i)
	}
}

func TestAskAssumeYes(t *testing.T) {
	out := &bytes.Buffer{}
	a := NewAsker(strings.NewReader("n\n"), out, true)
	yes, err := a.Ask("Proceed?")
	require.NoError(t, err)
	assert.True(t, yes)
	assert.Equal(t, "Proceed? [y/n] y\n", out.String())
}

func TestContinue(t *testing.T) {
	a := NewAsker(strings.NewReader("y\nn\n"), &bytes.Buffer{}, false)
	assert.NoError(t, a.Continue("sorting"))

	err := a.Continue("sorting")
	var abort *AbortError
	require.True(t, errors.As(err, &abort))
	assert.Equal(t, "sorting", abort.Step)
}
