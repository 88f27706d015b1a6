package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd_Output(t *testing.T) {
	cmd := newVersionCmd()

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "cobfus version")
	assert.Contains(t, output, "go version")
	assert.Contains(t, output, "compiler\t gcc")
	assert.Contains(t, output, "levels\t\t 0, 5, 10")
}

func TestAvailableLevels(t *testing.T) {
	assert.Equal(t, "0, 5, 10", availableLevels())
}
