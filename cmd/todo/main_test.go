package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemesCmd(t *testing.T) {
	t.Parallel()

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"themes"})
	require.NoError(t, root.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "classic"))
	assert.Contains(t, lines[0], "No todos yet. Add your first one!")
}

func TestRootCmd_RejectsUnknownTheme(t *testing.T) {
	t.Setenv("TODO_THEME", "")

	root := newRootCmd()
	root.SetArgs([]string{"--config", "", "--theme", "sparkly", "--log-file", t.TempDir() + "/todo.log"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown theme")
}
