package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/code-editor/internal/executor"
	"github.com/sakif/code-editor/internal/service"
)

func TestPrintResult(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	printResult(&buf, &executor.ExecutionResult{
		Events: []executor.OutputEvent{
			{Kind: executor.KindLog, Text: "1"},
			{Kind: executor.KindError, Text: "boom"},
		},
		ElapsedMs: 1.234,
	})

	assert.Equal(t, "1\nError: boom\nExecution time: 1.23ms\n", buf.String())
}

func TestPrintAdvice(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	printAdvice(&buf, &service.Advice{Title: "Code Explanation", Text: "It adds."})
	assert.Equal(t, "Code Explanation\n\nIt adds.\n", buf.String())
}

// execute runs the CLI in an empty directory with the given args and stdin.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	color.NoColor = true

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)

	err := root.Execute()
	return out.String(), err
}

func TestRunCommand_NoBackend(t *testing.T) {
	out, err := execute(t, "console.log(1)", "run", "--backend", "none")
	require.NoError(t, err)
	assert.Contains(t, out, "Error: Code execution is currently unavailable.")
}

func TestRunCommand_UnsupportedLanguage(t *testing.T) {
	out, err := execute(t, "print(1)", "run", "--backend", "none", "--language", "python")
	require.NoError(t, err)
	assert.Contains(t, out, "Error: Language 'python' execution is not supported in this demo.")
	assert.Contains(t, out, "Execution time: 0.00ms")
}

func TestRunCommand_MissingFile(t *testing.T) {
	_, err := execute(t, "", "run", "--backend", "none", "nope.js")
	assert.Error(t, err)
}

func TestAdviseCommand(t *testing.T) {
	t.Setenv("ADVISOR_DELAY", "0s")
	dir := t.TempDir()
	file := filepath.Join(dir, "fib.js")
	require.NoError(t, os.WriteFile(file, []byte("function fibonacci(n) {}"), 0o600))

	out, err := execute(t, "", "advise", "explain", file)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Code Explanation\n"))
}

func TestAdviseCommand_UnknownAction(t *testing.T) {
	t.Setenv("ADVISOR_DELAY", "0s")

	out, err := execute(t, "", "advise", "dance", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "AI Response")
}

func TestRootCommand_InvalidBackend(t *testing.T) {
	_, err := execute(t, "", "run", "--backend", "firecracker")
	assert.Error(t, err)
}
