package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/framequiz/internal/llm"
	"github.com/abhisek/framequiz/internal/store"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "framequiz "))
}

func TestLLMList_ReadsRequestLog(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FRAMEQUIZ_LLM_PROVIDER", "mock")
	dbPath := filepath.Join(t.TempDir(), "events.db")

	s, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.EventRepo().AppendLLMRequest(context.Background(), store.LLMRequestEventData{
		Provider: llm.BackendMock, Model: "mock", Purpose: "quiz-question", Success: true,
	}))
	require.NoError(t, s.EventRepo().AppendLLMRequest(context.Background(), store.LLMRequestEventData{
		Provider: llm.BackendMock, Model: "mock", Purpose: "quiz-question", ErrorKind: "timeout",
		ErrorMessage: "context deadline exceeded",
	}))
	require.NoError(t, s.Close())

	out, err := run(t, "llm", "list", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "quiz-question")
	assert.Contains(t, out, "failed (timeout)")

	out, err = run(t, "llm", "stats", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "CALLS")
	assert.Contains(t, out, "no pricing for mock")

	out, err = run(t, "llm", "view", "1", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "--- request ---")
	assert.Contains(t, out, "(not captured)")

	_, err = run(t, "llm", "view", "99", "--db", dbPath)
	require.Error(t, err)
}

func TestAsk_RejectsBadNumber(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FRAMEQUIZ_LLM_PROVIDER", "mock")

	_, err := run(t, "ask", "twelve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid question number")
}

func TestAsk_AcceptsCoercedNumbers(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FRAMEQUIZ_LLM_PROVIDER", "mock")

	for _, arg := range []string{"0x1F", "1e3", "4.0"} {
		_, err := run(t, "ask", arg)
		// The empty mock fails every attempt, so parsing got past the id.
		require.Error(t, err)
		assert.NotContains(t, err.Error(), "invalid question number")
		assert.Contains(t, err.Error(), "error prompting ai")
	}
}
