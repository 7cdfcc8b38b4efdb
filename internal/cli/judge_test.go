package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/verdict/internal/model"
)

func TestReadArg(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statement.txt")
	require.NoError(t, os.WriteFile(path, []byte("I paid in full."), 0o600))

	got, err := readArg("@" + path)
	require.NoError(t, err)
	assert.Equal(t, "I paid in full.", got)

	got, err = readArg("plain text")
	require.NoError(t, err)
	assert.Equal(t, "plain text", got)

	got, err = readArg("@")
	require.NoError(t, err)
	assert.Equal(t, "@", got)

	_, err = readArg("@" + filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestReadDispute(t *testing.T) {
	d, err := readDispute("p", "d", "")
	require.NoError(t, err)
	assert.Equal(t, model.Dispute{Plaintiff: "p", Defendant: "d"}, d)

	_, err = readDispute("p", "@/nonexistent/verdict/file", "")
	assert.ErrorContains(t, err, "defendant")
}

func TestJudgeCommand_JSON(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("VERDICT_CACHE_ENABLED", "false")

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{
		"judge",
		"--plaintiff", "I paid $500 for a laptop but never received it. I have the receipt.",
		"--defendant", "I shipped the laptop.",
		"--evidence", "Receipt confirms payment",
		"--json",
		"--log-level", "error",
	})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		printJSON = false
	})

	require.NoError(t, Execute())

	var j model.Judgment
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &j))
	assert.Equal(t, model.VerdictPlaintiff, j.Score.Winner)
	assert.Equal(t, model.ConfidenceHigh, j.Score.Confidence)
	require.NotNil(t, j.Reasoning)
	assert.Equal(t, model.PathRuleBased, j.Reasoning.Provenance.Path)
	assert.False(t, j.Reasoning.Provenance.Fallback)
}
