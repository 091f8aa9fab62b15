package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/health"
)

type workspace struct {
	corpus  string
	output  string
	lexicon string
}

func newWorkspace(t *testing.T, lexicon string) workspace {
	t.Helper()
	root := t.TempDir()
	ws := workspace{
		corpus:  filepath.Join(root, "corpus"),
		output:  filepath.Join(root, "out"),
		lexicon: filepath.Join(root, "lexicon.csv"),
	}
	require.NoError(t, os.MkdirAll(ws.corpus, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(ws.corpus, "a.txt"), []byte("The cat sat."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(ws.corpus, "b.txt"), []byte("cat and dog"), 0o644))
	require.NoError(t, os.WriteFile(ws.lexicon, []byte(lexicon), 0o644))
	return ws
}

func (ws workspace) buildArgs() []string {
	return []string{"build", "--corpus", ws.corpus, "--output", ws.output, "--lexicon", ws.lexicon}
}

func (ws workspace) artifact() string {
	return filepath.Join(ws.output, "inverted_index.csv")
}

// run executes the root command with args and returns stdout and the error.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	stdout := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

const catDogLexicon = "term,id\ncat,1\ndog,2\n"

func TestBuildCmd_WritesIndex(t *testing.T) {
	ws := newWorkspace(t, catDogLexicon)

	out, err := run(t, ws.buildArgs()...)
	require.NoError(t, err)
	assert.Equal(t, "indexed 2 documents, 2 word IDs -> "+ws.artifact()+"\n", out)

	data, err := os.ReadFile(ws.artifact())
	require.NoError(t, err)
	assert.Equal(t, "wordID,docIDs\n1,1 2\n2,2\n", string(data))
}

func TestBuildCmd_WorkersFlag(t *testing.T) {
	ws := newWorkspace(t, catDogLexicon)

	_, err := run(t, append(ws.buildArgs(), "--workers", "4")...)
	require.NoError(t, err)

	data, err := os.ReadFile(ws.artifact())
	require.NoError(t, err)
	assert.Equal(t, "wordID,docIDs\n1,1 2\n2,2\n", string(data))
}

func TestBuildCmd_ConfigFile(t *testing.T) {
	ws := newWorkspace(t, catDogLexicon)
	configPath := filepath.Join(t.TempDir(), "indexer.yaml")
	yaml := "indexer:\n" +
		"  corpusPath: " + ws.corpus + "\n" +
		"  outputPath: " + ws.output + "\n" +
		"  lexiconPath: " + ws.lexicon + "\n" +
		"  outputFile: postings.csv\n"
	require.NoError(t, os.WriteFile(configPath, []byte(yaml), 0o644))

	out, err := run(t, "build", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(ws.output, "postings.csv"))
	assert.FileExists(t, filepath.Join(ws.output, "postings.csv"))
}

func TestBuildCmd_MissingPaths(t *testing.T) {
	t.Setenv("II_CORPUS_PATH", "")
	t.Setenv("II_OUTPUT_PATH", "")
	t.Setenv("II_LEXICON_PATH", "")

	_, err := run(t, "build")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidConfig)
	assert.Equal(t, 2, apperrors.ExitCode(err))
}

func TestBuildCmd_MalformedLexicon(t *testing.T) {
	ws := newWorkspace(t, "term,id\ncat,1\ndog,two\n")

	out, err := run(t, ws.buildArgs()...)
	require.Error(t, err)
	assert.Empty(t, out)
	assert.ErrorIs(t, err, apperrors.ErrMalformedLexiconEntry)
	assert.Equal(t, 4, apperrors.ExitCode(err))
	assert.NoFileExists(t, ws.artifact())
}

func TestBuildCmd_MissingCorpus(t *testing.T) {
	ws := newWorkspace(t, catDogLexicon)
	require.NoError(t, os.RemoveAll(ws.corpus))

	_, err := run(t, ws.buildArgs()...)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrCorpusUnavailable)
	assert.Equal(t, 5, apperrors.ExitCode(err))
}

func TestLookupCmd(t *testing.T) {
	ws := newWorkspace(t, catDogLexicon)
	_, err := run(t, ws.buildArgs()...)
	require.NoError(t, err)

	out, err := run(t, "lookup", "--index", ws.artifact(), "1", "2", "7")
	require.NoError(t, err)
	assert.Equal(t, "1: 1 2\n2: 2\n7:\n", out)
}

func TestLookupCmd_InvalidWordID(t *testing.T) {
	ws := newWorkspace(t, catDogLexicon)
	_, err := run(t, ws.buildArgs()...)
	require.NoError(t, err)

	_, err = run(t, "lookup", "--index", ws.artifact(), "cat")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid word ID "cat"`)

	_, err = run(t, "lookup", "--index", ws.artifact())
	assert.Error(t, err, "at least one word ID is required")
}

func TestLookupCmd_MissingIndex(t *testing.T) {
	_, err := run(t, "lookup", "--index", filepath.Join(t.TempDir(), "none.csv"), "1")
	assert.Error(t, err)
}

func TestCheckCmd(t *testing.T) {
	ws := newWorkspace(t, catDogLexicon)
	t.Setenv("II_CORPUS_PATH", ws.corpus)
	t.Setenv("II_OUTPUT_PATH", ws.output)
	t.Setenv("II_LEXICON_PATH", ws.lexicon)

	out, err := run(t, "check")
	require.NoError(t, err)

	var report health.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, health.StatusUp, report.Status)
	assert.Len(t, report.Components, 3)
	for _, name := range []string{"lexicon", "corpus", "output"} {
		assert.Equal(t, health.StatusUp, report.Components[name].Status, name)
	}
}

func TestCheckCmd_ReportsMalformedLexicon(t *testing.T) {
	ws := newWorkspace(t, "term,id\ncat\n")
	t.Setenv("II_CORPUS_PATH", ws.corpus)
	t.Setenv("II_OUTPUT_PATH", ws.output)
	t.Setenv("II_LEXICON_PATH", ws.lexicon)

	out, err := run(t, "check")
	require.Error(t, err)

	var report health.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, health.StatusDown, report.Status)
	assert.Equal(t, health.StatusDown, report.Components["lexicon"].Status)
	assert.Contains(t, report.Components["lexicon"].Message, "lexicon.csv:2")
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "indexer version "+Version))
	assert.Contains(t, out, runtime.Version())

	out, err = run(t, "version", "--json")
	require.NoError(t, err)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, Version, info["version"])
	assert.Equal(t, Commit, info["commit"])
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"build", "lookup", "check", "version"} {
		sub, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
}
