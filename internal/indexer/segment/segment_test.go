package segment

import (
	"bytes"
	"hash/crc32"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/internal/indexer/index"
	apperrors "github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/errors"
)

var sample = []index.TermEntry{
	{WordID: 1, DocIDs: []int{1}},
	{WordID: 2, DocIDs: []int{1, 2}},
	{WordID: 40, DocIDs: []int{3, 10, 200}},
}

func TestEncode_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sample))
	assert.Equal(t, "wordID,docIDs\n1,1\n2,1 2\n40,3 10 200\n", buf.String())
}

func TestEncode_EmptyIndexIsHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, nil))
	assert.Equal(t, "wordID,docIDs\n", buf.String())
}

func TestWriter_WriteAndRead(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w := NewWriter(dir, "inverted_index.csv")

	res, err := w.Write(sample)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "inverted_index.csv"), res.Path)
	assert.Equal(t, 3, res.Records)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), res.Bytes)
	assert.Equal(t, crc32.ChecksumIEEE(data), res.Checksum)

	r, err := OpenReader(res.Path)
	require.NoError(t, err)
	assert.Equal(t, sample, r.Entries())
	assert.Equal(t, 3, r.WordIDs())

	docs, ok := r.Lookup(40)
	assert.True(t, ok)
	assert.Equal(t, []int{3, 10, 200}, docs)
	_, ok = r.Lookup(3)
	assert.False(t, ok)
}

func TestWriter_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := NewWriter(dir, "inverted_index.csv").Write(sample)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "inverted_index.csv", entries[0].Name())
}

func TestWriter_ReplacesExistingArtifact(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "inverted_index.csv")
	require.NoError(t, os.WriteFile(w.Path(), []byte("stale"), 0o644))

	_, err := w.Write(sample[:1])
	require.NoError(t, err)

	data, err := os.ReadFile(w.Path())
	require.NoError(t, err)
	assert.Equal(t, "wordID,docIDs\n1,1\n", string(data))
}

func TestWriter_OutputDirIsAFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, err := NewWriter(blocker, "inverted_index.csv").Write(sample)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrOutputWriteError)
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", "missing header"},
		{"wrong header", "term,docs\n", "unexpected header"},
		{"bad word id", "wordID,docIDs\nx,1\n", "bad word ID"},
		{"bad doc id", "wordID,docIDs\n1,1 b\n", "bad document ID"},
		{"word order", "wordID,docIDs\n2,1\n1,1\n", "out of order"},
		{"doc order", "wordID,docIDs\n1,2 2\n", "out of order"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDecode_ToleratesTrailingSpace(t *testing.T) {
	entries, err := Decode(strings.NewReader("wordID,docIDs\n7,1 3 \n"))
	require.NoError(t, err)
	assert.Equal(t, []index.TermEntry{{WordID: 7, DocIDs: []int{1, 3}}}, entries)
}
