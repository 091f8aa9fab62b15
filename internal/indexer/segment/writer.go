// Package segment writes and reads the CSV inverted index artifact.
package segment

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/internal/indexer/index"
	apperrors "github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/errors"
)

// Header is the first row of every index artifact.
var Header = []string{"wordID", "docIDs"}

// WriteResult describes a finalized artifact.
type WriteResult struct {
	Path     string
	Records  int
	Bytes    int64
	Checksum uint32
}

// Writer serialises TermEntry slices into the CSV index artifact.
type Writer struct {
	dir  string
	name string
}

// NewWriter creates a Writer producing dir/name.
func NewWriter(dir string, name string) *Writer {
	return &Writer{dir: dir, name: name}
}

// Path returns the final artifact location.
func (w *Writer) Path() string {
	return filepath.Join(w.dir, w.name)
}

// Write atomically replaces the artifact with entries. The data goes to a
// temporary file in the same directory which is synced and renamed into place
// only when complete; on any error the temporary file is removed and an
// existing artifact is left untouched.
func (w *Writer) Write(entries []index.TermEntry) (*WriteResult, error) {
	finalPath := w.Path()
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrOutputWriteError, w.dir, fmt.Errorf("creating output directory: %w", err))
	}
	f, err := os.CreateTemp(w.dir, "."+w.name+".*.tmp")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrOutputWriteError, w.dir, fmt.Errorf("creating temp file: %w", err))
	}
	tmpPath := f.Name()
	committed := false
	defer func() {
		if !committed {
			f.Close()
			os.Remove(tmpPath)
		}
	}()

	hash := crc32.NewIEEE()
	counter := &countingWriter{}
	bw := bufio.NewWriterSize(io.MultiWriter(f, hash, counter), 64*1024)
	if err := Encode(bw, entries); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrOutputWriteError, finalPath, err)
	}
	if err := bw.Flush(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrOutputWriteError, finalPath, fmt.Errorf("flushing: %w", err))
	}
	if err := f.Chmod(0o644); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrOutputWriteError, finalPath, fmt.Errorf("setting permissions: %w", err))
	}
	if err := f.Sync(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrOutputWriteError, finalPath, fmt.Errorf("syncing: %w", err))
	}
	if err := f.Close(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrOutputWriteError, finalPath, fmt.Errorf("closing: %w", err))
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		committed = true
		return nil, apperrors.Wrap(apperrors.ErrOutputWriteError, finalPath, fmt.Errorf("renaming: %w", err))
	}
	committed = true
	return &WriteResult{
		Path:     finalPath,
		Records:  len(entries),
		Bytes:    counter.n,
		Checksum: hash.Sum32(),
	}, nil
}

// Encode writes the header and one record per entry to w. Document IDs are
// joined by single spaces without a trailing separator.
func Encode(w io.Writer, entries []index.TermEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	record := make([]string, 2)
	var sb strings.Builder
	for _, entry := range entries {
		sb.Reset()
		for i, d := range entry.DocIDs {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strconv.Itoa(d))
		}
		record[0] = strconv.Itoa(entry.WordID)
		record[1] = sb.String()
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing word %d: %w", entry.WordID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing records: %w", err)
	}
	return nil
}

type countingWriter struct {
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}
