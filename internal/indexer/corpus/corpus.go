// Package corpus enumerates the documents of an index build. Document IDs are
// positional: entries are sorted by name and numbered from 1, so an unchanged
// corpus always yields the same IDs regardless of filesystem iteration order.
package corpus

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	apperrors "github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/errors"
)

// Document is one corpus entry with its assigned ID.
type Document struct {
	ID   int
	Name string
}

// Source is an enumerable collection of text documents.
type Source interface {
	// Documents returns every entry in a stable order with IDs 1..N.
	Documents(ctx context.Context) ([]Document, error)
	// ReadText returns the full content of doc.
	ReadText(ctx context.Context, doc Document) (string, error)
}

// Dir is a Source over the regular files of one directory that carry a given
// extension. Sub-directories are not descended into.
type Dir struct {
	fsys      fs.FS
	root      string
	extension string
}

// NewDir creates a Source rooted at path. An empty extension accepts every
// regular file.
func NewDir(path string, extension string) *Dir {
	return &Dir{
		fsys:      os.DirFS(path),
		root:      path,
		extension: extension,
	}
}

// NewFS creates a Source over an arbitrary fs.FS, used for embedded or
// in-memory corpora. root only labels error locations.
func NewFS(fsys fs.FS, root string, extension string) *Dir {
	return &Dir{
		fsys:      fsys,
		root:      root,
		extension: extension,
	}
}

func (d *Dir) Documents(ctx context.Context) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := fs.ReadDir(d.fsys, ".")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCorpusUnavailable, d.root, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !d.accepts(entry) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	docs := make([]Document, len(names))
	for i, name := range names {
		docs[i] = Document{ID: i + 1, Name: name}
	}
	return docs, nil
}

func (d *Dir) ReadText(ctx context.Context, doc Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := fs.ReadFile(d.fsys, doc.Name)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrDocumentReadError, d.Path(doc), err)
	}
	return string(data), nil
}

// Path returns the location of doc for logs and errors.
func (d *Dir) Path(doc Document) string {
	return filepath.Join(d.root, doc.Name)
}

func (d *Dir) accepts(entry fs.DirEntry) bool {
	if d.extension != "" && filepath.Ext(entry.Name()) != d.extension {
		return false
	}
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := fs.Stat(d.fsys, entry.Name())
	return err == nil && info.Mode().IsRegular()
}

func (d Document) String() string {
	return fmt.Sprintf("doc %d (%s)", d.ID, d.Name)
}
