package segment

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/internal/indexer/index"
)

// Reader holds a parsed index artifact in memory for lookups.
type Reader struct {
	filePath string
	entries  []index.TermEntry
}

func OpenReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening index file: %w", err)
	}
	defer f.Close()
	entries, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("reading index file %s: %w", path, err)
	}
	return &Reader{filePath: path, entries: entries}, nil
}

// Decode parses an artifact produced by Encode. Records must be in strictly
// ascending word ID order with strictly ascending document IDs.
func Decode(r io.Reader) ([]index.TermEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("missing header")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if header[0] != Header[0] || header[1] != Header[1] {
		return nil, fmt.Errorf("unexpected header %q", strings.Join(header, ","))
	}

	var entries []index.TermEntry
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading record: %w", err)
		}
		line, _ := cr.FieldPos(0)
		wid, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad word ID %q", line, record[0])
		}
		if n := len(entries); n > 0 && entries[n-1].WordID >= wid {
			return nil, fmt.Errorf("line %d: word ID %d out of order", line, wid)
		}
		fields := strings.Fields(record[1])
		docIDs := make([]int, 0, len(fields))
		for _, field := range fields {
			d, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad document ID %q", line, field)
			}
			if n := len(docIDs); n > 0 && docIDs[n-1] >= d {
				return nil, fmt.Errorf("line %d: document ID %d out of order", line, d)
			}
			docIDs = append(docIDs, d)
		}
		entries = append(entries, index.TermEntry{WordID: wid, DocIDs: docIDs})
	}
	return entries, nil
}

// Lookup returns the posting list of wordID.
func (r *Reader) Lookup(wordID int) ([]int, bool) {
	idx := sort.Search(len(r.entries), func(i int) bool {
		return r.entries[i].WordID >= wordID
	})
	if idx >= len(r.entries) || r.entries[idx].WordID != wordID {
		return nil, false
	}
	return r.entries[idx].DocIDs, true
}

func (r *Reader) Entries() []index.TermEntry {
	return r.entries
}

func (r *Reader) WordIDs() int {
	return len(r.entries)
}

func (r *Reader) Path() string {
	return r.filePath
}
