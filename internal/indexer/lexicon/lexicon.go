// Package lexicon loads the term to word ID dictionary that the index builder
// resolves tokens against. The source is a two-column CSV file with a header
// row followed by term,wordID rows.
package lexicon

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/errors"
)

// Lexicon is an immutable term to word ID mapping. It is safe for concurrent
// reads.
type Lexicon struct {
	terms map[string]int
}

// New builds a Lexicon from an in-memory map. The map is copied.
func New(terms map[string]int) *Lexicon {
	cp := make(map[string]int, len(terms))
	for term, id := range terms {
		cp[term] = id
	}
	return &Lexicon{terms: cp}
}

// Load opens path and parses it with Parse.
func Load(path string) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrLexiconUnavailable, path, err)
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse reads a lexicon from r. source names the input in error locations.
// The first row is discarded unchecked. Blank lines are skipped. When a term
// repeats, the later row wins.
func Parse(r io.Reader, source string) (*Lexicon, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true
	reader.LazyQuotes = true

	terms := make(map[string]int)
	header := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, apperrors.Newf(apperrors.ErrMalformedLexiconEntry,
					fmt.Sprintf("%s:%d", source, parseErr.Line), "%v", parseErr.Err)
			}
			return nil, apperrors.Wrap(apperrors.ErrLexiconUnavailable, source, err)
		}
		if header {
			header = false
			continue
		}
		line, _ := reader.FieldPos(0)
		location := fmt.Sprintf("%s:%d", source, line)
		if len(record) != 2 {
			return nil, apperrors.Newf(apperrors.ErrMalformedLexiconEntry, location,
				"expected 2 fields, got %d", len(record))
		}
		id, err := strconv.Atoi(strings.TrimSpace(record[1]))
		if err != nil || id < 0 {
			return nil, apperrors.Newf(apperrors.ErrMalformedLexiconEntry, location,
				"word ID %q is not a non-negative integer", record[1])
		}
		terms[record[0]] = id
	}
	return &Lexicon{terms: terms}, nil
}

// Lookup returns the word ID for term.
func (l *Lexicon) Lookup(term string) (int, bool) {
	id, ok := l.terms[term]
	return id, ok
}

// Len returns the number of distinct terms.
func (l *Lexicon) Len() int {
	return len(l.terms)
}
