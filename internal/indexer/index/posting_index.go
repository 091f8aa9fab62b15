package index

import (
	"cmp"
	"slices"
	"sync"
)

// PostingIndex accumulates word ID to document ID sets. Writers from several
// goroutines may call AddDocument concurrently.
type PostingIndex struct {
	mu       sync.Mutex
	postings map[int]map[int]struct{}
	docCount int
	size     int
}

func NewPostingIndex() *PostingIndex {
	return &PostingIndex{
		postings: make(map[int]map[int]struct{}),
	}
}

// AddDocument records that docID contains every word ID in wordIDs.
// Repeated word IDs are collapsed.
func (p *PostingIndex) AddDocument(docID int, wordIDs []int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, wid := range wordIDs {
		docs, exists := p.postings[wid]
		if !exists {
			docs = make(map[int]struct{})
			p.postings[wid] = docs
		}
		if _, seen := docs[docID]; !seen {
			docs[docID] = struct{}{}
			p.size++
		}
	}
	p.docCount++
}

// Lookup returns the ascending document IDs recorded for wordID.
func (p *PostingIndex) Lookup(wordID int) []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	docs, exists := p.postings[wordID]
	if !exists {
		return nil
	}
	return sortedKeys(docs)
}

// Snapshot returns every word ID with at least one posting, ascending by word
// ID, each with its ascending document IDs.
func (p *PostingIndex) Snapshot() []TermEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	entries := make([]TermEntry, 0, len(p.postings))
	for wid, docs := range p.postings {
		entries = append(entries, TermEntry{
			WordID: wid,
			DocIDs: sortedKeys(docs),
		})
	}
	slices.SortFunc(entries, func(a, b TermEntry) int {
		return cmp.Compare(a.WordID, b.WordID)
	})
	return entries
}

func (p *PostingIndex) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		Documents: p.docCount,
		WordIDs:   len(p.postings),
		Postings:  p.size,
	}
}

func (p *PostingIndex) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.postings = make(map[int]map[int]struct{})
	p.docCount = 0
	p.size = 0
}

func sortedKeys(set map[int]struct{}) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
