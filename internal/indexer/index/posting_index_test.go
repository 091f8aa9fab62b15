package index

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostingIndex_SnapshotSorted(t *testing.T) {
	p := NewPostingIndex()
	p.AddDocument(2, []int{9, 1})
	p.AddDocument(1, []int{1, 4, 1})
	p.AddDocument(3, nil)

	assert.Equal(t, []TermEntry{
		{WordID: 1, DocIDs: []int{1, 2}},
		{WordID: 4, DocIDs: []int{1}},
		{WordID: 9, DocIDs: []int{2}},
	}, p.Snapshot())

	assert.Equal(t, Stats{Documents: 3, WordIDs: 3, Postings: 4}, p.Stats())
}

func TestPostingIndex_DuplicatesCollapse(t *testing.T) {
	p := NewPostingIndex()
	p.AddDocument(5, []int{7, 7, 7})
	p.AddDocument(5, []int{7})

	assert.Equal(t, []int{5}, p.Lookup(7))
	assert.Nil(t, p.Lookup(8))
	assert.Equal(t, 1, p.Stats().Postings)
}

func TestPostingIndex_EmptySnapshot(t *testing.T) {
	p := NewPostingIndex()
	p.AddDocument(1, []int{})
	assert.Empty(t, p.Snapshot())
}

func TestPostingIndex_ConcurrentWriters(t *testing.T) {
	p := NewPostingIndex()
	const docs = 200
	var wg sync.WaitGroup
	for d := 1; d <= docs; d++ {
		wg.Add(1)
		go func(docID int) {
			defer wg.Done()
			p.AddDocument(docID, []int{0, docID % 5})
		}(d)
	}
	wg.Wait()

	snap := p.Snapshot()
	require.NotEmpty(t, snap)
	assert.Equal(t, 0, snap[0].WordID)
	assert.Len(t, snap[0].DocIDs, docs)
	for _, entry := range snap {
		for i := 1; i < len(entry.DocIDs); i++ {
			assert.Less(t, entry.DocIDs[i-1], entry.DocIDs[i], "word %d postings must be strictly ascending", entry.WordID)
		}
	}
	assert.Equal(t, docs, p.Stats().Documents)
}

func TestPostingIndex_Reset(t *testing.T) {
	p := NewPostingIndex()
	p.AddDocument(1, []int{1})
	p.Reset()
	assert.Empty(t, p.Snapshot())
	assert.Equal(t, Stats{}, p.Stats())
}
