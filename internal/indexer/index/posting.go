package index

// TermEntry is one output record: a word ID and the ascending IDs of the
// documents containing it.
type TermEntry struct {
	WordID int
	DocIDs []int
}

// Stats summarises the accumulated postings.
type Stats struct {
	Documents int
	WordIDs   int
	Postings  int
}
