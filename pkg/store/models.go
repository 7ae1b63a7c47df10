package store

// AnagramEntry is one indexed dictionary word. SortedKey holds the
// characters of Word sorted by code point and Length the character count;
// (SortedKey, Word) is unique within a store.
type AnagramEntry struct {
	ID        int64
	SortedKey string
	Word      string
	Length    int
	IsCommon  bool
}

// CachedDetail is a persisted candidate-detail cache row. UpdatedAt is
// Unix milliseconds of the last write.
type CachedDetail struct {
	Word      string
	Kanji     string
	Meaning   string
	UpdatedAt int64
}
