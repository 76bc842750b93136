package db

// FullTextQuery is the input for the tokenized text recall channel.
type FullTextQuery struct {
	Text       string
	TenantID   string
	CategoryID string
	// Vector is the query embedding; the channel projects a similarity for
	// every row it returns so all candidates are rankable.
	Vector []float32
	Limit  int
}

// VectorQuery is the input for the similarity recall channel.
type VectorQuery struct {
	Vector     []float32
	TenantID   string
	CategoryID string
	// MaxDistance drops rows whose cosine distance exceeds it.
	MaxDistance float64
	Limit       int
}

// CandidateRow is a single raw row from either recall channel.
type CandidateRow struct {
	ItemID     string
	TenantID   string
	CategoryID string
	// Metadata is the raw JSON document column, parsed by the repository.
	Metadata   []byte
	Similarity float64
}

// DisplayRow is a single row from the display metadata lookup.
type DisplayRow struct {
	ItemID   string
	Title    string
	CoverURL string
}
