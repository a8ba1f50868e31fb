package entity

// ListingFilter is a domain-level filter for querying listings.
type ListingFilter struct {
	PublishedOnly bool
	DoctorID      int64
	Limit         int
}

// ListingScoreSums aggregates listing scores for statistics.
type ListingScoreSums struct {
	Count        int64
	Service      int64
	Screen       int64
	Professional int64
}
