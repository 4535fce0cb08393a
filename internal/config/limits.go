package config

const (
	// MaxContentLength is the maximum length in bytes for suggested content
	// and the current-content snapshot. Article bodies in the corpus rarely
	// exceed a few kilobytes; 50000 leaves generous headroom.
	MaxContentLength = 50000

	// MaxReasonLength is the maximum length for the submitter's free-text
	// reason. Reasons should be short explanations, not essays.
	MaxReasonLength = 2000

	// MaxSuggestionListLimit caps the page size for admin suggestion
	// listings. Larger pages should paginate instead.
	MaxSuggestionListLimit = 100

	// DefaultSuggestionListLimit is the page size used when the caller does
	// not request one.
	DefaultSuggestionListLimit = 50

	// SubmitRateLimit is the number of suggestion submissions allowed per
	// client within SubmitRateWindowSeconds.
	SubmitRateLimit = 10

	// SubmitRateWindowSeconds is the fixed window length for the submission
	// rate limit.
	SubmitRateWindowSeconds = 60
)
