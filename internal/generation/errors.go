package generation

import "errors"

var (
	// ErrStoreUnavailable aborts a session because uniqueness cannot be asserted.
	ErrStoreUnavailable = errors.New("dictionary store unavailable")
	// ErrGenerationUnavailable is one failed attempt; the controller retries within its budget.
	ErrGenerationUnavailable = errors.New("candidate generation unavailable")
	// ErrMalformedCandidate is a generator answer without the required fields. It is retried like ErrGenerationUnavailable.
	ErrMalformedCandidate = errors.New("malformed candidate")
	// ErrTakenConcurrently means the keyword or abbreviation was stored after it was checked.
	// The whole session has to be run again.
	ErrTakenConcurrently = errors.New("value was taken concurrently, please retry the whole session")
	ErrInvalidKeyword    = errors.New("invalid keyword")
	// ErrIndexNotUpdated is a warning: the entry is saved but the similarity index misses it until reindexed.
	ErrIndexNotUpdated = errors.New("entry saved but the similarity index was not updated")
)

func isGenerationFailure(err error) bool {
	return errors.Is(err, ErrGenerationUnavailable) || errors.Is(err, ErrMalformedCandidate)
}
