// Package music defines the domain types shared by the catalog client, the
// selector and the command line front end. Concrete implementations live in
// their own packages (catalog, spotify) and satisfy the interfaces declared
// here so the selector can remain agnostic about the transport underneath.
package music

import "context"

// Catalog exposes the remote music catalog. Implementations log their own
// failures; a nil error with an empty result means nothing matched.
type Catalog interface {
	// RandomTrack returns one track matching f. Every field of f may be
	// sent, including the exclusion list. A nil track with a nil error
	// means the catalog had nothing to offer.
	RandomTrack(ctx context.Context, f Filter) (*Track, error)

	// RandomTracks returns up to count tracks in the order supplied by the
	// catalog. The exclusion list and query text of f are not sent.
	RandomTracks(ctx context.Context, count int, f Filter) ([]Track, error)

	// Search returns tracks matching the query text and filters of f. Key
	// and exclusion list are not sent.
	Search(ctx context.Context, f Filter) ([]Track, error)

	Genres(ctx context.Context) ([]string, error)
	Moods(ctx context.Context) ([]string, error)
}

// ReferenceAnalyzer looks up a well-known song and reports the tempo and key
// a catalog query should aim for.
type ReferenceAnalyzer interface {
	AnalyzeReference(ctx context.Context, query string) (Reference, error)
}
