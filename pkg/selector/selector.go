// Package selector applies video-editing policy on top of a music.Catalog:
// it turns a content type into a genre filter and remembers which tracks it
// has already suggested so an editing session does not hear the same track
// twice.
package selector

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"BGM-Picker-Go/pkg/music"
)

// DefaultOptionCount is used by MusicOptions when count is not positive.
const DefaultOptionCount = 5

// ErrNoReferenceAnalyzer is returned by SelectLike when the selector was
// built without a reference analyzer.
var ErrNoReferenceAnalyzer = errors.New("reference lookup not configured")

// Selector picks background tracks for one editing session. Each Selector
// owns its own exclusion list; it is safe for concurrent use.
type Selector struct {
	catalog   music.Catalog
	reference music.ReferenceAnalyzer
	log       logrus.FieldLogger

	mu   sync.Mutex
	used []string
}

// Option configures a Selector.
type Option func(*Selector)

// WithLogger sets the logger used for selection events.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Selector) { s.log = l }
}

// WithReferenceAnalyzer enables SelectLike.
func WithReferenceAnalyzer(r music.ReferenceAnalyzer) Option {
	return func(s *Selector) { s.reference = r }
}

// New returns a Selector with an empty exclusion list.
func New(c music.Catalog, opts ...Option) *Selector {
	s := &Selector{catalog: c, log: logrus.StandardLogger(), used: []string{}}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SelectBackgroundMusic picks one track for a video of videoDuration seconds.
// Tracks already returned by this Selector are excluded. On success the new
// track's id is remembered; on failure or no match the state is unchanged and
// a nil track is returned alongside the catalog error, if any.
func (s *Selector) SelectBackgroundMusic(ctx context.Context, videoDuration float64, contentType, mood string) (*music.Track, error) {
	f := music.Filter{
		Genre:    music.GenreFor(contentType),
		Mood:     mood,
		Duration: videoDuration,
	}
	return s.pick(ctx, f)
}

// SelectLike looks up a well-known song and picks a catalog track with the
// same tempo and key. It shares the exclusion list with SelectBackgroundMusic.
func (s *Selector) SelectLike(ctx context.Context, reference string) (*music.Track, music.Reference, error) {
	if s.reference == nil {
		return nil, music.Reference{}, ErrNoReferenceAnalyzer
	}
	ref, err := s.reference.AnalyzeReference(ctx, reference)
	if err != nil {
		s.log.WithError(err).WithField("reference", reference).Warn("reference lookup failed")
		return nil, music.Reference{}, err
	}
	t, err := s.pick(ctx, music.Filter{BPM: ref.BPM, Key: ref.Key})
	return t, ref, err
}

// pick holds the lock across the request so concurrent callers never receive
// the same track.
func (s *Selector) pick(ctx context.Context, f music.Filter) (*music.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f.ExcludeIDs = append([]string(nil), s.used...)
	t, err := s.catalog.RandomTrack(ctx, f)
	if err != nil {
		return nil, err
	}
	if t == nil {
		s.log.WithFields(logrus.Fields{"genre": string(f.Genre), "mood": f.Mood}).Info("no matching track")
		return nil, nil
	}
	s.used = append(s.used, t.ID)
	s.log.WithFields(logrus.Fields{"track_id": t.ID, "excluded": len(f.ExcludeIDs)}).Debug("track selected")
	return t, nil
}

// MusicOptions returns up to count candidates for a human to choose from.
// The exclusion list is neither consulted nor updated.
func (s *Selector) MusicOptions(ctx context.Context, contentType string, count int) ([]music.Track, error) {
	if count <= 0 {
		count = DefaultOptionCount
	}
	return s.catalog.RandomTracks(ctx, count, music.Filter{Genre: music.GenreFor(contentType)})
}

// SearchForSpecificMusic searches by free text. Only the lower bound of
// bpmRange is forwarded, as a single bpm filter; the upper bound is accepted
// but not sent.
func (s *Selector) SearchForSpecificMusic(ctx context.Context, query string, bpmRange *music.BPMRange) ([]music.Track, error) {
	f := music.Filter{Query: query}
	if bpmRange != nil {
		f.BPM = bpmRange.Min
	}
	return s.catalog.Search(ctx, f)
}

// UsedTrackIDs returns the ids suggested so far, oldest first.
func (s *Selector) UsedTrackIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.used...)
}
