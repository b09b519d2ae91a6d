package spotify

import (
	"context"
	"errors"
	"testing"

	libspotify "github.com/zmb3/spotify"
)

type fakeSearcher struct {
	lastQuery string
	lastType  libspotify.SearchType
	result    *libspotify.SearchResult
	featIDs   []libspotify.ID
	feats     []*libspotify.AudioFeatures
	err       error
}

func (f *fakeSearcher) GetAudioFeatures(ids ...libspotify.ID) ([]*libspotify.AudioFeatures, error) {
	f.featIDs = ids
	return f.feats, f.err
}

func (f *fakeSearcher) Search(query string, t libspotify.SearchType) (*libspotify.SearchResult, error) {
	f.lastQuery = query
	f.lastType = t
	return f.result, f.err
}

func trackResult(id, name, artist string) *libspotify.SearchResult {
	track := libspotify.FullTrack{SimpleTrack: libspotify.SimpleTrack{
		ID:      libspotify.ID(id),
		Name:    name,
		Artists: []libspotify.SimpleArtist{{Name: artist}},
	}}
	return &libspotify.SearchResult{Tracks: &libspotify.FullTrackPage{Tracks: []libspotify.FullTrack{track}}}
}

func TestAnalyzeReference(t *testing.T) {
	fs := &fakeSearcher{
		result: trackResult("42", "Eye of the Tiger", "Survivor"),
		feats:  []*libspotify.AudioFeatures{{Tempo: 108.7, Key: 0, Mode: 0}},
	}
	sc := &SpotifyClient{client: fs}

	ref, err := sc.AnalyzeReference(context.Background(), "eye of the tiger")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Title != "Eye of the Tiger" || ref.Artist != "Survivor" {
		t.Errorf("unexpected reference %+v", ref)
	}
	if ref.BPM != 109 || ref.Key != "C" || ref.Mode != "minor" {
		t.Errorf("tempo/key = %d %q %q", ref.BPM, ref.Key, ref.Mode)
	}
	if fs.lastQuery != "eye of the tiger" || fs.lastType != libspotify.SearchTypeTrack {
		t.Errorf("Search called with %s %v", fs.lastQuery, fs.lastType)
	}
	if len(fs.featIDs) != 1 || fs.featIDs[0] != "42" {
		t.Errorf("ids not forwarded: %+v", fs.featIDs)
	}
}

func TestAnalyzeReferenceNotFound(t *testing.T) {
	sr := &libspotify.SearchResult{Tracks: &libspotify.FullTrackPage{}}
	sc := &SpotifyClient{client: &fakeSearcher{result: sr}}

	_, err := sc.AnalyzeReference(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAnalyzeReferenceError(t *testing.T) {
	sc := &SpotifyClient{client: &fakeSearcher{err: errors.New("boom")}}

	_, err := sc.AnalyzeReference(context.Background(), "fail")
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom error, got %v", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("a search failure must not look like a missing song")
	}
}

func TestAnalyzeReferenceCancelled(t *testing.T) {
	fs := &fakeSearcher{}
	sc := &SpotifyClient{client: fs}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := sc.AnalyzeReference(ctx, "q"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if fs.lastQuery != "" {
		t.Error("search should not run after cancellation")
	}
}

func TestAnalyzeReferenceMissingFeatures(t *testing.T) {
	fs := &fakeSearcher{result: trackResult("7", "Song", "Artist"), feats: []*libspotify.AudioFeatures{nil}}
	sc := &SpotifyClient{client: fs}
	if _, err := sc.AnalyzeReference(context.Background(), "song"); err == nil {
		t.Fatal("expected error for missing features")
	}
}

func TestAnalyzeReferenceUndetectedKey(t *testing.T) {
	fs := &fakeSearcher{
		result: trackResult("9", "Drone", "Artist"),
		feats:  []*libspotify.AudioFeatures{{Tempo: 60, Key: -1, Mode: 1}},
	}
	ref, err := (&SpotifyClient{client: fs}).AnalyzeReference(context.Background(), "drone")
	if err != nil {
		t.Fatal(err)
	}
	if ref.Key != "" || ref.Mode != "" {
		t.Errorf("key/mode = %q %q", ref.Key, ref.Mode)
	}
}

func TestPitchClass(t *testing.T) {
	cases := []struct {
		key  int
		want string
	}{
		{0, "C"},
		{9, "A"},
		{6, "F#"},
		{-1, ""},
		{12, ""},
	}
	for _, c := range cases {
		if got := PitchClass(c.key); got != c.want {
			t.Errorf("PitchClass(%d) = %q want %q", c.key, got, c.want)
		}
	}
	if ModeName(1) != "major" || ModeName(0) != "minor" {
		t.Error("unexpected mode names")
	}
}

// TestNewSpotifyClientCancelled checks that the eager token fetch stops as
// soon as the caller gives up.
func TestNewSpotifyClientCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewSpotifyClient(ctx, "id", "secret"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
