// Package spotify looks up reference songs on the Spotify Web API. Editors
// often describe the music they want as "something like <song>"; this
// package finds that song and reports its tempo and key so the catalog can be
// queried for a licensed track with the same feel.
//
// The wrapped library does not accept a context so cancellation is checked
// explicitly before each call.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/zmb3/spotify"
	"golang.org/x/oauth2/clientcredentials"

	"BGM-Picker-Go/pkg/music"
)

// ErrNotFound is returned by AnalyzeReference when the search has no hits.
var ErrNotFound = errors.New("no tracks found")

// searcher defines the subset of the spotify.Client used by this package.
// It allows the concrete client to be replaced in tests.
type searcher interface {
	Search(query string, t spotify.SearchType) (*spotify.SearchResult, error)
	GetAudioFeatures(ids ...spotify.ID) ([]*spotify.AudioFeatures, error)
}

// SpotifyClient wraps the official Spotify client.
type SpotifyClient struct {
	client searcher
}

// Compile-time interface check.
var _ music.ReferenceAnalyzer = (*SpotifyClient)(nil)

// NewSpotifyClient authenticates using the client credentials flow. The
// first token is fetched eagerly with ctx so bad credentials fail here rather
// than on the first lookup; later tokens are refreshed automatically.
func NewSpotifyClient(ctx context.Context, clientID, clientSecret string) (*SpotifyClient, error) {
	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotify.TokenURL,
	}
	if _, err := config.Token(ctx); err != nil {
		return nil, fmt.Errorf("spotify token: %w", err)
	}
	c := spotify.NewClient(config.Client(ctx))
	return &SpotifyClient{client: &c}, nil
}

// AnalyzeReference searches for query and returns the tempo and key of the
// best match. ErrNotFound is returned when nothing matches.
func (sc *SpotifyClient) AnalyzeReference(ctx context.Context, query string) (music.Reference, error) {
	if err := ctx.Err(); err != nil {
		return music.Reference{}, err
	}
	results, err := sc.client.Search(query, spotify.SearchTypeTrack)
	if err != nil {
		return music.Reference{}, err
	}
	if results.Tracks == nil || len(results.Tracks.Tracks) == 0 {
		return music.Reference{}, ErrNotFound
	}
	track := results.Tracks.Tracks[0]
	ref := music.Reference{Title: track.Name}
	if len(track.Artists) > 0 {
		ref.Artist = track.Artists[0].Name
	}

	if err := ctx.Err(); err != nil {
		return music.Reference{}, err
	}
	feats, err := sc.client.GetAudioFeatures(track.ID)
	if err != nil {
		return music.Reference{}, err
	}
	if len(feats) == 0 || feats[0] == nil {
		return music.Reference{}, fmt.Errorf("no audio features for %s", track.ID)
	}
	ref.BPM = int(math.Round(float64(feats[0].Tempo)))
	ref.Key = PitchClass(feats[0].Key)
	if ref.Key != "" {
		ref.Mode = ModeName(feats[0].Mode)
	}
	return ref, nil
}

var pitchClasses = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// PitchClass renders a Spotify key as the bare note name the catalog stores,
// e.g. "C" or "F#". Spotify reports -1 when no key was detected; that yields
// "" so no key filter is sent.
func PitchClass(key int) string {
	if key < 0 || key >= len(pitchClasses) {
		return ""
	}
	return pitchClasses[key]
}

// ModeName maps Spotify's mode flag to "major" or "minor".
func ModeName(mode int) string {
	if mode == 1 {
		return "major"
	}
	return "minor"
}
