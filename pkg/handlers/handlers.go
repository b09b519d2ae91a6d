// Package handlers exposes the selector as a small local JSON API so editing
// tools can ask for background music over HTTP. Every endpoint answers with
// JSON; catalog failures are reported as 502 with the failure kind so callers
// can tell them apart from an empty result (404).
package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"BGM-Picker-Go/pkg/catalog"
	"BGM-Picker-Go/pkg/music"
	"BGM-Picker-Go/pkg/selector"
	"BGM-Picker-Go/pkg/spotify"
)

// Application bundles the dependencies used by the HTTP handlers.
type Application struct {
	Selector *selector.Selector
	Catalog  music.Catalog
	Log      logrus.FieldLogger
}

// Routes registers every endpoint. metrics, when non-nil, is served on
// /metrics.
func (app *Application) Routes(metrics http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/select", app.SelectJSON)
	mux.HandleFunc("/api/options", app.OptionsJSON)
	mux.HandleFunc("/api/search", app.SearchJSON)
	mux.HandleFunc("/api/genres", app.GenresJSON)
	mux.HandleFunc("/api/moods", app.MoodsJSON)
	mux.HandleFunc("/api/used", app.UsedJSON)
	mux.HandleFunc("/api/like", app.LikeJSON)
	mux.HandleFunc("/api/attribution", app.AttributionJSON)
	if metrics != nil {
		mux.Handle("/metrics", metrics)
	}
	return app.middleware(mux)
}

// SelectJSON picks one track for the session, excluding earlier picks.
// Query parameters: duration (seconds), contentType, mood.
func (app *Application) SelectJSON(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	q := r.URL.Query()
	duration, err := optionalFloat(q.Get("duration"))
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "duration must be a non-negative number of seconds")
		return
	}
	t, err := app.Selector.SelectBackgroundMusic(r.Context(), duration, q.Get("contentType"), q.Get("mood"))
	if err != nil {
		app.respondCatalogError(w, err)
		return
	}
	if t == nil {
		respondJSONError(w, http.StatusNotFound, "no matching track")
		return
	}
	app.respondJSON(w, http.StatusOK, map[string]any{"track": t})
}

// OptionsJSON returns candidates for manual selection. Query parameters:
// contentType, count.
func (app *Application) OptionsJSON(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	q := r.URL.Query()
	count, err := optionalInt(q.Get("count"))
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "count must be a non-negative integer")
		return
	}
	tracks, err := app.Selector.MusicOptions(r.Context(), q.Get("contentType"), count)
	if err != nil {
		app.respondCatalogError(w, err)
		return
	}
	app.respondJSON(w, http.StatusOK, map[string]any{"tracks": nonNil(tracks)})
}

// SearchJSON searches by text. Query parameters: q, bpmMin, bpmMax.
func (app *Application) SearchJSON(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	q := r.URL.Query()
	var bpm *music.BPMRange
	if q.Get("bpmMin") != "" || q.Get("bpmMax") != "" {
		lo, err1 := optionalInt(q.Get("bpmMin"))
		hi, err2 := optionalInt(q.Get("bpmMax"))
		if err1 != nil || err2 != nil {
			respondJSONError(w, http.StatusBadRequest, "bpmMin and bpmMax must be non-negative integers")
			return
		}
		bpm = &music.BPMRange{Min: lo, Max: hi}
	}
	tracks, err := app.Selector.SearchForSpecificMusic(r.Context(), q.Get("q"), bpm)
	if err != nil {
		app.respondCatalogError(w, err)
		return
	}
	app.respondJSON(w, http.StatusOK, map[string]any{"tracks": nonNil(tracks)})
}

// GenresJSON lists the catalog's genres.
func (app *Application) GenresJSON(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	genres, err := app.Catalog.Genres(r.Context())
	if err != nil {
		app.respondCatalogError(w, err)
		return
	}
	app.respondJSON(w, http.StatusOK, map[string]any{"genres": nonNil(genres)})
}

// MoodsJSON lists the catalog's moods.
func (app *Application) MoodsJSON(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	moods, err := app.Catalog.Moods(r.Context())
	if err != nil {
		app.respondCatalogError(w, err)
		return
	}
	app.respondJSON(w, http.StatusOK, map[string]any{"moods": nonNil(moods)})
}

// LikeJSON picks a track with the tempo and key of a reference song given in
// the reference query parameter.
func (app *Application) LikeJSON(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	reference := r.URL.Query().Get("reference")
	if reference == "" {
		respondJSONError(w, http.StatusBadRequest, "reference is required")
		return
	}
	t, ref, err := app.Selector.SelectLike(r.Context(), reference)
	switch {
	case errors.Is(err, selector.ErrNoReferenceAnalyzer):
		respondJSONError(w, http.StatusNotImplemented, err.Error())
		return
	case errors.Is(err, spotify.ErrNotFound):
		respondJSONError(w, http.StatusNotFound, "reference song not found")
		return
	case err != nil && ref.Title == "":
		app.respondJSON(w, http.StatusBadGateway, map[string]string{"error": "reference lookup failed", "kind": "reference"})
		return
	case err != nil:
		app.respondCatalogError(w, err)
		return
	case t == nil:
		respondJSONError(w, http.StatusNotFound, "no matching track")
		return
	}
	app.respondJSON(w, http.StatusOK, map[string]any{"track": t, "reference": ref})
}

// UsedJSON returns the ids already suggested in this session.
func (app *Application) UsedJSON(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	app.respondJSON(w, http.StatusOK, map[string]any{"excludeIds": nonNil(app.Selector.UsedTrackIDs())})
}

// AttributionJSON accepts a track as JSON and returns its credit line and
// usage guidance.
func (app *Application) AttributionJSON(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		respondJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var t music.Track
	if err := decodeJSON(r, &t); err != nil {
		respondJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if t.Title == "" || t.Artist == "" || t.License == "" {
		respondJSONError(w, http.StatusBadRequest, "title, artist and license are required")
		return
	}
	app.respondJSON(w, http.StatusOK, map[string]any{"attribution": music.Attribute(t)})
}

// respondCatalogError maps a catalog failure to 502, or 400 when the request
// itself was invalid.
func (app *Application) respondCatalogError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	kind := "unknown"
	var ce *catalog.Error
	if errors.As(err, &ce) {
		kind = ce.Kind.String()
		if ce.Kind == catalog.KindInvalidRequest {
			status = http.StatusBadRequest
		}
	}
	app.respondJSON(w, status, map[string]string{"error": "catalog request failed", "kind": kind})
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet {
		return true
	}
	w.Header().Set("Allow", http.MethodGet)
	respondJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

func optionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.New("negative value")
	}
	return n, nil
}

func optionalFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.New("not a valid duration")
	}
	return f, nil
}

// nonNil keeps empty results encoded as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
