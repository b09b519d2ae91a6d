package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"

	"BGM-Picker-Go/pkg/catalog"
	"BGM-Picker-Go/pkg/handlers"
	"BGM-Picker-Go/pkg/music"
	"BGM-Picker-Go/pkg/selector"
	"BGM-Picker-Go/pkg/spotify"
)

// stubCatalog returns canned data so handlers can be tested without hitting
// a real catalog.
type stubCatalog struct {
	track    *music.Track
	tracks   []music.Track
	genres   []string
	err      error
	lastBPM  int
	lastCnt  int
	lastExcl []string
	lastDur  float64
}

func (s *stubCatalog) RandomTrack(_ context.Context, f music.Filter) (*music.Track, error) {
	s.lastExcl = f.ExcludeIDs
	s.lastDur = f.Duration
	return s.track, s.err
}

func (s *stubCatalog) RandomTracks(_ context.Context, n int, _ music.Filter) ([]music.Track, error) {
	s.lastCnt = n
	return s.tracks, s.err
}

func (s *stubCatalog) Search(_ context.Context, f music.Filter) ([]music.Track, error) {
	s.lastBPM = f.BPM
	return s.tracks, s.err
}

func (s *stubCatalog) Genres(context.Context) ([]string, error) { return s.genres, s.err }
func (s *stubCatalog) Moods(context.Context) ([]string, error)  { return nil, s.err }

func newServer(sc *stubCatalog, opts ...selector.Option) *httptest.Server {
	return newServerFor(sc, opts...)
}

func newServerFor(c music.Catalog, opts ...selector.Option) *httptest.Server {
	log, _ := logtest.NewNullLogger()
	app := &handlers.Application{
		Selector: selector.New(c, append([]selector.Option{selector.WithLogger(log)}, opts...)...),
		Catalog:  c,
		Log:      log,
	}
	return httptest.NewServer(app.Routes(nil))
}

type stubAnalyzer struct {
	ref music.Reference
	err error
}

func (a stubAnalyzer) AnalyzeReference(context.Context, string) (music.Reference, error) {
	return a.ref, a.err
}

func getJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return resp
}

func TestSelectEndpoint(t *testing.T) {
	sc := &stubCatalog{track: &music.Track{ID: "t1", Title: "Song"}}
	srv := newServer(sc)
	defer srv.Close()

	var body struct{ Track music.Track }
	resp := getJSON(t, srv.URL+"/api/select?duration=60&contentType=workout", &body)
	if resp.StatusCode != http.StatusOK || body.Track.ID != "t1" {
		t.Fatalf("unexpected response %d %+v", resp.StatusCode, body)
	}
	if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}

	getJSON(t, srv.URL+"/api/select", nil)
	if len(sc.lastExcl) != 1 || sc.lastExcl[0] != "t1" {
		t.Errorf("second pick should exclude t1, got %v", sc.lastExcl)
	}

	var used struct{ ExcludeIDs []string }
	getJSON(t, srv.URL+"/api/used", &used)
	if len(used.ExcludeIDs) != 2 {
		t.Errorf("used = %v", used.ExcludeIDs)
	}
}

// TestSelectDistinguishesNoMatchFromFailure checks the 404/502 split.
func TestSelectDistinguishesNoMatchFromFailure(t *testing.T) {
	sc := &stubCatalog{}
	srv := newServer(sc)
	defer srv.Close()

	if resp := getJSON(t, srv.URL+"/api/select", nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("no match: status %d", resp.StatusCode)
	}

	sc.err = &catalog.Error{Kind: catalog.KindTransport, Endpoint: "random"}
	var body map[string]string
	resp := getJSON(t, srv.URL+"/api/select", &body)
	if resp.StatusCode != http.StatusBadGateway || body["kind"] != "transport" {
		t.Errorf("failure: status %d body %v", resp.StatusCode, body)
	}
}

// TestSelectCatalogNotFound drives a real catalog client against a server
// that reports an empty selection the way the catalog does: 404 with an
// unsuccessful envelope.
func TestSelectCatalogNotFound(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/music/random":
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"success":false,"error":"No tracks found matching criteria"}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"success":false,"error":"Failed to search tracks","message":"boom"}`))
		}
	}))
	defer upstream.Close()
	log, _ := logtest.NewNullLogger()
	srv := newServerFor(&catalog.Client{BaseURL: upstream.URL + "/api/music", Log: log})
	defer srv.Close()

	var body map[string]string
	if resp := getJSON(t, srv.URL+"/api/select?contentType=jazz", &body); resp.StatusCode != http.StatusNotFound {
		t.Errorf("select: status %d body %v", resp.StatusCode, body)
	}
	body = nil
	if resp := getJSON(t, srv.URL+"/api/search?q=x", &body); resp.StatusCode != http.StatusBadGateway || body["kind"] != "api" {
		t.Errorf("search: status %d body %v", resp.StatusCode, body)
	}
}

func TestSelectFractionalDuration(t *testing.T) {
	sc := &stubCatalog{track: &music.Track{ID: "t1"}}
	srv := newServer(sc)
	defer srv.Close()
	if resp := getJSON(t, srv.URL+"/api/select?duration=195.5", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if sc.lastDur != 195.5 {
		t.Errorf("duration = %v", sc.lastDur)
	}
}

func TestLikeEndpoint(t *testing.T) {
	cases := []struct {
		name   string
		an     stubAnalyzer
		status int
	}{
		{"found", stubAnalyzer{ref: music.Reference{Title: "Blinding Lights", BPM: 171, Key: "F#"}}, http.StatusOK},
		{"unknown song", stubAnalyzer{err: spotify.ErrNotFound}, http.StatusNotFound},
		{"lookup outage", stubAnalyzer{err: errors.New("spotify: 503 service unavailable")}, http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newServer(&stubCatalog{track: &music.Track{ID: "t1"}}, selector.WithReferenceAnalyzer(tc.an))
			defer srv.Close()
			if resp := getJSON(t, srv.URL+"/api/like?reference=Blinding+Lights", nil); resp.StatusCode != tc.status {
				t.Errorf("status %d, want %d", resp.StatusCode, tc.status)
			}
		})
	}
}

func TestBadParameters(t *testing.T) {
	srv := newServer(&stubCatalog{})
	defer srv.Close()
	for _, path := range []string{"/api/select?duration=abc", "/api/select?duration=-3", "/api/options?count=-1", "/api/search?bpmMin=fast"} {
		if resp := getJSON(t, srv.URL+path, nil); resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status %d", path, resp.StatusCode)
		}
	}
}

func TestOptionsAndSearch(t *testing.T) {
	sc := &stubCatalog{tracks: []music.Track{{ID: "a"}, {ID: "b"}}}
	srv := newServer(sc)
	defer srv.Close()

	var body struct{ Tracks []music.Track }
	getJSON(t, srv.URL+"/api/options?contentType=space", &body)
	if len(body.Tracks) != 2 || sc.lastCnt != selector.DefaultOptionCount {
		t.Errorf("options: %+v count %d", body, sc.lastCnt)
	}

	getJSON(t, srv.URL+"/api/search?q=run&bpmMin=140&bpmMax=160", &body)
	if sc.lastBPM != 140 {
		t.Errorf("search bpm = %d", sc.lastBPM)
	}
}

func TestGenresEmptyIsArray(t *testing.T) {
	srv := newServer(&stubCatalog{})
	defer srv.Close()
	resp, err := http.Get(srv.URL + "/api/genres")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var raw map[string]json.RawMessage
	json.NewDecoder(resp.Body).Decode(&raw)
	if string(raw["genres"]) != "[]" {
		t.Errorf("genres = %s", raw["genres"])
	}
}

func TestAttributionEndpoint(t *testing.T) {
	srv := newServer(&stubCatalog{})
	defer srv.Close()

	body := `{"id":"1","title":"Song","artist":"Me","license":"CC0","source":"Openverse"}`
	resp, err := http.Post(srv.URL+"/api/attribution", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out struct{ Attribution music.Attribution }
	json.NewDecoder(resp.Body).Decode(&out)
	if resp.StatusCode != http.StatusOK || out.Attribution.Required {
		t.Errorf("unexpected response %d %+v", resp.StatusCode, out)
	}

	resp, err = http.Post(srv.URL+"/api/attribution", "application/json", strings.NewReader(`{"title":"x","bogus":1}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown field: status %d", resp.StatusCode)
	}

	if resp := getJSON(t, srv.URL+"/api/attribution", nil); resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET: status %d", resp.StatusCode)
	}
}

func TestLikeWithoutAnalyzer(t *testing.T) {
	srv := newServer(&stubCatalog{})
	defer srv.Close()
	if resp := getJSON(t, srv.URL+"/api/like?reference=Blinding+Lights", nil); resp.StatusCode != http.StatusNotImplemented {
		t.Errorf("status %d", resp.StatusCode)
	}
	if resp := getJSON(t, srv.URL+"/api/like", nil); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing reference: status %d", resp.StatusCode)
	}
}
