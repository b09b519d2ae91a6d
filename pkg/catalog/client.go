// Package catalog implements music.Catalog against the remote music catalog
// HTTP API. Every endpoint answers a GET with a JSON envelope of the form
// {"success": bool, "error": string, <payload>} where the payload key depends
// on the endpoint (track, tracks, genres, moods).
//
// Failures never panic and never escape unlogged: each method logs the
// problem through logrus and returns the empty value together with a
// *catalog.Error describing what went wrong. An empty result with a nil error
// means the catalog had nothing matching the request.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"BGM-Picker-Go/pkg/music"
)

// DefaultBaseURL is used when Client.BaseURL is empty.
const DefaultBaseURL = "http://localhost:3000/api/music"

// maxBody caps how much of a response is read.
const maxBody = 4 << 20

// Client talks to the music catalog. If HTTP is nil a client with a 10 second
// timeout is used. If Log is nil the logrus standard logger is used. The
// zero value is therefore ready for use against DefaultBaseURL. A Client is
// safe for concurrent use; its fields must not change after first use.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Log     logrus.FieldLogger
	Metrics *Metrics
}

// Ensure interface compliance at compile time.
var _ music.Catalog = (*Client)(nil)

var defaultHTTP = &http.Client{Timeout: 10 * time.Second}

// envelope mirrors every catalog response.
type envelope struct {
	Success bool          `json:"success"`
	Error   string        `json:"error"`
	Message string        `json:"message"`
	Track   *music.Track  `json:"track"`
	Tracks  []music.Track `json:"tracks"`
	Genres  []string      `json:"genres"`
	Moods   []string      `json:"moods"`
}

// Health is the payload of the /health endpoint.
type Health struct {
	Status      string    `json:"status"`
	Version     string    `json:"version"`
	Environment string    `json:"environment"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
}

// RandomTrack asks the catalog for a single random track. The exclusion list
// in f is sent as a comma separated excludeIds parameter. The catalog answers
// 404 when nothing matches; that is reported as a nil track and nil error.
func (c *Client) RandomTrack(ctx context.Context, f music.Filter) (*music.Track, error) {
	env, err := c.call(ctx, "random", "/random", encodeFilter(f, randomParams), true)
	if err != nil {
		return nil, err
	}
	return env.Track, nil
}

// RandomTracks asks for count random tracks. count must be positive; the
// catalog may return fewer, or none at all.
func (c *Client) RandomTracks(ctx context.Context, count int, f music.Filter) ([]music.Track, error) {
	if count <= 0 {
		err := &Error{Kind: KindInvalidRequest, Endpoint: "random_multiple", Message: fmt.Sprintf("count must be positive, got %d", count)}
		c.fail(err)
		return nil, err
	}
	env, err := c.call(ctx, "random_multiple", "/random/"+strconv.Itoa(count), encodeFilter(f, multipleParams), true)
	if err != nil {
		return nil, err
	}
	return env.Tracks, nil
}

// Search runs a free text search. An empty query is allowed and simply
// leaves q off the request.
func (c *Client) Search(ctx context.Context, f music.Filter) ([]music.Track, error) {
	env, err := c.call(ctx, "search", "/search", encodeFilter(f, searchParams), false)
	if err != nil {
		return nil, err
	}
	return env.Tracks, nil
}

// Genres lists the genres the catalog knows about.
func (c *Client) Genres(ctx context.Context) ([]string, error) {
	env, err := c.call(ctx, "genres", "/genres", nil, false)
	if err != nil {
		return nil, err
	}
	return env.Genres, nil
}

// Moods lists the moods the catalog knows about.
func (c *Client) Moods(ctx context.Context) ([]string, error) {
	env, err := c.call(ctx, "moods", "/moods", nil, false)
	if err != nil {
		return nil, err
	}
	return env.Moods, nil
}

// Health reports whether the catalog is up. The health endpoint does not
// use the success envelope so only the HTTP status is checked.
func (c *Client) Health(ctx context.Context) (Health, error) {
	start := time.Now()
	var h Health
	err := c.fetch(ctx, "health", "/health", nil, &h)
	c.finish("health", start, err)
	if err != nil {
		return Health{}, err
	}
	return h, nil
}

// call performs the request and validates the success flag. With
// notFoundEmpty set, a 404 carrying an unsuccessful envelope is the catalog's
// way of saying nothing matched and yields an empty envelope.
func (c *Client) call(ctx context.Context, endpoint, path string, params url.Values, notFoundEmpty bool) (*envelope, error) {
	start := time.Now()
	var env envelope
	err := c.fetch(ctx, endpoint, path, params, &env)
	if err == nil && !env.Success {
		err = &Error{Kind: KindAPI, Endpoint: endpoint, Message: envelopeMessage(&env)}
	}
	var ce *Error
	if notFoundEmpty && errors.As(err, &ce) && ce.Kind == KindAPI && ce.StatusCode == http.StatusNotFound {
		c.logger().WithFields(logrus.Fields{"endpoint": endpoint, "server_error": ce.Message}).Info("no matching tracks")
		c.Metrics.observe(endpoint, "no_match", time.Since(start))
		return &envelope{Success: true}, nil
	}
	c.finish(endpoint, start, err)
	if err != nil {
		return nil, err
	}
	return &env, nil
}

// fetch issues the GET and decodes a 2xx body into v. A non-2xx body that is
// a well-formed unsuccessful envelope is reported as KindAPI with the
// server's text; anything else is KindStatus.
func (c *Client) fetch(ctx context.Context, endpoint, path string, params url.Values, v any) error {
	u := c.baseURL() + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &Error{Kind: KindInvalidRequest, Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return &Error{Kind: KindTransport, Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return &Error{Kind: KindTransport, Endpoint: endpoint, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env envelope
		if json.Unmarshal(body, &env) == nil && !env.Success && (env.Error != "" || env.Message != "") {
			return &Error{Kind: KindAPI, Endpoint: endpoint, StatusCode: resp.StatusCode, Message: envelopeMessage(&env)}
		}
		return &Error{Kind: KindStatus, Endpoint: endpoint, StatusCode: resp.StatusCode, Message: resp.Status}
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &Error{Kind: KindDecode, Endpoint: endpoint, StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}

// envelopeMessage joins the summary and the detail the catalog sends with an
// unsuccessful response, e.g. "Failed to get random track: disk full".
func envelopeMessage(env *envelope) string {
	switch {
	case env.Error != "" && env.Message != "":
		return env.Error + ": " + env.Message
	case env.Error != "":
		return env.Error
	case env.Message != "":
		return env.Message
	}
	return "request unsuccessful"
}

// finish records metrics and logs failures.
func (c *Client) finish(endpoint string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		var ce *Error
		if errors.As(err, &ce) {
			outcome = ce.Kind.String()
		}
		c.fail(err)
	}
	c.Metrics.observe(endpoint, outcome, time.Since(start))
}

func (c *Client) fail(err error) {
	entry := c.logger().WithError(err)
	var ce *Error
	if errors.As(err, &ce) {
		entry = entry.WithFields(logrus.Fields{"endpoint": ce.Endpoint, "kind": ce.Kind.String()})
		if ce.StatusCode != 0 {
			entry = entry.WithField("status", ce.StatusCode)
		}
		if ce.Message != "" {
			entry = entry.WithField("server_error", ce.Message)
		}
	}
	entry.Error("catalog request failed")
}

func (c *Client) baseURL() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(c.BaseURL, "/")
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		return defaultHTTP
	}
	return c.HTTP
}

func (c *Client) logger() logrus.FieldLogger {
	if c.Log == nil {
		return logrus.StandardLogger()
	}
	return c.Log
}
