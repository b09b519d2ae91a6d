package music

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Track is a catalog record. The catalog owns the schema so nothing here is
// validated; fields the catalog does not send are left at their zero value.
type Track struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Artist     string   `json:"artist"`
	Duration   Seconds  `json:"duration,omitempty"`
	BPM        Number   `json:"bpm,omitempty"`
	Key        string   `json:"key,omitempty"`
	Genre      string   `json:"genre,omitempty"`
	Mood       string   `json:"mood,omitempty"`
	License    string   `json:"license,omitempty"`
	LicenseURL string   `json:"licenseUrl,omitempty"`
	Source     string   `json:"source,omitempty"`
	SourceURL  string   `json:"sourceUrl,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// Seconds is a track length. The catalog reports it either as a number of
// seconds or as a "m:ss" string, so both are accepted when decoding. A value
// that is neither decodes as zero rather than failing the whole response.
type Seconds int

// UnmarshalJSON accepts 225, 225.4, "225" and "3:45".
func (s *Seconds) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*s = 0
	switch v := raw.(type) {
	case float64:
		*s = Seconds(v)
	case string:
		if n, err := ParseSeconds(v); err == nil {
			*s = n
		} else if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			*s = Seconds(f)
		}
	}
	return nil
}

// Number is a numeric track field such as bpm. Numeric strings are accepted;
// anything else decodes as zero.
type Number float64

// UnmarshalJSON accepts 120, 120.5 and "120".
func (n *Number) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*n = 0
	switch v := raw.(type) {
	case float64:
		*n = Number(v)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			*n = Number(f)
		}
	}
	return nil
}

// ParseSeconds parses "m:ss", "h:mm:ss" or a plain number of seconds.
func ParseSeconds(str string) (Seconds, error) {
	str = strings.TrimSpace(str)
	if str == "" {
		return 0, nil
	}
	total := 0
	for _, part := range strings.Split(str, ":") {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("duration %q: invalid component %q", str, part)
		}
		total = total*60 + n
	}
	return Seconds(total), nil
}

// String formats the length as m:ss.
func (s Seconds) String() string {
	return fmt.Sprintf("%d:%02d", int(s)/60, int(s)%60)
}

// Filter carries the optional criteria of a single catalog request. Zero
// values mean "not supplied" and are never put on the wire.
type Filter struct {
	Genre      Genre
	Mood       string
	Duration   float64 // seconds, fractions allowed
	BPM        int
	Key        string
	ExcludeIDs []string
	Query      string
}

// BPMRange is an inclusive tempo window.
type BPMRange struct {
	Min int
	Max int
}

// Reference describes a known song used to seed a query. Key is a bare
// pitch class ("C", "F#") as the catalog stores keys; Mode ("major" or
// "minor") is informational and never sent.
type Reference struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	BPM    int    `json:"bpm"`
	Key    string `json:"key,omitempty"`
	Mode   string `json:"mode,omitempty"`
}
