package catalog

import (
	"net/url"
	"strconv"
	"strings"

	"BGM-Picker-Go/pkg/music"
)

// param selects which Filter fields an endpoint accepts.
type param uint8

const (
	paramGenre param = 1 << iota
	paramMood
	paramDuration
	paramBPM
	paramKey
	paramExclude
	paramQuery
)

const (
	randomParams   = paramGenre | paramMood | paramDuration | paramBPM | paramKey | paramExclude
	multipleParams = paramGenre | paramMood | paramDuration | paramBPM | paramKey
	searchParams   = paramQuery | paramGenre | paramMood | paramDuration | paramBPM
)

// encodeFilter turns f into query parameters, leaving out anything not
// supplied and anything the endpoint does not accept.
func encodeFilter(f music.Filter, allowed param) url.Values {
	v := url.Values{}
	if allowed&paramQuery != 0 && f.Query != "" {
		v.Set("q", f.Query)
	}
	if allowed&paramGenre != 0 && !f.Genre.IsAny() {
		v.Set("genre", string(f.Genre))
	}
	if allowed&paramMood != 0 && f.Mood != "" {
		v.Set("mood", f.Mood)
	}
	if allowed&paramDuration != 0 && f.Duration > 0 {
		v.Set("duration", strconv.FormatFloat(f.Duration, 'f', -1, 64))
	}
	if allowed&paramBPM != 0 && f.BPM > 0 {
		v.Set("bpm", strconv.Itoa(f.BPM))
	}
	if allowed&paramKey != 0 && f.Key != "" {
		v.Set("key", f.Key)
	}
	if allowed&paramExclude != 0 && len(f.ExcludeIDs) > 0 {
		v.Set("excludeIds", strings.Join(f.ExcludeIDs, ","))
	}
	return v
}
