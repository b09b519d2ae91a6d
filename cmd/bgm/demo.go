package main

import (
	"context"

	"BGM-Picker-Go/pkg/music"
)

// demoPick is one request in the demo editing session.
type demoPick struct {
	label       string
	duration    float64
	contentType string
	mood        string
}

var demoSession = []demoPick{
	{"Workout clip", 60, "workout", "energetic"},
	{"Meditation clip", 180, "meditation", "calm"},
	{"Tech review", 45, "Tech", ""},
}

// runDemo exercises every operation once. Catalog failures only show up as
// empty results; the demo itself never fails.
func (app *application) runDemo(ctx context.Context) {
	app.print.Heading("Catalog")
	if genres, err := app.catalog.Genres(ctx); err != nil {
		app.print.Warn(failureText("No genres available", err))
	} else {
		app.print.List("Genres", genres)
	}
	if moods, err := app.catalog.Moods(ctx); err != nil {
		app.print.Warn(failureText("No moods available", err))
	} else {
		app.print.List("Moods", moods)
	}

	var first *music.Track
	for _, p := range demoSession {
		app.print.Heading(p.label)
		t, err := app.selector.SelectBackgroundMusic(ctx, p.duration, p.contentType, p.mood)
		app.showPick(t, err)
		if first == nil && t != nil {
			first = t
		}
	}
	app.showExcluded()

	app.print.Heading("Options for a lifestyle video")
	tracks, err := app.selector.MusicOptions(ctx, "lifestyle", 3)
	app.showTracks(tracks, err)

	app.print.Heading(`Search "upbeat" from 120 BPM`)
	tracks, err = app.selector.SearchForSpecificMusic(ctx, "upbeat", &music.BPMRange{Min: 120, Max: 140})
	app.showTracks(tracks, err)

	if first != nil && first.License != "" {
		app.print.Heading("Attribution")
		app.print.Attribution(music.Attribute(*first))
	}
}
