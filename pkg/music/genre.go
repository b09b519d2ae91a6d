package music

import "strings"

// Genre is a catalog genre filter. GenreAny leaves the genre unconstrained.
type Genre string

const (
	GenreAny        Genre = ""
	GenreElectronic Genre = "electronic"
	GenreAmbient    Genre = "ambient"
	GenreJazz       Genre = "jazz"
	GenreCinematic  Genre = "cinematic"
	GenreHipHop     Genre = "hip-hop"
)

// ContentType labels what a video is about.
type ContentType string

const (
	ContentWorkout    ContentType = "workout"
	ContentMeditation ContentType = "meditation"
	ContentTech       ContentType = "tech"
	ContentLifestyle  ContentType = "lifestyle"
	ContentAdventure  ContentType = "adventure"
	ContentUrban      ContentType = "urban"
	ContentNature     ContentType = "nature"
	ContentSpace      ContentType = "space"
	ContentGeneral    ContentType = "general"
)

var contentGenres = map[ContentType]Genre{
	ContentWorkout:    GenreElectronic,
	ContentMeditation: GenreAmbient,
	ContentTech:       GenreElectronic,
	ContentLifestyle:  GenreJazz,
	ContentAdventure:  GenreCinematic,
	ContentUrban:      GenreHipHop,
	ContentNature:     GenreAmbient,
	ContentSpace:      GenreAmbient,
	ContentGeneral:    GenreAny,
}

// ContentTypes lists the known labels in display order.
func ContentTypes() []ContentType {
	return []ContentType{
		ContentWorkout, ContentMeditation, ContentTech, ContentLifestyle,
		ContentAdventure, ContentUrban, ContentNature, ContentSpace, ContentGeneral,
	}
}

// GenreFor resolves a content type label case-insensitively. Unknown labels
// resolve to GenreAny.
func GenreFor(contentType string) Genre {
	ct := ContentType(strings.ToLower(strings.TrimSpace(contentType)))
	return contentGenres[ct]
}

// IsAny reports whether g leaves the genre unconstrained.
func (g Genre) IsAny() bool { return g == GenreAny }
