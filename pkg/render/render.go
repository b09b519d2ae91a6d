// Package render formats catalog results for the terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"BGM-Picker-Go/pkg/music"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))

	trackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(0, 1)
)

// Printer writes styled output to W.
type Printer struct {
	W io.Writer
}

// Heading prints a section title.
func (p Printer) Heading(title string) {
	fmt.Fprintln(p.W)
	fmt.Fprintln(p.W, titleStyle.Render(title))
}

// Track prints a single track with its metadata.
func (p Printer) Track(t *music.Track) {
	if t == nil {
		p.Empty("No track found")
		return
	}
	fmt.Fprintln(p.W, boxStyle.Render(TrackSummary(*t)))
}

// Tracks prints a numbered list. An empty list prints a notice instead.
func (p Printer) Tracks(tracks []music.Track) {
	if len(tracks) == 0 {
		p.Empty("No tracks found")
		return
	}
	for i, t := range tracks {
		fmt.Fprintf(p.W, "%2d. %s\n", i+1, TrackLine(t))
	}
}

// List prints a comma separated list of names.
func (p Printer) List(label string, items []string) {
	if len(items) == 0 {
		p.Empty("No " + strings.ToLower(label) + " available")
		return
	}
	fmt.Fprintf(p.W, "%s %s\n", dimStyle.Render(label+":"), strings.Join(items, ", "))
}

// Attribution prints the credit line and usage notes for a track.
func (p Printer) Attribution(a music.Attribution) {
	lines := []string{a.Text, "", dimStyle.Render(a.LicenseInfo)}
	req := "not required"
	if a.Required {
		req = "required"
	}
	lines = append(lines,
		fmt.Sprintf("Attribution: %s", req),
		fmt.Sprintf("Commercial use: %s", a.CommercialNote),
		fmt.Sprintf("Modification: %s", a.ModificationNote),
	)
	if !a.CommercialAllowed {
		lines = append(lines, warningStyle.Render("Check the license before commercial use."))
	}
	fmt.Fprintln(p.W, boxStyle.Render(strings.Join(lines, "\n")))
}

// Empty prints a dimmed notice.
func (p Printer) Empty(msg string) {
	fmt.Fprintln(p.W, dimStyle.Render(msg))
}

// Warn prints a highlighted notice.
func (p Printer) Warn(msg string) {
	fmt.Fprintln(p.W, warningStyle.Render(msg))
}

// TrackLine is the one-line form used in lists.
func TrackLine(t music.Track) string {
	line := trackStyle.Render(t.Title) + " - " + t.Artist
	if meta := meta(t); meta != "" {
		line += " " + dimStyle.Render("("+meta+")")
	}
	return line
}

// TrackSummary is the multi-line form used for a single pick.
func TrackSummary(t music.Track) string {
	lines := []string{
		trackStyle.Render(t.Title) + " by " + t.Artist,
	}
	if meta := meta(t); meta != "" {
		lines = append(lines, meta)
	}
	if t.License != "" {
		lines = append(lines, "License: "+t.License)
	}
	lines = append(lines, dimStyle.Render("id "+t.ID))
	return strings.Join(lines, "\n")
}

func meta(t music.Track) string {
	var parts []string
	if t.Duration > 0 {
		parts = append(parts, t.Duration.String())
	}
	if t.BPM > 0 {
		parts = append(parts, fmt.Sprintf("%g BPM", t.BPM))
	}
	if t.Key != "" {
		parts = append(parts, t.Key)
	}
	if t.Genre != "" {
		parts = append(parts, t.Genre)
	}
	if t.Mood != "" {
		parts = append(parts, t.Mood)
	}
	return strings.Join(parts, ", ")
}
