package music

import (
	"fmt"
	"html"
)

// Licenses with known usage terms.
const (
	LicenseCCBY4   = "CC BY 4.0"
	LicenseCCBYSA3 = "CC BY-SA 3.0"
	LicenseCC0     = "CC0"
)

var defaultLicenseURLs = map[string]string{
	LicenseCCBY4:   "https://creativecommons.org/licenses/by/4.0/",
	LicenseCCBYSA3: "https://creativecommons.org/licenses/by-sa/3.0/",
	LicenseCC0:     "https://creativecommons.org/publicdomain/zero/1.0/",
}

// Attribution is the credit line and usage guidance for a track.
type Attribution struct {
	Text        string `json:"text"`
	HTML        string `json:"html"`
	License     string `json:"license"`
	LicenseURL  string `json:"licenseUrl,omitempty"`
	LicenseInfo string `json:"licenseInfo"`
	Source      string `json:"source,omitempty"`
	SourceURL   string `json:"sourceUrl,omitempty"`

	Required            bool   `json:"attributionRequired"`
	CommercialAllowed   bool   `json:"commercialAllowed"`
	CommercialNote      string `json:"commercialNote"`
	ModificationAllowed bool   `json:"modificationAllowed"`
	ModificationNote    string `json:"modificationNote"`
}

// Attribute builds the credit text for t. Tracks without a source are
// credited to "Music catalog".
func Attribute(t Track) Attribution {
	source := t.Source
	if source == "" {
		source = "Music catalog"
	}
	a := Attribution{
		License:    t.License,
		LicenseURL: t.LicenseURL,
		Source:     source,
		SourceURL:  t.SourceURL,
	}
	if a.LicenseURL == "" {
		a.LicenseURL = defaultLicenseURLs[t.License]
	}
	linkURL := a.LicenseURL
	if linkURL == "" {
		linkURL = "#"
	}
	srcURL := t.SourceURL
	if srcURL == "" {
		srcURL = "#"
	}
	title := html.EscapeString(t.Title)
	artist := html.EscapeString(t.Artist)
	titleLink := fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(srcURL), title)
	licenseLink := fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(linkURL), html.EscapeString(t.License))
	src := html.EscapeString(source)

	switch t.License {
	case LicenseCCBY4, LicenseCCBYSA3:
		a.Text = fmt.Sprintf("%s by %s is licensed under %s. Source: %s", t.Title, t.Artist, t.License, source)
		a.HTML = fmt.Sprintf("%s by %s is licensed under %s. Source: %s", titleLink, artist, licenseLink, src)
		if t.License == LicenseCCBY4 {
			a.LicenseInfo = "Creative Commons Attribution 4.0 International License - You must give appropriate credit, provide a link to the license, and indicate if changes were made."
		} else {
			a.LicenseInfo = "Creative Commons Attribution-ShareAlike 3.0 License - You must give appropriate credit, provide a link to the license, and indicate if changes were made. If you remix, transform, or build upon the material, you must distribute your contributions under the same license."
		}
	case LicenseCC0:
		a.Text = fmt.Sprintf("%s by %s is in the public domain (CC0). Source: %s", t.Title, t.Artist, source)
		a.HTML = fmt.Sprintf("%s by %s is in the public domain (%s). Source: %s", titleLink, artist, licenseLink, src)
		a.LicenseInfo = "Creative Commons Zero (CC0) - This work has been dedicated to the public domain. You can use it freely without attribution, though attribution is appreciated."
	default:
		a.Text = fmt.Sprintf("%s by %s. Source: %s. License: %s", t.Title, t.Artist, source, t.License)
		a.HTML = fmt.Sprintf("%s by %s. Source: %s. License: %s", titleLink, artist, src, licenseLink)
		a.LicenseInfo = "Please check the specific license terms on the original source website."
	}

	_, known := defaultLicenseURLs[t.License]
	a.Required = t.License != LicenseCC0
	a.CommercialAllowed = known
	a.ModificationAllowed = known
	a.CommercialNote = "Commercial use is allowed with proper attribution."
	if t.License == LicenseCC0 {
		a.CommercialNote = "Commercial use is allowed without restrictions."
	}
	a.ModificationNote = "Modifications are allowed with proper attribution."
	if t.License == LicenseCCBYSA3 {
		a.ModificationNote = "Modifications are allowed, but you must share under the same license."
	}
	return a
}
