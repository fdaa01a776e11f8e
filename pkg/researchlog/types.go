package researchlog

import (
	"strconv"
	"time"
)

// DateLayout is the layout used for generated article dates. It matches the
// ISO-8601 form produced by browsers, e.g. 2024-03-05T09:15:00.000Z.
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

// Article is a persisted research-log document.
type Article struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Date    string `json:"date"`
}

// ArticleSummary is the projection returned when listing articles.
type ArticleSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"`
	Year  string `json:"year"`
	Month string `json:"month"`
}

// StoredAsset describes an uploaded asset.
type StoredAsset struct {
	FileName string `json:"fileName"`
	URL      string `json:"url"`
}

// Asset is an asset read back from storage.
type Asset struct {
	FileName    string
	ContentType string
	Data        []byte
}

// DeleteReport lists what happened to the assets referenced by a deleted
// article.
type DeleteReport struct {
	ArticleID string
	Removed   []string
	Failed    []AssetFailure
}

// AssetFailure records an asset that could not be removed during a cascade.
type AssetFailure struct {
	FileName string
	Err      error
}

// Summarize projects an article into a list entry. Year and month are left
// empty when the date cannot be parsed.
func Summarize(a *Article) ArticleSummary {
	s := ArticleSummary{
		ID:    a.ID,
		Title: a.Title,
		Date:  a.Date,
	}
	if t, ok := ParseDate(a.Date); ok {
		s.Year = strconv.Itoa(t.Year())
		s.Month = strconv.Itoa(int(t.Month()))
	}
	return s
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate parses an article date. Timestamps carrying a zone are
// converted to UTC; timestamps without one are read as UTC.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// FormatDate formats t the way generated article dates are stored.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
