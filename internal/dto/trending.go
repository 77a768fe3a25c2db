package dto

// TrendingRow is the editor-facing trending entry with its raw 24h
// pageview count attached.
type TrendingRow struct {
	ArticleSummary
	Views24h int64 `json:"views24h"`
}
