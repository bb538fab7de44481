package model

type Source string

const (
	SourceAlphaVantage Source = "alphavantage"
	SourceFMP          Source = "fmp"
	SourceSEC          Source = "sec"
	SourceSimfin       Source = "simfin"
	SourceFinnhub      Source = "finnhub"
	SourcePolygon      Source = "polygon"
)

const (
	NoTitle   = "No Title"
	NoSummary = "No summary available"
)

var sourceLabels = map[Source]string{
	SourceAlphaVantage: "Alpha Vantage",
	SourceFMP:          "FMP",
	SourceSEC:          "SEC",
	SourceSimfin:       "Simfin",
	SourceFinnhub:      "Finnhub",
	SourcePolygon:      "Polygon",
}

// Label is the name a source is rendered with inside a prompt.
func (s Source) Label() string {
	if label, ok := sourceLabels[s]; ok {
		return label
	}
	return string(s)
}

func (s Source) Valid() bool {
	_, ok := sourceLabels[s]
	return ok
}

type NewsItem struct {
	Source  Source
	Title   string
	Summary string
}

// NewItem applies the placeholder fallbacks for a missing title or summary.
func NewItem(source Source, title, summary string) NewsItem {
	if title == "" {
		title = NoTitle
	}
	if summary == "" {
		summary = NoSummary
	}
	return NewsItem{Source: source, Title: title, Summary: summary}
}

// Line renders the item the way it appears in an analysis prompt.
func (n NewsItem) Line() string {
	return n.Source.Label() + ": " + n.Title + " - " + n.Summary
}
