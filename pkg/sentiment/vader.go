package sentiment

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"

	"marketbrief/internal/model"
)

const (
	positiveThreshold = 0.20
	negativeThreshold = -0.20
	previewChars      = 50
)

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

// Analyzer scores text with the VADER compound polarity in [-1, 1].
type Analyzer struct {
	vader *govader.SentimentIntensityAnalyzer
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{vader: govader.NewSentimentIntensityAnalyzer()}
}

// Score returns 0 for blank input.
func (a *Analyzer) Score(text string) float64 {
	plain := PlainText(text)
	if plain == "" {
		return 0
	}
	return a.vader.PolarityScores(plain).Compound
}

func Label(score float64) string {
	switch {
	case score >= positiveThreshold:
		return "positive"
	case score <= negativeThreshold:
		return "negative"
	default:
		return "neutral"
	}
}

// ScoreItems scores each rendered item line, in order.
func (a *Analyzer) ScoreItems(items []model.NewsItem) []model.SentimentScore {
	scores := make([]model.SentimentScore, 0, len(items))
	for _, item := range items {
		line := item.Line()
		scores = append(scores, model.SentimentScore{
			Article: line,
			Score:   a.Score(line),
			Preview: Preview(line),
		})
	}
	return scores
}

// Preview is the first 50 characters followed by an ellipsis.
func Preview(s string) string {
	r := []rune(s)
	if len(r) > previewChars {
		r = r[:previewChars]
	}
	return string(r) + "..."
}

// PlainText renders markdown and keeps only its text, without links.
func PlainText(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}

	input = linkPattern.ReplaceAllString(input, "$1")
	input = urlPattern.ReplaceAllString(input, "")

	html := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(html)))
	if err != nil {
		return strings.Join(strings.Fields(input), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
