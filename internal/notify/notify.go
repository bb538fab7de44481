package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"marketbrief/internal/model"
)

const Disclaimer = "Always verify the information and conduct your own analysis before making investment decisions."

// Notifier delivers a finished report somewhere a person will read it.
type Notifier interface {
	Notify(ctx context.Context, r *model.Report) error
}

func Format(r *model.Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Stock News Agent: %s (%s)\n\n", r.Ticker, r.CreatedAt.Format("2006-01-02 15:04 MST"))
	sb.WriteString("AI Analysis and Suggestions\n")
	sb.WriteString(r.Result.Text)
	sb.WriteString("\n")

	if len(r.Sentiments) > 0 {
		sb.WriteString("\nSentiment Analysis:\n")
		for _, s := range r.Sentiments {
			fmt.Fprintf(&sb, "%s - Sentiment: %.4f\n", s.Article, s.Score)
		}
		sb.WriteString("\nSummaries:\n")
		for _, s := range r.Sentiments {
			fmt.Fprintf(&sb, "%s - Summary: %s\n", s.Article, s.Preview)
		}
	}

	sb.WriteString("\nDYOR (Do Your Own Research)\n")
	sb.WriteString(Disclaimer)
	sb.WriteString("\n")
	return sb.String()
}

type Console struct {
	w io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Notify(ctx context.Context, r *model.Report) error {
	_, err := io.WriteString(c.w, Format(r))
	return err
}

// Multi delivers to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, r *model.Report) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
