package content

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"github.com/lysyi3m/wxr-comb/app/config"
)

// Converter turns item HTML into the target text format
type Converter struct {
	format   config.Format
	markdown *md.Converter
}

func NewConverter(format config.Format) *Converter {
	return &Converter{
		format:   format,
		markdown: md.NewConverter("", true, nil),
	}
}

func (c *Converter) Run(html string) (string, error) {
	switch c.format {
	case config.FormatHTML:
		return html, nil
	case config.FormatMarkdown, config.FormatMD:
		out, err := c.markdown.ConvertString(html)
		if err != nil {
			return "", fmt.Errorf("failed to convert to markdown: %w", err)
		}
		return out, nil
	case config.FormatText:
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			return "", fmt.Errorf("failed to parse HTML: %w", err)
		}
		return strings.TrimSpace(doc.Text()), nil
	default:
		return "", fmt.Errorf("%w: %s", config.ErrUnknownFormat, c.format)
	}
}
