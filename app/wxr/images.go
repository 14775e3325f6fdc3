package wxr

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractImageSources returns the src of every <img> in body, in document order
func ExtractImageSources(body string) ([]string, error) {
	if strings.TrimSpace(body) == "" {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse body HTML: %w", err)
	}

	var sources []string
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok || strings.TrimSpace(src) == "" {
			return
		}
		sources = append(sources, strings.TrimSpace(src))
	})

	return sources, nil
}
