package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
)

// linkFetchTimeout bounds the article download.
const linkFetchTimeout = 30 * time.Second

// linkContentLimit bounds how much article text is sent for
// summarization.
const linkContentLimit = 8000

// LinkContent is the extracted article.
type LinkContent struct {
	Title   string
	Content string
}

// LinkExtractor fetches and extracts readable article content.
type LinkExtractor interface {
	Extract(ctx context.Context, url string) (LinkContent, error)
}

// ReadabilityExtractor implements LinkExtractor with go-readability.
type ReadabilityExtractor struct{}

// Extract downloads the page and strips it down to title and text.
func (ReadabilityExtractor) Extract(ctx context.Context, url string) (LinkContent, error) {
	article, err := readability.FromURL(url, linkFetchTimeout)
	if err != nil {
		return LinkContent{}, fmt.Errorf("extracting %s: %w", url, err)
	}

	content := strings.TrimSpace(article.TextContent)
	if len(content) > linkContentLimit {
		content = content[:linkContentLimit]
	}
	if content == "" {
		return LinkContent{}, fmt.Errorf("no readable content at %s", url)
	}

	return LinkContent{Title: strings.TrimSpace(article.Title), Content: content}, nil
}

// firstURL returns the first http(s) token in the text, or "".
func firstURL(text string) string {
	for _, word := range strings.Fields(text) {
		if strings.HasPrefix(word, "http://") || strings.HasPrefix(word, "https://") {
			return word
		}
	}
	return ""
}

var _ LinkExtractor = (ReadabilityExtractor{})
