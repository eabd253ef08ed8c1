package feed

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// contentSelectors are tried after <article> when extracting the main body
// of a linked page. They cover the class names most publishing platforms use.
var contentSelectors = []string{
	".article-content",
	".article-body",
	".post-content",
	".post-body",
	".entry-content",
	".story-body",
	".content",
	"main",
}

// minParagraphs is the acceptance threshold for extracted page content.
// Anything shorter is usually a cookie wall or a teaser, not the article.
const minParagraphs = 2

// ExtractMainContent pulls the main article body out of a full HTML page.
// It prefers an <article> element, then common content-class selectors, then
// <body>. The extraction fails when the chosen element holds fewer than two
// paragraphs.
func ExtractMainContent(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse page HTML: %w", err)
	}

	sel := doc.Find("article").First()
	if sel.Length() == 0 {
		for _, selector := range contentSelectors {
			if s := doc.Find(selector).First(); s.Length() > 0 {
				sel = s
				break
			}
		}
	}
	if sel.Length() == 0 {
		sel = doc.Find("body").First()
	}
	if sel.Length() == 0 {
		return "", fmt.Errorf("page has no extractable element")
	}

	if sel.Find("p").Length() < minParagraphs {
		return "", fmt.Errorf("extracted content has fewer than %d paragraphs", minParagraphs)
	}

	content, err := sel.Html()
	if err != nil {
		return "", fmt.Errorf("failed to render extracted content: %w", err)
	}
	return strings.TrimSpace(content), nil
}

// FirstImageSrc returns the src of the first <img> inside the given HTML
// fragment, or false when the fragment holds no usable image.
func FirstImageSrc(html string) (string, bool) {
	if html == "" {
		return "", false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", false
	}
	src, ok := doc.Find("img").First().Attr("src")
	if !ok || strings.TrimSpace(src) == "" {
		return "", false
	}
	return strings.TrimSpace(src), true
}
