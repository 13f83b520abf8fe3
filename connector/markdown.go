package connector

import (
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// newMarkdownConverter returns a converter emitting ATX headings and "-" bullets.
func newMarkdownConverter() *md.Converter {
	return md.NewConverter("", true, &md.Options{
		HeadingStyle:     "atx",
		BulletListMarker: "-",
	})
}

// ToMarkdown converts an HTML fragment to markdown.
func ToMarkdown(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}
	out, err := newMarkdownConverter().ConvertString(html)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// SelectionToMarkdown converts a parsed node and its children to markdown.
func SelectionToMarkdown(sel *goquery.Selection) string {
	return strings.TrimSpace(newMarkdownConverter().Convert(sel))
}
