package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// disambiguationOptions fetches the rendered disambiguation page and
// extracts the candidate article titles it links to, in page order.
func (c *Client) disambiguationOptions(ctx context.Context, title string) ([]string, error) {
	params := url.Values{}
	params.Set("action", "parse")
	params.Set("page", title)
	params.Set("prop", "text")
	params.Set("redirects", "1")

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Parse struct {
			Title string `json:"title"`
			Text  string `json:"text"`
		} `json:"parse"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode parse response: %w", err)
	}
	if resp.Parse.Text == "" {
		return nil, fmt.Errorf("empty parse text for %q", title)
	}

	return parseDisambiguationHTML(resp.Parse.Text, title)
}

// parseDisambiguationHTML pulls candidate titles out of a disambiguation
// page body. Candidates are the first links of the list items; nav boxes,
// anchors, and non-article namespaces are skipped.
func parseDisambiguationHTML(html, pageTitle string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse disambiguation HTML: %w", err)
	}

	seen := make(map[string]bool)
	var options []string

	doc.Find("li a[title]").Each(func(_ int, s *goquery.Selection) {
		title, ok := s.Attr("title")
		if !ok || title == "" || title == pageTitle {
			return
		}
		if !isArticleTitle(title) {
			return
		}
		// Only the first link of each list item names the candidate;
		// later links are context.
		if s.ParentsFiltered("li").First().Find("a[title]").First().AttrOr("title", "") != title {
			return
		}
		if !seen[title] {
			seen[title] = true
			options = append(options, title)
		}
	})

	return options, nil
}

// isArticleTitle filters out non-article namespaces and meta pages that
// appear as links on disambiguation pages.
func isArticleTitle(title string) bool {
	for _, prefix := range []string{"Help:", "Wikipedia:", "Talk:", "Special:", "Category:", "Template:", "Portal:", "File:"} {
		if strings.HasPrefix(title, prefix) {
			return false
		}
	}
	return !strings.HasSuffix(title, "(disambiguation)")
}
