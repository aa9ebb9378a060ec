// Package importer pre-fills stock unit fields from a marketplace
// listing URL. It fetches the page and pulls the title, brand, price,
// condition and size out of OpenGraph/Twitter meta tags and JSON-LD
// Product nodes. Marketplaces ship broken markup often enough that the
// extraction is regex-based and tolerant rather than a strict HTML
// parse.
package importer

import (
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
)

// Imported is the set of suggested field values pulled from a listing
// page. Empty fields mean the page did not expose that value.
type Imported struct {
	Title       string `json:"title"`
	Brand       string `json:"brand"`
	Price       string `json:"price"`
	Condition   string `json:"condition"`
	Size        string `json:"size"`
	Description string `json:"description"`
	Source      string `json:"source"`
	URL         string `json:"url"`
}

type Importer struct {
	client    *resty.Client
	userAgent string
}

func New(userAgent string, timeoutSeconds int) *Importer {
	client := resty.New()
	client.SetTimeout(time.Duration(timeoutSeconds) * time.Second)

	return &Importer{
		client:    client,
		userAgent: userAgent,
	}
}

// Import fetches the listing page and extracts field suggestions.
func (i *Importer) Import(rawURL string) (*Imported, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("only HTTP(S) URLs are supported")
	}

	resp, err := i.client.R().
		SetHeader("User-Agent", i.userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml").
		Get(parsed.String())
	if err != nil {
		return nil, fmt.Errorf("could not fetch listing page: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, fmt.Errorf("could not fetch listing page: status %d", resp.StatusCode())
	}

	imported := Parse(string(resp.Body()))
	imported.URL = parsed.String()
	if imported.Source == "" {
		imported.Source = SourceFromHostname(parsed.Hostname())
	}
	return &imported, nil
}
