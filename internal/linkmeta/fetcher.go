// Package linkmeta fetches a page and extracts the preview shown under a
// post: title, description, image and site name, preferring OpenGraph tags.
package linkmeta

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/rize-social/rize/internal/model"
	"github.com/rize-social/rize/internal/observability"
	"github.com/rize-social/rize/internal/outbound"
)

const maxBody = 1 << 20

type Meta struct {
	Title       string
	Description string
	ImageURL    string
	SiteName    string
}

type Fetcher struct {
	Client  *http.Client
	Timeout time.Duration
}

// NewFetcher fetches public addresses only; allow exempts internal ranges.
func NewFetcher(timeout time.Duration, allow ...netip.Prefix) *Fetcher {
	return &Fetcher{
		Client:  outbound.NewClient(outbound.Options{MaxRedirects: 5, Allow: allow}),
		Timeout: timeout,
	}
}

// Fetch downloads rawURL and parses its metadata. Every failure wraps
// model.ErrLinkFetch.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (meta Meta, err error) {
	start := time.Now()
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
		}
		observability.LinkFetchDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
	}()

	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Meta{}, fmt.Errorf("%w: invalid url %q", model.ErrLinkFetch, rawURL)
	}

	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Meta{}, fmt.Errorf("%w: %v", model.ErrLinkFetch, err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("User-Agent", "RizeLinkPreview/1.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return Meta{}, fmt.Errorf("%w: %w", model.ErrLinkFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Meta{}, fmt.Errorf("%w: status %d", model.ErrLinkFetch, resp.StatusCode)
	}
	if mt, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type")); mt != "text/html" && mt != "application/xhtml+xml" {
		return Meta{}, fmt.Errorf("%w: content type %q", model.ErrLinkFetch, mt)
	}

	meta, err = Parse(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return Meta{}, fmt.Errorf("%w: %v", model.ErrLinkFetch, err)
	}
	if meta.SiteName == "" {
		meta.SiteName = u.Hostname()
	}
	if meta.ImageURL != "" {
		meta.ImageURL = resolve(u, meta.ImageURL)
	}
	return meta, nil
}

// Parse extracts metadata from an HTML document. OpenGraph values win over
// <title> and the plain description meta tag.
func Parse(r io.Reader) (Meta, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return Meta{}, err
	}

	var (
		meta      Meta
		title     string
		plainDesc string
	)
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				key, content := metaPair(n)
				switch key {
				case "og:title":
					meta.Title = content
				case "og:description":
					meta.Description = content
				case "og:image", "og:image:url":
					if meta.ImageURL == "" {
						meta.ImageURL = content
					}
				case "og:site_name":
					meta.SiteName = content
				case "description":
					plainDesc = content
				}
			case "body":
				// Metadata lives in <head>.
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if meta.Title == "" {
		meta.Title = title
	}
	if meta.Description == "" {
		meta.Description = plainDesc
	}
	return meta, nil
}

func metaPair(n *html.Node) (key, content string) {
	for _, a := range n.Attr {
		switch strings.ToLower(a.Key) {
		case "property", "name":
			if key == "" {
				key = strings.ToLower(strings.TrimSpace(a.Val))
			}
		case "content":
			content = strings.TrimSpace(a.Val)
		}
	}
	return key, content
}

func resolve(base *url.URL, ref string) string {
	r, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return base.ResolveReference(r).String()
}
