// Package pricesource scrapes commodity prices out of public rate pages.
package pricesource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"metalwatch/internal/metals"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Page locates one commodity's price on a web page: the element whose title
// attribute equals Title holds a table, and the row whose first cell reads
// ReferenceQuantity carries the price in its second cell.
type Page struct {
	URL               string
	Title             string
	ReferenceQuantity string
}

type Scraper struct {
	pages     map[metals.Commodity]Page
	userAgent string
	timeout   time.Duration
	transport http.RoundTripper
	logger    *zap.Logger
}

func NewScraper(pages map[metals.Commodity]Page, userAgent string, timeout time.Duration, logger *zap.Logger) *Scraper {
	return &Scraper{
		pages:     pages,
		userAgent: userAgent,
		timeout:   timeout,
		transport: http.DefaultTransport,
		logger:    logger,
	}
}

// FetchSnapshot fetches every commodity in metals.All order and stops at the first failure.
func (s *Scraper) FetchSnapshot(ctx context.Context) (metals.Snapshot, error) {
	var snap metals.Snapshot
	for _, c := range metals.All {
		price, err := s.FetchPrice(ctx, c)
		if err != nil {
			return metals.Snapshot{}, err
		}
		if snap, err = snap.With(c, price); err != nil {
			return metals.Snapshot{}, err
		}
	}
	return snap, nil
}

// FetchPrice retrieves the current price of c from its configured page.
// It returns a *FetchError when the page cannot be retrieved and a
// *ParseError when the expected section or row is missing.
func (s *Scraper) FetchPrice(ctx context.Context, c metals.Commodity) (float64, error) {
	page, ok := s.pages[c]
	if !ok {
		return 0, fmt.Errorf("no price source configured for %q", c)
	}

	if err := ctx.Err(); err != nil {
		return 0, &FetchError{Commodity: c, URL: page.URL, Err: err}
	}

	// colly has no context support; the caller's deadline narrows the request timeout instead.
	timeout := s.timeout
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		timeout = time.Until(deadline)
	}

	// A fresh collector per fetch keeps callbacks from piling up across commodities.
	collector := colly.NewCollector(
		colly.UserAgent(s.userAgent),
		colly.AllowURLRevisit(),
	)
	collector.SetRequestTimeout(timeout)
	collector.WithTransport(s.transport)

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
	})

	var status int
	collector.OnError(func(r *colly.Response, _ error) {
		status = r.StatusCode
	})

	var (
		sectionFound bool
		rowFound     bool
		rawPrice     string
	)
	collector.OnHTML(titleSelector(page.Title), func(e *colly.HTMLElement) {
		if sectionFound {
			return
		}
		sectionFound = true
		rawPrice, rowFound = findPriceCell(e.DOM, page.ReferenceQuantity)
	})

	if err := collector.Visit(page.URL); err != nil {
		return 0, &FetchError{Commodity: c, URL: page.URL, StatusCode: status, Err: err}
	}

	if !sectionFound {
		return 0, &ParseError{Commodity: c, URL: page.URL, Reason: ReasonSectionNotFound, Detail: page.Title}
	}
	if !rowFound {
		return 0, &ParseError{Commodity: c, URL: page.URL, Reason: ReasonRowNotFound, Detail: page.ReferenceQuantity}
	}

	price, err := parsePrice(rawPrice)
	if err != nil {
		return 0, &ParseError{Commodity: c, URL: page.URL, Reason: ReasonInvalidPrice, Detail: err.Error()}
	}

	s.logger.Debug("fetched price",
		zap.String("commodity", string(c)),
		zap.String("raw", strings.TrimSpace(rawPrice)),
		zap.Float64("price", price),
	)
	return price, nil
}

func titleSelector(title string) string {
	return `[title="` + strings.ReplaceAll(title, `"`, `\"`) + `"]`
}

// findPriceCell returns the second cell of the first row whose first cell is quantity.
func findPriceCell(section *goquery.Selection, quantity string) (string, bool) {
	var (
		text  string
		found bool
	)
	section.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("th, td")
		if cells.Length() < 2 {
			return true
		}
		if strings.TrimSpace(cells.Eq(0).Text()) != quantity {
			return true
		}
		text = cells.Eq(1).Text()
		found = true
		return false
	})
	return text, found
}

// parsePrice strips currency symbols and grouping separators, e.g. "₹ 1,23,450" or "Rs. 6,250.50".
func parsePrice(raw string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, raw)
	cleaned = strings.TrimLeft(cleaned, ".") // "Rs." prefix

	if cleaned == "" {
		return 0, errors.New("no digits in " + strings.TrimSpace(raw))
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, err
	}
	price, _ := d.Float64()
	return price, nil
}
