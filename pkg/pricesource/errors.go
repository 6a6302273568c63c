package pricesource

import (
	"fmt"

	"metalwatch/internal/metals"
)

// Reasons carried by ParseError.
const (
	ReasonSectionNotFound = "section not found"
	ReasonRowNotFound     = "price row not found"
	ReasonInvalidPrice    = "invalid price"
)

// FetchError means the source page could not be retrieved: transport failure,
// timeout or a non-2xx status (StatusCode is 0 when no response arrived).
type FetchError struct {
	Commodity  metals.Commodity
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s price from %s: status %d: %v", e.Commodity, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s price from %s: %v", e.Commodity, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError means the page was retrieved but its layout no longer matches.
type ParseError struct {
	Commodity metals.Commodity
	URL       string
	Reason    string
	Detail    string
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parse %s price from %s: %s", e.Commodity, e.URL, e.Reason)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}
