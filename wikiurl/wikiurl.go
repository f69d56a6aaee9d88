package wikiurl

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"wikiviews/models"
)

// Input validation errors.
var (
	ErrInvalidURL = errors.New("invalid Wikipedia article URL")
	ErrDateFormat = errors.New("invalid date, expected YYYY-MM-DD")
)

const wikiPathPrefix = "/wiki/"

// DateLayout is the strict input format for range bounds.
const DateLayout = "2006-01-02"

// ExtractTitle returns the article title from a Wikipedia article URL.
// Only URLs whose path starts with /wiki/ are accepted; the remainder
// of the path is the title, URL-decoded.
func ExtractTitle(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	if !strings.HasPrefix(parsed.Path, wikiPathPrefix) {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, rawURL)
	}

	title := strings.TrimPrefix(parsed.Path, wikiPathPrefix)
	if title == "" {
		return "", fmt.Errorf("%w: missing article title", ErrInvalidURL)
	}

	return title, nil
}

// ParseDateRange parses both range bounds with strict YYYY-MM-DD
// parsing. Start exceeding end is not rejected here; the upstream API
// answers such a range with zero items.
func ParseDateRange(startStr, endStr string) (models.DateRange, error) {
	start, err := time.Parse(DateLayout, startStr)
	if err != nil {
		return models.DateRange{}, fmt.Errorf("%w: %q", ErrDateFormat, startStr)
	}

	end, err := time.Parse(DateLayout, endStr)
	if err != nil {
		return models.DateRange{}, fmt.Errorf("%w: %q", ErrDateFormat, endStr)
	}

	return models.DateRange{Start: start, End: end}, nil
}
