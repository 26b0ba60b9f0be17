package geocode

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lehigh-university-libraries/phototagger/internal/metrics"
)

// ErrNoMatch is returned by a Geocoder when the service answered but has no
// address for the coordinates.
var ErrNoMatch = errors.New("no location found")

// Address is the structured result of a reverse geocoding lookup. Any field
// may be empty.
type Address struct {
	City         string
	Town         string
	Village      string
	Municipality string
	State        string
	Country      string
}

// Locality returns the most specific populated-place name, in the fixed
// precedence order city > town > village > municipality.
func (a Address) Locality() string {
	switch {
	case a.City != "":
		return a.City
	case a.Town != "":
		return a.Town
	case a.Village != "":
		return a.Village
	default:
		return a.Municipality
	}
}

// Geocoder resolves coordinates to a structured address.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (Address, error)
}

// usCountryNames are the country strings treated as the United States for
// caption formatting.
var usCountryNames = map[string]bool{
	"United States":            true,
	"USA":                      true,
	"United States of America": true,
}

// FormatPlace renders an address as the caption place string.
//
// For US addresses: "<city>, <state>", or "<state>" alone, or "USA".
// Otherwise: "<city>, <country>", or the country alone, or "Unknown".
func FormatPlace(addr Address) string {
	city := addr.Locality()

	if usCountryNames[addr.Country] {
		switch {
		case city != "" && addr.State != "":
			return city + ", " + addr.State
		case addr.State != "":
			return addr.State
		}
		return "USA"
	}

	if city != "" && addr.Country != "" {
		return city + ", " + addr.Country
	}
	if addr.Country != "" {
		return addr.Country
	}
	return "Unknown"
}

// Resolver wraps a Geocoder with a bounded retry policy and the caption
// formatting rules. It is safe to reuse across images.
type Resolver struct {
	geocoder Geocoder
	attempts int
	backoff  time.Duration
}

func NewResolver(g Geocoder, attempts int, backoff time.Duration) *Resolver {
	if attempts < 1 {
		attempts = 1
	}
	return &Resolver{geocoder: g, attempts: attempts, backoff: backoff}
}

// ResolvePlace reverse-geocodes the coordinates into a formatted place name.
// ok is false when the service has no match or fails on every attempt; the
// caller proceeds without a place string, so a flaky geocoder never aborts a
// tagging operation.
func (r *Resolver) ResolvePlace(ctx context.Context, lat, lon float64) (string, bool) {
	for attempt := 1; attempt <= r.attempts; attempt++ {
		start := time.Now()
		addr, err := r.geocoder.Reverse(ctx, lat, lon)
		metrics.GeocodeDuration.Observe(time.Since(start).Seconds())

		if err == nil {
			metrics.GeocodeRequests.WithLabelValues("ok").Inc()
			return FormatPlace(addr), true
		}
		if errors.Is(err, ErrNoMatch) {
			metrics.GeocodeRequests.WithLabelValues("no_match").Inc()
			slog.Info("no location found for coordinates", "lat", lat, "lon", lon)
			return "", false
		}

		metrics.GeocodeRequests.WithLabelValues("error").Inc()
		slog.Warn("error reverse geocoding coordinates", "attempt", attempt, "error", err)

		if attempt < r.attempts {
			select {
			case <-ctx.Done():
				return "", false
			case <-time.After(r.backoff):
			}
		}
	}
	return "", false
}
