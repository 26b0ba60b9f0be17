package geocode

import (
	"context"
	"errors"
	"testing"
)

func TestFormatPlace(t *testing.T) {
	tests := []struct {
		name     string
		addr     Address
		expected string
	}{
		{
			name:     "US city and state",
			addr:     Address{City: "Springfield", State: "Illinois", Country: "United States"},
			expected: "Springfield, Illinois",
		},
		{
			name:     "US state only",
			addr:     Address{State: "Montana", Country: "United States"},
			expected: "Montana",
		},
		{
			name:     "US with neither city nor state",
			addr:     Address{Country: "United States"},
			expected: "USA",
		},
		{
			name:     "US long-form country name",
			addr:     Address{City: "Boston", State: "Massachusetts", Country: "United States of America"},
			expected: "Boston, Massachusetts",
		},
		{
			name:     "non-US city and country",
			addr:     Address{City: "Paris", Country: "France"},
			expected: "Paris, France",
		},
		{
			name:     "non-US country only",
			addr:     Address{Country: "Iceland"},
			expected: "Iceland",
		},
		{
			name:     "nothing at all",
			addr:     Address{},
			expected: "Unknown",
		},
		{
			name:     "town outranks village",
			addr:     Address{Town: "Shibuya", Village: "ignored", Country: "Japan"},
			expected: "Shibuya, Japan",
		},
		{
			name:     "municipality as last resort",
			addr:     Address{Municipality: "Usquert", Country: "Netherlands"},
			expected: "Usquert, Netherlands",
		},
		{
			name:     "non-US city without country",
			addr:     Address{City: "Springfield"},
			expected: "Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatPlace(tt.addr); got != tt.expected {
				t.Errorf("FormatPlace(%+v) = %q, want %q", tt.addr, got, tt.expected)
			}
		})
	}
}

func TestLocality(t *testing.T) {
	addr := Address{City: "a", Town: "b", Village: "c", Municipality: "d"}
	if got := addr.Locality(); got != "a" {
		t.Errorf("city should win, got %q", got)
	}
	addr.City = ""
	if got := addr.Locality(); got != "b" {
		t.Errorf("town should win, got %q", got)
	}
	addr.Town = ""
	if got := addr.Locality(); got != "c" {
		t.Errorf("village should win, got %q", got)
	}
	addr.Village = ""
	if got := addr.Locality(); got != "d" {
		t.Errorf("municipality should win, got %q", got)
	}
}

type fakeGeocoder struct {
	calls   int
	results []func() (Address, error)
}

func (f *fakeGeocoder) Reverse(ctx context.Context, lat, lon float64) (Address, error) {
	i := f.calls
	f.calls++
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	return f.results[i]()
}

func TestResolverRetriesOnce(t *testing.T) {
	g := &fakeGeocoder{results: []func() (Address, error){
		func() (Address, error) { return Address{}, errors.New("boom") },
		func() (Address, error) { return Address{City: "Tokyo", Country: "Japan"}, nil },
	}}
	r := NewResolver(g, 2, 0)

	place, ok := r.ResolvePlace(context.Background(), 35.6, 139.7)
	if !ok {
		t.Fatal("expected the retry to succeed")
	}
	if place != "Tokyo, Japan" {
		t.Errorf("place = %q, want %q", place, "Tokyo, Japan")
	}
	if g.calls != 2 {
		t.Errorf("geocoder called %d times, want 2", g.calls)
	}
}

func TestResolverGivesUpAfterAllAttempts(t *testing.T) {
	g := &fakeGeocoder{results: []func() (Address, error){
		func() (Address, error) { return Address{}, errors.New("boom") },
	}}
	r := NewResolver(g, 2, 0)

	if _, ok := r.ResolvePlace(context.Background(), 0, 0); ok {
		t.Fatal("persistent failure must resolve to absent")
	}
	if g.calls != 2 {
		t.Errorf("geocoder called %d times, want 2", g.calls)
	}
}

func TestResolverNoMatchDoesNotRetry(t *testing.T) {
	g := &fakeGeocoder{results: []func() (Address, error){
		func() (Address, error) { return Address{}, ErrNoMatch },
	}}
	r := NewResolver(g, 2, 0)

	if _, ok := r.ResolvePlace(context.Background(), 0, 0); ok {
		t.Fatal("no match must resolve to absent")
	}
	if g.calls != 1 {
		t.Errorf("geocoder called %d times, want 1 (no retry on a definitive answer)", g.calls)
	}
}
