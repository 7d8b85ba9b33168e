package weatherfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCurrentNormalizesConditions(t *testing.T) {
	cases := []struct {
		feed string
		want string
	}{
		{"Light Rain", "rain"},
		{"lluvia fuerte", "rain"},
		{"Thunderstorm", "storm"},
		{"niebla", "fog"},
		{"strong wind", "high_wind"},
		{"sunny", "clear"},
		{"", "clear"},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"condition": "` + tc.feed + `"}`))
		}))

		c, err := New(srv.URL, WithTimeout(2*time.Second))
		if err != nil {
			srv.Close()
			t.Fatalf("New: %v", err)
		}
		got, err := c.Current(context.Background())
		srv.Close()
		if err != nil {
			t.Fatalf("Current(%q): %v", tc.feed, err)
		}
		if got != tc.want {
			t.Errorf("Current(%q) = %q, want %q", tc.feed, got, tc.want)
		}
	}
}

func TestCurrentFeedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Current(context.Background()); err == nil {
		t.Fatal("expected error on 500 response")
	}
}

func TestNewRequiresURL(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected error for empty url")
	}
}
