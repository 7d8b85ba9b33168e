package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func TestDemandNextProducesValidDeclarations(t *testing.T) {
	d := NewDemand("http://localhost:8080", 42)
	tiers := map[string]bool{"standard": true, "express": true, "urgent": true, "regional": true, "overseas": true}
	cities := map[string]bool{}
	for _, c := range demandCities {
		cities[c] = true
	}

	for i := 0; i < 100; i++ {
		sr := d.Next()
		if !tiers[sr.Service] {
			t.Fatalf("unknown service %q", sr.Service)
		}
		if !cities[sr.RecipientCity] {
			t.Fatalf("unknown city %q", sr.RecipientCity)
		}
		w, err := strconv.ParseFloat(sr.Weight, 64)
		if err != nil || w <= 0 || w > 20 {
			t.Fatalf("bad weight %q", sr.Weight)
		}
		if sr.RecipientName == "" || sr.Dimensions == "" {
			t.Fatalf("incomplete declaration: %+v", sr)
		}
	}
}

func TestDemandSeedIsDeterministic(t *testing.T) {
	a := NewDemand("", 7)
	b := NewDemand("", 7)
	for i := 0; i < 20; i++ {
		if a.Next() != b.Next() {
			t.Fatal("same seed produced different declarations")
		}
	}
}

func TestDemandRunPostsUntilCount(t *testing.T) {
	var got int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sr shipmentRequest
		if err := json.NewDecoder(r.Body).Decode(&sr); err != nil {
			t.Errorf("decode: %v", err)
		}
		got++
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	d := NewDemand(srv.URL, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	d.Run(ctx, time.Millisecond, 3)

	if got != 3 {
		t.Fatalf("posted %d shipments, want 3", got)
	}
}
