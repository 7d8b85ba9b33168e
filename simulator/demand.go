package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"
)

// shipmentRequest mirrors the POST /api/shipments payload.
type shipmentRequest struct {
	SenderName     string `json:"sender_name"`
	SenderCity     string `json:"sender_city"`
	RecipientName  string `json:"recipient_name"`
	RecipientCity  string `json:"recipient_city"`
	RecipientPhone string `json:"recipient_phone"`
	Service        string `json:"service"`
	Weight         string `json:"weight"`
	Dimensions     string `json:"dimensions"`
}

var demandCities = []string{
	"Guatemala", "Mixco", "Villa Nueva",
	"San Salvador", "Tegucigalpa", "Managua", "San José",
	"Ciudad de México", "Barcelona",
}

var demandNames = []string{
	"María Pérez", "Juan López", "Sofía Ramírez", "Diego Castillo",
	"Lucía Herrera", "Andrés Molina", "Valeria Gómez", "Pablo Estrada",
}

// demandTiers weights service selection toward standard traffic.
var demandTiers = []struct {
	service string
	weight  int
}{
	{"standard", 55},
	{"express", 25},
	{"urgent", 10},
	{"regional", 7},
	{"overseas", 3},
}

// Demand generates random shipment declarations and posts them to the API.
type Demand struct {
	URL    string
	Client *http.Client
	rng    *rand.Rand
}

func NewDemand(url string, seed int64) *Demand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Demand{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Next produces one random shipment declaration.
func (d *Demand) Next() shipmentRequest {
	tier := d.pickTier()
	weight := 0.5 + d.rng.Float64()*19.5
	dims := fmt.Sprintf("%dx%dx%d", 10+d.rng.Intn(50), 10+d.rng.Intn(40), 5+d.rng.Intn(35))
	return shipmentRequest{
		SenderName:     demandNames[d.rng.Intn(len(demandNames))],
		SenderCity:     "Guatemala",
		RecipientName:  demandNames[d.rng.Intn(len(demandNames))],
		RecipientCity:  demandCities[d.rng.Intn(len(demandCities))],
		RecipientPhone: fmt.Sprintf("+502 5%03d-%04d", d.rng.Intn(1000), d.rng.Intn(10000)),
		Service:        tier,
		Weight:         fmt.Sprintf("%.1f", weight),
		Dimensions:     dims,
	}
}

func (d *Demand) pickTier() string {
	total := 0
	for _, t := range demandTiers {
		total += t.weight
	}
	n := d.rng.Intn(total)
	for _, t := range demandTiers {
		if n < t.weight {
			return t.service
		}
		n -= t.weight
	}
	return "standard"
}

// Run posts one shipment per interval until ctx is done.
func (d *Demand) Run(ctx context.Context, interval time.Duration, count int) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	sent := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := d.post(ctx, d.Next()); err != nil {
				log.Printf("post shipment: %v", err)
			} else {
				sent++
			}
			if count > 0 && sent >= count {
				return
			}
		}
	}
}

func (d *Demand) post(ctx context.Context, sr shipmentRequest) error {
	body, err := json.Marshal(sr)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.URL+"/api/shipments", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := d.Client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("api returned %s", resp.Status)
	}
	return nil
}
