package schedule

import (
	"strings"
	"testing"
	"time"

	"github.com/josepaz/rumbo/core/model"
)

// 2025-03-15 is a Saturday.
func day(d, hour int) time.Time {
	return time.Date(2025, 3, d, hour, 0, 0, 0, time.UTC)
}

func TestForGroupMostRestrictive(t *testing.T) {
	w := Default()
	mixed := []*model.Shipment{
		{Tier: model.TierStandard},
		{Tier: model.TierInternational},
		{Tier: model.TierExpress},
	}
	if win := w.ForGroup(mixed); win.Tier != model.TierExpress {
		t.Errorf("express must win over international and standard, got %v", win.Tier)
	}
	mixed = append(mixed, &model.Shipment{Tier: model.TierUrgent})
	if win := w.ForGroup(mixed); win.Tier != model.TierUrgent {
		t.Errorf("urgent must always win, got %v", win.Tier)
	}
	if win := w.ForGroup([]*model.Shipment{{Tier: model.TierStandard}}); win.Tier != model.TierStandard {
		t.Errorf("standard-only group keeps standard window, got %v", win.Tier)
	}
	if win := w.ForGroup([]*model.Shipment{{Tier: model.TierStandard}, {Tier: model.TierInternational}}); win.Tier != model.TierInternational {
		t.Errorf("international wins over standard, got %v", win.Tier)
	}
}

func TestCanStartNow(t *testing.T) {
	std := Default()[model.TierStandard]
	if CanStartNow(day(15, 10), std) { // Saturday
		t.Error("weekday-only window must refuse Saturday")
	}
	if !CanStartNow(day(17, 10), std) { // Monday
		t.Error("Monday 10:00 is inside the standard window")
	}
	if CanStartNow(day(17, 7), std) {
		t.Error("07:00 is before the standard window")
	}
	urgent := Default()[model.TierUrgent]
	if !CanStartNow(day(16, 21), urgent) { // Sunday evening
		t.Error("urgent runs on Sundays until 22:00")
	}
}

func TestNextValidStartSaturdayToMonday(t *testing.T) {
	std := Default()[model.TierStandard]
	got := NextValidStart(day(15, 10), std) // Saturday 10:00
	want := day(17, 8)                      // Monday 08:00
	if !got.Equal(want) {
		t.Fatalf("NextValidStart = %v, want %v", got, want)
	}
}

func TestNextValidStartSameDay(t *testing.T) {
	std := Default()[model.TierStandard]
	got := NextValidStart(day(18, 5), std) // Tuesday 05:00
	if !got.Equal(day(18, 8)) {
		t.Fatalf("early same-day start = %v, want 08:00", got)
	}
	// Inside the window: start immediately.
	now := day(18, 12)
	if got := NextValidStart(now, std); !got.Equal(now) {
		t.Fatalf("in-window start = %v, want %v", got, now)
	}
}

func TestNextValidStartAfterHours(t *testing.T) {
	std := Default()[model.TierStandard]
	if got := NextValidStart(day(18, 20), std); !got.Equal(day(19, 8)) { // Tue night -> Wed
		t.Fatalf("got %v", got)
	}
	if got := NextValidStart(day(21, 20), std); !got.Equal(day(24, 8)) { // Fri night -> Mon
		t.Fatalf("got %v", got)
	}
	urgent := Default()[model.TierUrgent]
	if got := NextValidStart(day(15, 23), urgent); !got.Equal(day(16, 6)) { // Sat night -> Sun 06:00
		t.Fatalf("all-days window must allow Sunday, got %v", got)
	}
}

func TestDecodeConfigOverrides(t *testing.T) {
	in := strings.NewReader("urgent:\n  start_hour: 5\n  end_hour: 23\n")
	w, err := DecodeConfig(in, "yaml")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if win := w[model.TierUrgent]; win.StartHour != 5 || win.EndHour != 23 {
		t.Errorf("override not applied: %+v", win)
	}
	if win := w[model.TierStandard]; win.StartHour != 8 || !win.WeekdaysOnly {
		t.Errorf("untouched tier must keep defaults: %+v", win)
	}
	if err := w.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestValidateRejectsBadRange(t *testing.T) {
	w := Windows{model.TierUrgent: {Tier: model.TierUrgent, StartHour: 22, EndHour: 6}}
	if err := w.Validate(); err == nil {
		t.Fatal("inverted hour range must fail validation")
	}
}
