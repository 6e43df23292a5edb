package view

import (
	"errors"
	"strings"
	"testing"

	"skip-selector/internal/catalog"
	"skip-selector/internal/selection"
	"skip-selector/pkg/api"

	"github.com/shopspring/decimal"
)

func skip(id int64, size int, price, vat int64) api.Skip {
	return api.Skip{
		ID:             id,
		Size:           size,
		HirePeriodDays: 14,
		PriceBeforeVAT: decimal.NewFromInt(price),
		VAT:            decimal.NewFromInt(vat),
		AllowedOnRoad:  true,
	}
}

func TestSkeleton_SixPlaceholders(t *testing.T) {
	s := Build(catalog.Pending(), selection.Controller{})
	if s.Kind != KindSkeleton {
		t.Fatalf("Incorrect kind, got %d", s.Kind)
	}
	if len(s.Placeholders) != 6 {
		t.Errorf("Incorrect placeholder count, got %d, want 6", len(s.Placeholders))
	}
	if len(s.Cards) != 0 || s.Summary != nil {
		t.Error("Skeleton must not render cards or summary")
	}
}

func TestErrorScreen_NoCards(t *testing.T) {
	var sel selection.Controller
	sel.Toggle(1)

	s := Build(catalog.Failed(errors.New("down")), sel)
	if s.Kind != KindError || s.Error == nil {
		t.Fatalf("Expected error screen, got %+v", s)
	}
	if s.Error.Title != "Error loading skips" || s.Error.Detail != "Please try again later" {
		t.Errorf("Incorrect error panel: %+v", s.Error)
	}
	if len(s.Cards) != 0 || s.Summary != nil || len(s.Placeholders) != 0 {
		t.Error("Error screen must not render cards")
	}
}

func TestGrid_SixYardCard(t *testing.T) {
	s := Build(catalog.Succeeded([]api.Skip{skip(11, 6, 200, 20)}), selection.Controller{})
	if s.Kind != KindGrid || len(s.Cards) != 1 {
		t.Fatalf("Expected one card, got %+v", s)
	}

	c := s.Cards[0]
	if c.Total.Amount != "£240.00" {
		t.Errorf("Incorrect total, got %q, want £240.00", c.Total.Amount)
	}
	if c.BasePrice.Amount != "£200.00" || c.VAT.Amount != "£40.00" {
		t.Errorf("Incorrect breakdown: %+v %+v", c.BasePrice, c.VAT)
	}
	if c.VAT.Label != "VAT (20%):" {
		t.Errorf("Incorrect VAT label, got %q", c.VAT.Label)
	}
	if !strings.HasSuffix(c.ImageURL, "/storage/v1/object/public/skips/skip-sizes/6-yarder-skip.jpg") {
		t.Errorf("Incorrect image URL, got %q", c.ImageURL)
	}
	if c.Title != "6 Yard Skip" || c.SizeBadge != "6 Yards" || c.HirePeriod != "14 day hire period" {
		t.Errorf("Incorrect card text: %+v", c)
	}
	if c.Selected || c.ButtonLabel != "Select This Skip" || c.Hint != "" {
		t.Errorf("Card should be unselected: %+v", c)
	}
	if s.Summary != nil {
		t.Error("No summary without a selection")
	}
}

func TestGrid_KeepsOrderAndMarksSelection(t *testing.T) {
	skips := []api.Skip{skip(3, 4, 278, 20), skip(1, 6, 305, 20), skip(2, 8, 375, 20)}
	var sel selection.Controller
	sel.Toggle(1)

	s := Grid(skips, sel)
	if len(s.Cards) != 3 {
		t.Fatalf("Incorrect card count, got %d", len(s.Cards))
	}
	for i, want := range []int64{3, 1, 2} {
		if s.Cards[i].ID != want {
			t.Errorf("card %d: id %d, want %d", i, s.Cards[i].ID, want)
		}
	}

	selected := s.Cards[1]
	if !selected.Selected || selected.ButtonLabel != "Deselect Skip" || selected.Hint != "Click to deselect" {
		t.Errorf("Selected card rendered wrong: %+v", selected)
	}
	if s.Cards[0].Selected || s.Cards[2].Selected {
		t.Error("Only one card may be selected")
	}

	if s.Summary == nil {
		t.Fatal("Summary expected")
	}
	if s.Summary.Title != "6 Yard Skip" || s.Summary.Total != "£366.00" || !s.Summary.Found {
		t.Errorf("Incorrect summary: %+v", s.Summary)
	}
	if s.Summary.ActionLabel != "Continue to Booking" {
		t.Errorf("Incorrect action label %q", s.Summary.ActionLabel)
	}
}

func TestSummary_UnknownIDFallsBack(t *testing.T) {
	var sel selection.Controller
	sel.Toggle(999)

	sum := NewSummary([]api.Skip{skip(1, 6, 305, 20)}, sel)
	if sum == nil {
		t.Fatal("Summary expected for any selection")
	}
	if sum.Found {
		t.Error("Unknown id must not be found")
	}
	if sum.ImageURL != ImageURL(4) || sum.Total != "£0.00" {
		t.Errorf("Incorrect fallback: %+v", sum)
	}
}

func TestFeatureBadge(t *testing.T) {
	cases := []struct {
		active bool
		spec   BadgeSpec
		text   string
		icon   string
	}{
		{true, RoadLegal, "Road Legal", IconCheckCircle},
		{false, RoadLegal, "Not Road Legal", IconXCircle},
		{true, HeavyWaste, "Heavy Waste Allowed", IconScale},
		{false, HeavyWaste, "Light Waste Only", IconNoSymbol},
	}
	for _, c := range cases {
		b := FeatureBadge(c.active, c.spec)
		if b.Active != c.active || b.Text != c.text || b.Icon != c.icon {
			t.Errorf("FeatureBadge(%v) = %+v", c.active, b)
		}
	}

	card := NewCard(api.Skip{Size: 4, AllowedOnRoad: false, AllowsHeavyWaste: true}, false)
	if card.Badges[0].Text != "Not Road Legal" || card.Badges[1].Text != "Heavy Waste Allowed" {
		t.Errorf("Incorrect card badges: %+v", card.Badges)
	}
}

func TestImageURL(t *testing.T) {
	want := "https://yozbrydxdlcxghkphhtq.supabase.co/storage/v1/object/public/skips/skip-sizes/40-yarder-skip.jpg"
	if got := ImageURL(40); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
