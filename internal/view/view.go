// Package view turns fetch results and the selection into render-ready
// screens. It knows nothing about HTML or Telegram; front ends only lay the
// models out.
package view

import (
	"fmt"

	"skip-selector/internal/catalog"
	"skip-selector/internal/pricing"
	"skip-selector/internal/selection"
	"skip-selector/pkg/api"

	"github.com/shopspring/decimal"
)

// SkeletonCards is the number of placeholder cards shown while loading,
// whatever the eventual result size.
const SkeletonCards = 6

const imageURLPattern = "https://yozbrydxdlcxghkphhtq.supabase.co/storage/v1/object/public/skips/skip-sizes/%d-yarder-skip.jpg"

// summary image when the selected id is not in the fetched list
const fallbackImageSize = 4

const (
	Heading       = "Choose Your Skip Size"
	Intro         = "Select the skip size that best suits your needs. All skips come with a standard hire period and competitive pricing."
	ErrorTitle    = "Error loading skips"
	ErrorDetail   = "Please try again later"
	SelectLabel   = "Select This Skip"
	DeselectHint  = "Click to deselect"
	DeselectLabel = "Deselect Skip"
	ContinueLabel = "Continue to Booking"
	SelectedLabel = "Selected Skip"
)

type Kind int

const (
	KindSkeleton Kind = iota
	KindError
	KindGrid
)

type Screen struct {
	Kind         Kind
	Heading      string
	Intro        string
	Placeholders []Placeholder
	Error        *ErrorPanel
	Cards        []Card
	Summary      *Summary
}

type Placeholder struct {
	Index int
}

type ErrorPanel struct {
	Title  string
	Detail string
}

type PriceLine struct {
	Label  string
	Amount string
}

type Card struct {
	ID          int64
	Size        int
	ImageURL    string
	ImageAlt    string
	SizeBadge   string
	Title       string
	Hint        string
	HirePeriod  string
	Badges      []Badge
	BasePrice   PriceLine
	VAT         PriceLine
	Total       PriceLine
	Selected    bool
	ButtonLabel string
}

type Summary struct {
	SkipID      int64
	Found       bool
	Label       string
	ImageURL    string
	ImageAlt    string
	Title       string
	Total       string
	ActionLabel string
}

// ImageURL is the storage path of the photo for a skip size. There is no
// fallback for sizes without a photo.
func ImageURL(size int) string {
	return fmt.Sprintf(imageURLPattern, size)
}

// Build picks the screen for the fetch status.
func Build(res catalog.Result, sel selection.Controller) Screen {
	switch res.Status {
	case catalog.StatusSucceeded:
		return Grid(res.Skips, sel)
	case catalog.StatusFailed:
		return ErrorScreen()
	default:
		return Skeleton()
	}
}

func Skeleton() Screen {
	placeholders := make([]Placeholder, SkeletonCards)
	for i := range placeholders {
		placeholders[i] = Placeholder{Index: i}
	}
	return Screen{Kind: KindSkeleton, Placeholders: placeholders}
}

func ErrorScreen() Screen {
	return Screen{
		Kind:  KindError,
		Error: &ErrorPanel{Title: ErrorTitle, Detail: ErrorDetail},
	}
}

func Grid(skips []api.Skip, sel selection.Controller) Screen {
	cards := make([]Card, 0, len(skips))
	for _, s := range skips {
		cards = append(cards, NewCard(s, sel.IsSelected(s.ID)))
	}
	return Screen{
		Kind:    KindGrid,
		Heading: Heading,
		Intro:   Intro,
		Cards:   cards,
		Summary: NewSummary(skips, sel),
	}
}

func NewCard(s api.Skip, selected bool) Card {
	c := Card{
		ID:         s.ID,
		Size:       s.Size,
		ImageURL:   ImageURL(s.Size),
		ImageAlt:   sizeTitle(s.Size),
		SizeBadge:  fmt.Sprintf("%d Yards", s.Size),
		Title:      sizeTitle(s.Size),
		HirePeriod: fmt.Sprintf("%d day hire period", s.HirePeriodDays),
		Badges: []Badge{
			FeatureBadge(s.AllowedOnRoad, RoadLegal),
			FeatureBadge(s.AllowsHeavyWaste, HeavyWaste),
		},
		BasePrice: PriceLine{
			Label:  "Base Price:",
			Amount: pricing.FormatGBP(s.PriceBeforeVAT),
		},
		VAT: PriceLine{
			Label:  fmt.Sprintf("VAT (%s%%):", pricing.FormatPercent(s.VAT)),
			Amount: pricing.FormatGBP(pricing.VATAmount(s.PriceBeforeVAT, s.VAT)),
		},
		Total: PriceLine{
			Label:  "Total:",
			Amount: pricing.FormatGBP(pricing.TotalWithVAT(s.PriceBeforeVAT, s.VAT)),
		},
		Selected:    selected,
		ButtonLabel: SelectLabel,
	}
	if selected {
		c.Hint = DeselectHint
		c.ButtonLabel = DeselectLabel
	}
	return c
}

// NewSummary looks the selected id up in skips on every call. It returns nil
// when nothing is selected.
func NewSummary(skips []api.Skip, sel selection.Controller) *Summary {
	id, ok := sel.Selected()
	if !ok {
		return nil
	}

	sum := &Summary{
		SkipID:      id,
		Label:       SelectedLabel,
		ActionLabel: ContinueLabel,
	}

	skip, found := findSkip(skips, id)
	if !found {
		sum.ImageURL = ImageURL(fallbackImageSize)
		sum.Title = "Yard Skip"
		sum.ImageAlt = sum.Title
		sum.Total = pricing.FormatGBP(decimal.Zero)
		return sum
	}

	sum.Found = true
	sum.ImageURL = ImageURL(skip.Size)
	sum.Title = sizeTitle(skip.Size)
	sum.ImageAlt = sum.Title
	sum.Total = pricing.FormatGBP(pricing.TotalWithVAT(skip.PriceBeforeVAT, skip.VAT))
	return sum
}

func findSkip(skips []api.Skip, id int64) (api.Skip, bool) {
	for _, s := range skips {
		if s.ID == id {
			return s, true
		}
	}
	return api.Skip{}, false
}

func sizeTitle(size int) string {
	return fmt.Sprintf("%d Yard Skip", size)
}
