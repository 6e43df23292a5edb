package bot

import (
	"fmt"
	"strings"

	"skip-selector/internal/view"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// CALLBACK DATA AND MESSAGE LAYOUT

const (
	callbackSelectPrefix = "select:"
	callbackContinue     = "continue"
)

var badgeEmoji = map[string]string{
	view.IconCheckCircle: "✅",
	view.IconXCircle:     "❌",
	view.IconScale:       "⚖️",
	view.IconNoSymbol:    "🚫",
}

func skeletonText(s view.Screen) string {
	var b strings.Builder
	b.WriteString("⏳ Loading skips...\n")
	for range s.Placeholders {
		b.WriteString("\n▫️ ░░░░░░░░░░  ░░░░░░")
	}
	return b.String()
}

func errorText(p *view.ErrorPanel) string {
	return fmt.Sprintf("⚠️ %s\n%s", p.Title, p.Detail)
}

func headingText(s view.Screen) string {
	return fmt.Sprintf("%s\n\n%s", s.Heading, s.Intro)
}

func cardCaption(c view.Card) string {
	var b strings.Builder

	b.WriteString(c.Title)
	if c.Hint != "" {
		fmt.Fprintf(&b, "  ✔️ (%s)", c.Hint)
	}
	fmt.Fprintf(&b, "\n📦 %s", c.SizeBadge)
	fmt.Fprintf(&b, "\n🚚 %s", c.HirePeriod)
	for _, badge := range c.Badges {
		fmt.Fprintf(&b, "\n%s %s", badgeEmoji[badge.Icon], badge.Text)
	}
	fmt.Fprintf(&b, "\n\n%s %s", c.BasePrice.Label, c.BasePrice.Amount)
	fmt.Fprintf(&b, "\n%s %s", c.VAT.Label, c.VAT.Amount)
	fmt.Fprintf(&b, "\n%s %s", c.Total.Label, c.Total.Amount)

	return b.String()
}

func cardKeyboard(c view.Card) tgbotapi.InlineKeyboardMarkup {
	label := "▶️ " + c.ButtonLabel
	if c.Selected {
		label = "🔽 " + c.ButtonLabel
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("%s%d", callbackSelectPrefix, c.ID)),
		),
	)
}

func summaryText(s *view.Summary) string {
	return fmt.Sprintf("%s\n%s\nTotal: %s\n\n%s", s.Label, s.Title, s.Total, s.ImageURL)
}

func summaryKeyboard(s *view.Summary) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(s.ActionLabel+" ➡️", callbackContinue),
		),
	)
}
