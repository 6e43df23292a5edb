// Package pricing holds the price arithmetic shown on skip cards.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const currencySymbol = "£"

var hundred = decimal.NewFromInt(100)

// VATAmount returns price·vat/100.
func VATAmount(priceBeforeVAT, vatPercent decimal.Decimal) decimal.Decimal {
	return priceBeforeVAT.Mul(vatPercent).Div(hundred)
}

// TotalWithVAT returns price + price·vat/100. Nothing is rounded or clamped.
func TotalWithVAT(priceBeforeVAT, vatPercent decimal.Decimal) decimal.Decimal {
	return priceBeforeVAT.Add(VATAmount(priceBeforeVAT, vatPercent))
}

// FormatGBP renders an amount the way en-GB currency formatting does:
// "£1,234.50", "-£5.00".
func FormatGBP(amount decimal.Decimal) string {
	fixed := amount.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if amount.Round(2).IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(currencySymbol)
	b.WriteString(groupThousands(whole))
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

func groupThousands(digits string) string {
	n, err := decimal.NewFromString(digits)
	if err != nil || !n.IsInteger() || n.GreaterThan(decimal.NewFromInt(1<<53)) {
		return digits
	}
	return message.NewPrinter(language.BritishEnglish).Sprintf("%d", n.IntPart())
}

// FormatPercent renders a VAT rate without trailing zeros ("20", "17.5").
func FormatPercent(p decimal.Decimal) string {
	return p.String()
}
