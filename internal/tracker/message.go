package tracker

import (
	"fmt"
	"math"
	"strings"

	"metalwatch/internal/change"
	"metalwatch/internal/metals"

	"github.com/shopspring/decimal"
)

// SummaryMessage is the routine report posted on every run.
func SummaryMessage(snap metals.Snapshot) string {
	var b strings.Builder
	b.WriteString("📊 **Daily Metals Summary**\n")
	for _, c := range metals.All {
		meta := c.Meta()
		fmt.Fprintf(&b, "\n%s %s: %s", meta.Emoji, meta.Label, formatPrice(c, snap.Price(c)))
	}
	return b.String()
}

// CrashMessage alerts that r.Commodity dropped past the threshold.
func CrashMessage(r change.Result) string {
	return fmt.Sprintf("🚨 **%s PRICE CRASH**\n\nDropped %.2f%%\nCurrent: %s",
		strings.ToUpper(r.Commodity.Meta().Label),
		math.Abs(r.Percent),
		formatPrice(r.Commodity, r.Current),
	)
}

func formatPrice(c metals.Commodity, price float64) string {
	return "₹" + decimal.NewFromFloat(price).StringFixed(2) + "/" + c.Meta().Unit
}
