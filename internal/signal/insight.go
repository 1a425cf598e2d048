package signal

import (
	"fmt"
	"strings"

	"github.com/songzhibin97/memescan/internal/models"
)

// QuickInsight builds a one-line human summary of a token's current state,
// used by list views where a full analysis would be noise.
func QuickInsight(identity models.TokenIdentity, snapshot models.MarketSnapshot) string {
	var b strings.Builder
	b.WriteString(identity.Symbol)

	if snapshot.AgeHours < 24 {
		fmt.Fprintf(&b, " (New: %.0fh old)", snapshot.AgeHours)
	}

	change := snapshot.PriceChange24h
	switch {
	case change > 100:
		fmt.Fprintf(&b, " | Pumping +%.0f%%", change)
	case change > 50:
		fmt.Fprintf(&b, " | Rising +%.0f%%", change)
	case change < -50:
		fmt.Fprintf(&b, " | Dumping %.0f%%", change)
	}

	if snapshot.Volume24h > 100000 {
		fmt.Fprintf(&b, " | High vol $%.0fK", snapshot.Volume24h/1000)
	}
	if snapshot.LiquidityUSD > 50000 {
		fmt.Fprintf(&b, " | Good liq $%.0fK", snapshot.LiquidityUSD/1000)
	} else if snapshot.LiquidityUSD < 5000 {
		fmt.Fprintf(&b, " | Low liq $%.1fK", snapshot.LiquidityUSD/1000)
	}

	if snapshot.Buys24h > snapshot.Sells24h*2 {
		b.WriteString(" | Strong buys")
	} else if snapshot.Sells24h > snapshot.Buys24h*2 {
		b.WriteString(" | Heavy sells")
	}

	return b.String()
}
