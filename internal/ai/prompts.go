package ai

import (
	"fmt"
	"strings"

	"github.com/predictdesk/predictdesk/internal/model"
)

// maxNewsInPrompt caps context size; only the most relevant articles make it
// into the prompt.
const maxNewsInPrompt = 5

func systemPrompt(profile *model.AgentProfile) string {
	return fmt.Sprintf(`You are %s, an analyst for binary prediction markets. Your risk appetite is %s and you favor %s markets.

Given a market and recent news, decide which side offers value. Respond with JSON only, in this exact format:
{
  "side": "YES" | "NO",
  "confidence": 0.0-1.0,
  "reasoning": ["first point", "second point"]
}`,
		profile.DisplayName,
		strings.ToLower(string(profile.Risk)),
		strings.Join(profile.FocusCategories, ", "))
}

func marketPrompt(market model.Market, news []model.NewsArticle) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Market: %s\n", market.Question)
	fmt.Fprintf(&sb, "Category: %s\n", market.Category)
	fmt.Fprintf(&sb, "Current YES probability: %.0f%%\n", market.CurrentProbability*100)
	fmt.Fprintf(&sb, "24h probability change: %+.1f points\n", market.PriceChange24h*100)
	fmt.Fprintf(&sb, "Volume: $%.0f, Liquidity: $%.0f\n", market.VolumeUSD, market.LiquidityUSD)

	if len(news) > 0 {
		sb.WriteString("\nRecent related news:\n")
		limit := len(news)
		if limit > maxNewsInPrompt {
			limit = maxNewsInPrompt
		}
		for _, a := range news[:limit] {
			fmt.Fprintf(&sb, "- [%s] %s\n", a.Source, a.Title)
		}
	}

	sb.WriteString("\nDecide the side and confidence. JSON only.")
	return sb.String()
}
