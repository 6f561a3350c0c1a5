package ledger

import "strings"

var knownCoingeckoIDs = map[string]string{
	"btc":  "bitcoin",
	"eth":  "ethereum",
	"sol":  "solana",
	"link": "chainlink",
	"avax": "avalanche-2",
	"atom": "cosmos",
	"inj":  "injective-protocol",
	"usdt": "tether",
}

// GuessCoingeckoID maps a well-known ticker to its CoinGecko id, or returns
// "" when the name is not one of them.
func GuessCoingeckoID(name string) string {
	return knownCoingeckoIDs[strings.ToLower(strings.TrimSpace(name))]
}
