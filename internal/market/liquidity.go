package market

import (
	"math"

	"github.com/notlelouch/go-interview-practice/Token-Safety-Check/internal/models"
)

// ParseLiquidity sums pool liquidity across the pairs of one chain.
// A nil response or one without pairs yields the zero record.
func ParseLiquidity(data *DexScreenerResponse) models.LiquidityRecord {
	if data == nil || len(data.Pairs) == 0 {
		return models.LiquidityRecord{}
	}

	var total float64
	for _, pair := range data.Pairs {
		if pair.Liquidity != nil {
			total += float64(pair.Liquidity.USD)
		}
	}

	return models.LiquidityRecord{
		USD:        math.Floor(total + 0.5),
		PairsCount: len(data.Pairs),
	}
}

// ParseTokenInfo reads name and symbol from the first pair's base token.
func ParseTokenInfo(data *DexScreenerResponse) models.TokenInfo {
	if data == nil || len(data.Pairs) == 0 {
		return models.TokenInfo{}
	}

	base := data.Pairs[0].BaseToken
	return models.TokenInfo{
		Name:   optional(string(base.Name)),
		Symbol: optional(string(base.Symbol)),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
