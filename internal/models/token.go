// Package models holds the normalized records shared by the fetchers, the
// scoring engine and the HTTP layer.
package models

// HoneypotRecord is the normalized contract-security view of a token.
type HoneypotRecord struct {
	IsHoneypot            bool    `json:"is_honeypot"`
	BuyTax                float64 `json:"buy_tax"`  // percent, not clamped
	SellTax               float64 `json:"sell_tax"` // percent, not clamped
	TransferPausable      bool    `json:"transfer_pausable"`
	CanBlacklist          bool    `json:"can_blacklist"`
	CanMint               bool    `json:"can_mint"`
	OwnerCanChangeBalance bool    `json:"owner_can_change_balance"`
}

// LiquidityRecord is the normalized liquidity view across all pairs on one chain.
type LiquidityRecord struct {
	USD float64 `json:"usd"`

	// DexScreener has no lock data; these stay false/0.
	Locked      bool    `json:"locked"`
	LockPercent float64 `json:"lock_percent"`

	PairsCount int `json:"pairs_count"`
}

// HolderRecord is the normalized holder distribution of a token.
type HolderRecord struct {
	Count          int     `json:"count"`
	Top10Percent   float64 `json:"top10_percent"`
	WhaleAlert     bool    `json:"whale_alert"`
	CreatorPercent float64 `json:"creator_percent"`
}

// TokenInfo carries the optional identity fields a provider may supply.
// A nil field means the provider did not know it.
type TokenInfo struct {
	Name   *string
	Symbol *string
}

// CheckResponse is the body returned for a token check.
type CheckResponse struct {
	Token     string          `json:"token"`
	Chain     string          `json:"chain"`
	Name      *string         `json:"name"`
	Symbol    *string         `json:"symbol"`
	Safety    SafetyVerdict   `json:"safety"`
	Honeypot  HoneypotRecord  `json:"honeypot"`
	Liquidity LiquidityRecord `json:"liquidity"`
	Holders   HolderRecord    `json:"holders"`
	Flags     FlagSet         `json:"flags"`
	CheckedAt string          `json:"checked_at"`
}

// APIError is the error envelope used by every non-2xx response.
type APIError struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
