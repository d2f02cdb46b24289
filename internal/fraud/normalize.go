package fraud

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/notlelouch/go-interview-practice/Token-Safety-Check/internal/models"
)

const (
	trueMarker = "1"

	topHolderSample = 10
	whaleAlertAbove = 80.0
)

var (
	leadingDecimal = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)
	leadingInteger = regexp.MustCompile(`^[+-]?\d+`)
)

// ParseHoneypot normalizes a GoPlus entry. A nil entry yields the zero record.
func ParseHoneypot(data *TokenSecurity) models.HoneypotRecord {
	if data == nil {
		return models.HoneypotRecord{}
	}

	return models.HoneypotRecord{
		IsHoneypot:            data.IsHoneypot.flag(),
		BuyTax:                data.BuyTax.fraction() * 100,
		SellTax:               data.SellTax.fraction() * 100,
		TransferPausable:      data.TransferPausable.flag(),
		CanBlacklist:          data.IsBlacklisted.flag(),
		CanMint:               data.IsMintable.flag(),
		OwnerCanChangeBalance: data.OwnerChangeBalance.flag(),
	}
}

// ParseHolders normalizes the holder distribution of a GoPlus entry.
// Holders are taken in upstream order, which GoPlus sorts by balance.
// WhaleAlert compares the rounded Top10Percent so the two fields always
// agree; a raw sum in (80, 80.05) rounds to 80.0 and does not alert.
func ParseHolders(data *TokenSecurity) models.HolderRecord {
	if data == nil {
		return models.HolderRecord{}
	}

	top10 := roundTenth(topHoldersFraction(data.Holders) * 100)

	return models.HolderRecord{
		Count:          data.HolderCount.count(),
		Top10Percent:   top10,
		WhaleAlert:     top10 > whaleAlertAbove,
		CreatorPercent: roundTenth(data.CreatorPercent.fraction() * 100),
	}
}

// ParseTokenInfo returns the name and symbol GoPlus reported, if any.
func ParseTokenInfo(data *TokenSecurity) models.TokenInfo {
	if data == nil {
		return models.TokenInfo{}
	}
	return models.TokenInfo{
		Name:   data.TokenName.optional(),
		Symbol: data.TokenSymbol.optional(),
	}
}

func topHoldersFraction(raw json.RawMessage) float64 {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return 0
	}

	if len(entries) > topHolderSample {
		entries = entries[:topHolderSample]
	}

	var sum float64
	for _, e := range entries {
		var h holderEntry
		if err := json.Unmarshal(e, &h); err != nil {
			continue
		}
		sum += h.Percent.fraction()
	}
	return sum
}

func (s looseString) flag() bool {
	return string(s) == trueMarker
}

// fraction reads the longest leading decimal, so "0.1abc" is 0.1 and hex
// or non-finite text is 0.
func (s looseString) fraction() float64 {
	text := leadingDecimal.FindString(strings.TrimSpace(string(s)))
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// count reads the leading base-10 digits, so "42.9" is 42 and "1e3" is 1.
// Negative and unparseable counts are 0.
func (s looseString) count() int {
	n, err := strconv.Atoi(leadingInteger.FindString(strings.TrimSpace(string(s))))
	if err != nil {
		return 0
	}
	return max(n, 0)
}

func (s looseString) optional() *string {
	if s == "" {
		return nil
	}
	v := string(s)
	return &v
}

func roundTenth(x float64) float64 {
	return math.Floor(x*10+0.5) / 10
}
