package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllFlags_Vocabulary(t *testing.T) {
	want := []string{
		"HONEYPOT", "HIGH_BUY_TAX", "HIGH_SELL_TAX", "EXTREME_TAX",
		"LOW_LIQUIDITY", "NO_LIQUIDITY", "UNLOCKED_LIQUIDITY",
		"HIGH_HOLDER_CONCENTRATION", "WHALE_DOMINATED", "MINTABLE",
		"PAUSABLE", "BLACKLIST_ENABLED", "OWNER_CAN_MODIFY",
	}

	got := make([]string, 0, len(want))
	for _, f := range AllFlags() {
		got = append(got, f.String())
	}
	assert.Equal(t, want, got)
}

func TestParseRiskFlag_RoundTripsEveryFlag(t *testing.T) {
	for _, f := range AllFlags() {
		parsed, err := ParseRiskFlag(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, parsed)
	}

	_, err := ParseRiskFlag("RUG_PULL")
	assert.Error(t, err)
}

func TestFlagSet_Deduplicates(t *testing.T) {
	s := NewFlagSet(FlagHighSellTax, FlagMintable, FlagHighSellTax)
	s = s.With(FlagMintable)

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []RiskFlag{FlagHighSellTax, FlagMintable}, s.Flags())
}

func TestFlagSet_IgnoresUndeclaredFlag(t *testing.T) {
	s := NewFlagSet(RiskFlag(200))
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Has(RiskFlag(200)))
}

func TestFlagSet_JSON(t *testing.T) {
	s := NewFlagSet(FlagPausable, FlagHoneypot)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `["HONEYPOT","PAUSABLE"]`, string(data))

	var decoded FlagSet
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, s, decoded)
}

func TestFlagSet_EmptyMarshalsAsArray(t *testing.T) {
	data, err := json.Marshal(FlagSet(0))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestGradeAndRecommendationRank(t *testing.T) {
	grades := []Grade{GradeA, GradeB, GradeC, GradeD, GradeF}
	for i := 1; i < len(grades); i++ {
		assert.Greater(t, grades[i-1].Rank(), grades[i].Rank())
	}

	recs := []Recommendation{RecommendSafe, RecommendCaution, RecommendRisky, RecommendAvoid}
	for i := 1; i < len(recs); i++ {
		assert.Greater(t, recs[i-1].Rank(), recs[i].Rank())
	}
}
