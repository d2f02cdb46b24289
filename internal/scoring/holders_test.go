package scoring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notlelouch/go-interview-practice/Token-Safety-Check/internal/models"
	"github.com/notlelouch/go-interview-practice/Token-Safety-Check/internal/scoring"
)

func TestHolderConcentrationScore_Bounds(t *testing.T) {
	cases := []struct {
		top10 float64
		want  int
	}{
		{0, 100},
		{30, 100},
		{45, 77},
		{62.5, 50},
		{94.9, 0},
		{95, 0},
		{100, 0},
	}

	for _, tc := range cases {
		got := scoring.HolderConcentrationScore(models.HolderRecord{Count: 10, Top10Percent: tc.top10})
		assert.Equal(t, tc.want, got, "top10 %v", tc.top10)
	}
}

func TestHolderConcentrationScore_NoHolders(t *testing.T) {
	for _, top10 := range []float64{0, 10, 50, 99} {
		assert.Equal(t, 0, scoring.HolderConcentrationScore(models.HolderRecord{Top10Percent: top10}))
	}
}

func TestHolderConcentrationScore_Monotonic(t *testing.T) {
	prev := scoring.HolderConcentrationScore(models.HolderRecord{Count: 1, Top10Percent: 0})
	for top10 := 0.1; top10 <= 100; top10 += 0.1 {
		got := scoring.HolderConcentrationScore(models.HolderRecord{Count: 1, Top10Percent: top10})
		assert.LessOrEqual(t, got, prev, "top10 %v", top10)
		prev = got
	}
}

func TestCreatorRiskScore(t *testing.T) {
	cases := []struct {
		percent float64
		want    int
	}{
		{0, 100},
		{0.1, 90},
		{5, 90},
		{5.1, 75},
		{15, 75},
		{15.1, 50},
		{30, 50},
		{30.1, 25},
		{50, 25},
		{50.1, 0},
		{100, 0},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, scoring.CreatorRiskScore(tc.percent), "creator %v", tc.percent)
	}
}

func TestAnalyzeHolders(t *testing.T) {
	cases := []struct {
		top10 float64
		want  []models.RiskFlag
	}{
		{50, []models.RiskFlag{}},
		{70, []models.RiskFlag{}},
		{70.1, []models.RiskFlag{models.FlagHighHolderConcentration}},
		{90, []models.RiskFlag{models.FlagHighHolderConcentration}},
		{90.1, []models.RiskFlag{models.FlagWhaleDominated}},
	}

	for _, tc := range cases {
		got := scoring.AnalyzeHolders(models.HolderRecord{Count: 1, Top10Percent: tc.top10})
		assert.Equal(t, tc.want, got.Flags(), "top10 %v", tc.top10)
	}
}
