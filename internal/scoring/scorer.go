// Package scoring reduces normalized token records to a safety verdict.
package scoring

import (
	"math"

	"github.com/notlelouch/go-interview-practice/Token-Safety-Check/internal/models"
)

const (
	startingScore = 100

	holderPenaltyWeight  = 0.15
	creatorPenaltyWeight = 0.05
)

// Input groups the three normalized records the engine reads.
type Input struct {
	Honeypot  models.HoneypotRecord
	Liquidity models.LiquidityRecord
	Holders   models.HolderRecord
}

// Penalty is the outcome of one scoring rule.
type Penalty struct {
	Rule   string
	Points int
	Flags  models.FlagSet
}

// rule inspects the shared input only; rules never see each other's output.
type rule struct {
	name  string
	apply func(in Input) (models.FlagSet, int)
}

var rules = []rule{
	{"honeypot", func(in Input) (models.FlagSet, int) {
		if in.Honeypot.IsHoneypot {
			return models.NewFlagSet(models.FlagHoneypot), 100
		}
		return 0, 0
	}},
	{"sell_tax", func(in Input) (models.FlagSet, int) {
		tax := in.Honeypot.SellTax
		switch {
		case tax > 50:
			return models.NewFlagSet(models.FlagExtremeTax), 30
		case tax > 25:
			return models.NewFlagSet(models.FlagHighSellTax), 20
		case tax > 10:
			return models.NewFlagSet(models.FlagHighSellTax), 10
		}
		return 0, 0
	}},
	{"buy_tax", func(in Input) (models.FlagSet, int) {
		if in.Honeypot.BuyTax > 10 {
			return models.NewFlagSet(models.FlagHighBuyTax), 5
		}
		return 0, 0
	}},
	{"liquidity", func(in Input) (models.FlagSet, int) {
		usd := in.Liquidity.USD
		switch {
		case usd == 0:
			return models.NewFlagSet(models.FlagNoLiquidity), 25
		case usd < 10_000:
			return models.NewFlagSet(models.FlagLowLiquidity), 15
		case usd < 50_000:
			return models.NewFlagSet(models.FlagLowLiquidity), 8
		}
		return 0, 0
	}},
	{"holder_concentration", func(in Input) (models.FlagSet, int) {
		// Flags here are informational; the penalty comes from the sub-score.
		penalty := roundHalfUp(float64(100-HolderConcentrationScore(in.Holders)) * holderPenaltyWeight)
		return AnalyzeHolders(in.Holders), penalty
	}},
	{"creator", func(in Input) (models.FlagSet, int) {
		return 0, roundHalfUp(float64(100-CreatorRiskScore(in.Holders.CreatorPercent)) * creatorPenaltyWeight)
	}},
	{"mintable", func(in Input) (models.FlagSet, int) {
		if in.Honeypot.CanMint {
			return models.NewFlagSet(models.FlagMintable), 8
		}
		return 0, 0
	}},
	{"pausable", func(in Input) (models.FlagSet, int) {
		if in.Honeypot.TransferPausable {
			return models.NewFlagSet(models.FlagPausable), 5
		}
		return 0, 0
	}},
	{"blacklist", func(in Input) (models.FlagSet, int) {
		if in.Honeypot.CanBlacklist {
			return models.NewFlagSet(models.FlagBlacklistEnabled), 5
		}
		return 0, 0
	}},
	{"owner_balance", func(in Input) (models.FlagSet, int) {
		if in.Honeypot.OwnerCanChangeBalance {
			return models.NewFlagSet(models.FlagOwnerCanModify), 10
		}
		return 0, 0
	}},
}

// Explain runs every rule once against in and reports each penalty.
func Explain(in Input) []Penalty {
	penalties := make([]Penalty, 0, len(rules))
	for _, r := range rules {
		flags, points := r.apply(in)
		penalties = append(penalties, Penalty{Rule: r.name, Points: points, Flags: flags})
	}
	return penalties
}

// Evaluate combines the honeypot, liquidity and holder records into a verdict
// and the union of every raised flag.
func Evaluate(honeypot models.HoneypotRecord, liquidity models.LiquidityRecord, holders models.HolderRecord) (models.SafetyVerdict, models.FlagSet) {
	var (
		total int
		flags models.FlagSet
	)
	for _, p := range Explain(Input{Honeypot: honeypot, Liquidity: liquidity, Holders: holders}) {
		total += p.Points
		flags = flags.Union(p.Flags)
	}

	score := max(0, min(100, startingScore-total))

	return models.SafetyVerdict{
		Score:          score,
		Grade:          GradeFor(score),
		Recommendation: RecommendationFor(score),
	}, flags
}

// GradeFor maps a score to its letter band.
func GradeFor(score int) models.Grade {
	switch {
	case score >= 80:
		return models.GradeA
	case score >= 60:
		return models.GradeB
	case score >= 40:
		return models.GradeC
	case score >= 20:
		return models.GradeD
	default:
		return models.GradeF
	}
}

// RecommendationFor maps a score to trading advice.
func RecommendationFor(score int) models.Recommendation {
	switch {
	case score >= 80:
		return models.RecommendSafe
	case score >= 50:
		return models.RecommendCaution
	case score >= 25:
		return models.RecommendRisky
	default:
		return models.RecommendAvoid
	}
}

// roundHalfUp rounds .5 toward positive infinity.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
