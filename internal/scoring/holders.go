package scoring

import "github.com/notlelouch/go-interview-practice/Token-Safety-Check/internal/models"

const (
	idealTop10Percent = 30.0
	worstTop10Percent = 95.0

	whaleDominatedPercent    = 90.0
	highConcentrationPercent = 70.0
)

// HolderConcentrationScore rates holder spread on 0-100, higher is safer.
// No holder data counts as the worst case.
func HolderConcentrationScore(holders models.HolderRecord) int {
	if holders.Count == 0 {
		return 0
	}

	top10 := holders.Top10Percent
	if top10 <= idealTop10Percent {
		return 100
	}
	if top10 >= worstTop10Percent {
		return 0
	}

	// Linear between the ideal and worst bounds
	return roundHalfUp(100 - ((top10-idealTop10Percent)/(worstTop10Percent-idealTop10Percent))*100)
}

// CreatorRiskScore rates the deployer's share of supply on 0-100, higher is safer.
func CreatorRiskScore(creatorPercent float64) int {
	switch {
	case creatorPercent == 0:
		return 100
	case creatorPercent > 50:
		return 0
	case creatorPercent > 30:
		return 25
	case creatorPercent > 15:
		return 50
	case creatorPercent > 5:
		return 75
	default:
		return 90
	}
}

// AnalyzeHolders raises at most one concentration flag, the more severe one.
func AnalyzeHolders(holders models.HolderRecord) models.FlagSet {
	switch {
	case holders.Top10Percent > whaleDominatedPercent:
		return models.NewFlagSet(models.FlagWhaleDominated)
	case holders.Top10Percent > highConcentrationPercent:
		return models.NewFlagSet(models.FlagHighHolderConcentration)
	default:
		return 0
	}
}
