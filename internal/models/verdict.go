package models

// Grade is the letter band of a safety score.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// Rank orders grades so that a better grade has a higher rank.
func (g Grade) Rank() int {
	switch g {
	case GradeA:
		return 4
	case GradeB:
		return 3
	case GradeC:
		return 2
	case GradeD:
		return 1
	default:
		return 0
	}
}

// Recommendation is the discrete trading advice derived from a safety score.
type Recommendation string

const (
	RecommendSafe    Recommendation = "SAFE"
	RecommendCaution Recommendation = "CAUTION"
	RecommendRisky   Recommendation = "RISKY"
	RecommendAvoid   Recommendation = "AVOID"
)

// Rank orders recommendations so that safer advice has a higher rank.
func (r Recommendation) Rank() int {
	switch r {
	case RecommendSafe:
		return 3
	case RecommendCaution:
		return 2
	case RecommendRisky:
		return 1
	default:
		return 0
	}
}

// SafetyVerdict is the final score of a token with its derived bands.
type SafetyVerdict struct {
	Score          int            `json:"score"`
	Grade          Grade          `json:"grade"`
	Recommendation Recommendation `json:"recommendation"`
}
