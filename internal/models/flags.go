package models

import (
	"encoding/json"
	"fmt"
)

// RiskFlag is one entry of the closed set of risk signals a check can raise.
type RiskFlag uint8

const (
	FlagHoneypot RiskFlag = iota
	FlagHighBuyTax
	FlagHighSellTax
	FlagExtremeTax
	FlagLowLiquidity
	FlagNoLiquidity
	// FlagUnlockedLiquidity is part of the public vocabulary but no current
	// source supplies lock data, so nothing raises it.
	FlagUnlockedLiquidity
	FlagHighHolderConcentration
	FlagWhaleDominated
	FlagMintable
	FlagPausable
	FlagBlacklistEnabled
	FlagOwnerCanModify

	flagCount
)

var flagNames = [flagCount]string{
	FlagHoneypot:                "HONEYPOT",
	FlagHighBuyTax:              "HIGH_BUY_TAX",
	FlagHighSellTax:             "HIGH_SELL_TAX",
	FlagExtremeTax:              "EXTREME_TAX",
	FlagLowLiquidity:            "LOW_LIQUIDITY",
	FlagNoLiquidity:             "NO_LIQUIDITY",
	FlagUnlockedLiquidity:       "UNLOCKED_LIQUIDITY",
	FlagHighHolderConcentration: "HIGH_HOLDER_CONCENTRATION",
	FlagWhaleDominated:          "WHALE_DOMINATED",
	FlagMintable:                "MINTABLE",
	FlagPausable:                "PAUSABLE",
	FlagBlacklistEnabled:        "BLACKLIST_ENABLED",
	FlagOwnerCanModify:          "OWNER_CAN_MODIFY",
}

// AllFlags returns every declared flag in declaration order.
func AllFlags() []RiskFlag {
	flags := make([]RiskFlag, 0, flagCount)
	for f := RiskFlag(0); f < flagCount; f++ {
		flags = append(flags, f)
	}
	return flags
}

// Valid reports whether f is a declared flag.
func (f RiskFlag) Valid() bool {
	return f < flagCount
}

func (f RiskFlag) String() string {
	if !f.Valid() {
		return fmt.Sprintf("RiskFlag(%d)", uint8(f))
	}
	return flagNames[f]
}

func (f RiskFlag) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("unknown risk flag %d", uint8(f))
	}
	return []byte(flagNames[f]), nil
}

func (f *RiskFlag) UnmarshalText(text []byte) error {
	flag, err := ParseRiskFlag(string(text))
	if err != nil {
		return err
	}
	*f = flag
	return nil
}

// ParseRiskFlag maps a wire name back to its flag.
func ParseRiskFlag(name string) (RiskFlag, error) {
	for f, n := range flagNames {
		if n == name {
			return RiskFlag(f), nil
		}
	}
	return 0, fmt.Errorf("unknown risk flag %q", name)
}

// FlagSet is a duplicate-free set of flags. Iteration follows declaration
// order, so the same input always serializes the same way.
type FlagSet uint16

// NewFlagSet builds a set from flags; repeated flags collapse.
func NewFlagSet(flags ...RiskFlag) FlagSet {
	var s FlagSet
	for _, f := range flags {
		s = s.With(f)
	}
	return s
}

// With returns s with f added. Adding a flag twice is a no-op.
func (s FlagSet) With(f RiskFlag) FlagSet {
	if !f.Valid() {
		return s
	}
	return s | 1<<f
}

// Union returns the flags present in either set.
func (s FlagSet) Union(other FlagSet) FlagSet {
	return s | other
}

func (s FlagSet) Has(f RiskFlag) bool {
	return f.Valid() && s&(1<<f) != 0
}

func (s FlagSet) Len() int {
	n := 0
	for f := RiskFlag(0); f < flagCount; f++ {
		if s.Has(f) {
			n++
		}
	}
	return n
}

// Flags lists the members of s in declaration order.
func (s FlagSet) Flags() []RiskFlag {
	flags := make([]RiskFlag, 0, s.Len())
	for f := RiskFlag(0); f < flagCount; f++ {
		if s.Has(f) {
			flags = append(flags, f)
		}
	}
	return flags
}

func (s FlagSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Flags())
}

func (s *FlagSet) UnmarshalJSON(data []byte) error {
	var flags []RiskFlag
	if err := json.Unmarshal(data, &flags); err != nil {
		return err
	}
	*s = NewFlagSet(flags...)
	return nil
}
