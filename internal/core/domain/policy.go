package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrRatioGroupEmpty      = errors.New("ratio group must have at least one share")
	ErrRatioGroupSum        = errors.New("ratio group must sum to exactly 100")
	ErrRatioShareNonPositive = errors.New("ratio share percent must be positive")
	ErrRatioPartnerRepeated = errors.New("ratio group lists the same partner twice")
)

// ShareRatio assigns one partner a percentage inside a ratio group.
type ShareRatio struct {
	PartnerID string          `json:"partnerID"`
	Percent   decimal.Decimal `json:"percent"`
}

// PolicyConfig is a versioned snapshot of the distribution policy. It is never
// mutated in place: calculations receive a loaded copy, and replacement happens
// wholesale after Validate passes. Exactly one policy is active at a time.
type PolicyConfig struct {
	PolicyID             string          `json:"policyID"`
	Name                 string          `json:"name"`
	StaffSharePercent    decimal.Decimal `json:"staffSharePercent"`    // instructor cut of regular tuition
	PartnerFullShare     bool            `json:"partnerFullShare"`     // the "100% rule" for equity partners
	ExamCommissionPerHead int64          `json:"examCommissionPerHead"` // fixed per-student commission, smallest unit
	FixedSalarySubject   string          `json:"fixedSalarySubject"`   // exam-track subject paid as flat salary
	TuitionPoolShares    []ShareRatio    `json:"tuitionPoolShares"`
	ExamPoolShares       []ShareRatio    `json:"examPoolShares"`
	ExpenseSplits        []ShareRatio    `json:"expenseSplits"`
	IsActive             bool            `json:"isActive"`
	AuditFields
}

var oneHundred = decimal.NewFromInt(100)

// Validate checks the internal consistency of the policy. A policy failing
// this check must be rejected at write time, never silently used.
func (p *PolicyConfig) Validate() error {
	if p.StaffSharePercent.LessThanOrEqual(decimal.Zero) || p.StaffSharePercent.GreaterThan(oneHundred) {
		return fmt.Errorf("staff share percent %s out of range (0, 100]", p.StaffSharePercent)
	}
	if p.ExamCommissionPerHead < 0 {
		return fmt.Errorf("exam commission per head must not be negative, got %d", p.ExamCommissionPerHead)
	}
	groups := map[string][]ShareRatio{
		"tuitionPoolShares": p.TuitionPoolShares,
		"examPoolShares":    p.ExamPoolShares,
		"expenseSplits":     p.ExpenseSplits,
	}
	for name, group := range groups {
		if err := validateRatioGroup(group); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func validateRatioGroup(group []ShareRatio) error {
	if len(group) == 0 {
		return ErrRatioGroupEmpty
	}
	sum := decimal.Zero
	seen := make(map[string]struct{}, len(group))
	for _, share := range group {
		if share.Percent.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: partner %s has %s", ErrRatioShareNonPositive, share.PartnerID, share.Percent)
		}
		if _, dup := seen[share.PartnerID]; dup {
			return fmt.Errorf("%w: %s", ErrRatioPartnerRepeated, share.PartnerID)
		}
		seen[share.PartnerID] = struct{}{}
		sum = sum.Add(share.Percent)
	}
	if !sum.Equal(oneHundred) {
		return fmt.Errorf("%w: got %s", ErrRatioGroupSum, sum)
	}
	return nil
}

// PoolShares returns the ratio group for the given pool track.
func (p *PolicyConfig) PoolShares(examTrack bool) []ShareRatio {
	if examTrack {
		return p.ExamPoolShares
	}
	return p.TuitionPoolShares
}
