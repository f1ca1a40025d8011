package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/muz4miL/genius-academia-sub002/internal/core/domain"
)

// ShareRatioDTO is one partner's percentage in a ratio group.
type ShareRatioDTO struct {
	PartnerID string          `json:"partnerID" binding:"required"`
	Percent   decimal.Decimal `json:"percent" binding:"required"`
}

// CreatePolicyRequest is the payload for registering a new policy version.
// Every ratio group must sum to exactly 100 or the policy is rejected.
type CreatePolicyRequest struct {
	Name                  string          `json:"name" binding:"required"`
	StaffSharePercent     decimal.Decimal `json:"staffSharePercent" binding:"required"`
	PartnerFullShare      bool            `json:"partnerFullShare"`
	ExamCommissionPerHead int64           `json:"examCommissionPerHead" binding:"gte=0"`
	FixedSalarySubject    string          `json:"fixedSalarySubject"`
	TuitionPoolShares     []ShareRatioDTO `json:"tuitionPoolShares" binding:"required,dive"`
	ExamPoolShares        []ShareRatioDTO `json:"examPoolShares" binding:"required,dive"`
	ExpenseSplits         []ShareRatioDTO `json:"expenseSplits" binding:"required,dive"`
}

// PolicyResponse is the API representation of a policy version.
type PolicyResponse struct {
	PolicyID              string          `json:"policyID"`
	Name                  string          `json:"name"`
	StaffSharePercent     decimal.Decimal `json:"staffSharePercent"`
	PartnerFullShare      bool            `json:"partnerFullShare"`
	ExamCommissionPerHead int64           `json:"examCommissionPerHead"`
	FixedSalarySubject    string          `json:"fixedSalarySubject,omitempty"`
	TuitionPoolShares     []ShareRatioDTO `json:"tuitionPoolShares"`
	ExamPoolShares        []ShareRatioDTO `json:"examPoolShares"`
	ExpenseSplits         []ShareRatioDTO `json:"expenseSplits"`
	IsActive              bool            `json:"isActive"`
	CreatedAt             time.Time       `json:"createdAt"`
}

func toShareRatioDTOs(shares []domain.ShareRatio) []ShareRatioDTO {
	out := make([]ShareRatioDTO, len(shares))
	for i, s := range shares {
		out[i] = ShareRatioDTO{PartnerID: s.PartnerID, Percent: s.Percent}
	}
	return out
}

// ToShareRatios converts DTO ratios to domain ratios.
func ToShareRatios(shares []ShareRatioDTO) []domain.ShareRatio {
	out := make([]domain.ShareRatio, len(shares))
	for i, s := range shares {
		out[i] = domain.ShareRatio{PartnerID: s.PartnerID, Percent: s.Percent}
	}
	return out
}

// ToPolicyResponse converts a domain PolicyConfig.
func ToPolicyResponse(p *domain.PolicyConfig) PolicyResponse {
	return PolicyResponse{
		PolicyID:              p.PolicyID,
		Name:                  p.Name,
		StaffSharePercent:     p.StaffSharePercent,
		PartnerFullShare:      p.PartnerFullShare,
		ExamCommissionPerHead: p.ExamCommissionPerHead,
		FixedSalarySubject:    p.FixedSalarySubject,
		TuitionPoolShares:     toShareRatioDTOs(p.TuitionPoolShares),
		ExamPoolShares:        toShareRatioDTOs(p.ExamPoolShares),
		ExpenseSplits:         toShareRatioDTOs(p.ExpenseSplits),
		IsActive:              p.IsActive,
		CreatedAt:             p.CreatedAt,
	}
}

// ListPoliciesResponse is a page of policy versions.
type ListPoliciesResponse struct {
	Policies []PolicyResponse `json:"policies"`
}
