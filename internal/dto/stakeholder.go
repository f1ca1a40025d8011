package dto

import (
	"time"

	"github.com/muz4miL/genius-academia-sub002/internal/core/domain"
)

// CreateStakeholderRequest is the payload for onboarding a stakeholder.
// Role is explicit; it is never derived from the display name.
type CreateStakeholderRequest struct {
	Name string                 `json:"name" binding:"required"`
	Role domain.StakeholderRole `json:"role" binding:"required,stakeholderrole"`
}

// StakeholderResponse is the API representation of a stakeholder account.
type StakeholderResponse struct {
	StakeholderID    string                 `json:"stakeholderID"`
	Name             string                 `json:"name"`
	Role             domain.StakeholderRole `json:"role"`
	FloatingBalance  int64                  `json:"floatingBalance"`
	VerifiedBalance  int64                  `json:"verifiedBalance"`
	PaidOutTotal     int64                  `json:"paidOutTotal"`
	DebtToProprietor int64                  `json:"debtToProprietor"`
	WalletBalance    int64                  `json:"walletBalance"`
	IsActive         bool                   `json:"isActive"`
	CreatedAt        time.Time              `json:"createdAt"`
}

// ToStakeholderResponse converts a domain Stakeholder to its API representation.
func ToStakeholderResponse(s *domain.Stakeholder) StakeholderResponse {
	return StakeholderResponse{
		StakeholderID:    s.StakeholderID,
		Name:             s.Name,
		Role:             s.Role,
		FloatingBalance:  s.FloatingBalance,
		VerifiedBalance:  s.VerifiedBalance,
		PaidOutTotal:     s.PaidOutTotal,
		DebtToProprietor: s.DebtToProprietor,
		WalletBalance:    s.WalletBalance,
		IsActive:         s.IsActive,
		CreatedAt:        s.CreatedAt,
	}
}

// ListStakeholdersResponse is a page of stakeholders.
type ListStakeholdersResponse struct {
	Stakeholders []StakeholderResponse `json:"stakeholders"`
}
