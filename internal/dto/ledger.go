package dto

import (
	"time"

	"github.com/muz4miL/genius-academia-sub002/internal/core/domain"
)

// LedgerOpRequest is the payload for a manual ledger credit or debit.
// Amount is positive; the endpoint determines the direction.
type LedgerOpRequest struct {
	StakeholderID string `json:"stakeholderID" binding:"required"`
	Bucket        string `json:"bucket" binding:"required"`
	Amount        int64  `json:"amount" binding:"required,gt=0"`
	Kind          string `json:"kind" binding:"required"`
	Status        string `json:"status" binding:"required"`
	Stream        string `json:"stream" binding:"required"`
	SourceType    string `json:"sourceType" binding:"required"`
	SourceID      string `json:"sourceID"`
	Notes         string `json:"notes"`
}

// TransferBucketRequest is the payload for moving an amount between two
// buckets of one stakeholder, e.g. the day-close FLOATING to VERIFIED move.
type TransferBucketRequest struct {
	StakeholderID string `json:"stakeholderID" binding:"required"`
	FromBucket    string `json:"fromBucket" binding:"required"`
	ToBucket      string `json:"toBucket" binding:"required"`
	Amount        int64  `json:"amount" binding:"required,gt=0"`
}

// ListEntriesParams holds parameters for listing a stakeholder's ledger entries.
type ListEntriesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// LedgerEntryResponse is the API representation of a ledger entry.
type LedgerEntryResponse struct {
	EntryID       string    `json:"entryID"`
	StakeholderID string    `json:"stakeholderID,omitempty"`
	Kind          string    `json:"kind"`
	Status        string    `json:"status"`
	Direction     string    `json:"direction"`
	Bucket        string    `json:"bucket,omitempty"`
	Amount        int64     `json:"amount"`
	Stream        string    `json:"stream"`
	SourceType    string    `json:"sourceType"`
	SourceID      string    `json:"sourceID"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ToLedgerEntryResponse converts a domain LedgerEntry.
func ToLedgerEntryResponse(e domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:       e.EntryID,
		StakeholderID: e.StakeholderID,
		Kind:          string(e.Kind),
		Status:        string(e.Status),
		Direction:     string(e.Direction),
		Bucket:        string(e.Bucket),
		Amount:        e.Amount,
		Stream:        string(e.Stream),
		SourceType:    string(e.SourceType),
		SourceID:      e.SourceID,
		Notes:         e.Notes,
		CreatedAt:     e.CreatedAt,
	}
}

// ToLedgerEntryResponses converts a slice of ledger entries.
func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	out := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = ToLedgerEntryResponse(e)
	}
	return out
}

// ListEntriesResponse is a page of ledger entries with the next page token.
type ListEntriesResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}
