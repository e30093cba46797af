package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CampaignStatus enumerates the campaign lifecycle.
type CampaignStatus string

const (
	CampaignStatusPending   CampaignStatus = "pending"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusCompleted CampaignStatus = "completed"
	CampaignStatusRejected  CampaignStatus = "rejected"
	CampaignStatusCancelled CampaignStatus = "cancelled"
)

// Campaign is a medical fundraising case with a goal and running totals.
// Raised and DonorCount only grow while the campaign operates normally;
// Raised must equal the sum of completed donation amounts for the campaign.
type Campaign struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Goal        decimal.Decimal
	Raised      decimal.Decimal
	DonorCount  int64
	Status      CampaignStatus
	Category    string
	Urgent      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidCampaignStatus reports whether s is one of the known lifecycle states.
func ValidCampaignStatus(s CampaignStatus) bool {
	switch s {
	case CampaignStatusPending, CampaignStatusActive, CampaignStatusCompleted,
		CampaignStatusRejected, CampaignStatusCancelled:
		return true
	}
	return false
}

// CampaignUpdate is an append-only progress note attached to a campaign.
type CampaignUpdate struct {
	ID         string
	CampaignID string
	Title      string
	Content    string
	PostedAt   time.Time
	CreatedAt  time.Time
}
