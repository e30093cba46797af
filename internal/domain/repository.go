package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// UserRepository defines access methods for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	// EnsureExists inserts the user row if and only if no row with the same
	// id exists yet. Concurrent callers must all succeed with one row.
	EnsureExists(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// CampaignRepository defines persistence for campaigns.
type CampaignRepository interface {
	Create(ctx context.Context, campaign *Campaign) error
	GetByID(ctx context.Context, id string) (*Campaign, error)
	List(ctx context.Context, status CampaignStatus, limit int) ([]Campaign, error)
	UpdateStatus(ctx context.Context, id string, status CampaignStatus) error
}

// DonationRepository handles donation persistence and the campaign
// aggregate contract.
type DonationRepository interface {
	// Record inserts the donation and, when its status is completed,
	// increments the parent campaign's raised amount by the donation amount
	// and the donor count by one iff this is the donor's first completed
	// donation to the campaign. Insert and increments commit atomically.
	Record(ctx context.Context, donation *Donation) (*Donation, error)
	GetByID(ctx context.Context, id string) (*Donation, error)
	ListByCampaign(ctx context.Context, campaignID string, limit int) ([]Donation, error)
	// SumCompletedByCampaign recomputes the ground-truth aggregate for
	// reconciliation.
	SumCompletedByCampaign(ctx context.Context, campaignID string) (decimal.Decimal, int64, error)
}

// CampaignUpdateRepository stores the append-only campaign progress log.
type CampaignUpdateRepository interface {
	Append(ctx context.Context, update *CampaignUpdate) error
	ListByCampaign(ctx context.Context, campaignID string) ([]CampaignUpdate, error)
}

// MedicalRecordRepository stores document references for campaign review.
type MedicalRecordRepository interface {
	Create(ctx context.Context, record *MedicalRecord) error
	ListByCampaign(ctx context.Context, campaignID string) ([]MedicalRecord, error)
}

// PaymentMethodRepository stores processor tokens for returning donors.
type PaymentMethodRepository interface {
	Save(ctx context.Context, ref *PaymentMethodRef) error
	ListByUser(ctx context.Context, userID string) ([]PaymentMethodRef, error)
}
