package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DonationStatus enumerates payment states of a donation attempt.
type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "pending"
	DonationStatusCompleted DonationStatus = "completed"
	DonationStatusFailed    DonationStatus = "failed"
	DonationStatusRefunded  DonationStatus = "refunded"
)

// Payment method tags recorded on donations.
const (
	PaymentMethodCard    = "card"
	PaymentMethodCardano = "cardano"
)

// Donation is one payment event attributed to a campaign and a donor
// identity. A row is created once per payment attempt; status may move
// between states but the amount is immutable after insert.
type Donation struct {
	ID            string
	CampaignID    string
	UserID        string
	Amount        decimal.Decimal
	Status        DonationStatus
	Anonymous     bool
	Message       string
	TransactionID string
	PaymentMethod string
	DonorCountry  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ValidDonationStatus reports whether s is one of the known payment states.
func ValidDonationStatus(s DonationStatus) bool {
	switch s {
	case DonationStatusPending, DonationStatusCompleted, DonationStatusFailed, DonationStatusRefunded:
		return true
	}
	return false
}
