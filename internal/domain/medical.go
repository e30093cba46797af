package domain

import "time"

// MedicalRecord is a supporting document attached to a campaign during
// review. The file itself lives in external storage; only the reference is
// kept here.
type MedicalRecord struct {
	ID          string
	CampaignID  string
	Title       string
	DocumentURL string
	UploadedBy  string
	CreatedAt   time.Time
}

// PaymentMethodRef is a stored reference to a donor's saved payment
// instrument at the external processor. No card data is persisted, only the
// processor's token.
type PaymentMethodRef struct {
	ID            string
	UserID        string
	Provider      string
	ProviderToken string
	Last4         string
	Default       bool
	CreatedAt     time.Time
}
