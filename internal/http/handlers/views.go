package handlers

import (
	"time"

	"github.com/carebridge/server/internal/domain"
)

// Wire representations. Amounts travel as decimal strings so clients never
// see float rounding on money.

type donationView struct {
	ID            string    `json:"id"`
	CampaignID    string    `json:"campaignId"`
	UserID        string    `json:"userId"`
	Amount        string    `json:"amount"`
	Status        string    `json:"status"`
	Anonymous     bool      `json:"anonymous"`
	Message       string    `json:"message,omitempty"`
	TransactionID string    `json:"transactionId,omitempty"`
	PaymentMethod string    `json:"paymentMethod,omitempty"`
	DonorCountry  string    `json:"donorCountry,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

func viewDonation(d *domain.Donation) donationView {
	return donationView{
		ID:            d.ID,
		CampaignID:    d.CampaignID,
		UserID:        d.UserID,
		Amount:        d.Amount.StringFixed(2),
		Status:        string(d.Status),
		Anonymous:     d.Anonymous,
		Message:       d.Message,
		TransactionID: d.TransactionID,
		PaymentMethod: d.PaymentMethod,
		DonorCountry:  d.DonorCountry,
		CreatedAt:     d.CreatedAt,
	}
}

func viewDonations(list []domain.Donation) []donationView {
	out := make([]donationView, 0, len(list))
	for i := range list {
		out = append(out, viewDonation(&list[i]))
	}
	return out
}

type campaignView struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Goal        string    `json:"goal"`
	Raised      string    `json:"raised"`
	DonorCount  int64     `json:"donorCount"`
	Status      string    `json:"status"`
	Category    string    `json:"category,omitempty"`
	Urgent      bool      `json:"urgent"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func viewCampaign(c *domain.Campaign) campaignView {
	return campaignView{
		ID:          c.ID,
		OwnerID:     c.OwnerID,
		Title:       c.Title,
		Description: c.Description,
		Goal:        c.Goal.StringFixed(2),
		Raised:      c.Raised.StringFixed(2),
		DonorCount:  c.DonorCount,
		Status:      string(c.Status),
		Category:    c.Category,
		Urgent:      c.Urgent,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type updateView struct {
	ID         string    `json:"id"`
	CampaignID string    `json:"campaignId"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	PostedAt   time.Time `json:"postedAt"`
}

func viewUpdate(u *domain.CampaignUpdate) updateView {
	return updateView{
		ID:         u.ID,
		CampaignID: u.CampaignID,
		Title:      u.Title,
		Content:    u.Content,
		PostedAt:   u.PostedAt,
	}
}

type userView struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Verified bool   `json:"verified"`
}

func viewUser(u *domain.User) userView {
	return userView{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		Role:     string(u.Role),
		Verified: u.Verified,
	}
}
