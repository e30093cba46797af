package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/carebridge/server/internal/middleware"
	"github.com/carebridge/server/internal/service"
)

type cardDonationRequest struct {
	CampaignID  string          `json:"campaignId"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	MethodToken string          `json:"methodToken"`
	Anonymous   bool            `json:"anonymous"`
	Message     string          `json:"message"`
}

// DonateByCard charges a card through the processor bridge and records the
// completed donation.
func (a *App) DonateByCard(w http.ResponseWriter, r *http.Request) {
	var req cardDonationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.MethodToken == "" {
		a.error(w, http.StatusBadRequest, "methodToken is required")
		return
	}
	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}

	donation, err := a.Payments.DonateByCard(r.Context(), service.CardDonationInput{
		CampaignID:   req.CampaignID,
		UserID:       middleware.UserIDFromContext(r.Context()),
		Amount:       req.Amount,
		Currency:     currency,
		MethodToken:  req.MethodToken,
		Anonymous:    req.Anonymous,
		Message:      req.Message,
		DonorCountry: middleware.CountryFromContext(r.Context()),
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}

	a.json(w, http.StatusCreated, map[string]any{
		"success":  true,
		"donation": viewDonation(donation),
	})
}

type walletDonationRequest struct {
	CampaignID string          `json:"campaignId"`
	Amount     decimal.Decimal `json:"amount"`
	Wallet     string          `json:"wallet"`
	Anonymous  bool            `json:"anonymous"`
	Message    string          `json:"message"`
}

// DonateByWallet moves funds on-chain to the platform treasury and records
// the completed donation once the gateway hands back a transaction hash.
func (a *App) DonateByWallet(w http.ResponseWriter, r *http.Request) {
	var req walletDonationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Wallet == "" {
		a.error(w, http.StatusBadRequest, "wallet is required")
		return
	}

	donation, err := a.Payments.DonateByWallet(r.Context(), service.WalletDonationInput{
		CampaignID:   req.CampaignID,
		UserID:       req.Wallet,
		Amount:       req.Amount,
		WalletHandle: req.Wallet,
		Recipient:    a.Treasury,
		Anonymous:    req.Anonymous,
		Message:      req.Message,
		DonorCountry: middleware.CountryFromContext(r.Context()),
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}

	a.json(w, http.StatusCreated, map[string]any{
		"success":  true,
		"donation": viewDonation(donation),
	})
}
