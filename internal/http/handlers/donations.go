package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/carebridge/server/internal/domain"
	"github.com/carebridge/server/internal/middleware"
	"github.com/carebridge/server/internal/service"
)

type donationRequest struct {
	CampaignID    string          `json:"campaignId"`
	UserID        string          `json:"userId"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	Anonymous     bool            `json:"anonymous"`
	Message       string          `json:"message"`
	TransactionID string          `json:"transactionId"`
	PaymentMethod string          `json:"paymentMethod"`
}

// DonationsCreate records a donation whose payment was settled outside the
// bridges (or a pending one awaiting settlement).
func (a *App) DonationsCreate(w http.ResponseWriter, r *http.Request) {
	var req donationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = middleware.UserIDFromContext(r.Context())
	}

	donation, err := a.Recorder.Record(r.Context(), service.RecordInput{
		CampaignID:    req.CampaignID,
		UserID:        userID,
		Amount:        req.Amount,
		Status:        domain.DonationStatus(req.Status),
		Anonymous:     req.Anonymous,
		Message:       req.Message,
		TransactionID: req.TransactionID,
		PaymentMethod: req.PaymentMethod,
		DonorCountry:  middleware.CountryFromContext(r.Context()),
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

// DonationsList returns recent donations for a campaign. The UI re-queries
// this after a successful donation instead of patching local state.
func (a *App) DonationsList(w http.ResponseWriter, r *http.Request) {
	campaignID := r.URL.Query().Get("campaignId")
	if campaignID == "" {
		a.error(w, http.StatusBadRequest, "campaignId is required")
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			a.error(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	donations, err := a.Donations.ListByCampaign(r.Context(), campaignID, limit)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success":   true,
		"donations": viewDonations(donations),
	})
}

// DonationGet returns a single donation by id.
func (a *App) DonationGet(w http.ResponseWriter, r *http.Request) {
	donation, err := a.Donations.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success":  true,
		"donation": viewDonation(donation),
	})
}
