package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/carebridge/server/internal/domain"
	"github.com/carebridge/server/internal/middleware"
)

type campaignRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Goal        decimal.Decimal `json:"goal"`
	Category    string          `json:"category"`
	Urgent      bool            `json:"urgent"`
}

// CampaignsCreate opens a new fundraising case in pending state; an admin
// moves it to active after review.
func (a *App) CampaignsCreate(w http.ResponseWriter, r *http.Request) {
	var req campaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Title == "" {
		a.error(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Goal.Sign() <= 0 {
		a.error(w, http.StatusBadRequest, "goal must be positive")
		return
	}

	campaign := &domain.Campaign{
		ID:          uuid.NewString(),
		OwnerID:     middleware.UserIDFromContext(r.Context()),
		Title:       req.Title,
		Description: req.Description,
		Goal:        req.Goal,
		Raised:      decimal.Zero,
		Status:      domain.CampaignStatusPending,
		Category:    req.Category,
		Urgent:      req.Urgent,
	}
	if err := a.Campaigns.Create(r.Context(), campaign); err != nil {
		a.fail(w, r, err)
		return
	}

	stored, err := a.Campaigns.GetByID(r.Context(), campaign.ID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"success":  true,
		"campaign": viewCampaign(stored),
	})
}

// CampaignGet returns one campaign with its running totals.
func (a *App) CampaignGet(w http.ResponseWriter, r *http.Request) {
	campaign, err := a.Campaigns.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success":  true,
		"campaign": viewCampaign(campaign),
	})
}

// CampaignsList returns campaigns, optionally filtered by lifecycle status.
func (a *App) CampaignsList(w http.ResponseWriter, r *http.Request) {
	status := domain.CampaignStatus(r.URL.Query().Get("status"))
	if status != "" && !domain.ValidCampaignStatus(status) {
		a.error(w, http.StatusBadRequest, "unknown status")
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 200 {
			a.error(w, http.StatusBadRequest, "limit must be between 1 and 200")
			return
		}
		limit = n
	}

	campaigns, err := a.Campaigns.List(r.Context(), status, limit)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	views := make([]campaignView, 0, len(campaigns))
	for i := range campaigns {
		views = append(views, viewCampaign(&campaigns[i]))
	}
	a.json(w, http.StatusOK, map[string]any{
		"success":   true,
		"campaigns": views,
	})
}

type statusRequest struct {
	Status string `json:"status"`
}

// CampaignStatusUpdate moves a campaign through its lifecycle. Admin only.
func (a *App) CampaignStatusUpdate(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	status := domain.CampaignStatus(req.Status)
	if !domain.ValidCampaignStatus(status) {
		a.error(w, http.StatusBadRequest, "unknown status")
		return
	}

	if err := a.Campaigns.UpdateStatus(r.Context(), chi.URLParam(r, "id"), status); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"success": true})
}

type updateRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// CampaignUpdatesAppend posts a progress note on a campaign.
func (a *App) CampaignUpdatesAppend(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Title == "" {
		a.error(w, http.StatusBadRequest, "title is required")
		return
	}

	update := &domain.CampaignUpdate{
		ID:         uuid.NewString(),
		CampaignID: chi.URLParam(r, "id"),
		Title:      req.Title,
		Content:    req.Content,
		PostedAt:   time.Now().UTC(),
	}
	if err := a.Updates.Append(r.Context(), update); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"success": true,
		"update":  viewUpdate(update),
	})
}

// CampaignUpdatesList returns the campaign's progress log, newest first.
func (a *App) CampaignUpdatesList(w http.ResponseWriter, r *http.Request) {
	updates, err := a.Updates.ListByCampaign(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	views := make([]updateView, 0, len(updates))
	for i := range updates {
		views = append(views, viewUpdate(&updates[i]))
	}
	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"updates": views,
	})
}

// CampaignDonations returns recent donations for the campaign.
func (a *App) CampaignDonations(w http.ResponseWriter, r *http.Request) {
	donations, err := a.Donations.ListByCampaign(r.Context(), chi.URLParam(r, "id"), 20)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success":   true,
		"donations": viewDonations(donations),
	})
}

type medicalRecordRequest struct {
	Title       string `json:"title"`
	DocumentURL string `json:"documentUrl"`
}

// MedicalRecordsCreate attaches a supporting document reference to a
// campaign for review.
func (a *App) MedicalRecordsCreate(w http.ResponseWriter, r *http.Request) {
	var req medicalRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Title == "" || req.DocumentURL == "" {
		a.error(w, http.StatusBadRequest, "title and documentUrl are required")
		return
	}

	record := &domain.MedicalRecord{
		ID:          uuid.NewString(),
		CampaignID:  chi.URLParam(r, "id"),
		Title:       req.Title,
		DocumentURL: req.DocumentURL,
		UploadedBy:  middleware.UserIDFromContext(r.Context()),
	}
	if err := a.MedicalRecords.Create(r.Context(), record); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"success": true,
		"record": map[string]any{
			"id":          record.ID,
			"campaignId":  record.CampaignID,
			"title":       record.Title,
			"documentUrl": record.DocumentURL,
		},
	})
}

// MedicalRecordsList returns the document references for a campaign.
// Admin only: the documents back the review decision.
func (a *App) MedicalRecordsList(w http.ResponseWriter, r *http.Request) {
	records, err := a.MedicalRecords.ListByCampaign(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	views := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		views = append(views, map[string]any{
			"id":          rec.ID,
			"campaignId":  rec.CampaignID,
			"title":       rec.Title,
			"documentUrl": rec.DocumentURL,
			"uploadedBy":  rec.UploadedBy,
		})
	}
	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"records": views,
	})
}
