package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/carebridge/server/internal/auth"
	"github.com/carebridge/server/internal/domain"
	"github.com/carebridge/server/internal/service"
)

// App bundles the dependencies the HTTP handlers need.
type App struct {
	Users          domain.UserRepository
	Campaigns      domain.CampaignRepository
	Donations      domain.DonationRepository
	Updates        domain.CampaignUpdateRepository
	MedicalRecords domain.MedicalRecordRepository
	PaymentMethods domain.PaymentMethodRepository
	Stats          domain.StatsRepository
	Recorder       *service.DonationRecorder
	Payments       *service.PaymentFlow
	Authenticator  *auth.PasswordAuthenticator
	Tokens         *auth.TokenManager
	Treasury       string
	Logger         zerolog.Logger
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, msg string) {
	a.json(w, code, map[string]any{"success": false, "error": msg})
}

// fail maps domain errors onto the response taxonomy: validation failures
// are 400, unknown targets 404, auth problems 401, declined payments 402,
// and anything else a 500 with the detail kept in the log, not the body.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingField), errors.Is(err, domain.ErrInvalidAmount):
		a.error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrCampaignNotFound), errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrPaymentDeclined):
		a.error(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, domain.ErrBridgeFailure):
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("payment bridge failure")
		a.error(w, http.StatusBadGateway, "payment provider unavailable")
	default:
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal error")
	}
}
