package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/carebridge/server/internal/auth"
	"github.com/carebridge/server/internal/domain"
	"github.com/carebridge/server/internal/middleware"
)

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (a *App) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Email == "" || req.Password == "" {
		a.error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := a.Authenticator.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrWeakPassword):
			a.error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, auth.ErrEmailExists):
			a.error(w, http.StatusConflict, err.Error())
		default:
			a.fail(w, r, err)
		}
		return
	}

	token, err := a.Tokens.Issue(user)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"success": true,
		"token":   token,
		"user":    viewUser(user),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}

	user, err := a.Authenticator.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		a.error(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
		return
	}

	token, err := a.Tokens.Issue(user)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   token,
		"user":    viewUser(user),
	})
}

// Me returns the authenticated user's profile.
func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	user, err := a.Users.GetByID(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    viewUser(user),
	})
}

type paymentMethodRequest struct {
	Provider      string `json:"provider"`
	ProviderToken string `json:"providerToken"`
	Last4         string `json:"last4"`
	Default       bool   `json:"default"`
}

// PaymentMethodsSave stores a processor token for a returning donor.
func (a *App) PaymentMethodsSave(w http.ResponseWriter, r *http.Request) {
	var req paymentMethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Provider == "" || req.ProviderToken == "" {
		a.error(w, http.StatusBadRequest, "provider and providerToken are required")
		return
	}

	ref := &domain.PaymentMethodRef{
		ID:            uuid.NewString(),
		UserID:        middleware.UserIDFromContext(r.Context()),
		Provider:      req.Provider,
		ProviderToken: req.ProviderToken,
		Last4:         req.Last4,
		Default:       req.Default,
	}
	if err := a.PaymentMethods.Save(r.Context(), ref); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"success": true,
		"paymentMethod": map[string]any{
			"id":       ref.ID,
			"provider": ref.Provider,
			"last4":    ref.Last4,
			"default":  ref.Default,
		},
	})
}

// PaymentMethodsList returns the donor's saved payment instruments.
func (a *App) PaymentMethodsList(w http.ResponseWriter, r *http.Request) {
	refs, err := a.PaymentMethods.ListByUser(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	views := make([]map[string]any, 0, len(refs))
	for _, ref := range refs {
		views = append(views, map[string]any{
			"id":       ref.ID,
			"provider": ref.Provider,
			"last4":    ref.Last4,
			"default":  ref.Default,
		})
	}
	a.json(w, http.StatusOK, map[string]any{
		"success":        true,
		"paymentMethods": views,
	})
}
