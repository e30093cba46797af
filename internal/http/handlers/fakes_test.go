package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/carebridge/server/internal/auth"
	"github.com/carebridge/server/internal/domain"
	"github.com/carebridge/server/internal/service"
)

// memStore backs the handlers with in-memory state behind one mutex, the
// same shape a single database gives the production code.
type memStore struct {
	mu             sync.Mutex
	users          map[string]*domain.User
	campaigns      map[string]*domain.Campaign
	donations      []domain.Donation
	updates        []domain.CampaignUpdate
	medical        []domain.MedicalRecord
	paymentMethods []domain.PaymentMethodRef
}

func newMemStore() *memStore {
	return &memStore{
		users:     make(map[string]*domain.User),
		campaigns: make(map[string]*domain.Campaign),
	}
}

func (s *memStore) addCampaign(id string, status domain.CampaignStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns[id] = &domain.Campaign{
		ID:     id,
		Title:  "Campaign " + id,
		Goal:   decimal.RequireFromString("1000.00"),
		Raised: decimal.Zero,
		Status: status,
	}
}

type memUsers struct{ s *memStore }

func (r memUsers) Create(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u := *user
	u.CreatedAt = time.Now()
	r.s.users[u.ID] = &u
	return nil
}

func (r memUsers) EnsureExists(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		u := *user
		r.s.users[u.ID] = &u
	}
	return nil
}

func (r memUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (r memUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

type memCampaigns struct{ s *memStore }

func (r memCampaigns) Create(ctx context.Context, campaign *domain.Campaign) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *campaign
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.s.campaigns[c.ID] = &c
	return nil
}

func (r memCampaigns) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.campaigns[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (r memCampaigns) List(ctx context.Context, status domain.CampaignStatus, limit int) ([]domain.Campaign, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Campaign
	for _, c := range r.s.campaigns {
		if status != "" && c.Status != status {
			continue
		}
		out = append(out, *c)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r memCampaigns) UpdateStatus(ctx context.Context, id string, status domain.CampaignStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.campaigns[id]
	if !ok {
		return domain.ErrCampaignNotFound
	}
	c.Status = status
	return nil
}

type memDonations struct{ s *memStore }

func (r memDonations) Record(ctx context.Context, donation *domain.Donation) (*domain.Donation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	campaign, ok := r.s.campaigns[donation.CampaignID]
	if !ok {
		return nil, domain.ErrCampaignNotFound
	}

	d := *donation
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	r.s.donations = append(r.s.donations, d)

	if d.Status == domain.DonationStatusCompleted {
		completed := 0
		for _, existing := range r.s.donations {
			if existing.CampaignID == d.CampaignID && existing.UserID == d.UserID && existing.Status == domain.DonationStatusCompleted {
				completed++
			}
		}
		campaign.Raised = campaign.Raised.Add(d.Amount)
		if completed == 1 {
			campaign.DonorCount++
		}
	}
	return &d, nil
}

func (r memDonations) GetByID(ctx context.Context, id string) (*domain.Donation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range r.s.donations {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r memDonations) ListByCampaign(ctx context.Context, campaignID string, limit int) ([]domain.Donation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Donation
	for i := len(r.s.donations) - 1; i >= 0 && len(out) < limit; i-- {
		if r.s.donations[i].CampaignID == campaignID {
			out = append(out, r.s.donations[i])
		}
	}
	return out, nil
}

func (r memDonations) SumCompletedByCampaign(ctx context.Context, campaignID string) (decimal.Decimal, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sum := decimal.Zero
	donors := make(map[string]struct{})
	for _, d := range r.s.donations {
		if d.CampaignID == campaignID && d.Status == domain.DonationStatusCompleted {
			sum = sum.Add(d.Amount)
			donors[d.UserID] = struct{}{}
		}
	}
	return sum, int64(len(donors)), nil
}

type memUpdates struct{ s *memStore }

func (r memUpdates) Append(ctx context.Context, update *domain.CampaignUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.campaigns[update.CampaignID]; !ok {
		return domain.ErrCampaignNotFound
	}
	r.s.updates = append(r.s.updates, *update)
	return nil
}

func (r memUpdates) ListByCampaign(ctx context.Context, campaignID string) ([]domain.CampaignUpdate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.CampaignUpdate
	for _, u := range r.s.updates {
		if u.CampaignID == campaignID {
			out = append(out, u)
		}
	}
	return out, nil
}

type memMedical struct{ s *memStore }

func (r memMedical) Create(ctx context.Context, record *domain.MedicalRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.campaigns[record.CampaignID]; !ok {
		return domain.ErrCampaignNotFound
	}
	r.s.medical = append(r.s.medical, *record)
	return nil
}

func (r memMedical) ListByCampaign(ctx context.Context, campaignID string) ([]domain.MedicalRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.MedicalRecord
	for _, rec := range r.s.medical {
		if rec.CampaignID == campaignID {
			out = append(out, rec)
		}
	}
	return out, nil
}

type memPaymentMethods struct{ s *memStore }

func (r memPaymentMethods) Save(ctx context.Context, ref *domain.PaymentMethodRef) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.paymentMethods = append(r.s.paymentMethods, *ref)
	return nil
}

func (r memPaymentMethods) ListByUser(ctx context.Context, userID string) ([]domain.PaymentMethodRef, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.PaymentMethodRef
	for _, ref := range r.s.paymentMethods {
		if ref.UserID == userID {
			out = append(out, ref)
		}
	}
	return out, nil
}

type memStats struct{ s *memStore }

func (r memStats) Summary(ctx context.Context) (*domain.StatsSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	summary := &domain.StatsSummary{TotalRaised: decimal.Zero}
	summary.TotalCampaigns = int64(len(r.s.campaigns))
	for _, c := range r.s.campaigns {
		if c.Status == domain.CampaignStatusActive {
			summary.ActiveCampaigns++
		}
	}
	donors := make(map[string]struct{})
	countries := make(map[string]int64)
	for _, d := range r.s.donations {
		if d.Status != domain.DonationStatusCompleted {
			continue
		}
		summary.TotalDonations++
		summary.TotalRaised = summary.TotalRaised.Add(d.Amount)
		donors[d.UserID] = struct{}{}
		if d.DonorCountry != "" {
			countries[d.DonorCountry]++
		}
	}
	summary.DistinctDonors = int64(len(donors))
	for country, n := range countries {
		summary.DonorCountries = append(summary.DonorCountries, domain.CountryCount{Country: country, Donations: n})
	}
	return summary, nil
}

func newTestApp(store *memStore) *App {
	logger := zerolog.Nop()
	users := memUsers{s: store}
	donations := memDonations{s: store}
	identity := service.NewIdentityResolver(users, logger)
	recorder := service.NewDonationRecorder(donations, identity, logger)
	tokens := auth.NewTokenManager("handler-test-secret-32-bytes-long!", time.Hour)
	return &App{
		Users:          users,
		Campaigns:      memCampaigns{s: store},
		Donations:      donations,
		Updates:        memUpdates{s: store},
		MedicalRecords: memMedical{s: store},
		PaymentMethods: memPaymentMethods{s: store},
		Stats:          memStats{s: store},
		Recorder:       recorder,
		Authenticator:  auth.NewPasswordAuthenticator(users),
		Tokens:         tokens,
		Treasury:       "addr1qtreasury",
		Logger:         logger,
	}
}
