package service

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carebridge/server/internal/domain"
)

// fakeStore holds in-memory users, campaigns and donations behind one mutex.
// fakeUserRepo and fakeDonationRepo are repository views over it; the
// donation view applies the same single-transaction aggregate contract the
// PostgreSQL implementation guarantees, so concurrent callers exercise the
// no-lost-update property.
type fakeStore struct {
	mu         sync.Mutex
	users      map[string]*domain.User
	campaigns  map[string]*domain.Campaign
	donations  []*domain.Donation
	ensureErr  error
	ensureHits int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     make(map[string]*domain.User),
		campaigns: make(map[string]*domain.Campaign),
	}
}

func (f *fakeStore) addCampaign(id string, raised string, donorCount int64) {
	f.campaigns[id] = &domain.Campaign{
		ID:         id,
		Raised:     decimal.RequireFromString(raised),
		DonorCount: donorCount,
		Status:     domain.CampaignStatusActive,
	}
}

func (f *fakeStore) addUser(id string) {
	f.users[id] = &domain.User{ID: id, Role: domain.UserRoleUser}
}

func (f *fakeStore) donationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.donations)
}

func (f *fakeStore) campaignState(id string) (string, int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.campaigns[id]
	return c.Raised.StringFixed(2), c.DonorCount
}

type fakeUserRepo struct {
	s *fakeStore
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) EnsureExists(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.ensureHits++
	if r.s.ensureErr != nil {
		return r.s.ensureErr
	}
	if _, ok := r.s.users[user.ID]; !ok {
		copied := *user
		r.s.users[user.ID] = &copied
	}
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

type fakeDonationRepo struct {
	s *fakeStore
}

func (r *fakeDonationRepo) Record(ctx context.Context, donation *domain.Donation) (*domain.Donation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	campaign, ok := r.s.campaigns[donation.CampaignID]
	if !ok {
		return nil, domain.ErrCampaignNotFound
	}

	copied := *donation
	copied.CreatedAt = time.Now()
	copied.UpdatedAt = copied.CreatedAt
	r.s.donations = append(r.s.donations, &copied)

	if copied.Status == domain.DonationStatusCompleted {
		completed := 0
		for _, d := range r.s.donations {
			if d.CampaignID == copied.CampaignID && d.UserID == copied.UserID && d.Status == domain.DonationStatusCompleted {
				completed++
			}
		}
		campaign.Raised = campaign.Raised.Add(copied.Amount)
		if completed == 1 {
			campaign.DonorCount++
		}
	}
	result := copied
	return &result, nil
}

func (r *fakeDonationRepo) GetByID(ctx context.Context, id string) (*domain.Donation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range r.s.donations {
		if d.ID == id {
			copied := *d
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeDonationRepo) ListByCampaign(ctx context.Context, campaignID string, limit int) ([]domain.Donation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var items []domain.Donation
	for _, d := range r.s.donations {
		if d.CampaignID == campaignID {
			items = append(items, *d)
		}
	}
	return items, nil
}

func (r *fakeDonationRepo) SumCompletedByCampaign(ctx context.Context, campaignID string) (decimal.Decimal, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := decimal.Zero
	donors := make(map[string]struct{})
	for _, d := range r.s.donations {
		if d.CampaignID == campaignID && d.Status == domain.DonationStatusCompleted {
			total = total.Add(d.Amount)
			donors[d.UserID] = struct{}{}
		}
	}
	return total, int64(len(donors)), nil
}

// fakeCampaignStore is the aggregate view the reconciler uses.
type fakeCampaignStore struct {
	s *fakeStore
}

func (r *fakeCampaignStore) ListIDs(ctx context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := make([]string, 0, len(r.s.campaigns))
	for id := range r.s.campaigns {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *fakeCampaignStore) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.campaigns[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeCampaignStore) SetAggregates(ctx context.Context, id string, raised decimal.Decimal, donorCount int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.campaigns[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Raised = raised
	c.DonorCount = donorCount
	return nil
}

var (
	_ domain.UserRepository     = (*fakeUserRepo)(nil)
	_ domain.DonationRepository = (*fakeDonationRepo)(nil)
	_ CampaignAggregateStore    = (*fakeCampaignStore)(nil)
)
