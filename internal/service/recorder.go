package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/carebridge/server/internal/domain"
	"github.com/carebridge/server/internal/metrics"
)

// RecordInput carries one donation request into the recorder. Amount is
// required and positive; Status defaults to completed when empty, because a
// request that reaches the recorder without a server-verified status is
// taken to represent a payment already confirmed by a bridge.
type RecordInput struct {
	CampaignID    string
	UserID        string
	Amount        decimal.Decimal
	Status        domain.DonationStatus
	Anonymous     bool
	Message       string
	TransactionID string
	PaymentMethod string
	DonorCountry  string
}

// DonationRecorder persists donations and keeps campaign aggregates
// consistent with completed donations.
type DonationRecorder struct {
	donations domain.DonationRepository
	identity  *IdentityResolver
	logger    zerolog.Logger
}

// NewDonationRecorder constructs the recorder.
func NewDonationRecorder(donations domain.DonationRepository, identity *IdentityResolver, logger zerolog.Logger) *DonationRecorder {
	return &DonationRecorder{donations: donations, identity: identity, logger: logger}
}

// Record validates the input, resolves the donor identity and writes the
// donation. For completed donations the campaign's raised total grows by
// exactly the donation amount and the donor count by one when this donor
// has not completed a donation to the campaign before; both land in the
// same store transaction as the insert.
func (s *DonationRecorder) Record(ctx context.Context, in RecordInput) (*domain.Donation, error) {
	if in.CampaignID == "" {
		metrics.DonationFailures.WithLabelValues("missing_campaign").Inc()
		return nil, fmt.Errorf("%w: campaignId", domain.ErrMissingField)
	}
	if in.Amount.IsZero() {
		metrics.DonationFailures.WithLabelValues("missing_amount").Inc()
		return nil, fmt.Errorf("%w: amount", domain.ErrMissingField)
	}
	if in.Amount.Sign() <= 0 {
		metrics.DonationFailures.WithLabelValues("invalid_amount").Inc()
		return nil, domain.ErrInvalidAmount
	}

	status := in.Status
	if status == "" {
		status = domain.DonationStatusCompleted
	}
	if !domain.ValidDonationStatus(status) {
		metrics.DonationFailures.WithLabelValues("invalid_status").Inc()
		return nil, fmt.Errorf("%w: status %q", domain.ErrMissingField, in.Status)
	}

	donation := &domain.Donation{
		ID:            uuid.NewString(),
		CampaignID:    in.CampaignID,
		UserID:        s.identity.Resolve(ctx, in.UserID, in.Anonymous),
		Amount:        in.Amount,
		Status:        status,
		Anonymous:     in.Anonymous,
		Message:       in.Message,
		TransactionID: in.TransactionID,
		PaymentMethod: in.PaymentMethod,
		DonorCountry:  in.DonorCountry,
	}

	recorded, err := s.donations.Record(ctx, donation)
	if err != nil {
		if errors.Is(err, domain.ErrCampaignNotFound) {
			metrics.DonationFailures.WithLabelValues("campaign_not_found").Inc()
			return nil, domain.ErrCampaignNotFound
		}
		metrics.DonationFailures.WithLabelValues("store").Inc()
		return nil, fmt.Errorf("record donation: %w", err)
	}

	metrics.DonationsRecorded.WithLabelValues(string(recorded.Status), recorded.PaymentMethod).Inc()
	s.logger.Info().
		Str("donation_id", recorded.ID).
		Str("campaign_id", recorded.CampaignID).
		Str("status", string(recorded.Status)).
		Str("amount", recorded.Amount.String()).
		Msg("donation recorded")
	return recorded, nil
}
