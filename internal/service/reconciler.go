package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/carebridge/server/internal/domain"
	"github.com/carebridge/server/internal/metrics"
)

// CampaignAggregateStore is the slice of campaign persistence the
// reconciler needs: enumerate campaigns, read their cached aggregates and
// overwrite them.
type CampaignAggregateStore interface {
	ListIDs(ctx context.Context) ([]string, error)
	GetByID(ctx context.Context, id string) (*domain.Campaign, error)
	SetAggregates(ctx context.Context, id string, raised decimal.Decimal, donorCount int64) error
}

// Reconciler recomputes campaign aggregates from completed donation rows.
// The donation transaction keeps the cached columns correct in normal
// operation; the sweep repairs whatever manual edits or partial outages
// left behind.
type Reconciler struct {
	campaigns CampaignAggregateStore
	donations domain.DonationRepository
	logger    zerolog.Logger
}

// NewReconciler constructs the reconciler.
func NewReconciler(campaigns CampaignAggregateStore, donations domain.DonationRepository, logger zerolog.Logger) *Reconciler {
	return &Reconciler{campaigns: campaigns, donations: donations, logger: logger}
}

// SweepOnce recomputes every campaign and overwrites cached aggregates that
// drifted. It returns the number of corrected campaigns.
func (r *Reconciler) SweepOnce(ctx context.Context) (int, error) {
	ids, err := r.campaigns.ListIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("reconcile: list campaigns: %w", err)
	}

	corrected := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return corrected, err
		}

		campaign, err := r.campaigns.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return corrected, fmt.Errorf("reconcile: load campaign %s: %w", id, err)
		}

		raised, donors, err := r.donations.SumCompletedByCampaign(ctx, id)
		if err != nil {
			return corrected, fmt.Errorf("reconcile: sum donations for %s: %w", id, err)
		}

		if campaign.Raised.Equal(raised) && campaign.DonorCount == donors {
			continue
		}

		r.logger.Warn().
			Str("campaign_id", id).
			Str("cached_raised", campaign.Raised.String()).
			Str("actual_raised", raised.String()).
			Int64("cached_donors", campaign.DonorCount).
			Int64("actual_donors", donors).
			Msg("reconcile: aggregate drift corrected")

		if err := r.campaigns.SetAggregates(ctx, id, raised, donors); err != nil {
			return corrected, fmt.Errorf("reconcile: repair campaign %s: %w", id, err)
		}
		corrected++
		metrics.CampaignsReconciled.Inc()
	}
	return corrected, nil
}

// Run sweeps immediately and then at every interval tick until the context
// is cancelled.
func (r *Reconciler) Run(ctx context.Context, interval time.Duration) error {
	r.logger.Info().Dur("interval", interval).Msg("reconcile: started")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		corrected, err := r.SweepOnce(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			r.logger.Error().Err(err).Msg("reconcile: sweep failed")
		} else if corrected > 0 {
			r.logger.Info().Int("corrected", corrected).Msg("reconcile: sweep done")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
