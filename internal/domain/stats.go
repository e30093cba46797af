package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// StatsSummary is the dashboard aggregate over campaigns and donations.
type StatsSummary struct {
	TotalCampaigns  int64
	ActiveCampaigns int64
	TotalRaised     decimal.Decimal
	TotalDonations  int64
	DistinctDonors  int64
	DonorCountries  []CountryCount
}

// CountryCount pairs an ISO country code with its completed donation count.
type CountryCount struct {
	Country   string
	Donations int64
}

// StatsRepository computes dashboard aggregates.
type StatsRepository interface {
	Summary(ctx context.Context) (*StatsSummary, error)
}
