package handlers

import (
	"net/http"
)

// StatsSummary returns platform totals for the dashboard. The numbers come
// from the donation rows, so they agree with what the reconciler enforces.
func (a *App) StatsSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := a.Stats.Summary(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}

	countries := make([]map[string]any, 0, len(summary.DonorCountries))
	for _, c := range summary.DonorCountries {
		countries = append(countries, map[string]any{
			"country":   c.Country,
			"donations": c.Donations,
		})
	}
	a.json(w, http.StatusOK, map[string]any{
		"success":         true,
		"totalCampaigns":  summary.TotalCampaigns,
		"activeCampaigns": summary.ActiveCampaigns,
		"totalRaised":     summary.TotalRaised.StringFixed(2),
		"totalDonations":  summary.TotalDonations,
		"distinctDonors":  summary.DistinctDonors,
		"donorCountries":  countries,
	})
}
