package api

import (
	"context"

	"github.com/mavinms/prism-project/client/internal/types"
)

// StatsOverview returns catalog and annotation totals.
func StatsOverview(ctx context.Context, httpClient types.HTTPClient, baseURL string) (*types.StatsOverview, error) {
	var stats types.StatsOverview
	if err := getJSON(ctx, httpClient, baseURL, "/api/stats/overview", "stats overview", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
