package service

import (
	"context"
	"encoding/json"
	"sort"

	apperrors "github.com/spec-kit/cms-console/pkg/util"
)

var statsPaths = map[string]string{
	"active-users":          "/stats/active-users",
	"bounce-rate":           "/stats/bounce-rate",
	"country-analytics":     "/stats/country-analytics",
	"enquiries-last-7-days": "/stats/enquiries/last-7-days",
	"full-page-data":        "/stats/full-page-data",
	"session-duration":      "/stats/session-duration",
	"total-blogs":           "/stats/total-blogs",
	"total-counts":          "/stats/total-counts",
	"total-enquiries":       "/stats/total-enquiries",
	"total-page-views":      "/stats/total-page-views",
	"total-subscribers":     "/stats/total-subscribers",
	"traffic-sources":       "/stats/traffic-sources",
}

// StatsService reads dashboard analytics.
type StatsService struct {
	api Backend
}

func NewStatsService(api Backend) *StatsService {
	return &StatsService{api: api}
}

// Metrics lists the metric names Fetch accepts.
func (s *StatsService) Metrics() []string {
	names := make([]string, 0, len(statsPaths))
	for name := range statsPaths {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Fetch returns the backend's raw payload for metric.
func (s *StatsService) Fetch(ctx context.Context, metric string) (json.RawMessage, error) {
	path, ok := statsPaths[metric]
	if !ok {
		return nil, apperrors.NewNotFound("metric "+metric, nil)
	}
	var out json.RawMessage
	if err := s.api.Get(ctx, path, &out); err != nil {
		return nil, upstream(err, "Failed to load "+metric)
	}
	return out, nil
}
