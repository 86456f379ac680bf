package config

import (
	"mindwell-api/internal/models"
)

// FeatureLimitConfig maps each AI feature to the window it resets over
// and the number of free-tier uses allowed inside one window.
// Subscribed users are never metered, so no entry applies to them.
type FeatureLimitConfig struct {
	Windows map[models.FeatureKind]models.WindowClass
	Quotas  map[models.FeatureKind]int
}

func NewFeatureLimitConfig() *FeatureLimitConfig {
	return &FeatureLimitConfig{
		Windows: map[models.FeatureKind]models.WindowClass{
			models.FeatureConcernChat:      models.WindowDaily,
			models.FeatureJournalAnalysis:  models.WindowWeekly,
			models.FeatureCustomMeditation: models.WindowWeekly,
			models.FeatureCustomQuote:      models.WindowWeekly,
		},
		Quotas: map[models.FeatureKind]int{
			models.FeatureConcernChat:      1,
			models.FeatureJournalAnalysis:  1,
			models.FeatureCustomMeditation: 1,
			models.FeatureCustomQuote:      1,
		},
	}
}

// QuotaFor returns the free-tier allowance for a feature, defaulting to
// a single use for unknown kinds.
func (c *FeatureLimitConfig) QuotaFor(kind models.FeatureKind) int {
	if q, ok := c.Quotas[kind]; ok {
		return q
	}
	return 1
}

// WindowFor returns the reset window class for a feature, defaulting to
// weekly for unknown kinds.
func (c *FeatureLimitConfig) WindowFor(kind models.FeatureKind) models.WindowClass {
	if w, ok := c.Windows[kind]; ok {
		return w
	}
	return models.WindowWeekly
}
