package config

import (
	"mindwell-api/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultFeatureLimits(t *testing.T) {
	cfg := NewFeatureLimitConfig()

	assert.Equal(t, models.WindowDaily, cfg.WindowFor(models.FeatureConcernChat))
	assert.Equal(t, models.WindowWeekly, cfg.WindowFor(models.FeatureJournalAnalysis))
	assert.Equal(t, models.WindowWeekly, cfg.WindowFor(models.FeatureCustomMeditation))
	assert.Equal(t, models.WindowWeekly, cfg.WindowFor(models.FeatureCustomQuote))

	for _, kind := range models.AllFeatureKinds {
		assert.Equal(t, 1, cfg.QuotaFor(kind))
	}
}

func TestUnknownFeatureDefaults(t *testing.T) {
	cfg := NewFeatureLimitConfig()

	unknown := models.FeatureKind("somethingNew")
	assert.Equal(t, 1, cfg.QuotaFor(unknown))
	assert.Equal(t, models.WindowWeekly, cfg.WindowFor(unknown))
}
