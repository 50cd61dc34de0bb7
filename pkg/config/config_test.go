package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AWS_BUCKET", "resumes")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, "http://localhost:5000", cfg.Ranking.ServiceURL)
	assert.Equal(t, 60*time.Second, cfg.Ranking.Timeout)
	assert.Equal(t, 8, cfg.Ranking.MaxConcurrency)
	assert.Equal(t, StorageDriverS3, cfg.Storage.Driver)
	assert.False(t, cfg.Applications.StrictTransitions)
	assert.Contains(t, cfg.Database.DSN(), "dbname=jobboard")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "LOCAL")
	t.Setenv("PORT", "9000")
	t.Setenv("ML_SERVICE_URL", "http://ranker:5000")
	t.Setenv("RANKING_TIMEOUT", "15")
	t.Setenv("APPLICATION_STRICT_TRANSITIONS", "true")
	t.Setenv("DATABASE_URL", "postgres://u:p@db/jobs")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverLocal, cfg.Storage.Driver)
	assert.Equal(t, "http://localhost:9000/files", cfg.Storage.PublicBaseURL)
	assert.Equal(t, "http://ranker:5000", cfg.Ranking.ServiceURL)
	assert.Equal(t, 15*time.Second, cfg.Ranking.Timeout)
	assert.True(t, cfg.Applications.StrictTransitions)
	assert.Equal(t, "postgres://u:p@db/jobs", cfg.Database.DSN())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"s3 without bucket", func(c *Config) { c.Storage.Bucket = "" }, "AWS_BUCKET"},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "ftp" }, "STORAGE_DRIVER"},
		{"zero timeout", func(c *Config) { c.Ranking.Timeout = 0 }, "RANKING_TIMEOUT"},
		{"zero concurrency", func(c *Config) { c.Ranking.MaxConcurrency = 0 }, "RANKING_MAX_CONCURRENCY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Storage:      StorageConfig{Driver: StorageDriverS3, Bucket: "b"},
				Ranking:      RankingConfig{ServiceURL: "http://x", Timeout: time.Second, MaxConcurrency: 1},
				Applications: ApplicationsConfig{MaxResumeBytes: 1},
			}
			require.NoError(t, cfg.Validate())

			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
