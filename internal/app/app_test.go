package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/churn_guard/backend/internal/config"
	"github.com/churn_guard/backend/internal/scoring"
)

func TestNewScorerSelection(t *testing.T) {
	log := zerolog.Nop()

	_, isMock := NewScorer(config.Config{Env: "dev"}, log).(scoring.MockScorer)
	assert.True(t, isMock)

	_, isHTTP := NewScorer(config.Config{Env: "prod"}, log).(*scoring.HTTPScorer)
	assert.True(t, isHTTP, "prod never falls back to the mock")

	_, isHTTP = NewScorer(config.Config{Env: "dev", ModelURL: "http://model", ModelAPIKey: "k"}, log).(*scoring.HTTPScorer)
	assert.True(t, isHTTP)
}

func TestBuildWithCSVHistory(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Config{
		Env:         "dev",
		HistoryPath: filepath.Join(dir, "history.csv"),
		DatasetPath: filepath.Join(dir, "churn.csv"),
	}

	a, err := Build(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.DB)
	assert.Nil(t, a.Auth)
	assert.NotNil(t, a.Predictions)
	assert.NotNil(t, a.Dataset)
}

func TestBuildFailsOnMissingAuthConfig(t *testing.T) {
	cfg := config.Config{
		HistoryPath:    filepath.Join(t.TempDir(), "history.csv"),
		AuthConfigPath: filepath.Join(t.TempDir(), "missing.yaml"),
	}
	_, err := Build(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	l := NewLogger(config.Config{LogLevel: "nope"}, zerolog.Nop())
	assert.Equal(t, zerolog.InfoLevel, l.GetLevel())
}
