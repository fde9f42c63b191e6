package app

import (
	"ecolearn_backend/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifyConfigChange(t *testing.T) {
	app := &App{}

	var seen []int
	app.RegisterConfigCallback(func(cfg *config.Config) {
		seen = append(seen, cfg.Gamification.PointsPerQuiz)
	})
	app.RegisterConfigCallback(func(cfg *config.Config) {
		seen = append(seen, cfg.Gamification.PointsPerLesson)
	})

	app.notifyConfigChange(&config.Config{
		Gamification: config.GamificationConfig{
			PointsPerQuiz:   75,
			PointsPerLesson: 15,
		},
	})

	// Every registered callback fires with the reloaded config.
	assert.Equal(t, []int{75, 15}, seen)
}

func TestNotifyConfigChangeNoCallbacks(t *testing.T) {
	app := &App{}

	assert.NotPanics(t, func() {
		app.notifyConfigChange(&config.Config{})
	})
}
