package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreFullyOn(t *testing.T) {
	ff := LoadFeatureFlags()

	for name := range ff.GetAllFeatures() {
		assert.True(t, ff.IsEnabled(name, "some-user"), name)
		assert.True(t, ff.IsEnabled(name, ""), "%s should be on globally", name)
	}
}

func TestUnknownFeatureIsOff(t *testing.T) {
	ff := LoadFeatureFlags()
	assert.False(t, ff.IsEnabled("no.such.flag", "u1"))
}

func TestEnvironmentOverrideBool(t *testing.T) {
	t.Setenv("FEATURE_TRACK_ACTIVITY", "false")

	ff := LoadFeatureFlags()
	assert.False(t, ff.IsEnabled(FeatureTrackActivity, "u1"))
	assert.True(t, ff.IsEnabled(FeatureTrackViews, "u1"), "other flags are untouched")
}

func TestEnvironmentOverridePercent(t *testing.T) {
	t.Setenv("FEATURE_STATS_CACHE", "50")

	ff := LoadFeatureFlags()
	features := ff.GetAllFeatures()
	require.Contains(t, features, FeatureStatsCache)
	assert.Equal(t, 50, features[FeatureStatsCache].RolloutPercent)

	// A partial rollout is never considered globally on.
	assert.False(t, ff.IsEnabled(FeatureStatsCache, ""))
}

func TestRolloutIsConsistentPerUser(t *testing.T) {
	ff := LoadFeatureFlags()
	require.NoError(t, ff.SetRolloutPercent(FeatureStatsCache, 50))

	first := ff.IsEnabled(FeatureStatsCache, "u1")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ff.IsEnabled(FeatureStatsCache, "u1"),
			"a user never flips buckets between checks")
	}
}

func TestRolloutZeroAndHundred(t *testing.T) {
	ff := LoadFeatureFlags()

	require.NoError(t, ff.SetRolloutPercent(FeatureWishlist, 0))
	assert.False(t, ff.IsEnabled(FeatureWishlist, "u1"))

	require.NoError(t, ff.SetRolloutPercent(FeatureWishlist, 100))
	assert.True(t, ff.IsEnabled(FeatureWishlist, "u1"))
}

func TestSetRolloutPercentValidation(t *testing.T) {
	ff := LoadFeatureFlags()

	assert.ErrorIs(t, ff.SetRolloutPercent("no.such.flag", 50), ErrFeatureNotFound)
	assert.ErrorIs(t, ff.SetRolloutPercent(FeatureWishlist, 101), ErrInvalidRolloutPercent)
	assert.ErrorIs(t, ff.SetRolloutPercent(FeatureWishlist, -1), ErrInvalidRolloutPercent)
}

func TestUserOverrides(t *testing.T) {
	ff := LoadFeatureFlags()
	require.NoError(t, ff.SetRolloutPercent(FeatureTrackViews, 0))

	ff.SetUserOverride("u1", FeatureTrackViews, true)
	assert.True(t, ff.IsEnabled(FeatureTrackViews, "u1"))
	assert.False(t, ff.IsEnabled(FeatureTrackViews, "u2"))

	ff.ClearUserOverrides("u1")
	assert.False(t, ff.IsEnabled(FeatureTrackViews, "u1"))
}
