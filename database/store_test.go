package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repost-bot/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

func sampleParams(guildID, roleID string) models.CreateRuleParams {
	return models.CreateRuleParams{
		GuildID:              guildID,
		TriggerRoleID:        roleID,
		DestinationChannelID: "chan-dest",
		ConfirmReaction:      "✅",
		EmbedColor:           "#5865F2",
		IncludeJumpLink:      true,
		StripRoleMention:     true,
		CooldownSeconds:      0,
	}
}

func TestCreateRuleRoundTrip(t *testing.T) {
	store := newTestStore(t)

	rule, err := store.CreateRule(sampleParams("g1", "r1"))
	require.NoError(t, err)

	assert.NotZero(t, rule.ID)
	assert.Equal(t, "g1", rule.GuildID)
	assert.Equal(t, "r1", rule.TriggerRoleID)
	assert.Equal(t, "chan-dest", rule.DestinationChannelID)
	assert.Equal(t, "✅", rule.ConfirmReaction)
	assert.Equal(t, "#5865F2", rule.EmbedColor)
	assert.True(t, rule.IncludeJumpLink)
	assert.True(t, rule.StripRoleMention)
	assert.Zero(t, rule.CooldownSeconds)
	assert.NotZero(t, rule.CreatedAt)

	got, ok, err := store.GetRuleByGuildAndRole("g1", "r1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rule, got)
}

func TestCreateRuleEmptyReactionStoredAsDisabled(t *testing.T) {
	store := newTestStore(t)

	params := sampleParams("g1", "r1")
	params.ConfirmReaction = ""
	rule, err := store.CreateRule(params)
	require.NoError(t, err)
	assert.Empty(t, rule.ConfirmReaction)
}

func TestCreateRuleDuplicateFails(t *testing.T) {
	store := newTestStore(t)

	_, err := store.CreateRule(sampleParams("g1", "r1"))
	require.NoError(t, err)

	_, err = store.CreateRule(sampleParams("g1", "r1"))
	assert.Error(t, err, "second rule for the same (guild, role) pair must be rejected")

	// Same role in another guild is a different rule.
	_, err = store.CreateRule(sampleParams("g2", "r1"))
	assert.NoError(t, err)

	// Removing the first rule frees the pair again.
	removed, err := store.DeleteRuleByGuildAndRole("g1", "r1")
	require.NoError(t, err)
	require.True(t, removed)
	_, err = store.CreateRule(sampleParams("g1", "r1"))
	assert.NoError(t, err)
}

func TestGetRuleMissing(t *testing.T) {
	store := newTestStore(t)

	_, ok, err := store.GetRuleByGuildAndRole("g1", "r1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = store.GetRuleByID(42)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetRulesByGuildCreationOrder(t *testing.T) {
	store := newTestStore(t)

	for _, roleID := range []string{"r1", "r2", "r3"} {
		_, err := store.CreateRule(sampleParams("g1", roleID))
		require.NoError(t, err)
	}
	_, err := store.CreateRule(sampleParams("g2", "r9"))
	require.NoError(t, err)

	rules, err := store.GetRulesByGuild("g1")
	require.NoError(t, err)
	require.Len(t, rules, 3)
	assert.Equal(t, "r1", rules[0].TriggerRoleID)
	assert.Equal(t, "r2", rules[1].TriggerRoleID)
	assert.Equal(t, "r3", rules[2].TriggerRoleID)
}

func TestUpdateRule(t *testing.T) {
	store := newTestStore(t)

	rule, err := store.CreateRule(sampleParams("g1", "r1"))
	require.NoError(t, err)

	color := "#FF0000"
	cooldown := 120
	reaction := ""
	updated, ok, err := store.UpdateRule(rule.ID, models.RuleUpdate{
		EmbedColor:      &color,
		CooldownSeconds: &cooldown,
		ConfirmReaction: &reaction,
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "#FF0000", updated.EmbedColor)
	assert.Equal(t, 120, updated.CooldownSeconds)
	assert.Empty(t, updated.ConfirmReaction)
	// Untouched fields survive.
	assert.Equal(t, rule.DestinationChannelID, updated.DestinationChannelID)
	assert.True(t, updated.IncludeJumpLink)

	// An empty update returns the current row.
	same, ok, err := store.UpdateRule(rule.ID, models.RuleUpdate{})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, updated, same)
}

func TestDeleteRuleCascades(t *testing.T) {
	store := newTestStore(t)

	rule, err := store.CreateRule(sampleParams("g1", "r1"))
	require.NoError(t, err)

	_, err = store.AddIgnoredChannel(rule.ID, "chan-ignored")
	require.NoError(t, err)
	require.NoError(t, store.SetCooldown("u1", rule.ID, time.Now().Add(time.Hour)))

	removed, err := store.DeleteRuleByGuildAndRole("g1", "r1")
	require.NoError(t, err)
	assert.True(t, removed)

	var ignoreCount, cooldownCount int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM ignored_channels").Scan(&ignoreCount))
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM cooldowns").Scan(&cooldownCount))
	assert.Zero(t, ignoreCount, "ignored channels must cascade")
	assert.Zero(t, cooldownCount, "cooldowns must cascade")

	// Deleting again reports nothing removed.
	removed, err = store.DeleteRuleByGuildAndRole("g1", "r1")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestIgnoredChannelSetSemantics(t *testing.T) {
	store := newTestStore(t)

	rule, err := store.CreateRule(sampleParams("g1", "r1"))
	require.NoError(t, err)

	ignored, err := store.IsChannelIgnored(rule.ID, "chan-a")
	require.NoError(t, err)
	assert.False(t, ignored)

	_, err = store.AddIgnoredChannel(rule.ID, "chan-a")
	require.NoError(t, err)
	_, err = store.AddIgnoredChannel(rule.ID, "chan-b")
	require.NoError(t, err)

	// Duplicates are rejected by the unique constraint.
	_, err = store.AddIgnoredChannel(rule.ID, "chan-a")
	assert.Error(t, err)

	ignored, err = store.IsChannelIgnored(rule.ID, "chan-a")
	require.NoError(t, err)
	assert.True(t, ignored)

	list, err := store.GetIgnoredChannels(rule.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	removed, err := store.RemoveIgnoredChannel(rule.ID, "chan-a")
	require.NoError(t, err)
	assert.True(t, removed)

	// Removal is idempotent.
	removed, err = store.RemoveIgnoredChannel(rule.ID, "chan-a")
	require.NoError(t, err)
	assert.False(t, removed)

	cleared, err := store.ClearIgnoredChannels(rule.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cleared)
}

func TestSetCooldownUpsert(t *testing.T) {
	store := newTestStore(t)

	rule, err := store.CreateRule(sampleParams("g1", "r1"))
	require.NoError(t, err)

	first := time.Now().Add(30 * time.Second)
	second := time.Now().Add(90 * time.Second)
	require.NoError(t, store.SetCooldown("u1", rule.ID, first))
	require.NoError(t, store.SetCooldown("u1", rule.ID, second))

	var count int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM cooldowns").Scan(&count))
	assert.Equal(t, 1, count, "upsert must overwrite, not duplicate")

	expiry, ok, err := store.GetCooldownExpiry("u1", rule.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, second.Unix(), expiry.Unix())
}

func TestIsOnCooldownLazyDelete(t *testing.T) {
	store := newTestStore(t)

	rule, err := store.CreateRule(sampleParams("g1", "r1"))
	require.NoError(t, err)

	// Active window blocks.
	require.NoError(t, store.SetCooldown("u1", rule.ID, time.Now().Add(time.Hour)))
	blocked, err := store.IsOnCooldown("u1", rule.ID)
	require.NoError(t, err)
	assert.True(t, blocked)

	// Expired window does not block, and the read deletes the row.
	require.NoError(t, store.SetCooldown("u1", rule.ID, time.Now().Add(-time.Second)))
	blocked, err = store.IsOnCooldown("u1", rule.ID)
	require.NoError(t, err)
	assert.False(t, blocked)

	var count int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM cooldowns").Scan(&count))
	assert.Zero(t, count, "expired row must be gone after the read")
}

func TestGetCooldownExpiryLazyDelete(t *testing.T) {
	store := newTestStore(t)

	rule, err := store.CreateRule(sampleParams("g1", "r1"))
	require.NoError(t, err)

	require.NoError(t, store.SetCooldown("u1", rule.ID, time.Now().Add(-time.Minute)))
	_, ok, err := store.GetCooldownExpiry("u1", rule.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	var count int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM cooldowns").Scan(&count))
	assert.Zero(t, count)
}

func TestClearCooldown(t *testing.T) {
	store := newTestStore(t)

	rule, err := store.CreateRule(sampleParams("g1", "r1"))
	require.NoError(t, err)

	require.NoError(t, store.SetCooldown("u1", rule.ID, time.Now().Add(time.Hour)))

	removed, err := store.ClearCooldown("u1", rule.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.ClearCooldown("u1", rule.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestCleanupExpiredCooldowns(t *testing.T) {
	store := newTestStore(t)

	rule, err := store.CreateRule(sampleParams("g1", "r1"))
	require.NoError(t, err)

	require.NoError(t, store.SetCooldown("u-expired", rule.ID, time.Now().Add(-time.Minute)))
	require.NoError(t, store.SetCooldown("u-expired-2", rule.ID, time.Now().Add(-time.Hour)))
	require.NoError(t, store.SetCooldown("u-live", rule.ID, time.Now().Add(time.Hour)))

	removed, err := store.CleanupExpiredCooldowns()
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	// The sweep leaves live windows alone.
	blocked, err := store.IsOnCooldown("u-live", rule.ID)
	require.NoError(t, err)
	assert.True(t, blocked)

	// Running the sweep again is harmless.
	removed, err = store.CleanupExpiredCooldowns()
	require.NoError(t, err)
	assert.Zero(t, removed)
}
