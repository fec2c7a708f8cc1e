package repost

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repost-bot/database"
	"repost-bot/models"
)

func newTestStore(t *testing.T) *database.Store {
	t.Helper()
	store, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

func createRule(t *testing.T, store *database.Store, guildID, roleID string, cooldown int) models.RepostRule {
	t.Helper()
	rule, err := store.CreateRule(models.CreateRuleParams{
		GuildID:              guildID,
		TriggerRoleID:        roleID,
		DestinationChannelID: "chan-dest",
		ConfirmReaction:      "✅",
		EmbedColor:           DefaultEmbedColor,
		IncludeJumpLink:      true,
		StripRoleMention:     true,
		CooldownSeconds:      cooldown,
	})
	require.NoError(t, err)
	return rule
}

func guildMessage(guildID, channelID string, mentionRoles ...string) *discordgo.Message {
	return &discordgo.Message{
		ID:           "msg-1",
		GuildID:      guildID,
		ChannelID:    channelID,
		Content:      "hello",
		Author:       &discordgo.User{ID: "user-1", Username: "alice"},
		MentionRoles: mentionRoles,
	}
}

func TestEvaluateShortCircuits(t *testing.T) {
	store := newTestStore(t)
	createRule(t, store, "g1", "r1", 0)

	t.Run("bot author", func(t *testing.T) {
		m := guildMessage("g1", "chan-src", "r1")
		m.Author.Bot = true
		matched, err := Evaluate(store, m)
		require.NoError(t, err)
		assert.Empty(t, matched)
	})

	t.Run("missing author", func(t *testing.T) {
		m := guildMessage("g1", "chan-src", "r1")
		m.Author = nil
		matched, err := Evaluate(store, m)
		require.NoError(t, err)
		assert.Empty(t, matched)
	})

	t.Run("direct message", func(t *testing.T) {
		m := guildMessage("", "chan-src", "r1")
		matched, err := Evaluate(store, m)
		require.NoError(t, err)
		assert.Empty(t, matched)
	})

	t.Run("no role mentions", func(t *testing.T) {
		m := guildMessage("g1", "chan-src")
		matched, err := Evaluate(store, m)
		require.NoError(t, err)
		assert.Empty(t, matched)
	})
}

func TestEvaluateMatchesConfiguredRole(t *testing.T) {
	store := newTestStore(t)
	rule := createRule(t, store, "g1", "r1", 0)

	matched, err := Evaluate(store, guildMessage("g1", "chan-src", "r1"))
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, rule.ID, matched[0].ID)

	// A mention of an unconfigured role does not match.
	matched, err = Evaluate(store, guildMessage("g1", "chan-src", "r-other"))
	require.NoError(t, err)
	assert.Empty(t, matched)

	// Rules are scoped to their guild.
	matched, err = Evaluate(store, guildMessage("g2", "chan-src", "r1"))
	require.NoError(t, err)
	assert.Empty(t, matched)
}

func TestEvaluateMultipleRulesFireIndependently(t *testing.T) {
	store := newTestStore(t)
	first := createRule(t, store, "g1", "r1", 0)
	second := createRule(t, store, "g1", "r2", 0)
	createRule(t, store, "g1", "r3", 0)

	matched, err := Evaluate(store, guildMessage("g1", "chan-src", "r2", "r1"))
	require.NoError(t, err)
	require.Len(t, matched, 2)
	// Matches come back in rule creation order, not mention order.
	assert.Equal(t, first.ID, matched[0].ID)
	assert.Equal(t, second.ID, matched[1].ID)
}

func TestEvaluateSkipsIgnoredChannel(t *testing.T) {
	store := newTestStore(t)
	rule := createRule(t, store, "g1", "r1", 0)
	_, err := store.AddIgnoredChannel(rule.ID, "chan-muted")
	require.NoError(t, err)

	matched, err := Evaluate(store, guildMessage("g1", "chan-muted", "r1"))
	require.NoError(t, err)
	assert.Empty(t, matched)

	// The same rule still fires from other channels.
	matched, err = Evaluate(store, guildMessage("g1", "chan-open", "r1"))
	require.NoError(t, err)
	assert.Len(t, matched, 1)
}

func TestEvaluateIgnoreListIsPerRule(t *testing.T) {
	store := newTestStore(t)
	muted := createRule(t, store, "g1", "r1", 0)
	open := createRule(t, store, "g1", "r2", 0)
	_, err := store.AddIgnoredChannel(muted.ID, "chan-src")
	require.NoError(t, err)

	matched, err := Evaluate(store, guildMessage("g1", "chan-src", "r1", "r2"))
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, open.ID, matched[0].ID)
}

func TestEvaluateRespectsCooldown(t *testing.T) {
	store := newTestStore(t)
	rule := createRule(t, store, "g1", "r1", 300)

	m := guildMessage("g1", "chan-src", "r1")
	matched, err := Evaluate(store, m)
	require.NoError(t, err)
	require.Len(t, matched, 1)

	require.NoError(t, StartCooldown(store, m.Author.ID, rule))

	matched, err = Evaluate(store, m)
	require.NoError(t, err)
	assert.Empty(t, matched, "user on cooldown must not match")

	// The window is per user.
	other := guildMessage("g1", "chan-src", "r1")
	other.Author = &discordgo.User{ID: "user-2", Username: "bob"}
	matched, err = Evaluate(store, other)
	require.NoError(t, err)
	assert.Len(t, matched, 1)
}

func TestEvaluateExpiredCooldownMatchesAgain(t *testing.T) {
	store := newTestStore(t)
	rule := createRule(t, store, "g1", "r1", 300)

	require.NoError(t, store.SetCooldown("user-1", rule.ID, time.Now().Add(-time.Second)))

	matched, err := Evaluate(store, guildMessage("g1", "chan-src", "r1"))
	require.NoError(t, err)
	assert.Len(t, matched, 1)
}

func TestZeroCooldownNeverBlocks(t *testing.T) {
	store := newTestStore(t)
	rule := createRule(t, store, "g1", "r1", 0)

	m := guildMessage("g1", "chan-src", "r1")
	require.NoError(t, StartCooldown(store, m.Author.ID, rule))

	// StartCooldown on a zero-cooldown rule is a no-op.
	blocked, err := OnCooldown(store, m.Author.ID, rule)
	require.NoError(t, err)
	assert.False(t, blocked)

	matched, err := Evaluate(store, m)
	require.NoError(t, err)
	assert.Len(t, matched, 1)
}

func TestCooldownRemaining(t *testing.T) {
	store := newTestStore(t)
	rule := createRule(t, store, "g1", "r1", 300)

	remaining, err := CooldownRemaining(store, "user-1", rule)
	require.NoError(t, err)
	assert.Zero(t, remaining)

	require.NoError(t, StartCooldown(store, "user-1", rule))

	remaining, err = CooldownRemaining(store, "user-1", rule)
	require.NoError(t, err)
	assert.Greater(t, remaining, 290)
	assert.LessOrEqual(t, remaining, 300)
}
