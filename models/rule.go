package models

// RepostRule maps a triggering role to a destination channel and the repost
// behaviour for messages mentioning that role. At most one rule exists per
// (guild, role) pair.
type RepostRule struct {
	ID                   int64  `json:"id"`
	GuildID              string `json:"guild_id"`
	TriggerRoleID        string `json:"trigger_role_id"`
	DestinationChannelID string `json:"destination_channel_id"`
	ConfirmReaction      string `json:"confirm_reaction"` // emoji added to the original message on success; empty disables it
	EmbedColor           string `json:"embed_color"`      // hex string like "#5865F2"
	IncludeJumpLink      bool   `json:"include_jump_link"`
	StripRoleMention     bool   `json:"strip_role_mention"`
	CooldownSeconds      int    `json:"cooldown_seconds"`
	CreatedAt            int64  `json:"created_at"` // unix seconds
}

// CreateRuleParams carries the fields for a new repost rule. Defaults are
// applied at the command layer before the insert.
type CreateRuleParams struct {
	GuildID              string
	TriggerRoleID        string
	DestinationChannelID string
	ConfirmReaction      string
	EmbedColor           string
	IncludeJumpLink      bool
	StripRoleMention     bool
	CooldownSeconds      int
}

// RuleUpdate holds optional field changes for an existing rule. Nil pointers
// leave the corresponding column untouched.
type RuleUpdate struct {
	DestinationChannelID *string
	ConfirmReaction      *string
	EmbedColor           *string
	IncludeJumpLink      *bool
	StripRoleMention     *bool
	CooldownSeconds      *int
}

// IgnoredChannel excludes a single channel from triggering its rule.
type IgnoredChannel struct {
	ID        int64  `json:"id"`
	RuleID    int64  `json:"rule_id"`
	ChannelID string `json:"channel_id"`
}

// Cooldown suppresses further triggers of a rule by a user until ExpiresAt.
// It springs into existence on the first successful repost and is overwritten
// on every one after that.
type Cooldown struct {
	UserID    string `json:"user_id"`
	RuleID    int64  `json:"rule_id"`
	ExpiresAt int64  `json:"expires_at"` // unix seconds
}
