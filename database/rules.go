package database

import (
	"database/sql"
	"fmt"
	"strings"

	"repost-bot/models"
)

const ruleColumns = `id, guild_id, trigger_role_id, destination_channel_id,
	confirm_reaction, embed_color, include_jump_link, strip_role_mention,
	cooldown_seconds, created_at`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRule(row rowScanner) (models.RepostRule, error) {
	var rule models.RepostRule
	var reaction sql.NullString
	var jumpLink, stripMention int

	err := row.Scan(
		&rule.ID,
		&rule.GuildID,
		&rule.TriggerRoleID,
		&rule.DestinationChannelID,
		&reaction,
		&rule.EmbedColor,
		&jumpLink,
		&stripMention,
		&rule.CooldownSeconds,
		&rule.CreatedAt,
	)
	if err != nil {
		return models.RepostRule{}, err
	}

	rule.ConfirmReaction = reaction.String
	rule.IncludeJumpLink = jumpLink == 1
	rule.StripRoleMention = stripMention == 1
	return rule, nil
}

// CreateRule inserts a new repost rule and returns the stored row. It is a
// plain insert: callers check for an existing (guild, role) rule first, and
// the unique constraint is the backstop against racing creates.
func (s *Store) CreateRule(params models.CreateRuleParams) (models.RepostRule, error) {
	query := `
    INSERT INTO repost_rules (
        guild_id, trigger_role_id, destination_channel_id,
        confirm_reaction, embed_color, include_jump_link,
        strip_role_mention, cooldown_seconds
    ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := s.db.Exec(query,
		params.GuildID,
		params.TriggerRoleID,
		params.DestinationChannelID,
		nullIfEmpty(params.ConfirmReaction),
		params.EmbedColor,
		boolToInt(params.IncludeJumpLink),
		boolToInt(params.StripRoleMention),
		params.CooldownSeconds,
	)
	if err != nil {
		return models.RepostRule{}, fmt.Errorf("failed to insert repost rule: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.RepostRule{}, fmt.Errorf("failed to get inserted rule id: %w", err)
	}

	rule, ok, err := s.GetRuleByID(id)
	if err != nil {
		return models.RepostRule{}, err
	}
	if !ok {
		return models.RepostRule{}, fmt.Errorf("inserted rule %d not found", id)
	}
	return rule, nil
}

// GetRuleByID returns the rule with the given id, with ok reporting whether
// it exists.
func (s *Store) GetRuleByID(id int64) (models.RepostRule, bool, error) {
	row := s.db.QueryRow("SELECT "+ruleColumns+" FROM repost_rules WHERE id = ?", id)
	rule, err := scanRule(row)
	if err == sql.ErrNoRows {
		return models.RepostRule{}, false, nil
	}
	if err != nil {
		return models.RepostRule{}, false, fmt.Errorf("failed to query rule %d: %w", id, err)
	}
	return rule, true, nil
}

// GetRuleByGuildAndRole returns the guild's rule for the given trigger role.
func (s *Store) GetRuleByGuildAndRole(guildID, triggerRoleID string) (models.RepostRule, bool, error) {
	row := s.db.QueryRow(
		"SELECT "+ruleColumns+" FROM repost_rules WHERE guild_id = ? AND trigger_role_id = ?",
		guildID, triggerRoleID,
	)
	rule, err := scanRule(row)
	if err == sql.ErrNoRows {
		return models.RepostRule{}, false, nil
	}
	if err != nil {
		return models.RepostRule{}, false, fmt.Errorf("failed to query rule for role %s: %w", triggerRoleID, err)
	}
	return rule, true, nil
}

// GetRulesByGuild returns all of a guild's rules in creation order.
func (s *Store) GetRulesByGuild(guildID string) ([]models.RepostRule, error) {
	rows, err := s.db.Query(
		"SELECT "+ruleColumns+" FROM repost_rules WHERE guild_id = ? ORDER BY created_at, id",
		guildID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules for guild %s: %w", guildID, err)
	}
	defer rows.Close()

	var rules []models.RepostRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rules: %w", err)
	}
	return rules, nil
}

// UpdateRule applies the non-nil fields of update to an existing rule and
// returns the stored row, with ok reporting whether the rule exists.
func (s *Store) UpdateRule(id int64, update models.RuleUpdate) (models.RepostRule, bool, error) {
	fields := make([]string, 0, 6)
	values := make([]interface{}, 0, 7)

	if update.DestinationChannelID != nil {
		fields = append(fields, "destination_channel_id = ?")
		values = append(values, *update.DestinationChannelID)
	}
	if update.ConfirmReaction != nil {
		fields = append(fields, "confirm_reaction = ?")
		values = append(values, nullIfEmpty(*update.ConfirmReaction))
	}
	if update.EmbedColor != nil {
		fields = append(fields, "embed_color = ?")
		values = append(values, *update.EmbedColor)
	}
	if update.IncludeJumpLink != nil {
		fields = append(fields, "include_jump_link = ?")
		values = append(values, boolToInt(*update.IncludeJumpLink))
	}
	if update.StripRoleMention != nil {
		fields = append(fields, "strip_role_mention = ?")
		values = append(values, boolToInt(*update.StripRoleMention))
	}
	if update.CooldownSeconds != nil {
		fields = append(fields, "cooldown_seconds = ?")
		values = append(values, *update.CooldownSeconds)
	}

	if len(fields) == 0 {
		return s.GetRuleByID(id)
	}

	values = append(values, id)
	query := "UPDATE repost_rules SET " + strings.Join(fields, ", ") + " WHERE id = ?"
	if _, err := s.db.Exec(query, values...); err != nil {
		return models.RepostRule{}, false, fmt.Errorf("failed to update rule %d: %w", id, err)
	}

	return s.GetRuleByID(id)
}

// DeleteRuleByGuildAndRole removes the guild's rule for the given role and
// reports whether a row was removed. Ignored channels and cooldowns cascade.
func (s *Store) DeleteRuleByGuildAndRole(guildID, triggerRoleID string) (bool, error) {
	res, err := s.db.Exec(
		"DELETE FROM repost_rules WHERE guild_id = ? AND trigger_role_id = ?",
		guildID, triggerRoleID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete rule for role %s: %w", triggerRoleID, err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return removed > 0, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
