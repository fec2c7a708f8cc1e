package database

import (
	"database/sql"
	"fmt"

	"repost-bot/models"
)

// AddIgnoredChannel excludes a channel from triggering the rule.
func (s *Store) AddIgnoredChannel(ruleID int64, channelID string) (models.IgnoredChannel, error) {
	res, err := s.db.Exec(
		"INSERT INTO ignored_channels (rule_id, channel_id) VALUES (?, ?)",
		ruleID, channelID,
	)
	if err != nil {
		return models.IgnoredChannel{}, fmt.Errorf("failed to add ignored channel: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.IgnoredChannel{}, fmt.Errorf("failed to get inserted ignore id: %w", err)
	}

	return models.IgnoredChannel{ID: id, RuleID: ruleID, ChannelID: channelID}, nil
}

// RemoveIgnoredChannel removes a channel from the rule's ignore list and
// reports whether it was present.
func (s *Store) RemoveIgnoredChannel(ruleID int64, channelID string) (bool, error) {
	res, err := s.db.Exec(
		"DELETE FROM ignored_channels WHERE rule_id = ? AND channel_id = ?",
		ruleID, channelID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to remove ignored channel: %w", err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return removed > 0, nil
}

// IsChannelIgnored reports whether the channel is on the rule's ignore list.
func (s *Store) IsChannelIgnored(ruleID int64, channelID string) (bool, error) {
	var one int
	err := s.db.QueryRow(
		"SELECT 1 FROM ignored_channels WHERE rule_id = ? AND channel_id = ?",
		ruleID, channelID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query ignored channel: %w", err)
	}
	return true, nil
}

// GetIgnoredChannels returns the rule's ignore list.
func (s *Store) GetIgnoredChannels(ruleID int64) ([]models.IgnoredChannel, error) {
	rows, err := s.db.Query(
		"SELECT id, rule_id, channel_id FROM ignored_channels WHERE rule_id = ?",
		ruleID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query ignored channels: %w", err)
	}
	defer rows.Close()

	var ignored []models.IgnoredChannel
	for rows.Next() {
		var ic models.IgnoredChannel
		if err := rows.Scan(&ic.ID, &ic.RuleID, &ic.ChannelID); err != nil {
			return nil, fmt.Errorf("failed to scan ignored channel: %w", err)
		}
		ignored = append(ignored, ic)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ignored channels: %w", err)
	}
	return ignored, nil
}

// ClearIgnoredChannels empties the rule's ignore list and returns the number
// of entries removed.
func (s *Store) ClearIgnoredChannels(ruleID int64) (int64, error) {
	res, err := s.db.Exec("DELETE FROM ignored_channels WHERE rule_id = ?", ruleID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear ignored channels: %w", err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return removed, nil
}
