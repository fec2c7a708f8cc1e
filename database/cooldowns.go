package database

import (
	"database/sql"
	"fmt"
	"time"
)

// SetCooldown records when the user may next trigger the rule. An existing
// window for the same (user, rule) pair is overwritten, never duplicated.
func (s *Store) SetCooldown(userID string, ruleID int64, expiresAt time.Time) error {
	query := `
    INSERT INTO cooldowns (user_id, rule_id, expires_at)
    VALUES (?, ?, ?)
    ON CONFLICT (user_id, rule_id) DO UPDATE SET expires_at = excluded.expires_at`

	if _, err := s.db.Exec(query, userID, ruleID, expiresAt.Unix()); err != nil {
		return fmt.Errorf("failed to set cooldown for user %s: %w", userID, err)
	}
	return nil
}

// IsOnCooldown reports whether the user is still inside the cooldown window
// for the rule. Expiry is decided by the database clock, and an expired row
// is deleted on the way out so the check leaves no stale state behind.
func (s *Store) IsOnCooldown(userID string, ruleID int64) (bool, error) {
	if _, err := s.db.Exec(
		"DELETE FROM cooldowns WHERE user_id = ? AND rule_id = ? AND expires_at <= CAST(strftime('%s','now') AS INTEGER)",
		userID, ruleID,
	); err != nil {
		return false, fmt.Errorf("failed to clear expired cooldown: %w", err)
	}

	var one int
	err := s.db.QueryRow(
		"SELECT 1 FROM cooldowns WHERE user_id = ? AND rule_id = ?",
		userID, ruleID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query cooldown: %w", err)
	}
	return true, nil
}

// GetCooldownExpiry returns when the user's cooldown for the rule ends, with
// ok reporting whether an active window exists. Expired rows are cleaned up
// the same way IsOnCooldown does.
func (s *Store) GetCooldownExpiry(userID string, ruleID int64) (time.Time, bool, error) {
	if _, err := s.db.Exec(
		"DELETE FROM cooldowns WHERE user_id = ? AND rule_id = ? AND expires_at <= CAST(strftime('%s','now') AS INTEGER)",
		userID, ruleID,
	); err != nil {
		return time.Time{}, false, fmt.Errorf("failed to clear expired cooldown: %w", err)
	}

	var expiresAt int64
	err := s.db.QueryRow(
		"SELECT expires_at FROM cooldowns WHERE user_id = ? AND rule_id = ?",
		userID, ruleID,
	).Scan(&expiresAt)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to query cooldown expiry: %w", err)
	}
	return time.Unix(expiresAt, 0), true, nil
}

// ClearCooldown removes the user's cooldown for the rule regardless of
// expiry and reports whether a row was removed.
func (s *Store) ClearCooldown(userID string, ruleID int64) (bool, error) {
	res, err := s.db.Exec(
		"DELETE FROM cooldowns WHERE user_id = ? AND rule_id = ?",
		userID, ruleID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to clear cooldown: %w", err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return removed > 0, nil
}

// CleanupExpiredCooldowns bulk-deletes every expired cooldown row and returns
// the count removed. The scheduler runs it every minute; the read path also
// deletes expired rows lazily, and deleting from both paths is harmless.
func (s *Store) CleanupExpiredCooldowns() (int64, error) {
	res, err := s.db.Exec(
		"DELETE FROM cooldowns WHERE expires_at <= CAST(strftime('%s','now') AS INTEGER)",
	)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up expired cooldowns: %w", err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return removed, nil
}
