package repost

import (
	"time"

	"repost-bot/database"
	"repost-bot/models"
)

// OnCooldown reports whether the user is blocked from triggering the rule.
// Rules without a cooldown never block, so the store is not consulted.
func OnCooldown(store *database.Store, userID string, rule models.RepostRule) (bool, error) {
	if rule.CooldownSeconds <= 0 {
		return false, nil
	}
	return store.IsOnCooldown(userID, rule.ID)
}

// StartCooldown opens the user's cooldown window for the rule. Called only
// after a repost has been confirmed sent: a failed repost must not consume
// the user's window.
func StartCooldown(store *database.Store, userID string, rule models.RepostRule) error {
	if rule.CooldownSeconds <= 0 {
		return nil
	}
	expiresAt := time.Now().Add(time.Duration(rule.CooldownSeconds) * time.Second)
	return store.SetCooldown(userID, rule.ID, expiresAt)
}

// CooldownRemaining returns how many seconds of the user's window are left,
// or 0 when no active window exists.
func CooldownRemaining(store *database.Store, userID string, rule models.RepostRule) (int, error) {
	expiry, ok, err := store.GetCooldownExpiry(userID, rule.ID)
	if err != nil || !ok {
		return 0, err
	}
	remaining := time.Until(expiry)
	if remaining <= 0 {
		return 0, nil
	}
	return int((remaining + time.Second - 1) / time.Second), nil
}
