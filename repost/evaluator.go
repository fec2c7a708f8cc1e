package repost

import (
	"log"

	"repost-bot/database"
	"repost-bot/models"

	"github.com/bwmarrin/discordgo"
)

// Evaluate returns the rules a message should be reposted under, in rule
// creation order. Rules are independent: a message mentioning several
// configured roles matches several rules, and each match later produces its
// own repost and cooldown entry.
func Evaluate(store *database.Store, m *discordgo.Message) ([]models.RepostRule, error) {
	// Cheap checks first so most traffic never touches the store.
	if m.Author == nil || m.Author.Bot {
		return nil, nil
	}
	if m.GuildID == "" {
		return nil, nil
	}
	if len(m.MentionRoles) == 0 {
		return nil, nil
	}

	rules, err := store.GetRulesByGuild(m.GuildID)
	if err != nil {
		return nil, err
	}

	var matched []models.RepostRule
	for _, rule := range rules {
		if !mentionsRole(m.MentionRoles, rule.TriggerRoleID) {
			continue
		}

		ignored, err := store.IsChannelIgnored(rule.ID, m.ChannelID)
		if err != nil {
			log.Printf("Failed to check ignore list for rule %d: %v", rule.ID, err)
			continue
		}
		if ignored {
			continue
		}

		onCooldown, err := OnCooldown(store, m.Author.ID, rule)
		if err != nil {
			log.Printf("Failed to check cooldown for rule %d: %v", rule.ID, err)
			continue
		}
		if onCooldown {
			continue
		}

		matched = append(matched, rule)
	}
	return matched, nil
}

func mentionsRole(mentioned []string, roleID string) bool {
	for _, id := range mentioned {
		if id == roleID {
			return true
		}
	}
	return false
}
