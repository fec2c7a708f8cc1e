package handlers

import (
	"fmt"
	"log"

	"repost-bot/bot"
	"repost-bot/repost"
	"repost-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// MessageCreate drives the repost pipeline for every inbound message:
// evaluate the guild's rules, send a repost per match, then react and open
// the cooldown window for each confirmed send. One rule's failure only skips
// that rule.
func MessageCreate(b *bot.Bot) func(s *discordgo.Session, m *discordgo.MessageCreate) {
	return func(s *discordgo.Session, m *discordgo.MessageCreate) {
		// Ignore all messages created by the bot itself
		if m.Author != nil && m.Author.ID == s.State.User.ID {
			return
		}

		matched, err := repost.Evaluate(b.Store, m.Message)
		if err != nil {
			log.Printf("Failed to evaluate rules for message %s: %v", m.ID, err)
			return
		}

		for _, rule := range matched {
			result := repost.Send(s, m.Message, rule)
			if !result.Success {
				log.Printf("Repost failed for rule %d: %v", rule.ID, result.Err)
				utils.Error("repost", "send", fmt.Sprintf("rule %d, message %s: %v", rule.ID, m.ID, result.Err))
				continue
			}

			log.Printf("Reposted message %s to channel %s (rule %d)", m.ID, rule.DestinationChannelID, rule.ID)

			if rule.ConfirmReaction != "" {
				repost.AddReaction(s, m.Message, rule.ConfirmReaction)
			}

			// Only a confirmed send consumes the user's window.
			if err := repost.StartCooldown(b.Store, m.Author.ID, rule); err != nil {
				log.Printf("Failed to set cooldown for user %s on rule %d: %v", m.Author.ID, rule.ID, err)
			}
		}
	}
}
