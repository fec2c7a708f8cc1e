package handlers

import (
	"log"

	"repost-bot/bot"
	"repost-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// CommandDispatcher is the central handler for all application command
// interactions. It performs permission checks and then dispatches the
// interaction to the appropriate handler.
func CommandDispatcher(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	auth, err := utils.NewAuth()
	if err != nil {
		log.Printf("Failed to create auth instance: %v", err)
		respondEphemeral(s, i, "Internal error. Please try again.")
		return
	}

	commandPermissions := map[string]string{
		"repost": "admin",
	}

	commandName := i.ApplicationCommandData().Name
	if requiredLevel, ok := commandPermissions[commandName]; ok {
		if !auth.CheckPermission(i, requiredLevel) {
			respondEphemeral(s, i, "🚫 You do not have permission to use this command.")
			return
		}
	}

	switch commandName {
	case "repost":
		HandleRepost(b, s, i)
	default:
		respondEphemeral(s, i, "🚫 Internal error: unknown command.")
	}
}
