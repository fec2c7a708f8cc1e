package repost

import (
	"fmt"
	"log"
	"strings"

	"repost-bot/models"

	"github.com/bwmarrin/discordgo"
)

// Result reports the outcome of a repost attempt. Failures are carried in the
// result rather than raised, so one rule's failure never aborts evaluation of
// the remaining rules for the same message.
type Result struct {
	Success bool
	Err     error
}

// Send builds the repost for a matched message and posts it to the rule's
// destination channel. Attachments travel as URL references in the message
// content (nothing is re-uploaded), and embeds already on the original are
// forwarded up to Discord's per-message ceiling.
func Send(s *discordgo.Session, m *discordgo.Message, rule models.RepostRule) Result {
	dest, err := fetchChannel(s, rule.DestinationChannelID)
	if err != nil {
		return Result{Err: fmt.Errorf("destination channel %s not found: %w", rule.DestinationChannelID, err)}
	}
	if dest.Type != discordgo.ChannelTypeGuildText && dest.Type != discordgo.ChannelTypeGuildNews {
		return Result{Err: fmt.Errorf("destination channel %s is not a text channel", rule.DestinationChannelID)}
	}

	// The origin channel name only feeds the footer, so its lookup is
	// best-effort.
	originName := ""
	if origin, err := fetchChannel(s, m.ChannelID); err == nil {
		originName = origin.Name
	}

	memberColor := 0
	roleIcon := ""
	if guild, err := s.State.Guild(m.GuildID); err == nil && m.Member != nil {
		memberColor = MemberDisplayColor(guild.Roles, m.Member.Roles)
		roleIcon = MemberRoleIconURL(guild.Roles, m.Member.Roles)
	}

	embed := BuildEmbed(m, rule, originName, memberColor)
	if roleIcon != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: roleIcon}
	}

	embeds := []*discordgo.MessageEmbed{embed}
	for _, original := range m.Embeds {
		if len(embeds) == MaxEmbeds {
			break
		}
		embeds = append(embeds, original)
	}

	content := ""
	if len(m.Attachments) > 0 {
		urls := make([]string, len(m.Attachments))
		for i, attachment := range m.Attachments {
			urls[i] = attachment.URL
		}
		content = strings.Join(urls, "\n")
	}

	if _, err := s.ChannelMessageSendComplex(dest.ID, &discordgo.MessageSend{
		Content: content,
		Embeds:  embeds,
	}); err != nil {
		return Result{Err: fmt.Errorf("failed to send repost to channel %s: %w", dest.ID, err)}
	}

	return Result{Success: true}
}

// AddReaction adds the rule's confirmation reaction to the original message.
// Best effort: a failed reaction is logged but never rolls back the repost or
// the cooldown write.
func AddReaction(s *discordgo.Session, m *discordgo.Message, reaction string) bool {
	if err := s.MessageReactionAdd(m.ChannelID, m.ID, reaction); err != nil {
		log.Printf("Failed to add reaction to message %s: %v", m.ID, err)
		return false
	}
	return true
}

// fetchChannel resolves a channel from the session state, falling back to the
// REST API when the state has not cached it yet.
func fetchChannel(s *discordgo.Session, channelID string) (*discordgo.Channel, error) {
	if channel, err := s.State.Channel(channelID); err == nil {
		return channel, nil
	}
	return s.Channel(channelID)
}
