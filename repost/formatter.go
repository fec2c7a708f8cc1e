package repost

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"repost-bot/models"

	"github.com/bwmarrin/discordgo"
)

const (
	// DefaultEmbedColor is Discord blurple. Rules created without an explicit
	// color keep it, which lets the sender's role color take over on repost
	// (see ResolveColor).
	DefaultEmbedColor = "#5865F2"

	// MaxDescriptionLength is Discord's embed description ceiling.
	MaxDescriptionLength = 4096

	// MaxEmbeds is Discord's per-message embed ceiling.
	MaxEmbeds = 10
)

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ParseHexColor converts a "#RRGGBB" string to the integer color Discord
// embeds use.
func ParseHexColor(hex string) (int, error) {
	if !hexColorPattern.MatchString(hex) {
		return 0, fmt.Errorf("invalid color %q, expected hex format like #5865F2", hex)
	}
	value, err := strconv.ParseInt(hex[1:], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return int(value), nil
}

// ResolveColor picks the embed color for a repost. A rule left on the default
// color themes itself by the sender: the member's display color wins when it
// is set. An explicitly colored rule always uses its own color.
func ResolveColor(ruleColor string, memberColor int) int {
	if strings.EqualFold(ruleColor, DefaultEmbedColor) && memberColor != 0 {
		return memberColor
	}
	color, err := ParseHexColor(ruleColor)
	if err != nil {
		color, _ = ParseHexColor(DefaultEmbedColor)
	}
	return color
}

// StripRoleMention removes every literal mention of the role from content and
// trims the surrounding whitespace.
func StripRoleMention(content, roleID string) string {
	token := fmt.Sprintf("<@&%s>", roleID)
	return strings.TrimSpace(strings.ReplaceAll(content, token, ""))
}

// TruncateContent cuts content down to maxLength characters, marking the cut
// with "...".
func TruncateContent(content string, maxLength int) string {
	runes := []rune(content)
	if len(runes) <= maxLength {
		return content
	}
	return string(runes[:maxLength-3]) + "..."
}

// MessageLink builds the jump URL back to the original message.
func MessageLink(m *discordgo.Message) string {
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", m.GuildID, m.ChannelID, m.ID)
}

// MemberDisplayColor mirrors how the client colors a member's name: the color
// of their highest positioned role that has one, or 0 when none do.
func MemberDisplayColor(guildRoles []*discordgo.Role, memberRoles []string) int {
	color := 0
	position := -1
	for _, role := range guildRoles {
		if role.Color == 0 || !mentionsRole(memberRoles, role.ID) {
			continue
		}
		if role.Position > position {
			position = role.Position
			color = role.Color
		}
	}
	return color
}

// MemberRoleIconURL returns the icon URL of the member's highest positioned
// role that carries one, or "" when none do.
func MemberRoleIconURL(guildRoles []*discordgo.Role, memberRoles []string) string {
	iconURL := ""
	position := -1
	for _, role := range guildRoles {
		if role.Icon == "" || !mentionsRole(memberRoles, role.ID) {
			continue
		}
		if role.Position > position {
			position = role.Position
			iconURL = role.IconURL("")
		}
	}
	return iconURL
}

// BuildEmbed renders the repost summary for a matched message. The origin
// channel name and the sender's display color are resolved by the caller so
// the formatter stays free of session state.
func BuildEmbed(m *discordgo.Message, rule models.RepostRule, channelName string, memberColor int) *discordgo.MessageEmbed {
	content := m.Content
	if rule.StripRoleMention {
		content = StripRoleMention(content, rule.TriggerRoleID)
	}

	embed := &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name:    authorName(m),
			IconURL: m.Author.AvatarURL(""),
		},
		Color: ResolveColor(rule.EmbedColor, memberColor),
	}

	if content != "" {
		embed.Description = TruncateContent(content, MaxDescriptionLength)
	}
	if channelName != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "Posted in #" + channelName}
	}
	if !m.Timestamp.IsZero() {
		embed.Timestamp = m.Timestamp.Format(time.RFC3339)
	}
	if rule.IncludeJumpLink {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "\u200b",
			Value:  fmt.Sprintf("[View original](%s)", MessageLink(m)),
			Inline: true,
		})
	}
	return embed
}

func authorName(m *discordgo.Message) string {
	if m.Member != nil && m.Member.Nick != "" {
		return m.Member.Nick
	}
	if m.Author.GlobalName != "" {
		return m.Author.GlobalName
	}
	return m.Author.Username
}
