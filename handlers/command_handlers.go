package handlers

import (
	"fmt"
	"log"
	"strings"
	"time"

	"repost-bot/bot"
	"repost-bot/models"
	"repost-bot/repost"
	"repost-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// HandleRepost handles the logic for the /repost command, routing the
// interaction to the matching subcommand handler.
func HandleRepost(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return
	}

	top := data.Options[0]
	switch top.Name {
	case "rule":
		if len(top.Options) == 0 {
			return
		}
		sub := top.Options[0]
		switch sub.Name {
		case "add":
			handleRuleAdd(b, s, i, sub.Options)
		case "remove":
			handleRuleRemove(b, s, i, sub.Options)
		case "list":
			handleRuleList(b, s, i)
		case "info":
			handleRuleInfo(b, s, i, sub.Options)
		}
	case "ignore":
		if len(top.Options) == 0 {
			return
		}
		sub := top.Options[0]
		switch sub.Name {
		case "add":
			handleIgnoreAdd(b, s, i, sub.Options)
		case "remove":
			handleIgnoreRemove(b, s, i, sub.Options)
		case "list":
			handleIgnoreList(b, s, i, sub.Options)
		}
	case "test":
		handleTest(b, s, i, top.Options)
	}
}

func handleRuleAdd(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	opts := optionMap(options)

	role := opts["role"].RoleValue(s, i.GuildID)
	channel := opts["channel"].ChannelValue(s)

	color := repost.DefaultEmbedColor
	if opt, ok := opts["color"]; ok {
		color = opt.StringValue()
	}
	reaction := "✅"
	if opt, ok := opts["reaction"]; ok {
		// An explicitly empty reaction disables it.
		reaction = opt.StringValue()
	}
	cooldown := 0
	if opt, ok := opts["cooldown"]; ok {
		cooldown = int(opt.IntValue())
	}
	jumpLink := true
	if opt, ok := opts["jump_link"]; ok {
		jumpLink = opt.BoolValue()
	}
	stripMention := true
	if opt, ok := opts["strip_mention"]; ok {
		stripMention = opt.BoolValue()
	}

	if _, err := repost.ParseHexColor(color); err != nil {
		respondEphemeral(s, i, "Invalid color format. Use hex format like `#5865F2`.")
		return
	}

	_, exists, err := b.Store.GetRuleByGuildAndRole(i.GuildID, role.ID)
	if err != nil {
		log.Printf("Failed to look up rule: %v", err)
		respondEphemeral(s, i, "Failed to create the rule. Please try again.")
		return
	}
	if exists {
		respondEphemeral(s, i, fmt.Sprintf("A rule for <@&%s> already exists. Remove it first with `/repost rule remove`.", role.ID))
		return
	}

	rule, err := b.Store.CreateRule(models.CreateRuleParams{
		GuildID:              i.GuildID,
		TriggerRoleID:        role.ID,
		DestinationChannelID: channel.ID,
		ConfirmReaction:      reaction,
		EmbedColor:           color,
		IncludeJumpLink:      jumpLink,
		StripRoleMention:     stripMention,
		CooldownSeconds:      cooldown,
	})
	if err != nil {
		log.Printf("Failed to create rule: %v", err)
		respondEphemeral(s, i, "Failed to create the rule. Please try again.")
		return
	}

	respondEphemeral(s, i, fmt.Sprintf("Created repost rule: Messages mentioning <@&%s> will be reposted to <#%s>.", role.ID, channel.ID))
	log.Printf("Rule %d created: role %s -> channel %s in guild %s", rule.ID, role.ID, channel.ID, i.GuildID)
	utils.Info("rules", "create", fmt.Sprintf("rule %d: role %s -> channel %s in guild %s", rule.ID, role.ID, channel.ID, i.GuildID))
}

func handleRuleRemove(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	opts := optionMap(options)
	role := opts["role"].RoleValue(s, i.GuildID)

	removed, err := b.Store.DeleteRuleByGuildAndRole(i.GuildID, role.ID)
	if err != nil {
		log.Printf("Failed to remove rule: %v", err)
		respondEphemeral(s, i, "Failed to remove the rule. Please try again.")
		return
	}

	if removed {
		respondEphemeral(s, i, fmt.Sprintf("Removed repost rule for <@&%s>.", role.ID))
		log.Printf("Rule for role %s removed in guild %s", role.ID, i.GuildID)
		utils.Info("rules", "remove", fmt.Sprintf("role %s in guild %s", role.ID, i.GuildID))
	} else {
		respondEphemeral(s, i, fmt.Sprintf("No rule found for <@&%s>.", role.ID))
	}
}

func handleRuleList(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	rules, err := b.Store.GetRulesByGuild(i.GuildID)
	if err != nil {
		log.Printf("Failed to list rules: %v", err)
		respondEphemeral(s, i, "Failed to list rules. Please try again.")
		return
	}

	if len(rules) == 0 {
		respondEphemeral(s, i, "No repost rules configured for this server.")
		return
	}

	lines := make([]string, len(rules))
	for n, rule := range rules {
		lines[n] = fmt.Sprintf("• %s → %s",
			roleLabel(s, i.GuildID, rule.TriggerRoleID),
			channelLabel(s, rule.DestinationChannelID))
	}

	respondEphemeral(s, i, fmt.Sprintf("**Repost Rules (%d)**\n%s", len(rules), strings.Join(lines, "\n")))
}

func handleRuleInfo(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	opts := optionMap(options)
	role := opts["role"].RoleValue(s, i.GuildID)

	rule, exists, err := b.Store.GetRuleByGuildAndRole(i.GuildID, role.ID)
	if err != nil {
		log.Printf("Failed to look up rule: %v", err)
		respondEphemeral(s, i, "Failed to look up the rule. Please try again.")
		return
	}
	if !exists {
		respondEphemeral(s, i, fmt.Sprintf("No rule found for <@&%s>.", role.ID))
		return
	}

	ignored, err := b.Store.GetIgnoredChannels(rule.ID)
	if err != nil {
		log.Printf("Failed to list ignored channels: %v", err)
		respondEphemeral(s, i, "Failed to look up the rule. Please try again.")
		return
	}

	ignoredList := "None"
	if len(ignored) > 0 {
		mentions := make([]string, len(ignored))
		for n, ic := range ignored {
			mentions[n] = fmt.Sprintf("<#%s>", ic.ChannelID)
		}
		ignoredList = strings.Join(mentions, ", ")
	}

	reaction := rule.ConfirmReaction
	if reaction == "" {
		reaction = "Disabled"
	}
	cooldownText := "None"
	if rule.CooldownSeconds > 0 {
		cooldownText = fmt.Sprintf("%ds", rule.CooldownSeconds)
	}

	info := []string{
		fmt.Sprintf("**Rule for <@&%s>**", role.ID),
		"",
		fmt.Sprintf("**Destination:** %s", channelLabel(s, rule.DestinationChannelID)),
		fmt.Sprintf("**Embed Color:** `%s`", rule.EmbedColor),
		fmt.Sprintf("**Reaction:** %s", reaction),
		fmt.Sprintf("**Cooldown:** %s", cooldownText),
		fmt.Sprintf("**Jump Link:** %s", yesNo(rule.IncludeJumpLink)),
		fmt.Sprintf("**Strip Mention:** %s", yesNo(rule.StripRoleMention)),
		fmt.Sprintf("**Ignored Channels:** %s", ignoredList),
		fmt.Sprintf("**Created:** <t:%d:R>", rule.CreatedAt),
	}

	respondEphemeral(s, i, strings.Join(info, "\n"))
}

func handleIgnoreAdd(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	opts := optionMap(options)
	role := opts["role"].RoleValue(s, i.GuildID)
	channel := opts["channel"].ChannelValue(s)

	rule, exists, err := b.Store.GetRuleByGuildAndRole(i.GuildID, role.ID)
	if err != nil {
		log.Printf("Failed to look up rule: %v", err)
		respondEphemeral(s, i, "Failed to add the ignored channel. Please try again.")
		return
	}
	if !exists {
		respondEphemeral(s, i, fmt.Sprintf("No rule found for <@&%s>. Create one first with `/repost rule add`.", role.ID))
		return
	}

	ignored, err := b.Store.IsChannelIgnored(rule.ID, channel.ID)
	if err != nil {
		log.Printf("Failed to check ignored channel: %v", err)
		respondEphemeral(s, i, "Failed to add the ignored channel. Please try again.")
		return
	}
	if ignored {
		respondEphemeral(s, i, fmt.Sprintf("<#%s> is already ignored for this rule.", channel.ID))
		return
	}

	if _, err := b.Store.AddIgnoredChannel(rule.ID, channel.ID); err != nil {
		log.Printf("Failed to add ignored channel: %v", err)
		respondEphemeral(s, i, "Failed to add the ignored channel. Please try again.")
		return
	}

	respondEphemeral(s, i, fmt.Sprintf("Messages in <#%s> mentioning <@&%s> will no longer be reposted.", channel.ID, role.ID))
}

func handleIgnoreRemove(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	opts := optionMap(options)
	role := opts["role"].RoleValue(s, i.GuildID)
	channel := opts["channel"].ChannelValue(s)

	rule, exists, err := b.Store.GetRuleByGuildAndRole(i.GuildID, role.ID)
	if err != nil {
		log.Printf("Failed to look up rule: %v", err)
		respondEphemeral(s, i, "Failed to remove the ignored channel. Please try again.")
		return
	}
	if !exists {
		respondEphemeral(s, i, fmt.Sprintf("No rule found for <@&%s>.", role.ID))
		return
	}

	removed, err := b.Store.RemoveIgnoredChannel(rule.ID, channel.ID)
	if err != nil {
		log.Printf("Failed to remove ignored channel: %v", err)
		respondEphemeral(s, i, "Failed to remove the ignored channel. Please try again.")
		return
	}

	if removed {
		respondEphemeral(s, i, fmt.Sprintf("<#%s> is no longer ignored for <@&%s>.", channel.ID, role.ID))
	} else {
		respondEphemeral(s, i, fmt.Sprintf("<#%s> was not in the ignored list for this rule.", channel.ID))
	}
}

func handleIgnoreList(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	opts := optionMap(options)
	role := opts["role"].RoleValue(s, i.GuildID)

	rule, exists, err := b.Store.GetRuleByGuildAndRole(i.GuildID, role.ID)
	if err != nil {
		log.Printf("Failed to look up rule: %v", err)
		respondEphemeral(s, i, "Failed to list ignored channels. Please try again.")
		return
	}
	if !exists {
		respondEphemeral(s, i, fmt.Sprintf("No rule found for <@&%s>.", role.ID))
		return
	}

	ignored, err := b.Store.GetIgnoredChannels(rule.ID)
	if err != nil {
		log.Printf("Failed to list ignored channels: %v", err)
		respondEphemeral(s, i, "Failed to list ignored channels. Please try again.")
		return
	}

	if len(ignored) == 0 {
		respondEphemeral(s, i, fmt.Sprintf("No channels are ignored for <@&%s>.", role.ID))
		return
	}

	lines := make([]string, len(ignored))
	for n, ic := range ignored {
		lines[n] = fmt.Sprintf("• <#%s>", ic.ChannelID)
	}

	respondEphemeral(s, i, fmt.Sprintf("**Ignored Channels for <@&%s> (%d)**\n%s", role.ID, len(ignored), strings.Join(lines, "\n")))
}

func handleTest(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	opts := optionMap(options)
	role := opts["role"].RoleValue(s, i.GuildID)

	rule, exists, err := b.Store.GetRuleByGuildAndRole(i.GuildID, role.ID)
	if err != nil {
		log.Printf("Failed to look up rule: %v", err)
		respondEphemeral(s, i, "Failed to look up the rule. Please try again.")
		return
	}
	if !exists {
		respondEphemeral(s, i, fmt.Sprintf("No rule found for <@&%s>. Create one first with `/repost rule add`.", role.ID))
		return
	}

	dest, err := s.State.Channel(rule.DestinationChannelID)
	if err != nil {
		dest, err = s.Channel(rule.DestinationChannelID)
	}
	if err != nil {
		respondEphemeral(s, i, "Destination channel not found. The channel may have been deleted.")
		return
	}
	if dest.Type != discordgo.ChannelTypeGuildText && dest.Type != discordgo.ChannelTypeGuildNews {
		respondEphemeral(s, i, "Destination channel is not a text channel.")
		return
	}

	user := i.Member.User
	color, _ := repost.ParseHexColor(rule.EmbedColor)

	embed := &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name:    user.Username,
			IconURL: user.AvatarURL(""),
		},
		Description: "This is a test repost message.",
		Color:       color,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	if origin, err := s.State.Channel(i.ChannelID); err == nil {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "Posted in #" + origin.Name}
	}
	if rule.IncludeJumpLink {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "\u200b",
			Value: "[Jump to message](https://discord.com)",
		})
	}

	if _, err := s.ChannelMessageSendEmbed(dest.ID, embed); err != nil {
		respondEphemeral(s, i, fmt.Sprintf("Failed to send test message: %v", err))
		return
	}

	respondEphemeral(s, i, fmt.Sprintf("Test message sent to <#%s>!", dest.ID))
}

// optionMap indexes subcommand options by name.
func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Failed to respond to interaction: %v", err)
	}
}

// roleLabel renders a role mention, falling back to the raw id when the role
// has been deleted.
func roleLabel(s *discordgo.Session, guildID, roleID string) string {
	if _, err := s.State.Role(guildID, roleID); err != nil {
		return fmt.Sprintf("`%s` (deleted)", roleID)
	}
	return fmt.Sprintf("<@&%s>", roleID)
}

// channelLabel renders a channel mention, falling back to the raw id when the
// channel has been deleted.
func channelLabel(s *discordgo.Session, channelID string) string {
	if _, err := s.State.Channel(channelID); err != nil {
		if _, err := s.Channel(channelID); err != nil {
			return fmt.Sprintf("`%s` (deleted)", channelID)
		}
	}
	return fmt.Sprintf("<#%s>", channelID)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
