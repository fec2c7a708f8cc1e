package command

import "github.com/bwmarrin/discordgo"

// RepostCommand defines the structure for the /repost command.
type RepostCommand struct{}

// Definition returns the application command definition: the rule and ignore
// subcommand groups plus the test subcommand.
func (c *RepostCommand) Definition() *discordgo.ApplicationCommand {
	manageServer := int64(discordgo.PermissionManageServer)
	dmPermission := false
	minCooldown := float64(0)

	repostChannelTypes := []discordgo.ChannelType{
		discordgo.ChannelTypeGuildText,
		discordgo.ChannelTypeGuildNews,
	}

	roleOption := func(description string) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionRole,
			Name:        "role",
			Description: description,
			Required:    true,
		}
	}
	channelOption := func(description string) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionChannel,
			Name:         "channel",
			Description:  description,
			ChannelTypes: repostChannelTypes,
			Required:     true,
		}
	}

	ruleGroup := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
		Name:        "rule",
		Description: "Manage repost rules",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "add",
				Description: "Add a new repost rule",
				Options: []*discordgo.ApplicationCommandOption{
					roleOption("Role that triggers the repost"),
					channelOption("Channel to repost to"),
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "color",
						Description: "Embed color (hex, e.g., #5865F2)",
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "reaction",
						Description: "Confirmation reaction emoji (empty to disable)",
					},
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "cooldown",
						Description: "Cooldown in seconds between reposts per user",
						MinValue:    &minCooldown,
						MaxValue:    86400,
					},
					{
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Name:        "jump_link",
						Description: "Include jump link to original message",
					},
					{
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Name:        "strip_mention",
						Description: "Remove the role mention from reposted content",
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "remove",
				Description: "Remove a repost rule",
				Options: []*discordgo.ApplicationCommandOption{
					roleOption("Role to remove the rule for"),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "List all repost rules in this server",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "info",
				Description: "Get detailed info about a rule",
				Options: []*discordgo.ApplicationCommandOption{
					roleOption("Role to get info for"),
				},
			},
		},
	}

	ignoreGroup := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
		Name:        "ignore",
		Description: "Manage ignored channels for rules",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "add",
				Description: "Add a channel to ignore for a rule",
				Options: []*discordgo.ApplicationCommandOption{
					roleOption("Role the rule is for"),
					channelOption("Channel to ignore"),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "remove",
				Description: "Remove a channel from ignored list",
				Options: []*discordgo.ApplicationCommandOption{
					roleOption("Role the rule is for"),
					channelOption("Channel to stop ignoring"),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "List ignored channels for a rule",
				Options: []*discordgo.ApplicationCommandOption{
					roleOption("Role to list ignored channels for"),
				},
			},
		},
	}

	testSub := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        "test",
		Description: "Test a repost rule by sending a sample embed",
		Options: []*discordgo.ApplicationCommandOption{
			roleOption("Role to test the rule for"),
		},
	}

	return &discordgo.ApplicationCommand{
		Name:                     "repost",
		Description:              "Manage role repost rules",
		DefaultMemberPermissions: &manageServer,
		DMPermission:             &dmPermission,
		Options: []*discordgo.ApplicationCommandOption{
			ruleGroup,
			ignoreGroup,
			testSub,
		},
	}
}
