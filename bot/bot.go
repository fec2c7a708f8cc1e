package bot

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"repost-bot/config"
	"repost-bot/database"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"
)

// Bot encapsulates the bot's state: the Discord session and the rule store.
type Bot struct {
	Session *discordgo.Session
	Store   *database.Store
}

// NewBot creates and initializes a new Bot instance.
func NewBot() (*Bot, error) {
	config.LoadConfig()

	token := viper.GetString("BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("no bot token provided")
	}

	store, err := database.Open(viper.GetString("database.path"))
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions | discordgo.IntentsMessageContent

	return &Bot{Session: dg, Store: store}, nil
}

// Start opens the bot's session, registers the slash commands and starts the
// cooldown sweep.
func (b *Bot) Start(registerHandlers func(*Bot), definitions []*discordgo.ApplicationCommand) error {
	registerHandlers(b)

	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	// With GUILD_ID set, commands are registered to that guild only and
	// become usable immediately; global registration can take up to an hour
	// to propagate.
	guildID := viper.GetString("GUILD_ID")
	for _, def := range definitions {
		if _, err := b.Session.ApplicationCommandCreate(b.Session.State.User.ID, guildID, def); err != nil {
			log.Printf("Cannot create '%v' command: %v", def.Name, err)
		}
	}

	startScheduler(b.Store)

	fmt.Println("Bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop gracefully shuts the bot down: scheduler first, then the Discord
// session, then the store. In-flight handlers are not drained.
func (b *Bot) Stop() {
	stopScheduler()
	if b.Session != nil {
		b.Session.Close()
	}
	if b.Store != nil {
		b.Store.Close()
	}
	fmt.Println("Bot stopped gracefully.")
}

// Run is the main entry point for the bot application.
func Run(registerHandlers func(*Bot), definitions []*discordgo.ApplicationCommand) {
	bot, err := NewBot()
	if err != nil {
		log.Fatalf("Error initializing bot: %v", err)
	}

	if err := bot.Start(registerHandlers, definitions); err != nil {
		log.Fatalf("Error starting bot: %v", err)
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	bot.Stop()
}
