package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoadConfig loads configuration from a .env file, config.yaml and the
// environment. Environment variables override settings from the files.
//
// Keys:
//   - BOT_TOKEN: bot authentication token (required)
//   - GUILD_ID: when set, slash commands are registered to this guild only
//   - database.path: SQLite file location
//   - bot.adminChannelId: channel receiving operational log embeds
//   - commands.auth: extra admins beyond Manage Server holders
func LoadConfig() {
	// Load environment variables from .env, ignored when absent.
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, skipping.")
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("database.path", "./data/repost.db")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("Config file not found, using environment variables and defaults.")
		} else {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}
}
