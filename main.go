package main

import (
	"repost-bot/bot"
	"repost-bot/command"
	"repost-bot/handlers"
)

func main() {
	bot.Run(handlers.Register, command.GetCommandDefinitions())
}
