// Command sendmessage delivers a one-off message through the configured
// bot, for smoke-testing a deployment:
//
//	sendmessage <chat_id> [message...]
package main

import (
	"cardadvisor-telegram-bot/config"
	"fmt"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
	"os"
	"strconv"
	"strings"
)

func main() {
	config.InitConfig()

	token := config.GetString("telegram_bot_token")
	if token == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is not set")
	}

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: sendmessage <chat_id> [message...]")
		os.Exit(1)
	}

	chatID, err := strconv.ParseInt(os.Args[1], 10, 64)
	if err != nil {
		log.Fatalf("chat_id must be a number: %v", err)
	}

	text := "Hello from programmatic test."
	if len(os.Args) > 2 {
		text = strings.Join(os.Args[2:], " ")
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	if _, err := bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Fatalf("Failed to send message: %v", err)
	}

	fmt.Println("Message sent.")
}
