package main

import (
	"log"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aashavskiy/tennisbookingbot/pkg/extract"
)

var (
	cfg      Config
	pipeline *extract.Pipeline
)

func main() {
	var err error

	cfg, err = loadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := initAuth(cfg); err != nil {
		log.Fatalf("auth: %v", err)
	}
	if err := initDB(cfg); err != nil {
		log.Fatalf("database: %v", err)
	}

	pipeline = extract.NewPipeline(cfg.Extract, nil)

	bot, err = tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		log.Fatalf("telegram: %v", err)
	}
	log.Printf("authorized as @%s", bot.Self.UserName)

	if cfg.WebhookURL != "" {
		wh, err := tgbotapi.NewWebhook(cfg.WebhookURL + "/webhook/" + cfg.Token)
		if err != nil {
			log.Fatalf("webhook config: %v", err)
		}
		if _, err := bot.Request(wh); err != nil {
			log.Fatalf("set webhook: %v", err)
		}
		log.Printf("webhook set to %s/webhook/<token>", cfg.WebhookURL)
	} else {
		// Local development: drop any stale webhook and long-poll instead.
		if _, err := bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
			log.Printf("remove webhook: %v", err)
		}
		go pollUpdates()
		log.Printf("WEBHOOK_URL not set, running in polling mode")
	}

	r := gin.Default()
	setupRoutes(r)
	log.Printf("starting web server on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func pollUpdates() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	for update := range bot.GetUpdatesChan(u) {
		processUpdate(update)
	}
}
