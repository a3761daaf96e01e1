// Package telegram serves the stock dashboard as bot commands.
package telegram

import (
	"encoding/json"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

type Bot struct {
	api *tgbotapi.BotAPI
	h   *Handlers
}

// NewBot connects to the bot API and points its webhook at webhookURL.
func NewBot(token, webhookURL string, newHandlers func(Sender) *Handlers) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	webhook, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return nil, err
	}
	if _, err := api.Request(webhook); err != nil {
		return nil, err
	}
	log.Info().Str("url", webhookURL).Msg("telegram: webhook set")

	return &Bot{api: api, h: newHandlers(api)}, nil
}

// WebhookHandler receives updates posted by Telegram.
func (b *Bot) WebhookHandler(w http.ResponseWriter, r *http.Request) {
	webhookHandler(b.h.HandleMessage)(w, r)
}

func webhookHandler(handle func(*tgbotapi.Message)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update tgbotapi.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			http.Error(w, "bad update", http.StatusBadRequest)
			return
		}
		if update.Message == nil {
			log.Debug().Int("update_id", update.UpdateID).Msg("webhook: non-message update received")
			w.WriteHeader(http.StatusOK)
			return
		}
		log.Info().Int("message_id", update.Message.MessageID).Str("text", update.Message.Text).Msg("webhook: message")
		go handle(update.Message)
		w.WriteHeader(http.StatusOK)
	}
}
