package main

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"stockAnalysis/internal/dashboard"
	"stockAnalysis/internal/openai"
	"stockAnalysis/internal/server"
	"stockAnalysis/internal/telegram"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP and the Telegram bot",
	Long: `Start the HTTP server with /healthz, /charts/{section}.png and
/report.md. When STOCKDASH_TELEGRAM_BOT_TOKEN and STOCKDASH_WEBHOOK_PUBLIC_URL
are set the bot webhook is registered at /telegram/webhook as well.`,
	RunE: runServe,
}

var serveNoBot bool

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&serveNoBot, "no-bot", false, "Do not start the Telegram bot")
}

func runServe(cmd *cobra.Command, args []string) error {
	src, closer, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	svc := dashboard.NewService(cfg.DashboardOptions())
	loader := dashboard.NewLoader(src, readSectors(cfg), cfg.CacheTTL)
	if _, err := loader.Dataset(); err != nil {
		return err
	}

	var webhook http.HandlerFunc
	if !serveNoBot {
		if err := cfg.RequireBot(); err != nil {
			return err
		}
		var digest telegram.Digester
		if cfg.OpenAIKey != "" {
			digest = openai.NewDigester(cfg.OpenAIKey)
		} else {
			log.Warn().Msg("telegram: STOCKDASH_OPENAI_API_KEY not set, /digest disabled")
		}
		bot, err := telegram.NewBot(cfg.TelegramToken, cfg.WebhookPublicURL, func(api telegram.Sender) *telegram.Handlers {
			return telegram.NewHandlers(api, svc, loader.Dataset, digest)
		})
		if err != nil {
			return err
		}
		log.Info().Str("webhook", cfg.WebhookPublicURL).Msg("telegram: bot initialized")
		webhook = bot.WebhookHandler
	}

	mux := server.NewHTTPMux(webhook, svc, loader.Dataset)
	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Msg("http: listening")
	return server.ListenAndServe(addr, mux)
}
