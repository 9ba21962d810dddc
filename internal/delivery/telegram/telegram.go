package telegram

import (
	"context"
	"time"

	"harsi-trading-bot/config"
	"harsi-trading-bot/internal/service"
	"harsi-trading-bot/internal/wizard"
	"harsi-trading-bot/pkg/logger"
	"harsi-trading-bot/pkg/telegram"

	"github.com/labstack/echo/v4"
	"gopkg.in/telebot.v3"
)

type TelegramBotHandler struct {
	ctx      context.Context
	cfg      *config.Config
	bot      *telebot.Bot
	log      *logger.Logger
	telegram *telegram.RateLimiter
	echo     *echo.Echo
	service  *service.Service
	wizard   *wizard.Wizard
}

func NewTelegramBotHandler(
	ctx context.Context,
	cfg *config.Config,
	log *logger.Logger,
	bot *telebot.Bot,
	rateLimiter *telegram.RateLimiter,
	echo *echo.Echo,
	services *service.Service,
	wiz *wizard.Wizard,
) *TelegramBotHandler {
	return &TelegramBotHandler{
		ctx:      ctx,
		cfg:      cfg,
		log:      log,
		bot:      bot,
		telegram: rateLimiter,
		echo:     echo,
		service:  services,
		wizard:   wiz,
	}
}

func (t *TelegramBotHandler) Start() {
	t.log.Info("Starting Telegram bot...")

	if t.cfg.Telegram.WebhookURL != "" {
		t.log.Info("Setting webhook URL", logger.StringField("webhook_url", t.cfg.Telegram.WebhookURL))
		t.bot.SetWebhook(&telebot.Webhook{
			Endpoint: &telebot.WebhookEndpoint{
				PublicURL: t.cfg.Telegram.WebhookURL,
			},
		})
	}

	t.RegisterHandlers()
}

func (t *TelegramBotHandler) Stop() {
	t.log.Info("Stopping Telegram bot...")

	ctx, cancel := context.WithTimeout(t.ctx, 10*time.Second)
	defer cancel()

	stopDone := make(chan error, 1)
	go func() {
		t.bot.Stop()
		stopDone <- nil
	}()

	select {
	case <-stopDone:
		t.log.Info("Telegram bot stopped successfully")
	case <-ctx.Done():
		t.log.Warn("Timeout while stopping bot, forcing shutdown")
	}
}
