package telegram

import (
	"context"
	"sync"
	"time"

	"harsi-trading-bot/config"
	"harsi-trading-bot/pkg/logger"
	"harsi-trading-bot/pkg/utils"

	"golang.org/x/time/rate"
	"gopkg.in/telebot.v3"
)

type chatLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter serializes outbound Telegram calls behind the Bot API limits:
// one global limiter plus one limiter per chat.
type RateLimiter struct {
	cfg           *config.TelegramConfig
	log           *logger.Logger
	bot           *telebot.Bot
	globalLimiter *rate.Limiter
	chatLimiters  map[int64]*chatLimiterEntry
	mu            sync.Mutex
	wg            sync.WaitGroup
}

func NewRateLimiter(cfg *config.TelegramConfig, log *logger.Logger, bot *telebot.Bot) *RateLimiter {
	return &RateLimiter{
		cfg:           cfg,
		log:           log,
		bot:           bot,
		globalLimiter: rate.NewLimiter(rate.Limit(cfg.MaxGlobalRequestPerSecond), cfg.MaxGlobalRequestPerSecond),
		chatLimiters:  make(map[int64]*chatLimiterEntry),
	}
}

func (r *RateLimiter) Send(ctx context.Context, c telebot.Context, what interface{}, opts ...interface{}) (*telebot.Message, error) {
	if err := r.wait(ctx, c.Chat().ID); err != nil {
		return nil, err
	}
	return r.bot.Send(c.Chat(), what, opts...)
}

func (r *RateLimiter) Edit(ctx context.Context, c telebot.Context, msg *telebot.Message, what interface{}, opts ...interface{}) (*telebot.Message, error) {
	if err := r.wait(ctx, c.Chat().ID); err != nil {
		return nil, err
	}
	return r.bot.Edit(msg, what, opts...)
}

func (r *RateLimiter) Delete(ctx context.Context, c telebot.Context, msg *telebot.Message) error {
	if err := r.wait(ctx, c.Chat().ID); err != nil {
		return err
	}
	return r.bot.Delete(msg)
}

// SendToChat delivers a message outside of an update context, used by the
// scheduler notifications.
func (r *RateLimiter) SendToChat(ctx context.Context, chatID int64, what interface{}, opts ...interface{}) error {
	if err := r.wait(ctx, chatID); err != nil {
		return err
	}
	_, err := r.bot.Send(&telebot.Chat{ID: chatID}, what, opts...)
	return err
}

func (r *RateLimiter) getChatLimiter(chatID int64) *chatLimiterEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, exists := r.chatLimiters[chatID]; exists {
		entry.lastAccess = time.Now()
		return entry
	}

	entry := &chatLimiterEntry{
		limiter:    rate.NewLimiter(rate.Limit(r.cfg.MaxChatRequestPerSecond), r.cfg.MaxChatRequestPerSecond),
		lastAccess: time.Now(),
	}
	r.chatLimiters[chatID] = entry
	return entry
}

func (r *RateLimiter) wait(ctx context.Context, chatID int64) error {
	chatLimiter := r.getChatLimiter(chatID)

	if err := r.globalLimiter.Wait(ctx); err != nil {
		r.log.ErrorContext(ctx, "Failed to wait for global rate limit", logger.ErrorField(err))
		return err
	}
	if err := chatLimiter.limiter.Wait(ctx); err != nil {
		r.log.ErrorContext(ctx, "Failed to wait for chat rate limit", logger.ErrorField(err))
		return err
	}
	return nil
}

// StartCleanupExpired drops per-chat limiters that have been idle longer
// than the configured expiry.
func (r *RateLimiter) StartCleanupExpired(ctx context.Context) {
	r.wg.Add(1)
	utils.GoSafe(func() {
		defer r.wg.Done()
		ticker := time.NewTicker(r.cfg.RateLimitCleanupDuration)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				r.log.Info("Stopping Telegram rate limiter cleanup")
				return
			case <-ticker.C:
				r.mu.Lock()
				now := time.Now()
				for chatID, entry := range r.chatLimiters {
					if now.Sub(entry.lastAccess) > r.cfg.RatelimitExpireDuration {
						delete(r.chatLimiters, chatID)
					}
				}
				r.mu.Unlock()
			}
		}
	})
}

func (r *RateLimiter) StopCleanupExpired() {
	r.wg.Wait()
	r.log.Info("Telegram rate limiter stopped")
}
