package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"harsi-trading-bot/config"
	"harsi-trading-bot/internal/dto"
	"harsi-trading-bot/internal/service"
	"harsi-trading-bot/pkg/logger"
	"harsi-trading-bot/pkg/telegram"

	"github.com/robfig/cron/v3"
	"gopkg.in/telebot.v3"
)

const jobTimeout = 5 * time.Minute

// Scheduler pushes periodic notifications to the configured chat: the daily
// ETF flow summary and the HARSI survey reminder.
type Scheduler struct {
	cfg      *config.Config
	log      *logger.Logger
	cron     *cron.Cron
	services *service.Service
	notifier *telegram.RateLimiter
	rootCtx  context.Context
}

func New(
	cfg *config.Config,
	log *logger.Logger,
	services *service.Service,
	notifier *telegram.RateLimiter,
) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		log:      log,
		cron:     cron.New(),
		services: services,
		notifier: notifier,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.rootCtx = ctx

	if s.cfg.Telegram.ChatID == 0 {
		s.log.Warn("Scheduler disabled, no notification chat configured")
		return nil
	}

	if s.cfg.Scheduler.EnableETFSummary {
		if _, err := s.cron.AddFunc(s.cfg.Scheduler.ETFSummarySchedule, s.runETFSummary); err != nil {
			return fmt.Errorf("failed to schedule etf summary: %w", err)
		}
	}
	if s.cfg.Scheduler.EnableSurveyReminder {
		if _, err := s.cron.AddFunc(s.cfg.Scheduler.SurveySchedule, s.runSurveyReminder); err != nil {
			return fmt.Errorf("failed to schedule survey reminder: %w", err)
		}
	}

	s.cron.Start()
	s.log.Info("Scheduler started",
		logger.IntField("jobs", len(s.cron.Entries())),
	)
	return nil
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("Scheduler stopped")
}

func (s *Scheduler) runETFSummary() {
	ctx, cancel := context.WithTimeout(s.rootCtx, jobTimeout)
	defer cancel()

	reports, err := s.services.MarketService.ETFFlows(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to fetch etf flows", logger.ErrorField(err))
		return
	}

	msg := formatETFSummary(reports)
	if err := s.notifier.SendToChat(ctx, s.cfg.Telegram.ChatID, msg, telebot.ModeHTML); err != nil {
		s.log.ErrorContext(ctx, "failed to send etf summary", logger.ErrorField(err))
	}
}

func (s *Scheduler) runSurveyReminder() {
	ctx, cancel := context.WithTimeout(s.rootCtx, jobTimeout)
	defer cancel()

	msg := s.formatSurveyReminder(ctx)
	if err := s.notifier.SendToChat(ctx, s.cfg.Telegram.ChatID, msg, telebot.ModeHTML); err != nil {
		s.log.ErrorContext(ctx, "failed to send survey reminder", logger.ErrorField(err))
	}
}

func formatETFSummary(reports []dto.ETFFlowReport) string {
	var sb strings.Builder
	sb.WriteString("📊 <b>Dòng tiền ETF hôm nay</b>\n")

	for _, report := range reports {
		name := "BTC"
		if report.Asset == dto.ETFAssetETH {
			name = "ETH"
		}
		sb.WriteString(fmt.Sprintf("\n<b>%s ETF</b>\n", name))
		for _, row := range report.Rows {
			icon := "🟢"
			if row.TotalFlow < 0 {
				icon = "🔴"
			}
			sb.WriteString(fmt.Sprintf("%s %s: %+.1f triệu USD\n", icon, row.Date, row.TotalFlow))
		}
	}
	return sb.String()
}

// formatSurveyReminder lists how stale each symbol's latest survey is so the
// user knows which ones to redo.
func (s *Scheduler) formatSurveyReminder(ctx context.Context) string {
	var sb strings.Builder
	sb.WriteString("📝 <b>Nhắc khảo sát HARSI hàng ngày</b>\n\n")

	for _, symbol := range dto.Symbols {
		survey, err := s.services.SurveyService.Latest(ctx, symbol)
		switch {
		case err != nil:
			s.log.WarnContext(ctx, "failed to load latest survey",
				logger.StringField("symbol", string(symbol)),
				logger.ErrorField(err),
			)
			sb.WriteString(fmt.Sprintf("• %s: không đọc được khảo sát\n", symbol))
		case survey == nil:
			sb.WriteString(fmt.Sprintf("• %s: chưa có khảo sát nào\n", symbol))
		default:
			age := time.Since(survey.SurveyedAt)
			sb.WriteString(fmt.Sprintf("• %s: %s (%s, %.0f giờ trước)\n",
				symbol, survey.Trend, survey.Recommendation, age.Hours()))
		}
	}

	sb.WriteString("\nDùng /survey để cập nhật khảo sát mới.")
	return sb.String()
}
