package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"harsi-trading-bot/config"
	"harsi-trading-bot/internal/dto"
	"harsi-trading-bot/internal/model"
	"harsi-trading-bot/pkg/httpclient"
	"harsi-trading-bot/pkg/logger"
	"harsi-trading-bot/pkg/ratelimit"
	"harsi-trading-bot/pkg/utils"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

type AIRepository interface {
	ReviewOrder(ctx context.Context, order *model.Order) (*dto.AIOrderReviewResponse, error)
}

// geminiAIRepository asks the Google Gemini API for a second opinion on a
// saved order setup.
type geminiAIRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

func NewGeminiAIRepository(cfg *config.Config, log *logger.Logger) (AIRepository, error) {
	secondsPerRequest := time.Minute / time.Duration(cfg.Gemini.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	tokenLimiter := ratelimit.NewTokenLimiter(cfg.Gemini.MaxTokenPerMinute)
	genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.Gemini.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiAIRepository{
		httpClient:     httpclient.New(cfg.Gemini.BaseURL, cfg.Gemini.Timeout, ""),
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
		tokenLimiter:   tokenLimiter,
		genAiClient:    genAiClient,
	}, nil
}

func (r *geminiAIRepository) ReviewOrder(ctx context.Context, order *model.Order) (*dto.AIOrderReviewResponse, error) {
	if order == nil || order.Data.Symbol == "" {
		return nil, fmt.Errorf("order has no symbol to review")
	}

	prompt := r.promptReviewOrder(order)

	geminiAPIResponse, err := r.sendRequest(ctx, prompt)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to send request to gemini", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to send request to gemini: %w", err)
	}

	var result dto.AIOrderReviewResponse
	if err := r.parseResponse(geminiAPIResponse, &result); err != nil {
		r.logger.ErrorContext(ctx, "failed to parse response from gemini", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to parse response from gemini: %w", err)
	}

	result.Symbol = string(order.Data.Symbol)
	result.Timestamp = time.Now()

	return &result, nil
}

func (r *geminiAIRepository) promptReviewOrder(order *model.Order) string {
	var sb strings.Builder

	draft := order.Data
	sb.WriteString(fmt.Sprintf(
		"Bạn là hệ thống AI phân tích kỹ thuật chuyên nghiệp, nhiệm vụ là đánh giá một lệnh swing trading cho %s dựa trên chỉ báo HARSI đa khung thời gian.\n\n",
		draft.Symbol,
	))

	if draft.Direction != "" {
		sb.WriteString(fmt.Sprintf("Hướng lệnh: %s\n", draft.Direction))
	}
	if draft.Entry != nil {
		sb.WriteString(fmt.Sprintf("Giá vào lệnh: %s\n", utils.FormatPrice(*draft.Entry)))
	}
	if draft.StopLoss != nil {
		sb.WriteString(fmt.Sprintf("Cắt lỗ: %s\n", utils.FormatPrice(*draft.StopLoss)))
	}
	if draft.TakeProfit != nil {
		sb.WriteString(fmt.Sprintf("Chốt lời: %s\n", utils.FormatPrice(*draft.TakeProfit)))
	}
	if draft.PotentialRiskRewardRatio != nil {
		sb.WriteString(fmt.Sprintf("Tỷ lệ R:R: %s\n", utils.FormatR(*draft.PotentialRiskRewardRatio)))
	}

	sb.WriteString("\nChỉ báo HARSI theo khung thời gian:\n")
	for _, tf := range dto.Timeframes {
		if reading := draft.Harsi(tf); reading != nil {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", tf, *reading))
		}
	}

	sb.WriteString(`
### Nhiệm vụ:
1. Đưa ra đánh giá tổng thể ("verdict"): chỉ một trong "GOOD", "RISKY", "AVOID".
2. Chấm điểm kỹ thuật 0-100 ("score"), càng cao nghĩa là setup càng tốt.
3. Mức độ tự tin của AI theo phần trăm 0-100 ("confidence").
4. Thêm "key_insights" dạng map[string]string:
   - Key bằng tiếng Anh viết thường (ví dụ: "trend", "risk", "timeframe").
   - Value là nhận xét kỹ thuật ngắn gọn bằng tiếng Việt, tối đa 100 ký tự.
   - Tối đa 10 mục.
5. Nêu "reason": lý do chính cho đánh giá, dựa trên khung thời gian chủ đạo.

### Quy tắc:
- Cảnh báo khi hướng lệnh ngược với HARSI ở khung 1d hoặc 8h.
- Cảnh báo khi tỷ lệ R:R nhỏ hơn 2.

Trả lời CHỈ bằng JSON hợp lệ với các trường: verdict, score, confidence, key_insights, reason.
`)

	return sb.String()
}

func (r *geminiAIRepository) sendRequest(ctx context.Context, prompt string) (*dto.GeminiAPIResponse, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}
	geminiTokenResp, err := r.genAiClient.Models.CountTokens(ctx, r.cfg.Gemini.Model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count tokens: %w", err)
	}

	r.logger.Debug("Gemini token count",
		logger.IntField("total_tokens", int(geminiTokenResp.TotalTokens)),
		logger.IntField("remaining", r.tokenLimiter.GetRemaining()),
	)
	if err := r.tokenLimiter.Wait(ctx, int(geminiTokenResp.TotalTokens)); err != nil {
		return nil, fmt.Errorf("failed to wait for token gemini limit: %w", err)
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request gemini limit: %w", err)
	}

	payload := dto.GeminiAPIRequest{
		Contents: []dto.Content{{Parts: []dto.Part{{Text: prompt}}}},
	}

	geminiAPIResponse := dto.GeminiAPIResponse{}

	apiURL := fmt.Sprintf("/%s:generateContent?key=%s", r.cfg.Gemini.Model, r.cfg.Gemini.APIKey)

	geminiResp, err := r.httpClient.Post(ctx, apiURL, payload, nil, &geminiAPIResponse)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to gemini: %w", err)
	}

	if geminiResp.StatusCode != http.StatusOK {
		r.logger.ErrorContext(ctx, "failed to get data from gemini", logger.IntField("status_code", geminiResp.StatusCode))
		return nil, fmt.Errorf("failed to get data: %v", geminiResp.Body)
	}

	return &geminiAPIResponse, nil
}

func (r *geminiAIRepository) parseResponse(response *dto.GeminiAPIResponse, dest interface{}) error {
	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return fmt.Errorf("invalid response from Gemini API: no content found")
	}

	jsonString := response.Candidates[0].Content.Parts[0].Text
	jsonString = strings.Trim(jsonString, "`json\n`")

	return json.Unmarshal([]byte(jsonString), dest)
}
