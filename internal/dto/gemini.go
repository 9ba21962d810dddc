package dto

import "time"

type GeminiAPIRequest struct {
	Contents []Content `json:"contents"`
}

type GeminiAPIResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate is a candidate response from the Gemini API.
type Candidate struct {
	Content Content `json:"content"`
}

type Content struct {
	Parts []Part `json:"parts"`
}

type Part struct {
	Text string `json:"text"`
}

// AIOrderReviewResponse is the structured review the model returns for a
// saved order setup.
type AIOrderReviewResponse struct {
	Symbol      string            `json:"symbol"`
	Verdict     string            `json:"verdict"`
	Score       float64           `json:"score"`
	Confidence  float64           `json:"confidence"`
	KeyInsights map[string]string `json:"key_insights"`
	Reason      string            `json:"reason"`
	Timestamp   time.Time         `json:"timestamp"`
}
