package model

import (
	"encoding/json"
	"time"

	"harsi-trading-bot/internal/dto"

	"gorm.io/datatypes"
)

// TrendSurvey is one recorded HARSI survey for a symbol. The per-timeframe
// readings are stored as a jsonb map keyed by timeframe.
type TrendSurvey struct {
	ID             uint               `gorm:"primaryKey" json:"id"`
	Symbol         dto.Symbol         `gorm:"not null;index" json:"symbol"`
	Readings       datatypes.JSON     `gorm:"type:jsonb" json:"readings"`
	Trend          dto.Trend          `gorm:"not null" json:"trend"`
	Recommendation dto.Recommendation `gorm:"not null" json:"recommendation"`
	SurveyedAt     time.Time          `gorm:"not null" json:"surveyed_at"`
	CreatedAt      time.Time          `gorm:"autoCreateTime" json:"created_at"`
}

func (TrendSurvey) TableName() string {
	return "trend_surveys"
}

// ReadingMap decodes the stored readings. Unknown or malformed payloads
// decode to an empty map.
func (s *TrendSurvey) ReadingMap() map[dto.Timeframe]dto.HarsiReading {
	out := make(map[dto.Timeframe]dto.HarsiReading)
	if len(s.Readings) == 0 {
		return out
	}
	var raw map[string]string
	if err := json.Unmarshal(s.Readings, &raw); err != nil {
		return out
	}
	for tf, r := range raw {
		if reading, ok := dto.ParseHarsiReading(r); ok {
			out[dto.Timeframe(tf)] = reading
		}
	}
	return out
}

// Reading returns the stored reading for tf, or nil.
func (s *TrendSurvey) Reading(tf dto.Timeframe) *dto.HarsiReading {
	if r, ok := s.ReadingMap()[tf]; ok {
		return &r
	}
	return nil
}

// NewTrendSurvey builds a survey from readings, deriving trend and
// recommendation from a simple majority of the present readings.
func NewTrendSurvey(symbol dto.Symbol, readings map[dto.Timeframe]dto.HarsiReading, surveyedAt time.Time) (*TrendSurvey, error) {
	raw := make(map[string]string, len(readings))
	bullish, bearish := 0, 0
	for tf, r := range readings {
		raw[string(tf)] = string(r)
		switch r {
		case dto.HarsiBullish:
			bullish++
		case dto.HarsiBearish:
			bearish++
		}
	}

	payload, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}

	trend := dto.TrendNeutral
	recommendation := dto.RecommendWait
	switch {
	case bullish > bearish:
		trend = dto.TrendBullish
		recommendation = dto.RecommendLong
	case bearish > bullish:
		trend = dto.TrendBearish
		recommendation = dto.RecommendShort
	}

	return &TrendSurvey{
		Symbol:         symbol,
		Readings:       datatypes.JSON(payload),
		Trend:          trend,
		Recommendation: recommendation,
		SurveyedAt:     surveyedAt,
	}, nil
}
