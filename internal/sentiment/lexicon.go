package sentiment

import (
	"strings"

	"cryptopulse/internal/domain"
)

// Sentiment labels attached to scored texts.
const (
	LabelNegative = "negative"
	LabelNeutral  = "neutral"
	LabelPositive = "positive"
)

var positiveTokens = []string{
	"bull", "breakout", "surge", "rally", "adoption", "moon", "growth",
	"buy", "uptrend", "recover", "gain", "ath", "pump", "support",
}

var negativeTokens = []string{
	"bear", "dump", "sell", "crash", "hack", "lawsuit", "ban", "scam",
	"decline", "downtrend", "liquidation", "fud", "rug", "loss",
}

// Preprocess normalizes a text the way the scoring models expect:
// lowercase, URLs stripped, whitespace collapsed.
func Preprocess(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return ""
	}
	fields := strings.Fields(text)
	kept := fields[:0]
	for _, word := range fields {
		if strings.HasPrefix(word, "http") {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}

// HeuristicScore classifies one text by keyword counts. It is the always-on
// baseline; the LLM scorer refines it when configured.
func HeuristicScore(text string) domain.SentimentResult {
	clean := Preprocess(text)
	if clean == "" {
		return domain.SentimentResult{
			Text:       clean,
			Sentiment:  LabelNeutral,
			Confidence: 0.25,
			Scores:     domain.SentimentScores{Neutral: 1},
			Model:      "heuristic:v1",
		}
	}

	posCount := countMatches(clean, positiveTokens)
	negCount := countMatches(clean, negativeTokens)

	raw := float64(posCount-negCount) / float64(posCount+negCount+1)
	score := clamp(raw, -1, 1)
	confidence := clamp(0.35+0.1*float64(absInt(posCount-negCount)), 0.25, 0.70)

	label := LabelNeutral
	switch {
	case score > 0.2:
		label = LabelPositive
	case score < -0.2:
		label = LabelNegative
	}

	return domain.SentimentResult{
		Text:       clean,
		Sentiment:  label,
		Confidence: confidence,
		Scores:     scoresFor(label, confidence),
		Model:      "heuristic:v1",
	}
}

// scoresFor spreads probability mass so the predicted class carries the
// confidence and the rest is split evenly.
func scoresFor(label string, confidence float64) domain.SentimentScores {
	rest := (1 - confidence) / 2
	switch label {
	case LabelPositive:
		return domain.SentimentScores{Positive: confidence, Neutral: rest, Negative: rest}
	case LabelNegative:
		return domain.SentimentScores{Negative: confidence, Neutral: rest, Positive: rest}
	default:
		return domain.SentimentScores{Neutral: confidence, Positive: rest, Negative: rest}
	}
}

// Polarity collapses per-class scores to a single value in [-1, 1].
func Polarity(r domain.SentimentResult) float64 {
	return r.Scores.Positive - r.Scores.Negative
}

func normalizeLabel(label string) string {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "positive", "bullish", "bull":
		return LabelPositive
	case "negative", "bearish", "bear":
		return LabelNegative
	default:
		return LabelNeutral
	}
}

func countMatches(text string, tokens []string) int {
	count := 0
	for _, token := range tokens {
		if strings.Contains(text, token) {
			count++
		}
	}
	return count
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
