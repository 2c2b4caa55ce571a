package intel

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/lumenfield/clientintel/internal/intel/provider"
)

var sentimentSchema = provider.GenerateSchema[SentimentResult]()

// DefaultSentiment is returned whenever the model call or its output cannot
// be used. The conversation must keep going on analyzer failure.
func DefaultSentiment() SentimentResult {
	return SentimentResult{
		Sentiment:  SentimentNeutral,
		Engagement: 50,
		Intent:     []string{"general_inquiry"},
		Urgency:    UrgencyMedium,
	}
}

// SentimentAnalyzer scores one user message at a time. It never returns an
// error; failures degrade to DefaultSentiment.
type SentimentAnalyzer struct {
	completer provider.Completer
	model     string
	log       *zap.SugaredLogger
}

func NewSentimentAnalyzer(completer provider.Completer, model string, log *zap.SugaredLogger) *SentimentAnalyzer {
	return &SentimentAnalyzer{completer: completer, model: model, log: log}
}

// Analyze classifies sentiment, engagement, intent and urgency for one
// message.
func (a *SentimentAnalyzer) Analyze(ctx context.Context, message string) SentimentResult {
	if a.completer == nil || strings.TrimSpace(message) == "" {
		return DefaultSentiment()
	}

	out, err := a.completer.Complete(ctx, provider.Request{
		Model:           a.model,
		Instructions:    sentimentInstructions,
		Input:           fmt.Sprintf("CUSTOMER MESSAGE:\n%s", message),
		Temperature:     0.2,
		MaxOutputTokens: 300,
		SchemaName:      "MessageSentiment",
		Schema:          sentimentSchema,
	})
	if err != nil {
		a.warn("sentiment call failed", err)
		return DefaultSentiment()
	}

	var sr SentimentResult
	if err := decodeModelJSON(out, &sr); err != nil {
		a.warn("sentiment output unparsable", err)
		return DefaultSentiment()
	}
	return normalizeSentiment(sr)
}

func (a *SentimentAnalyzer) warn(msg string, err error) {
	if a.log != nil {
		a.log.Warnw(msg, "err", err)
	}
}

// normalizeSentiment forces model output back onto the documented
// vocabulary and clamps engagement to [0, 100].
func normalizeSentiment(sr SentimentResult) SentimentResult {
	switch sr.Sentiment {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
	default:
		sr.Sentiment = SentimentNeutral
	}
	switch sr.Urgency {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
	default:
		sr.Urgency = UrgencyMedium
	}
	sr.Engagement = clampEngagement(sr.Engagement)
	if len(sr.Intent) == 0 {
		sr.Intent = []string{"general_inquiry"}
	}
	return sr
}
