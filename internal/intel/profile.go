package intel

import (
	"strings"
	"time"
)

// NewClientProfile creates the profile for a new chat session. The session
// ID is fixed for the lifetime of the profile.
func NewClientProfile(sessionID string) *ClientProfile {
	return &ClientProfile{
		SessionID:             sessionID,
		ConversationHistory:   []Message{},
		StrategyEffectiveness: map[string]float64{},
		LastUpdated:           time.Now().UTC(),
	}
}

// AppendMessage adds one turn to the conversation history. History is
// append-only; callers never remove or reorder turns.
func (p *ClientProfile) AppendMessage(m Message) {
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	p.ConversationHistory = append(p.ConversationHistory, m)
	p.LastUpdated = time.Now().UTC()
}

// RecordStrategyEffectiveness overwrites the effectiveness score for a
// strategy. Scores are clamped to [0, 100].
func (p *ClientProfile) RecordStrategyEffectiveness(strategy string, score float64) {
	if strategy == "" {
		return
	}
	if p.StrategyEffectiveness == nil {
		p.StrategyEffectiveness = map[string]float64{}
	}
	p.StrategyEffectiveness[strategy] = clampScore(score)
	p.LastUpdated = time.Now().UTC()
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func clampEngagement(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// priceSignalWords marks a visitor as price sensitive when they show up in
// a message. Checked against the lowercased text.
var priceSignalWords = []string{
	"price", "pricing", "cost", "cheap", "budget", "discount", "quote", "rebate",
}

var concernSignalWords = []string{
	"worried", "concern", "problem", "issue", "risk", "not sure", "hesitant",
}

// ObserveUserMessage folds one user message and its sentiment analysis into
// the profile's behavioral accumulators.
func (p *ClientProfile) ObserveUserMessage(content string, sr SentimentResult) {
	lower := strings.ToLower(content)

	p.MessageLength = bucketMessageLength(content)
	if strings.Contains(content, "?") {
		p.QuestionsAsked = append(p.QuestionsAsked, strings.TrimSpace(content))
	}
	for _, w := range concernSignalWords {
		if strings.Contains(lower, w) {
			p.ConcernsRaised = append(p.ConcernsRaised, strings.TrimSpace(content))
			break
		}
	}
	for _, w := range priceSignalWords {
		if strings.Contains(lower, w) {
			p.PriceSensitivity = "high"
			break
		}
	}
	p.InterestLevel = clampEngagement(sr.Engagement)
	p.LastUpdated = time.Now().UTC()
}

func bucketMessageLength(content string) string {
	n := len(strings.Fields(content))
	switch {
	case n <= 8:
		return "short"
	case n <= 40:
		return "medium"
	default:
		return "long"
	}
}

// ApplyRole stores the classified communication style on the profile so the
// strategy selector and later turns can reuse it.
func (p *ClientProfile) ApplyRole(role RoleProfile) {
	p.CommunicationStyle = role.CommunicationStyle
	p.LastUpdated = time.Now().UTC()
}

// ApplyCompanyIntelligence copies company-derived traits onto the profile.
func (p *ClientProfile) ApplyCompanyIntelligence(ci *CompanyIntelligence) {
	if ci == nil {
		return
	}
	if ci.Industry != "" {
		p.Industry = ci.Industry
	}
	if ci.Size != "" {
		p.CompanySize = ci.Size
	}
	if len(ci.PainPoints) > 0 {
		p.PainPoints = mergeUnique(p.PainPoints, ci.PainPoints)
	}
	if len(ci.Competitors) > 0 {
		p.Competitors = mergeUnique(p.Competitors, ci.Competitors)
	}
	p.LastUpdated = time.Now().UTC()
}

func mergeUnique(dst, src []string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, s := range dst {
		seen[strings.ToLower(s)] = struct{}{}
	}
	for _, s := range src {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[strings.ToLower(s)]; ok {
			continue
		}
		seen[strings.ToLower(s)] = struct{}{}
		dst = append(dst, s)
	}
	return dst
}
