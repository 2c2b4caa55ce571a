package intel

import "time"

// Sentiment labels returned by the sentiment analysis model call.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Urgency labels returned by the sentiment analysis model call.
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

// Company size buckets used by both CompanyIntelligence and ClientProfile.
const (
	SizeStartup    = "startup"
	SizeSMB        = "smb"
	SizeEnterprise = "enterprise"
	SizeFortune500 = "fortune500"
)

// Communication styles assigned by role classification.
const (
	StyleDirect       = "direct"
	StyleRelationship = "relationship"
	StyleAnalytical   = "analytical"
	StyleExpressive   = "expressive"
)

// SentimentResult is the fixed-shape outcome of analyzing one user message.
type SentimentResult struct {
	Sentiment  string   `json:"sentiment" jsonschema:"enum=positive,enum=neutral,enum=negative"`
	Engagement int      `json:"engagement"`
	Intent     []string `json:"intent"`
	Urgency    string   `json:"urgency" jsonschema:"enum=low,enum=medium,enum=high"`
}

// CompanyIntelligence is a best-effort structured sketch of a prospect's
// company, derived from the company name and (optionally) its website text.
// Recomputed per session; never persisted beyond the session cache.
type CompanyIntelligence struct {
	Name           string   `json:"name"`
	Website        string   `json:"website,omitempty"`
	Industry       string   `json:"industry"`
	Size           string   `json:"size"`
	Description    string   `json:"description"`
	RecentNews     []string `json:"recentNews"`
	Competitors    []string `json:"competitors"`
	PainPoints     []string `json:"painPoints"`
	BudgetEstimate string   `json:"budgetEstimate"`
	DecisionMakers []string `json:"decisionMakers"`
}

// RoleProfile is the fixed communication record for a recognized job role.
type RoleProfile struct {
	CommunicationStyle string   `json:"communicationStyle"`
	Priorities         []string `json:"priorities"`
	Concerns           []string `json:"concerns"`
	Approach           string   `json:"approach"`
}

// Strategy steers prompt construction for the primary completion call.
type Strategy struct {
	Tone       string   `json:"tone"`
	Approach   string   `json:"approach"`
	Priorities []string `json:"priorities"`
	Tactics    []string `json:"tactics"`
}

// Message is one turn of a chat session. History is chronological and
// append-only for the life of the session.
type Message struct {
	Role       string    `json:"role"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	Sentiment  string    `json:"sentiment,omitempty"`
	Engagement int       `json:"engagement,omitempty"`
}

// ClientProfile accumulates everything learned about one visitor across a
// chat session. SessionID is assigned once at session start and never
// changes.
type ClientProfile struct {
	SessionID string `json:"sessionId"`

	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Company  string `json:"company,omitempty"`
	Website  string `json:"website,omitempty"`
	Position string `json:"position,omitempty"`

	Industry           string `json:"industry,omitempty"`
	CompanySize        string `json:"companySize,omitempty"`
	CommunicationStyle string `json:"communicationStyle,omitempty"`
	DecisionSpeed      string `json:"decisionSpeed,omitempty"`
	TechLevel          string `json:"techLevel,omitempty"`
	PriceSensitivity   string `json:"priceSensitivity,omitempty"`

	ResponseTime   string   `json:"responseTime,omitempty"`
	MessageLength  string   `json:"messageLength,omitempty"`
	QuestionsAsked []string `json:"questionsAsked,omitempty"`
	ConcernsRaised []string `json:"concernsRaised,omitempty"`
	InterestLevel  int      `json:"interestLevel,omitempty"`

	PainPoints  []string `json:"painPoints,omitempty"`
	Budget      string   `json:"budget,omitempty"`
	Timeline    string   `json:"timeline,omitempty"`
	Competitors []string `json:"competitors,omitempty"`

	ConversationHistory   []Message          `json:"conversationHistory"`
	StrategyEffectiveness map[string]float64 `json:"strategyEffectiveness,omitempty"`

	LastUpdated time.Time `json:"lastUpdated"`
}
