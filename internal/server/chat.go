// Package server exposes the chat service over HTTP.
package server

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lumenfield/clientintel/internal/intel"
	"github.com/lumenfield/clientintel/internal/intel/provider"
	"github.com/lumenfield/clientintel/internal/session"
)

// Visitor carries identity fields the storefront chat widget knows about.
// Empty fields never overwrite values already on the profile.
type Visitor struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Company  string `json:"company"`
	Website  string `json:"website"`
	Position string `json:"position"`
}

type ChatRequest struct {
	SessionID string   `json:"sessionId"`
	Message   string   `json:"message"`
	ImageURL  string   `json:"imageUrl"`
	Audio     string   `json:"audio"` // base64-encoded voice note
	Visitor   *Visitor `json:"visitor"`
}

type ChatResponse struct {
	SessionID string                `json:"sessionId"`
	Reply     string                `json:"reply"`
	Sentiment intel.SentimentResult `json:"sentiment"`
	Strategy  intel.Strategy        `json:"strategy"`
}

// Server wires the intelligence components behind the chat endpoint.
type Server struct {
	store       session.Store
	analyzer    *intel.SentimentAnalyzer
	profiler    *intel.CompanyProfiler
	completer   provider.Completer
	chatModel   string
	images      ImageDescriber
	transcriber Transcriber
	log         *zap.SugaredLogger
}

func New(store session.Store, analyzer *intel.SentimentAnalyzer, profiler *intel.CompanyProfiler, completer provider.Completer, chatModel string, log *zap.SugaredLogger) *Server {
	return &Server{
		store:     store,
		analyzer:  analyzer,
		profiler:  profiler,
		completer: completer,
		chatModel: chatModel,
		log:       log,
	}
}

// WithImageDescriber plugs in a vision collaborator for image attachments.
func (s *Server) WithImageDescriber(d ImageDescriber) *Server {
	s.images = d
	return s
}

// WithTranscriber plugs in a speech collaborator for voice notes.
func (s *Server) WithTranscriber(t Transcriber) *Server {
	s.transcriber = t
	return s
}

// Register mounts the service routes on a gin engine.
func (s *Server) Register(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "OK") })
	r.POST("/api/chat", s.HandleChat)
	r.GET("/api/session/:id", s.HandleSession)
}

// HandleChat runs one conversational turn: analyze the message, refresh the
// profile, pick a strategy, and answer with the primary completion call.
// Auxiliary intelligence failures degrade silently; only a failed primary
// call produces the apology reply.
func (s *Server) HandleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" && req.Audio == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message or audio is required"})
		return
	}
	ctx := c.Request.Context()

	profile := s.loadProfile(ctx, req.SessionID)
	applyVisitor(profile, req.Visitor)

	message := strings.TrimSpace(req.Message)
	if req.Audio != "" && s.transcriber != nil {
		if text, err := s.transcribeAudio(ctx, req.Audio); err != nil {
			s.log.Warnw("voice transcription failed", "err", err)
		} else if message == "" {
			message = text
		} else if text != "" {
			message = fmt.Sprintf("%s\n[Voice note: %s]", message, text)
		}
	}
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not transcribe audio and no message was given"})
		return
	}
	if req.ImageURL != "" && s.images != nil {
		if desc, err := s.images.DescribeImage(ctx, req.ImageURL); err == nil && desc != "" {
			message = fmt.Sprintf("%s\n[Attached image: %s]", message, desc)
		} else if err != nil {
			s.log.Warnw("image description failed", "err", err)
		}
	}

	// Sentiment and company profiling are independent; run them together.
	// Both are infallible by contract.
	var (
		wg      sync.WaitGroup
		sr      intel.SentimentResult
		company *intel.CompanyIntelligence
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		sr = s.analyzer.Analyze(ctx, message)
	}()
	if profile.Company != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ci := s.profiler.Profile(ctx, profile.Company, profile.Website)
			company = &ci
		}()
	}
	wg.Wait()

	role := intel.ClassifyRole(profile.Position)
	profile.ApplyRole(role)
	profile.ApplyCompanyIntelligence(company)
	profile.ObserveUserMessage(message, sr)

	// Strategy must see the sentiment/company results before the primary
	// call is made.
	strategy := intel.SelectStrategy(profile, company)

	reply, err := s.completer.Complete(ctx, provider.Request{
		Model:           s.chatModel,
		Instructions:    buildSystemPrompt(role, strategy, company, profile),
		Input:           buildConversationInput(profile.ConversationHistory, message),
		Temperature:     0.7,
		MaxOutputTokens: 800,
	})
	if err != nil {
		s.log.Errorw("primary completion failed", "session", profile.SessionID, "err", err)
		reply = apologyReply
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		reply = apologyReply
	}

	profile.AppendMessage(intel.Message{
		Role:       "user",
		Content:    message,
		Sentiment:  sr.Sentiment,
		Engagement: sr.Engagement,
	})
	profile.AppendMessage(intel.Message{Role: "assistant", Content: reply})
	profile.RecordStrategyEffectiveness(strategy.Approach, float64(sr.Engagement))

	if err := s.store.Put(ctx, profile); err != nil {
		s.log.Errorw("session save failed", "session", profile.SessionID, "err", err)
	}

	c.JSON(http.StatusOK, ChatResponse{
		SessionID: profile.SessionID,
		Reply:     reply,
		Sentiment: sr,
		Strategy:  strategy,
	})
}

// HandleSession exposes a read-only view of an active session profile.
func (s *Server) HandleSession(c *gin.Context) {
	id := c.Param("id")
	profile, err := s.store.Get(c.Request.Context(), id)
	if errors.Is(err, session.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown or expired session"})
		return
	}
	if err != nil {
		s.log.Errorw("session load failed", "session", id, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session store unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sessionId":             profile.SessionID,
		"company":               profile.Company,
		"position":              profile.Position,
		"industry":              profile.Industry,
		"companySize":           profile.CompanySize,
		"communicationStyle":    profile.CommunicationStyle,
		"priceSensitivity":      profile.PriceSensitivity,
		"interestLevel":         profile.InterestLevel,
		"messageCount":          len(profile.ConversationHistory),
		"strategyEffectiveness": profile.StrategyEffectiveness,
		"lastUpdated":           profile.LastUpdated,
	})
}

func (s *Server) transcribeAudio(ctx context.Context, encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode audio: %w", err)
	}
	text, err := s.transcriber.Transcribe(ctx, raw)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (s *Server) loadProfile(ctx context.Context, sessionID string) *intel.ClientProfile {
	if sessionID != "" {
		profile, err := s.store.Get(ctx, sessionID)
		if err == nil {
			return profile
		}
		if !errors.Is(err, session.ErrNotFound) {
			s.log.Errorw("session load failed", "session", sessionID, "err", err)
		}
		// Unknown or expired ID: keep the caller's ID but start fresh.
		return intel.NewClientProfile(sessionID)
	}
	return intel.NewClientProfile(uuid.NewString())
}

func applyVisitor(p *intel.ClientProfile, v *Visitor) {
	if v == nil {
		return
	}
	if v.Name != "" {
		p.Name = v.Name
	}
	if v.Email != "" {
		p.Email = v.Email
	}
	if v.Phone != "" {
		p.Phone = v.Phone
	}
	if v.Company != "" {
		p.Company = v.Company
	}
	if v.Website != "" {
		p.Website = v.Website
	}
	if v.Position != "" {
		p.Position = v.Position
	}
}
