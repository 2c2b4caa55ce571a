package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lumenfield/clientintel/internal/intel"
	"github.com/lumenfield/clientintel/internal/intel/provider"
	"github.com/lumenfield/clientintel/internal/session"
)

// scriptedCompleter routes calls by schema name so one stub can stand in
// for the sentiment, company, and primary completion calls.
type scriptedCompleter struct {
	sentimentJSON string
	companyJSON   string
	reply         string
	replyErr      error

	mu         sync.Mutex
	lastPrompt string
}

func (s *scriptedCompleter) Complete(_ context.Context, req provider.Request) (string, error) {
	switch req.SchemaName {
	case "MessageSentiment":
		return s.sentimentJSON, nil
	case "CompanyIntelligence":
		return s.companyJSON, nil
	default:
		s.mu.Lock()
		s.lastPrompt = req.Instructions
		s.mu.Unlock()
		if s.replyErr != nil {
			return "", s.replyErr
		}
		return s.reply, nil
	}
}

func (s *scriptedCompleter) prompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPrompt
}

func newTestServer(t *testing.T, completer provider.Completer) (*Server, *session.MemoryStore, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := session.NewMemoryStore(time.Minute)
	t.Cleanup(store.Close)

	log := zap.NewNop().Sugar()
	analyzer := intel.NewSentimentAnalyzer(completer, "intel-model", log)
	profiler := intel.NewCompanyProfiler(completer, nil, "intel-model", time.Minute, log)

	srv := New(store, analyzer, profiler, completer, "chat-model", log)
	router := gin.New()
	srv.Register(router)
	return srv, store, router
}

func postChat(t *testing.T, router *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestHandleChat_FullTurn(t *testing.T) {
	completer := &scriptedCompleter{
		sentimentJSON: `{"sentiment":"positive","engagement":88,"intent":["price_inquiry"],"urgency":"high"}`,
		companyJSON:   `{"industry":"warehousing","size":"enterprise","description":"3PL","painPoints":["dark aisles"],"budgetEstimate":"high","decisionMakers":["CFO"],"competitors":[]}`,
		reply:         "Happy to help with pricing for 500 high bays.",
	}
	_, store, router := newTestServer(t, completer)

	w := postChat(t, router, ChatRequest{
		Message: "I need pricing ASAP for 500 high bay fixtures",
		Visitor: &Visitor{Position: "CFO", Company: "Acme Logistics"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, completer.reply, resp.Reply)
	assert.Equal(t, "high", resp.Sentiment.Urgency)
	assert.Greater(t, resp.Sentiment.Engagement, 50)

	// CFO is a direct communicator and the message tripped the price
	// signal, so savings lead the priorities.
	assert.Equal(t, "direct", resp.Strategy.Tone)
	require.GreaterOrEqual(t, len(resp.Strategy.Priorities), 3)
	assert.Equal(t, []string{"cost_savings", "roi", "rebates"}, resp.Strategy.Priorities[:3])

	// Company size came from company intelligence, not the profile.
	assert.Contains(t, resp.Strategy.Priorities, "scalability")

	profile, err := store.Get(context.Background(), resp.SessionID)
	require.NoError(t, err)
	assert.Len(t, profile.ConversationHistory, 2)
	assert.Equal(t, "user", profile.ConversationHistory[0].Role)
	assert.Equal(t, "assistant", profile.ConversationHistory[1].Role)
	assert.Equal(t, 88, profile.ConversationHistory[0].Engagement)
	assert.Equal(t, "warehousing", profile.Industry)
	assert.InDelta(t, 88, profile.StrategyEffectiveness[resp.Strategy.Approach], 0.01)

	// Strategy context reached the primary prompt.
	assert.Contains(t, completer.prompt(), "direct")
	assert.Contains(t, completer.prompt(), "Acme Logistics")
}

func TestHandleChat_SessionContinuity(t *testing.T) {
	completer := &scriptedCompleter{
		sentimentJSON: `{"sentiment":"neutral","engagement":60,"intent":["product_question"],"urgency":"medium"}`,
		reply:         "Sure - what mounting height?",
	}
	_, store, router := newTestServer(t, completer)

	w1 := postChat(t, router, ChatRequest{Message: "Do you carry 150W UFO high bays?"})
	require.Equal(t, http.StatusOK, w1.Code)
	var r1 ChatResponse
	require.NoError(t, json.Unmarshal(w1.Body.Bytes(), &r1))

	w2 := postChat(t, router, ChatRequest{SessionID: r1.SessionID, Message: "Mounting height is about 30 feet"})
	require.Equal(t, http.StatusOK, w2.Code)
	var r2 ChatResponse
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &r2))

	assert.Equal(t, r1.SessionID, r2.SessionID)

	profile, err := store.Get(context.Background(), r1.SessionID)
	require.NoError(t, err)
	assert.Len(t, profile.ConversationHistory, 4)
	// chronological, append-only
	assert.Contains(t, profile.ConversationHistory[0].Content, "UFO high bays")
	assert.Contains(t, profile.ConversationHistory[2].Content, "30 feet")
}

func TestHandleChat_ConcurrentSameSession(t *testing.T) {
	completer := &scriptedCompleter{
		sentimentJSON: `{"sentiment":"neutral","engagement":60,"intent":["product_question"],"urgency":"medium"}`,
		reply:         "Noted.",
	}
	_, store, router := newTestServer(t, completer)

	w := postChat(t, router, ChatRequest{Message: "Starting a warehouse retrofit"})
	require.Equal(t, http.StatusOK, w.Code)
	var first ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))

	var wg sync.WaitGroup
	codes := make([]int, 8)
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := postChat(t, router, ChatRequest{SessionID: first.SessionID, Message: "How many fixtures do I need?"})
			codes[i] = rec.Code
		}(i)
	}
	wg.Wait()

	for i, code := range codes {
		assert.Equal(t, http.StatusOK, code, "request %d", i)
	}

	// Every handler worked on its own snapshot of the seeded profile, so
	// whichever save landed last holds the seed turns plus one exchange.
	profile, err := store.Get(context.Background(), first.SessionID)
	require.NoError(t, err)
	assert.Len(t, profile.ConversationHistory, 4)
	assert.Contains(t, profile.ConversationHistory[0].Content, "warehouse retrofit")
}

func TestHandleChat_PrimaryFailureGetsApology(t *testing.T) {
	completer := &scriptedCompleter{
		sentimentJSON: `{"sentiment":"neutral","engagement":50,"intent":["general_inquiry"],"urgency":"low"}`,
		replyErr:      errors.New("upstream timeout"),
	}
	_, store, router := newTestServer(t, completer)

	w := postChat(t, router, ChatRequest{Message: "hello"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, apologyReply, resp.Reply)

	// The turn is still recorded so the session stays coherent.
	profile, err := store.Get(context.Background(), resp.SessionID)
	require.NoError(t, err)
	assert.Len(t, profile.ConversationHistory, 2)
}

func TestHandleChat_MissingMessage(t *testing.T) {
	completer := &scriptedCompleter{}
	_, _, router := newTestServer(t, completer)

	w := postChat(t, router, map[string]string{"sessionId": "s1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type stubTranscriber struct {
	text string
	err  error
}

func (s stubTranscriber) Transcribe(context.Context, []byte) (string, error) {
	return s.text, s.err
}

func TestHandleChat_VoiceNote(t *testing.T) {
	completer := &scriptedCompleter{
		sentimentJSON: `{"sentiment":"neutral","engagement":55,"intent":["product_question"],"urgency":"low"}`,
		reply:         "Yes, in bronze and white.",
	}
	srv, store, router := newTestServer(t, completer)
	srv.WithTranscriber(stubTranscriber{text: "Do you stock 120 watt wall packs?"})

	w := postChat(t, router, ChatRequest{
		Audio: base64.StdEncoding.EncodeToString([]byte("fake-pcm")),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	profile, err := store.Get(context.Background(), resp.SessionID)
	require.NoError(t, err)
	require.Len(t, profile.ConversationHistory, 2)
	assert.Contains(t, profile.ConversationHistory[0].Content, "wall packs")
}

func TestHandleChat_VoiceNoteWithoutTranscriber(t *testing.T) {
	completer := &scriptedCompleter{}
	_, _, router := newTestServer(t, completer)

	// No transcriber configured and no text: nothing to answer.
	w := postChat(t, router, ChatRequest{
		Audio: base64.StdEncoding.EncodeToString([]byte("fake-pcm")),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleSession(t *testing.T) {
	completer := &scriptedCompleter{
		sentimentJSON: `{"sentiment":"positive","engagement":75,"intent":["price_inquiry"],"urgency":"medium"}`,
		reply:         "Of course.",
	}
	_, _, router := newTestServer(t, completer)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/session/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	cw := postChat(t, router, ChatRequest{Message: "What would 20 troffers cost?", Visitor: &Visitor{Position: "Property Manager"}})
	var resp ChatResponse
	require.NoError(t, json.Unmarshal(cw.Body.Bytes(), &resp))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/session/"+resp.SessionID, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var view map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, resp.SessionID, view["sessionId"])
	assert.Equal(t, float64(2), view["messageCount"])
	assert.Equal(t, "relationship", view["communicationStyle"])
	assert.Equal(t, "high", view["priceSensitivity"])
}

func TestBuildConversationInput_WindowsHistory(t *testing.T) {
	t.Parallel()

	var history []intel.Message
	for i := 0; i < 30; i++ {
		history = append(history, intel.Message{Role: "user", Content: strings.Repeat("x", 3)})
	}
	history[29].Content = "most recent"

	got := buildConversationInput(history, "current question")
	assert.Contains(t, got, "most recent")
	assert.Contains(t, got, "Customer: current question")
	assert.True(t, strings.HasSuffix(got, "Assistant:"))
	assert.Equal(t, transcriptMaxTurns+1, strings.Count(got, "Customer:"))
}
