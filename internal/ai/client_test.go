package ai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/predictdesk/predictdesk/internal/model"
)

func chatCompletion(content string) string {
	return `{"choices":[{"message":{"role":"assistant","content":` + jsonString(content) + `}}]}`
}

func jsonString(s string) string {
	out := []byte{'"'}
	for _, r := range s {
		switch r {
		case '"':
			out = append(out, '\\', '"')
		case '\\':
			out = append(out, '\\', '\\')
		case '\n':
			out = append(out, '\\', 'n')
		default:
			out = append(out, []byte(string(r))...)
		}
	}
	return string(append(out, '"'))
}

func testClient(endpoint string) *Client {
	return NewClient(ClientConfig{
		Endpoint:          endpoint,
		APIKey:            "test-key",
		Model:             "test-model",
		Timeout:           2 * time.Second,
		RequestsPerMinute: 6000,
	})
}

func testProfile() *model.AgentProfile {
	return &model.AgentProfile{ID: "GROK_4", DisplayName: "Grok 4", Risk: model.RiskHigh}
}

func testMarket() model.Market {
	return model.Market{
		ID:                 "btc-150k-2026",
		Question:           "Will bitcoin reach $150k in 2026?",
		Category:           "Crypto",
		CurrentProbability: 0.48,
	}
}

func TestClient_Decide_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatCompletion(`{"side":"YES","confidence":0.72,"reasoning":["Strong volume and momentum."]}`)))
	}))
	defer server.Close()

	decision, err := testClient(server.URL).Decide(context.Background(), testProfile(), testMarket(), nil)
	require.NoError(t, err)

	assert.Equal(t, model.SideYes, decision.Side)
	assert.InDelta(t, 0.72, decision.Confidence, 1e-9)
	assert.NotEmpty(t, decision.Reasoning)
}

func TestClient_Decide_MarkdownWrappedJSON(t *testing.T) {
	content := "```json\n{\"side\":\"NO\",\"confidence\":0.6,\"reasoning\":[\"Priced in.\"]}\n```"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(chatCompletion(content)))
	}))
	defer server.Close()

	decision, err := testClient(server.URL).Decide(context.Background(), testProfile(), testMarket(), nil)
	require.NoError(t, err)
	assert.Equal(t, model.SideNo, decision.Side)
}

func TestClient_Decide_MissingAPIKey(t *testing.T) {
	var called atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		called.Store(true)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{Endpoint: server.URL})
	_, err := client.Decide(context.Background(), testProfile(), testMarket(), nil)

	require.Error(t, err)
	assert.Equal(t, FailureConfiguration, ClassifyError(err))
	assert.False(t, called.Load(), "Missing credentials must never reach the network")

	var ve *VendorError
	require.True(t, errors.As(err, &ve))
	assert.True(t, ve.Quiet())
}

func TestClient_Decide_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"internal failure"}}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := testClient(server.URL).Decide(context.Background(), testProfile(), testMarket(), nil)
	require.Error(t, err)
	assert.Equal(t, FailureNetwork, ClassifyError(err))
}

func TestClient_Decide_AccessDenied(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"You must purchase a plan to use this model"}}`, http.StatusPaymentRequired)
	}))
	defer server.Close()

	_, err := testClient(server.URL).Decide(context.Background(), testProfile(), testMarket(), nil)
	require.Error(t, err)

	var ve *VendorError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, FailureAccessDenied, ve.Class)
	assert.True(t, ve.Quiet(), "Access denied is expected, not an incident")
	assert.Contains(t, ve.Message, "purchase")
}

func TestClient_Decide_Refusal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(chatCompletion("I cannot provide financial advice on prediction markets.")))
	}))
	defer server.Close()

	decision, err := testClient(server.URL).Decide(context.Background(), testProfile(), testMarket(), nil)
	require.Error(t, err, "Refusal text must never be accepted as a decision")
	assert.Nil(t, decision)
	assert.Equal(t, FailureRefusal, ClassifyError(err))
}

func TestClient_Decide_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(chatCompletion("YES, probably around 70% confident")))
	}))
	defer server.Close()

	_, err := testClient(server.URL).Decide(context.Background(), testProfile(), testMarket(), nil)
	require.Error(t, err)
	assert.Equal(t, FailureParse, ClassifyError(err))
}

func TestParseDecision_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid side", `{"side":"MAYBE","confidence":0.5,"reasoning":["x"]}`},
		{"confidence too high", `{"side":"YES","confidence":1.4,"reasoning":["x"]}`},
		{"negative confidence", `{"side":"YES","confidence":-0.1,"reasoning":["x"]}`},
		{"empty reasoning", `{"side":"YES","confidence":0.5,"reasoning":[]}`},
		{"not json", `sure thing`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseDecision(tt.content)
			assert.Error(t, err)
		})
	}
}

func TestIsRefusal(t *testing.T) {
	refusals := []string{
		"I cannot help with that request.",
		"Sorry, I can't make predictions.",
		"As an AI, I am unable to give trading advice.",
	}
	for _, content := range refusals {
		assert.True(t, IsRefusal(content), "Expected refusal: %q", content)
	}

	assert.False(t, IsRefusal(`{"side":"YES","confidence":0.7,"reasoning":["momentum"]}`))
}

func TestClassifyError(t *testing.T) {
	assert.Equal(t, FailureTimeout, ClassifyError(context.DeadlineExceeded))
	assert.Equal(t, FailureUnknown, ClassifyError(errors.New("something odd")))
	assert.Equal(t, FailureRefusal, ClassifyError(newVendorError(FailureRefusal, "declined", nil)))
}

func TestClassifyHTTPFailure(t *testing.T) {
	assert.Equal(t, FailureAccessDenied, classifyHTTPFailure(402, ""))
	assert.Equal(t, FailureAccessDenied, classifyHTTPFailure(403, ""))
	assert.Equal(t, FailureAccessDenied, classifyHTTPFailure(429, "insufficient_quota for this key"))
	assert.Equal(t, FailureNetwork, classifyHTTPFailure(500, "internal error"))
}

func TestExtractJSONFromMarkdown(t *testing.T) {
	raw := `{"side":"YES"}`

	assert.Equal(t, raw, extractJSONFromMarkdown(raw))
	assert.Equal(t, raw, extractJSONFromMarkdown("```json\n"+raw+"\n```"))
	assert.Equal(t, raw, extractJSONFromMarkdown("```\n"+raw+"\n```"))
}
