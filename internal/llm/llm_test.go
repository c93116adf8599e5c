package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// MockProvider records calls and returns a canned response.
type MockProvider struct {
	mu       sync.Mutex
	Calls    []CompletionRequest
	Response *CompletionResponse
	Err      error
}

func NewMockProvider() *MockProvider {
	return &MockProvider{
		Response: &CompletionResponse{Content: "mock notes", InputTokens: 10, OutputTokens: 20, Model: "mock-model"},
	}
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) Complete(_ context.Context, req CompletionRequest) (*CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Response, nil
}

func TestFactoryMissingAPIKeys(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	for _, p := range []string{"google", "openai"} {
		if _, err := NewProvider(p, "some-model"); err == nil {
			t.Errorf("expected error for provider %q with missing API key", p)
		}
	}
}

func TestFactoryUnknownProvider(t *testing.T) {
	if _, err := NewProvider("anthropic", "x"); err == nil {
		t.Error("expected error for unsupported provider")
	}
}

func TestFactoryGoogleAcceptsEitherKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "g-key")
	p, err := NewProvider("google", "gemini-1.5-flash")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gp, ok := p.(*GeminiProvider)
	if !ok {
		t.Fatalf("expected *GeminiProvider, got %T", p)
	}
	if gp.apiKey != "g-key" {
		t.Errorf("apiKey = %q", gp.apiKey)
	}

	t.Setenv("GEMINI_API_KEY", "gem-key")
	p, _ = NewProvider("google", "gemini-1.5-flash")
	if p.(*GeminiProvider).apiKey != "gem-key" {
		t.Error("GEMINI_API_KEY should take precedence")
	}
}

func TestFactoryOpenAI(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	p, err := NewProvider("openai", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() != "openai" {
		t.Errorf("Name = %q", p.Name())
	}
}

func TestFactoryOllamaDefaultHost(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")
	p, err := NewProvider("ollama", "llama3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	op, ok := p.(*OllamaProvider)
	if !ok {
		t.Fatal("expected *OllamaProvider")
	}
	if op.baseURL != DefaultOllamaHost {
		t.Errorf("baseURL = %q", op.baseURL)
	}
}

func TestGeminiComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/gemini-1.5-flash:generateContent" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "k" {
			t.Errorf("missing api key header")
		}
		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if len(req.Contents) != 1 || req.Contents[0].Parts[0].Text != "prompt" {
			t.Errorf("contents = %+v", req.Contents)
		}
		io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"## Notes"},{"text":"\n- a"}]},"finishReason":"STOP"}],"usageMetadata":{"promptTokenCount":7,"candidatesTokenCount":3}}`)
	}))
	defer srv.Close()

	p := NewGeminiProvider("k", "gemini-1.5-flash")
	p.baseURL = srv.URL
	p.client = srv.Client()

	resp, err := p.Complete(context.Background(), UserPrompt("prompt"))
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "## Notes\n- a" {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.InputTokens != 7 || resp.OutputTokens != 3 {
		t.Errorf("tokens = %d/%d", resp.InputTokens, resp.OutputTokens)
	}
}

func TestGeminiAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`)
	}))
	defer srv.Close()

	p := NewGeminiProvider("bad", "gemini-1.5-flash")
	p.baseURL = srv.URL

	if _, err := p.Complete(context.Background(), UserPrompt("x")); err == nil {
		t.Fatal("expected error")
	}
}

func TestOllamaComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %s", r.URL.Path)
		}
		io.WriteString(w, `{"message":{"role":"assistant","content":"local notes"},"model":"llama3","done_reason":"stop","prompt_eval_count":5,"eval_count":2}`)
	}))
	defer srv.Close()

	resp, err := NewOllamaProvider(srv.URL+"/", "llama3").Complete(context.Background(), UserPrompt("x"))
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "local notes" || resp.FinishReason != "stop" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestRateLimiterPassesThrough(t *testing.T) {
	mock := NewMockProvider()
	rl := NewRateLimitedProvider(mock, 60)

	resp, err := rl.Complete(context.Background(), UserPrompt("hello"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "mock notes" {
		t.Errorf("Content = %q", resp.Content)
	}
	if rl.Name() != "mock" {
		t.Errorf("Name = %q", rl.Name())
	}
}

func TestRateLimiterLimitsRequests(t *testing.T) {
	rl := NewRateLimitedProvider(NewMockProvider(), 2)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	for i := 0; i < 2; i++ {
		if _, err := rl.Complete(ctx, UserPrompt("hi")); err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
	}
	if _, err := rl.Complete(ctx, UserPrompt("hi")); err == nil {
		t.Error("expected third request to fail within the deadline")
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	mock := NewMockProvider()
	if NewRateLimitedProvider(mock, 0) != Provider(mock) {
		t.Error("rpm 0 should return the provider unchanged")
	}
}

func TestEstimateCost(t *testing.T) {
	cost := EstimateCost("gpt-4o", 1_000_000, 1_000_000)
	if cost < 12.49 || cost > 12.51 {
		t.Errorf("gpt-4o cost = %f, want 12.50", cost)
	}
	if EstimateCost("llama3", 1000, 1000) != 0 {
		t.Error("unknown model should cost 0")
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"hi", 1},
		{"hello world!!", 3},
	}
	for _, tt := range tests {
		if got := EstimateTokens(tt.text); got != tt.want {
			t.Errorf("EstimateTokens(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
