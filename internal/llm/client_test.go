package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(endpoint string) LLMConfig {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Endpoint = endpoint
	return cfg
}

// newOllamaServer answers every generate call with response and records the
// decoded request bodies.
func newOllamaServer(t *testing.T, response string, got *[]ollamaRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if got != nil {
			*got = append(*got, req)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ollamaResponse{Model: req.Model, Response: response})
	}))
	t.Cleanup(srv.Close)
	return srv
}

// slowHandler outlives short client timeouts but never blocks server shutdown.
func slowHandler(d time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(d):
			w.WriteHeader(http.StatusOK)
		case <-r.Context().Done():
		}
	}
}

func TestOllamaClient_Generate_EnrichRequestShape(t *testing.T) {
	var got []ollamaRequest
	blocks := `{"blocks":[{"id":1,"title":"Repaso de derivadas","description":"Ejercicios 1-10"}]}`
	srv := newOllamaServer(t, blocks, &got)

	client := NewOllamaClient(testConfig(srv.URL), NoopObserver{})
	resp, err := client.Generate(context.Background(), GenerateRequest{
		Task:         TaskEnrich,
		SystemPrompt: "Write study block titles.",
		UserPrompt:   `Study blocks: [{"id":1,"obligation_title":"Parcial Cálculo"}]`,
		JSON:         true,
	})

	require.NoError(t, err)
	assert.Equal(t, blocks, resp.Text)
	assert.Equal(t, defaultOllamaModel, resp.Model)

	require.Len(t, got, 1)
	req := got[0]
	assert.Equal(t, "json", req.Format)
	assert.False(t, req.Stream)
	assert.Equal(t, "Write study block titles.", req.System)
	assert.Contains(t, req.Prompt, "Parcial Cálculo")
	assert.InDelta(t, 0.4, req.Options.Temperature, 0.001)
	assert.Equal(t, 2048, req.Options.NumPredict)
}

func TestOllamaClient_Generate_OverridesAndPlainText(t *testing.T) {
	var got []ollamaRequest
	srv := newOllamaServer(t, "ok", &got)
	temp, maxTok := 0.0, 64

	client := NewOllamaClient(testConfig(srv.URL), NoopObserver{})
	_, err := client.Generate(context.Background(), GenerateRequest{
		Task:        TaskExtract,
		UserPrompt:  "Syllabus",
		Temperature: &temp,
		MaxTokens:   &maxTok,
	})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].Format)
	assert.Zero(t, got[0].Options.Temperature)
	assert.Equal(t, 64, got[0].Options.NumPredict)
}

func TestOllamaClient_Generate_Timeout(t *testing.T) {
	srv := httptest.NewServer(slowHandler(2 * time.Second))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Tasks[TaskEnrich] = TaskConfig{Temperature: 0.4, MaxTokens: 512, TimeoutMs: 50}

	_, err := NewOllamaClient(cfg, NoopObserver{}).Generate(context.Background(), GenerateRequest{Task: TaskEnrich})

	assert.ErrorIs(t, err, ErrTimeout)
}

func TestOllamaClient_Generate_Unavailable(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.Tasks[TaskEnrich] = TaskConfig{TimeoutMs: 1000}

	_, err := NewOllamaClient(cfg, NoopObserver{}).Generate(context.Background(), GenerateRequest{Task: TaskEnrich})

	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestOllamaClient_Generate_NoRetriesByDefault(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewOllamaClient(testConfig(srv.URL), NoopObserver{}).Generate(context.Background(), GenerateRequest{Task: TaskEnrich})

	assert.ErrorIs(t, err, ErrRetryExhausted)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestOllamaClient_Generate_RetriesServerErrors(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			http.Error(w, "model loading", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(ollamaResponse{Model: "llama3.2", Response: `{"blocks":[]}`})
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 2

	resp, err := NewOllamaClient(cfg, NoopObserver{}).Generate(context.Background(), GenerateRequest{Task: TaskEnrich})

	require.NoError(t, err)
	assert.Equal(t, `{"blocks":[]}`, resp.Text)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestOllamaClient_Generate_ClientErrorNotRetried(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		http.Error(w, `model "nope" not found`, http.StatusNotFound)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 3

	_, err := NewOllamaClient(cfg, NoopObserver{}).Generate(context.Background(), GenerateRequest{Task: TaskEnrich})

	require.ErrorIs(t, err, ErrRetryExhausted)
	assert.Contains(t, err.Error(), "status 404")
	assert.Equal(t, int32(1), attempts.Load())
}

func TestOllamaClient_Generate_UndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>proxy error</html>"))
	}))
	defer srv.Close()

	var captured LLMCallEvent
	obs := &captureObserver{fn: func(e LLMCallEvent) { captured = e }}

	_, err := NewOllamaClient(testConfig(srv.URL), obs).Generate(context.Background(), GenerateRequest{Task: TaskEnrich})

	assert.ErrorIs(t, err, ErrInvalidOutput)
	assert.Equal(t, "INVALID_OUTPUT", captured.ErrorCode)
}

func TestOllamaClient_Available(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	assert.True(t, NewOllamaClient(testConfig(srv.URL), NoopObserver{}).Available(context.Background()))
	assert.False(t, NewOllamaClient(testConfig("http://127.0.0.1:1"), NoopObserver{}).Available(context.Background()))
}

func TestOllamaClient_ObserverEvents(t *testing.T) {
	srv := newOllamaServer(t, "ok", nil)

	var captured LLMCallEvent
	obs := &captureObserver{fn: func(e LLMCallEvent) { captured = e }}

	_, err := NewOllamaClient(testConfig(srv.URL), obs).Generate(context.Background(), GenerateRequest{Task: TaskExtract})

	require.NoError(t, err)
	assert.Equal(t, TaskExtract, captured.Task)
	assert.Equal(t, defaultOllamaModel, captured.Model)
	assert.True(t, captured.Success)
	assert.Empty(t, captured.ErrorCode)
}

func TestOllamaClient_ObserverTimeoutErrorCode(t *testing.T) {
	srv := httptest.NewServer(slowHandler(2 * time.Second))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Tasks[TaskEnrich] = TaskConfig{TimeoutMs: 50}

	var captured LLMCallEvent
	obs := &captureObserver{fn: func(e LLMCallEvent) { captured = e }}
	_, err := NewOllamaClient(cfg, obs).Generate(context.Background(), GenerateRequest{Task: TaskEnrich})

	assert.ErrorIs(t, err, ErrTimeout)
	assert.False(t, captured.Success)
	assert.Equal(t, "TIMEOUT", captured.ErrorCode)
}

type captureObserver struct {
	fn func(LLMCallEvent)
}

func (o *captureObserver) OnCallComplete(e LLMCallEvent) { o.fn(e) }
