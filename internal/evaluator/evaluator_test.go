package evaluator

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRoles(t *testing.T) {
	roles := DefaultRoles()
	require.Len(t, roles, 3)

	kinds := []Kind{roles[0].Kind, roles[1].Kind, roles[2].Kind}
	assert.ElementsMatch(t, []Kind{KindRomance, KindActionHero, KindClassic}, kinds)

	for _, r := range roles {
		assert.NotEmpty(t, r.Name)
		assert.Contains(t, r.Instructions, "ONLY the movie ID")
	}
	require.NotNil(t, roles[0].Temperature)
	assert.InDelta(t, 0.4, *roles[0].Temperature, 1e-6)
	assert.Equal(t, 4096, roles[0].MaxTokens)
}

func TestLoadRolesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
roles:
  - kind: classic
    temperature: 0.1
    instructions: "Pick a pre-2010 film. Answer with the ID only."
  - kind: action_hero
    disabled: true
`), 0o644))

	roles, err := LoadRoles(path)
	require.NoError(t, err)
	require.Len(t, roles, 2)

	assert.Equal(t, KindRomance, roles[0].Kind)
	assert.Equal(t, KindClassic, roles[1].Kind)
	assert.Equal(t, "Pick a pre-2010 film. Answer with the ID only.", roles[1].Instructions)
	require.NotNil(t, roles[1].Temperature)
	assert.InDelta(t, 0.1, *roles[1].Temperature, 1e-6)
}

func TestLoadRolesRejectsUnknownKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("roles:\n  - kind: horror\n"), 0o644))

	_, err := LoadRoles(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "horror")
}

func TestLoadRolesEmptyPath(t *testing.T) {
	roles, err := LoadRoles("")
	require.NoError(t, err)
	assert.Equal(t, DefaultRoles(), roles)
}

func TestChatEndpoint(t *testing.T) {
	assert.Equal(t, defaultOpenAIEndpoint, chatEndpoint(""))
	assert.Equal(t, "http://llm:8000/v1/chat/completions", chatEndpoint("http://llm:8000"))
	assert.Equal(t, "http://llm:8000/v1/chat/completions", chatEndpoint("http://llm:8000/v1/"))
	assert.Equal(t, "http://llm/chat/completions", chatEndpoint("http://llm/chat/completions"))
}

func TestOpenAIEvaluate(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"3"}}]}`))
	}))
	defer srv.Close()

	role := DefaultRoles()[0]
	ev := NewOpenAI("secret", "test-model", srv.URL)

	out, err := ev.Evaluate(context.Background(), role, "catalog text")
	require.NoError(t, err)
	assert.Equal(t, "3", out)

	assert.Equal(t, "test-model", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, role.Instructions, got.Messages[0].Content)
	assert.Equal(t, "catalog text", got.Messages[1].Content)
	require.NotNil(t, got.Temperature)
	assert.Equal(t, 4096, got.MaxTokens)
}

func TestOpenAIProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewOpenAI("", "m", srv.URL).Evaluate(context.Background(), DefaultRoles()[1], "p")
	require.Error(t, err)
	assert.True(t, IsProviderError(err))

	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, http.StatusTooManyRequests, pe.StatusCode)
}

func TestIsProviderError(t *testing.T) {
	assert.True(t, IsProviderError(&ProviderError{Provider: "x", Msg: "y"}))
	assert.False(t, IsProviderError(errors.New("plain")))
}

func TestNewNoneProviderFails(t *testing.T) {
	ev, err := New(context.Background(), Options{Provider: "none"})
	require.NoError(t, err)

	_, err = ev.Evaluate(context.Background(), DefaultRoles()[0], "p")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(context.Background(), Options{Provider: "llama"})
	assert.Error(t, err)
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	ev := WithBreaker("test-open", Func(func(context.Context, Role, string) (string, error) {
		calls++
		return "", boom
	}))

	for i := 0; i < 10; i++ {
		_, err := ev.Evaluate(context.Background(), Role{}, "p")
		require.ErrorIs(t, err, boom)
	}

	_, err := ev.Evaluate(context.Background(), Role{}, "p")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 10, calls)
}

func TestBreakerIgnoresCancellation(t *testing.T) {
	ev := WithBreaker("test-cancel", Func(func(ctx context.Context, _ Role, _ string) (string, error) {
		return "", ctx.Err()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 15; i++ {
		_, err := ev.Evaluate(ctx, Role{}, "p")
		require.ErrorIs(t, err, context.Canceled)
	}
}
