package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatReply(t *testing.T, content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "vision-model", body["model"])
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"content": content}}},
		})
	}
}

func TestOpenAIClassify(t *testing.T) {
	srv := httptest.NewServer(chatReply(t, "```json\n{\"label\":\" Leaf Rust \",\"confidence\":1.4,\"recommendations\":[\"spray\"]}\n```"))
	defer srv.Close()

	d, err := NewOpenAI(srv.URL, "secret", "vision-model").ClassifyCropImage(context.Background(), []byte{1, 2}, "image/png", "wheat", "flowering")
	require.NoError(t, err)
	assert.Equal(t, "leaf rust", d.Label)
	assert.Equal(t, 1.0, d.Confidence)
	assert.Equal(t, []string{"spray"}, d.Recommendations)
}

func TestOpenAIClassifyBadJSON(t *testing.T) {
	srv := httptest.NewServer(chatReply(t, "it looks fine"))
	defer srv.Close()

	_, err := NewOpenAI(srv.URL, "secret", "vision-model").ClassifyCropImage(context.Background(), []byte{1}, "", "wheat", "flowering")
	assert.Error(t, err)
}

func TestMock(t *testing.T) {
	d, err := NewMock().ClassifyCropImage(context.Background(), []byte{1}, "image/jpeg", "rice", "seedling")
	require.NoError(t, err)
	assert.Equal(t, "healthy", d.Label)

	_, err = NewMock().ClassifyCropImage(context.Background(), nil, "", "rice", "seedling")
	assert.Error(t, err)
}
