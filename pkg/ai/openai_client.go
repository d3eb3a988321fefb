package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type openAI struct {
	endpoint string
	key      string
	model    string
	httpc    *http.Client
}

// NewOpenAI classifies images through an OpenAI-compatible chat completions
// endpoint that accepts image_url content parts.
func NewOpenAI(endpoint, key, model string) Client {
	return &openAI{
		endpoint: strings.TrimRight(endpoint, "/"),
		key:      key,
		model:    model,
		httpc:    &http.Client{Timeout: 25 * time.Second},
	}
}

func (c *openAI) ClassifyCropImage(ctx context.Context, image []byte, contentType, crop, stage string) (Diagnosis, error) {
	if contentType == "" {
		contentType = "image/jpeg"
	}
	dataURI := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(image)
	reqBody := map[string]any{
		"model": c.model,
		"messages": []map[string]any{
			{"role": "system", "content": "You are an agronomist. Reply ONLY valid JSON."},
			{"role": "user", "content": []map[string]any{
				{"type": "text", "text": renderClassifyPrompt(crop, stage)},
				{"type": "image_url", "image_url": map[string]string{"url": dataURI}},
			}},
		},
		"temperature": 0.1,
	}
	b, err := json.Marshal(reqBody)
	if err != nil {
		return Diagnosis{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/chat/completions", bytes.NewReader(b))
	if err != nil {
		return Diagnosis{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return Diagnosis{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Diagnosis{}, fmt.Errorf("classify: status %d", resp.StatusCode)
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Diagnosis{}, err
	}
	if len(out.Choices) == 0 {
		return Diagnosis{}, fmt.Errorf("no choices")
	}
	content := strings.TrimSpace(out.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.Trim(content, "`\n ")

	var d Diagnosis
	if err := json.Unmarshal([]byte(content), &d); err != nil {
		return Diagnosis{}, fmt.Errorf("parse classification: %v / raw: %s", err, content)
	}
	d.Label = strings.ToLower(strings.TrimSpace(d.Label))
	if d.Label == "" {
		d.Label = "unknown"
	}
	if d.Confidence < 0 {
		d.Confidence = 0
	}
	if d.Confidence > 1 {
		d.Confidence = 1
	}
	return d, nil
}

func renderClassifyPrompt(crop, stage string) string {
	return fmt.Sprintf(`Classify the health of this %s plant at the %s growth stage.
Answer as JSON: {"label":"healthy|<disease or pest name>","confidence":0.0-1.0,"recommendations":["..."]}
Use at most 3 short, actionable recommendations.`, crop, stage)
}
