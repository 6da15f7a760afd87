package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/tutordesk/tuition-api/internal/models"
	"github.com/tutordesk/tuition-api/pkg/config"
)

// GeminiClient extracts structured cancellation/reschedule intents from
// free-text notices through the Gemini generateContent API.
type GeminiClient struct {
	httpClient *http.Client
	apiKey     string
	model      string
	endpoint   string
}

// NewGeminiClient constructs a client from config. The per-call timeout
// doubles as the transport timeout so a hung call cannot stall the
// sequential reconcile batch indefinitely.
func NewGeminiClient(cfg config.GeminiConfig) *GeminiClient {
	return &GeminiClient{
		httpClient: &http.Client{Timeout: cfg.CallTimeout},
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
	}
}

// Configured reports whether an API key is present. An unconfigured
// client must refuse a batch up front instead of failing per notice.
func (c *GeminiClient) Configured() bool {
	return c.apiKey != ""
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

var analysisSchema = json.RawMessage(`{
  "type": "OBJECT",
  "properties": {
    "relatedStudentName": {"type": "STRING", "nullable": true},
    "targetDate": {"type": "STRING", "nullable": true},
    "action": {"type": "STRING", "enum": ["CANCEL", "RESCHEDULE", "CONFIRM", "UNKNOWN"]},
    "reason": {"type": "STRING", "nullable": true}
  }
}`)

// Analyze submits one notice and returns the extracted intent. Any
// transport, HTTP, or parse failure is returned as an error; the caller
// owns the UNKNOWN fallback contract.
func (c *GeminiClient) Analyze(ctx context.Context, email models.Email) (*models.EmailAnalysisResult, error) {
	prompt := fmt.Sprintf(`Bạn là một trợ lý AI giúp quản lý lịch dạy học.
Hãy phân tích nội dung email dưới đây để xác định xem học sinh có xin nghỉ, xin đổi lịch hay không.

Email Subject: %s
Email Content: %s
Email Date: %s

Trích xuất các thông tin sau dưới dạng JSON:
1. relatedStudentName: Tên học sinh được nhắc đến (nếu có).
2. targetDate: Ngày buổi học bị ảnh hưởng (ISO string YYYY-MM-DD). Nếu email nói "hôm qua", "ngày mai", hãy tính dựa trên Email Date.
3. action: 'CANCEL' (nghỉ học), 'RESCHEDULE' (đổi lịch), 'CONFIRM' (xác nhận), hoặc 'UNKNOWN'.
4. reason: Lý do ngắn gọn (nếu có).`,
		email.Subject, email.Snippet, email.Date.Format("2006-01-02T15:04:05Z07:00"))

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   analysisSchema,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.endpoint, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call analyzer: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analyzer returned status %d", resp.StatusCode)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty analyzer response")
	}

	var result models.EmailAnalysisResult
	if err := json.Unmarshal([]byte(decoded.Candidates[0].Content.Parts[0].Text), &result); err != nil {
		return nil, fmt.Errorf("parse analysis payload: %w", err)
	}
	switch result.Action {
	case models.NoticeActionCancel, models.NoticeActionReschedule, models.NoticeActionConfirm, models.NoticeActionUnknown:
	default:
		return nil, fmt.Errorf("unexpected action %q", result.Action)
	}
	return &result, nil
}
