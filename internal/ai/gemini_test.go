package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutordesk/tuition-api/internal/models"
	"github.com/tutordesk/tuition-api/pkg/config"
)

func analyzerServer(t *testing.T, status int, payload string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.RawQuery, "key=test-key")

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req, "contents")

		w.WriteHeader(status)
		_, _ = w.Write([]byte(payload))
	}))
}

func newTestClient(url string) *GeminiClient {
	return NewGeminiClient(config.GeminiConfig{
		APIKey:      "test-key",
		Model:       "gemini-2.5-flash-latest",
		Endpoint:    url,
		CallTimeout: 2 * time.Second,
	})
}

func TestGeminiAnalyzeParsesIntent(t *testing.T) {
	inner := `{"relatedStudentName":"Bảo Ngọc","targetDate":"2025-10-14","action":"CANCEL","reason":"bị sốt"}`
	body, _ := json.Marshal(map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{"parts": []map[string]string{{"text": inner}}}},
		},
	})
	srv := analyzerServer(t, http.StatusOK, string(body))
	defer srv.Close()

	client := newTestClient(srv.URL)
	result, err := client.Analyze(context.Background(), models.Email{
		Subject: "Xin phép nghỉ học - Bảo Ngọc",
		Snippet: "Bảo Ngọc bị sốt nên xin nghỉ buổi này.",
		Date:    time.Date(2025, 10, 15, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NotNil(t, result.RelatedStudentName)
	assert.Equal(t, "Bảo Ngọc", *result.RelatedStudentName)
	require.NotNil(t, result.TargetDate)
	assert.Equal(t, "2025-10-14", *result.TargetDate)
	assert.Equal(t, models.NoticeActionCancel, result.Action)
}

func TestGeminiAnalyzeRejectsHTTPFailure(t *testing.T) {
	srv := analyzerServer(t, http.StatusInternalServerError, `{}`)
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Analyze(context.Background(), models.Email{Subject: "x"})
	assert.Error(t, err)
}

func TestGeminiAnalyzeRejectsEmptyCandidates(t *testing.T) {
	srv := analyzerServer(t, http.StatusOK, `{"candidates":[]}`)
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Analyze(context.Background(), models.Email{Subject: "x"})
	assert.Error(t, err)
}

func TestGeminiAnalyzeRejectsUnknownAction(t *testing.T) {
	inner := `{"relatedStudentName":null,"targetDate":null,"action":"POSTPONE"}`
	body, _ := json.Marshal(map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{"parts": []map[string]string{{"text": inner}}}},
		},
	})
	srv := analyzerServer(t, http.StatusOK, string(body))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Analyze(context.Background(), models.Email{Subject: "x"})
	assert.Error(t, err)
}

func TestGeminiConfigured(t *testing.T) {
	assert.True(t, newTestClient("http://localhost").Configured())
	assert.False(t, NewGeminiClient(config.GeminiConfig{}).Configured())
}
