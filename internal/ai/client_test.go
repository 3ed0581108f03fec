package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pdiddy/research-agent/pkg/types"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(handler)
	old := anthropicAPIURL
	anthropicAPIURL = ts.URL
	t.Cleanup(func() {
		anthropicAPIURL = old
		ts.Close()
	})
	return ts
}

func claudeReply(text string) string {
	resp := map[string]any{
		"content": []map[string]string{{"type": "text", "text": text}},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestCompleteJSON(t *testing.T) {
	newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "test-key" {
			t.Errorf("x-api-key = %q, want test-key", got)
		}
		if got := r.Header.Get("anthropic-version"); got != "2023-06-01" {
			t.Errorf("anthropic-version = %q", got)
		}

		var req claudeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.System != "You are a reviewer." {
			t.Errorf("system = %q", req.System)
		}
		if req.Temperature != 0.3 {
			t.Errorf("temperature = %v", req.Temperature)
		}

		fmt.Fprint(w, claudeReply(`Here is the result:`+"\n"+`{"score": 85}`))
	})

	client := NewClaudeClient(types.AIConfig{Model: "claude-test", APIKey: "test-key"}, nil)
	out, err := client.CompleteJSON(context.Background(), "You are a reviewer.", "Score this.", 0.3)
	if err != nil {
		t.Fatal(err)
	}

	var parsed struct {
		Score int `json:"score"`
	}
	if err := json.Unmarshal(out, &parsed); err != nil {
		t.Fatal(err)
	}
	if parsed.Score != 85 {
		t.Errorf("score = %d, want 85", parsed.Score)
	}
}

func TestCompleteJSONAPIError(t *testing.T) {
	newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "overloaded"}`, http.StatusServiceUnavailable)
	})

	client := NewClaudeClient(types.AIConfig{Model: "claude-test"}, nil)
	if _, err := client.CompleteJSON(context.Background(), "", "prompt", 0); err == nil {
		t.Fatal("expected error on 503")
	}
}

func TestCompleteJSONNoTextBlock(t *testing.T) {
	newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"content": []}`)
	})

	client := NewClaudeClient(types.AIConfig{Model: "claude-test"}, nil)
	if _, err := client.CompleteJSON(context.Background(), "", "prompt", 0); err == nil {
		t.Fatal("expected error on empty content")
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantErr bool
	}{
		{name: "bare object", text: `{"a": 1}`, want: `{"a": 1}`},
		{name: "object in prose", text: "Sure, here you go:\n```json\n{\"a\": 1}\n```\nLet me know!", want: `{"a": 1}`},
		{name: "array in prose", text: `The list: [1, 2, 3] as requested.`, want: `[1, 2, 3]`},
		{name: "array before object", text: `[{"a": 1}] trailing`, want: `[{"a": 1}]`},
		{name: "no json", text: "I cannot answer that.", wantErr: true},
		{name: "unterminated", text: `{"a": 1`, wantErr: true},
		{name: "invalid block", text: `{not json}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.text)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
