package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestExtractKeyTopics(t *testing.T) {
	content := "# Quantum Computing\n\nQuantum Computing relies on Superposition. " +
		"Alan Turing laid the groundwork. Quantum Computing again."

	topics := ExtractKeyTopics(content)

	if len(topics) == 0 || len(topics) > 5 {
		t.Fatalf("muốn 1..5 chủ đề, got %d: %v", len(topics), topics)
	}
	// Header markdown đứng trước, trùng lặp bị loại
	if topics[0] != "Quantum Computing" {
		t.Errorf("chủ đề đầu phải là header, got %q", topics[0])
	}
	seen := map[string]bool{}
	for _, topic := range topics {
		if seen[topic] {
			t.Errorf("chủ đề trùng lặp: %q", topic)
		}
		seen[topic] = true
	}
}

func TestExtractKeyTopicsEmptyContent(t *testing.T) {
	if topics := ExtractKeyTopics("toàn chữ thường không có header"); len(topics) != 0 {
		t.Errorf("không có chủ đề nào để rút, got %v", topics)
	}
}

func TestSupplementContentSkipsWhenSufficient(t *testing.T) {
	// 100 từ với mục tiêu 150 -> 100 >= 75, không cần bổ sung
	content := strings.Repeat("word ", 100)

	result := SupplementContent(context.Background(), nil, content, 150)

	if result.WasSupplemented {
		t.Error("nội dung đủ dày không được bổ sung")
	}
	if result.Content != content {
		t.Error("nội dung đủ phải trả nguyên văn")
	}
	if result.Warning != "" {
		t.Errorf("không có warning khi nội dung đủ, got %q", result.Warning)
	}
}

func TestSupplementContentNoTopics(t *testing.T) {
	// 50 từ với mục tiêu 150 -> thiếu, nhưng không rút được chủ đề nào
	content := strings.Repeat("chữ ", 50)

	result := SupplementContent(context.Background(), nil, content, 150)

	if result.WasSupplemented {
		t.Error("không có chủ đề thì không được bổ sung")
	}
	if result.Warning != "Could not identify topics for supplementation" {
		t.Errorf("warning sai: %q", result.Warning)
	}
}

// roundTripperFunc cho phép trỏ TavilyClient vào server giả
type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestSupplementContentAppendsSearchResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req tavilySearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("request Tavily không decode được: %v", err)
		}
		if req.MaxResults != 2 || req.SearchDepth != "basic" {
			t.Errorf("tham số search sai: %+v", req)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"title": "t", "url": "u", "content": "web content about " + req.Query, "score": 0.9},
			},
		})
	}))
	defer server.Close()

	client := &TavilyClient{
		apiKey: "test-key",
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
				redirected, _ := http.NewRequest(r.Method, server.URL, r.Body)
				redirected.Header = r.Header
				return http.DefaultTransport.RoundTrip(redirected)
			}),
		},
	}

	// 6 từ với mục tiêu 150 -> thiếu nặng, có header làm chủ đề
	content := "# Photosynthesis\n\nPlants convert light into energy"

	result := SupplementContent(context.Background(), client, content, 150)

	if !result.WasSupplemented {
		t.Fatalf("nội dung mỏng phải được bổ sung, warning=%q", result.Warning)
	}
	if !strings.Contains(result.Content, "--- Additional Context ---") {
		t.Errorf("thiếu marker ngăn cách: %q", result.Content)
	}
	if !strings.HasPrefix(result.Content, content) {
		t.Error("nội dung gốc phải đứng trước phần bổ sung")
	}
	if !strings.Contains(result.Warning, "Photosynthesis") {
		t.Errorf("warning phải nêu các chủ đề đã search: %q", result.Warning)
	}
}

func TestSearchWebWithoutAPIKey(t *testing.T) {
	client := NewTavilyClient("")
	if got := client.SearchWeb(context.Background(), "anything", 3); got != nil {
		t.Errorf("thiếu API key phải trả nil, got %v", got)
	}
}
