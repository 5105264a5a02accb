package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"
)

const tavilyEndpoint = "https://api.tavily.com/search"

// TavilyClient gọi Tavily Search API để bổ sung ngữ cảnh từ web
type TavilyClient struct {
	apiKey     string
	httpClient *http.Client
}

func NewTavilyClient(apiKey string) *TavilyClient {
	return &TavilyClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type tavilySearchRequest struct {
	APIKey            string `json:"api_key"`
	Query             string `json:"query"`
	MaxResults        int    `json:"max_results"`
	SearchDepth       string `json:"search_depth"`
	IncludeAnswer     bool   `json:"include_answer"`
	IncludeRawContent bool   `json:"include_raw_content"`
}

type tavilySearchResponse struct {
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// SearchWeb tìm kiếm và trả về phần content của từng kết quả.
// Mọi lỗi đều được nuốt (log + slice rỗng) — thiếu kết quả web
// không được phép làm hỏng pipeline sinh kịch bản.
func (c *TavilyClient) SearchWeb(ctx context.Context, query string, maxResults int) []string {
	if c == nil || c.apiKey == "" {
		log.Println("TAVILY_API_KEY chưa cấu hình, bỏ qua web search")
		return nil
	}

	payload, err := json.Marshal(tavilySearchRequest{
		APIKey:            c.apiKey,
		Query:             query,
		MaxResults:        maxResults,
		SearchDepth:       "basic",
		IncludeAnswer:     false,
		IncludeRawContent: false,
	})
	if err != nil {
		log.Println("Lỗi tạo request Tavily:", err)
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tavilyEndpoint, bytes.NewReader(payload))
	if err != nil {
		log.Println("Lỗi tạo request Tavily:", err)
		return nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Println("Lỗi gọi Tavily:", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Println("Tavily trả về status", resp.StatusCode)
		return nil
	}

	var data tavilySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		log.Println("Lỗi đọc response Tavily:", err)
		return nil
	}

	contents := []string{}
	for _, r := range data.Results {
		if r.Content != "" {
			contents = append(contents, r.Content)
		}
	}
	return contents
}

var (
	markdownHeaderRe   = regexp.MustCompile(`^#+\s+(.+)$`)
	capitalizedPhraseRe = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)
)

// ExtractKeyTopics rút tối đa 5 chủ đề từ văn bản: tiêu đề markdown
// trước, sau đó cụm từ viết hoa (tên riêng/khái niệm), khử trùng lặp
// theo thứ tự xuất hiện
func ExtractKeyTopics(content string) []string {
	topics := []string{}

	for _, line := range strings.Split(content, "\n") {
		if m := markdownHeaderRe.FindStringSubmatch(line); m != nil {
			topics = append(topics, strings.TrimSpace(m[1]))
		}
	}

	capitalized := capitalizedPhraseRe.FindAllString(content, -1)
	if len(capitalized) > 5 {
		capitalized = capitalized[:5]
	}
	topics = append(topics, capitalized...)

	seen := map[string]bool{}
	unique := []string{}
	for _, t := range topics {
		if !seen[t] {
			seen[t] = true
			unique = append(unique, t)
		}
	}
	if len(unique) > 5 {
		unique = unique[:5]
	}
	return unique
}

// SupplementResult là kết quả kiểm tra độ đủ + bổ sung nội dung
type SupplementResult struct {
	Content         string
	WasSupplemented bool
	Warning         string
}

// SupplementContent kiểm tra nội dung có đủ dày cho thời lượng mong muốn
// không (ngưỡng = 50% số từ mục tiêu); nếu thiếu thì search web theo các
// chủ đề chính và nối phần tìm được vào cuối. Nội dung đã đủ thì trả
// nguyên văn, không đụng gì.
func SupplementContent(ctx context.Context, client *TavilyClient, content string, targetWordCount int) SupplementResult {
	originalWordCount := len(strings.Fields(content))
	requiredWordCount := targetWordCount / 2

	if originalWordCount >= requiredWordCount {
		return SupplementResult{Content: content, WasSupplemented: false}
	}

	topics := ExtractKeyTopics(content)
	if len(topics) == 0 {
		return SupplementResult{
			Content:         content,
			WasSupplemented: false,
			Warning:         "Could not identify topics for supplementation",
		}
	}

	searchTopics := topics
	if len(searchTopics) > 3 {
		searchTopics = searchTopics[:3]
	}

	// Search song song từng chủ đề, giữ thứ tự kết quả theo thứ tự chủ đề
	results := make([][]string, len(searchTopics))
	var wg sync.WaitGroup
	for i, topic := range searchTopics {
		wg.Add(1)
		go func(i int, topic string) {
			defer wg.Done()
			results[i] = client.SearchWeb(ctx, topic, 2)
		}(i, topic)
	}
	wg.Wait()

	flat := []string{}
	for _, rs := range results {
		flat = append(flat, rs...)
	}
	additional := strings.Join(flat, "\n\n")

	if additional == "" {
		return SupplementResult{
			Content:         content,
			WasSupplemented: false,
			Warning:         "Web search did not return additional content",
		}
	}

	return SupplementResult{
		Content:         content + "\n\n--- Additional Context ---\n\n" + additional,
		WasSupplemented: true,
		Warning:         fmt.Sprintf("Original content was supplemented with web search results about: %s", strings.Join(topics, ", ")),
	}
}
