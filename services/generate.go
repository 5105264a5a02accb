package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/vnkhanh/rehash-backend/models"
)

// Giới hạn ký tự gửi cho model ở mỗi task sinh nội dung
const GenerateCharBudget = 10000

// TruncateText cắt văn bản về tối đa maxChars ký tự (tính theo rune).
// Ưu tiên cắt tại khoảng trắng gần nhất nếu nó nằm trong 10% cuối của
// ngân sách, và luôn chừa chỗ cho dấu "..." để kết quả không vượt
// maxChars — nhờ đó cắt lần hai không đổi gì (idempotent).
func TruncateText(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}

	budget := maxChars - 3 // chừa chỗ cho "..."
	if budget < 0 {
		budget = 0
	}
	cut := runes[:budget]

	lastSpace := -1
	for i := len(cut) - 1; i >= 0; i-- {
		if cut[i] == ' ' {
			lastSpace = i
			break
		}
	}
	if float64(lastSpace) > float64(budget)*0.9 {
		return string(cut[:lastSpace]) + "..."
	}
	return string(cut) + "..."
}

// ExtractJSONBlock tìm khối JSON {...} cân bằng đầu tiên trong văn bản tự do
// (model hay bọc JSON trong lời dẫn hoặc code fence markdown)
func ExtractJSONBlock(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// stripMarkdownFence bỏ ```json ... ``` bọc quanh output của model
func stripMarkdownFence(raw string) string {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}

// ===== TASK 1: NOTES =====

const notesSystemPrompt = `You turn messy text into clean, deduped study notes in concise Markdown.

Your output should be:
- Well-structured with clear headings and bullet points
- Concise but comprehensive
- Remove duplicate information
- Focus on key concepts and actionable insights
- Use proper Markdown formatting (headers, lists, emphasis)

Output ONLY JSON in this exact format:
{
  "notes": "your markdown content here"
}`

type notesResponse struct {
	Notes string `json:"notes"`
}

// GenerateNotesTask sinh ghi chú markdown từ văn bản.
// Thử chế độ JSON trước, fallback sang text + bóc JSON,
// cùng lắm thì bọc nguyên văn output vào trường notes.
func GenerateNotesTask(ctx context.Context, ai TextAI, text string) (string, error) {
	userPrompt := "Clean & bullet the following text into structured study notes:\n\n" +
		TruncateText(text, GenerateCharBudget)

	raw, err := ai.GenerateJSON(ctx, notesSystemPrompt, userPrompt)
	if err == nil {
		var parsed notesResponse
		if jsonErr := json.Unmarshal([]byte(stripMarkdownFence(raw)), &parsed); jsonErr == nil && parsed.Notes != "" {
			return parsed.Notes, nil
		}
	}

	raw, err = ai.GenerateText(ctx, notesSystemPrompt, userPrompt)
	if err != nil {
		return "", err
	}
	if block, ok := ExtractJSONBlock(raw); ok {
		var parsed notesResponse
		if jsonErr := json.Unmarshal([]byte(block), &parsed); jsonErr == nil && parsed.Notes != "" {
			return parsed.Notes, nil
		}
	}
	// Phương án cuối: coi toàn bộ output là nội dung notes
	return raw, nil
}

// ===== TASK 2: REDDIT THREAD =====

const redditSystemPrompt = `You reframe notes as a Reddit thread. Create an engaging discussion that makes the content memorable and deepens understanding through substantive explanations.

CRITICAL: Comments must be EXPLANATORY and EDUCATIONAL, not just affirmations. Each comment should:
- Explain a specific concept or mechanism in detail
- Break down complex ideas into understandable parts
- Provide concrete examples or analogies
- Connect ideas to broader context or real-world applications
- Add nuance, caveats, or additional perspective

Your output should be:
- A thought-provoking title that captures the core concept
- An engaging OP that sets up the topic with key points
- 6-10 substantive comments that explain and explore the content
- Include 1-3 nested replies that add depth or respectfully challenge/clarify
- Use Reddit-style usernames (u_username format)
- Include realistic upvote counts (higher for more insightful comments)

Output ONLY JSON in this exact format:
{
  "title": "Thread title here",
  "op": "OP content here",
  "comments": [
    {
      "user": "u_username",
      "body": "Comment text here",
      "up": 123,
      "replies": [
        {
          "user": "u_another_user",
          "body": "Reply text here",
          "up": 45
        }
      ]
    }
  ]
}`

var ErrInvalidThread = errors.New("thread không đúng cấu trúc (thiếu title/op/comments)")

// GenerateRedditTask sinh thread thảo luận mô phỏng. Khác với cards,
// task này fail hẳn khi không ra được cấu trúc hợp lệ — không có fallback
// (chính sách riêng từng task, không phải bug).
func GenerateRedditTask(ctx context.Context, ai TextAI, text string) (*models.RedditThread, error) {
	userPrompt := "Create a Reddit thread discussion from these notes:\n\n" +
		TruncateText(text, GenerateCharBudget)

	var thread models.RedditThread
	parsed := false

	raw, err := ai.GenerateJSON(ctx, redditSystemPrompt, userPrompt)
	if err == nil {
		if jsonErr := json.Unmarshal([]byte(stripMarkdownFence(raw)), &thread); jsonErr == nil {
			parsed = true
		}
	}

	if !parsed {
		raw, err = ai.GenerateText(ctx, redditSystemPrompt, userPrompt)
		if err != nil {
			return nil, err
		}
		block, ok := ExtractJSONBlock(raw)
		if !ok {
			return nil, ErrInvalidThread
		}
		if jsonErr := json.Unmarshal([]byte(block), &thread); jsonErr != nil {
			return nil, ErrInvalidThread
		}
	}

	if err := ValidateRedditThread(&thread); err != nil {
		return nil, err
	}
	return &thread, nil
}

// ValidateRedditThread yêu cầu title + op không rỗng và comments là list
func ValidateRedditThread(thread *models.RedditThread) error {
	if thread == nil || strings.TrimSpace(thread.Title) == "" ||
		strings.TrimSpace(thread.OP) == "" || thread.Comments == nil {
		return ErrInvalidThread
	}
	return nil
}

// ===== TASK 3: CARDS =====

const cardsSystemPrompt = `You generate active-recall cards for learning. Create engaging quiz questions that test understanding.

Generate exactly:
- 12 Multiple Choice Questions (MCQ)
- 6 Cloze (fill-in-the-blank) items

For MCQ cards:
- Include 4 choices total (1 correct + 3 plausible distractors)
- Make distractors realistic but clearly wrong to experts
- Focus on key concepts and important details

For Cloze cards:
- Create sentences with one key word/phrase replaced by ___
- Provide 3 realistic distractors for the blank
- Test important terminology and concepts

Output ONLY JSON in this exact format:
{
  "cards": [
    {
      "type": "mcq",
      "prompt": "Question text here?",
      "answer": "Correct answer",
      "choices": ["Correct answer", "Wrong choice 1", "Wrong choice 2", "Wrong choice 3"]
    },
    {
      "type": "cloze",
      "text": "The ___ effect occurs when...",
      "answer": "key term",
      "distractors": ["similar term", "wrong term", "other term"]
    }
  ]
}`

// FallbackCards là bộ thẻ mặc định khi model fail hoàn toàn
func FallbackCards() *models.CardSet {
	return &models.CardSet{Cards: []models.GameCard{
		{
			Type:    "mcq",
			Prompt:  "What is the main topic of these notes?",
			Answer:  "Study material",
			Choices: []string{"Study material", "Random content", "Unrelated topic", "Empty notes"},
		},
		{
			Type:        "cloze",
			Prompt:      "Complete the sentence: The main purpose of these notes is to help with ___",
			Answer:      "studying",
			Text:        "The main purpose of these notes is to help with ___",
			Distractors: []string{"sleeping", "eating", "playing"},
		},
	}}
}

func fallbackMCQCard() models.GameCard {
	return models.GameCard{
		Type:    "mcq",
		Prompt:  "What is the main topic of these notes?",
		Answer:  "Study material",
		Choices: []string{"Study material", "Random content", "Unrelated topic", "Empty notes"},
	}
}

// RepairCards ép mọi thẻ về đúng schema:
// - cloze thiếu prompt nhưng có text: copy text sang prompt
// - thẻ thiếu cả prompt lẫn answer: loại bỏ
// - mcq luôn đúng 4 choices (đệm "Option n" / cắt bớt)
// - cloze luôn đúng 3 distractors (đệm "Distractor n" / cắt bớt)
// - danh sách rỗng sau sửa: chèn đúng 1 thẻ fallback
func RepairCards(cards []models.GameCard) []models.GameCard {
	valid := []models.GameCard{}
	for _, card := range cards {
		if card.Type == "cloze" && card.Prompt == "" && card.Text != "" {
			card.Prompt = card.Text
		}
		if card.Type == "" || (card.Prompt == "" && card.Text == "") || card.Answer == "" {
			log.Printf("Bỏ thẻ không hợp lệ: %+v\n", card)
			continue
		}

		if card.Type == "mcq" {
			choices := card.Choices
			for len(choices) < 4 {
				choices = append(choices, fmt.Sprintf("Option %d", len(choices)+1))
			}
			card.Choices = choices[:4]
		}

		if card.Type == "cloze" {
			distractors := card.Distractors
			for len(distractors) < 3 {
				distractors = append(distractors, fmt.Sprintf("Distractor %d", len(distractors)+1))
			}
			card.Distractors = distractors[:3]
		}

		valid = append(valid, card)
	}

	if len(valid) == 0 {
		valid = append(valid, fallbackMCQCard())
	}
	return valid
}

// GenerateCardsTask sinh bộ thẻ ôn tập. Không bao giờ trả lỗi:
// mọi thất bại đều quy về bộ thẻ fallback.
func GenerateCardsTask(ctx context.Context, ai TextAI, text string) *models.CardSet {
	userPrompt := "From these notes, produce 12 MCQs and 6 Cloze items for active recall:\n\n" +
		TruncateText(text, GenerateCharBudget)

	var parsed models.CardSet
	ok := false

	raw, err := ai.GenerateJSON(ctx, cardsSystemPrompt, userPrompt)
	if err == nil {
		if jsonErr := json.Unmarshal([]byte(stripMarkdownFence(raw)), &parsed); jsonErr == nil && parsed.Cards != nil {
			ok = true
		}
	}

	if !ok {
		raw, err = ai.GenerateText(ctx, cardsSystemPrompt, userPrompt)
		if err != nil {
			log.Println("Task cards lỗi, dùng bộ thẻ fallback:", err)
			return FallbackCards()
		}
		if block, found := ExtractJSONBlock(raw); found {
			if jsonErr := json.Unmarshal([]byte(block), &parsed); jsonErr == nil && parsed.Cards != nil {
				ok = true
			}
		}
	}

	if !ok {
		log.Println("Output cards không hợp lệ, dùng bộ thẻ fallback")
		return FallbackCards()
	}

	return &models.CardSet{Cards: RepairCards(parsed.Cards)}
}

// ===== DISPATCHER =====

// GenerationOutcome gom kết quả của 3 task song song; trường nil nghĩa là
// task tương ứng thất bại (partial failure không làm hỏng cả thao tác)
type GenerationOutcome struct {
	NotesMD string
	Reddit  *models.RedditThread
	Cards   *models.CardSet
}

// DispatchGeneration bắn 3 task sinh nội dung đồng thời và đợi TẤT CẢ
// kết thúc (settle-all) — một task fail không huỷ các task còn lại,
// chỉ để trống slot của nó
func DispatchGeneration(ctx context.Context, ai TextAI, text string) GenerationOutcome {
	var outcome GenerationOutcome

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		notes, err := GenerateNotesTask(ctx, ai, text)
		if err != nil {
			log.Println("Task notes thất bại:", err)
			return
		}
		outcome.NotesMD = notes
	}()

	go func() {
		defer wg.Done()
		thread, err := GenerateRedditTask(ctx, ai, text)
		if err != nil {
			log.Println("Task reddit thất bại:", err)
			return
		}
		outcome.Reddit = thread
	}()

	go func() {
		defer wg.Done()
		outcome.Cards = GenerateCardsTask(ctx, ai, text)
	}()

	wg.Wait()
	return outcome
}
