package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/vnkhanh/rehash-backend/models"
)

// fakeAI giả lập model cho test, trả output cố định theo từng chế độ
type fakeAI struct {
	jsonOut string
	jsonErr error
	textOut string
	textErr error
}

func (f *fakeAI) GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return f.textOut, f.textErr
}

func (f *fakeAI) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return f.jsonOut, f.jsonErr
}

func TestTruncateTextShortInputUnchanged(t *testing.T) {
	in := "ngắn gọn"
	if got := TruncateText(in, 100); got != in {
		t.Errorf("văn bản ngắn hơn giới hạn phải giữ nguyên, got %q", got)
	}
}

func TestTruncateTextRespectsLimit(t *testing.T) {
	in := strings.Repeat("x", 500)
	got := TruncateText(in, 100)
	if len([]rune(got)) > 100 {
		t.Errorf("kết quả dài %d rune, vượt giới hạn 100", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("kết quả bị cắt phải kết thúc bằng ..., got %q", got)
	}
}

func TestTruncateTextIdempotent(t *testing.T) {
	in := strings.Repeat("từ ", 300)
	once := TruncateText(in, 100)
	twice := TruncateText(once, 100)
	if once != twice {
		t.Errorf("cắt lần hai phải giữ nguyên kết quả: %q != %q", once, twice)
	}
}

func TestTruncateTextPrefersWordBoundary(t *testing.T) {
	// Khoảng trắng nằm trong 10% cuối của ngân sách -> cắt tại đó
	in := strings.Repeat("a", 90) + " " + strings.Repeat("b", 100)
	got := TruncateText(in, 100)
	if got != strings.Repeat("a", 90)+"..." {
		t.Errorf("phải cắt tại khoảng trắng gần cuối, got %q", got)
	}
}

func TestExtractJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		found bool
	}{
		{
			name:  "json thuần",
			in:    `{"a":1}`,
			want:  `{"a":1}`,
			found: true,
		},
		{
			name:  "json bọc trong lời dẫn",
			in:    "Here is your JSON:\n{\"notes\":\"x\"}\nHope it helps!",
			want:  `{"notes":"x"}`,
			found: true,
		},
		{
			name:  "ngoặc lồng nhau",
			in:    `prefix {"a":{"b":2}} suffix`,
			want:  `{"a":{"b":2}}`,
			found: true,
		},
		{
			name:  "ngoặc nằm trong string không tính",
			in:    `{"a":"}{","b":1}`,
			want:  `{"a":"}{","b":1}`,
			found: true,
		},
		{
			name:  "không có json",
			in:    "no braces here",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := ExtractJSONBlock(tt.in)
			if found != tt.found {
				t.Fatalf("found = %v, want %v", found, tt.found)
			}
			if found && got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRepairCardsClozeCopiesTextToPrompt(t *testing.T) {
	cards := RepairCards([]models.GameCard{
		{Type: "cloze", Text: "The ___ effect", Answer: "placebo"},
	})
	if len(cards) != 1 {
		t.Fatalf("muốn 1 thẻ, got %d", len(cards))
	}
	if cards[0].Prompt != "The ___ effect" {
		t.Errorf("cloze thiếu prompt phải copy từ text, got %q", cards[0].Prompt)
	}
	if len(cards[0].Distractors) != 3 {
		t.Errorf("cloze phải có đúng 3 distractors, got %d", len(cards[0].Distractors))
	}
}

func TestRepairCardsDropsInvalid(t *testing.T) {
	cards := RepairCards([]models.GameCard{
		{Type: "", Prompt: "q", Answer: "a"},             // thiếu type
		{Type: "mcq", Answer: "a"},                       // thiếu prompt lẫn text
		{Type: "mcq", Prompt: "q"},                       // thiếu answer
		{Type: "mcq", Prompt: "ok?", Answer: "yes"},      // hợp lệ
	})
	if len(cards) != 1 || cards[0].Prompt != "ok?" {
		t.Fatalf("chỉ thẻ hợp lệ được giữ lại, got %+v", cards)
	}
}

func TestRepairCardsPadsAndTruncatesChoices(t *testing.T) {
	cards := RepairCards([]models.GameCard{
		{Type: "mcq", Prompt: "q1", Answer: "a", Choices: []string{"a"}},
		{Type: "mcq", Prompt: "q2", Answer: "a", Choices: []string{"a", "b", "c", "d", "e", "f"}},
	})
	for _, card := range cards {
		if len(card.Choices) != 4 {
			t.Errorf("mcq %q phải có đúng 4 choices, got %d", card.Prompt, len(card.Choices))
		}
	}
	if cards[0].Choices[1] != "Option 2" {
		t.Errorf("choices thiếu phải được đệm Option n, got %v", cards[0].Choices)
	}
}

func TestRepairCardsEmptyListGetsFallback(t *testing.T) {
	cards := RepairCards(nil)
	if len(cards) != 1 {
		t.Fatalf("danh sách rỗng phải được chèn 1 thẻ fallback, got %d", len(cards))
	}
	if cards[0].Type != "mcq" || len(cards[0].Choices) != 4 {
		t.Errorf("thẻ fallback không đúng schema: %+v", cards[0])
	}
}

func TestGenerateNotesTaskWrapsRawOutput(t *testing.T) {
	// Cả hai chế độ đều trả non-JSON -> output thô trở thành nội dung notes
	ai := &fakeAI{
		jsonErr: errors.New("json mode down"),
		textOut: "plain markdown, no json",
	}
	notes, err := GenerateNotesTask(context.Background(), ai, "input")
	if err != nil {
		t.Fatalf("task notes không được fail khi còn output thô: %v", err)
	}
	if notes != "plain markdown, no json" {
		t.Errorf("got %q", notes)
	}
}

func TestGenerateRedditTaskRejectsInvalidStructure(t *testing.T) {
	tests := []struct {
		name string
		out  string
	}{
		{"thiếu title", `{"title":"","op":"x","comments":[]}`},
		{"thiếu op", `{"title":"t","op":"","comments":[]}`},
		{"thiếu comments", `{"title":"t","op":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ai := &fakeAI{jsonOut: tt.out, textOut: tt.out}
			if _, err := GenerateRedditTask(context.Background(), ai, "input"); !errors.Is(err, ErrInvalidThread) {
				t.Errorf("muốn ErrInvalidThread, got %v", err)
			}
		})
	}
}

func TestGenerateRedditTaskAcceptsValidThread(t *testing.T) {
	out := `{"title":"T","op":"OP text","comments":[{"user":"u_a","body":"b","up":10}]}`
	ai := &fakeAI{jsonOut: out}
	thread, err := GenerateRedditTask(context.Background(), ai, "input")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if thread.Title != "T" || len(thread.Comments) != 1 {
		t.Errorf("thread parse sai: %+v", thread)
	}
}

func TestGenerateCardsTaskFallsBackOnTotalFailure(t *testing.T) {
	ai := &fakeAI{
		jsonErr: errors.New("down"),
		textErr: errors.New("down"),
	}
	set := GenerateCardsTask(context.Background(), ai, "input")
	if set == nil || len(set.Cards) != 2 {
		t.Fatalf("task cards phải trả bộ thẻ fallback 2 thẻ, got %+v", set)
	}
}

func TestDispatchGenerationSettlesAllOnPartialFailure(t *testing.T) {
	// Model chỉ trả được notes hợp lệ; reddit sẽ fail, cards về fallback
	ai := &fakeAI{
		jsonOut: `{"notes":"# Notes"}`,
		textErr: errors.New("text mode down"),
	}
	outcome := DispatchGeneration(context.Background(), ai, "input text")

	if outcome.NotesMD != "# Notes" {
		t.Errorf("notes phải thành công, got %q", outcome.NotesMD)
	}
	if outcome.Reddit != nil {
		t.Errorf("reddit với output notes-shape phải fail, got %+v", outcome.Reddit)
	}
	if outcome.Cards == nil || len(outcome.Cards.Cards) == 0 {
		t.Errorf("cards không bao giờ được nil")
	}
}
