package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/vnkhanh/rehash-backend/models"
)

func TestSplitScriptSegments(t *testing.T) {
	script := "Đoạn mở đầu nói về chủ đề.\n\n[PAUSE]\n\nĐoạn thứ hai giải thích chi tiết.\n\n\n\n[INTRO MUSIC FADES IN]\n\nĐoạn kết."

	segments := SplitScriptSegments(script)

	want := []string{
		"Đoạn mở đầu nói về chủ đề.",
		"Đoạn thứ hai giải thích chi tiết.",
		"Đoạn kết.",
	}
	if len(segments) != len(want) {
		t.Fatalf("muốn %d đoạn, got %d: %v", len(want), len(segments), segments)
	}
	for i := range want {
		if segments[i] != want[i] {
			t.Errorf("đoạn %d = %q, want %q", i, segments[i], want[i])
		}
	}
}

func TestSplitScriptSegmentsKeepsInlineDirections(t *testing.T) {
	// Chỉ đoạn THUẦN chỉ dẫn bị loại; [PAUSE] giữa câu vẫn giữ
	script := "Câu đầu [PAUSE] câu sau.\n\nĐoạn hai."
	segments := SplitScriptSegments(script)
	if len(segments) != 2 || !strings.Contains(segments[0], "[PAUSE]") {
		t.Errorf("chỉ dẫn giữa câu không được loại: %v", segments)
	}
}

func TestFallbackImagePrompt(t *testing.T) {
	long := strings.Repeat("x", 150)
	got := FallbackImagePrompt(long)
	want := "Visual representation of: " + strings.Repeat("x", 100) + "..."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGenerateSegmentPromptsFallsBackPerSegment(t *testing.T) {
	ai := &fakeAI{textErr: errors.New("model down")}
	style := StyleTemplate{Name: "video essay", VisualStyle: "clean"}

	segments := GenerateSegmentPrompts(context.Background(), ai, []string{"đoạn một", "đoạn hai"}, style)

	if len(segments) != 2 {
		t.Fatalf("muốn 2 đoạn, got %d", len(segments))
	}
	for i, seg := range segments {
		if seg.ID != "segment-"+string(rune('0'+i)) {
			t.Errorf("đoạn %d có ID %q", i, seg.ID)
		}
		if seg.Order != i {
			t.Errorf("đoạn %d có Order %d", i, seg.Order)
		}
		if !strings.HasPrefix(seg.ImagePrompt, "Visual representation of:") {
			t.Errorf("model lỗi phải dùng prompt fallback, got %q", seg.ImagePrompt)
		}
	}
}

func TestRemoveSegmentByIDReindexes(t *testing.T) {
	segments := []models.ScriptSegment{
		{ID: "segment-0", Order: 0, Cost: 0.04},
		{ID: "segment-1", Order: 1, Cost: 0.02},
		{ID: "segment-2", Order: 2, Cost: 0.02},
	}

	updated := RemoveSegmentByID(segments, "segment-1")

	if len(updated) != 2 {
		t.Fatalf("muốn 2 đoạn sau khi xoá, got %d", len(updated))
	}
	if updated[0].ID != "segment-0" || updated[0].Order != 0 {
		t.Errorf("đoạn đầu sai: %+v", updated[0])
	}
	if updated[1].ID != "segment-2" || updated[1].Order != 1 {
		t.Errorf("đoạn sau phải được đánh lại Order=1: %+v", updated[1])
	}
}

func TestTotalImageCost(t *testing.T) {
	segments := []models.ScriptSegment{
		{Cost: 0.04},
		{Cost: 0.02},
		{Cost: 0}, // chưa sinh ảnh
		{Cost: 0.02},
	}
	got := TotalImageCost(segments)
	if got < 0.0799 || got > 0.0801 {
		t.Errorf("tổng chi phí = %v, want 0.08", got)
	}
}

func TestCountWords(t *testing.T) {
	if got := CountWords("  một   hai\nba\tbốn  "); got != 4 {
		t.Errorf("CountWords = %d, want 4", got)
	}
	if got := CountWords(""); got != 0 {
		t.Errorf("CountWords chuỗi rỗng = %d, want 0", got)
	}
}

func TestGetStyleTemplate(t *testing.T) {
	for _, style := range []models.ScriptStyle{
		models.StyleKurzgesagt,
		models.StyleCasuallyExplained,
		models.StyleCGPGrey,
		models.StyleSchoolOfLife,
	} {
		tpl, ok := GetStyleTemplate(style)
		if !ok {
			t.Errorf("style %q phải tồn tại", style)
			continue
		}
		if tpl.SystemPrompt == "" || tpl.VisualStyle == "" {
			t.Errorf("style %q thiếu prompt hoặc visual style", style)
		}
	}

	if _, ok := GetStyleTemplate("vlog"); ok {
		t.Error("style không tồn tại phải trả ok=false")
	}
}

func TestStripStageDirections(t *testing.T) {
	in := "[INTRO MUSIC]\nCâu một. [PAUSE] Câu hai.\n\n\n\nCâu ba."
	got := StripStageDirections(in)
	if strings.Contains(got, "[") || strings.Contains(got, "]") {
		t.Errorf("chỉ dẫn trong ngoặc vuông phải bị bỏ: %q", got)
	}
	if strings.Contains(got, "\n\n\n") {
		t.Errorf("dòng trống thừa phải được gộp: %q", got)
	}
	if !strings.Contains(got, "Câu một.") || !strings.Contains(got, "Câu ba.") {
		t.Errorf("nội dung đọc được phải giữ nguyên: %q", got)
	}
}
