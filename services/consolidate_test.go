package services

import (
	"strings"
	"testing"
)

func TestConsolidateInputsOrderAndNumbering(t *testing.T) {
	documents := []DocumentFragment{
		{Label: "chuong1.docx", Text: "Nội dung chương 1"},
		{Label: "rong.txt", Text: "   "}, // rỗng sau trim -> bỏ qua
		{Label: "chuong3.pdf", Text: "Nội dung chương 3"},
	}
	textNotes := []string{"ghi chú tay", ""}
	images := []ImageFragment{
		{Filename: "bang.jpg", Annotation: "ảnh bảng", OCRText: "E = mc^2"},
	}

	text, _ := ConsolidateInputs(documents, textNotes, images, "")

	sections := strings.Split(text, "\n\n")
	if len(sections) != 4 {
		t.Fatalf("muốn 4 section (2 docs + 1 text + 1 image), got %d:\n%s", len(sections), text)
	}

	// Tài liệu rỗng bị bỏ nhưng giữ nguyên số thứ tự upload
	if !strings.HasPrefix(sections[0], "Document 1 (chuong1.docx):") {
		t.Errorf("section 0 sai: %q", sections[0])
	}
	if !strings.HasPrefix(sections[1], "Document 3 (chuong3.pdf):") {
		t.Errorf("tài liệu thứ 3 phải giữ số 3 dù tài liệu 2 bị bỏ: %q", sections[1])
	}
	if !strings.HasPrefix(sections[2], "Text Note 1:") {
		t.Errorf("section 2 sai: %q", sections[2])
	}
	if !strings.HasPrefix(sections[3], "Image 1 (bang.jpg):") {
		t.Errorf("section 3 sai: %q", sections[3])
	}
	if !strings.Contains(sections[3], "User Annotation: ảnh bảng") {
		t.Errorf("thiếu chú thích ảnh: %q", sections[3])
	}
	if !strings.Contains(sections[3], "Extracted Text:\nE = mc^2") {
		t.Errorf("thiếu OCR text: %q", sections[3])
	}
}

func TestConsolidateInputsImageWithoutAnnotationOrOCR(t *testing.T) {
	images := []ImageFragment{{Filename: "mo.png", Annotation: "  ", OCRText: ""}}

	text, _ := ConsolidateInputs(nil, nil, images, "")

	if !strings.Contains(text, "User Annotation: [No annotation provided]") {
		t.Errorf("chú thích rỗng phải thành [No annotation provided]: %q", text)
	}
	if strings.Contains(text, "Extracted Text:") {
		t.Errorf("không có OCR thì không render dòng Extracted Text: %q", text)
	}
}

func TestConsolidateInputsTitleDerivation(t *testing.T) {
	tests := []struct {
		name      string
		explicit  string
		documents []DocumentFragment
		textNotes []string
		images    []ImageFragment
		want      string
	}{
		{
			name:     "tiêu đề người dùng thắng tất cả",
			explicit: "Ôn thi giữa kỳ",
			images:   []ImageFragment{{Filename: "a.jpg"}},
			want:     "Ôn thi giữa kỳ",
		},
		{
			name:      "docs + images",
			documents: []DocumentFragment{{Label: "a", Text: "x"}, {Label: "b", Text: "y"}},
			images:    []ImageFragment{{Filename: "c.jpg"}},
			want:      "2 documents + 1 image",
		},
		{
			name:      "chỉ docs",
			documents: []DocumentFragment{{Label: "a", Text: "x"}},
			want:      "1 document",
		},
		{
			name:   "chỉ images",
			images: []ImageFragment{{Filename: "a.jpg"}, {Filename: "b.jpg"}},
			want:   "2 images",
		},
		{
			name:      "một text note",
			textNotes: []string{"ghi chú"},
			want:      "Text note rehash",
		},
		{
			name:      "nhiều text notes",
			textNotes: []string{"một", "hai", "ba"},
			want:      "3 text notes",
		},
		{
			name: "không có gì",
			want: "Untitled Rehash",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, title := ConsolidateInputs(tt.documents, tt.textNotes, tt.images, tt.explicit)
			if title != tt.want {
				t.Errorf("title = %q, want %q", title, tt.want)
			}
		})
	}
}
