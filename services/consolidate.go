package services

import (
	"fmt"
	"strings"
)

// DocumentFragment là text đã trích từ một tài liệu, kèm tên file làm nhãn
type DocumentFragment struct {
	Label string
	Text  string
}

// ImageFragment là một ảnh đã upload: chú thích người dùng + kết quả OCR
type ImageFragment struct {
	Filename   string
	Annotation string
	OCRText    string
}

// ConsolidateInputs gộp toàn bộ input thành một văn bản duy nhất + tiêu đề.
// Thứ tự render cố định: tài liệu → text note → ảnh, không phụ thuộc thứ tự
// upload giữa các loại; trong mỗi loại đánh số theo vị trí upload (1-based).
// Hàm thuần, không được phép fail; caller đảm bảo có ít nhất một input.
func ConsolidateInputs(documents []DocumentFragment, textNotes []string, images []ImageFragment, explicitTitle string) (string, string) {
	var sections []string

	// Tài liệu: chỉ render khi có text sau khi trim, giữ nguyên số thứ tự gốc
	for i, doc := range documents {
		trimmed := strings.TrimSpace(doc.Text)
		if trimmed == "" {
			continue
		}
		sections = append(sections, fmt.Sprintf("Document %d (%s):\n%s", i+1, doc.Label, trimmed))
	}

	// Text note thủ công
	textCount := 0
	for i, note := range textNotes {
		trimmed := strings.TrimSpace(note)
		if trimmed == "" {
			continue
		}
		textCount++
		sections = append(sections, fmt.Sprintf("Text Note %d:\n%s", i+1, trimmed))
	}

	// Ảnh: luôn render header + chú thích; dòng OCR chỉ thêm khi có chữ
	for i, img := range images {
		annotation := strings.TrimSpace(img.Annotation)
		if annotation == "" {
			annotation = "[No annotation provided]"
		} else {
			annotation = img.Annotation
		}
		lines := []string{
			fmt.Sprintf("Image %d (%s):", i+1, img.Filename),
			"User Annotation: " + annotation,
		}
		if ocr := strings.TrimSpace(img.OCRText); ocr != "" {
			lines = append(lines, "Extracted Text:\n"+ocr)
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	text := strings.Join(sections, "\n\n")
	title := deriveTitle(explicitTitle, len(documents), len(images), textCount)
	return text, title
}

// deriveTitle sinh tiêu đề từ số lượng input khi người dùng không đặt tên
func deriveTitle(explicitTitle string, documentCount, imageCount, textCount int) string {
	if t := strings.TrimSpace(explicitTitle); t != "" {
		return t
	}
	switch {
	case documentCount > 0 && imageCount > 0:
		return fmt.Sprintf("%d document%s + %d image%s",
			documentCount, plural(documentCount), imageCount, plural(imageCount))
	case documentCount > 0:
		return fmt.Sprintf("%d document%s", documentCount, plural(documentCount))
	case imageCount > 0:
		return fmt.Sprintf("%d image%s", imageCount, plural(imageCount))
	case textCount > 1:
		return fmt.Sprintf("%d text notes", textCount)
	case textCount == 1:
		return "Text note rehash"
	default:
		return "Untitled Rehash"
	}
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}
