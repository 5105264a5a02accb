package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Định nghĩa loại input
type InputType string

const (
	InputText InputType = "text"
	InputTXT  InputType = "txt"
	InputDOCX InputType = "docx"
	InputPDF  InputType = "pdf"
)

// GetInputTypeFromExt ánh xạ phần mở rộng file tài liệu sang InputType
func GetInputTypeFromExt(ext string) (InputType, error) {
	switch strings.ToLower(ext) {
	case ".pdf":
		return InputPDF, nil
	case ".docx":
		return InputDOCX, nil
	case ".txt":
		return InputTXT, nil
	default:
		return "", fmt.Errorf("định dạng file không hỗ trợ: %s", ext)
	}
}

// ExtractDocumentText trích plain text từ một tài liệu tải lên.
// Trích xuất là best-effort: loại file không nhận diện được hoặc parse lỗi
// chỉ log warning và trả về chuỗi rỗng, không làm hỏng cả pipeline.
func ExtractDocumentText(fileHeader *multipart.FileHeader) string {
	inputType, err := GetInputTypeFromExt(filepath.Ext(fileHeader.Filename))
	if err != nil {
		log.Printf("Bỏ qua tài liệu %s: %v\n", fileHeader.Filename, err)
		return ""
	}

	var text string
	switch inputType {
	case InputTXT:
		text, err = ExtractTextFromTXT(fileHeader)
	case InputDOCX:
		text, err = ExtractTextFromDOCX(fileHeader)
	case InputPDF:
		f, openErr := fileHeader.Open()
		if openErr != nil {
			err = openErr
			break
		}
		defer f.Close()
		text, err = ExtractTextFromPDF(f)
	}
	if err != nil {
		log.Printf("Không trích xuất được %s: %v\n", fileHeader.Filename, err)
		return ""
	}
	return text
}

func ExtractTextFromPDF(file multipart.File) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return "", fmt.Errorf("lỗi đọc file PDF: %w", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		return "", fmt.Errorf("không thể tạo reader PDF: %w", err)
	}

	var textBuilder bytes.Buffer
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		textBuilder.WriteString(content)
	}

	return textBuilder.String(), nil
}

func ExtractTextFromDOCX(fileHeader *multipart.FileHeader) (string, error) {
	// Tạo file tạm
	tmpFile, err := os.CreateTemp("", "upload-*.docx")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmpFile.Name())
	defer tmpFile.Close()

	// Lưu nội dung file vào file tạm
	src, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	if _, err := io.Copy(tmpFile, src); err != nil {
		return "", err
	}

	// Mở file zip (.docx là file zip!)
	r, err := zip.OpenReader(tmpFile.Name())
	if err != nil {
		return "", err
	}
	defer r.Close()

	// Tìm file document.xml
	var docFile *zip.File
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", fmt.Errorf("không tìm thấy word/document.xml")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	// Đọc XML & trích xuất <w:t> tag (văn bản)
	var buf bytes.Buffer
	decoder := xml.NewDecoder(rc)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "t" { // <w:t>
				var text string
				if err := decoder.DecodeElement(&text, &se); err == nil {
					buf.WriteString(text + " ")
				}
			}
		}
	}

	return strings.TrimSpace(buf.String()), nil
}

func ExtractTextFromTXT(fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	buf := new(bytes.Buffer)
	_, err = buf.ReadFrom(file)
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}
