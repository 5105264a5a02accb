package services

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	texttospeechpb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"google.golang.org/api/option"
)

var (
	bracketRe     = regexp.MustCompile(`\[[^\]]*\]`)
	manyNewlineRe = regexp.MustCompile(`\n{3,}`)
)

// StripStageDirections bỏ các chỉ dẫn trong ngoặc vuông ([PAUSE],
// [INTRO MUSIC FADES IN]...) trước khi đọc, gộp dòng trống thừa
func StripStageDirections(script string) string {
	cleaned := bracketRe.ReplaceAllString(script, "")
	cleaned = manyNewlineRe.ReplaceAllString(cleaned, "\n\n")
	return strings.TrimSpace(cleaned)
}

// SynthesizeScript chuyển kịch bản (tiếng Anh) thành audio MP3.
// Text dài được chia nhỏ dưới ngưỡng 5000 bytes của Cloud TTS
// rồi ghép các mảnh MP3 lại.
func SynthesizeScript(ctx context.Context, credsFile, text string) ([]byte, error) {
	if len(text) == 0 {
		return nil, errors.New("text is empty")
	}
	if credsFile == "" {
		return nil, errors.New("GOOGLE_CREDENTIALS_JSON environment variable is not set")
	}

	client, err := texttospeech.NewClient(ctx, option.WithCredentialsFile(credsFile))
	if err != nil {
		return nil, err
	}
	defer client.Close()

	chunks := splitTextToChunksByByte(text, 4500)
	var allAudio []byte

	for idx, chunk := range chunks {
		log.Printf("Synthesizing chunk %d/%d: %d bytes\n", idx+1, len(chunks), len(chunk))

		req := &texttospeechpb.SynthesizeSpeechRequest{
			Input: &texttospeechpb.SynthesisInput{
				InputSource: &texttospeechpb.SynthesisInput_Text{
					Text: chunk,
				},
			},
			Voice: &texttospeechpb.VoiceSelectionParams{
				LanguageCode: "en-US",
				Name:         "en-US-Chirp3-HD-Puck",
			},
			AudioConfig: &texttospeechpb.AudioConfig{
				AudioEncoding: texttospeechpb.AudioEncoding_MP3,
				SpeakingRate:  1.0,
			},
		}

		resp, err := client.SynthesizeSpeech(ctx, req)
		if err != nil {
			return nil, err
		}
		allAudio = append(allAudio, resp.AudioContent...)
	}

	return allAudio, nil
}

// splitTextToChunksByByte chia text theo giới hạn byte + dấu câu
func splitTextToChunksByByte(text string, maxBytes int) []string {
	var chunks []string
	remaining := text

	for len(remaining) > 0 {
		if len(remaining) <= maxBytes {
			chunks = append(chunks, remaining)
			break
		}

		cutPos := maxBytes
		// Tìm dấu câu trong đoạn cắt được
		for i := cutPos; i > 0; i-- {
			if remaining[i-1] == '.' || remaining[i-1] == '!' || remaining[i-1] == '?' || remaining[i-1] == '\n' {
				cutPos = i
				break
			}
		}

		// Nếu không tìm thấy dấu câu, đảm bảo không cắt giữa ký tự UTF-8
		for cutPos < len(remaining) && (remaining[cutPos]&0xC0) == 0x80 {
			cutPos++
		}

		chunks = append(chunks, remaining[:cutPos])
		remaining = remaining[cutPos:]
	}

	return chunks
}
