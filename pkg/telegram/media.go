package telegram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

// SendPhoto sends a photo by URL.
func (b *Bot) SendPhoto(chatID int64, photoURL, caption string) error {
	return b.postJSON("sendPhoto", SendURLRequest{ChatID: chatID, Photo: photoURL, Caption: caption})
}

// SendVideo sends a video by URL.
func (b *Bot) SendVideo(chatID int64, videoURL, caption string) error {
	return b.postJSON("sendVideo", SendURLRequest{ChatID: chatID, Video: videoURL, Caption: caption})
}

// SendAudio uploads a local audio file.
func (b *Bot) SendAudio(chatID int64, path string) error {
	return b.upload("sendAudio", "audio", chatID, path)
}

// SendDocument uploads a local file as a document.
func (b *Bot) SendDocument(chatID int64, path string) error {
	return b.upload("sendDocument", "document", chatID, path)
}

func (b *Bot) postJSON(method string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", method, err)
	}

	resp, err := b.httpClient.Post(fmt.Sprintf("%s/%s", b.apiURL, method), "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", method, err)
	}
	defer resp.Body.Close()

	return checkResponse(method, resp)
}

func (b *Bot) upload(method, field string, chatID int64, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("chat_id", strconv.FormatInt(chatID, 10)); err != nil {
		return err
	}
	part, err := w.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return err
	}

	resp, err := b.httpClient.Post(fmt.Sprintf("%s/%s", b.apiURL, method), w.FormDataContentType(), &buf)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", method, err)
	}
	defer resp.Body.Close()

	return checkResponse(method, resp)
}

func checkResponse(method string, resp *http.Response) error {
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram %s API error %d: %s", method, resp.StatusCode, string(raw))
	}
	return nil
}
