package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// SmsSender отправляет текстовое сообщение на номер телефона.
type SmsSender interface {
	Send(ctx context.Context, phone, text string) error
}

// HTTPSmsSender — клиент bulk-API SMS-провайдера.
type HTTPSmsSender struct {
	client     *http.Client
	url        string
	apiKey     string
	lineNumber string
}

func NewHTTPSmsSender(url, apiKey, lineNumber string) *HTTPSmsSender {
	return &HTTPSmsSender{
		client:     &http.Client{Timeout: 10 * time.Second},
		url:        url,
		apiKey:     apiKey,
		lineNumber: lineNumber,
	}
}

type bulkSendRequest struct {
	LineNumber   string   `json:"lineNumber"`
	MessageText  string   `json:"messageText"`
	Mobiles      []string `json:"mobiles"`
	SendDateTime *int64   `json:"sendDateTime"`
}

func (s *HTTPSmsSender) Send(ctx context.Context, phone, text string) error {
	body, err := json.Marshal(bulkSendRequest{
		LineNumber:  s.lineNumber,
		MessageText: text,
		Mobiles:     []string{phone},
	})
	if err != nil {
		return fmt.Errorf("marshal sms request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("send sms: provider returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}

// LogSmsSender только пишет сообщение в лог (разработка, тесты).
type LogSmsSender struct {
	log zerolog.Logger
}

func NewLogSmsSender(log zerolog.Logger) *LogSmsSender {
	return &LogSmsSender{log: log}
}

func (s *LogSmsSender) Send(_ context.Context, phone, text string) error {
	s.log.Info().Str("phone", phone).Str("text", text).Msg("sms (not sent)")
	return nil
}
