package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Result is what a send attempt produced. Delivery failures are carried
// as data: bookings never fail because a message did not go out.
type Result struct {
	Success   bool   `json:"success"`
	Simulated bool   `json:"simulated,omitempty"`
	Number    string `json:"number,omitempty"`
	Error     string `json:"error,omitempty"`
}

type Sender interface {
	Send(ctx context.Context, phone, message string) Result
}

// ===============================
// WhatsApp sender
// ===============================

type WhatsAppSender struct {
	cfg    *Config
	client *http.Client
	log    *zap.Logger
}

func NewWhatsAppSender(cfg *Config, log *zap.Logger) *WhatsAppSender {
	return &WhatsAppSender{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}
}

type whatsAppPayload struct {
	Number string `json:"number"`
	Body   string `json:"body"`
}

func (s *WhatsAppSender) Send(ctx context.Context, phone, message string) Result {
	url, key := s.cfg.Current()

	if url == "" || key == "" {
		s.log.Info("whatsapp gateway not configured, simulating message",
			zap.String("to", phone),
		)
		return Result{Success: true, Simulated: true, Number: phone}
	}

	number := NormalizePhone(phone, s.cfg.DefaultCountryCode())
	if number == "" {
		s.log.Warn("invalid whatsapp number", zap.String("to", phone))
		return Result{Number: phone, Error: "invalid phone number"}
	}

	body, err := json.Marshal(whatsAppPayload{Number: number, Body: message})
	if err != nil {
		return Result{Number: number, Error: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Result{Number: number, Error: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Error("whatsapp send failed", zap.String("to", number), zap.Error(err))
		return Result{Number: number, Error: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		s.log.Error("whatsapp gateway rejected message",
			zap.String("to", number),
			zap.Int("status", resp.StatusCode),
		)
		return Result{
			Number: number,
			Error:  fmt.Sprintf("gateway status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))),
		}
	}

	return Result{Success: true, Number: number}
}

// NormalizePhone strips everything but digits, drops an international
// "00" prefix, and prepends the default country code to short local
// numbers that lack it. Returns "" for unusable input.
func NormalizePhone(input, defaultCountryCode string) string {
	digits := onlyDigits(input)
	if digits == "" {
		return ""
	}

	country := onlyDigits(defaultCountryCode)

	if strings.HasPrefix(digits, "00") {
		return digits[2:]
	}

	if country != "" && len(digits) <= 10 && !strings.HasPrefix(digits, country) {
		return country + digits
	}

	return digits
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
