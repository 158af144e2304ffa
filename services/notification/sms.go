package notification

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Skarath13/bloom-sub003/config"
	"github.com/Skarath13/bloom-sub003/utils"
)

// RestSMSSender sends texts through a Twilio-compatible messaging REST API.
type RestSMSSender struct {
	AccountID string
	AuthToken string
	From      string
	BaseURL   string
	Client    *http.Client
}

// NewRestSMSSender builds a sender from app config.
func NewRestSMSSender() *RestSMSSender {
	return &RestSMSSender{
		AccountID: config.AppConfig.SMSAccountID,
		AuthToken: config.AppConfig.SMSAuthToken,
		From:      config.AppConfig.SMSFrom,
		BaseURL:   config.AppConfig.SMSBaseURL,
		Client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *RestSMSSender) SendSMS(ctx context.Context, toPhone, body string) error {
	logger := utils.GetLogger()

	form := url.Values{}
	form.Set("To", toPhone)
	form.Set("From", s.From)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", strings.TrimRight(s.BaseURL, "/"), s.AccountID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("building SMS request: %w", err)
	}
	req.SetBasicAuth(s.AccountID, s.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("sending SMS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		logger.Warn("SMS provider rejected message",
			zap.Int("status", resp.StatusCode), zap.String("to", toPhone))
		return fmt.Errorf("SMS provider returned %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}
