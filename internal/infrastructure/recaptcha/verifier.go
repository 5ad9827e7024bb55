package recaptcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/captcha-relay/internal/config"
	"github.com/captcha-relay/internal/domain"
)

// Verifier validates CAPTCHA solutions against the third-party siteverify
// endpoint.
type Verifier struct {
	secret    string
	verifyURL string
	client    *http.Client
}

func NewVerifier(cfg *config.Config) *Verifier {
	return &Verifier{
		secret:    cfg.RecaptchaSecret,
		verifyURL: cfg.RecaptchaVerifyURL,
		client:    &http.Client{Timeout: cfg.RecaptchaTimeout},
	}
}

// siteverifyResponse mirrors the verification service's JSON response.
type siteverifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify submits the token together with the configured secret and interprets
// the response. Transport failures and malformed responses return an error;
// they are internal faults, never "verification failed".
func (v *Verifier) Verify(ctx context.Context, token string) (*domain.CaptchaResult, error) {
	form := url.Values{
		"secret":   {v.secret},
		"response": {token},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build siteverify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call siteverify: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("siteverify returned status %d", resp.StatusCode)
	}

	var body siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode siteverify response: %w", err)
	}

	codes := body.ErrorCodes
	if codes == nil {
		codes = []string{}
	}
	return &domain.CaptchaResult{Success: body.Success, ErrorCodes: codes}, nil
}
