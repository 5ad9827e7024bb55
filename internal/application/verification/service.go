package verification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/captcha-relay/internal/domain"
	"github.com/captcha-relay/internal/pkg/id"
)

// notifiedText is the message sent to a user once their verification is
// recorded.
const notifiedText = "You have been verified successfully."

// CaptchaVerifier validates a CAPTCHA token with the third-party service.
type CaptchaVerifier interface {
	Verify(ctx context.Context, token string) (*domain.CaptchaResult, error)
}

// VerifiedStore persists and queries the verified-set.
type VerifiedStore interface {
	Put(userID string) error
	IsVerified(userID string) bool
}

// Notifier delivers a message to the user via the messaging bot.
type Notifier interface {
	Notify(ctx context.Context, chatID, text string) error
}

type Service interface {
	// Submit validates token upstream and, on success, records userID as
	// verified and notifies them. Returns *domain.CaptchaRejectedError when
	// the service rejected the token; any other error is an internal fault.
	Submit(ctx context.Context, token, userID string) error
	// Status reports whether userID is verified.
	Status(userID string) bool
}

type service struct {
	verifier      CaptchaVerifier
	store         VerifiedStore
	notifier      Notifier
	notifyTimeout time.Duration
}

func NewService(verifier CaptchaVerifier, store VerifiedStore, notifier Notifier) Service {
	return &service{
		verifier:      verifier,
		store:         store,
		notifier:      notifier,
		notifyTimeout: 10 * time.Second,
	}
}

func (s *service) Submit(ctx context.Context, token, userID string) error {
	res, err := s.verifier.Verify(ctx, token)
	if err != nil {
		return fmt.Errorf("verify captcha: %w", err)
	}
	if !res.Success {
		return &domain.CaptchaRejectedError{Codes: res.ErrorCodes}
	}

	if err := s.store.Put(userID); err != nil {
		return fmt.Errorf("persist verification: %w", err)
	}
	slog.Info("user verified", "user_id", userID, "audit_id", id.New())

	// Fire-and-forget: the notification is a side effect, not part of the
	// verification contract. It runs detached from the request context so a
	// slow or failing bot API can never block or fail the response.
	go func() {
		nctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
		defer cancel()
		if err := s.notifier.Notify(nctx, userID, notifiedText); err != nil {
			slog.Warn("failed to send verified notification", "user_id", userID, "err", err)
		}
	}()

	return nil
}

func (s *service) Status(userID string) bool {
	return s.store.IsVerified(userID)
}
