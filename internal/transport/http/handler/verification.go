package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/captcha-relay/internal/application/verification"
	"github.com/captcha-relay/internal/domain"
	"github.com/captcha-relay/internal/pkg/validate"
)

var uidPattern = regexp.MustCompile(`^\d+$`)

// VerificationHandler handles the submit and query endpoints.
type VerificationHandler struct {
	svc verification.Service
}

func NewVerificationHandler(svc verification.Service) *VerificationHandler {
	return &VerificationHandler{svc: svc}
}

// Submit handles POST /verify.
func (h *VerificationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, SubmitEnvelope{Success: false, Message: "invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, SubmitEnvelope{Success: false, Message: err.Error()})
		return
	}

	if err := h.svc.Submit(r.Context(), req.Token, req.UserID); err != nil {
		var rejected *domain.CaptchaRejectedError
		if errors.As(err, &rejected) {
			writeJSON(w, http.StatusBadRequest, SubmitEnvelope{
				Success: false,
				Message: "captcha verification failed",
				Errors:  rejected.Codes,
			})
			return
		}
		slog.Error("verification submit failed", "user_id", req.UserID, "err", err)
		writeJSON(w, http.StatusInternalServerError, SubmitEnvelope{Success: false, Message: "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, SubmitEnvelope{Success: true})
}

// Check handles GET /check?uid=. A missing or malformed uid is reported as
// unverified with a 400, indistinguishable in shape from a genuine negative.
func (h *VerificationHandler) Check(w http.ResponseWriter, r *http.Request) {
	uid := r.URL.Query().Get("uid")
	if !uidPattern.MatchString(uid) {
		writeJSON(w, http.StatusBadRequest, CheckEnvelope{Verified: false})
		return
	}
	writeJSON(w, http.StatusOK, CheckEnvelope{Verified: h.svc.Status(uid)})
}
