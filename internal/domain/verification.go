package domain

// VerificationRecord is the persisted proof that a user identifier completed
// CAPTCHA verification. Presence of a record implies Verified == true; an
// unverified user simply has no record.
type VerificationRecord struct {
	Verified  bool  `json:"verified"`
	Timestamp int64 `json:"timestamp"` // creation time, Unix milliseconds
}

// CaptchaResult is the interpreted response of the verification service.
type CaptchaResult struct {
	Success    bool
	ErrorCodes []string
}

// VerifyRequest is the body of POST /verify.
// UserID is an opaque numeric string (digits only); it doubles as the chat
// target for the notification bot.
type VerifyRequest struct {
	Token  string `json:"token" validate:"required"`
	UserID string `json:"userId" validate:"required,number"`
}
