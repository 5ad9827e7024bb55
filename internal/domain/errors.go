package domain

import "strings"

// CaptchaRejectedError reports that the verification service examined the
// token and rejected it, carrying the upstream error codes for the caller.
// It is a caller error (HTTP 400), distinct from a transport failure reaching
// the service, which surfaces as a plain error and maps to HTTP 500.
type CaptchaRejectedError struct {
	Codes []string
}

func (e *CaptchaRejectedError) Error() string {
	if len(e.Codes) == 0 {
		return "captcha rejected"
	}
	return "captcha rejected: " + strings.Join(e.Codes, ", ")
}
