package domain

import "time"

// AuditEventType identifies what happened on the auth path.
type AuditEventType string

const (
	AuditLoginSucceeded AuditEventType = "login_succeeded"
	AuditLoginFailed    AuditEventType = "login_failed"
	AuditLoginThrottled AuditEventType = "login_throttled"
	AuditUserRegistered AuditEventType = "user_registered"
	AuditAccessDenied   AuditEventType = "access_denied"
)

// AuditEvent is an append-only record of an authentication or authorization
// decision. Email identifies the subject; Reason carries a short machine
// identifier, never a secret or a raw token.
type AuditEvent struct {
	Type      AuditEventType
	Email     string
	Reason    string
	Timestamp time.Time
}
