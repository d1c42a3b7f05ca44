package envelope

import (
	"time"

	"go.uber.org/zap"
)

// AuditEntry records one served request
type AuditEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	Operation  string    `json:"operation"`
	InputHash  string    `json:"input_hash"`
	RequestID  string    `json:"request_id,omitempty"`
	ClientIP   string    `json:"client_ip,omitempty"`
	DurationMs int64     `json:"duration_ms,omitempty"`
	Cached     bool      `json:"cached"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
}

// AuditLogger logs envelopes for audit and replay
type AuditLogger interface {
	Log(entry AuditEntry)
}

// ZapAuditLogger writes audit entries as structured log lines
type ZapAuditLogger struct {
	Logger *zap.Logger
}

// Log writes the entry at info, or warn when the request failed
func (l ZapAuditLogger) Log(e AuditEntry) {
	fields := []zap.Field{
		zap.String("operation", e.Operation),
		zap.String("input_hash", e.InputHash),
		zap.String("request_id", e.RequestID),
		zap.String("client_ip", e.ClientIP),
		zap.Int64("duration_ms", e.DurationMs),
		zap.Bool("cached", e.Cached),
	}
	if !e.Success {
		l.Logger.Warn("request failed", append(fields, zap.String("error", e.Error))...)
		return
	}
	l.Logger.Info("request served", fields...)
}

// NewAuditEntry starts an entry for a sealed envelope
func NewAuditEntry(env *Envelope, requestID, clientIP string) AuditEntry {
	return AuditEntry{
		Timestamp: time.Now().UTC(),
		Operation: env.Operation,
		InputHash: env.InputHash,
		RequestID: requestID,
		ClientIP:  clientIP,
		Success:   true,
	}
}

// MarkFailed marks the audit entry as failed
func (e *AuditEntry) MarkFailed(err error) {
	e.Success = false
	e.Error = err.Error()
}

// SetDuration sets the duration
func (e *AuditEntry) SetDuration(d time.Duration) {
	e.DurationMs = d.Milliseconds()
}
