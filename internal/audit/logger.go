// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

package audit

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/enjaz-platform/formgate/internal/logging"
	"github.com/enjaz-platform/formgate/internal/metrics"
)

// Config holds configuration for the audit logger.
type Config struct {
	// Enabled controls whether audit logging is active.
	Enabled bool `json:"enabled"`

	// LogLevel filters events by minimum severity.
	LogLevel Severity `json:"log_level"`

	// RetentionDays is how long to keep audit events.
	RetentionDays int `json:"retention_days"`

	// CleanupInterval is how often to run retention cleanup.
	CleanupInterval time.Duration `json:"cleanup_interval"`

	// BufferSize is the size of the async write buffer.
	BufferSize int `json:"buffer_size"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		LogLevel:        SeverityInfo,
		RetentionDays:   90,
		CleanupInterval: 24 * time.Hour,
		BufferSize:      1000,
	}
}

// Logger buffers events and writes them to the store asynchronously so the
// submission path never blocks on audit persistence.
type Logger struct {
	config    *Config
	store     Store
	eventChan chan *Event
	mu        sync.RWMutex
	stopChan  chan struct{}
	wg        sync.WaitGroup
}

// NewLogger creates an audit logger and starts its async writer.
func NewLogger(store Store, config *Config) *Logger {
	if config == nil {
		config = DefaultConfig()
	}

	l := &Logger{
		config:    config,
		store:     store,
		eventChan: make(chan *Event, config.BufferSize),
		stopChan:  make(chan struct{}),
	}

	l.wg.Add(1)
	go l.asyncWriter()

	return l
}

func (l *Logger) asyncWriter() {
	defer l.wg.Done()

	for {
		select {
		case <-l.stopChan:
			// Drain remaining events before exit.
			for {
				select {
				case event := <-l.eventChan:
					l.writeEvent(event)
				default:
					return
				}
			}
		case event := <-l.eventChan:
			l.writeEvent(event)
		}
	}
}

func (l *Logger) writeEvent(event *Event) {
	if l.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := l.store.Save(ctx, event); err != nil {
		logging.Error().Err(err).Str("event_id", event.ID).Msg("Failed to save audit event")
	}
}

// Log records an audit event. Events below the configured severity are
// dropped; a full buffer drops the event rather than blocking the caller.
func (l *Logger) Log(event *Event) {
	l.mu.RLock()
	config := l.config
	l.mu.RUnlock()

	if !config.Enabled {
		return
	}
	if !shouldLog(event.Severity, config.LogLevel) {
		return
	}

	if event.ID == "" {
		event.ID = generateEventID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	select {
	case l.eventChan <- event:
		metrics.AuditEventsTotal.WithLabelValues(string(event.Severity)).Inc()
	default:
		metrics.AuditEventsDropped.Inc()
		logging.Warn().Str("event_id", event.ID).Msg("Audit event buffer full, dropping event")
	}
}

var severityOrder = map[Severity]int{
	SeverityDebug:    0,
	SeverityInfo:     1,
	SeverityWarning:  2,
	SeverityError:    3,
	SeverityCritical: 4,
}

func shouldLog(severity, min Severity) bool {
	return severityOrder[severity] >= severityOrder[min]
}

// Close shuts down the logger, draining buffered events.
func (l *Logger) Close() error {
	close(l.stopChan)
	l.wg.Wait()
	return nil
}

// StartCleanupRoutine periodically deletes events past retention. Stops when
// ctx is cancelled.
func (l *Logger) StartCleanupRoutine(ctx context.Context) {
	l.mu.RLock()
	interval := l.config.CleanupInterval
	retention := l.config.RetentionDays
	l.mu.RUnlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cutoff := time.Now().AddDate(0, 0, -retention)
				count, err := l.store.Delete(ctx, cutoff)
				if err != nil {
					logging.Error().Err(err).Msg("Audit cleanup error")
				} else if count > 0 {
					logging.Info().Int64("count", count).Msg("Cleaned up old audit events")
				}
			}
		}
	}()
}

// Query retrieves events matching the filter.
func (l *Logger) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	return l.store.Query(ctx, filter)
}

// Count returns the number of events matching the filter.
func (l *Logger) Count(ctx context.Context, filter QueryFilter) (int64, error) {
	return l.store.Count(ctx, filter)
}

func generateEventID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return time.Now().Format("20060102150405.000000000")
	}
	return hex.EncodeToString(b)
}

// Helper constructors for common submission-lifecycle events.

// LogSubmissionAccepted records a stored submission.
func (l *Logger) LogSubmissionAccepted(ctx context.Context, formType, docName, tok, sourceIP string) {
	l.Log(&Event{
		Type:          EventTypeSubmissionAccepted,
		Severity:      SeverityInfo,
		Outcome:       OutcomeSuccess,
		FormType:      formType,
		DocName:       docName,
		Token:         tok,
		SourceIP:      sourceIP,
		Action:        "submit",
		Description:   "form submission accepted",
		CorrelationID: logging.CorrelationIDFromContext(ctx),
		RequestID:     logging.RequestIDFromContext(ctx),
	})
}

// LogSubmissionRejected records a submission that failed validation.
func (l *Logger) LogSubmissionRejected(ctx context.Context, formType, sourceIP string, fieldErrors map[string][]string) {
	meta, _ := json.Marshal(fieldErrors)
	l.Log(&Event{
		Type:          EventTypeSubmissionRejected,
		Severity:      SeverityWarning,
		Outcome:       OutcomeFailure,
		FormType:      formType,
		SourceIP:      sourceIP,
		Action:        "submit",
		Description:   "form submission rejected by validation",
		Metadata:      meta,
		CorrelationID: logging.CorrelationIDFromContext(ctx),
		RequestID:     logging.RequestIDFromContext(ctx),
	})
}

// LogFileRejected records a rejected upload on an otherwise accepted
// submission.
func (l *Logger) LogFileRejected(ctx context.Context, formType, docName, field, reason string) {
	meta, _ := json.Marshal(map[string]string{"field": field, "reason": reason})
	l.Log(&Event{
		Type:          EventTypeFileRejected,
		Severity:      SeverityWarning,
		Outcome:       OutcomeFailure,
		FormType:      formType,
		DocName:       docName,
		Action:        "attach",
		Description:   "file upload rejected",
		Metadata:      meta,
		CorrelationID: logging.CorrelationIDFromContext(ctx),
		RequestID:     logging.RequestIDFromContext(ctx),
	})
}

// LogTokenValidation records a token validation attempt.
func (l *Logger) LogTokenValidation(ctx context.Context, tok, sourceIP string, valid bool) {
	eventType := EventTypeTokenValidated
	severity := SeverityInfo
	outcome := OutcomeSuccess
	if !valid {
		eventType = EventTypeTokenValidationFail
		severity = SeverityWarning
		outcome = OutcomeFailure
	}
	l.Log(&Event{
		Type:          eventType,
		Severity:      severity,
		Outcome:       outcome,
		Token:         tok,
		SourceIP:      sourceIP,
		Action:        "validate_token",
		Description:   "submission token validation",
		CorrelationID: logging.CorrelationIDFromContext(ctx),
		RequestID:     logging.RequestIDFromContext(ctx),
	})
}
