package dispatcher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/emirozbir/alert2jira/internal/document"
	"github.com/emirozbir/alert2jira/internal/jira"
	"github.com/emirozbir/alert2jira/internal/metrics"
	"github.com/emirozbir/alert2jira/internal/models"
	"github.com/emirozbir/alert2jira/internal/ui"
)

// IssueCreator submits a rendered ticket. Implemented by *jira.Client.
type IssueCreator interface {
	CreateIssue(ctx context.Context, summary string, doc document.Document) (*models.CreatedIssue, error)
	BrowseURL(key string) string
}

// HistoryStore records created tickets. Implemented by *database.DB.
type HistoryStore interface {
	SaveTicket(ticket *models.TicketResult, description []byte) (int64, error)
}

type Dispatcher struct {
	creator IssueCreator
	history HistoryStore
	logger  *zap.Logger
	now     func() time.Time
}

// New returns a Dispatcher. history may be nil to skip recording.
func New(creator IssueCreator, history HistoryStore, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		creator: creator,
		history: history,
		logger:  logger,
		now:     time.Now,
	}
}

// Preview renders the ticket for an alert without contacting Jira.
func (d *Dispatcher) Preview(alert *models.Alert) (string, document.Document) {
	return document.Summary(alert), document.Render(alert)
}

// Dispatch turns one alert into one Jira issue.
func (d *Dispatcher) Dispatch(ctx context.Context, alert *models.Alert, progress ui.ProgressReporter) (*models.TicketResult, error) {
	if progress == nil {
		progress = ui.NoOpProgress{}
	}
	defer progress.Stop()

	requestID := uuid.NewString()
	logger := d.logger.With(zap.String("request_id", requestID))

	logger.Info("creating ticket for alert",
		zap.String("rule_id", alert.RuleID()),
		zap.String("agent", alert.AgentName()),
	)

	progress.Update("Rendering alert")
	summary, doc := d.Preview(alert)

	progress.Update("Creating Jira issue")
	start := d.now()
	issue, err := d.creator.CreateIssue(ctx, summary, doc)
	metrics.JiraRequestDuration.Observe(d.now().Sub(start).Seconds())
	if err != nil {
		var apiErr *jira.APIError
		if errors.As(err, &apiErr) {
			metrics.TicketFailures.WithLabelValues(metrics.ReasonRejected).Inc()
			logger.Error("jira rejected issue", zap.Int("status", apiErr.StatusCode), zap.String("response", apiErr.Body))
		} else {
			metrics.TicketFailures.WithLabelValues(metrics.ReasonTransport).Inc()
			logger.Error("jira request failed", zap.Error(err))
		}
		return nil, errors.Wrap(err, "failed to create jira issue")
	}
	metrics.TicketsCreated.Inc()

	result := &models.TicketResult{
		RequestID:      requestID,
		IssueKey:       issue.Key,
		IssueID:        issue.ID,
		IssueURL:       d.creator.BrowseURL(issue.Key),
		Summary:        summary,
		RuleID:         alert.RuleID(),
		AgentName:      alert.AgentName(),
		AlertTimestamp: alert.Timestamp(),
		CreatedAt:      d.now(),
	}

	if d.history != nil {
		progress.Update("Recording ticket")
		d.record(logger, result, doc)
	}

	logger.Info("ticket created", zap.String("issue_key", issue.Key))

	return result, nil
}

// record stores the ticket in history. The issue already exists in Jira, so
// a storage failure is only logged.
func (d *Dispatcher) record(logger *zap.Logger, result *models.TicketResult, doc document.Document) {
	description, err := json.Marshal(doc)
	if err != nil {
		logger.Warn("failed to encode description for history", zap.Error(err))
		return
	}

	if _, err := d.history.SaveTicket(result, description); err != nil {
		logger.Warn("failed to record ticket", zap.String("issue_key", result.IssueKey), zap.Error(err))
	}
}
