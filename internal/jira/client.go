// Package jira creates issues through the Jira Cloud REST API v3.
package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"

	"github.com/emirozbir/alert2jira/internal/config"
	"github.com/emirozbir/alert2jira/internal/document"
	"github.com/emirozbir/alert2jira/internal/models"
)

const createIssuePath = "/rest/api/3/issue"

// APIError is returned when Jira answers with anything but 200 or 201.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("jira returned status %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	http   *resty.Client
	cfg    config.JiraConfig
	logger *zap.Logger
}

func NewClient(cfg config.JiraConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	rc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.URL, "/")).
		SetBasicAuth(cfg.User, cfg.APIToken).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		http:   rc,
		cfg:    cfg,
		logger: logger,
	}
}

type issueRequest struct {
	Fields issueFields `json:"fields"`
}

type issueFields struct {
	Project     projectRef        `json:"project"`
	Summary     string            `json:"summary"`
	Description document.Document `json:"description"`
	IssueType   issueTypeRef      `json:"issuetype"`
	Assignee    *assigneeRef      `json:"assignee,omitempty"`
}

type projectRef struct {
	Key string `json:"key"`
}

type issueTypeRef struct {
	Name string `json:"name"`
}

type assigneeRef struct {
	ID string `json:"id"`
}

type optionValue struct {
	Value string `json:"value"`
}

// BuildPayload returns the create-issue request body.
func (c *Client) BuildPayload(summary string, doc document.Document) ([]byte, error) {
	req := issueRequest{
		Fields: issueFields{
			Project:     projectRef{Key: c.cfg.ProjectKey},
			Summary:     summary,
			Description: doc,
			IssueType:   issueTypeRef{Name: c.cfg.IssueType},
		},
	}
	if c.cfg.AssigneeID != "" {
		req.Fields.Assignee = &assigneeRef{ID: c.cfg.AssigneeID}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode issue")
	}

	// The custom field key is only known from configuration.
	if c.cfg.CustomFieldID != "" {
		body, err = sjson.SetBytes(body, "fields."+c.cfg.CustomFieldID, []optionValue{{Value: c.cfg.CustomFieldValue}})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to set %s", c.cfg.CustomFieldID)
		}
	}

	return body, nil
}

// CreateIssue submits one issue and returns its key.
func (c *Client) CreateIssue(ctx context.Context, summary string, doc document.Document) (*models.CreatedIssue, error) {
	body, err := c.BuildPayload(summary, doc)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("creating jira issue",
		zap.String("project", c.cfg.ProjectKey),
		zap.String("summary", summary),
	)

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post(createIssuePath)
	if err != nil {
		return nil, errors.Wrap(err, "jira request failed")
	}

	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return nil, &APIError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	result := gjson.ParseBytes(resp.Body())
	issue := &models.CreatedIssue{
		ID:   result.Get("id").String(),
		Key:  result.Get("key").String(),
		Self: result.Get("self").String(),
	}

	c.logger.Info("jira issue created",
		zap.String("key", issue.Key),
		zap.Duration("took", resp.Time()),
	)

	return issue, nil
}

// BrowseURL returns the human-facing link for an issue key.
func (c *Client) BrowseURL(key string) string {
	if key == "" {
		return ""
	}
	return strings.TrimRight(c.cfg.URL, "/") + "/browse/" + key
}
