package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/asahq/jira-analytics-backend/internal/core/domain"
	apperrors "github.com/asahq/jira-analytics-backend/internal/core/errors"
	"github.com/asahq/jira-analytics-backend/internal/core/ports"
)

// jiraTimeLayout is the timestamp format Jira Cloud uses in issue fields
// and changelog entries.
const jiraTimeLayout = "2006-01-02T15:04:05.000-0700"

const jqlDateLayout = "2006-01-02"

// Config holds the connection parameters for one Jira Cloud site.
type Config struct {
	BaseURL          string
	Email            string
	APIToken         string
	ProjectPrefix    string
	StoryPointsField string
	PageSize         int
	Timeout          time.Duration
}

// Client implements ports.TicketSource against the Jira Cloud REST API v3
// using basic auth (email + API token). Searches page through the API
// transparently until the result set is exhausted.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

var _ ports.TicketSource = (*Client)(nil)

// NewClient creates a new Jira client
func NewClient(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = 100
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With("adapter", "jira"),
	}
}

// Verify checks the configured credentials against the /myself endpoint,
// the same probe the upstream API recommends for token validation.
func (c *Client) Verify(ctx context.Context) error {
	var me apiUser
	return c.get(ctx, "/rest/api/3/myself", nil, &me)
}

// Ping satisfies the health check dependency.
func (c *Client) Ping(ctx context.Context) error {
	return c.Verify(ctx)
}

// ListProjects returns the projects visible to the configured credentials,
// filtered by the configured key prefix.
func (c *Client) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var raw []apiProject
	if err := c.get(ctx, "/rest/api/3/project", nil, &raw); err != nil {
		return nil, err
	}

	projects := make([]domain.Project, 0, len(raw))
	for _, p := range raw {
		if c.cfg.ProjectPrefix != "" && !strings.HasPrefix(p.Key, c.cfg.ProjectPrefix) {
			continue
		}
		projects = append(projects, domain.Project{Key: p.Key, Name: p.Name})
	}
	return projects, nil
}

// SearchTickets returns every ticket of the project updated within the
// query range as one flat slice. An empty result is returned as an empty
// slice, not an error.
func (c *Client) SearchTickets(ctx context.Context, query ports.TicketQuery) ([]domain.Ticket, error) {
	jql := fmt.Sprintf(
		`project = %s AND updated >= "%s" AND updated <= "%s" ORDER BY updated DESC`,
		query.ProjectKey,
		query.Range.Start.Format(jqlDateLayout),
		query.Range.End.Format(jqlDateLayout),
	)

	fields := strings.Join([]string{
		"summary", "status", "assignee", "created", "updated", "comment", c.cfg.StoryPointsField,
	}, ",")

	tickets := make([]domain.Ticket, 0)
	startAt := 0
	for {
		params := url.Values{}
		params.Set("jql", jql)
		params.Set("startAt", strconv.Itoa(startAt))
		params.Set("maxResults", strconv.Itoa(c.cfg.PageSize))
		params.Set("fields", fields)
		params.Set("expand", "changelog")

		var page searchResponse
		if err := c.get(ctx, "/rest/api/3/search", params, &page); err != nil {
			return nil, err
		}

		for _, issue := range page.Issues {
			tickets = append(tickets, c.mapIssue(issue))
		}

		startAt += len(page.Issues)
		if len(page.Issues) == 0 || startAt >= page.Total {
			break
		}
	}

	c.logger.Debug("search complete",
		"project", query.ProjectKey,
		"tickets", len(tickets),
	)

	return tickets, nil
}

// get performs an authenticated GET and decodes the JSON body into v.
// 401/403 map to the credential error, everything else non-2xx and all
// transport failures map to the upstream-unavailable error.
func (c *Client) get(ctx context.Context, path string, params url.Values, v any) error {
	endpoint := c.cfg.BaseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrJiraUnavailable, err)
	}
	req.SetBasicAuth(c.cfg.Email, c.cfg.APIToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrJiraUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d from %s", apperrors.ErrJiraAuth, resp.StatusCode, path)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d from %s: %s", apperrors.ErrJiraUnavailable, resp.StatusCode, path, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decoding response from %s: %v", apperrors.ErrJiraUnavailable, path, err)
	}
	return nil
}

// mapIssue converts one wire issue into the domain ticket. Malformed
// timestamps are logged and skipped rather than failing the whole fetch.
func (c *Client) mapIssue(issue apiIssue) domain.Ticket {
	var fields apiFields
	if err := json.Unmarshal(issue.Fields, &fields); err != nil {
		c.logger.Warn("failed to decode issue fields", "key", issue.Key, "error", err)
	}

	ticket := domain.Ticket{
		Key:         issue.Key,
		Summary:     fields.Summary,
		Status:      fields.Status.Name,
		StoryPoints: c.extractStoryPoints(issue),
		CreatedAt:   c.parseTime(issue.Key, fields.Created),
		UpdatedAt:   c.parseTime(issue.Key, fields.Updated),
		URL:         c.cfg.BaseURL + "/browse/" + issue.Key,
	}

	if fields.Assignee != nil {
		ticket.Assignee = &domain.Person{
			DisplayName: fields.Assignee.DisplayName,
			Email:       fields.Assignee.EmailAddress,
		}
	}

	if fields.Comment != nil {
		for _, comment := range fields.Comment.Comments {
			ticket.Comments = append(ticket.Comments, domain.Comment{
				Author: domain.Person{
					DisplayName: comment.Author.DisplayName,
					Email:       comment.Author.EmailAddress,
				},
				CreatedAt: c.parseTime(issue.Key, comment.Created),
			})
		}
	}

	ticket.Transitions = c.mapTransitions(issue)
	return ticket
}

// mapTransitions flattens the changelog into ordered status transitions.
// Jira returns histories newest first, so the result is sorted ascending.
func (c *Client) mapTransitions(issue apiIssue) []domain.StatusTransition {
	if issue.Changelog == nil {
		return nil
	}

	var transitions []domain.StatusTransition
	for _, history := range issue.Changelog.Histories {
		at, err := time.Parse(jiraTimeLayout, history.Created)
		if err != nil {
			c.logger.Warn("skipping changelog entry with malformed timestamp",
				"key", issue.Key, "created", history.Created)
			continue
		}
		for _, item := range history.Items {
			if item.Field != "status" {
				continue
			}
			transitions = append(transitions, domain.StatusTransition{
				To: item.ToString,
				At: at.UTC(),
			})
		}
	}

	sort.Slice(transitions, func(i, j int) bool {
		return transitions[i].At.Before(transitions[j].At)
	})
	return transitions
}

// extractStoryPoints pulls the configured custom field out of the raw
// fields payload. Missing or null estimates stay nil; the aggregator
// treats them as zero without skipping the ticket.
func (c *Client) extractStoryPoints(issue apiIssue) *float64 {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(issue.Fields, &raw); err != nil {
		return nil
	}

	value, ok := raw[c.cfg.StoryPointsField]
	if !ok || string(value) == "null" {
		return nil
	}

	var points float64
	if err := json.Unmarshal(value, &points); err != nil {
		c.logger.Warn("story points field is not numeric",
			"key", issue.Key, "field", c.cfg.StoryPointsField)
		return nil
	}
	return &points
}

// parseTime parses a Jira timestamp, falling back to RFC3339 before giving
// up with a zero time.
func (c *Client) parseTime(key, value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if t, err := time.Parse(jiraTimeLayout, value); err == nil {
		return t.UTC()
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC()
	}
	c.logger.Warn("unparseable timestamp", "key", key, "value", value)
	return time.Time{}
}
