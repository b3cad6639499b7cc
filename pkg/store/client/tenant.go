package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/de-tools/posture-atlas/pkg/models/api"
)

// Login exchanges the access key pair for a session token.
func (c *Client) Login(ctx context.Context) error {
	body, err := c.do(ctx, http.MethodPost, "/login", api.LoginRequest{
		Username: c.cfg.AccessKey,
		Password: c.cfg.SecretKey,
	})
	if err != nil {
		return err
	}

	var resp api.LoginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("failed to decode login response: %w", err)
	}
	if resp.Token == "" {
		return fmt.Errorf("login response: %w: token", api.ErrMissingField)
	}
	c.token = resp.Token
	return nil
}

// Inventory fetches the asset inventory scoped to the relative time range
// and, when set, the cloud account filter.
func (c *Client) Inventory(ctx context.Context) ([]byte, error) {
	params := url.Values{}
	params.Set("timeType", "relative")
	params.Set("timeAmount", fmt.Sprint(c.cfg.TimeRange.Amount))
	params.Set("timeUnit", c.cfg.TimeRange.Unit)
	if c.cfg.CloudAccount != "" {
		params.Set("cloud.account", c.cfg.CloudAccount)
	}
	return c.do(ctx, http.MethodGet, "/v2/inventory?"+params.Encode(), nil)
}

// TimelineResources is the support-mode substitute for the inventory
// endpoint. Callers rewrap the first entry's resource count as an inventory
// summary.
func (c *Client) TimelineResources(ctx context.Context) ([]byte, error) {
	body := c.supportBody()
	if c.cfg.CloudAccount != "" {
		body.AccountIDs = []string{c.cfg.CloudAccount}
	}
	body.TimeRange = c.relativeTimeRange()
	return c.do(ctx, http.MethodPost, "/_support/timeline/resource", body)
}

func (c *Client) Policies(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "/policy", "/_support/policy")
}

func (c *Client) Users(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "/v2/user", "/v2/_support/user")
}

func (c *Client) Accounts(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "/cloud", "/_support/cloud")
}

// AccountChildren lists the child accounts of an organization account.
func (c *Client) AccountChildren(ctx context.Context, cloudType, accountID string) ([]byte, error) {
	path := fmt.Sprintf("/cloud/%s/%s/project", cloudType, accountID)
	return c.get(ctx, path, "/_support"+path)
}

func (c *Client) AccountGroups(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "/cloud/group", "/_support/cloud/group")
}

func (c *Client) AlertRules(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "/v2/alert/rule", "/_support/alert/rule")
}

func (c *Client) Integrations(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "/integration", "/_support/integration")
}

// SubmitAlertJob submits an asynchronous alert query scoped to the relative
// time range and optional account filter, returning the job id.
func (c *Client) SubmitAlertJob(ctx context.Context) (string, error) {
	body := requestBody{TimeRange: c.relativeTimeRange()}
	if c.cfg.CloudAccount != "" {
		body.Filters = []queryFilter{{Name: "cloud.accountId", Value: c.cfg.CloudAccount, Operator: "="}}
	}
	resp, err := c.do(ctx, http.MethodPost, "/alert/jobs", body)
	if err != nil {
		return "", err
	}

	var job api.AlertJob
	if err := json.Unmarshal(resp, &job); err != nil {
		return "", fmt.Errorf("failed to decode alert job response: %w", err)
	}
	if job.ID == "" {
		return "", fmt.Errorf("alert job response %s: %w: id", resp, api.ErrMissingField)
	}
	return job.ID, nil
}

// AlertJobStatus polls a submitted alert job.
func (c *Client) AlertJobStatus(ctx context.Context, id string) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/alert/jobs/%s/status", id), nil)
	if err != nil {
		return "", err
	}

	var status api.AlertJobStatus
	if err := json.Unmarshal(resp, &status); err != nil {
		return "", fmt.Errorf("failed to decode alert job status: %w", err)
	}
	if status.Status == "" {
		return "", fmt.Errorf("alert job status response %s: %w: status", resp, api.ErrMissingField)
	}
	return status.Status, nil
}

// DownloadAlertJob retrieves the completed alert job's result set.
func (c *Client) DownloadAlertJob(ctx context.Context, id string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, fmt.Sprintf("/alert/jobs/%s/download", id), nil)
}

// AlertAggregate runs one group-by query against the alert aggregation
// endpoint. Valid groupBy values are the api.GroupBy* constants.
func (c *Client) AlertAggregate(ctx context.Context, groupBy string) ([]byte, error) {
	body := c.supportBody()
	if c.cfg.CloudAccount != "" {
		body.AccountIDs = []string{c.cfg.CloudAccount}
	}
	body.TimeRange = c.relativeTimeRange()
	body.GroupBy = groupBy
	body.Limit = 9999
	return c.do(ctx, http.MethodPost, "/_support/alert/aggregate", body)
}
