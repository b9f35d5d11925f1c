package salesforce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// DefaultAPIVersion is the Salesforce REST API version used when none is
// configured.
const DefaultAPIVersion = "65.0"

// DefaultTimeout bounds each individual API call.
var DefaultTimeout = 60 * time.Second

// Config holds the session handle and client settings.
type Config struct {
	// InstanceURL is the org's instance base URL, e.g. https://na1.salesforce.com
	InstanceURL string

	// AccessToken is the bearer credential for an established session.
	AccessToken string

	// APIVersion is the REST API version (default: 65.0).
	APIVersion string

	// Timeout bounds each API call (default: 60s).
	Timeout time.Duration
}

// Client talks to the Salesforce REST and Tooling APIs over HTTP.
type Client struct {
	http       *http.Client
	baseURL    string
	token      string
	apiVersion string
}

// NewClient creates a Client from an authenticated session handle.
func NewClient(cfg Config) *Client {
	version := cfg.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http:       &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.InstanceURL, "/"),
		token:      cfg.AccessToken,
		apiVersion: version,
	}
}

// DescribeObject fetches the full schema description of one SObject,
// including inline picklist values on each field descriptor.
func (c *Client) DescribeObject(ctx context.Context, object string) (*ObjectDescribe, error) {
	path := fmt.Sprintf("/services/data/v%s/sobjects/%s/describe", c.apiVersion, url.PathEscape(object))

	var describe ObjectDescribe
	if err := c.getJSON(ctx, path, nil, &describe); err != nil {
		return nil, fmt.Errorf("describe %s: %w", object, err)
	}
	return &describe, nil
}

// ToolingQuery runs a SOQL query against the Tooling API and returns the
// matching records.
func (c *Client) ToolingQuery(ctx context.Context, soql string) ([]ToolingRecord, error) {
	path := fmt.Sprintf("/services/data/v%s/tooling/query/", c.apiVersion)
	params := url.Values{"q": {soql}}

	var result struct {
		Records []ToolingRecord `json:"records"`
	}
	if err := c.getJSON(ctx, path, params, &result); err != nil {
		return nil, fmt.Errorf("tooling query: %w", err)
	}
	return result.Records, nil
}

// ListObjects returns the names of the org's queryable, non-deprecated
// SObjects matching the filter, sorted ascending.
func (c *Client) ListObjects(ctx context.Context, filter ObjectFilter) ([]string, error) {
	path := fmt.Sprintf("/services/data/v%s/sobjects/", c.apiVersion)

	var result struct {
		SObjects []SObjectSummary `json:"sobjects"`
	}
	if err := c.getJSON(ctx, path, nil, &result); err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}

	names := make([]string, 0, len(result.SObjects))
	for _, obj := range result.SObjects {
		if !obj.Queryable || obj.DeprecatedAndHidden {
			continue
		}
		if filter.Matches(obj.Name) {
			names = append(names, obj.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// getJSON performs an authenticated GET and decodes the response into out.
// Non-2xx responses are returned as *APIError.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeAPIError reads a Salesforce error body into an *APIError. The body
// is a JSON array of {message, errorCode}; anything unparseable falls back
// to the raw text.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return apiErr
	}

	var entries []struct {
		Message   string `json:"message"`
		ErrorCode string `json:"errorCode"`
	}
	if err := json.Unmarshal(body, &entries); err == nil && len(entries) > 0 {
		apiErr.ErrorCode = entries[0].ErrorCode
		apiErr.Message = entries[0].Message
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(body))
	return apiErr
}
