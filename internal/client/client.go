// Package client is a small HTTP client for the pwasset API.
package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Ledger names accepted by the list, add, update and delete calls.
const (
	Assets    = "assets"
	Transfers = "transfers"
	Disposals = "disposals"
)

// Record is one ledger record as returned by the API.
type Record map[string]any

// User is the account summary returned by login and profile.
type User struct {
	UserID    string   `json:"userId"`
	UserName  string   `json:"userName"`
	UserGroup string   `json:"userGroup"`
	ParkIDs   []string `json:"parkIds"`
}

// LoginResult is the login response body.
type LoginResult struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
	User      User   `json:"user"`
}

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

type errorBody struct {
	Message string `json:"message"`
}

type mutationResult struct {
	Message string `json:"message"`
	Item    Record `json:"item"`
}

// Client talks to one API base URL. Reads are retried on transport
// errors; mutations are sent exactly once.
type Client struct {
	read  *resty.Client
	write *resty.Client
}

// New returns a Client for baseURL. token may be empty for login.
func New(baseURL, token string) *Client {
	return &Client{
		read: newResty(baseURL, token).
			SetRetryCount(2).
			SetRetryWaitTime(500 * time.Millisecond),
		write: newResty(baseURL, token),
	}
}

func newResty(baseURL, token string) *resty.Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(30*time.Second).
		SetHeader("Accept", "application/json").
		SetError(&errorBody{})
	if token != "" {
		c.SetAuthToken(token)
	}
	return c
}

func check(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if resp.IsError() {
		apiErr := &APIError{Status: resp.StatusCode()}
		if body, ok := resp.Error().(*errorBody); ok {
			apiErr.Message = body.Message
		}
		return apiErr
	}
	return nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, userID, password string, remember bool) (*LoginResult, error) {
	var out LoginResult
	err := check(c.write.R().
		SetContext(ctx).
		SetBody(map[string]any{"userId": userID, "password": password, "remember": remember}).
		SetResult(&out).
		Post("/login"))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns the records of ledger at locations (all when empty).
func (c *Client) List(ctx context.Context, ledger string, locations []string) ([]Record, error) {
	var out []Record
	req := c.read.R().SetContext(ctx).SetResult(&out)
	if len(locations) > 0 {
		req.SetQueryParam("locations", strings.Join(locations, ","))
	}
	if err := check(req.Get("/" + ledger)); err != nil {
		return nil, err
	}
	return out, nil
}

// Add creates a record and returns it.
func (c *Client) Add(ctx context.Context, ledger string, fields map[string]string) (Record, error) {
	var out mutationResult
	err := check(c.write.R().SetContext(ctx).SetBody(fields).SetResult(&out).Post("/" + ledger + "/add"))
	if err != nil {
		return nil, err
	}
	return out.Item, nil
}

// Update applies a partial edit and returns the stored record.
func (c *Client) Update(ctx context.Context, ledger, id string, after map[string]any) (Record, error) {
	var out mutationResult
	err := check(c.write.R().
		SetContext(ctx).
		SetBody(map[string]any{"id": id, "after": after}).
		SetResult(&out).
		Post("/" + ledger + "/update"))
	if err != nil {
		return nil, err
	}
	return out.Item, nil
}

// Delete removes a record.
func (c *Client) Delete(ctx context.Context, ledger, id string) error {
	return check(c.write.R().
		SetContext(ctx).
		SetBody(map[string]string{"id": id}).
		Post("/" + ledger + "/delete"))
}
