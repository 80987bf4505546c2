// Package gateway is the single boundary to the remote hosted store. It
// speaks the PostgREST dialect (filtered reads, insert-and-return, patch by
// id, delete by id) plus the password-grant auth endpoints, and decodes every
// remote failure into a closed error kind exactly once, here.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

func NewClient(baseURL, anonKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		httpClient: &http.Client{},
	}
}

// Auth is the session handed back by the remote auth endpoint.
type Auth struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	User        User   `json:"user"`
}

// User is the authenticated identity the row-level security keys on.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// SignIn exchanges credentials for an access token.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Auth, error) {
	body := map[string]string{"email": email, "password": password}
	var auth Auth
	if err := c.doJSON(ctx, "POST", "/auth/v1/token?grant_type=password", "", body, &auth); err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	return &auth, nil
}

// SignOut revokes the given access token. A failure here is not actionable
// for the caller beyond dropping the session locally.
func (c *Client) SignOut(ctx context.Context, token string) error {
	return c.doJSON(ctx, "POST", "/auth/v1/logout", token, nil, nil)
}

// Filters maps a column to a PostgREST operator expression, e.g. "eq.42".
type Filters map[string]string

// Eq builds an equality filter value.
func Eq(v string) string { return "eq." + v }

// In builds a membership filter value over the given ids.
func In(vals []string) string {
	return "in.(" + strings.Join(vals, ",") + ")"
}

// Select reads rows from a table. columns is a PostgREST select list
// ("*", "id,name", ...); result must be a pointer to a slice.
func (c *Client) Select(ctx context.Context, token, table, columns string, filters Filters, result any) error {
	q := url.Values{}
	q.Set("select", columns)
	for col, expr := range filters {
		q.Set(col, expr)
	}
	path := "/rest/v1/" + table + "?" + q.Encode()
	if err := c.doJSON(ctx, "GET", path, token, nil, result); err != nil {
		return fmt.Errorf("select %s: %w", table, err)
	}
	return nil
}

// Insert writes a row and decodes the stored representation (with generated
// id and timestamps) into result when non-nil.
func (c *Client) Insert(ctx context.Context, token, table string, row, result any) error {
	path := "/rest/v1/" + table
	if err := c.doJSON(ctx, "POST", path, token, row, result, "Prefer", "return=representation"); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// Update patches the row with the given id.
func (c *Client) Update(ctx context.Context, token, table, id string, patch any) error {
	path := "/rest/v1/" + table + "?id=" + url.QueryEscape(Eq(id))
	if err := c.doJSON(ctx, "PATCH", path, token, patch, nil); err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	return nil
}

// Delete removes the row with the given id.
func (c *Client) Delete(ctx context.Context, token, table, id string) error {
	path := "/rest/v1/" + table + "?id=" + url.QueryEscape(Eq(id))
	if err := c.doJSON(ctx, "DELETE", path, token, nil, nil); err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, body, result any, headers ...string) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	bearer := token
	if bearer == "" {
		bearer = c.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Kind: KindTransient, Message: MessageOf(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return decodeError(resp.StatusCode, respBody)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
