package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/stockbridge/stockbridge/internal/platform/httpx"
)

// Config carries the credentials and endpoints for the inventory platform.
type Config struct {
	BaseURL        string
	RefreshURL     string
	OrganizationID string
	ClientID       string
	ClientSecret   string
	RefreshToken   string
	AccessToken    string
}

// Client talks to the inventory platform REST API. Every operation applies
// the same auth contract: on a 401 the token is refreshed once and the
// operation retried once; a second 401 is a permanent failure.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
	tokens     *tokenHolder
}

// NewClient constructs the gateway client.
func NewClient(cfg Config, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     logger,
		tokens:     newTokenHolder(cfg.AccessToken),
	}
}

// FindItemID looks up an item by product name and returns its ID.
func (c *Client) FindItemID(ctx context.Context, name string) (string, error) {
	query := url.Values{"name": {name}}
	resp, err := c.do(ctx, http.MethodGet, "/items", query, nil, "")
	if err != nil {
		return "", err
	}
	defer closeBody(resp)
	if err := checkStatus(resp); err != nil {
		return "", err
	}
	var payload struct {
		Items []Item `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("inventory: decode item search: %w", err)
	}
	if len(payload.Items) == 0 || payload.Items[0].ItemID == "" {
		return "", fmt.Errorf("inventory: item %q: %w", name, httpx.ErrNotFound)
	}
	// The first search result is assumed to be the matching item.
	return payload.Items[0].ItemID, nil
}

// FetchItem fetches a single item with its per-warehouse stock.
func (c *Client) FetchItem(ctx context.Context, itemID string) (Item, error) {
	resp, err := c.do(ctx, http.MethodGet, "/items/"+url.PathEscape(itemID), nil, nil, "")
	if err != nil {
		return Item{}, err
	}
	defer closeBody(resp)
	if resp.StatusCode == http.StatusNotFound {
		return Item{}, fmt.Errorf("inventory: item %s: %w", itemID, httpx.ErrNotFound)
	}
	if err := checkStatus(resp); err != nil {
		return Item{}, err
	}
	var payload struct {
		Item *Item `json:"item"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Item{}, fmt.Errorf("inventory: decode item: %w", err)
	}
	if payload.Item == nil || payload.Item.ItemID == "" {
		return Item{}, fmt.Errorf("inventory: item %s: %w", itemID, httpx.ErrNotFound)
	}
	return *payload.Item, nil
}

// CreateAdjustment posts a quantity adjustment.
func (c *Client) CreateAdjustment(ctx context.Context, adj Adjustment) error {
	body, err := json.Marshal(adj)
	if err != nil {
		return fmt.Errorf("inventory: encode adjustment: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPost, "/inventoryadjustments", nil, body, "application/json")
	if err != nil {
		return err
	}
	defer closeBody(resp)
	return checkStatus(resp)
}

// CreateItem creates an item and returns the platform-assigned item ID.
func (c *Client) CreateItem(ctx context.Context, item NewItem) (string, error) {
	body, err := json.Marshal(item)
	if err != nil {
		return "", fmt.Errorf("inventory: encode item: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPost, "/items", nil, body, "application/json")
	if err != nil {
		return "", err
	}
	defer closeBody(resp)
	if err := checkStatus(resp); err != nil {
		return "", err
	}
	var payload struct {
		Item *Item `json:"item"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("inventory: decode created item: %w", err)
	}
	if payload.Item == nil {
		return "", nil
	}
	return payload.Item.ItemID, nil
}

// UploadItemImage attaches an image to an item.
func (c *Client) UploadItemImage(ctx context.Context, itemID, filename string, image []byte) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return fmt.Errorf("inventory: image form: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return fmt.Errorf("inventory: image form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("inventory: image form: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPost, "/items/"+url.PathEscape(itemID)+"/image", nil, body.Bytes(), writer.FormDataContentType())
	if err != nil {
		return err
	}
	defer closeBody(resp)
	return checkStatus(resp)
}

// do issues one request with the current token. On a 401 it refreshes the
// token exactly once and retries the original request exactly once.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte, contentType string) (*http.Response, error) {
	resp, err := c.send(ctx, method, path, query, body, contentType, c.tokens.current())
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	closeBody(resp)

	c.logger.Warn("inventory token expired, refreshing", slog.String("path", path))
	token, err := c.tokens.refresh(ctx, c.requestToken)
	if err != nil {
		return nil, fmt.Errorf("inventory: token refresh: %v: %w", err, httpx.ErrUnauthorized)
	}
	resp, err = c.send(ctx, method, path, query, body, contentType, token)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		closeBody(resp)
		return nil, fmt.Errorf("inventory: %s %s rejected after token refresh: %w", method, path, httpx.ErrUnauthorized)
	}
	return resp, nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body []byte, contentType, token string) (*http.Response, error) {
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + path
	values := url.Values{}
	for key, vals := range query {
		values[key] = vals
	}
	values.Set("organization_id", c.cfg.OrganizationID)
	endpoint += "?" + values.Encode()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("inventory: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inventory: %s %s: %v: %w", method, path, err, httpx.ErrDownstream)
	}
	return resp, nil
}

// requestToken exchanges the refresh token for a new access token.
func (c *Client) requestToken(ctx context.Context) (string, error) {
	form := url.Values{
		"refresh_token": {c.cfg.RefreshToken},
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
		"grant_type":    {"refresh_token"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.RefreshURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("inventory: build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("inventory: refresh request: %w", err)
	}
	defer closeBody(resp)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", fmt.Errorf("inventory: refresh response %d: %s", resp.StatusCode, string(data))
	}
	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("inventory: decode refresh response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("inventory: refresh response missing access token")
	}
	return payload.AccessToken, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	return fmt.Errorf("inventory: response %d: %s: %w", resp.StatusCode, string(data), httpx.ErrDownstream)
}

func closeBody(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
}
