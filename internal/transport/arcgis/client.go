package arcgis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kkalanta/CreateWebMapsWithPopups/internal/domain"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/domain/item"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/domain/layer"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/domain/webmap"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/metrics"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/usecase/health"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/usecase/schema"
	webmapuc "github.com/kkalanta/CreateWebMapsWithPopups/internal/usecase/webmap"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/version"
)

// Operation names used in metrics and errors.
const (
	opSearch     = "search"
	opGetItem    = "get_item"
	opLayers     = "service_layers"
	opItemData   = "item_data"
	opUpdateItem = "update_item"
	opProtect    = "protect_item"
	opShare      = "share_item"
	opAddItem    = "add_item"
	opHealth     = "portal_self"
)

// featureService is the search type of hosted and registered feature layer collections.
const featureService = "Feature Service"

const maxBodySize = 32 << 20

// Compile-time checks.
var (
	_ webmapuc.Portal      = (*Client)(nil)
	_ schema.Source        = (*Client)(nil)
	_ health.PortalChecker = (*Client)(nil)
)

// Client implements the portal content operations over the ArcGIS sharing REST API.
type Client struct {
	session *Session
	logger  *zap.Logger
}

// NewClient creates a portal client on an open session.
func NewClient(session *Session, logger *zap.Logger) *Client {
	return &Client{session: session, logger: logger}
}

// FindCollection returns the first item titled name owned by the session user,
// with the layers of the service behind it.
func (c *Client) FindCollection(ctx context.Context, name, itemType string) (layer.Collection, error) {
	q := url.Values{}
	q.Set("q", fmt.Sprintf(`title:"%s" AND owner:"%s" AND type:"%s"`,
		name, c.session.username, searchType(itemType)))
	q.Set("num", "10")

	var sr searchResponse
	if err := c.get(ctx, opSearch, c.session.sharingURL("search"), q, &sr); err != nil {
		return layer.Collection{}, err
	}
	if len(sr.Results) == 0 {
		return layer.Collection{}, domain.NewNotFound("item", name)
	}

	it, err := c.getItem(ctx, sr.Results[0].ID)
	if err != nil {
		return layer.Collection{}, err
	}
	if it.URL == "" {
		return layer.Collection{}, fmt.Errorf("item %q has no service url: %w", it.ID, domain.ErrPortal)
	}

	var lr layersResponse
	if err := c.get(ctx, opLayers, strings.TrimRight(it.URL, "/")+"/layers", nil, &lr); err != nil {
		return layer.Collection{}, err
	}

	layers := make([]layer.Layer, 0, len(lr.Layers))
	for _, l := range lr.Layers {
		layers = append(layers, l.toDomain())
	}

	c.logger.Debug("Found portal collection",
		zap.String("name", name),
		zap.String("item_id", it.ID),
		zap.Int("layers", len(layers)),
	)

	return layer.Collection{
		ItemID: it.ID,
		Title:  it.Title,
		Type:   it.Type,
		URL:    it.URL,
		Layers: layers,
	}, nil
}

// CollectionData returns the bulk data payload of an item.
// Hosted collections have none and yield nil.
func (c *Client) CollectionData(ctx context.Context, itemID string) (*layer.Data, error) {
	body, err := c.do(ctx, opItemData, http.MethodGet,
		c.session.sharingURL("content", "items", itemID, "data"), c.session.params())
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("{}")) || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var data layer.Data
	if err := json.Unmarshal(trimmed, &data); err != nil {
		return nil, fmt.Errorf("decode item %q data: %w", itemID, err)
	}
	if data.IsEmpty() {
		return nil, nil
	}
	return &data, nil
}

// UpdateItem writes item properties. An empty title keeps the current one.
func (c *Client) UpdateItem(ctx context.Context, itemID string, props item.Properties) error {
	form := c.session.params()
	propertiesForm(form, props)

	var resp successResponse
	if err := c.post(ctx, opUpdateItem, c.userItemURL(itemID, "update"), form, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("update item %q was not acknowledged: %w", itemID, domain.ErrPortal)
	}
	return nil
}

// ProtectItem enables delete protection on an item.
func (c *Client) ProtectItem(ctx context.Context, itemID string) error {
	var resp successResponse
	if err := c.post(ctx, opProtect, c.userItemURL(itemID, "protect"), c.session.params(), &resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("protect item %q was not acknowledged: %w", itemID, domain.ErrPortal)
	}
	return nil
}

// ShareWithOrg shares an item with the session user's organization.
func (c *Client) ShareWithOrg(ctx context.Context, itemID string) error {
	form := c.session.params()
	form.Set("everyone", "false")
	form.Set("org", "true")

	var resp shareResponse
	if err := c.post(ctx, opShare, c.userItemURL(itemID, "share"), form, &resp); err != nil {
		return err
	}
	if len(resp.NotSharedWith) > 0 {
		return fmt.Errorf("item %q not shared with %v: %w", itemID, resp.NotSharedWith, domain.ErrPortal)
	}
	return nil
}

// SaveWebMap stores doc as a new web map item and returns its id.
func (c *Client) SaveWebMap(ctx context.Context, doc *webmap.Document, props item.Properties) (string, error) {
	text, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode web map: %w", err)
	}

	form := c.session.params()
	form.Set("type", "Web Map")
	form.Set("text", string(text))
	propertiesForm(form, props)

	var resp successResponse
	err = c.post(ctx, opAddItem,
		c.session.sharingURL("content", "users", c.session.username, "addItem"), form, &resp)
	if err != nil {
		return "", err
	}
	if !resp.Success || resp.ID == "" {
		return "", fmt.Errorf("add web map item was not acknowledged: %w", domain.ErrPortal)
	}
	return resp.ID, nil
}

// HealthCheck verifies the portal answers and accepts the session token.
func (c *Client) HealthCheck(ctx context.Context) error {
	var self struct {
		ID string `json:"id"`
	}
	if err := c.get(ctx, opHealth, c.session.sharingURL("portals", "self"), nil, &self); err != nil {
		return fmt.Errorf("portal self: %w", err)
	}
	return nil
}

func (c *Client) getItem(ctx context.Context, itemID string) (itemDTO, error) {
	var it itemDTO
	if err := c.get(ctx, opGetItem, c.session.sharingURL("content", "items", itemID), nil, &it); err != nil {
		return itemDTO{}, err
	}
	if it.ID == "" {
		return itemDTO{}, domain.NewNotFound("item", itemID)
	}
	return it, nil
}

func (c *Client) userItemURL(itemID, action string) string {
	return c.session.sharingURL("content", "users", c.session.username, "items", itemID, action)
}

func (c *Client) get(ctx context.Context, op, rawURL string, query url.Values, out any) error {
	q := c.session.params()
	for k, vs := range query {
		q[k] = vs
	}
	body, err := c.do(ctx, op, http.MethodGet, rawURL, q)
	if err != nil {
		return err
	}
	return decode(op, body, out)
}

func (c *Client) post(ctx context.Context, op, rawURL string, form url.Values, out any) error {
	body, err := c.do(ctx, op, http.MethodPost, rawURL, form)
	if err != nil {
		return err
	}
	return decode(op, body, out)
}

// do sends one request and returns its body once neither the status nor an
// error envelope reports a failure. params travel in the query for GET and
// as a form body otherwise. Metrics are recorded per operation.
func (c *Client) do(ctx context.Context, op, method, rawURL string, params url.Values) ([]byte, error) {
	if err := c.session.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("portal %s rate limit: %w", op, err)
	}

	var reqBody io.Reader
	if method == http.MethodGet {
		rawURL += "?" + params.Encode()
	} else {
		reqBody = strings.NewReader(params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", op, err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	start := time.Now()
	body, err := c.roundTrip(op, req)
	metrics.PortalRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.PortalRequestsTotal.WithLabelValues(op, "error").Inc()
		c.logger.Debug("Portal request failed", zap.String("operation", op), zap.Error(err))
		return nil, err
	}
	metrics.PortalRequestsTotal.WithLabelValues(op, "success").Inc()
	return body, nil
}

func (c *Client) roundTrip(op string, req *http.Request) ([]byte, error) {
	resp, err := c.session.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("portal %s request: %w: %w", op, domain.ErrPortal, err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read portal %s response: %w: %w", op, domain.ErrPortal, err)
	}

	if err := checkEnvelope(op, body); err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Operation: op, Code: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	return body, nil
}

func decode(op string, body []byte, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode portal %s response: %w: %w", op, domain.ErrPortal, err)
	}
	return nil
}

func searchType(itemType string) string {
	if itemType == item.FeatureLayer {
		return featureService
	}
	return itemType
}

func propertiesForm(form url.Values, p item.Properties) {
	if p.Title != "" {
		form.Set("title", p.Title)
	}
	form.Set("snippet", p.Snippet)
	form.Set("description", p.Description)
	form.Set("tags", strings.Join(p.Tags, ","))
	form.Set("accessInformation", p.AccessInformation)
	form.Set("licenseInfo", p.LicenseInfo)
}
