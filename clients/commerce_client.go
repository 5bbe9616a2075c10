// Package clients wraps the remote commerce API. Every request goes through
// one hook pair: bearer injection on the way out, 401 session clearing on the
// way back.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yashrajoria/storefront/apperrors"
	"github.com/yashrajoria/storefront/models"
	"github.com/yashrajoria/storefront/session"
	"github.com/yashrajoria/storefront/token"
)

// CommerceClient talks to the remote commerce API under the /api prefix of
// the configured origin.
type CommerceClient struct {
	origin string
	client *http.Client
	store  session.Store
	log    *zap.Logger
}

func NewCommerceClient(origin string, timeout time.Duration, store session.Store, log *zap.Logger) *CommerceClient {
	if log == nil {
		log = zap.NewNop()
	}
	return &CommerceClient{
		origin: strings.TrimRight(origin, "/"),
		client: &http.Client{Timeout: timeout},
		store:  store,
		log:    log,
	}
}

// Categories fetches the category list.
func (c *CommerceClient) Categories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := c.do(ctx, http.MethodGet, "/category", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Products fetches the product catalog.
func (c *CommerceClient) Products(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	if err := c.do(ctx, http.MethodGet, "/product", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Health checks the remote API.
func (c *CommerceClient) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates against the remote API and extracts the token and user
// profile. Several backend response shapes are accepted.
func (c *CommerceClient) Login(ctx context.Context, email, password string) (string, models.User, error) {
	var payload map[string]any
	if err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &payload); err != nil {
		return "", nil, err
	}

	tok, user := extractAuth(payload)
	if tok == "" {
		c.log.Warn("login: unexpected response shape")
		return "", nil, apperrors.New(0, "No token received from server", nil)
	}
	return tok, user, nil
}

// PlaceOrder posts the order and returns the order reference assigned by the
// remote API.
func (c *CommerceClient) PlaceOrder(ctx context.Context, order models.Order) (string, error) {
	var payload map[string]any
	if err := c.do(ctx, http.MethodPost, "/order", order, &payload); err != nil {
		return "", err
	}

	switch id := payload["orderId"].(type) {
	case string:
		return id, nil
	case float64:
		return fmt.Sprintf("%.0f", id), nil
	default:
		return "", nil
	}
}

// ImageURL resolves a catalog image reference against the API origin.
// Absolute URLs pass through untouched.
func (c *CommerceClient) ImageURL(ref string) string {
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	if strings.HasPrefix(ref, "/") {
		return c.origin + ref
	}
	return c.origin + "/" + ref
}

func (c *CommerceClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return apperrors.New(0, "failed to encode request", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.origin+"/api"+path, reader)
	if err != nil {
		return apperrors.New(0, err.Error(), err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.attachToken(ctx, req)

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn("api request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return apperrors.New(0, err.Error(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// Treated uniformly: the session is gone; the surface redirects
		// to login.
		c.clearSession(ctx)
		return apperrors.ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(resp.Body)
		return apperrors.New(resp.StatusCode, apperrors.UpstreamMessage(data, nil), nil)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperrors.New(0, "failed to decode response", err)
		}
	}
	return nil
}

// attachToken sets the Authorization header when a live token is stored. A
// stored token that is no longer live is dropped from both slots.
func (c *CommerceClient) attachToken(ctx context.Context, req *http.Request) {
	tok, ok, err := c.store.Get(ctx, session.SlotToken)
	if err != nil {
		c.log.Warn("token read failed", zap.Error(err))
		return
	}
	if !ok {
		return
	}
	if token.IsLive(tok) {
		req.Header.Set("Authorization", "Bearer "+tok)
		return
	}
	c.clearSession(ctx)
}

func (c *CommerceClient) clearSession(ctx context.Context) {
	if err := c.store.Clear(ctx, session.SlotToken); err != nil {
		c.log.Warn("token clear failed", zap.Error(err))
	}
	if err := c.store.Clear(ctx, session.SlotUser); err != nil {
		c.log.Warn("user clear failed", zap.Error(err))
	}
}

// extractAuth sniffs the token and user out of the login response. Accepted
// shapes, in order: {user, token}, {data: {user, token}}, {accessToken, ...},
// {token, ...rest-as-user}.
func extractAuth(payload map[string]any) (string, models.User) {
	if user, ok := payload["user"].(map[string]any); ok {
		if tok, ok := payload["token"].(string); ok && tok != "" {
			return tok, models.User(user)
		}
	}

	if data, ok := payload["data"].(map[string]any); ok {
		user, uok := data["user"].(map[string]any)
		tok, tok2 := data["token"].(string)
		if uok && tok2 && tok != "" {
			return tok, models.User(user)
		}
	}

	if tok, ok := payload["accessToken"].(string); ok && tok != "" {
		if user, ok := payload["user"].(map[string]any); ok {
			return tok, models.User(user)
		}
		return tok, models.User(payload)
	}

	if tok, ok := payload["token"].(string); ok && tok != "" {
		user := models.User{}
		for k, v := range payload {
			if k != "token" {
				user[k] = v
			}
		}
		return tok, user
	}

	return "", nil
}
