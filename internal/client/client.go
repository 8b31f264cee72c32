package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mithrel/docqa/pkg/api"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultMaxUpload = 10 << 20
)

// Client talks to the document assistant backend.
type Client struct {
	baseURL    string
	token      string
	maxUpload  int64
	httpClient *http.Client
	log        *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithMaxUpload sets the client-side size limit for uploads in bytes.
func WithMaxUpload(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxUpload = n
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxUpload:  DefaultMaxUpload,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		log:        zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Token() string { return c.token }

func (c *Client) SetToken(token string) { c.token = token }

// Signup registers an account and returns its access token.
func (c *Client) Signup(ctx context.Context, req api.SignupRequest) (api.Token, error) {
	var tok api.Token
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/signup", req, false, &tok)
	return tok, err
}

// Login exchanges a username (or email) and password for an access token.
func (c *Client) Login(ctx context.Context, username, password string) (api.Token, error) {
	var tok api.Token
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", api.LoginRequest{Username: username, Password: password}, false, &tok)
	return tok, err
}

func (c *Client) Me(ctx context.Context) (api.User, error) {
	var u api.User
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, "", nil, true, &u)
	return u, err
}

func (c *Client) ListDocuments(ctx context.Context, skip, limit int) (api.DocumentList, error) {
	q := url.Values{}
	if skip > 0 {
		q.Set("skip", strconv.Itoa(skip))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out api.DocumentList
	err := c.do(ctx, http.MethodGet, "/api/documents/", q, "", nil, true, &out)
	return out, err
}

func (c *Client) GetDocument(ctx context.Context, id int64) (api.Document, error) {
	var d api.Document
	err := c.do(ctx, http.MethodGet, "/api/documents/"+strconv.FormatInt(id, 10), nil, "", nil, true, &d)
	return d, err
}

// DeleteDocument removes a document and returns the server's message.
func (c *Client) DeleteDocument(ctx context.Context, id int64) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	err := c.do(ctx, http.MethodDelete, "/api/documents/"+strconv.FormatInt(id, 10), nil, "", nil, true, &out)
	return out.Message, err
}

// CheckUpload validates a local file against the upload rules without
// contacting the server.
func (c *Client) CheckUpload(path string) (os.FileInfo, error) {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return nil, fmt.Errorf("%w: %s", ErrNotPDF, filepath.Base(path))
	}
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if fi.Size() > c.maxUpload {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrTooLarge, filepath.Base(path), fi.Size(), c.maxUpload)
	}
	return fi, nil
}

// UploadDocument sends a PDF as multipart field "file".
func (c *Client) UploadDocument(ctx context.Context, path string) (api.UploadResult, error) {
	var out api.UploadResult
	if _, err := c.CheckUpload(path); err != nil {
		return out, err
	}
	f, err := os.Open(path)
	if err != nil {
		return out, err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(path)))
	h.Set("Content-Type", "application/pdf")
	part, err := mw.CreatePart(h)
	if err != nil {
		return out, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return out, err
	}
	if err := mw.Close(); err != nil {
		return out, err
	}
	err = c.do(ctx, http.MethodPost, "/api/documents/upload", nil, mw.FormDataContentType(), &body, true, &out)
	return out, err
}

// Ask sends a question about a document and returns the grounded answer.
func (c *Client) Ask(ctx context.Context, documentID int64, question string) (api.ChatResponse, error) {
	var out api.ChatResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/chat/", api.ChatRequest{DocumentID: documentID, Question: question}, true, &out)
	return out, err
}

func (c *Client) ChatInfo(ctx context.Context, documentID int64) (api.ChatInfo, error) {
	var out api.ChatInfo
	err := c.do(ctx, http.MethodGet, "/api/chat/document/"+strconv.FormatInt(documentID, 10), nil, "", nil, true, &out)
	return out, err
}

func (c *Client) doJSON(ctx context.Context, method, path string, in any, auth bool, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, nil, "application/json", bytes.NewReader(b), auth, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader, auth bool, out any) error {
	if auth && c.token == "" {
		return ErrNotLoggedIn
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if auth {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}
	c.log.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode >= 300 {
		return parseError(resp.StatusCode, respBody)
	}
	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
