// Package remote implements storage.Storage on top of the Students REST
// API:
//
//	GET    /students        → list all students
//	GET    /students/{id}   → one student
//	POST   /students        → create, returns the stored student
//	PUT    /students/{id}   → update, returns the stored student
//	DELETE /students/{id}   → delete
//
// Request and response bodies are JSON. A failed round trip is reported
// as a storage.Error of kind network; a non-2xx answer or an unusable
// body as kind server.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aanand-mishra/students-admin/internal/config"
	"github.com/aanand-mishra/students-admin/internal/storage"
	"github.com/aanand-mishra/students-admin/internal/types"
)

// maxErrorBody caps how much of a failed response is kept for the error.
const maxErrorBody = 512

// Client is the HTTP implementation of storage.Storage.
// A single *Client is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client for the API at cfg.BaseURL.
func New(cfg config.StudentsAPI) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("remote.New: base url is empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return NewWithClient(cfg.BaseURL, &http.Client{Timeout: timeout}), nil
}

// NewWithClient builds a client that sends requests through hc.
func NewWithClient(baseURL string, hc *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
	}
}

// studentBody is what create and update send. The id travels in the URL.
type studentBody struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   int    `json:"age"`
}

func bodyOf(s types.Student) studentBody {
	return studentBody{Name: s.Name, Email: s.Email, Age: s.Age}
}

func (c *Client) ListStudents(ctx context.Context) ([]types.Student, error) {
	const op = "ListStudents"

	students := make([]types.Student, 0)
	if err := c.do(ctx, op, http.MethodGet, "/students", nil, &students); err != nil {
		return nil, err
	}
	// A JSON null decodes to a nil slice.
	if students == nil {
		students = make([]types.Student, 0)
	}

	return students, nil
}

func (c *Client) GetStudent(ctx context.Context, id int64) (types.Student, error) {
	const op = "GetStudent"

	var student types.Student
	if err := c.do(ctx, op, http.MethodGet, studentPath(id), nil, &student); err != nil {
		return types.Student{}, err
	}

	return student, nil
}

// CreateStudent posts the student and returns the stored record. Fields
// the server leaves out of its answer are filled from what was sent; the
// id is never filled in locally.
func (c *Client) CreateStudent(ctx context.Context, student types.Student) (types.Student, error) {
	const op = "CreateStudent"

	var created types.Student
	if err := c.do(ctx, op, http.MethodPost, "/students", bodyOf(student), &created); err != nil {
		return types.Student{}, err
	}
	if created.ID == 0 {
		return types.Student{}, storage.ServerError(op, 0, errors.New("response carries no id"))
	}

	return fillMissing(created, student), nil
}

func (c *Client) UpdateStudent(ctx context.Context, id int64, student types.Student) (types.Student, error) {
	const op = "UpdateStudent"

	var updated types.Student
	if err := c.do(ctx, op, http.MethodPut, studentPath(id), bodyOf(student), &updated); err != nil {
		return types.Student{}, err
	}
	updated.ID = id

	return fillMissing(updated, student), nil
}

func (c *Client) DeleteStudent(ctx context.Context, id int64) error {
	return c.do(ctx, "DeleteStudent", http.MethodDelete, studentPath(id), nil, nil)
}

func studentPath(id int64) string {
	return "/students/" + strconv.FormatInt(id, 10)
}

func fillMissing(got, sent types.Student) types.Student {
	if got.Name == "" {
		got.Name = sent.Name
	}
	if got.Email == "" {
		got.Email = sent.Email
	}
	if got.Age == 0 {
		got.Age = sent.Age
	}
	return got
}

// do performs one round trip. in, when non-nil, is sent as the JSON body;
// out, when non-nil, receives the decoded response. An empty response
// body leaves out untouched.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return storage.NetworkError(op, err)
	}
	defer resp.Body.Close()

	slog.Debug("students api call",
		slog.String("op", op),
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("took", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		cause := fmt.Errorf("%s %s: %s", method, path, strings.TrimSpace(string(msg)))
		if resp.StatusCode == http.StatusNotFound {
			cause = fmt.Errorf("%w: %s %s", storage.ErrNotFound, method, path)
		}
		return storage.ServerError(op, resp.StatusCode, cause)
	}

	if out == nil {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return storage.NetworkError(op, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return storage.ServerError(op, resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}

	return nil
}
