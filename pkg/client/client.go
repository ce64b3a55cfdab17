// Package client - HTTP-клиент API задач и локальная фильтрация
// кэшированного списка, повторяющая серверную семантику.
package client

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
)

// Task - представление задачи на стороне клиента,
// зеркало JSON-ответа сервера
type Task struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Note      *string   `json:"note"`
	Priority  string    `json:"priority"`
	Category  *string   `json:"category"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Stats struct {
	Total      int            `json:"total"`
	Completed  int            `json:"completed"`
	Pending    int            `json:"pending"`
	ByPriority map[string]int `json:"by_priority"`
	Categories []string       `json:"categories"`
}

type CreateTaskRequest struct {
	Title    string  `json:"title"`
	Note     *string `json:"note,omitempty"`
	Priority *string `json:"priority,omitempty"`
	Category *string `json:"category,omitempty"`
}

type UpdateTaskRequest struct {
	Title     *string `json:"title,omitempty"`
	Note      *string `json:"note,omitempty"`
	Priority  *string `json:"priority,omitempty"`
	Category  *string `json:"category,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// ListQuery - серверные параметры выборки (GET /todos)
type ListQuery struct {
	Status    string
	Priority  string
	Category  string
	Search    string
	SortBy    string
	SortOrder string
}

// APIError - ошибка, которую вернул сервер.
// Errors заполнен только для 422
type APIError struct {
	StatusCode int
	Message    string              `json:"message"`
	Errors     map[string][]string `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

func (e *APIError) IsValidation() bool {
	return e.StatusCode == http.StatusUnprocessableEntity
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Tasks(ctx context.Context, q ListQuery) ([]Task, error) {
	values := url.Values{}
	setIfNotEmpty(values, "status", q.Status)
	setIfNotEmpty(values, "priority", q.Priority)
	setIfNotEmpty(values, "category", q.Category)
	setIfNotEmpty(values, "search", q.Search)
	setIfNotEmpty(values, "sort_by", q.SortBy)
	setIfNotEmpty(values, "sort_order", q.SortOrder)

	path := "/todos"
	if len(values) > 0 {
		path += "?" + values.Encode()
	}

	var tasks []Task
	if err := c.do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) Task(ctx context.Context, id int64) (*Task, error) {
	var t Task
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/todos/%d", id), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) Create(ctx context.Context, req CreateTaskRequest) (*Task, error) {
	var t Task
	if err := c.do(ctx, http.MethodPost, "/todos", req, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) Update(ctx context.Context, id int64, req UpdateTaskRequest) (*Task, error) {
	var t Task
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/todos/%d", id), req, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) Toggle(ctx context.Context, id int64) (*Task, error) {
	var t Task
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/todos/%d/toggle", id), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/todos/%d", id), nil, nil)
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	if err := c.do(ctx, http.MethodGet, "/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("кодирование запроса: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("создание запроса: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("запрос к серверу: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: "неизвестная ошибка"}
		json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("разбор ответа: %w", err)
		}
	}
	return nil
}

func setIfNotEmpty(values url.Values, key, value string) {
	if value != "" {
		values.Set(key, value)
	}
}
