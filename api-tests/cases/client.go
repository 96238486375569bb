// Package tests chạy kịch bản API trên server đang chạy.
//
// Cần hai biến môi trường:
//
//	STUDIO_API_BASE_URL  ví dụ http://localhost:8080/api/v1
//	STUDIO_API_TOKEN     access token của người dùng đã có tổ chức
//
// Thiếu một trong hai thì mọi test được skip.
package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"
)

// HTTPClient gọi API với bearer token
type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPClient tạo client với timeout tính bằng giây
func NewHTTPClient(baseURL string, timeoutSeconds int) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: time.Duration(timeoutSeconds) * time.Second},
	}
}

// SetToken đặt access token cho các request sau
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

func (c *HTTPClient) do(method, path string, payload interface{}) (*http.Response, []byte, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	return resp, data, err
}

func (c *HTTPClient) GET(path string) (*http.Response, []byte, error) {
	return c.do(http.MethodGet, path, nil)
}

func (c *HTTPClient) POST(path string, payload interface{}) (*http.Response, []byte, error) {
	return c.do(http.MethodPost, path, payload)
}

func (c *HTTPClient) PUT(path string, payload interface{}) (*http.Response, []byte, error) {
	return c.do(http.MethodPut, path, payload)
}

func (c *HTTPClient) DELETE(path string) (*http.Response, []byte, error) {
	return c.do(http.MethodDelete, path, nil)
}

// liveClient trả về client đã gắn token, skip test nếu chưa cấu hình server
func liveClient(t *testing.T) *HTTPClient {
	t.Helper()
	baseURL := os.Getenv("STUDIO_API_BASE_URL")
	token := os.Getenv("STUDIO_API_TOKEN")
	if baseURL == "" || token == "" {
		t.Skip("STUDIO_API_BASE_URL/STUDIO_API_TOKEN chưa được set")
	}
	waitForHealth(baseURL, 10, time.Second, t)
	client := NewHTTPClient(baseURL, 10)
	client.SetToken(token)
	return client
}

// waitForHealth chờ /system/health trả 200
func waitForHealth(baseURL string, attempts int, delay time.Duration, t *testing.T) {
	t.Helper()
	c := NewHTTPClient(baseURL, 5)
	for i := 0; i < attempts; i++ {
		resp, _, err := c.GET("/system/health")
		if err == nil && resp.StatusCode == http.StatusOK {
			return
		}
		time.Sleep(delay)
	}
	t.Fatalf("❌ Server tại %s không phản hồi health check", baseURL)
}

// dataOf đọc trường data của envelope thành công
func dataOf(t *testing.T, body []byte) map[string]interface{} {
	t.Helper()
	var result struct {
		Status string                 `json:"status"`
		Data   map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("❌ Không parse được JSON response: %v (%s)", err, string(body))
	}
	if result.Status != "success" {
		t.Fatalf("❌ Response không thành công: %s", string(body))
	}
	return result.Data
}

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s %d", prefix, time.Now().UnixNano())
}
