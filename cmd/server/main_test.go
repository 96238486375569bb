package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"story_studio/config"
	authsvc "story_studio/internal/api/auth/service"
	basesvc "story_studio/internal/api/base/service"
	"story_studio/internal/global"
)

type stubVerifier struct{}

func (stubVerifier) Verify(_ context.Context, idToken string) (*authsvc.Identity, error) {
	return &authsvc.Identity{
		Provider: authsvc.ProviderGoogle,
		Subject:  "google-" + idToken,
		Email:    idToken + "@example.com",
		Name:     idToken,
	}, nil
}

type envelope struct {
	Code    interface{}     `json:"code"`
	Message string          `json:"message"`
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
}

type client struct {
	t     *testing.T
	app   *fiber.App
	token string
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	basesvc.UseMemoryStorage()
	basesvc.ResetMemoryStorage()
	global.InitValidator()

	cfg := &config.Configuration{
		JwtSecret:                "test-secret",
		AccessTokenExpireMinutes: 60,
		StorageDriver:            config.StorageMemory,
		CORS_Origins:             "*",
		RateLimit_Enabled:        false,
	}
	global.MongoDB_ServerConfig = cfg

	svc, err := InitServices(cfg, stubVerifier{})
	require.NoError(t, err)
	t.Cleanup(svc.Close)
	app, err := InitFiberApp(cfg, svc)
	require.NoError(t, err)
	return app
}

func (c *client) do(method, path string, body interface{}) (int, *envelope) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.app.Test(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	if len(raw) == 0 {
		return resp.StatusCode, nil
	}
	var env envelope
	require.NoError(c.t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, &env
}

func decode[T any](t *testing.T, env *envelope) T {
	t.Helper()
	var out T
	require.NotNil(t, env)
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

type idOnly struct {
	ID string `json:"id"`
}

func login(t *testing.T, app *fiber.App, who string) *client {
	t.Helper()
	c := &client{t: t, app: app}
	status, env := c.do(http.MethodPost, "/auth/google", map[string]string{"idToken": who})
	require.Equal(t, http.StatusOK, status)
	out := decode[struct {
		AccessToken string `json:"accessToken"`
	}](t, env)
	require.NotEmpty(t, out.AccessToken)
	c.token = out.AccessToken
	return c
}

func TestHealthAndUnauthorized(t *testing.T) {
	app := newTestApp(t)
	anon := &client{t: t, app: app}

	status, env := anon.do(http.MethodGet, "/system/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", env.Status)

	status, env = anon.do(http.MethodGet, "/projects", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "error", env.Status)

	anon.token = "not-a-token"
	status, _ = anon.do(http.MethodGet, "/content/by-part/"+"000000000000000000000000", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestStudioFlow(t *testing.T) {
	app := newTestApp(t)
	c := login(t, app, "director")

	// Chưa có tổ chức
	status, _ := c.do(http.MethodGet, "/projects", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = c.do(http.MethodPost, "/organizations", map[string]string{"name": "Xưởng phim"})
	require.Equal(t, http.StatusCreated, status)

	status, env := c.do(http.MethodPost, "/projects", map[string]string{"name": "Pilot"})
	require.Equal(t, http.StatusCreated, status)
	project := decode[idOnly](t, env)

	status, env = c.do(http.MethodPost, "/projects/"+project.ID+"/episodes", map[string]int{"episodeNumber": 1})
	require.Equal(t, http.StatusCreated, status)
	episode := decode[idOnly](t, env)

	partsPath := "/projects/" + project.ID + "/episodes/" + episode.ID + "/parts"
	status, env = c.do(http.MethodPost, partsPath, map[string]interface{}{"partNumber": 1, "title": "Cold open"})
	require.Equal(t, http.StatusCreated, status)
	part := decode[idOnly](t, env)

	// Hai phiên bản shot: phiên bản mới được chọn
	status, env = c.do(http.MethodPost, "/content", map[string]string{"type": "shot", "partId": part.ID, "content": "v1"})
	require.Equal(t, http.StatusCreated, status)
	shot1 := decode[idOnly](t, env)
	status, _ = c.do(http.MethodPost, "/content", map[string]string{"type": "shot", "partId": part.ID, "content": "v2"})
	require.Equal(t, http.StatusCreated, status)

	status, env = c.do(http.MethodPost, "/content/"+shot1.ID+"/select", nil)
	require.Equal(t, http.StatusOK, status)
	selected := decode[struct {
		Type     string `json:"type"`
		Metadata struct {
			Selected bool `json:"selected"`
		} `json:"metadata"`
	}](t, env)
	assert.Equal(t, "shot", selected.Type)
	assert.True(t, selected.Metadata.Selected)

	status, env = c.do(http.MethodGet, "/content/by-part/"+part.ID+"?type=shot", nil)
	require.Equal(t, http.StatusOK, status)
	shots := decode[[]struct {
		ID       string `json:"id"`
		Metadata struct {
			Selected bool `json:"selected"`
		} `json:"metadata"`
	}](t, env)
	require.Len(t, shots, 2)
	for _, s := range shots {
		assert.Equal(t, s.ID == shot1.ID, s.Metadata.Selected, s.ID)
	}

	status, _ = c.do(http.MethodPost, "/content", map[string]string{"type": "scene", "partId": part.ID})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = c.do(http.MethodPost, "/media", map[string]string{"type": "image", "partId": part.ID, "url": "https://cdn.example.com/1.png"})
	require.Equal(t, http.StatusCreated, status)

	status, _ = c.do(http.MethodPost, "/assets/characters", map[string]string{"projectId": project.ID, "name": "Host"})
	require.Equal(t, http.StatusCreated, status)
	status, _ = c.do(http.MethodGet, "/assets/vehicles/"+project.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, env = c.do(http.MethodGet, "/parts/"+part.ID+"/studio", nil)
	require.Equal(t, http.StatusOK, status)
	studio := decode[struct {
		Shots      []json.RawMessage `json:"shots"`
		Images     []json.RawMessage `json:"images"`
		Characters []json.RawMessage `json:"characters"`
	}](t, env)
	assert.Len(t, studio.Shots, 2)
	assert.Len(t, studio.Images, 1)
	assert.Len(t, studio.Characters, 1)

	status, env = c.do(http.MethodGet, "/combined/projects/"+project.ID+"/overview", nil)
	require.Equal(t, http.StatusOK, status)
	overview := decode[struct {
		Episodes []struct {
			Parts []struct {
				ShotCount  int `json:"shotCount"`
				ImageCount int `json:"imageCount"`
			} `json:"parts"`
		} `json:"episodes"`
	}](t, env)
	require.Len(t, overview.Episodes, 1)
	require.Len(t, overview.Episodes[0].Parts, 1)
	assert.Equal(t, 2, overview.Episodes[0].Parts[0].ShotCount)
	assert.Equal(t, 1, overview.Episodes[0].Parts[0].ImageCount)

	// Người dùng khác tổ chức không thấy dữ liệu
	other := login(t, app, "stranger")
	status, _ = other.do(http.MethodPost, "/organizations", map[string]string{"name": "Khác"})
	require.Equal(t, http.StatusCreated, status)
	status, _ = other.do(http.MethodGet, "/parts/"+part.ID+"/studio", nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = other.do(http.MethodDelete, "/projects/"+project.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, env = c.do(http.MethodDelete, "/projects/"+project.ID, nil)
	assert.Equal(t, http.StatusNoContent, status)
	assert.Nil(t, env)
	status, _ = c.do(http.MethodGet, "/content/"+shot1.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = c.do(http.MethodGet, "/projects/"+project.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)
}
