package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStudioFlow tạo cây project → episode → part, ghi nội dung rồi xóa dây chuyền
func TestStudioFlow(t *testing.T) {
	client := liveClient(t)

	var projectID, episodeID, partID string

	t.Run("📁 Tạo cây project", func(t *testing.T) {
		resp, body, err := client.POST("/projects", map[string]interface{}{"name": uniqueName("API test")})
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
		projectID, _ = dataOf(t, body)["id"].(string)

		resp, body, err = client.POST(fmt.Sprintf("/projects/%s/episodes", projectID), map[string]interface{}{"episodeNumber": 1})
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
		episodeID, _ = dataOf(t, body)["id"].(string)

		resp, body, err = client.POST(fmt.Sprintf("/projects/%s/episodes/%s/parts", projectID, episodeID), map[string]interface{}{"partNumber": 1, "title": "Mở đầu"})
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
		partID, _ = dataOf(t, body)["id"].(string)
	})

	t.Run("🎬 Phiên bản shot và lựa chọn", func(t *testing.T) {
		if partID == "" {
			t.Skip("Skipping: Chưa có part")
		}
		var first string
		for i := 0; i < 2; i++ {
			resp, body, err := client.POST("/content", map[string]interface{}{"type": "shot", "partId": partID, "content": fmt.Sprintf(`{"v":%d}`, i)})
			require.NoError(t, err)
			require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
			if i == 0 {
				first, _ = dataOf(t, body)["id"].(string)
			}
		}

		resp, body, err := client.POST(fmt.Sprintf("/content/%s/select", first), nil)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

		resp, body, err = client.GET(fmt.Sprintf("/content/by-part/%s?type=shot", partID))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var result struct {
			Data []struct {
				ID       string `json:"id"`
				Metadata struct {
					Selected bool `json:"selected"`
				} `json:"metadata"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(body, &result))
		selected := 0
		for _, item := range result.Data {
			if item.Metadata.Selected {
				selected++
				assert.Equal(t, first, item.ID)
			}
		}
		assert.Equal(t, 1, selected, "Chỉ một phiên bản shot được chọn")
	})

	t.Run("🖼️ Studio của part", func(t *testing.T) {
		if partID == "" {
			t.Skip("Skipping: Chưa có part")
		}
		resp, body, err := client.GET(fmt.Sprintf("/parts/%s/studio", partID))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		data := dataOf(t, body)
		for _, key := range []string{"part", "beats", "shots", "storyboards", "images", "clips", "characters", "locations", "props"} {
			assert.Contains(t, data, key)
		}
	})

	t.Run("🗑️ Xóa dây chuyền project", func(t *testing.T) {
		if projectID == "" {
			t.Skip("Skipping: Chưa có project")
		}
		resp, _, err := client.DELETE("/projects/" + projectID)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp, _, err = client.GET(fmt.Sprintf("/parts/%s/studio", partID))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
