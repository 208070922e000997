package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doJSON(t *testing.T, method, path, token string, body any) (*fiber.App, int, map[string]json.RawMessage) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := testApp.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &fields))
	}
	return testApp, resp.StatusCode, fields
}

func loginAdmin(t *testing.T) string {
	t.Helper()
	_, status, fields := doJSON(t, "POST", "/api/auth/login", "", map[string]string{
		"username": "admin",
		"secret":   "1234",
	})
	require.Equal(t, fiber.StatusOK, status)

	var token string
	require.NoError(t, json.Unmarshal(fields["token"], &token))
	require.NotEmpty(t, token)
	return token
}

func postMessage(t *testing.T, text string) uint {
	t.Helper()
	_, status, fields := doJSON(t, "POST", "/api/messages/", "", map[string]string{
		"author_label": "visitor",
		"text":         text,
	})
	require.Equal(t, fiber.StatusCreated, status)

	var id uint
	require.NoError(t, json.Unmarshal(fields["id"], &id))
	return id
}

func TestLogin_BootstrapAdmin(t *testing.T) {
	token := loginAdmin(t)
	assert.NotEmpty(t, token)
}

func TestLogin_BadCredentials(t *testing.T) {
	_, status, _ := doJSON(t, "POST", "/api/auth/login", "", map[string]string{
		"username": "admin",
		"secret":   "wrong",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestMessageLifecycle(t *testing.T) {
	token := loginAdmin(t)
	id := postMessage(t, "lifecycle message")

	t.Run("visible in listing", func(t *testing.T) {
		_, status, _ := doJSON(t, "GET", "/api/messages/", "", nil)
		assert.Equal(t, fiber.StatusOK, status)
	})

	t.Run("fetch by id", func(t *testing.T) {
		_, status, fields := doJSON(t, "GET", fmt.Sprintf("/api/messages/%d", id), "", nil)
		require.Equal(t, fiber.StatusOK, status)
		var text string
		require.NoError(t, json.Unmarshal(fields["text"], &text))
		assert.Equal(t, "lifecycle message", text)
	})

	t.Run("pin requires auth", func(t *testing.T) {
		_, status, _ := doJSON(t, "PUT", fmt.Sprintf("/api/messages/%d/pin", id), "", map[string]bool{"pinned": true})
		assert.Equal(t, fiber.StatusUnauthorized, status)
	})

	t.Run("admin pins", func(t *testing.T) {
		_, status, _ := doJSON(t, "PUT", fmt.Sprintf("/api/messages/%d/pin", id), token, map[string]bool{"pinned": true})
		assert.Equal(t, fiber.StatusOK, status)
	})

	t.Run("delete requires auth", func(t *testing.T) {
		_, status, _ := doJSON(t, "DELETE", fmt.Sprintf("/api/messages/%d", id), "", nil)
		assert.Equal(t, fiber.StatusUnauthorized, status)
	})

	t.Run("admin deletes", func(t *testing.T) {
		_, status, _ := doJSON(t, "DELETE", fmt.Sprintf("/api/messages/%d", id), token, nil)
		assert.Equal(t, fiber.StatusNoContent, status)

		_, status, _ = doJSON(t, "GET", fmt.Sprintf("/api/messages/%d", id), "", nil)
		assert.Equal(t, fiber.StatusNotFound, status)
	})
}

func TestPostMessage_Validation(t *testing.T) {
	_, status, _ := doJSON(t, "POST", "/api/messages/", "", map[string]string{"text": "   "})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestReactions(t *testing.T) {
	id := postMessage(t, "react here")

	for i := 1; i <= 3; i++ {
		_, status, fields := doJSON(t, "POST", fmt.Sprintf("/api/messages/%d/reactions", id), "", map[string]string{"emoji": "❤️"})
		require.Equal(t, fiber.StatusOK, status)

		var count int64
		require.NoError(t, json.Unmarshal(fields["count"], &count))
		assert.Equal(t, int64(i), count)
	}

	_, status, fields := doJSON(t, "GET", fmt.Sprintf("/api/messages/%d/reactions", id), "", nil)
	require.Equal(t, fiber.StatusOK, status)

	var count int64
	require.NoError(t, json.Unmarshal(fields["❤️"], &count))
	assert.Equal(t, int64(3), count)

	t.Run("unknown message 404s", func(t *testing.T) {
		_, status, _ := doJSON(t, "POST", "/api/messages/999999/reactions", "", map[string]string{"emoji": "❤️"})
		assert.Equal(t, fiber.StatusNotFound, status)
	})
}

func TestReplies(t *testing.T) {
	token := loginAdmin(t)
	id := postMessage(t, "discuss")

	_, status, fields := doJSON(t, "POST", fmt.Sprintf("/api/messages/%d/replies", id), "", map[string]string{
		"nickname": "fan",
		"text":     "first!",
	})
	require.Equal(t, fiber.StatusCreated, status)

	var replyID uint
	require.NoError(t, json.Unmarshal(fields["id"], &replyID))

	t.Run("admin reply carries identity", func(t *testing.T) {
		_, status, fields := doJSON(t, "POST", fmt.Sprintf("/api/messages/%d/replies", id), token, map[string]any{
			"parent_reply_id": replyID,
			"text":            "welcome",
		})
		require.Equal(t, fiber.StatusCreated, status)

		var fromAdmin bool
		require.NoError(t, json.Unmarshal(fields["from_admin"], &fromAdmin))
		assert.True(t, fromAdmin)
	})

	t.Run("visitor cannot nest", func(t *testing.T) {
		_, status, _ := doJSON(t, "POST", fmt.Sprintf("/api/messages/%d/replies", id), "", map[string]any{
			"parent_reply_id": replyID,
			"text":            "me too",
		})
		assert.Equal(t, fiber.StatusUnauthorized, status)
	})

	t.Run("list replies", func(t *testing.T) {
		req := httptest.NewRequest("GET", fmt.Sprintf("/api/messages/%d/replies", id), nil)
		resp, err := testApp.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var replies []map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&replies))
		assert.Len(t, replies, 2)
	})

	t.Run("admin edits and deletes", func(t *testing.T) {
		_, status, _ := doJSON(t, "PUT", fmt.Sprintf("/api/replies/%d", replyID), token, map[string]string{"text": "edited"})
		assert.Equal(t, fiber.StatusOK, status)

		_, status, _ = doJSON(t, "DELETE", fmt.Sprintf("/api/replies/%d", replyID), token, nil)
		assert.Equal(t, fiber.StatusNoContent, status)
	})
}

func TestProfile(t *testing.T) {
	token := loginAdmin(t)

	_, status, fields := doJSON(t, "PUT", "/api/profile/", token, map[string]string{"bio": "board keeper"})
	require.Equal(t, fiber.StatusOK, status)

	var bio string
	require.NoError(t, json.Unmarshal(fields["bio"], &bio))
	assert.Equal(t, "board keeper", bio)

	_, status, fields = doJSON(t, "GET", "/api/profile/admin", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	// The stored secret never leaves the API.
	_, leaked := fields["secret"]
	assert.False(t, leaked)
}

func TestSignup(t *testing.T) {
	_, status, _ := doJSON(t, "POST", "/api/auth/signup", "", map[string]string{
		"username":     "second-admin",
		"secret":       "pw",
		"display_name": "Second",
	})
	assert.Equal(t, fiber.StatusCreated, status)

	t.Run("duplicate conflicts", func(t *testing.T) {
		_, status, _ := doJSON(t, "POST", "/api/auth/signup", "", map[string]string{
			"username":     "second-admin",
			"secret":       "pw",
			"display_name": "Second",
		})
		assert.Equal(t, fiber.StatusConflict, status)
	})
}

func TestHealth(t *testing.T) {
	_, status, fields := doJSON(t, "GET", "/health/ready", "", nil)
	assert.Equal(t, fiber.StatusOK, status)

	var overall string
	require.NoError(t, json.Unmarshal(fields["status"], &overall))
	assert.Equal(t, "ok", overall)

	_, status, _ = doJSON(t, "GET", "/health/live", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestInvalidID(t *testing.T) {
	_, status, _ := doJSON(t, "GET", "/api/messages/not-a-number", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}
