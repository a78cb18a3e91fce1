package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gratifpanel/internal/config"
)

func postLogin(t *testing.T, h *AuthHandler, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	return rec
}

func TestLogin(t *testing.T) {
	cfg := &config.Config{Users: config.ParseAllowedUsers("ana@org.br:s3nha")}
	h := NewAuthHandler(cfg)

	t.Run("success echoes the email", func(t *testing.T) {
		rec := postLogin(t, h, "Ana@org.br", "s3nha")

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, true, body["ok"])
		assert.Equal(t, "Ana@org.br", body["email"])
	})

	t.Run("wrong password is 401", func(t *testing.T) {
		rec := postLogin(t, h, "ana@org.br", "errada")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown email is 401", func(t *testing.T) {
		rec := postLogin(t, h, "outro@org.br", "s3nha")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("empty allow-list is 403", func(t *testing.T) {
		empty := NewAuthHandler(&config.Config{Users: map[string]string{}})
		rec := postLogin(t, empty, "ana@org.br", "s3nha")

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing fields are 400", func(t *testing.T) {
		rec := postLogin(t, h, "", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
