package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"restoran/internal/config"
	"restoran/internal/models"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	v.Set("APP_ENV", "test")
	v.Set("DB_DRIVER", "sqlite")
	v.Set("DB_DSN", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	v.Set("JWT_SECRET", "test_jwt_secret")
	v.Set("ADMIN_PASSWORD", "admin-secret")
	v.Set("MENU_SEED_FILE", "data/menu.yaml")

	cfg := config.FromViper(v)
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestSetup(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv, err := setup(ctx, testConfig(t), zap.NewNop().Sugar())
	require.NoError(t, err)
	defer srv.close()
	assert.Nil(t, srv.broker)

	resp, err := srv.http.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// The menu is seeded from data/menu.yaml.
	resp, err = srv.http.Test(httptest.NewRequest(http.MethodGet, "/api/menu", nil), -1)
	require.NoError(t, err)
	var menu []models.MenuItem
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&menu))
	resp.Body.Close()
	assert.NotEmpty(t, menu)

	// The seeded admin can sign in.
	body, _ := json.Marshal(map[string]string{"email": "admin@restoran.local", "password": "admin-secret"})
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = srv.http.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestSetupRequiresAdminEmail(t *testing.T) {
	cfg := testConfig(t)
	cfg.Admin.Email = ""

	_, err := setup(context.Background(), cfg, zap.NewNop().Sugar())
	assert.Error(t, err)
}

func TestSetupReleasesConnectionsOnFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.Admin.Email = ""

	core, logs := observer.New(zap.WarnLevel)
	srv, err := setup(context.Background(), cfg, zap.New(core).Sugar())
	require.Error(t, err)
	assert.Nil(t, srv)
	assert.Equal(t, 1, logs.FilterMessage("setup failed, releasing connections").Len())
}
