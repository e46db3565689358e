package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formify/internal/config"
	"github.com/goliatone/go-formify/internal/service"
	"github.com/goliatone/go-formify/internal/storage/jsonfile"
	"github.com/goliatone/go-formify/internal/storage/memory"
	"github.com/goliatone/go-formify/pkg/schema"
)

func baseConfig() config.Config {
	return config.Config{
		Env: config.EnvDevelopment,
		HTTP: config.HTTPConfig{
			Addr:        ":0",
			FrontendURL: "https://forms.example.com",
			CORSOrigin:  "*",
		},
		Store:  config.StoreConfig{Driver: config.DriverMemory},
		Drafts: config.DraftsConfig{TTL: time.Hour},
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	store, err := OpenStore(ctx, config.StoreConfig{Driver: config.DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, store)

	path := filepath.Join(t.TempDir(), "forms.json")
	store, err = OpenStore(ctx, config.StoreConfig{Driver: config.DriverJSON, Path: path})
	require.NoError(t, err)
	assert.IsType(t, &jsonfile.Store{}, store)
	require.NoError(t, store.Close())

	_, err = OpenStore(ctx, config.StoreConfig{Driver: "sqlite"})
	require.Error(t, err)
}

func TestOpenDrafts_DefaultsToMemory(t *testing.T) {
	drafts, closer, err := OpenDrafts(context.Background(), config.DraftsConfig{TTL: time.Hour})
	require.NoError(t, err)
	assert.Nil(t, closer)
	assert.IsType(t, &memory.DraftStore{}, drafts)
}

func TestNew_WiresServicesAndMetrics(t *testing.T) {
	application, err := New(context.Background(), baseConfig(), nil)
	require.NoError(t, err)
	defer func() { require.NoError(t, application.Close()) }()

	created, err := application.Forms.CreateForm(context.Background(), service.CreateFormRequest{
		Title: "Feedback",
		Steps: []service.StepInput{{Title: "One", Questions: []schema.Question{{Type: "paragraph", Label: "Notes"}}}},
	}, "")
	require.NoError(t, err)
	assert.Equal(t, "https://forms.example.com/form/"+created.FormID, created.SharableLink)

	rec := httptest.NewRecorder()
	application.Server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "formify_forms_created_total 1")
}

func TestRun_StopsOnCancel(t *testing.T) {
	cfg := baseConfig()
	cfg.HTTP.Addr = "127.0.0.1:0"
	application, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer application.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
