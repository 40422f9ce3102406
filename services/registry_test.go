package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chat-api/confs"
	"chat-api/db"
	"chat-api/entities"
	"chat-api/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) db.Database {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gormDB))
	t.Cleanup(func() { sqlDB.Close() })

	return &db.GormDatabase{DB: gormDB}
}

func registryConfig(url string) *confs.Config {
	return &confs.Config{
		SecretKey:     "test-secret",
		HotkeysAPIURL: url,
		HotkeysAPIKey: "test-key",
		SyncInterval:  time.Minute,
	}
}

func TestSyncOnce_UpsertsAndDeactivates(t *testing.T) {
	database := openTestDB(t)

	// uid 1 will disappear from the registry; uid 2 gets new fields.
	require.NoError(t, database.GetDB().Create(&entities.Validator{
		UID: 1, Name: "gone", Hotkey: "hk-1", IP: "10.0.0.1", Port: 8001, IsActive: true,
	}).Error)
	require.NoError(t, database.GetDB().Create(&entities.Validator{
		UID: 2, Name: "stale", Hotkey: "hk-2", IP: "10.0.0.2", Port: 8002, IsActive: true,
	}).Error)

	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/validators/endpoints", r.URL.Path)
		gotKey = r.Header.Get("x-api-key")
		json.NewEncoder(w).Encode([]map[string]any{
			{"uid": 2, "name": "fresh", "hotkey": "hk-2", "ip": "10.0.0.20", "port": 9002},
			{"uid": 3, "name": "new", "hotkey": "hk-3", "ip": "10.0.0.3", "port": 8003},
		})
	}))
	defer srv.Close()

	sync := NewRegistrySync(database, registryConfig(srv.URL), zap.NewNop())
	require.NoError(t, sync.SyncOnce(context.Background()))

	assert.Equal(t, "test-key", gotKey)

	repo := repositories.NewValidatorPgRepository(database)

	gone, err := repo.GetByUID(1)
	require.NoError(t, err)
	assert.False(t, gone.IsActive)

	fresh, err := repo.GetByUID(2)
	require.NoError(t, err)
	assert.True(t, fresh.IsActive)
	assert.Equal(t, "fresh", fresh.Name)
	assert.Equal(t, "10.0.0.20", fresh.IP)
	assert.Equal(t, 9002, fresh.Port)

	added, err := repo.GetByUID(3)
	require.NoError(t, err)
	assert.True(t, added.IsActive)
}

func TestSyncOnce_RegistryErrorLeavesStateUntouched(t *testing.T) {
	database := openTestDB(t)

	require.NoError(t, database.GetDB().Create(&entities.Validator{
		UID: 1, Name: "keep", Hotkey: "hk-1", IP: "10.0.0.1", Port: 8001, IsActive: true,
	}).Error)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	sync := NewRegistrySync(database, registryConfig(srv.URL), zap.NewNop())
	require.Error(t, sync.SyncOnce(context.Background()))

	repo := repositories.NewValidatorPgRepository(database)
	kept, err := repo.GetByUID(1)
	require.NoError(t, err)
	assert.True(t, kept.IsActive)
}

func TestSyncOnce_MalformedPayload(t *testing.T) {
	database := openTestDB(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not a list}"))
	}))
	defer srv.Close()

	sync := NewRegistrySync(database, registryConfig(srv.URL), zap.NewNop())
	require.Error(t, sync.SyncOnce(context.Background()))
}

func TestRun_StopsOnCancel(t *testing.T) {
	database := openTestDB(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{})
	}))
	defer srv.Close()

	cfg := registryConfig(srv.URL)
	cfg.SyncInterval = 10 * time.Millisecond
	sync := NewRegistrySync(database, cfg, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sync.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}
