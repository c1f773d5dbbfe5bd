package api

import (
	"bytes"
	"encoding/json"
	"io"
	"menu_system/internal/domain"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestDB opens an in-memory database with the schema migrated
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // A single connection keeps the in-memory DB alive
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Category{}, &domain.MenuItem{}))
	return db
}

// newTestRedis starts an in-process redis backed client
func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

// doJSON performs a request with an optional JSON body against the router
func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// envelope mirrors the response envelope for decoding in assertions
type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Errors     []FieldError    `json:"errors"`
	Count      int             `json:"count"`
	TotalItems int             `json:"totalItems"`
	Cached     bool            `json:"cached"`
}

// decodeEnvelope unmarshals a recorded response body
func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

// decodeData unmarshals the envelope's data payload into dest
func decodeData(t *testing.T, w *httptest.ResponseRecorder, dest any) envelope {
	t.Helper()
	env := decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, dest))
	return env
}

// mustCreateCategory inserts a category directly into the store
func mustCreateCategory(t *testing.T, db *gorm.DB, name string, order int) domain.Category {
	t.Helper()
	category := domain.Category{
		Name:     name,
		NameKey:  domain.NormalizeName(name),
		Order:    order,
		IsActive: true,
	}
	require.NoError(t, db.Create(&category).Error)
	return category
}

// mustCreateItem inserts a menu item directly into the store
func mustCreateItem(t *testing.T, db *gorm.DB, categoryID uint, name string, price float64) domain.MenuItem {
	t.Helper()
	item := domain.MenuItem{
		Name:        name,
		NameKey:     domain.NormalizeName(name),
		Description: "test item",
		Price:       price,
		CategoryID:  categoryID,
		IsAvailable: true,
	}
	require.NoError(t, db.Create(&item).Error)
	return item
}

// fieldNames extracts the field names from a validation error list
func fieldNames(errs []FieldError) []string {
	names := make([]string, 0, len(errs))
	for _, e := range errs {
		names = append(names, e.Field)
	}
	return names
}
