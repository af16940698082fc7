package setup

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// TruncateAllTables truncates all tables in correct order (children first, then parents)
func TruncateAllTables(t *testing.T, db *pgxpool.Pool, ctx context.Context) {
	t.Log("Truncating all database tables...")

	_, err := db.Exec(ctx, "TRUNCATE TABLE comments CASCADE")
	require.NoError(t, err, "failed to truncate table comments")

	t.Log("All database tables truncated successfully")
}

// FlushRedis removes every key so visit log tests start from a clean slate
func FlushRedis(t *testing.T, client *redis.Client, ctx context.Context) {
	require.NoError(t, client.FlushAll(ctx).Err(), "failed to flush redis")
}

// CreateJSONRequest creates a test request with JSON body
func CreateJSONRequest(method, url string, jsonBody []byte) *http.Request {
	req := httptest.NewRequest(method, url, bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// ParseJSONBody decodes a response body into out and fails the test on error
func ParseJSONBody(t *testing.T, res *http.Response, out interface{}) {
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err, "failed to read response body")
	require.NoError(t, json.Unmarshal(body, out), "failed to decode response body: %s", string(body))
}
