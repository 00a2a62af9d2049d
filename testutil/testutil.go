// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/holiday-tree/auth"
	"github.com/danielhkuo/holiday-tree/cliparse"
	"github.com/danielhkuo/holiday-tree/db"
	"github.com/danielhkuo/holiday-tree/middleware"
)

// TestDBURL is an in-memory SQLite database private to one connection
const TestDBURL = ":memory:"

const (
	TestJWTSecret = "test-jwt-secret-with-at-least-32-characters"
	TestAdminKey  = "test-admin-key"
)

// SetupTestDB opens a fresh database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.DriverSQLite, TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  TestDBURL,
		DatabaseType: db.DriverSQLite,
		JWTSecret:    TestJWTSecret,
		AdminKey:     TestAdminKey,
		MaxOrnaments: 50,
	}
}

// CreateTestUser returns a fresh user id without a profile
func CreateTestUser(t *testing.T) string {
	t.Helper()
	return auth.NewUserID()
}

// CreateTestProfile inserts a profile and returns its user id
func CreateTestProfile(t *testing.T, conn *sql.DB, nickname string) string {
	t.Helper()

	userID := auth.NewUserID()
	_, err := conn.Exec(`
		INSERT INTO profiles (id, nickname, created_at)
		VALUES ($1, $2, $3)
	`, userID, nickname, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test profile: %v", err)
	}

	return userID
}

// CreateTestMessage posts a guestbook message and returns its id
func CreateTestMessage(t *testing.T, conn *sql.DB, userID, content string) int64 {
	t.Helper()

	var id int64
	err := conn.QueryRow(`
		INSERT INTO messages (user_id, content, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, userID, content, time.Now().UTC()).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test message: %v", err)
	}

	return id
}

// JoinTestManito adds the user to the Manito participants
func JoinTestManito(t *testing.T, conn *sql.DB, userID string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO manito_participants (user_id, joined_at)
		VALUES ($1, $2)
	`, userID, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to join test participant: %v", err)
	}
}

// BearerHeader returns an Authorization header for userID
func BearerHeader(t *testing.T, userID string) map[string]string {
	t.Helper()

	token, err := auth.IssueUserToken(userID, TestJWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// AsUser attaches an authenticated user id to the request, as
// middleware.RequireUser would
func AsUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
