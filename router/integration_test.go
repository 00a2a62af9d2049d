// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/holiday-tree/handlers"
	"github.com/danielhkuo/holiday-tree/models"
	"github.com/danielhkuo/holiday-tree/testutil"
)

// TestFullHolidayWorkflow tests the complete end-to-end workflow:
// 1. Users choose nicknames
// 2. Users post guestbook messages
// 3. The tree shows every message
// 4. Users join the Manito
// 5. The admin runs the draw
// 6. Every user sees a receiver
// 7. Joining and drawing again are refused
func TestFullHolidayWorkflow(t *testing.T) {
	mux := newTestRouter(t)

	do := func(method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.MakeRequest(method, path, body, headers))
		return w
	}

	names := []string{"Dasher", "Dancer", "Prancer", "Vixen"}
	users := make([]string, len(names))
	tokens := make([]map[string]string, len(names))

	// Step 1: Choose nicknames
	for i, name := range names {
		users[i] = testutil.CreateTestUser(t)
		tokens[i] = testutil.BearerHeader(t, users[i])

		w := do("POST", "/api/profile", models.SetNicknameRequest{Nickname: name}, tokens[i])
		if w.Code != http.StatusCreated {
			t.Fatalf("Step 1 - Set nickname %s failed: %d - %s", name, w.Code, w.Body.String())
		}
	}

	// Step 2: Post messages
	for i := range users {
		w := do("POST", "/api/messages", models.PostMessageRequest{Content: fmt.Sprintf("Happy holidays from %s", names[i])}, tokens[i])
		if w.Code != http.StatusCreated {
			t.Fatalf("Step 2 - Post message failed: %d - %s", w.Code, w.Body.String())
		}
	}

	// Step 3: Tree
	w := do("GET", "/api/tree", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 3 - Get tree failed: %d", w.Code)
	}
	var tree models.TreeResponse
	testutil.AssertJSON(t, w, &tree)
	if len(tree.Ornaments) != len(users) {
		t.Fatalf("Step 3 - Expected %d ornaments, got %d", len(users), len(tree.Ornaments))
	}

	// Step 4: Join
	for i := range users {
		w := do("POST", "/api/manito/participants", nil, tokens[i])
		if w.Code != http.StatusCreated {
			t.Fatalf("Step 4 - Join failed: %d - %s", w.Code, w.Body.String())
		}
	}

	// Step 5: Draw
	w = do("POST", "/manito/run-matching", nil, map[string]string{handlers.AdminKeyHeader: testutil.TestAdminKey})
	if w.Code != http.StatusOK {
		t.Fatalf("Step 5 - Run matching failed: %d - %s", w.Code, w.Body.String())
	}
	var runResp models.RunMatchingResponse
	testutil.AssertJSON(t, w, &runResp)
	if runResp.MatchesCount != len(users) {
		t.Errorf("Step 5 - Expected %d matches, got %d", len(users), runResp.MatchesCount)
	}

	// Step 6: Everyone has a receiver, and receivers form a permutation
	received := map[string]bool{}
	for i := range users {
		w := do("GET", "/api/manito/me", nil, tokens[i])
		var status models.ManitoStatusResponse
		testutil.AssertJSON(t, w, &status)
		if status.Match == nil {
			t.Fatalf("Step 6 - %s has no receiver", names[i])
		}
		if status.Match.ReceiverUserID == users[i] {
			t.Errorf("Step 6 - %s drew themselves", names[i])
		}
		received[status.Match.ReceiverUserID] = true
	}
	if len(received) != len(users) {
		t.Errorf("Step 6 - Expected %d distinct receivers, got %d", len(users), len(received))
	}

	// Step 7: Late join and second draw are refused
	late := testutil.CreateTestUser(t)
	lateToken := testutil.BearerHeader(t, late)
	do("POST", "/api/profile", models.SetNicknameRequest{Nickname: "Rudolph"}, lateToken)
	if w := do("POST", "/api/manito/participants", nil, lateToken); w.Code != http.StatusConflict {
		t.Errorf("Step 7 - Expected late join to be refused, got %d", w.Code)
	}
	if w := do("POST", "/manito/run-matching", nil, map[string]string{handlers.AdminKeyHeader: testutil.TestAdminKey}); w.Code != http.StatusBadRequest {
		t.Errorf("Step 7 - Expected second draw to be refused, got %d", w.Code)
	}
}
