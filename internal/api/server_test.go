package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pocketbank-dev/pocketbank/internal/app/economy"
	"github.com/pocketbank-dev/pocketbank/internal/infra/sqlite"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	srv := NewServer(economy.New(economy.DefaultConfig(), db))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

// doJSON posts body to path and decodes the response into out (when non-nil).
func doJSON(t *testing.T, method, url string, body interface{}, out interface{}) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp.StatusCode
}

func createAccount(t *testing.T, ts *httptest.Server, name string) string {
	t.Helper()
	var a struct {
		ID string `json:"id"`
	}
	code := doJSON(t, "POST", ts.URL+"/api/accounts", map[string]string{"name": name}, &a)
	if code != http.StatusCreated {
		t.Fatalf("create account status = %d", code)
	}
	return a.ID
}

// fund credits amount through the quiz pipeline over HTTP.
func fund(t *testing.T, ts *httptest.Server, accountID string, amount int64) {
	t.Helper()
	var q struct {
		ID string `json:"id"`
	}
	doJSON(t, "POST", ts.URL+"/api/accounts/"+accountID+"/quiz",
		map[string]interface{}{"challenge_id": "seed", "reward": amount}, &q)
	doJSON(t, "POST", ts.URL+"/api/accounts/"+accountID+"/quiz/cashout", nil, nil)
	if code := doJSON(t, "POST", ts.URL+"/api/quiz/"+q.ID+"/approve", nil, nil); code != http.StatusOK {
		t.Fatalf("fund approve status = %d", code)
	}
}

func errorCode(t *testing.T, resp map[string]interface{}) string {
	t.Helper()
	e, ok := resp["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("no error object in %v", resp)
	}
	code, _ := e["code"].(string)
	return code
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d", resp.StatusCode)
	}
}

func TestAccountLifecycle(t *testing.T) {
	ts := newTestServer(t)
	id := createAccount(t, ts, "maya")

	var a struct {
		Name    string `json:"name"`
		Balance int64  `json:"balance"`
	}
	if code := doJSON(t, "GET", ts.URL+"/api/accounts/"+id, nil, &a); code != http.StatusOK {
		t.Fatalf("get status = %d", code)
	}
	if a.Name != "maya" || a.Balance != 0 {
		t.Errorf("account = %+v", a)
	}

	if code := doJSON(t, "DELETE", ts.URL+"/api/accounts/"+id, nil, nil); code != http.StatusNoContent {
		t.Errorf("delete status = %d", code)
	}
	if code := doJSON(t, "GET", ts.URL+"/api/accounts/"+id, nil, nil); code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", code)
	}
}

func TestCreateAccount_ValidationStatus(t *testing.T) {
	ts := newTestServer(t)
	var resp map[string]interface{}
	code := doJSON(t, "POST", ts.URL+"/api/accounts", map[string]string{"name": ""}, &resp)
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
	if errorCode(t, resp) != "validation" {
		t.Errorf("error code = %q, want validation", errorCode(t, resp))
	}
}

func TestToggleTaskOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	id := createAccount(t, ts, "maya")
	base := ts.URL + "/api/accounts/" + id + "/weeks/2026-W07/HOME"

	var log struct {
		Completion map[string]bool `json:"completion"`
	}
	if code := doJSON(t, "GET", base, nil, &log); code != http.StatusOK {
		t.Fatalf("week tasks status = %d", code)
	}
	if len(log.Completion) == 0 || log.Completion["make_bed"] {
		t.Fatalf("fresh log = %v", log.Completion)
	}

	code := doJSON(t, "POST", base+"/toggle", map[string]interface{}{"task": "make_bed", "done": true}, &log)
	if code != http.StatusOK {
		t.Fatalf("toggle status = %d", code)
	}
	if !log.Completion["make_bed"] {
		t.Error("toggle did not mark task done")
	}

	var a struct {
		Balance int64 `json:"balance"`
	}
	doJSON(t, "GET", ts.URL+"/api/accounts/"+id, nil, &a)
	if a.Balance != 5 {
		t.Errorf("balance = %d, want 5", a.Balance)
	}

	// Unknown task key is a 400.
	var resp map[string]interface{}
	code = doJSON(t, "POST", base+"/toggle", map[string]interface{}{"task": "wash_car", "done": true}, &resp)
	if code != http.StatusBadRequest {
		t.Errorf("unknown task status = %d, want 400", code)
	}
}

func TestQuizFlowOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	id := createAccount(t, ts, "maya")

	var q struct {
		ID    string `json:"id"`
		State string `json:"state"`
	}
	code := doJSON(t, "POST", ts.URL+"/api/accounts/"+id+"/quiz",
		map[string]interface{}{"challenge_id": "math-sprint", "reward": 8, "preview": "4/5"}, &q)
	if code != http.StatusCreated || q.State != "IN_BAG" {
		t.Fatalf("capture = %d %+v", code, q)
	}

	var moved struct {
		Moved int `json:"moved"`
	}
	doJSON(t, "POST", ts.URL+"/api/accounts/"+id+"/quiz/cashout", nil, &moved)
	if moved.Moved != 1 {
		t.Fatalf("cashout moved = %d", moved.Moved)
	}

	if code := doJSON(t, "POST", ts.URL+"/api/quiz/"+q.ID+"/approve", nil, nil); code != http.StatusOK {
		t.Fatalf("approve status = %d", code)
	}

	// Settled rows cannot be decided again.
	var resp map[string]interface{}
	code = doJSON(t, "POST", ts.URL+"/api/quiz/"+q.ID+"/reject", nil, &resp)
	if code != http.StatusConflict {
		t.Fatalf("reject after approve = %d, want 409", code)
	}
	if errorCode(t, resp) != "invalid_transition" {
		t.Errorf("error code = %q, want invalid_transition", errorCode(t, resp))
	}
}

func TestExpenseFlowOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	id := createAccount(t, ts, "maya")
	fund(t, ts, id, 50)

	var e struct {
		ID string `json:"id"`
	}
	code := doJSON(t, "POST", ts.URL+"/api/accounts/"+id+"/expenses",
		map[string]interface{}{"amount": 30, "description": "lego set", "category": "WANT"}, &e)
	if code != http.StatusCreated {
		t.Fatalf("request status = %d", code)
	}

	if code := doJSON(t, "POST", ts.URL+"/api/expenses/"+e.ID+"/approve", nil, nil); code != http.StatusOK {
		t.Fatalf("approve status = %d", code)
	}
	if code := doJSON(t, "POST", ts.URL+"/api/expenses/"+e.ID+"/sentiment",
		map[string]string{"sentiment": "HAPPY"}, nil); code != http.StatusNoContent {
		t.Errorf("sentiment status = %d, want 204", code)
	}

	// Over-budget request surfaces as a 409 with a stable code.
	var resp map[string]interface{}
	code = doJSON(t, "POST", ts.URL+"/api/accounts/"+id+"/expenses",
		map[string]interface{}{"amount": 100, "description": "drone", "category": "WANT"}, &resp)
	if code != http.StatusConflict {
		t.Fatalf("over-budget status = %d, want 409", code)
	}
	if errorCode(t, resp) != "insufficient_balance" {
		t.Errorf("error code = %q, want insufficient_balance", errorCode(t, resp))
	}
}

func TestGoalFlowOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	id := createAccount(t, ts, "maya")
	fund(t, ts, id, 100)

	var g struct {
		ID      string `json:"id"`
		Current int64  `json:"current_amount"`
	}
	code := doJSON(t, "POST", ts.URL+"/api/accounts/"+id+"/goals",
		map[string]interface{}{"title": "bike", "target": 80}, &g)
	if code != http.StatusCreated {
		t.Fatalf("create goal status = %d", code)
	}

	doJSON(t, "POST", ts.URL+"/api/goals/"+g.ID+"/deposit", map[string]int64{"amount": 40}, &g)
	if g.Current != 40 {
		t.Errorf("earmark = %d, want 40", g.Current)
	}
	doJSON(t, "POST", ts.URL+"/api/goals/"+g.ID+"/withdraw", map[string]int64{"amount": 15}, &g)
	if g.Current != 25 {
		t.Errorf("earmark = %d, want 25", g.Current)
	}

	if code := doJSON(t, "DELETE", ts.URL+"/api/goals/"+g.ID, nil, nil); code != http.StatusNoContent {
		t.Fatalf("delete goal status = %d", code)
	}

	var a struct {
		Balance int64 `json:"balance"`
	}
	doJSON(t, "GET", ts.URL+"/api/accounts/"+id, nil, &a)
	if a.Balance != 100 {
		t.Errorf("balance after delete = %d, want 100", a.Balance)
	}
}

func TestStreakExchangeOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	id := createAccount(t, ts, "maya")

	for w := 1; w <= 4; w++ {
		url := fmt.Sprintf("%s/api/accounts/%s/weeks/2026-W%02d/perfect", ts.URL, id, w)
		if code := doJSON(t, "POST", url, nil, nil); code != http.StatusOK {
			t.Fatalf("perfect week %d status = %d", w, code)
		}
	}

	var a struct {
		Balance     int64 `json:"balance"`
		StreakWeeks int   `json:"streak_weeks"`
	}
	if code := doJSON(t, "POST", ts.URL+"/api/accounts/"+id+"/streak/exchange", nil, &a); code != http.StatusOK {
		t.Fatalf("exchange status = %d", code)
	}
	if a.Balance != 20 || a.StreakWeeks != 0 {
		t.Errorf("after exchange = %+v", a)
	}

	var resp map[string]interface{}
	code := doJSON(t, "POST", ts.URL+"/api/accounts/"+id+"/streak/exchange", nil, &resp)
	if code != http.StatusConflict {
		t.Fatalf("re-exchange status = %d, want 409", code)
	}
	if errorCode(t, resp) != "not_eligible" {
		t.Errorf("error code = %q, want not_eligible", errorCode(t, resp))
	}
}

func TestMetricsGatedByConfig(t *testing.T) {
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	srv := NewServer(economy.New(economy.DefaultConfig(), db))

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	resp, _ := http.Get(ts.URL + "/metrics")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("metrics without enable = %d, want 404", resp.StatusCode)
	}

	srv.EnableMetrics()
	ts2 := httptest.NewServer(srv.Handler())
	t.Cleanup(ts2.Close)
	resp, _ = http.Get(ts2.URL + "/metrics")
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("metrics enabled = %d, want 200", resp.StatusCode)
	}
}
