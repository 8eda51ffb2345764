package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/finapi/go-ledger/internal/app/core/adapter/out/memory"
	"github.com/finapi/go-ledger/internal/app/core/domain"
	"github.com/finapi/go-ledger/internal/app/core/usecase"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := memory.NewStore(nil)
	if err != nil {
		t.Fatal(err)
	}
	dir := memory.NewDirectory()
	srv := NewServer(usecase.NewLedgerUseCase(dir, store), usecase.NewUserUseCase(dir))
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

// doJSON posts (or gets) JSON, checks the status code and decodes the body.
func doJSON(t *testing.T, c *http.Client, method, url string, body any, wantCode int, out any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantCode {
		t.Fatalf("%s %s: code=%d want=%d", method, url, resp.StatusCode, wantCode)
	}
	if out != nil {
		_ = json.NewDecoder(resp.Body).Decode(out)
	}
}

func createUser(t *testing.T, c *http.Client, base, name, email string) domain.User {
	t.Helper()
	var u domain.User
	doJSON(t, c, "POST", base+"/api/v1/users",
		map[string]any{"name": name, "email": email, "password": "1234567"}, 201, &u)
	if u.ID == uuid.Nil {
		t.Fatalf("user id missing in response")
	}
	return u
}

func TestUserAndSessionEndpoints(t *testing.T) {
	ts := newTestServer(t)
	cli := ts.Client()

	u := createUser(t, cli, ts.URL, "user2", "test2@test2.com")

	// duplicate email
	doJSON(t, cli, "POST", ts.URL+"/api/v1/users",
		map[string]any{"name": "other", "email": "test2@test2.com", "password": "x1234567"}, 409, nil)

	// missing fields
	doJSON(t, cli, "POST", ts.URL+"/api/v1/users",
		map[string]any{"name": "nopass", "email": "nopass@test.com"}, 400, nil)

	// credential check
	var session struct {
		User domain.User `json:"user"`
	}
	doJSON(t, cli, "POST", ts.URL+"/api/v1/sessions",
		map[string]any{"email": "test2@test2.com", "password": "1234567"}, 200, &session)
	if session.User.ID != u.ID {
		t.Fatalf("session user=%v want=%v", session.User.ID, u.ID)
	}
	doJSON(t, cli, "POST", ts.URL+"/api/v1/sessions",
		map[string]any{"email": "test2@test2.com", "password": "wrong"}, 401, nil)
}

func TestStatementEndpoints(t *testing.T) {
	ts := newTestServer(t)
	cli := ts.Client()

	sender := createUser(t, cli, ts.URL, "user2", "test2@test2.com")
	receiver := createUser(t, cli, ts.URL, "user3", "test3@test3.com")
	senderBase := ts.URL + "/api/v1/statements/" + sender.ID.String()

	// deposit 500
	var dep domain.Statement
	doJSON(t, cli, "POST", senderBase+"/deposit",
		map[string]any{"amount": 500, "description": "deposit test"}, 201, &dep)
	if dep.Type != domain.OperationDeposit || dep.Amount != 500 {
		t.Fatalf("deposit response: %+v", dep)
	}

	// transfer 200
	var pair []domain.Statement
	doJSON(t, cli, "POST", senderBase+"/transfers/"+receiver.ID.String(),
		map[string]any{"amount": 200, "description": "donate test"}, 201, &pair)
	if len(pair) != 2 {
		t.Fatalf("pair len=%d want=2", len(pair))
	}
	if pair[0].ReceiverID == nil || *pair[0].ReceiverID != receiver.ID {
		t.Fatalf("sender statement missing receiver_id: %+v", pair[0])
	}
	if pair[1].SenderID == nil || *pair[1].SenderID != sender.ID {
		t.Fatalf("receiver statement missing sender_id: %+v", pair[1])
	}
	if pair[0].Type != domain.OperationTransfer || pair[1].Type != domain.OperationTransfer {
		t.Fatalf("pair types: %s %s", pair[0].Type, pair[1].Type)
	}

	// balances after the scenario
	var bal usecase.Balance
	doJSON(t, cli, "GET", senderBase+"/balance", nil, 200, &bal)
	if bal.Balance != 300 || len(bal.Statement) != 2 {
		t.Fatalf("sender balance=%d statements=%d, want 300/2", bal.Balance, len(bal.Statement))
	}
	doJSON(t, cli, "GET", ts.URL+"/api/v1/statements/"+receiver.ID.String()+"/balance", nil, 200, &bal)
	if bal.Balance != 200 || len(bal.Statement) != 1 {
		t.Fatalf("receiver balance=%d statements=%d, want 200/1", bal.Balance, len(bal.Statement))
	}

	// insufficient funds → 400
	doJSON(t, cli, "POST", senderBase+"/withdraw",
		map[string]any{"amount": 999999, "description": "too much"}, 400, nil)
	doJSON(t, cli, "POST", senderBase+"/transfers/"+receiver.ID.String(),
		map[string]any{"amount": 999999, "description": "too much"}, 400, nil)

	// unknown receiver → 404
	doJSON(t, cli, "POST", senderBase+"/transfers/"+uuid.NewString(),
		map[string]any{"amount": 10, "description": "ghost"}, 404, nil)

	// unknown sender → 404
	doJSON(t, cli, "POST", ts.URL+"/api/v1/statements/"+uuid.NewString()+"/transfers/"+receiver.ID.String(),
		map[string]any{"amount": 10, "description": "ghost"}, 404, nil)

	// self transfer and bad amount → 400
	doJSON(t, cli, "POST", senderBase+"/transfers/"+sender.ID.String(),
		map[string]any{"amount": 10, "description": "self"}, 400, nil)
	doJSON(t, cli, "POST", senderBase+"/deposit",
		map[string]any{"amount": 0, "description": "zero"}, 400, nil)

	// malformed path and body → 400
	doJSON(t, cli, "GET", ts.URL+"/api/v1/statements/not-a-uuid/balance", nil, 400, nil)
	resp, err := cli.Post(senderBase+"/deposit", "application/json", bytes.NewBufferString("{bad json}"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != 400 {
		t.Fatalf("bad json code=%d want=400", resp.StatusCode)
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	var out map[string]string
	doJSON(t, ts.Client(), "GET", ts.URL+"/api/v1/health", nil, 200, &out)
	if out["status"] != "ok" {
		t.Fatalf("health=%v", out)
	}
}
