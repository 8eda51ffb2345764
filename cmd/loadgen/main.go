// loadgen exercises a running ledger server over HTTP: it registers a sender
// and a receiver, funds the sender, fires concurrent transfers and reports
// throughput plus the resulting balances.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	defaultURL := os.Getenv("LEDGER_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}
	baseURL := flag.String("url", defaultURL, "ledger base URL (defaults to LEDGER_URL)")
	total := flag.Int("n", 10000, "number of transfers")
	concurrency := flag.Int("c", 100, "concurrent requests")
	flag.Parse()

	cli := &http.Client{Timeout: 30 * time.Second}

	// Unique emails so repeated runs against one server do not collide.
	run := uuid.New().String()[:8]
	sender := createUser(cli, *baseURL, "loadgen sender", fmt.Sprintf("sender-%s@loadgen.local", run))
	receiver := createUser(cli, *baseURL, "loadgen receiver", fmt.Sprintf("receiver-%s@loadgen.local", run))

	// Fund the sender with one unit per transfer.
	postJSON(cli, *baseURL+"/api/v1/statements/"+sender+"/deposit",
		map[string]any{"amount": *total, "description": "loadgen funding"}, http.StatusCreated)

	var wg sync.WaitGroup
	wg.Add(*total)
	sem := make(chan struct{}, *concurrency)
	var failed int64

	start := time.Now()
	for i := 0; i < *total; i++ {
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			req, _ := http.NewRequest(http.MethodPost,
				*baseURL+"/api/v1/statements/"+sender+"/transfers/"+receiver,
				bytes.NewBufferString(`{"amount":1,"description":"loadgen"}`))
			req.Header.Set("Content-Type", "application/json")
			resp, err := cli.Do(req)
			if err != nil {
				atomic.AddInt64(&failed, 1)
				if idx%1000 == 0 {
					log.Printf("transfer %d failed: %v", idx, err)
				}
				return
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusCreated {
				atomic.AddInt64(&failed, 1)
			}
		}(i)
	}
	wg.Wait()
	elapsed := time.Since(start)

	fmt.Printf("completed %d transfers in %v (%d failed)\n", *total, elapsed, failed)
	fmt.Printf("TPS: %.2f\n", float64(*total)/elapsed.Seconds())
	fmt.Printf("sender balance:   %d\n", balance(cli, *baseURL, sender))
	fmt.Printf("receiver balance: %d\n", balance(cli, *baseURL, receiver))
}

func createUser(cli *http.Client, baseURL, name, email string) string {
	body := postJSON(cli, baseURL+"/api/v1/users",
		map[string]any{"name": name, "email": email, "password": "loadgen-secret"},
		http.StatusCreated)

	var user struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &user); err != nil || user.ID == "" {
		log.Fatalf("create user %s: bad response %s", email, body)
	}
	return user.ID
}

func balance(cli *http.Client, baseURL, userID string) int64 {
	resp, err := cli.Get(baseURL + "/api/v1/statements/" + userID + "/balance")
	if err != nil {
		log.Fatalf("get balance: %v", err)
	}
	defer resp.Body.Close()

	var out struct {
		Balance int64 `json:"balance"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Fatalf("decode balance: %v", err)
	}
	return out.Balance
}

func postJSON(cli *http.Client, url string, v any, wantCode int) []byte {
	raw, _ := json.Marshal(v)
	resp, err := cli.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		log.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	if resp.StatusCode != wantCode {
		log.Fatalf("POST %s: code=%d want=%d body=%s", url, resp.StatusCode, wantCode, buf.String())
	}
	return buf.Bytes()
}
