package netsuite

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	t.Setenv("NETSUITE_BASE_URL", server.URL)
	t.Setenv("NETSUITE_CONSUMER_KEY", "ck")
	t.Setenv("NETSUITE_CONSUMER_SECRET", "cs")
	t.Setenv("NETSUITE_TOKEN_ID", "tid")
	t.Setenv("NETSUITE_TOKEN_SECRET", "ts")
	t.Setenv("NETSUITE_ACCOUNT_ID", "123456")
	t.Setenv("NETSUITE_RATE_LIMIT_PER_MIN", "600000")

	client, err := NewClient()
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestClient_FetchPageParsesSummaryAndData(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("script") != "1758" || q.Get("deploy") != "1" {
			t.Errorf("missing script/deploy params: %s", r.URL.RawQuery)
		}
		if q.Get("action") != "get_bins" || q.Get("page_size") != "1000" || q.Get("page_number") != "2" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		if !strings.Contains(r.Header.Get("Authorization"), "OAuth") {
			t.Error("request is not oauth signed")
		}
		w.Write([]byte(`{"summary":{"total_pages":4,"total_records":3500},"data":{"1":{"bin_number":"B-1"}}}`))
	})

	page, err := client.FetchPage(context.Background(), "get_bins", 2)
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if page.Summary == nil || page.Summary.TotalPages != 4 || page.Summary.TotalRecords != 3500 {
		t.Fatalf("unexpected summary: %+v", page.Summary)
	}
	if len(page.Data) != 1 {
		t.Fatalf("expected 1 record, got %d", len(page.Data))
	}
}

func TestClient_FetchPageUpstreamStatusIsTyped(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "script error", http.StatusBadGateway)
	})

	_, err := client.FetchPage(context.Background(), "get_items", 1)
	typed, ok := AsError(err)
	if !ok || typed.Kind != KindUpstreamServer || typed.Status != 502 {
		t.Fatalf("expected typed 502, got %v", err)
	}
}

func TestClient_UpdateBinCountRecords(t *testing.T) {
	var received map[string]interface{}
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Query().Get("action") != "update_bin_count_records" {
			t.Errorf("unexpected action: %s", r.URL.RawQuery)
		}
		_ = json.NewDecoder(r.Body).Decode(&received)
		w.Write([]byte(`{"status":"accepted","processed":2}`))
	})

	payload := map[string]interface{}{"action": "binCount", "binId": 3797}
	ack, err := client.UpdateBinCountRecords(context.Background(), payload)
	if err != nil {
		t.Fatalf("UpdateBinCountRecords: %v", err)
	}
	if received["action"] != "binCount" {
		t.Fatalf("payload not forwarded: %v", received)
	}
	if string(ack) != `{"status":"accepted","processed":2}` {
		t.Fatalf("unexpected ack: %s", ack)
	}
}

func TestClient_UpdateBinCountWrapsNonJSONAck(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	ack, err := client.UpdateBinCountRecords(context.Background(), map[string]string{"action": "binCount"})
	if err != nil {
		t.Fatalf("UpdateBinCountRecords: %v", err)
	}
	var wrapped map[string]string
	if err := json.Unmarshal(ack, &wrapped); err != nil {
		t.Fatalf("ack is not json: %s", ack)
	}
	if wrapped["raw"] != "OK" {
		t.Fatalf("unexpected wrapped ack: %v", wrapped)
	}
}
