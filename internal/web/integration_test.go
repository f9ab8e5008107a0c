package web_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/marmitas/internal/db"
	"github.com/vbonduro/marmitas/internal/service"
	"github.com/vbonduro/marmitas/internal/store"
	"github.com/vbonduro/marmitas/internal/web"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newTestServer(t *testing.T) (*httptest.Server, *sql.DB) {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	uc := service.NewUseCases(
		store.NewItemStore(d),
		store.NewClientStore(d),
		store.NewOrderStore(d),
		fixedClock{now: time.Date(2024, 4, 26, 12, 0, 0, 0, time.UTC)},
		logger,
	)
	srv := httptest.NewServer(web.NewServer(uc, logger))
	t.Cleanup(srv.Close)
	return srv, d
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, r)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := do(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestRequestIDHeader(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := do(t, srv, http.MethodGet, "/health", "")
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))
}

func TestItemsLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := do(t, srv, http.MethodPost, "/items", `{"item_name":"Marmita de Carne","inventory_quantity":5}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "marmita de carne", body["item_name"])
	assert.Equal(t, float64(5), body["inventory_quantity"])

	resp, body = do(t, srv, http.MethodPost, "/items", `{"item_name":"marmita de carne","inventory_quantity":1}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, body["detail"], "marmita de carne")

	_, _ = do(t, srv, http.MethodPost, "/items", `{"item_name":"marmita de frango","inventory_quantity":2}`)

	resp, body = do(t, srv, http.MethodGet, "/items", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := body["items"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, "marmita de carne", items[0].(map[string]any)["item_name"])

	resp, body = do(t, srv, http.MethodPatch, "/items", `{"items":[{"item_name":"marmita de frango","inventory_quantity":9}]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items = body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, float64(9), items[0].(map[string]any)["inventory_quantity"])

	resp, body = do(t, srv, http.MethodDelete, "/items", `{"item_name":"marmita de frango"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "marmita de frango", body["item_name"])

	resp, _ = do(t, srv, http.MethodDelete, "/items", `{"item_name":"marmita de frango"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSetInventoryUnknownItem(t *testing.T) {
	srv, _ := newTestServer(t)

	_, _ = do(t, srv, http.MethodPost, "/items", `{"item_name":"a","inventory_quantity":3}`)

	resp, body := do(t, srv, http.MethodPatch, "/items", `{"items":[{"item_name":"a","inventory_quantity":10},{"item_name":"b","inventory_quantity":20}]}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body["detail"], "b")

	_, body = do(t, srv, http.MethodGet, "/items", "")
	items := body["items"].([]any)
	assert.Equal(t, float64(3), items[0].(map[string]any)["inventory_quantity"])
}

func TestManualOrderAndCancel(t *testing.T) {
	srv, _ := newTestServer(t)

	_, _ = do(t, srv, http.MethodPost, "/items", `{"item_name":"marmita de carne","inventory_quantity":5}`)

	resp, body := do(t, srv, http.MethodPost, "/orders/manual", `{"items":[{"item_name":"marmita de carne","quantity":1}]}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	orderID := body["order_id"].(string)
	assert.NotEmpty(t, orderID)
	assert.Nil(t, body["client_name"])
	lines := body["order_items"].([]any)
	require.Len(t, lines, 1)
	assert.Equal(t, float64(4), lines[0].(map[string]any)["inventory_quantity"])

	resp, body = do(t, srv, http.MethodPost, "/orders/"+orderID+"/cancel", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["is_cancelled"])
	assert.Equal(t, orderID, body["order_id"])
	assert.Equal(t, "2024-04-26T12:00:00", body["created_at"])
	lines = body["order_items"].([]any)
	assert.Equal(t, float64(5), lines[0].(map[string]any)["inventory_quantity"])

	resp, _ = do(t, srv, http.MethodPost, "/orders/"+orderID+"/cancel", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestGoomerOrder(t *testing.T) {
	srv, _ := newTestServer(t)

	_, _ = do(t, srv, http.MethodPost, "/items", `{"item_name":"marmita de frango","inventory_quantity":1}`)

	resp, body := do(t, srv, http.MethodPost, "/orders/goomer", `{
		"client_name": "Joana",
		"external_order_id": 1234,
		"external_created_at": "17:54",
		"items": [{"item_name": "marmita de frango", "quantity": 3}]
	}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "joana", body["client_name"])
	assert.Equal(t, float64(1234), body["external_order_id"])
	lines := body["order_items"].([]any)
	assert.Equal(t, float64(-2), lines[0].(map[string]any)["inventory_quantity"])
}

func TestItemNamesMatchChatNormalization(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := do(t, srv, http.MethodPost, "/items", `{"item_name":"Feijão  *Tropeiro*","inventory_quantity":3}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "feijao tropeiro", body["item_name"])

	resp, body = do(t, srv, http.MethodPost, "/orders/manual", `{"items":[{"item_name":"FEIJAO TROPEIRO","quantity":1}]}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	lines := body["order_items"].([]any)
	require.Len(t, lines, 1)
	assert.Equal(t, "feijao tropeiro", lines[0].(map[string]any)["item_name"])
	assert.Equal(t, float64(2), lines[0].(map[string]any)["inventory_quantity"])
}

func TestCancelUnknownOrder(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := do(t, srv, http.MethodPost, "/orders/nope/cancel", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body["detail"], "nope")
}

func TestBadRequests(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"malformed json", http.MethodPost, "/items", `{"item_name":`},
		{"missing name", http.MethodPost, "/items", `{"inventory_quantity":1}`},
		{"wrong type", http.MethodPost, "/items", `{"item_name":"a","inventory_quantity":"many"}`},
		{"zero quantity", http.MethodPost, "/orders/manual", `{"items":[{"item_name":"a","quantity":0}]}`},
		{"missing client", http.MethodPost, "/orders/goomer", `{"external_order_id":1,"items":[]}`},
		{"missing external order id", http.MethodPost, "/orders/goomer", `{"client_name":"joana","items":[{"item_name":"a","quantity":1}]}`},
		{"zero external order id", http.MethodPost, "/orders/goomer", `{"client_name":"joana","external_order_id":0,"items":[{"item_name":"a","quantity":1}]}`},
		{"negative external order id", http.MethodPost, "/orders/goomer", `{"client_name":"joana","external_order_id":-3,"items":[{"item_name":"a","quantity":1}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, srv, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.NotEmpty(t, body["detail"])
		})
	}
}

func TestStorageFailureIsUnexpectedError(t *testing.T) {
	srv, d := newTestServer(t)
	require.NoError(t, d.Close())

	resp, body := do(t, srv, http.MethodGet, "/items", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "unexpected error", body["detail"])
}

func TestListenAndServeStopsOnContextCancel(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := web.NewServer(&service.UseCases{}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
