package addressservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RitualBookingService/pkg/logger"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/internal/users/7/addresses/100", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Address{ID: 100, UserID: 7, Line1: "12 Temple Road", City: "Pune"})
	})
	mux.HandleFunc("/internal/users/7/addresses/101", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Address{ID: 101, UserID: 8})
	})
	mux.HandleFunc("/internal/users/7/addresses/500", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_GetAddress(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(srv.URL+"/", time.Second, logger.NewNop())
	ctx := context.Background()

	addr, err := client.GetAddress(ctx, 100, 7)
	require.NoError(t, err)
	assert.Equal(t, "Pune", addr.City)

	_, err = client.GetAddress(ctx, 999, 7)
	assert.ErrorIs(t, err, ErrAddressNotFound)

	_, err = client.GetAddress(ctx, 101, 7)
	assert.ErrorIs(t, err, ErrAddressNotFound)

	_, err = client.GetAddress(ctx, 500, 7)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClient_Resolve(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(srv.URL, time.Second, logger.NewNop())

	assert.NoError(t, client.Resolve(context.Background(), 100, 7))
	assert.ErrorIs(t, client.Resolve(context.Background(), 404, 7), ErrAddressNotFound)
}

func TestUnconfigured_RejectsEveryAddress(t *testing.T) {
	assert.ErrorIs(t, Unconfigured{}.Resolve(context.Background(), 100, 7), ErrNotConfigured)
}
