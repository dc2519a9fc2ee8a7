package tool

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	contractx "github.com/tanpawarit/hotel-assistant/agent/contract"
)

func requireToolErrorKind(t *testing.T, err error, kind contractx.ToolErrorKind) {
	t.Helper()
	var te *contractx.ToolError
	require.True(t, errors.As(err, &te), "expected *ToolError, got %v", err)
	require.Equal(t, kind, te.Kind)
}

func TestRemoteCallSuccess(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/call", r.URL.Path)

		var req remoteCallRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, ToolSearchHotels, req.Tool)
		require.Equal(t, "Paris", req.Args["location"])

		json.NewEncoder(w).Encode(remoteCallResponse{
			Success: true,
			Result:  json.RawMessage(`{"results": [{"id": "hotel_1"}], "total_count": 1}`),
		})
	}))
	defer srv.Close()

	p, err := NewRemoteProvider(CategorySearch, srv.URL, time.Second)
	require.NoError(t, err)

	res, err := p.Call(context.Background(), ToolSearchHotels, map[string]any{"location": "Paris"})
	require.NoError(t, err)
	require.Equal(t, true, res["success"])
	require.Equal(t, float64(1), res["total_count"])
}

func TestRemoteCallDomainRejection(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(remoteCallResponse{
			Success: false,
			Error:   "no rooms available",
		})
	}))
	defer srv.Close()

	p, err := NewRemoteProvider(CategoryBooking, srv.URL, time.Second)
	require.NoError(t, err)

	_, err = p.Call(context.Background(), ToolCheckAvailability, map[string]any{"hotel_id": "hotel_1"})
	requireToolErrorKind(t, err, contractx.ToolErrDomainRejected)
	require.Contains(t, err.Error(), "no rooms available")
}

func TestRemoteCallStatusMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		status int
		kind   contractx.ToolErrorKind
	}{
		{"bad request", http.StatusBadRequest, contractx.ToolErrDomainRejected},
		{"not found", http.StatusNotFound, contractx.ToolErrDomainRejected},
		{"request timeout", http.StatusRequestTimeout, contractx.ToolErrTimeout},
		{"gateway timeout", http.StatusGatewayTimeout, contractx.ToolErrTimeout},
		{"server error", http.StatusInternalServerError, contractx.ToolErrUnreachable},
		{"bad gateway", http.StatusBadGateway, contractx.ToolErrUnreachable},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			p, err := NewRemoteProvider(CategorySearch, srv.URL, time.Second)
			require.NoError(t, err)

			_, err = p.Call(context.Background(), ToolSearchHotels, nil)
			requireToolErrorKind(t, err, tc.kind)
		})
	}
}

func TestRemoteCallMalformedBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	p, err := NewRemoteProvider(CategorySearch, srv.URL, time.Second)
	require.NoError(t, err)

	_, err = p.Call(context.Background(), ToolSearchHotels, nil)
	requireToolErrorKind(t, err, contractx.ToolErrMalformedResponse)
}

func TestRemoteCallUnreachableHost(t *testing.T) {
	t.Parallel()

	p, err := NewRemoteProvider(CategorySearch, "http://127.0.0.1:1", time.Second)
	require.NoError(t, err)

	_, err = p.Call(context.Background(), ToolSearchHotels, nil)
	requireToolErrorKind(t, err, contractx.ToolErrUnreachable)
}

func TestRemoteCallHonorsTimeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	p, err := NewRemoteProvider(CategorySearch, srv.URL, 50*time.Millisecond)
	require.NoError(t, err)

	_, err = p.Call(context.Background(), ToolSearchHotels, nil)
	requireToolErrorKind(t, err, contractx.ToolErrTimeout)
}

func TestNewRemoteProviderRequiresURL(t *testing.T) {
	t.Parallel()

	_, err := NewRemoteProvider(CategorySearch, "  ", time.Second)
	require.Error(t, err)
}
