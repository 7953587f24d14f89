package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pribylovaa/forum-gateway/internal/backend"
	"github.com/pribylovaa/forum-gateway/internal/session"
	"github.com/pribylovaa/forum-gateway/internal/thread"
	"github.com/stretchr/testify/require"
)

func TestToHTTP_Mapping(t *testing.T) {
	wrap := func(err error) error { return fmt.Errorf("op: %w", err) }

	tcs := []struct {
		name       string
		in         error
		wantStatus int
		wantCode   string
	}{
		{"local_invalid", ErrInvalidArgument, http.StatusBadRequest, "invalid_argument"},
		{"backend_invalid", wrap(backend.ErrInvalidArgument), http.StatusBadRequest, "invalid_argument"},
		{"thread_invalid", wrap(thread.ErrInvalidArgument), http.StatusBadRequest, "invalid_argument"},
		{"unauthorized", wrap(backend.ErrUnauthorized), http.StatusUnauthorized, "unauthenticated"},
		{"session", wrap(session.ErrNotFound), http.StatusNotFound, "session_not_found"},
		{"backend_not_found", wrap(backend.ErrNotFound), http.StatusNotFound, "not_found"},
		{"unknown_topic", wrap(thread.ErrUnknownTopic), http.StatusNotFound, "not_found"},
		{"not_loaded", wrap(thread.ErrNotLoaded), http.StatusConflict, "not_loaded"},
		{"canceled", wrap(context.Canceled), StatusClientClosedRequest, "canceled"},
		{"deadline", wrap(context.DeadlineExceeded), http.StatusGatewayTimeout, "deadline_exceeded"},
		{"unavailable", wrap(backend.ErrUnavailable), http.StatusServiceUnavailable, "unavailable"},
		{"upstream", wrap(backend.ErrInternal), http.StatusBadGateway, "upstream_error"},
		{"other", fmt.Errorf("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			gotStatus, resp := ToHTTP(tc.in)
			require.Equal(t, tc.wantStatus, gotStatus)
			require.Equal(t, tc.wantCode, resp.Error.Code)
			require.NotEmpty(t, resp.Error.Message)
		})
	}
}

func TestToHTTP_NilError_Returns500Internal(t *testing.T) {
	gotStatus, resp := ToHTTP(nil)
	require.Equal(t, http.StatusInternalServerError, gotStatus)
	require.Equal(t, "internal", resp.Error.Code)
	require.Equal(t, "internal error", resp.Error.Message)
}

func TestWriteError_PropagatesRequestID(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/pages/x", nil)
	req.Header.Set("X-Request-Id", "rid-1")

	WriteError(rr, req, session.ErrNotFound)

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var env ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.Equal(t, "rid-1", env.Error.RequestID)
	require.Equal(t, "session_not_found", env.Error.Code)
}
