package qrsdk_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/qrpay/pkg/httpx"
	"github.com/aussiebroadwan/qrpay/pkg/qrsdk"
)

func TestVerifyDecodesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		qrsdk.ErrInvalidOrExpiredCode.WriteError(w)
	}))
	defer srv.Close()

	_, err := qrsdk.NewClient(srv.URL).Verify(context.Background(), "nope")
	require.Error(t, err)
	require.True(t, errors.Is(err, qrsdk.ErrInvalidOrExpiredCode))
	require.False(t, errors.Is(err, qrsdk.ErrExpiredCode))

	var apiErr *qrsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestNonJSONErrorKeepsStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream</html>"))
	}))
	defer srv.Close()

	_, err := qrsdk.NewClient(srv.URL).GetLiveness(context.Background())

	var apiErr *qrsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	require.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestGenerateSendsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/generate", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req qrsdk.GenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, qrsdk.GenerateRequest{LoanID: "L1", Amount: 5000, UserID: "U1"}, req)

		httpx.WriteJSON(w, http.StatusOK, qrsdk.GenerateResponse{Success: true, Code: "abc"})
	}))
	defer srv.Close()

	res, err := qrsdk.NewClient(srv.URL+"/").Generate(context.Background(), qrsdk.GenerateRequest{
		LoanID: "L1", Amount: 5000, UserID: "U1",
	})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, "abc", res.Code)
}
