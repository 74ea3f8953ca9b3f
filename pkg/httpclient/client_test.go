package httpclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shopnow/storefront/pkg/httpclient"
)

func TestClient_Get_DecodesJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/items/1", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 1, "name": "widget"}`))
	}))
	defer server.Close()

	client := httpclient.New(httpclient.Config{BaseURL: server.URL})

	var out struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	err := client.Get(context.Background(), "/items/1", &out, nil)

	require.NoError(t, err)
	require.Equal(t, 1, out.ID)
	require.Equal(t, "widget", out.Name)
}

func TestClient_Get_QueryParamsAndHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "5", r.URL.Query().Get("limit"))
		require.Equal(t, "token-123", r.Header.Get("Authorization"))
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := httpclient.New(httpclient.Config{BaseURL: server.URL})

	opts := &httpclient.RequestOptions{
		Params:  url.Values{"limit": {"5"}},
		Headers: map[string]string{"Authorization": "token-123"},
	}
	err := client.Get(context.Background(), "/items", nil, opts)

	require.NoError(t, err)
}

func TestClient_Post_SendsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Equal(t, "widget", payload["name"])
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 2}`))
	}))
	defer server.Close()

	client := httpclient.New(httpclient.Config{BaseURL: server.URL})

	var out struct {
		ID int `json:"id"`
	}
	err := client.Post(context.Background(), "/items", map[string]string{"name": "widget"}, &out, nil)

	require.NoError(t, err)
	require.Equal(t, 2, out.ID)
}

func TestClient_NonSuccessStatusBecomesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "item not found", "code": "NOT_FOUND"}`))
	}))
	defer server.Close()

	client := httpclient.New(httpclient.Config{BaseURL: server.URL})

	err := client.Get(context.Background(), "/items/99", nil, nil)

	require.Error(t, err)
	var apiErr *httpclient.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.Status)
	require.Equal(t, "item not found", apiErr.Message)
	require.Equal(t, "NOT_FOUND", apiErr.Code)
	require.NotEmpty(t, apiErr.Data)
}

func TestClient_NonJSONErrorBodyUsesDefaults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer server.Close()

	client := httpclient.New(httpclient.Config{BaseURL: server.URL})

	err := client.Get(context.Background(), "/items", nil, nil)

	var apiErr *httpclient.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, httpclient.CodeHTTPError, apiErr.Code)
	require.Equal(t, http.StatusInternalServerError, apiErr.Status)
}

func TestClient_TimeoutIsNormalized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := httpclient.New(httpclient.Config{BaseURL: server.URL, Timeout: 20 * time.Millisecond})

	err := client.Get(context.Background(), "/slow", nil, nil)

	require.Error(t, err)
	require.True(t, httpclient.IsTimeout(err))
}

func TestClient_PerRequestTimeoutOverride(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := httpclient.New(httpclient.Config{BaseURL: server.URL, Timeout: 10 * time.Millisecond})

	err := client.Get(context.Background(), "/slow", nil, &httpclient.RequestOptions{Timeout: time.Second})

	require.NoError(t, err)
}

func TestClient_NetworkErrorIsNormalized(t *testing.T) {
	client := httpclient.New(httpclient.Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})

	err := client.Get(context.Background(), "/unreachable", nil, nil)

	require.Error(t, err)
	var apiErr *httpclient.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, httpclient.CodeNetworkError, apiErr.Code)
	require.False(t, httpclient.IsTimeout(err))
}
