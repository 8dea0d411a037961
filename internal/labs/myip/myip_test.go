package myip

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func server(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRun_PrintsOrigin(t *testing.T) {
	srv := server(t, http.StatusOK, `{"origin": "203.0.113.7"}`)

	var out bytes.Buffer
	err := Run(context.Background(), &out, NewClient(srv.URL, srv.Client()), time.Second)
	require.NoError(t, err)
	assert.Equal(t, "Your public IP: 203.0.113.7\nStatus code: 200\n", out.String())
}

func TestLookup_NonSuccessStatus(t *testing.T) {
	srv := server(t, http.StatusBadGateway, `{"origin": "203.0.113.7"}`)

	_, err := NewClient(srv.URL, srv.Client()).Lookup(context.Background())
	assert.ErrorContains(t, err, "502")
}

func TestLookup_BadBody(t *testing.T) {
	for _, body := range []string{"not json", `{"ip": "x"}`} {
		srv := server(t, http.StatusOK, body)
		_, err := NewClient(srv.URL, srv.Client()).Lookup(context.Background())
		assert.Error(t, err, body)
	}
}

func TestRun_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	var out bytes.Buffer
	err := Run(context.Background(), &out, NewClient(srv.URL, srv.Client()), 50*time.Millisecond)
	assert.Error(t, err)
	assert.Empty(t, out.String())
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("", nil)
	assert.Equal(t, DefaultURL, c.url)
	assert.Equal(t, http.DefaultClient, c.http)
}
