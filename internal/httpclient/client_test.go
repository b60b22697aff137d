package httpclient

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryBoundOnServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(time.Second, 2, nil)
	resp, err := client.Do(context.Background(), Request{
		Method: http.MethodGet,
		URL:    srv.URL,
		Target: "test",
		Route:  "/",
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, int32(3), calls.Load(), "expected max_retries+1 attempts")
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := New(time.Second, 3, nil)
	resp, err := client.Do(context.Background(), Request{
		Method: http.MethodGet,
		URL:    srv.URL,
		Target: "test",
		Route:  "/",
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRecoversAfterServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := New(time.Second, 3, nil)
	resp, err := client.Do(context.Background(), Request{
		Method: http.MethodGet,
		URL:    srv.URL,
		Target: "test",
		Route:  "/",
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Body))
	assert.Equal(t, int32(2), calls.Load())
}

func TestTransportFailureRetriedThenSurfaced(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	var conns atomic.Int32
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conns.Add(1)
			conn.Close()
		}
	}()

	client := New(time.Second, 2, nil)
	_, err = client.Do(context.Background(), Request{
		Method: http.MethodGet,
		URL:    "http://" + ln.Addr().String(),
		Target: "test",
		Route:  "/",
	})

	require.Error(t, err)
	assert.Equal(t, int32(3), conns.Load(), "each attempt opens a fresh connection")
}

func TestRequestHeadersAndBodyForwarded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "v1", r.Header.Get("X-Zooz-Request-Id"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body := make([]byte, r.ContentLength)
		_, _ = r.Body.Read(body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	header := make(http.Header)
	header.Set("X-Zooz-Request-Id", "v1")

	client := New(time.Second, 0, nil)
	resp, err := client.Do(context.Background(), Request{
		Method: http.MethodPost,
		URL:    srv.URL,
		Header: header,
		Body:   []byte(`{"a":1}`),
		Target: "test",
		Route:  "/",
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}
