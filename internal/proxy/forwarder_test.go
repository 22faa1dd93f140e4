package proxy

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/felixgeelhaar/inkwell/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForward_PassesBodyAndHeaders(t *testing.T) {
	var gotBody, gotKey, gotPath, gotCT, gotReqID string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotKey = r.Header.Get("apikey")
		gotPath = r.URL.RequestURI()
		gotCT = r.Header.Get("Content-Type")
		gotReqID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":"fixed text"}`))
	}))
	defer upstream.Close()

	metrics := observability.NewInMemoryMetrics()
	f := NewForwarder("backend", upstream.URL+"/", time.Second, WithHeader("apikey", "anon"), WithMetrics(metrics))
	ctx := observability.WithRequestID(context.Background(), "req-42")

	resp, err := f.Forward(ctx, Request{Path: "/api/paraphraser", Body: []byte(`{"text":"hi","mode":"formal"}`)})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.JSONEq(t, `{"result":"fixed text"}`, string(resp.Body))
	assert.Equal(t, `{"text":"hi","mode":"formal"}`, gotBody)
	assert.Equal(t, "anon", gotKey)
	assert.Equal(t, "/api/paraphraser", gotPath)
	assert.Equal(t, "application/json", gotCT)
	assert.Equal(t, "req-42", gotReqID)
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricProxyRequests,
		observability.T("upstream", "backend"), observability.T("status", "200")))
}

func TestForward_SingleAttemptOnUpstreamError(t *testing.T) {
	var calls int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"detail":"model overloaded"}`))
	}))
	defer upstream.Close()

	f := NewForwarder("backend", upstream.URL, time.Second)
	_, err := f.Forward(context.Background(), Request{Path: "/api/summarizer", Body: []byte(`{}`)})
	require.Error(t, err)

	status, msg := TranslateError(err)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "model overloaded", msg)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestForward_UpstreamStatusPassThrough(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"error field", http.StatusBadRequest, `{"error":"text too long"}`, "text too long"},
		{"message field", http.StatusUnauthorized, `{"message":"Invalid login credentials"}`, "Invalid login credentials"},
		{"msg field", http.StatusUnprocessableEntity, `{"msg":"Password should be at least 6 characters"}`, "Password should be at least 6 characters"},
		{"nested error", http.StatusTooManyRequests, `{"error":{"message":"quota"}}`, "quota"},
		{"plain text body", http.StatusNotFound, `not here`, "Not Found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer upstream.Close()

			_, err := NewForwarder("backend", upstream.URL, time.Second).Forward(context.Background(), Request{Path: "/x"})
			status, msg := TranslateError(err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.want, msg)
		})
	}
}

func TestForward_NonJSONSuccessIsBadGateway(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway page</html>`))
	}))
	defer upstream.Close()

	_, err := NewForwarder("backend", upstream.URL, time.Second).Forward(context.Background(), Request{Path: "/x"})
	status, _ := TranslateError(err)
	assert.Equal(t, http.StatusBadGateway, status)
}

func TestForward_EmptySuccessBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer upstream.Close()

	resp, err := NewForwarder("auth", upstream.URL, time.Second).Forward(context.Background(), Request{Path: "/auth/v1/logout"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.Status)
	assert.JSONEq(t, `{}`, string(resp.Body))
}

func TestForward_Timeout(t *testing.T) {
	release := make(chan struct{})
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer upstream.Close()
	defer close(release)

	_, err := NewForwarder("backend", upstream.URL, 50*time.Millisecond).Forward(context.Background(), Request{Path: "/slow"})
	status, _ := TranslateError(err)
	assert.Equal(t, http.StatusGatewayTimeout, status)
}

func TestForward_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err = NewForwarder("backend", "http://"+addr, time.Second).Forward(context.Background(), Request{Path: "/x"})
	status, _ := TranslateError(err)
	assert.Equal(t, http.StatusBadGateway, status)
}

func TestTranslateError(t *testing.T) {
	status, msg := TranslateError(errors.New("nil pointer somewhere"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, GenericMessage, msg)

	status, _ = TranslateError(context.DeadlineExceeded)
	assert.Equal(t, http.StatusGatewayTimeout, status)

	status, _ = TranslateError(&net.DNSError{Err: "no such host", Name: "backend.invalid"})
	assert.Equal(t, http.StatusBadGateway, status)

	status, _ = TranslateError(nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestTranslateError_ConnectivityBeatsGeneric(t *testing.T) {
	dial := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	status, msg := TranslateError(errors.Join(errors.New("handler failed"), dial))
	assert.Equal(t, http.StatusBadGateway, status)
	assert.NotEqual(t, GenericMessage, msg)

	status, _ = TranslateError(errors.Join(errors.New("handler failed"), context.DeadlineExceeded))
	assert.Equal(t, http.StatusGatewayTimeout, status)
}

func TestAuthProxy(t *testing.T) {
	var gotURI, gotAuth, gotKey string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURI = r.URL.RequestURI()
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("apikey")
		_, _ = w.Write([]byte(`{"access_token":"t"}`))
	}))
	defer upstream.Close()

	p := NewAuthProxy(NewForwarder("auth", upstream.URL, time.Second, WithHeader("apikey", "anon-key")))

	_, err := p.Do(context.Background(), "signin", []byte(`{"email":"a@b.co","password":"pw"}`), "")
	require.NoError(t, err)
	assert.Equal(t, "/auth/v1/token?grant_type=password", gotURI)
	assert.Empty(t, gotAuth)
	assert.Equal(t, "anon-key", gotKey)

	_, err = p.Do(context.Background(), "signout", nil, "user-token")
	require.NoError(t, err)
	assert.Equal(t, "/auth/v1/logout", gotURI)
	assert.Equal(t, "Bearer user-token", gotAuth)

	_, err = p.Do(context.Background(), "delete-account", nil, "")
	assert.ErrorIs(t, err, ErrUnknownAuthAction)
	assert.Len(t, AuthActions(), 5)
}
