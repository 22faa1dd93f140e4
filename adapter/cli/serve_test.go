package cli

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeServer struct {
	stop      chan struct{}
	startErr  error
	shutdowns int
}

func (f *fakeServer) Start() error {
	if f.startErr != nil {
		return f.startErr
	}
	<-f.stop
	return http.ErrServerClosed
}

func (f *fakeServer) Shutdown(ctx context.Context) error {
	f.shutdowns++
	close(f.stop)
	return nil
}

func TestRunServer_ShutsDownOnCancel(t *testing.T) {
	srv := &fakeServer{stop: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	assert.NoError(t, runServer(ctx, srv))
	assert.Equal(t, 1, srv.shutdowns)
}

func TestRunServer_StartError(t *testing.T) {
	srv := &fakeServer{stop: make(chan struct{}), startErr: errors.New("address in use")}

	err := runServer(context.Background(), srv)
	assert.EqualError(t, err, "address in use")
	assert.Zero(t, srv.shutdowns)
}

func TestServeCmd_NoApp(t *testing.T) {
	SetApp(nil)
	serveCmd.SetContext(context.Background())
	assert.Error(t, serveCmd.RunE(serveCmd, nil))
}
