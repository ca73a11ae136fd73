package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"marketplace-admin/internal/config"
	"marketplace-admin/internal/notify"
)

type lifecycleRecorder struct {
	hooks []fx.Hook
}

func (l *lifecycleRecorder) Append(h fx.Hook) { l.hooks = append(l.hooks, h) }

type shutdownerStub struct {
	called chan struct{}
}

func (s *shutdownerStub) Shutdown(...fx.ShutdownOption) error {
	select {
	case s.called <- struct{}{}:
	default:
	}
	return nil
}

// blockingRunner simula el consumer: corre hasta que le cancelan el contexto.
type blockingRunner struct {
	started chan struct{}
	stopped chan struct{}
}

func newBlockingRunner() *blockingRunner {
	return &blockingRunner{started: make(chan struct{}), stopped: make(chan struct{})}
}

func (r *blockingRunner) Run(ctx context.Context) error {
	close(r.started)
	<-ctx.Done()
	close(r.stopped)
	return nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewHTTPServer(t *testing.T) {
	r := gin.New()
	srv := newHTTPServer(serverParams{Config: &config.Config{RunAddress: ":9999", RequestTimeout: time.Second}, Router: r})
	assert.Equal(t, ":9999", srv.Addr)
	assert.Equal(t, r, srv.Handler)
	assert.Equal(t, time.Second, srv.ReadHeaderTimeout)
}

func TestNewDispatcherWithoutChannels(t *testing.T) {
	d, err := newDispatcher(dispatcherParams{Config: &config.Config{}, Logger: discard()})
	require.NoError(t, err)
	assert.Empty(t, d.(notify.Multi))
}

func TestNewDispatcherWithFunctions(t *testing.T) {
	d, err := newDispatcher(dispatcherParams{
		Config: &config.Config{FunctionsURL: "http://functions.local", RequestTimeout: time.Second},
		Logger: discard(),
	})
	require.NoError(t, err)
	require.Len(t, d.(notify.Multi), 1)
	assert.IsType(t, &notify.FunctionsClient{}, d.(notify.Multi)[0])
}

func TestRegisterStartsAndStopsConsumer(t *testing.T) {
	rec := &lifecycleRecorder{}
	sd := &shutdownerStub{called: make(chan struct{}, 1)}
	runner := newBlockingRunner()
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}

	register(rec, sd, discard(), srv, runner, time.Second)
	require.Len(t, rec.hooks, 1)

	require.NoError(t, rec.hooks[0].OnStart(context.Background()))
	select {
	case <-runner.started:
	case <-time.After(time.Second):
		t.Fatal("consumer was not started")
	}

	require.NoError(t, rec.hooks[0].OnStop(context.Background()))
	select {
	case <-runner.stopped:
	default:
		t.Fatal("consumer was not stopped")
	}
}

func TestRegisterShutsDownOnServerError(t *testing.T) {
	rec := &lifecycleRecorder{}
	sd := &shutdownerStub{called: make(chan struct{}, 1)}
	srv := &http.Server{Addr: "bad addr"}

	register(rec, sd, discard(), srv, newBlockingRunner(), time.Second)
	require.NoError(t, rec.hooks[0].OnStart(context.Background()))

	select {
	case <-sd.called:
	case <-time.After(time.Second):
		t.Fatal("expected shutdown on listen error")
	}
	_ = rec.hooks[0].OnStop(context.Background())
}
