package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCleanup_StopsServerBeforeClosingStore(t *testing.T) {
	ctx := context.WithValue(context.Background(), ctxKey("test"), "marker")
	var callOrder []string

	server := &fakeShutdowner{name: "serverShutdown", calls: &callOrder}
	store := &fakeStore{calls: &callOrder}
	telemetry := &fakeShutdowner{name: "telemetryShutdown", calls: &callOrder}

	cleanup := newCleanup(ctx, server, store, telemetry)

	cleanup()

	require.Equal(t, []string{"serverShutdown", "storeClose", "telemetryShutdown"}, callOrder)
	require.Equal(t, "marker", server.receivedCtx.Value(ctxKey("test")))
	require.Equal(t, "marker", telemetry.receivedCtx.Value(ctxKey("test")))
}

func TestNewCleanup_ContinuesAfterFailure(t *testing.T) {
	var callOrder []string

	server := &fakeShutdowner{name: "serverShutdown", calls: &callOrder, err: errors.New("boom")}
	store := &fakeStore{calls: &callOrder}

	newCleanup(context.Background(), server, store, nil)()

	require.Equal(t, []string{"serverShutdown", "storeClose"}, callOrder)
}

type ctxKey string

type fakeShutdowner struct {
	name        string
	calls       *[]string
	err         error
	receivedCtx context.Context
}

func (f *fakeShutdowner) Shutdown(ctx context.Context) error {
	f.receivedCtx = ctx
	*f.calls = append(*f.calls, f.name)
	return f.err
}

type fakeStore struct {
	calls *[]string
}

func (s *fakeStore) Close() error {
	*s.calls = append(*s.calls, "storeClose")
	return nil
}
