// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestSupervisorTreeConstruction(t *testing.T) {
	t.Run("creates hierarchical supervisor tree", func(t *testing.T) {
		tree, err := NewSupervisorTree(quietLogger(), TreeConfig{
			FailureThreshold: 5,
			FailureBackoff:   time.Second,
			ShutdownTimeout:  10 * time.Second,
		})
		if err != nil {
			t.Fatalf("failed to create tree: %v", err)
		}
		if tree.Root() == nil {
			t.Error("root supervisor should not be nil")
		}
	})

	t.Run("applies default values for zero config", func(t *testing.T) {
		tree, err := NewSupervisorTree(quietLogger(), TreeConfig{})
		if err != nil {
			t.Fatalf("failed to create tree: %v", err)
		}
		if tree.config != DefaultTreeConfig() {
			t.Errorf("config = %+v, want %+v", tree.config, DefaultTreeConfig())
		}
	})
}

func TestSupervisorTreeLifecycle(t *testing.T) {
	t.Run("tree starts and stops gracefully", func(t *testing.T) {
		tree, err := NewSupervisorTree(quietLogger(), TreeConfig{
			FailureThreshold: 5,
			FailureBackoff:   100 * time.Millisecond,
			ShutdownTimeout:  time.Second,
		})
		if err != nil {
			t.Fatalf("failed to create tree: %v", err)
		}

		tree.AddMessagingService(newMockService("mock-messaging"))
		tree.AddAPIService(newMockService("mock-api"))

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() {
			errCh <- tree.Serve(ctx)
		}()

		time.Sleep(100 * time.Millisecond)
		cancel()

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, context.Canceled) {
				t.Errorf("unexpected error: %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Error("tree did not shut down in time")
		}

		if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) != 0 {
			t.Errorf("unstopped services: %v", report)
		}
	})

	t.Run("ServeBackground returns channel", func(t *testing.T) {
		tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})

		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		select {
		case err := <-tree.ServeBackground(ctx):
			if err != nil && !errors.Is(err, context.DeadlineExceeded) {
				t.Errorf("unexpected error: %v", err)
			}
		case <-time.After(time.Second):
			t.Error("did not receive from error channel")
		}
	})
}

func TestSupervisorTreeServiceManagement(t *testing.T) {
	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})

	msgSvc := newMockService("messaging-service")
	apiSvc := newMockService("api-service")
	tree.AddMessagingService(msgSvc)
	tree.AddAPIService(apiSvc)

	ctx, cancel := context.WithCancel(context.Background())
	done := tree.ServeBackground(ctx)
	defer func() {
		cancel()
		<-done
	}()

	waitForStarts(t, msgSvc, 1)
	waitForStarts(t, apiSvc, 1)

	t.Run("removing a messaging service", func(t *testing.T) {
		extra := newMockService("extra")
		token := tree.AddMessagingService(extra)
		waitForStarts(t, extra, 1)

		if err := tree.RemoveMessagingService(token); err != nil {
			t.Fatalf("RemoveMessagingService: %v", err)
		}
	})
}

func TestSupervisorTreeFailureHandling(t *testing.T) {
	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})

	failingSvc := newMockService("failing")
	failingSvc.setFailCount(2)
	stableSvc := newMockService("stable")

	tree.AddMessagingService(failingSvc)
	tree.AddAPIService(stableSvc)

	ctx, cancel := context.WithCancel(context.Background())
	done := tree.ServeBackground(ctx)
	defer func() {
		cancel()
		<-done
	}()

	// Two failures then a healthy run
	waitForStarts(t, failingSvc, 3)
	waitForStarts(t, stableSvc, 1)
	if stableSvc.starts() != 1 {
		t.Errorf("stable service starts = %d, want 1", stableSvc.starts())
	}
}

func waitForStarts(t *testing.T, svc *mockService, want int32) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for svc.starts() < want {
		if time.Now().After(deadline) {
			t.Fatalf("%s starts = %d, want >= %d", svc, svc.starts(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
