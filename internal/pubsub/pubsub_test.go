// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package pubsub

import (
	"context"
	"runtime"
	"testing"
	"time"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	b := NewBroker[string]()
	defer b.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch1 := b.Subscribe(ctx)
	ch2 := b.Subscribe(ctx)

	b.Publish(CreatedEvent, "hello")

	for i, ch := range []<-chan Event[string]{ch1, ch2} {
		select {
		case ev := <-ch:
			if ev.Type != CreatedEvent || ev.Payload != "hello" {
				t.Errorf("subscriber %d: got %v %q", i, ev.Type, ev.Payload)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d: no event", i)
		}
	}
}

func TestCancelUnsubscribes(t *testing.T) {
	b := NewBroker[int]()
	defer b.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	ch := b.Subscribe(ctx)
	cancel()

	// Channel closes once the cancellation goroutine runs.
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after cancel")
		}
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	b := NewBroker[int]()
	defer b.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	b.Subscribe(ctx) // never drained

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*2; i++ {
			b.Publish(UpdatedEvent, i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}

func TestShutdownReleasesContextWatchers(t *testing.T) {
	before := runtime.NumGoroutine()

	b := NewBroker[int]()
	for i := 0; i < 8; i++ {
		b.Subscribe(context.Background())
	}
	b.Shutdown()

	// The watcher goroutines exit once the broker's quit channel closes,
	// even though the subscriber contexts are never cancelled.
	deadline := time.After(2 * time.Second)
	for runtime.NumGoroutine() > before {
		select {
		case <-deadline:
			t.Fatalf("%d goroutines still running, want %d",
				runtime.NumGoroutine(), before)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestSubscribeAfterShutdown(t *testing.T) {
	b := NewBroker[int]()
	b.Shutdown()
	b.Shutdown() // idempotent

	ch := b.Subscribe(context.Background())
	if _, ok := <-ch; ok {
		t.Error("expected closed channel from a shut-down broker")
	}
}
