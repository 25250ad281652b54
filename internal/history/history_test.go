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
package history

import (
	"context"
	"testing"
	"time"

	"github.com/teradata-labs/prism/internal/pubsub"
)

func TestRecentNewestFirstCapped(t *testing.T) {
	s := NewService()
	for _, q := range []string{"first", "second", "third", "fourth", "fifth"} {
		s.Add(q, "SELECT 1", 1)
	}

	recent := s.Recent()
	if len(recent) != VisibleLimit {
		t.Fatalf("len(Recent()) = %d, want %d", len(recent), VisibleLimit)
	}
	want := []string{"fifth", "fourth", "third"}
	for i, w := range want {
		if recent[i].Question != w {
			t.Errorf("Recent()[%d].Question = %q, want %q", i, recent[i].Question, w)
		}
	}
}

func TestAllKeepsEverything(t *testing.T) {
	s := NewService()
	s.Add("one", "SELECT 1", 1)
	s.Add("two", "SELECT 2", 2)

	all := s.All()
	if len(all) != 2 {
		t.Fatalf("len(All()) = %d, want 2", len(all))
	}
	if all[0].Question != "one" || all[1].Question != "two" {
		t.Errorf("All() not in insertion order: %q, %q", all[0].Question, all[1].Question)
	}
	if all[0].ID == all[1].ID {
		t.Error("entries share an ID")
	}
}

func TestSubscribeReceivesAdds(t *testing.T) {
	s := NewService()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := s.Subscribe(ctx)
	s.Add("monthly sales", "SELECT month, revenue FROM sales", 12)

	select {
	case ev := <-ch:
		if ev.Type != pubsub.CreatedEvent {
			t.Errorf("event type = %v, want CreatedEvent", ev.Type)
		}
		if ev.Payload.RowCount != 12 {
			t.Errorf("RowCount = %d, want 12", ev.Payload.RowCount)
		}
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
}
