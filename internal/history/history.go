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
// Package history keeps the in-process query history: every submitted
// question with its generated SQL and row count. Storage is unbounded for
// the process lifetime; only the most recent entries are surfaced to the UI.
package history

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/teradata-labs/prism/internal/pubsub"
)

// VisibleLimit caps how many entries Recent returns.
const VisibleLimit = 3

// Entry records one executed query.
type Entry struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	SQL       string    `json:"sql"`
	RowCount  int       `json:"row_count"`
	CreatedAt time.Time `json:"created_at"`
}

// Service is an in-memory history store. Safe for concurrent use.
type Service struct {
	broker  *pubsub.Broker[Entry]
	mu      sync.Mutex
	entries []Entry
}

// NewService creates an empty history service.
func NewService() *Service {
	return &Service{broker: pubsub.NewBroker[Entry]()}
}

// Add records a query and publishes a created event.
func (s *Service) Add(question, sql string, rowCount int) Entry {
	e := Entry{
		ID:        uuid.NewString(),
		Question:  question,
		SQL:       sql,
		RowCount:  rowCount,
		CreatedAt: time.Now(),
	}
	s.mu.Lock()
	s.entries = append(s.entries, e)
	s.mu.Unlock()

	s.broker.Publish(pubsub.CreatedEvent, e)
	return e
}

// Recent returns up to VisibleLimit entries, newest first.
func (s *Service) Recent() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.entries)
	limit := VisibleLimit
	if n < limit {
		limit = n
	}
	out := make([]Entry, 0, limit)
	for i := 0; i < limit; i++ {
		out = append(out, s.entries[n-1-i])
	}
	return out
}

// All returns every stored entry in insertion order.
func (s *Service) All() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Subscribe streams new entries until ctx is done.
func (s *Service) Subscribe(ctx context.Context) <-chan pubsub.Event[Entry] {
	return s.broker.Subscribe(ctx)
}
