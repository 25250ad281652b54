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
// Package translator converts natural language questions into SQL. Pattern
// rules match first, an LLM handles anything the rules miss when a key is
// configured, and keyword fallback queries guarantee the caller always gets
// runnable SQL.
package translator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Model identifiers reported in Result.ModelUsed. When the LLM produced the
// SQL the identifier is the model name instead.
const (
	ModelPatternMatching = "pattern_matching"
	ModelFallback        = "fallback_patterns"
)

// ErrQuestionTooShort rejects questions under five characters.
var ErrQuestionTooShort = errors.New("question is too short or empty")

// Result is one translation: the SQL to run and how it was produced.
type Result struct {
	Question  string
	SQL       string
	ModelUsed string
	// Note explains a degraded path, e.g. an LLM failure that fell back to
	// keyword queries. Empty on the happy paths.
	Note string
}

// Translator turns questions into SQL. Safe for concurrent use; the rule set
// may be swapped at runtime via LoadRulesFile or the fsnotify watcher.
type Translator struct {
	llm    *LLMClient
	logger *zap.Logger

	mu    sync.RWMutex
	rules []Rule
}

// Option configures a Translator.
type Option func(*Translator)

// WithLLM enables the LLM path for questions no rule matches.
func WithLLM(c *LLMClient) Option {
	return func(t *Translator) { t.llm = c }
}

// WithLogger sets the logger. Default is a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(t *Translator) { t.logger = l }
}

// New creates a Translator with the embedded rule set.
func New(opts ...Option) *Translator {
	t := &Translator{
		logger: zap.NewNop(),
		rules:  embeddedRules(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ValidateQuestion rejects questions that cannot reasonably become SQL.
// Questions without business vocabulary still pass; the check on content is
// advisory and only logged.
func (t *Translator) ValidateQuestion(question string) error {
	if len(strings.TrimSpace(question)) < 5 {
		return ErrQuestionTooShort
	}
	if !hasBusinessKeyword(question) {
		t.logger.Debug("question has no business keyword, attempting anyway",
			zap.String("question", question))
	}
	return nil
}

var businessKeywords = []string{
	"sales", "revenue", "customers", "products", "orders",
	"top", "total", "average", "count", "show", "list",
	"most", "best", "trend", "category", "profit",
}

func hasBusinessKeyword(question string) bool {
	lower := strings.ToLower(question)
	for _, kw := range businessKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Translate converts a question to SQL. Rules match first; the LLM runs only
// when no rule matched and a client is configured; keyword fallbacks catch
// everything else, so translation itself never fails after validation.
func (t *Translator) Translate(ctx context.Context, question string) (*Result, error) {
	if err := t.ValidateQuestion(question); err != nil {
		return nil, err
	}

	if sql := t.matchRules(question); sql != "" {
		return &Result{Question: question, SQL: sql, ModelUsed: ModelPatternMatching}, nil
	}

	if t.llm != nil {
		sql, err := t.llm.GenerateSQL(ctx, question)
		if err == nil {
			return &Result{Question: question, SQL: sql, ModelUsed: t.llm.Model()}, nil
		}
		t.logger.Warn("llm translation failed, using fallback",
			zap.String("question", question), zap.Error(err))
		return &Result{
			Question:  question,
			SQL:       fallbackQuery(question),
			ModelUsed: ModelFallback,
			Note:      fmt.Sprintf("llm failed: %v, using fallback", err),
		}, nil
	}

	return &Result{Question: question, SQL: fallbackQuery(question), ModelUsed: ModelFallback}, nil
}

func (t *Translator) matchRules(question string) string {
	lower := strings.ToLower(question)
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, r := range t.rules {
		for _, phrase := range r.Match {
			if strings.Contains(lower, phrase) {
				return r.SQL
			}
		}
	}
	return ""
}

// Rules returns a copy of the active rule set.
func (t *Translator) Rules() []Rule {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// LoadRulesFile replaces the rule set with the file's contents.
func (t *Translator) LoadRulesFile(path string) error {
	rules, err := loadRules(path)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.rules = rules
	t.mu.Unlock()
	t.logger.Info("translation rules loaded", zap.String("path", path), zap.Int("rules", len(rules)))
	return nil
}

// Watch hot-reloads the rule file on every change until ctx is done. A file
// that fails to parse keeps the previous rule set.
func (t *Translator) Watch(ctx context.Context, path string) error {
	if err := t.LoadRulesFile(path); err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	go func() {
		defer func() { _ = watcher.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := t.LoadRulesFile(path); err != nil {
					t.logger.Warn("rule reload failed, keeping previous rules",
						zap.String("path", path), zap.Error(err))
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				t.logger.Warn("rule watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}
