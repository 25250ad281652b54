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
// Package coordinator drives the submit → load → render lifecycle: it owns
// the current result set, the single live chart instance, and the render
// state, and runs the classify/select/build pipeline whenever a chart is
// requested or its shape changes.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/teradata-labs/prism/internal/history"
	"github.com/teradata-labs/prism/internal/pubsub"
	"github.com/teradata-labs/prism/pkg/resultset"
	"github.com/teradata-labs/prism/pkg/visualization"
)

// State is the render state. Exactly one holds at a time.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateShowingTable
	StateShowingTableAndChart
	StateError
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateShowingTable:
		return "showing-table"
	case StateShowingTableAndChart:
		return "showing-table-and-chart"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// QueryResult is a successful query response: the generated SQL, the model
// that produced it, and the result set.
type QueryResult struct {
	Question  string
	SQL       string
	ModelUsed string
	Set       *resultset.ResultSet
}

// QueryService is the outbound interface to the query translation/execution
// collaborator.
type QueryService interface {
	SubmitQuestion(ctx context.Context, question string) (*QueryResult, error)
	FetchSuggestions(ctx context.Context) (map[string][]string, error)
	FetchKPIs(ctx context.Context) (map[string]resultset.Value, error)
	FetchChartData(ctx context.Context, kind string) (*resultset.ResultSet, error)
}

// ChartInstance is a live chart owned by the coordinator. At most one is
// alive at a time; replacing it destroys the prior instance first.
type ChartInstance interface {
	Destroy()
}

// ChartRenderer instantiates charts from a declarative config document.
type ChartRenderer interface {
	Render(config []byte) (ChartInstance, error)
}

// ErrorInfo is the user-facing error carried by the error state. Detail
// holds the raw payload, hidden by default in the UI.
type ErrorInfo struct {
	Message string
	Detail  string
}

// StateChange is published on every transition.
type StateChange struct {
	State State
	Err   *ErrorInfo
}

// ErrNoResult is returned by operations that need a current result set.
var ErrNoResult = errors.New("no result set to operate on")

// InputError is a locally rejected input; nothing was sent over the wire.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }

// TransportError wraps network-level failures: connection refused, timeouts,
// responses that are not the protocol at all. Shown as "disconnected";
// recovery is explicit user resubmission, never an automatic retry.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("transport: %v", e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// AppError is a well-formed response with the success flag false. Detail
// carries the raw payload the UI keeps hidden by default.
type AppError struct {
	Message   string
	ErrorType string
	Detail    string
}

func (e *AppError) Error() string { return e.Message }

// Coordinator owns the render state machine. All mutation happens under one
// mutex: responses arriving from interleaved submissions apply in arrival
// order, so the last response to arrive wins. There is no request
// cancellation; a stale response for an abandoned question simply overwrites.
type Coordinator struct {
	svc      QueryService
	renderer ChartRenderer
	style    *visualization.StyleConfig
	gen      *visualization.OptionsGenerator
	logger   *zap.Logger
	history  *history.Service
	broker   *pubsub.Broker[StateChange]

	mu        sync.Mutex
	state     State
	lastErr   *ErrorInfo
	current   *QueryResult
	chart     ChartInstance
	chartType visualization.ChartType
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger. Default is a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// WithStyle sets the chart style tokens.
func WithStyle(s *visualization.StyleConfig) Option {
	return func(c *Coordinator) { c.style = s }
}

// New creates a Coordinator in the idle state.
func New(svc QueryService, renderer ChartRenderer, opts ...Option) *Coordinator {
	c := &Coordinator{
		svc:      svc,
		renderer: renderer,
		logger:   zap.NewNop(),
		history:  history.NewService(),
		broker:   pubsub.NewBroker[StateChange](),
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.style == nil {
		c.style = visualization.DefaultStyleConfig()
	}
	c.gen = visualization.NewOptionsGenerator(c.style)
	return c
}

// State returns the current render state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastError returns the error shown in the error state, or nil.
func (c *Coordinator) LastError() *ErrorInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Current returns the displayed query result, or nil. A failed query leaves
// the previous result in place, so Current can be non-nil in the error
// state.
func (c *Coordinator) Current() *QueryResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// History returns the query history service.
func (c *Coordinator) History() *history.Service { return c.history }

// Subscribe streams state changes until ctx is done.
func (c *Coordinator) Subscribe(ctx context.Context) <-chan pubsub.Event[StateChange] {
	return c.broker.Subscribe(ctx)
}

func (c *Coordinator) setState(s State, errInfo *ErrorInfo) {
	c.state = s
	c.lastErr = errInfo
	c.broker.Publish(pubsub.UpdatedEvent, StateChange{State: s, Err: errInfo})
}

// Submit sends a question to the query service and establishes the response
// as the current result. A blank question is rejected locally before any
// network call. Application and transport failures move to the error state
// but leave the previous result (and its table) visible. Concurrent calls
// are not cancelled; whichever response lands last wins.
func (c *Coordinator) Submit(ctx context.Context, question string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return &InputError{Message: "Please enter a question"}
	}

	c.mu.Lock()
	c.setState(StateLoading, nil)
	c.mu.Unlock()

	res, err := c.svc.SubmitQuestion(ctx, question)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		info := errorInfo(err)
		c.logger.Warn("query failed",
			zap.String("question", question),
			zap.String("message", info.Message))
		c.setState(StateError, info)
		return err
	}

	// New result supersedes the old one wholesale; any live chart belongs
	// to the old result and is destroyed, not reused.
	c.releaseChart()
	c.current = res
	c.setState(StateShowingTable, nil)
	c.history.Add(res.Question, res.SQL, res.Set.RowCount())
	c.logger.Info("query succeeded",
		zap.String("model", res.ModelUsed),
		zap.Int("rows", res.Set.RowCount()))
	return nil
}

// RequestChart runs the full classify → select → build pipeline against the
// current result set and instantiates the chart. With no result present it
// is a no-op, not an error. An empty result renders nothing and leaves the
// state unchanged.
func (c *Coordinator) RequestChart(chart visualization.ChartType) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return nil
	}
	rs := c.current.Set

	cls := visualization.Classify(rs)
	enc := visualization.SelectEncoding(rs, cls, chart)
	if !enc.HasAxis {
		return nil
	}
	payload := visualization.BuildPayload(rs, enc, chart, c.style)

	config, err := c.gen.Generate(payload, chart, c.current.Question)
	if err != nil {
		return err
	}

	// Release before acquire: at most one live chart instance.
	c.releaseChart()
	instance, err := c.renderer.Render(config)
	if err != nil {
		return err
	}
	c.chart = instance
	c.chartType = chart
	c.setState(StateShowingTableAndChart, nil)
	c.logger.Debug("chart rendered",
		zap.String("type", string(chart)),
		zap.Strings("rationale", enc.Rationale))
	return nil
}

// ChangeChartShape re-runs the whole pipeline for the new shape against the
// same result set. Classification is recomputed rather than cached; it is
// cheap and redoing it keeps the encoding consistent with the shape by
// construction.
func (c *Coordinator) ChangeChartShape(chart visualization.ChartType) error {
	return c.RequestChart(chart)
}

// ChartType returns the shape of the live chart, or "" when none is shown.
func (c *Coordinator) ChartType() visualization.ChartType {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.chart == nil {
		return ""
	}
	return c.chartType
}

func (c *Coordinator) releaseChart() {
	if c.chart != nil {
		c.chart.Destroy()
		c.chart = nil
	}
}

// ExportCSV writes the full current result set as delimited text. All rows
// are included, not the chart's truncated view.
func (c *Coordinator) ExportCSV(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return ErrNoResult
	}
	return c.current.Set.WriteCSV(w)
}

// ExportXLSX writes the full current result set as a workbook.
func (c *Coordinator) ExportXLSX(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return ErrNoResult
	}
	return c.current.Set.WriteXLSX(w)
}

// Close releases the live chart and shuts down event delivery.
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.releaseChart()
	c.mu.Unlock()
	c.broker.Shutdown()
}

func errorInfo(err error) *ErrorInfo {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return &ErrorInfo{Message: appErr.Message, Detail: appErr.Detail}
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return &ErrorInfo{Message: "disconnected", Detail: transportErr.Error()}
	}
	return &ErrorInfo{Message: err.Error()}
}
