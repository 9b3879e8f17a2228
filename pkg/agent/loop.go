// PicoClaw - Ultra-lightweight personal AI agent
// License: MIT

// Package agent implements the C7 AI Worker: a single background goroutine
// that consumes user instructions from a bounded FIFO and drives the
// C4+C5+C3 request/execute loop against the C1 conversation store, grounded
// on the teacher's runLLMIteration shape (build tool defs, call provider,
// normalize tool calls, execute each via the registry, build tool-result
// messages, loop) and generalized from the teacher's multi-channel bot
// session model down to a single local conversation.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nmnduy/claude-c/pkg/audit"
	"github.com/nmnduy/claude-c/pkg/config"
	"github.com/nmnduy/claude-c/pkg/logger"
	"github.com/nmnduy/claude-c/pkg/providers"
	"github.com/nmnduy/claude-c/pkg/session"
	"github.com/nmnduy/claude-c/pkg/tools"
	"github.com/nmnduy/claude-c/pkg/utils"
)

// instructionQueueCapacity is the AIInstructionQueue bound from §4.8 ("e.g.,
// 16").
const instructionQueueCapacity = 16

// Worker is the C7 AI Worker.
type Worker struct {
	cfg      *config.Config
	store    *session.Store
	registry *tools.ToolRegistry
	provider providers.LLMProvider
	sink     *audit.SQLiteSink
	hooks    Hooks
	listener AgentEventListener
	limiter  *rateLimiter

	instructions chan string
}

// NewWorker constructs a Worker. sink and listener may be nil. A
// non-positive rate limit disables that limit.
func NewWorker(
	cfg *config.Config,
	store *session.Store,
	registry *tools.ToolRegistry,
	provider providers.LLMProvider,
	sink *audit.SQLiteSink,
	hooks Hooks,
	listener AgentEventListener,
	maxToolCallsPerMinute, maxRequestsPerMinute int,
) *Worker {
	return &Worker{
		cfg:          cfg,
		store:        store,
		registry:     registry,
		provider:     provider,
		sink:         sink,
		hooks:        hooks,
		listener:     listener,
		limiter:      newRateLimiter(maxToolCallsPerMinute, maxRequestsPerMinute),
		instructions: make(chan string, instructionQueueCapacity),
	}
}

// Submit enqueues a user instruction. It does not block: a full queue
// reports an error immediately rather than stalling the caller (the input
// editor's event loop, per §4.9).
func (w *Worker) Submit(instruction string) error {
	select {
	case w.instructions <- instruction:
		return nil
	default:
		return fmt.Errorf("instruction queue full (capacity %d)", instructionQueueCapacity)
	}
}

// Stop closes the instruction queue, causing Run to return once drained.
func (w *Worker) Stop() {
	close(w.instructions)
}

// Pending reports the instruction queue's current depth, used by the
// input editor's Ctrl+C handling (§4.9: "instruction-queue depth > 0").
func (w *Worker) Pending() int {
	return len(w.instructions)
}

// Run drains the instruction queue until it is closed or ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case instruction, ok := <-w.instructions:
			if !ok {
				return
			}
			w.processInstruction(ctx, instruction)
		case <-ctx.Done():
			return
		}
	}
}

func (w *Worker) fireEvent(t AgentEventType, data any) {
	if w.listener != nil {
		w.listener.OnEvent(AgentEvent{Type: t, Data: data})
	}
}

// processInstruction implements §4.7(a)-(c): append the user turn, then
// loop issuing requests and executing any returned tool calls until a bare
// text response arrives.
func (w *Worker) processInstruction(ctx context.Context, instruction string) {
	if err := w.limiter.checkRequest(); err != nil {
		logger.WarnCF("agent", "request rate limit exceeded", map[string]any{"error": err.Error()})
		w.fireEvent(EventError, ErrorData{Err: err})
		return
	}

	if err := w.store.Append(session.Message{
		Role:   session.RoleUser,
		Blocks: []session.ContentBlock{session.NewTextBlock(instruction)},
	}); err != nil {
		w.fireEvent(EventError, ErrorData{Err: err})
		return
	}

	iteration := 0
	for {
		if ctx.Err() != nil || w.store.Interrupted() {
			w.fireEvent(EventError, ErrorData{Err: fmt.Errorf("turn interrupted")})
			return
		}

		w.fireEvent(EventThinkingStarted, nil)
		resp, err := w.callWithRetry(ctx, iteration)
		if err != nil {
			logger.ErrorCF("agent", "LLM call failed", map[string]any{"error": err.Error()})
			w.fireEvent(EventError, ErrorData{Err: err})
			return
		}

		for i := range resp.ToolCalls {
			resp.ToolCalls[i] = providers.NormalizeToolCall(resp.ToolCalls[i])
			if resp.ToolCalls[i].ID == "" {
				resp.ToolCalls[i].ID = uuid.NewString()
			}
		}

		if err := w.store.Append(session.Message{
			Role:   session.RoleAssistant,
			Blocks: responseToAssistantBlocks(resp),
		}); err != nil {
			w.fireEvent(EventError, ErrorData{Err: err})
			return
		}

		if len(resp.ToolCalls) == 0 {
			w.fireEvent(EventResponseComplete, ResponseCompleteData{Content: resp.Content})
			return
		}

		resultBlocks, err := w.runToolCalls(ctx, resp.ToolCalls, iteration)
		if err != nil {
			w.fireEvent(EventError, ErrorData{Err: err})
			return
		}
		if err := w.store.AppendToolResults(resultBlocks); err != nil {
			w.fireEvent(EventError, ErrorData{Err: err})
			return
		}

		iteration++
	}
}

// callWithRetry builds the C6 request document from the current
// conversation snapshot and issues it through C5's retry controller,
// writing one C11 audit record per attempt.
func (w *Worker) callWithRetry(ctx context.Context, iteration int) (*providers.LLMResponse, error) {
	model := w.cfg.Model()
	toolDefs := w.registry.ToProviderDefs()

	var lastReqBody, lastRespBody string
	var lastHTTPStatus int
	var lastCallErr error

	fn := func(ctx context.Context) (*providers.LLMResponse, error) {
		msgs := buildProviderMessages(w.store.SnapshotShapeForRequest())
		if w.hooks.OnPreLLM != nil {
			msgs = w.hooks.OnPreLLM(ctx, msgs)
		}
		msgs = sanitizeToolPairs(msgs)

		reqBody, _ := json.Marshal(map[string]any{"model": model, "messages": msgs, "tools": toolDefs})
		lastReqBody = string(reqBody)

		resp, err := w.provider.Chat(ctx, msgs, toolDefs, model, map[string]interface{}{})
		lastCallErr = err
		if err != nil {
			lastHTTPStatus = utils.IsRetryableError(err).Status
			lastRespBody = err.Error()
			return nil, err
		}
		lastHTTPStatus = 200
		respBody, _ := json.Marshal(resp)
		lastRespBody = string(respBody)
		return resp, nil
	}

	notify := func(attempt int, decision utils.RetryDecision, elapsed, nextDelay time.Duration) {
		if nextDelay > 0 {
			logger.WarnCF("agent", utils.FormatLLMRetryNotice(attempt, decision, nextDelay), nil)
		}
		w.recordAttempt(ctx, lastReqBody, lastRespBody, model, lastHTTPStatus, lastCallErr, elapsed, len(toolDefs))
	}

	budget := utils.RetryBudget{MaxDurationMS: w.cfg.RetryBudgetMS()}
	resp, err := utils.DoWithBudget(ctx, budget, fn, notify)
	if err != nil {
		return nil, fmt.Errorf("%s", userFriendlyError(err))
	}
	return resp, nil
}

func (w *Worker) recordAttempt(
	ctx context.Context,
	reqBody, respBody, model string,
	httpStatus int,
	callErr error,
	elapsed time.Duration,
	toolCount int,
) {
	if w.sink == nil {
		return
	}
	status := audit.StatusSuccess
	var errMsg *string
	if callErr != nil {
		status = audit.StatusError
		m := callErr.Error()
		errMsg = &m
	}
	rec := audit.Record{
		SessionID:    w.store.SessionID,
		EndpointURL:  w.cfg.OpenAIAPIBase,
		RequestBody:  reqBody,
		ResponseBody: &respBody,
		Model:        model,
		Status:       status,
		HTTPStatus:   httpStatus,
		ErrorMessage: errMsg,
		DurationMS:   elapsed.Milliseconds(),
		ToolCount:    toolCount,
	}
	if err := w.sink.Record(ctx, rec); err != nil {
		logger.ErrorCF("audit", "failed to record LLM call attempt", map[string]any{"error": err.Error()})
	}
}

// runToolCalls fans out tool calls via C3, emitting start/complete events
// and honoring the tool-call rate limit before dispatch.
func (w *Worker) runToolCalls(ctx context.Context, calls []providers.ToolCall, iteration int) ([]session.ContentBlock, error) {
	for _, tc := range calls {
		if err := w.limiter.checkToolCall(); err != nil {
			return nil, err
		}
		if w.hooks.OnPreTool != nil {
			if err := w.hooks.OnPreTool(ctx, tc.Name, tc.Arguments); err != nil {
				return nil, err
			}
		}
		w.fireEvent(EventToolCallStarted, ToolCallStartedData{ID: tc.ID, Name: tc.Name, Args: tc.Arguments})
	}

	executions := tools.ExecuteToolCalls(ctx, w.registry, calls, tools.ToolCallExecutionOptions{
		Iteration: iteration,
		Interrupt: w.store.Interrupted,
	})

	blocks := make([]session.ContentBlock, 0, len(executions))
	for _, ex := range executions {
		w.fireEvent(EventToolCallCompleted, ToolCallCompletedData{
			ID:      ex.ToolCall.ID,
			Name:    ex.ToolCall.Name,
			Result:  ex.Result.ForLLM,
			IsError: ex.Result.IsError,
		})
		if w.hooks.OnPostTool != nil {
			w.hooks.OnPostTool(ctx, ex.ToolCall.Name, ex.Result.ForLLM, time.Duration(ex.DurationMS)*time.Millisecond)
		}
		blocks = append(blocks, session.NewToolResultBlock(ex.ToolCall.ID, ex.ToolCall.Name, ex.Result.ForLLM, ex.Result.IsError))
	}
	return blocks, nil
}
