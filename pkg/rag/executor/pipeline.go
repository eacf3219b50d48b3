package executor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"interview-rag-be/pkg/ai/router"
	"interview-rag-be/pkg/llm"
	"interview-rag-be/pkg/rag/booking"
	"interview-rag-be/pkg/rag/history"
	"interview-rag-be/pkg/rag/prompt"
	"interview-rag-be/pkg/rag/response"
	"interview-rag-be/pkg/rag/state"
	"interview-rag-be/pkg/store"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("interview-rag.dialogue")

var (
	ErrEmptyQuery         = errors.New("query must not be empty")
	ErrHistoryUnavailable = errors.New("conversation history unavailable")
	ErrStoreUnavailable   = errors.New("conversation store write failed")
	ErrLedgerUnavailable  = errors.New("booking ledger unavailable")
)

// Route labels reported back to the caller
const (
	RouteRAG      = string(router.RouteRAG)
	RouteBooking  = string(router.RouteBooking)
	RouteDegraded = "degraded"
)

// Retriever fetches grounding documents for a query
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]store.Document, error)
}

type Config struct {
	OracleTimeout time.Duration
	Temperature   float64
}

func DefaultConfig() Config {
	return Config{
		OracleTimeout: 60 * time.Second,
		Temperature:   0.1,
	}
}

// PipelineExecutor runs one dialogue turn:
// retrieve + read history -> oracle -> rag reply or booking flow -> persist turn
type PipelineExecutor struct {
	retriever     Retriever
	historyLoader *history.Loader
	oracle        llm.LLMProvider
	validator     *booking.Validator
	ledger        booking.Ledger
	config        Config
	logger        *log.Logger
}

// NewPipelineExecutor creates a new dialogue executor
func NewPipelineExecutor(
	retriever Retriever,
	historyLoader *history.Loader,
	oracle llm.LLMProvider,
	validator *booking.Validator,
	ledger booking.Ledger,
	config Config,
	logger *log.Logger,
) *PipelineExecutor {
	if config.OracleTimeout <= 0 {
		config.OracleTimeout = DefaultConfig().OracleTimeout
	}
	return &PipelineExecutor{
		retriever:     retriever,
		historyLoader: historyLoader,
		oracle:        oracle,
		validator:     validator,
		ledger:        ledger,
		config:        config,
		logger:        logger,
	}
}

// ExecutionResult contains the result of one turn
type ExecutionResult struct {
	Reply           string
	Route           string
	Outcome         string
	MissingFields   []string
	ContextDocCount int
	HistoryTurns    int
	OracleLatency   time.Duration
	States          []state.State
}

// Execute answers a query inside the given session. Degraded oracle output
// is not an error; history, store and ledger failures are.
func (p *PipelineExecutor) Execute(ctx context.Context, sessionID string, query string) (*ExecutionResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	ctx, span := tracer.Start(ctx, "dialogue.Execute",
		trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer span.End()

	sm := state.NewManager(p.logger)
	p.logger.Printf("[PIPELINE] session=%s query=%q", sessionID, truncate(query, 80))

	// ═══ RETRIEVAL + HISTORY ═══
	if err := sm.Transition(state.Retrieving); err != nil {
		return nil, err
	}
	documents, turns, err := p.gather(ctx, sessionID, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "history read failed")
		return nil, err
	}

	// ═══ ORACLE ═══
	if err := sm.Transition(state.OracleCall); err != nil {
		return nil, err
	}
	result := &ExecutionResult{
		ContextDocCount: len(documents),
		HistoryTurns:    len(turns),
	}
	parsed, latency := p.consultOracle(ctx, turns, documents, query)
	result.OracleLatency = latency

	// ═══ BRANCH ═══
	switch r := parsed.(type) {
	case router.Malformed:
		p.logger.Printf("[PHASE] degraded: %v (raw=%q)", r.Reason, truncate(r.Raw, 200))
		if err := sm.Transition(state.Degraded); err != nil {
			return nil, err
		}
		result.Route = RouteDegraded
		result.Reply = response.ParseFailureMessage

	case router.Parsed:
		if r.Decision.Route == router.RouteRAG {
			if err := sm.Transition(state.RagReply); err != nil {
				return nil, err
			}
			result.Route = RouteRAG
			result.Reply = *r.Decision.Reply
			break
		}

		result.Route = RouteBooking
		if err := p.handleBooking(ctx, sm, r.Decision.Booking, result); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "booking commit failed")
			return nil, err
		}
	}

	// ═══ PERSIST ═══
	if err := p.historyLoader.Record(ctx, sessionID, store.NewTurn(query, result.Reply)); err != nil {
		p.logger.Printf("[ERROR] persisting turn for session %s: %v", sessionID, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "turn not persisted")
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if err := sm.Transition(state.Done); err != nil {
		return nil, err
	}
	result.States = sm.Trail()
	span.SetAttributes(attribute.String("dialogue.route", result.Route))
	span.SetStatus(codes.Ok, "")

	p.logger.Printf("[PIPELINE] done route=%s outcome=%s latency=%s", result.Route, result.Outcome, latency)
	return result, nil
}

// gather runs retrieval and the history read concurrently. Retrieval
// failures degrade to an empty context; history failures abort the turn.
func (p *PipelineExecutor) gather(ctx context.Context, sessionID, query string) ([]store.Document, []store.Turn, error) {
	var (
		documents []store.Document
		turns     []store.Turn
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		docs, err := p.retriever.Retrieve(gctx, query)
		if err != nil {
			p.logger.Printf("[ERROR] retrieval failed, continuing without context: %v", err)
			return nil
		}
		if len(docs) == 0 {
			p.logger.Printf("[INFO] no relevant documents for query")
		}
		documents = docs
		return nil
	})
	g.Go(func() error {
		t, err := p.historyLoader.LoadConversationHistory(gctx, sessionID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrHistoryUnavailable, err)
		}
		turns = t
		return nil
	})

	if err := g.Wait(); err != nil {
		p.logger.Printf("[ERROR] %v", err)
		return nil, nil, err
	}
	return documents, turns, nil
}

// consultOracle never fails: transport errors and timeouts come back as Malformed.
func (p *PipelineExecutor) consultOracle(ctx context.Context, turns []store.Turn, documents []store.Document, query string) (router.Result, time.Duration) {
	ctx, span := tracer.Start(ctx, "dialogue.Oracle")
	defer span.End()

	oracleCtx, cancel := context.WithTimeout(ctx, p.config.OracleTimeout)
	defer cancel()

	messages := prompt.NewOracleBuilder(turns, documents, query).Build()

	start := time.Now()
	raw, err := p.oracle.Chat(oracleCtx, messages,
		llm.WithTemperature(p.config.Temperature),
		llm.WithJSONMode(),
	)
	latency := time.Since(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "oracle call failed")
		return router.Malformed{Reason: fmt.Errorf("oracle call: %w", err)}, latency
	}
	return router.Parse(raw), latency
}

func (p *PipelineExecutor) handleBooking(ctx context.Context, sm *state.Manager, draft *router.BookingDraft, result *ExecutionResult) error {
	if err := sm.Transition(state.BookingValidate); err != nil {
		return err
	}

	missing := p.validator.MissingFields(draft)
	if len(missing) > 0 {
		if err := sm.Transition(state.BookingMissingFields); err != nil {
			return err
		}
		result.MissingFields = missing
		result.Reply = response.MissingFieldsMessage(missing)
		return nil
	}

	// A complete draft with unusable values is an oracle protocol error
	if invalid := p.validator.InvalidFields(draft); len(invalid) > 0 {
		p.logger.Printf("[PHASE] degraded: badly formatted booking fields %v", invalid)
		if err := sm.Transition(state.Degraded); err != nil {
			return err
		}
		result.Route = RouteDegraded
		result.Reply = response.ParseFailureMessage
		return nil
	}

	record, err := p.validator.NewRecord(draft)
	if err != nil {
		return err
	}

	outcome, err := p.ledger.Commit(ctx, record)
	if err != nil {
		p.logger.Printf("[ERROR] ledger commit failed: %v", err)
		return fmt.Errorf("%w: %v", ErrLedgerUnavailable, err)
	}

	result.Outcome = outcome.String()
	switch outcome {
	case booking.Duplicate:
		if err := sm.Transition(state.BookingDuplicate); err != nil {
			return err
		}
		result.Reply = response.BookingDuplicateMessage
	default:
		if err := sm.Transition(state.BookingCommitted); err != nil {
			return err
		}
		result.Reply = response.BookingSuccessMessage
	}
	return nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
