package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"argus/internal/agents"
	"argus/internal/audit"
	"argus/internal/investigation"
	"argus/internal/investigation/metrics"
	"argus/internal/investigation/store"
	"argus/internal/synthesis"
)

const defaultTimeout = 60 * time.Second

// Request describes one investigation to run.
type Request struct {
	EntityID    string
	EntityType  investigation.EntityType
	RawFacts    any
	ToolResults map[string]any
}

// Service orchestrates one investigation end to end: it fans the domain
// agents out as concurrent tasks, recovers their failures through the circuit
// breaker, enforces the synthesis barrier, and persists the verdict.
type Service struct {
	agents      []agents.Agent
	synthesizer *synthesis.Synthesizer
	store       store.Store
	audit       *audit.Publisher
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
	timeout     time.Duration
	threshold   int
}

// Option configures the Service.
type Option func(*Service)

// WithAudit sets the chain-of-thought publisher.
func WithAudit(p *audit.Publisher) Option {
	return func(s *Service) { s.audit = p }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithTimeout bounds one whole investigation.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithFailureThreshold overrides the per-agent circuit breaker threshold.
func WithFailureThreshold(n int) Option {
	return func(s *Service) { s.threshold = n }
}

// New constructs the investigation service.
func New(agentSet []agents.Agent, synthesizer *synthesis.Synthesizer, st store.Store, logger *slog.Logger, opts ...Option) (*Service, error) {
	if len(agentSet) == 0 {
		return nil, errors.New("at least one domain agent is required")
	}
	if synthesizer == nil {
		return nil, errors.New("synthesizer is required")
	}
	if st == nil {
		return nil, errors.New("investigation store is required")
	}
	s := &Service{
		agents:      agentSet,
		synthesizer: synthesizer,
		store:       st,
		logger:      logger,
		tracer:      otel.Tracer("argus/investigation"),
		timeout:     defaultTimeout,
		threshold:   investigation.DefaultFailureThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Investigate runs every domain agent concurrently over the request's raw
// facts and tool results, synthesizes the risk verdict once all agents have
// completed or failed, and persists the result.
//
// Agent failures are recovered: the failing domain is simply absent from the
// findings and the investigation continues. The two hard stops are
// cross-domain pollution (a programming defect) and the investigation-wide
// timeout (partial findings are discarded wholesale).
func (s *Service) Investigate(ctx context.Context, req Request) (*store.Investigation, error) {
	if req.EntityID == "" {
		return nil, errors.New("entity id is required")
	}
	if !req.EntityType.Valid() {
		return nil, fmt.Errorf("unknown entity type %q", req.EntityType)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ctx, span := s.tracer.Start(ctx, "investigation.run",
		trace.WithAttributes(
			attribute.String("entity.id", req.EntityID),
			attribute.String("entity.type", string(req.EntityType)),
		))
	defer span.End()

	st := investigation.NewState(req.EntityID, req.EntityType, req.RawFacts, req.ToolResults,
		investigation.WithFailureThreshold(s.threshold))
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	for _, agent := range s.agents {
		g.Go(func() error {
			return s.runAgent(gctx, st, agent)
		})
	}

	// Synthesis barrier: the verdict must never be computed against a
	// partially-populated findings map.
	if err := g.Wait(); err != nil {
		s.metrics.IncVerdict(string(synthesis.StatusError))
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "investigation aborted",
				"investigation_id", st.ID,
				"entity_id", st.EntityID,
				"error", err,
			)
		}
		return nil, fmt.Errorf("investigation %s aborted: %w", st.ID, err)
	}

	verdict := s.synthesizer.Synthesize(synthesis.Input{
		Findings:  st.AllFindings(),
		RawFacts:  st.RawFacts(),
		ToolCount: st.ToolCount(),
	})
	if err := st.PutFindings(verdict.Findings); err != nil {
		return nil, fmt.Errorf("commit verdict: %w", err)
	}
	s.emit(audit.Event{
		InvestigationID: st.ID,
		EntityID:        st.EntityID,
		Action:          audit.ActionRiskSynthesized,
		EvidenceCount:   verdict.EvidenceCount(),
		Detail:          string(verdict.Status),
	})

	inv := &store.Investigation{
		ID:         st.ID,
		EntityID:   st.EntityID,
		EntityType: st.EntityType,
		Status:     string(verdict.Status),
		RiskScore:  verdict.RiskScore,
		Confidence: verdict.Confidence,
		Narrative:  verdict.Narrative,
		Findings:   st.AllFindings(),
		Unhealthy:  st.UnhealthyAgents(),
		CreatedAt:  st.CreatedAt,
	}
	if err := s.store.Save(ctx, inv); err != nil {
		return nil, fmt.Errorf("persist investigation: %w", err)
	}

	s.metrics.IncVerdict(inv.Status)
	s.metrics.ObserveInvestigationLatency(time.Since(start))
	s.emit(audit.Event{
		InvestigationID: st.ID,
		EntityID:        st.EntityID,
		Action:          audit.ActionInvestigationEnd,
		Detail:          inv.Status,
	})
	if s.logger != nil {
		s.logger.InfoContext(ctx, "investigation completed",
			"investigation_id", st.ID,
			"entity_id", st.EntityID,
			"status", inv.Status,
			"duration", time.Since(start),
		)
	}
	return inv, nil
}

// runAgent executes one domain agent with panic recovery. Failures are
// recorded by the circuit breaker and swallowed; only pollution and
// cancellation propagate, because those must abort the investigation.
func (s *Service) runAgent(ctx context.Context, st *investigation.State, agent agents.Agent) error {
	domain := agent.Domain()
	start := time.Now()

	ctx, span := s.tracer.Start(ctx, "agent."+domain)
	defer span.End()

	s.emit(audit.Event{
		InvestigationID: st.ID,
		EntityID:        st.EntityID,
		Agent:           domain,
		Action:          audit.ActionAgentStarted,
	})

	findings, err := analyzeSafely(ctx, agent, st)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			// Timed-out agents discard their partial findings wholesale.
			return err
		}
		s.recordFailure(ctx, st, domain, err)
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := investigation.AssertNoCrossDomainPollution(findings, domain); err != nil {
		// Ground-truth leakage is a defect, never input noise: hard stop.
		return err
	}
	if err := st.PutFindings(findings); err != nil {
		return fmt.Errorf("commit %s findings: %w", domain, err)
	}

	s.metrics.ObserveAgentLatency(domain, time.Since(start))
	s.emit(audit.Event{
		InvestigationID: st.ID,
		EntityID:        st.EntityID,
		Agent:           domain,
		Action:          audit.ActionAgentFinished,
		EvidenceCount:   findings.EvidenceCount(),
	})
	return nil
}

func (s *Service) recordFailure(ctx context.Context, st *investigation.State, domain string, err error) {
	st.RecordNodeFailure(domain, err)
	s.metrics.IncAgentFailure(domain)
	if s.logger != nil {
		s.logger.WarnContext(ctx, "agent failed, continuing without domain",
			"investigation_id", st.ID,
			"agent", domain,
			"failures", st.FailureCount(domain),
			"error", err,
		)
	}
	s.emit(audit.Event{
		InvestigationID: st.ID,
		EntityID:        st.EntityID,
		Agent:           domain,
		Action:          audit.ActionAgentFailed,
		Detail:          err.Error(),
	})
	if st.IsUnhealthy(domain) {
		s.metrics.IncBreakerTrip(domain)
		s.emit(audit.Event{
			InvestigationID: st.ID,
			EntityID:        st.EntityID,
			Agent:           domain,
			Action:          audit.ActionAgentUnhealthy,
		})
	}
}

func (s *Service) emit(event audit.Event) {
	if s.audit != nil {
		s.audit.Emit(event)
	}
}

func analyzeSafely(ctx context.Context, agent agents.Agent, st *investigation.State) (findings *investigation.Findings, err error) {
	defer func() {
		if r := recover(); r != nil {
			findings = nil
			err = fmt.Errorf("agent %s panicked: %v", agent.Domain(), r)
		}
	}()
	return agent.Analyze(ctx, st)
}
