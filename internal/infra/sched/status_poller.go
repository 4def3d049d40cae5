// File: internal/infra/sched/status_poller.go
package sched

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"marketing-automation/internal/domain/model"
	"marketing-automation/internal/infra/metrics"
)

// Phase is the lifecycle of one polling session. Completed, Expired and
// TimedOut are terminal; a new trigger needs a fresh poller.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhasePolling
	PhaseCompleted
	PhaseExpired
	PhaseTimedOut
)

func (p Phase) String() string {
	switch p {
	case PhasePolling:
		return "polling"
	case PhaseCompleted:
		return "completed"
	case PhaseExpired:
		return "expired"
	case PhaseTimedOut:
		return "timed_out"
	default:
		return "idle"
	}
}

// StatusClient is the poller's view of the parsing-status endpoint.
type StatusClient interface {
	Status(ctx context.Context, sessionID string) (model.StatusResult, error)
}

// Handlers are the owner's notification hooks. All are optional and are
// invoked from the poller's goroutine.
type Handlers struct {
	// Message receives the rotating user-facing progress message.
	Message func(msg string)
	// Ready fires once, a short delay after completion, when chat can begin.
	Ready func()
	// Expired fires when the status record expired; the trigger can be retried.
	Expired func()
	// TimedOut fires when the global timeout elapsed without completion.
	// Advisory, not an error; the owner may proceed manually.
	TimedOut func()
}

// Config holds the poller intervals. Zero values take the production
// defaults; tests shrink them.
type Config struct {
	PollInterval    time.Duration // status poll tick, default 2s
	RotateInterval  time.Duration // progress message rotation, default 3s
	Timeout         time.Duration // global give-up, default 15m
	CompletionDelay time.Duration // pause between completion and Ready, default 2s
	Messages        []string      // rotation messages, default DefaultStatusMessages
}

func (c *Config) applyDefaults() {
	if c.PollInterval <= 0 {
		c.PollInterval = 2 * time.Second
	}
	if c.RotateInterval <= 0 {
		c.RotateInterval = 3 * time.Second
	}
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Minute
	}
	if c.CompletionDelay <= 0 {
		c.CompletionDelay = 2 * time.Second
	}
	if len(c.Messages) == 0 {
		c.Messages = DefaultStatusMessages
	}
}

// DefaultStatusMessages rotate on screen while the ingestion workflow runs.
var DefaultStatusMessages = []string{
	"Parsing data and ingesting to Pinecone...",
	"Analyzing website content and structure...",
	"Extracting key information from your knowledge base...",
	"Processing product categories and metadata...",
	"Building vector embeddings for semantic search...",
	"Indexing content into Pinecone database...",
	"Optimizing data for AI retrieval...",
	"Finalizing knowledge base integration...",
	"Parsing takes about 10-15 minutes. Please be patient...",
	"Deep learning models are processing your data...",
	"Creating searchable knowledge vectors...",
	"Almost there! Finalizing the setup...",
}

// StatusPoller discovers, without a push channel, when a triggered workflow
// run has completed. It polls the status endpoint under the primary session
// id and falls back to the company-name id, because the upstream workflow
// may report completion under either.
//
// One goroutine owns the whole session: poll ticks are strictly sequential,
// the timeout cannot race a tick, and every terminal transition stops the
// poll ticker, the rotation ticker and the timeout together.
type StatusPoller struct {
	client   StatusClient
	cfg      Config
	handlers Handlers
	log      *zerolog.Logger

	mu      sync.Mutex
	phase   Phase
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

func NewStatusPoller(client StatusClient, cfg Config, handlers Handlers, logger *zerolog.Logger) *StatusPoller {
	cfg.applyDefaults()
	pollLog := logger.With().Str("component", "StatusPoller").Logger()
	return &StatusPoller{
		client:   client,
		cfg:      cfg,
		handlers: handlers,
		log:      &pollLog,
	}
}

// Phase returns the current phase.
func (p *StatusPoller) Phase() Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase
}

// Start begins polling for sessionID (and fallbackID when non-empty). A
// poller runs at most one session; Start on a used poller is a no-op.
func (p *StatusPoller) Start(ctx context.Context, sessionID, fallbackID string) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.phase = PhasePolling
	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	p.mu.Unlock()

	p.log.Info().Str("session_id", sessionID).Str("fallback_id", fallbackID).Msg("polling started")
	go p.run(ctx, sessionID, fallbackID)
}

// Stop tears the session down: poll tick, rotation tick, timeout and any
// pending ready notification are all cancelled. Idempotent; safe to call
// from any goroutine. In-flight status calls are abandoned and their
// results discarded.
func (p *StatusPoller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Wait blocks until the session goroutine has exited.
func (p *StatusPoller) Wait() {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (p *StatusPoller) run(ctx context.Context, sessionID, fallbackID string) {
	defer close(p.done)

	pollTick := time.NewTicker(p.cfg.PollInterval)
	defer pollTick.Stop()
	rotateTick := time.NewTicker(p.cfg.RotateInterval)
	defer rotateTick.Stop()
	timeout := time.NewTimer(p.cfg.Timeout)
	defer timeout.Stop()

	p.emitMessage(0)
	msgIdx := 0

	for {
		select {
		case <-ctx.Done():
			p.setPhase(PhaseIdle)
			p.log.Info().Str("session_id", sessionID).Msg("polling stopped")
			return

		case <-rotateTick.C:
			msgIdx++
			p.emitMessage(msgIdx)

		case <-timeout.C:
			// The select owns the phase, so completion and timeout can
			// never both fire for one session.
			p.setPhase(PhaseTimedOut)
			metrics.IncPollingOutcome("timed_out")
			p.log.Warn().Str("session_id", sessionID).Dur("timeout", p.cfg.Timeout).Msg("polling timed out")
			if p.handlers.TimedOut != nil {
				p.handlers.TimedOut()
			}
			return

		case <-pollTick.C:
			res, ok := p.poll(ctx, sessionID, fallbackID)
			if !ok {
				continue
			}
			switch {
			case res.Completed:
				p.setPhase(PhaseCompleted)
				metrics.IncPollingOutcome("completed")
				p.log.Info().Str("session_id", sessionID).Msg("parsing completed")
				pollTick.Stop()
				rotateTick.Stop()
				timeout.Stop()
				p.notifyReady(ctx)
				return
			case res.Status == model.StatusExpired:
				p.setPhase(PhaseExpired)
				metrics.IncPollingOutcome("expired")
				p.log.Warn().Str("session_id", sessionID).Msg("parsing status expired")
				if p.handlers.Expired != nil {
					p.handlers.Expired()
				}
				return
			}
		}
	}
}

// poll runs one tick: the primary id first, then the fallback id when the
// primary is not completed. The fallback result is adopted only when it
// reports completion; an expired fallback while the primary is still
// pending keeps polling, only the primary id's expiry ends the session.
func (p *StatusPoller) poll(ctx context.Context, sessionID, fallbackID string) (model.StatusResult, bool) {
	res, err := p.client.Status(ctx, sessionID)
	if err != nil {
		// Transient lookup failures just skip the tick.
		p.log.Warn().Err(err).Str("session_id", sessionID).Msg("status poll failed")
		return model.StatusResult{}, false
	}
	if !res.Completed && fallbackID != "" {
		if fres, ferr := p.client.Status(ctx, fallbackID); ferr == nil && fres.Completed {
			return fres, true
		}
	}
	return res, true
}

// notifyReady delays the Ready callback briefly so the completion state is
// visible before the handoff to chat. Stop during the delay cancels it.
func (p *StatusPoller) notifyReady(ctx context.Context) {
	delay := time.NewTimer(p.cfg.CompletionDelay)
	defer delay.Stop()
	select {
	case <-ctx.Done():
		return
	case <-delay.C:
	}
	if p.handlers.Ready != nil {
		p.handlers.Ready()
	}
}

func (p *StatusPoller) emitMessage(i int) {
	if p.handlers.Message == nil || len(p.cfg.Messages) == 0 {
		return
	}
	p.handlers.Message(p.cfg.Messages[i%len(p.cfg.Messages)])
}

func (p *StatusPoller) setPhase(ph Phase) {
	p.mu.Lock()
	p.phase = ph
	p.mu.Unlock()
}
