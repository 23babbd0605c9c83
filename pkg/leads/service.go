package leads

import (
	"context"
	stderrors "errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cruderly/wallie/pkg/errors"
	"github.com/cruderly/wallie/pkg/i18n"
	"github.com/cruderly/wallie/pkg/observability"
)

// Sender forwards an archived lead to wherever leads are worked on.
// *Relay is the production implementation.
type Sender interface {
	Send(ctx context.Context, lead *Lead) error
}

// Service runs the intake pipeline. Store is required; a nil Limiter
// allows everything and a nil Sender only archives.
type Service struct {
	Store   Store
	Limiter Limiter
	Sender  Sender
	Logger  *log.Logger

	now func() time.Time
}

// NewService wires a Service. A nil logger discards output.
func NewService(store Store, limiter Limiter, sender Sender, logger *log.Logger) *Service {
	if limiter == nil {
		limiter = NopLimiter{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Service{Store: store, Limiter: limiter, Sender: sender, Logger: logger, now: time.Now}
}

// Submit validates, rate limits, archives and relays one submission.
//
// Errors, by code:
//   - INVALID_INPUT: a *errors.FieldErrors naming every rejected field
//   - RATE_LIMITED: a *errors.RateLimitedError with the wait in seconds
//   - UPSTREAM_ERROR or TIMEOUT: the relay failed; the returned lead is archived
//   - INTERNAL_ERROR: the archive failed
func (s *Service) Submit(ctx context.Context, clientKey string, form Form) (*Lead, error) {
	hooks := observability.Leads()

	form = form.Normalize()
	if err := form.Validate(); err != nil {
		var fe *errors.FieldErrors
		if stderrors.As(err, &fe) {
			for _, f := range fe.Fields {
				hooks.OnLeadRejected(ctx, f.Field, f.Reason)
			}
		}
		return nil, err
	}
	if _, err := i18n.Parse(form.Locale); err != nil {
		form.Locale = i18n.Default.String()
	}

	if err := s.Limiter.Allow(ctx, clientKey); err != nil {
		if errors.Is(err, errors.ErrCodeRateLimited) {
			hooks.OnRateLimited(ctx)
			s.Logger.Warn("lead rate limited", "client", clientKey)
			return nil, err
		}
		// A limiter outage must not block intake.
		s.Logger.Error("rate limiter unavailable", "error", err)
	}

	lead := NewLead(form, s.now())
	if err := s.Store.Save(ctx, lead); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "archive lead")
	}
	hooks.OnLeadAccepted(ctx, lead.Locale)
	s.Logger.Info("lead accepted", "id", lead.ID, "locale", lead.Locale)

	if s.Sender == nil {
		return lead, nil
	}

	start := time.Now()
	relayErr := s.Sender.Send(ctx, lead)
	hooks.OnLeadRelayed(ctx, time.Since(start), relayErr)

	// Record the outcome even if the request context is gone.
	markCtx := context.WithoutCancel(ctx)
	if err := s.Store.MarkRelayed(markCtx, lead.ID, s.now(), relayErr); err != nil {
		s.Logger.Error("record relay outcome", "id", lead.ID, "error", err)
	}
	applyRelay(lead, s.now(), relayErr)

	if relayErr != nil {
		s.Logger.Error("lead relay failed", "id", lead.ID, "error", relayErr)
		if errors.GetCode(relayErr) == "" {
			relayErr = errors.Wrap(errors.ErrCodeUpstream, relayErr, "relay lead %s", lead.ID)
		}
		return lead, relayErr
	}
	s.Logger.Debug("lead relayed", "id", lead.ID)
	return lead, nil
}
