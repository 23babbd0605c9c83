package leads

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cruderly/wallie/pkg/errors"
	"github.com/cruderly/wallie/pkg/observability"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (s *fakeSender) Send(_ context.Context, lead *Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, lead.ID)
	return s.err
}

type limiterFunc func(ctx context.Context, key string) error

func (f limiterFunc) Allow(ctx context.Context, key string) error { return f(ctx, key) }

type recordingLeadHooks struct {
	observability.NoopLeadHooks
	mu       sync.Mutex
	accepted []string
	rejected []string
	limited  int
	relayed  []error
}

func (h *recordingLeadHooks) OnLeadAccepted(_ context.Context, locale string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.accepted = append(h.accepted, locale)
}

func (h *recordingLeadHooks) OnLeadRejected(_ context.Context, field, reason string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rejected = append(h.rejected, field+":"+reason)
}

func (h *recordingLeadHooks) OnRateLimited(context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.limited++
}

func (h *recordingLeadHooks) OnLeadRelayed(_ context.Context, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.relayed = append(h.relayed, err)
}

func withLeadHooks(t *testing.T) *recordingLeadHooks {
	t.Helper()
	h := &recordingLeadHooks{}
	observability.SetLeadHooks(h)
	t.Cleanup(observability.Reset)
	return h
}

func TestSubmitAcceptsAndRelays(t *testing.T) {
	hooks := withLeadHooks(t)
	store := NewMemoryStore()
	sender := &fakeSender{}
	svc := NewService(store, nil, sender, nil)

	lead, err := svc.Submit(context.Background(), "10.0.0.1", validForm())
	require.NoError(t, err)
	require.NotNil(t, lead)

	assert.Equal(t, []string{lead.ID}, sender.sent)
	assert.True(t, lead.Relayed())

	stored, err := store.Get(context.Background(), lead.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.Relayed(), "relay outcome is recorded in the archive")

	assert.Equal(t, []string{"en"}, hooks.accepted)
	assert.Equal(t, []error{nil}, hooks.relayed)
}

func TestSubmitRejectsInvalidForm(t *testing.T) {
	hooks := withLeadHooks(t)
	store := NewMemoryStore()
	sender := &fakeSender{}
	svc := NewService(store, nil, sender, nil)

	form := validForm()
	form.Contact = "nope"
	form.Timeline = ""

	lead, err := svc.Submit(context.Background(), "10.0.0.1", form)
	assert.Nil(t, lead)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	var fe *errors.FieldErrors
	require.True(t, stderrors.As(err, &fe))
	assert.Equal(t, errors.ReasonInvalidEmail, fe.Reason(FieldContact))
	assert.Equal(t, errors.ReasonRequired, fe.Reason(FieldTimeline))

	assert.Zero(t, store.Len(), "rejected submissions are not archived")
	assert.Empty(t, sender.sent)
	assert.ElementsMatch(t, []string{"contact:invalid_email", "timeline:required"}, hooks.rejected)
}

func TestSubmitRateLimited(t *testing.T) {
	hooks := withLeadHooks(t)
	store := NewMemoryStore()
	svc := NewService(store, NewLocalLimiter(1, time.Hour), nil, nil)

	_, err := svc.Submit(context.Background(), "10.0.0.1", validForm())
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), "10.0.0.1", validForm())
	var rl *errors.RateLimitedError
	require.True(t, stderrors.As(err, &rl), "got %v", err)
	assert.Positive(t, rl.RetryAfter)
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 1, hooks.limited)
}

func TestSubmitLimiterOutageFailsOpen(t *testing.T) {
	store := NewMemoryStore()
	broken := limiterFunc(func(context.Context, string) error {
		return errors.New(errors.ErrCodeInternal, "redis: connection refused")
	})
	svc := NewService(store, broken, nil, nil)

	lead, err := svc.Submit(context.Background(), "10.0.0.1", validForm())
	require.NoError(t, err)
	assert.NotNil(t, lead)
}

func TestSubmitRelayFailureKeepsLead(t *testing.T) {
	withLeadHooks(t)
	store := NewMemoryStore()
	sender := &fakeSender{err: stderrors.New("connection reset")}
	svc := NewService(store, nil, sender, nil)

	lead, err := svc.Submit(context.Background(), "10.0.0.1", validForm())
	assert.True(t, errors.Is(err, errors.ErrCodeUpstream), "got %v", err)
	require.NotNil(t, lead, "the archived lead is returned with the error")

	stored, _ := store.Get(context.Background(), lead.ID)
	require.NotNil(t, stored)
	assert.False(t, stored.Relayed())
	assert.Equal(t, "connection reset", stored.RelayError)
}

func TestSubmitDefaultsLocale(t *testing.T) {
	svc := NewService(NewMemoryStore(), nil, nil, nil)

	form := validForm()
	form.Locale = "de"
	lead, err := svc.Submit(context.Background(), "k", form)
	require.NoError(t, err)
	assert.Equal(t, "sr", lead.Locale)
}
