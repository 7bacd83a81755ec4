package support

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Vovarama1992/support-hub/internal/ai"
	"github.com/Vovarama1992/support-hub/internal/logging"
	"github.com/Vovarama1992/support-hub/internal/metrics"
)

// Options tunes the service. Zero values pick defaults.
type Options struct {
	// Timeout bounds each backend call, primary or ancillary.
	Timeout time.Duration
	Dev     bool
	Now     func() time.Time
	NewID   func() string
}

type service struct {
	store Store
	ai    ai.AI
	creds Credentials
	log   *zerolog.Logger
	opts  Options
	locks *sessionLocks
}

var _ Service = (*service)(nil)

// NewService wires a session store and a backend. creds may be nil when
// the backend needs no key.
func NewService(store Store, aiClient ai.AI, creds Credentials, log *zerolog.Logger, opts Options) Service {
	if log == nil {
		log = logging.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &service{
		store: store,
		ai:    aiClient,
		creds: creds,
		log:   log,
		opts:  opts,
		locks: newSessionLocks(),
	}
}

func (s *service) Configure(ctx context.Context, apiKey string) error {
	if s.creds == nil {
		return ErrCredentialsDisabled
	}
	if err := s.creds.SetKey(ctx, apiKey); err != nil {
		s.log.Warn().Err(err).Msg("[svc] credential rejected")
		return err
	}
	s.log.Info().Msg("[svc] backend credential configured")
	return nil
}

func (s *service) ready() bool {
	return s.creds == nil || s.creds.Ready()
}

func (s *service) Start(ctx context.Context, mode Mode) (*Session, error) {
	if !mode.Valid() {
		return nil, ErrInvalidMode
	}

	sess := NewSession(s.opts.NewID(), mode, s.opts.Now())
	if err := s.store.Create(ctx, sess); err != nil {
		return nil, err
	}

	s.logger(ctx, sess.ID).Info().Str("mode", string(mode)).Msg("[svc] session started")
	return sess, nil
}

func (s *service) Get(ctx context.Context, id string) (*Session, error) {
	return s.store.Get(ctx, id)
}

func (s *service) End(ctx context.Context, id string) error {
	unlock := s.locks.lock(id)
	defer unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger(ctx, id).Info().Msg("[svc] session ended")
	return nil
}

// Submit runs one exchange: gate, classify, count, prompt, reply, and the
// title derivation after the first exchange. Backend failures end up in the
// transcript as a failure message and are not returned.
func (s *service) Submit(ctx context.Context, id, text string, onPartial func(string)) (*Exchange, error) {
	if !s.ready() {
		return nil, ErrNotConfigured
	}

	unlock, ok := s.locks.tryLock(id)
	if !ok {
		return nil, ErrExchangeInProgress
	}
	defer unlock()

	log := s.logger(ctx, id)

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Under the session lock a pending message can only be left over from an
	// exchange whose final save never landed.
	if sess.Pending() {
		log.Warn().Msg("[svc] closing interrupted exchange")
		sess.Complete(FailureMessage(ErrExchangeInterrupted))
	}

	category, err := sess.Submit(text)
	if err != nil {
		if errors.Is(err, ErrDomainRejected) {
			metrics.MessageRejected()
			log.Debug().Str("text", logging.Redact(text, s.opts.Dev)).Msg("[svc] message rejected by gate")
		}
		return nil, err
	}
	metrics.MessageClassified(string(category))
	log.Debug().
		Str("category", string(category)).
		Str("text", logging.Redact(text, s.opts.Dev)).
		Msg("[svc] message accepted")

	sess.UpdatedAt = s.opts.Now()
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}

	request := BuildRequest(sess.Mode, sess.Transcript)
	reply, err := s.generate(ctx, request, onPartial)
	failed := err != nil
	if failed {
		metrics.ExchangeFailed(string(sess.Mode))
		log.Warn().Err(err).Str("mode", string(sess.Mode)).Msg("[svc] backend failed, storing failure message")
		reply = FailureMessage(err)
	}
	sess.Complete(reply)

	// The accepted message is already stored; finish the exchange even if
	// the caller went away.
	persistCtx := context.WithoutCancel(ctx)

	if len(sess.Transcript) == 2 && sess.Title == "" {
		sess.Title = s.deriveTitle(persistCtx, sess.ID, text)
	}

	sess.UpdatedAt = s.opts.Now()
	if err := s.store.Save(persistCtx, sess); err != nil {
		return nil, err
	}

	return &Exchange{
		Category: category,
		Reply:    sess.Transcript[len(sess.Transcript)-1],
		Failed:   failed,
		Session:  NewView(sess),
	}, nil
}

func (s *service) ChangeMode(ctx context.Context, id string, mode Mode) (*Session, error) {
	return s.mutate(ctx, id, func(sess *Session) error {
		return sess.SetMode(mode)
	})
}

func (s *service) Reset(ctx context.Context, id string) (*Session, error) {
	return s.mutate(ctx, id, func(sess *Session) error {
		sess.Reset()
		return nil
	})
}

func (s *service) mutate(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	sess.UpdatedAt = s.opts.Now()
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Dashboard aggregates the counters. The insight call is only made in
// strategic mode once something was classified, and never fails.
func (s *service) Dashboard(ctx context.Context, id string) (*Dashboard, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		SessionID:         sess.ID,
		Mode:              sess.Mode,
		MessagesExchanged: len(sess.Transcript),
		Report:            Summarize(sess.Counters),
	}
	if sess.Mode == ModeStrategic && d.Total > 0 {
		d.Insight = s.insight(ctx, sess)
	}
	return d, nil
}

func (s *service) Export(ctx context.Context, id string) (*Snapshot, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(sess.Transcript) < 2 {
		return nil, ErrNothingToExport
	}
	return NewSnapshot(sess, s.opts.Now()), nil
}

// ------------------------------------------------------------

func (s *service) deriveTitle(ctx context.Context, sessionID, firstMessage string) string {
	raw, err := s.generate(ctx, TitleRequest(firstMessage), nil)
	if err == nil {
		if title := CleanTitle(raw); title != "" {
			return title
		}
	}

	metrics.AncillaryFallback("title")
	s.logger(ctx, sessionID).Debug().Err(err).Msg("[svc] title derivation fell back to default")
	return DefaultTitle
}

func (s *service) insight(ctx context.Context, sess *Session) string {
	if !s.ready() {
		metrics.AncillaryFallback("insight")
		return InsightPending
	}

	raw, err := s.generate(ctx, InsightRequest(sess.Counters, len(sess.Transcript)), nil)
	if err != nil || strings.TrimSpace(raw) == "" {
		metrics.AncillaryFallback("insight")
		s.logger(ctx, sess.ID).Debug().Err(err).Msg("[svc] insight fell back to placeholder")
		return InsightPending
	}
	return strings.TrimSpace(raw)
}

// generate runs one bounded backend call and drains its fragments.
// An empty reply counts as a failure.
func (s *service) generate(ctx context.Context, input string, onPartial func(string)) (string, error) {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	seq, err := s.ai.Generate(ctx, input)
	if err != nil {
		return "", err
	}

	reply, err := ai.Collect(seq, onPartial)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply) == "" {
		return "", &ai.ServiceError{Err: ai.ErrEmptyResponse}
	}
	return reply, nil
}

func (s *service) logger(ctx context.Context, sessionID string) *zerolog.Logger {
	if sessionID != "" {
		ctx = logging.WithSessID(ctx, sessionID)
	}
	return logging.With(ctx, s.log)
}

// ------------------------------------------------------------

// sessionLocks serializes work per session id. Entries are dropped once
// nobody holds or waits on them.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

func (l *sessionLocks) acquire(id string) *sessionLock {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[id]
	if !ok {
		m = &sessionLock{}
		l.locks[id] = m
	}
	m.refs++
	return m
}

func (l *sessionLocks) release(id string, m *sessionLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	m.refs--
	if m.refs == 0 {
		delete(l.locks, id)
	}
}

func (l *sessionLocks) lock(id string) func() {
	m := l.acquire(id)
	m.mu.Lock()
	return func() {
		m.mu.Unlock()
		l.release(id, m)
	}
}

func (l *sessionLocks) tryLock(id string) (func(), bool) {
	m := l.acquire(id)
	if !m.mu.TryLock() {
		l.release(id, m)
		return nil, false
	}
	return func() {
		m.mu.Unlock()
		l.release(id, m)
	}, true
}

func (l *sessionLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
