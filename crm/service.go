// ABOUTME: Service layer binding the engines to a Record Store
// ABOUTME: Loads snapshots, persists stage moves and conversions, and logs the activity feed
package crm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/crmboard/analytics"
	"github.com/harperreed/crmboard/logging"
	"github.com/harperreed/crmboard/metrics"
	"github.com/harperreed/crmboard/models"
	"github.com/harperreed/crmboard/pipeline"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Service is what the CLI, MCP tools, web server and TUI talk to.
type Service struct {
	store       Store
	now         func() time.Time
	logger      *zap.Logger
	metrics     *metrics.Collector
	trendMonths int
}

type Option func(*Service)

// WithClock injects the reference time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logging.OrNop(logger) }
}

func WithMetrics(m *metrics.Collector) Option {
	return func(s *Service) { s.metrics = m }
}

func WithTrendMonths(n int) Option {
	return func(s *Service) { s.trendMonths = n }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:       store,
		now:         time.Now,
		logger:      zap.NewNop(),
		trendMonths: analytics.DefaultTrendMonths,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Store() Store { return s.store }

// Now is the service clock.
func (s *Service) Now() time.Time { return s.now() }

// Snapshot loads every collection concurrently.
func (s *Service) Snapshot(ctx context.Context) (analytics.Snapshot, error) {
	var snap analytics.Snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		snap.Contacts, err = s.store.Contacts().List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Companies, err = s.store.Companies().List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Leads, err = s.store.Leads().List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Deals, err = s.store.Deals().List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Tasks, err = s.store.Tasks().List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Activities, err = s.store.Activities().List(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return analytics.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	return snap, nil
}

// Board returns the pipeline columns in stage order.
func (s *Service) Board(ctx context.Context) ([]pipeline.Column, error) {
	deals, err := s.store.Deals().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	return pipeline.Summarize(deals)
}

// MoveDeal moves a deal to target, persists it and records the move in the
// activity feed. Moving to the current stage changes nothing. Once the move
// is saved it is reported as done even if the feed entry cannot be written.
func (s *Service) MoveDeal(ctx context.Context, dealID int64, target models.Stage) (models.Deal, error) {
	deal, err := s.store.Deals().Get(ctx, dealID)
	if err != nil {
		return models.Deal{}, err
	}
	from, err := models.ParseStage(string(deal.Stage))
	if err != nil {
		return models.Deal{}, withDeal(err, dealID)
	}

	to, err := models.ParseStage(string(target))
	if err != nil {
		return models.Deal{}, withDeal(err, dealID)
	}
	if to == from {
		return deal, nil
	}

	moved, err := pipeline.RequestStageMove(deal, to, s.now())
	if err != nil {
		return models.Deal{}, withDeal(err, dealID)
	}

	moveID := ulid.Make().String()
	saved, err := s.store.Deals().Update(ctx, moved)
	if err != nil {
		return models.Deal{}, fmt.Errorf("persist stage move: %w", err)
	}

	dealRef := saved.ID
	s.logActivity(ctx, models.Activity{
		Type:        models.ActivityDealStageChanged,
		Description: fmt.Sprintf("Deal %q moved from %s to %s", saved.Title, from, saved.Stage),
		ContactID:   saved.ContactID,
		DealID:      &dealRef,
		Timestamp:   saved.UpdatedAt,
	})

	s.metrics.RecordStageMove(string(from), string(saved.Stage))
	s.logger.Info("deal stage changed",
		zap.String("move_id", moveID),
		zap.Int64("deal_id", saved.ID),
		zap.String("from", string(from)),
		zap.String("to", string(saved.Stage)),
	)
	return saved, nil
}

// Dashboard computes the dashboard for window from a fresh snapshot.
func (s *Service) Dashboard(ctx context.Context, window analytics.Window) (analytics.Dashboard, error) {
	started := time.Now()
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return analytics.Dashboard{}, err
	}
	d, err := analytics.ComputeWith(snap, analytics.Options{
		Window:      window,
		Now:         s.now(),
		TrendMonths: s.trendMonths,
	})
	if err != nil {
		return analytics.Dashboard{}, err
	}
	s.metrics.RecordDashboard(string(window), time.Since(started))
	return d, nil
}

// ConvertLead turns a lead into a lead-typed contact and removes the lead.
func (s *Service) ConvertLead(ctx context.Context, leadID int64) (models.Contact, error) {
	now := s.now()
	contact, err := s.store.ConvertLead(ctx, leadID, now)
	if err != nil {
		return models.Contact{}, err
	}

	s.logActivity(ctx, models.Activity{
		Type:        models.ActivityLeadConverted,
		Description: fmt.Sprintf("Lead %s converted to contact", contact.Name),
		ContactID:   contact.ID,
		Timestamp:   now,
	})

	s.metrics.RecordLeadConversion()
	s.logger.Info("lead converted", zap.Int64("lead_id", leadID), zap.Int64("contact_id", contact.ID))
	return contact, nil
}

// LogActivity validates and appends a feed entry. A zero timestamp means now.
func (s *Service) LogActivity(ctx context.Context, a models.Activity) (models.Activity, error) {
	if a.Timestamp.IsZero() {
		a.Timestamp = s.now()
	}
	if t, err := models.ParseActivityType(string(a.Type)); err == nil {
		a.Type = t
	}
	if err := a.Validate(); err != nil {
		return models.Activity{}, err
	}
	return s.store.Activities().Create(ctx, a)
}

// logActivity records the feed entry for a change that is already persisted.
// A failed write is logged and swallowed so the caller still reports the
// change it made.
func (s *Service) logActivity(ctx context.Context, a models.Activity) {
	if _, err := s.LogActivity(ctx, a); err != nil {
		s.logger.Warn("activity not recorded",
			zap.String("type", string(a.Type)),
			zap.Int64("contact_id", a.ContactID),
			zap.Error(err),
		)
	}
}

func withDeal(err error, id int64) error {
	var ve *models.ValidationError
	if errors.As(err, &ve) && ve.Entity == "" {
		ve.Entity = "deal"
		ve.ID = id
	}
	return err
}
