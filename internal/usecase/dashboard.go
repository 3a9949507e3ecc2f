package usecase

import (
	"context"
	"time"

	"SignalBoard/internal/domain/models"
	domrepo "SignalBoard/internal/domain/repository"
	applogger "SignalBoard/pkg/logger"

	"github.com/google/uuid"
)

// DashboardService produces snapshots from the registry.
type DashboardService struct {
	registry *Registry
	window   int
	metrics  domrepo.Metrics
	log      *applogger.Logger
	now      func() time.Time
}

func NewDashboardService(registry *Registry, window int, metrics domrepo.Metrics, l *applogger.Logger) *DashboardService {
	if window <= 0 {
		window = DefaultCorrelationWindow
	}
	return &DashboardService{
		registry: registry,
		window:   window,
		metrics:  metrics,
		log:      l,
		now:      time.Now,
	}
}

// GetDashboardSnapshot fetches every signal (through the cache) and
// assembles the snapshot. Only configuration errors are returned.
func (d *DashboardService) GetDashboardSnapshot(ctx context.Context) (*models.Snapshot, error) {
	start := time.Now()

	results, err := d.registry.GetAll(ctx, nil)
	if err != nil {
		return nil, err
	}

	snap := Assemble(d.registry.Signals(), results, d.window)
	snap.ID = uuid.NewString()
	snap.GeneratedAt = d.now().UTC()

	elapsed := time.Since(start)
	d.metrics.RecordRenderPass(elapsed.Seconds())
	d.log.Debug("snapshot assembled",
		applogger.String("id", snap.ID),
		applogger.Int("records", len(snap.Records)),
		applogger.Bool("correlation", snap.Correlation != nil),
		applogger.Duration("elapsed_ms", elapsed),
	)
	return &snap, nil
}

// GetSignals returns raw results for names.
func (d *DashboardService) GetSignals(ctx context.Context, names []string) (map[string]models.FetchResult, error) {
	return d.registry.GetAll(ctx, names)
}

// GetRecords returns display rows for names in catalog order.
func (d *DashboardService) GetRecords(ctx context.Context, names []string) ([]models.ViewRecord, error) {
	results, err := d.registry.GetAll(ctx, names)
	if err != nil {
		return nil, err
	}
	snap := Assemble(d.registry.Signals(), results, d.window)
	return snap.Records, nil
}

// Catalog lists the registered signals.
func (d *DashboardService) Catalog() []models.Signal {
	return d.registry.Signals()
}
