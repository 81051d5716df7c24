package maintenance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nadiaputeri/campuscore/internal/models"
	"github.com/nadiaputeri/campuscore/pkg/logger"
)

const defaultCacheSpec = "@hourly"

// Cleaner runs the periodic database sweeps: expired rows in the cache
// fallback table (Redis expires keys on its own; the SQL store needs this)
// and timetable rows orphaned by out-of-band section deletes.
type Cleaner struct {
	db   *gorm.DB
	cron *cron.Cron
	now  func() time.Time
	log  *zap.Logger

	cacheSchedule string
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithNow overrides the clock used for expiry comparisons.
func WithNow(now func() time.Time) Option {
	return func(cleaner *Cleaner) {
		if now != nil {
			cleaner.now = now
		}
	}
}

// WithCacheSchedule overrides the cron specification for the cache sweep.
func WithCacheSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.cacheSchedule = spec
		}
	}
}

// NewCleaner constructs a Cleaner with sensible defaults.
func NewCleaner(db *gorm.DB, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		db:            db,
		now:           time.Now,
		cacheSchedule: defaultCacheSpec,
		log:           logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return cleaner
}

// Start registers the sweep with the cron scheduler and launches it.
func (c *Cleaner) Start() error {
	if c.db == nil {
		return nil
	}

	if _, err := c.cron.AddFunc(c.cacheSchedule, func() {
		if _, err := c.RunOnce(context.Background()); err != nil {
			c.log.Warn("cache sweep failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	c.cron.Start()
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes every sweep sequentially and reports how many rows went
// in total. A failing sweep does not stop the others.
func (c *Cleaner) RunOnce(ctx context.Context) (int64, error) {
	if c.db == nil {
		return 0, errors.New("maintenance: nil database handle")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var removed int64
	var errs error

	result := c.db.WithContext(ctx).
		Where("expires_at <= ?", c.now()).
		Delete(&models.CacheEntry{})
	if result.Error != nil {
		errs = multierr.Append(errs, fmt.Errorf("cache sweep: %w", result.Error))
	} else if result.RowsAffected > 0 {
		c.log.Info("expired cache entries purged", zap.Int64("rows", result.RowsAffected))
		removed += result.RowsAffected
	}

	// Timetable rows normally go away with their section inside one
	// transaction; strays only appear after out-of-band section deletes.
	result = c.db.WithContext(ctx).
		Where("section_id NOT IN (?)", c.db.Model(&models.ClassSection{}).Select("id")).
		Delete(&models.TimeSlotAssignment{})
	if result.Error != nil {
		errs = multierr.Append(errs, fmt.Errorf("orphan sweep: %w", result.Error))
	} else if result.RowsAffected > 0 {
		c.log.Info("orphaned timetable rows purged", zap.Int64("rows", result.RowsAffected))
		removed += result.RowsAffected
	}

	return removed, errs
}
