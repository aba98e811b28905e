package services

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kendall-kelly/repair-service-api/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	retryBaseDelay  = 100 * time.Millisecond
	defaultCacheTTL = time.Minute
)

// Options configures optional collaborators of the Service
type Options struct {
	// MaxRetries bounds retries of connectivity failures; zero disables them
	MaxRetries int
	Cache      ReportCache
	CacheTTL   time.Duration
	Archive    ReportArchive
	// Now overrides the clock, primarily for tests
	Now func() time.Time
}

// Service is the single boundary for all repair-service business operations
type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	validate   *validator.Validate
	maxRetries int
	cache      ReportCache
	cacheTTL   time.Duration
	archive    ReportArchive
	now        func() time.Time
}

// NewService wires a Service around an open database
func NewService(db *gorm.DB, logger *zap.Logger, opts Options) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		db:         db,
		log:        logger,
		validate:   utils.NewValidator(),
		maxRetries: opts.MaxRetries,
		cache:      opts.Cache,
		cacheTTL:   opts.CacheTTL,
		archive:    opts.Archive,
		now:        opts.Now,
	}
	if s.maxRetries < 0 {
		s.maxRetries = 0
	}
	if s.cache == nil {
		s.cache = noopReportCache{}
	}
	if s.cacheTTL <= 0 {
		s.cacheTTL = defaultCacheTTL
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	return s
}

// Ping checks database connectivity
func (s *Service) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return unavailableError("DATABASE_UNAVAILABLE", "Failed to get database instance", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return unavailableError("DATABASE_UNAVAILABLE", "Database connection failed", err)
	}
	return nil
}

// TableNames lists the tables of the current database
func (s *Service) TableNames(ctx context.Context) ([]string, error) {
	tables, err := s.db.WithContext(ctx).Migrator().GetTables()
	if err != nil {
		return nil, translateDBError("list tables", err)
	}
	return tables, nil
}

func (s *Service) validateInput(in interface{}) error {
	if err := s.validate.Struct(in); err != nil {
		return &Error{
			Kind:    KindValidation,
			Code:    "VALIDATION_ERROR",
			Message: utils.TranslateValidationError(err),
			Err:     err,
		}
	}
	return nil
}

// run executes fn against the database, retrying connectivity failures with
// exponential backoff. Service errors returned by fn are never retried.
func (s *Service) run(ctx context.Context, op string, fn func(db *gorm.DB) error) error {
	var err error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			wait := retryBaseDelay * time.Duration(1<<(attempt-1))
			s.log.Warn("Retrying database operation",
				zap.String("op", op),
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait),
				zap.Error(err))
			select {
			case <-ctx.Done():
				return translateDBError(op, ctx.Err())
			case <-time.After(wait):
			}
		}

		err = fn(s.db.WithContext(ctx))
		if err == nil {
			return nil
		}
		var svcErr *Error
		if errors.As(err, &svcErr) || !isRetryableError(err) {
			break
		}
	}

	translated := translateDBError(op, err)
	if KindOf(translated) == 0 || KindOf(translated) == KindUnavailable {
		s.log.Error("Database operation failed", zap.String("op", op), zap.Error(err))
	}
	return translated
}

// transaction runs fn inside a single database transaction with retries
func (s *Service) transaction(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	return s.run(ctx, op, func(db *gorm.DB) error {
		return db.Transaction(fn)
	})
}

// today returns the current UTC date at midnight
func (s *Service) today() time.Time {
	return truncateDay(s.now())
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
