package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	jobmetrics "github.com/finpapers/finpapers/internal/jobs"
	"github.com/finpapers/finpapers/internal/statement"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

const warmupBuildBudget = 20 * time.Second

// StatementBuilder is the slice of the statement service the warmup needs.
type StatementBuilder interface {
	Build(ctx context.Context, filters statement.Filters) (statement.StatementPack, []string, error)
}

// StatementWarmupJob pre-builds statement packs for open workpapers. A
// cache-backed statement service parks each pack in Redis as a side effect,
// so the first page load after a mapping import does not pay the build cost.
type StatementWarmupJob struct {
	Statements StatementBuilder
	Pool       *pgxpool.Pool
	Logger     *slog.Logger
	Metrics    *jobmetrics.Metrics
	clock      func() time.Time
}

// NewStatementWarmupJob wires dependencies for the warmup handler.
func NewStatementWarmupJob(statements StatementBuilder, pool *pgxpool.Pool, logger *slog.Logger, metrics *jobmetrics.Metrics) *StatementWarmupJob {
	return &StatementWarmupJob{
		Statements: statements,
		Pool:       pool,
		Logger:     logger,
		Metrics:    metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes statement warmup tasks.
func (j *StatementWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("statement warmup: handler not configured")
	}
	var payload StatementWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskStatementWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger()
	logger.Info("starting statement warmup")

	ids := payload.WorkpaperIDs
	if len(ids) == 0 {
		var err error
		ids, err = j.fetchOpenWorkpapers(ctx)
		if err != nil {
			resultErr = err
			logger.Error("load warmup workpapers", slog.Any("error", err))
			return resultErr
		}
	}
	if len(ids) == 0 {
		logger.Info("no workpapers discovered for warmup")
		return resultErr
	}

	start := j.now()
	warmed := 0
	for _, id := range ids {
		if err := j.warmWorkpaper(ctx, id, payload.IncludeZeroItems); err != nil {
			resultErr = err
			logger.Error("warm workpaper", slog.String("workpaper", id.String()), slog.Any("error", err))
			return resultErr
		}
		warmed++
	}

	logger.Info("completed statement warmup", slog.Int("workpapers", warmed), slog.Duration("duration", time.Since(start)))
	return resultErr
}

func (j *StatementWarmupJob) warmWorkpaper(ctx context.Context, id uuid.UUID, includeZero bool) error {
	if j.Statements == nil {
		return nil
	}
	// Bound each build so a pathological workpaper cannot stall the queue.
	buildCtx, cancel := context.WithTimeout(ctx, warmupBuildBudget)
	defer cancel()

	pack, _, err := j.Statements.Build(buildCtx, statement.Filters{
		WorkpaperID:      id,
		IncludeZeroItems: includeZero,
	})
	if err != nil {
		return err
	}
	j.metrics().AddUnclassified(id.String(), len(pack.Unclassified))
	return nil
}

func (j *StatementWarmupJob) fetchOpenWorkpapers(ctx context.Context) ([]uuid.UUID, error) {
	if j.Pool == nil {
		return nil, errors.New("statement warmup: pool not configured")
	}
	rows, err := j.Pool.Query(ctx, `SELECT id FROM workpapers WHERE status <> 'FINAL' ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (j *StatementWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskStatementWarmup))
	}
	return slog.Default().With(slog.String("job", TaskStatementWarmup))
}

func (j *StatementWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *StatementWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
