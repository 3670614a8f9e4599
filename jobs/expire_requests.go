package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
)

// RequestExpirer is the slice of the registrar service the expiry job needs.
type RequestExpirer interface {
	ExpireUnpaid(ctx context.Context) (int64, error)
}

// ExpireDocumentRequestsJob sweeps unpaid document requests.
type ExpireDocumentRequestsJob struct {
	expirer RequestExpirer
	logger  *slog.Logger
}

// NewExpireDocumentRequestsJob constructs the job.
func NewExpireDocumentRequestsJob(expirer RequestExpirer, logger *slog.Logger) *ExpireDocumentRequestsJob {
	return &ExpireDocumentRequestsJob{expirer: expirer, logger: logger}
}

// Handle processes TaskExpireDocumentRequests tasks.
func (j *ExpireDocumentRequestsJob) Handle(ctx context.Context, _ *asynq.Task) error {
	n, err := j.expirer.ExpireUnpaid(ctx)
	if err != nil {
		j.logger.Error("expire document requests", slog.Any("error", err))
		return err
	}
	j.logger.Info("expiry sweep complete", slog.Int64("expired", n))
	return nil
}
