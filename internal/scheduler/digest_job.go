package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/taskhive/taskhive-api/internal/digest"
	"github.com/taskhive/taskhive-api/internal/notify"
	"github.com/taskhive/taskhive-api/internal/store"
)

// DigestJob sends the daily summary email to every user who opted in.
type DigestJob struct {
	users  store.UserStore
	agg    *digest.Aggregator
	sender notify.Sender
	logger *slog.Logger
}

// NewDigestJob creates a DigestJob.
func NewDigestJob(
	users store.UserStore,
	agg *digest.Aggregator,
	sender notify.Sender,
	logger *slog.Logger,
) *DigestJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &DigestJob{
		users:  users,
		agg:    agg,
		sender: sender,
		logger: logger.With(slog.String("component", "digest_job")),
	}
}

// Run builds and dispatches a digest per enabled user. A failure for one
// user is logged and collected; the job continues with the rest. Returns
// how many digests were dispatched.
func (j *DigestJob) Run(ctx context.Context, today time.Time) (int, error) {
	j.logger.InfoContext(ctx, "running daily digest job")

	users, err := j.users.ListDigestEnabled(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing digest enabled users: %w", err)
	}

	sent := 0
	var errs *multierror.Error

	for _, user := range users {
		d, err := j.agg.BuildForUser(ctx, user, today)
		if err != nil {
			j.logger.ErrorContext(ctx, "failed to build digest",
				slog.String("user_id", user.ID.String()),
				slog.Any("error", err))
			errs = multierror.Append(errs, fmt.Errorf("user %s: %w", user.ID, err))
			continue
		}

		_ = j.sender.Dispatch(notify.NewDigest(d, today))
		sent++
	}

	j.logger.InfoContext(ctx, "daily digest job completed", slog.Int("sent", sent))
	return sent, errs.ErrorOrNil()
}
