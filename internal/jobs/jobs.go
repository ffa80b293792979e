package jobs

import (
	"context"
	"fmt"
	"sort"

	"studio-booking/internal/data/repository"
	"studio-booking/internal/usecase"
	"studio-booking/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// A Job is one reconciliation sweep. Jobs are idempotent per invocation
// window and report only through side effects, logs and metrics, so an
// external scheduler can invoke them blindly.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Deps carries the shared dependencies of every job.
type Deps struct {
	Repo     *repository.Repository
	Notifier *usecase.Notifier
	Metrics  *metrics.Metrics
	Log      *zap.Logger
	// DryRun logs what each job would do without mutating or emailing.
	DryRun bool
	// StudentInactivityMonths is how long a regular student can go without
	// an attended class before the flag is revoked.
	StudentInactivityMonths int
}

const DefaultStudentInactivityMonths = 8

// All returns every job in a stable order.
func All(deps *Deps) []Job {
	return []Job{
		&cancelUnpaidBookings{deps},
		&emailWarnings{deps},
		&emailReminders{deps},
		&cancelUnpaidTicketBookings{deps},
		&deleteUnconfirmedTicketBookings{deps},
		&deactivateRegularStudents{deps},
	}
}

// ByName returns the named job, or nil if no such job exists.
func ByName(deps *Deps, name string) Job {
	for _, job := range All(deps) {
		if job.Name() == name {
			return job
		}
	}
	return nil
}

// Names returns the job names, sorted, for usage messages.
func Names(deps *Deps) []string {
	var names []string
	for _, job := range All(deps) {
		names = append(names, job.Name())
	}
	sort.Strings(names)
	return names
}

// Run executes one job, recording the outcome metric either way.
func Run(ctx context.Context, deps *Deps, job Job) error {
	log := deps.Log.With(zap.String("job", job.Name()))
	log.Info("Job starting", zap.Bool("dry_run", deps.DryRun))

	err := job.Run(ctx)
	deps.Metrics.RecordJobRun(job.Name(), err)
	if err != nil {
		log.Error("Job failed", zap.Error(err))
		return fmt.Errorf("job %s: %w", job.Name(), err)
	}

	log.Info("Job finished")
	return nil
}

// logActivity writes an audit line unless dry-running, in which case the
// line goes to the logger instead.
func (d *Deps) logActivity(ctx context.Context, job string, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if d.DryRun {
		d.Log.Info("Dry run, would log activity",
			zap.String("job", job),
			zap.String("message", msg),
		)
		return
	}
	if err := d.Repo.ActivityLog.Log(ctx, msg); err != nil {
		d.Log.Error("Failed to write activity log",
			zap.Error(err),
			zap.String("job", job),
		)
	}
}

// userEmail resolves a user's address for job notifications. Returns empty
// when the user cannot be loaded; callers skip the send.
func (d *Deps) userEmail(ctx context.Context, job string, userID uuid.UUID) string {
	user, err := d.Repo.User.FindByID(ctx, userID)
	if err != nil || user == nil {
		d.Log.Error("Failed to load user for job notification",
			zap.Error(err),
			zap.String("job", job),
			zap.String("user_id", userID.String()),
		)
		return ""
	}
	return user.Email
}
