package jobs

import (
	"context"
	"time"

	"studio-booking/pkg/utils"

	"go.uber.org/zap"
)

// practiceSubtype is excluded when looking for a student's last attended
// class; turning up to practice alone does not keep the flag.
const practiceSubtype = "practice"

// deactivateRegularStudents revokes the regular_student flag from anyone
// whose last attended class is too long ago. The flag gates things like
// free class requests, so lapsed students lose it until they come back.
type deactivateRegularStudents struct{ *Deps }

func (j *deactivateRegularStudents) Name() string { return "deactivate_regular_students" }

func (j *deactivateRegularStudents) Run(ctx context.Context) error {
	months := j.StudentInactivityMonths
	if months <= 0 {
		months = DefaultStudentInactivityMonths
	}
	cutoff := utils.AddCalendarMonths(time.Now(), -months)

	students, err := j.Repo.User.FindRegularStudents(ctx)
	if err != nil {
		return err
	}

	deactivated := 0
	for _, student := range students {
		latest, err := j.Repo.Booking.LatestAttendedClassDate(ctx, student.ID, practiceSubtype)
		if err != nil {
			j.Log.Error("Failed to find latest attended class",
				zap.Error(err),
				zap.String("user_id", student.ID.String()),
			)
			continue
		}
		if latest != nil && !latest.Before(cutoff) {
			continue
		}

		if j.DryRun {
			j.Log.Info("Dry run, would revoke regular student flag",
				zap.String("username", student.Username),
			)
			deactivated++
			continue
		}

		if err := j.Repo.User.SetRegularStudent(ctx, student.ID, false); err != nil {
			j.Log.Error("Failed to revoke regular student flag",
				zap.Error(err),
				zap.String("user_id", student.ID.String()),
			)
			continue
		}

		j.logActivity(ctx, j.Name(),
			"Regular student flag removed from %s, no attended class since %s",
			student.Username, describeLastClass(latest))
		deactivated++
	}

	j.Metrics.RecordJobActions(j.Name(), "deactivated", deactivated)
	if deactivated == 0 {
		j.Log.Info("No regular students to deactivate")
		j.logActivity(ctx, j.Name(), "Regular student sweep found nothing to deactivate")
	} else {
		j.logActivity(ctx, j.Name(), "Regular student sweep deactivated %d student(s)", deactivated)
		j.Log.Info("Regular students deactivated",
			zap.Int("count", deactivated),
			zap.Int("inactivity_months", months),
		)
	}

	return nil
}

func describeLastClass(latest *time.Time) string {
	if latest == nil {
		return "ever"
	}
	return latest.In(utils.StudioLocation()).Format("02 Jan 2006")
}
