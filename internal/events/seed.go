package events

import (
	conversationService "ClinicDashboard/internal/api/conversation/service"
	"ClinicDashboard/internal/api/schedule"
	scheduleService "ClinicDashboard/internal/api/schedule/service"
	"ClinicDashboard/internal/entity"
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ConfigSource is the configuration fetch of the clinic backend.
type ConfigSource interface {
	FetchConfig(ctx context.Context) (entity.ClinicConfig, error)
}

// Reload fetches the clinic configuration and seeds the schedule with it. On
// failure the schedule leaves the loading state with the error recorded, and
// the error is returned wrapped in schedule.ErrConfigUnavailable.
func (r *Router) Reload(ctx context.Context, src ConfigSource) error {
	cfg, fetchErr := src.FetchConfig(ctx)

	err := r.Do(ctx, func(_ conversationService.IConversationService, sched scheduleService.IScheduleService) {
		if fetchErr != nil {
			sched.SeedFailed(fetchErr)
			return
		}
		sched.Seed(cfg)
	})
	if err != nil {
		return err
	}

	if fetchErr != nil {
		r.log.WithFields(logrus.Fields{
			"error": fetchErr.Error(),
		}).Error("Clinic configuration fetch failed")
		return fmt.Errorf("%w: %v", schedule.ErrConfigUnavailable, fetchErr)
	}
	return nil
}
