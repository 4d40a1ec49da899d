package services

import (
	"log"
	"time"

	"craft-mentor-system/models"

	"github.com/go-co-op/gocron/v2"
)

// StartUsageReportScheduler logs the previous day's chat volume per
// organization shortly after midnight. Telemetry only — quota enforcement
// never depends on this job because the day boundary lives in the quota
// query itself.
func (s *ProgressionService) StartUsageReportScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 5, 0))),
		gocron.NewTask(func() {
			dayStart := startOfDay(s.now()).AddDate(0, 0, -1)
			dayEnd := dayStart.AddDate(0, 0, 1)

			type orgUsage struct {
				OrgID    string
				Messages int64
			}
			var usage []orgUsage
			err := s.DB.Model(&models.ActivityRecord{}).
				Select("org_id, COUNT(*) AS messages").
				Where("kind = ? AND occurred_at >= ? AND occurred_at < ?",
					models.ActivityChatMessage, dayStart, dayEnd).
				Group("org_id").
				Scan(&usage).Error
			if err != nil {
				log.Printf("[UsageReport] DB error: %v", err)
				return
			}

			for _, u := range usage {
				log.Printf(`📊 [EVENT] type="daily_usage" orgId=%s day=%s messages=%d`,
					u.OrgID, dayStart.Format(time.DateOnly), u.Messages)
			}
		}),
	)
}
