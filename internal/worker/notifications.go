package worker

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/guttosm/vitaltrack-proxy/internal/domain/model"
)

// Tags recognized by the sync and notification handlers.
const (
	TagHealthReminder      = "health-reminder"
	TagDailyReminder       = "daily-reminder"
	TagDailyHealthReminder = "daily-health-reminder"
	TagHealthDataBackup    = "health-data-backup"
)

const (
	pushTitle       = "VitalTrack Health Reminder"
	pushDefaultBody = "Time to check your health goals!"
	dailyTitle      = "Daily Health Check"
	dailyBody       = "Don't forget to log your health data today!"
	iconLarge       = "/icon-192x192.png"
	iconBadge       = "/icon-72x72.png"
)

// Push shows the health reminder for a push message. An empty payload uses
// the default body. It returns once the notification is displayed.
func (w *Worker) Push(ctx context.Context, payload []byte) (string, error) {
	body := pushDefaultBody
	if len(payload) > 0 {
		body = string(payload)
	}

	n := &model.Notification{
		Title:   pushTitle,
		Body:    body,
		Icon:    iconLarge,
		Badge:   iconBadge,
		Vibrate: []int{200, 100, 200},
		Tag:     TagHealthReminder,
		Actions: []model.NotificationAction{
			{Action: model.ActionOpen, Title: "Open VitalTrack", Icon: iconBadge},
			{Action: model.ActionDismiss, Title: "Dismiss", Icon: iconBadge},
		},
		Data: &model.NotificationData{
			URL:       w.cfg.RootPath,
			Timestamp: w.now().UnixMilli(),
		},
	}

	id, err := w.notifier.Show(ctx, n)
	if err != nil {
		return "", fmt.Errorf("show push notification: %w", err)
	}
	return id, nil
}

// NotificationClick closes the notification and, for the open action,
// opens or focuses a window at its target URL.
func (w *Worker) NotificationClick(ctx context.Context, id, action string) (*model.Client, error) {
	n, err := w.notifier.Close(ctx, id)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("notification_id", id).Str("action", action).Msg("Notification clicked")

	if action != model.ActionOpen {
		return nil, nil
	}
	client, err := w.clients.OpenWindow(ctx, n.TargetURL(w.cfg.RootPath))
	if err != nil {
		return nil, fmt.Errorf("open window: %w", err)
	}
	return client, nil
}

// PeriodicSync shows the daily reminder for its tag and ignores any other.
func (w *Worker) PeriodicSync(ctx context.Context, tag string) (string, error) {
	if tag != TagDailyHealthReminder {
		log.Debug().Str("event", "periodicsync").Str("tag", tag).Msg("Ignoring periodic sync")
		return "", nil
	}

	id, err := w.notifier.Show(ctx, &model.Notification{
		Title:              dailyTitle,
		Body:               dailyBody,
		Icon:               iconLarge,
		Badge:              iconBadge,
		Tag:                TagDailyReminder,
		RequireInteraction: false,
		Silent:             false,
	})
	if err != nil {
		return "", fmt.Errorf("show daily reminder: %w", err)
	}
	return id, nil
}

// Sync handles a background sync. Health data backup has no server to
// talk to, so it only records that it fired.
func (w *Worker) Sync(_ context.Context, tag string) bool {
	if tag != TagHealthDataBackup {
		log.Debug().Str("event", "sync").Str("tag", tag).Msg("Ignoring background sync")
		return false
	}
	log.Info().Str("event", "sync").Str("tag", tag).Msg("Background sync triggered for health data")
	return true
}
