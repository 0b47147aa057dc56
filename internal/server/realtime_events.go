package server

import (
	"context"
	"encoding/json"
	"log/slog"

	"promptfeed/internal/middleware"
)

// Event type constants prevent typos in event names.
const (
	EventPostCreated         = "post_created"
	EventPostReactionUpdated = "post_reaction_updated"
	EventCommentCreated      = "comment_created"
)

// publishFeedEvent fans an event out to live feed clients. With Redis the
// event goes through the feed channel and reaches local clients via the hub's
// subscriber; without it, or if publishing fails, local clients get it directly.
func (s *Server) publishFeedEvent(ctx context.Context, eventType string, payload map[string]interface{}) {
	event := map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	}
	eventJSON, err := json.Marshal(event)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to marshal event",
			slog.String("type", eventType), slog.String("error", err.Error()))
		return
	}
	message := string(eventJSON)

	if s.notifier.Enabled() {
		// The response is already decided; a client disconnect must not drop the event.
		err := s.notifier.PublishFeed(context.WithoutCancel(ctx), message)
		if err == nil {
			return
		}
		middleware.Logger.WarnContext(ctx, "failed to publish feed event",
			slog.String("type", eventType), slog.String("error", err.Error()))
	}
	if s.feedHub != nil {
		s.feedHub.BroadcastAll(message)
	}
}
