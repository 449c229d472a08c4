package app

import (
	"log/slog"

	"github.com/sharetube/town/internal/areas"
	"github.com/sharetube/town/internal/domain"
	"github.com/sharetube/town/internal/town"
)

// watchAreas logs every transition of every area the town learns about.
func watchAreas(t *town.Town, logger *slog.Logger) {
	t.OnPlayersChange(func(players []*domain.Player) {
		logger.Debug("players changed", "count", len(players))
	})

	t.OnConversationAreaAdded(func(area *areas.ConversationAreaController) {
		id := area.ID()
		area.OnTopicChange(func(topic *string) {
			logger.Debug("topic changed", "area_id", id, "topic", topic, "is_empty", area.IsEmpty())
		})
		area.OnOccupantsChange(func(occupants []*domain.Player) {
			logger.Debug("occupants changed", "area_id", id, "count", len(occupants), "is_empty", area.IsEmpty())
		})
	})

	t.OnViewingAreaAdded(func(area *areas.ViewingAreaController) {
		id := area.ID()
		area.OnVideoChange(func(video *string) {
			logger.Debug("video changed", "area_id", id, "video", video)
		})
		area.OnPlaybackChange(func(isPlaying bool) {
			logger.Debug("playback changed", "area_id", id, "is_playing", isPlaying)
		})
		area.OnProgressChange(func(sec float64) {
			logger.Debug("progress changed", "area_id", id, "elapsed_time_sec", sec)
		})
	})
}
