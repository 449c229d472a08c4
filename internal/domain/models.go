package domain

type ConversationAreaModel struct {
	ID            string   `json:"id" validate:"required"`
	Topic         *string  `json:"topic"`
	OccupantsByID []string `json:"occupants_by_id" validate:"dive,required"`
}

type ViewingAreaModel struct {
	ID             string  `json:"id" validate:"required"`
	IsPlaying      bool    `json:"is_playing"`
	ElapsedTimeSec float64 `json:"elapsed_time_sec" validate:"gte=0"`
	Video          *string `json:"video"`
}

type TownSnapshot struct {
	Players           []Player                `json:"players" validate:"dive"`
	ConversationAreas []ConversationAreaModel `json:"conversation_areas" validate:"dive"`
	ViewingAreas      []ViewingAreaModel      `json:"viewing_areas" validate:"dive"`
}

// StringsEqual compares two optional strings by value.
func StringsEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}

	return *a == *b
}

// CloneString returns a copy of an optional string so callers cannot alias
// stored state.
func CloneString(s *string) *string {
	if s == nil {
		return nil
	}

	v := *s
	return &v
}
