package domain

// Player is the local object for a participant. Areas hold *Player references
// and compare occupants by pointer, so the town keeps one instance per ID.
type Player struct {
	ID       string `json:"id" validate:"required"`
	Username string `json:"username"`
}
