package town

import (
	"context"
	"log/slog"

	"github.com/sharetube/town/internal/areas"
	"github.com/sharetube/town/internal/domain"
	"github.com/sharetube/town/pkg/emitter"
	"golang.org/x/exp/slices"
)

var (
	PlayersChange         = emitter.NewEvent[[]*domain.Player]("playersChange")
	ConversationAreaAdded = emitter.NewEvent[*areas.ConversationAreaController]("conversationAreaAdded")
	ViewingAreaAdded      = emitter.NewEvent[*areas.ViewingAreaController]("viewingAreaAdded")
)

// Town is the local mirror of everything the town server tracks. Its methods
// must run on one goroutine; other goroutines go through Do.
type Town struct {
	players           []*domain.Player
	conversationAreas []*areas.ConversationAreaController
	viewingAreas      []*areas.ViewingAreaController
	events            emitter.Bus
	inputCh           chan func()
	logger            *slog.Logger
}

func New(logger *slog.Logger) *Town {
	return &Town{
		players: []*domain.Player{},
		inputCh: make(chan func()),
		logger:  logger,
	}
}

// Initialize reconciles the mirror with a fresh snapshot. Players and area
// controllers that survive keep their instances, so existing subscribers keep
// receiving updates; areas missing from the snapshot are dropped.
func (t *Town) Initialize(snapshot domain.TownSnapshot) {
	funcName := "town.Town.Initialize"
	t.logger.Debug(funcName,
		"players", len(snapshot.Players),
		"conversation_areas", len(snapshot.ConversationAreas),
		"viewing_areas", len(snapshot.ViewingAreas),
	)

	players := make([]*domain.Player, 0, len(snapshot.Players))
	for _, p := range snapshot.Players {
		if existing, err := t.Player(p.ID); err == nil {
			existing.Username = p.Username
			players = append(players, existing)
			continue
		}
		player := p
		players = append(players, &player)
	}
	t.players = players
	emitter.Emit(&t.events, PlayersChange, t.players)

	conversationAreas := make([]*areas.ConversationAreaController, 0, len(snapshot.ConversationAreas))
	for _, model := range snapshot.ConversationAreas {
		if area := t.ApplyConversationArea(model); !slices.Contains(conversationAreas, area) {
			conversationAreas = append(conversationAreas, area)
		}
	}
	t.conversationAreas = conversationAreas

	viewingAreas := make([]*areas.ViewingAreaController, 0, len(snapshot.ViewingAreas))
	for _, model := range snapshot.ViewingAreas {
		if area := t.ApplyViewingArea(model); !slices.Contains(viewingAreas, area) {
			viewingAreas = append(viewingAreas, area)
		}
	}
	t.viewingAreas = viewingAreas
}

// AddPlayer registers a player. A known ID keeps its existing instance so
// area occupants stay reference-equal; a changed username still counts as a
// players change.
func (t *Town) AddPlayer(player domain.Player) *domain.Player {
	funcName := "town.Town.AddPlayer"
	if existing, err := t.Player(player.ID); err == nil {
		if existing.Username != player.Username {
			existing.Username = player.Username
			t.logger.Debug(funcName, "player_id", existing.ID, "result", "renamed")
			emitter.Emit(&t.events, PlayersChange, t.players)
		}
		return existing
	}

	p := &player
	t.players = append(slices.Clone(t.players), p)
	t.logger.Debug(funcName, "player_id", p.ID)
	emitter.Emit(&t.events, PlayersChange, t.players)
	return p
}

func (t *Town) RemovePlayer(id string) error {
	funcName := "town.Town.RemovePlayer"
	index := slices.IndexFunc(t.players, func(p *domain.Player) bool {
		return p.ID == id
	})
	if index < 0 {
		t.logger.Info(funcName, "error", domain.ErrPlayerNotFound, "player_id", id)
		return domain.ErrPlayerNotFound
	}

	t.players = slices.Delete(slices.Clone(t.players), index, index+1)
	t.logger.Debug(funcName, "player_id", id)
	emitter.Emit(&t.events, PlayersChange, t.players)
	return nil
}

func (t *Town) Player(id string) (*domain.Player, error) {
	for _, p := range t.players {
		if p.ID == id {
			return p, nil
		}
	}

	return nil, domain.ErrPlayerNotFound
}

func (t *Town) Players() []*domain.Player {
	return t.players
}

// FindPlayers resolves ids in order, skipping unknown ones.
func (t *Town) FindPlayers(ids []string) []*domain.Player {
	found := make([]*domain.Player, 0, len(ids))
	for _, id := range ids {
		if p, err := t.Player(id); err == nil {
			found = append(found, p)
		}
	}
	return found
}

func (t *Town) ApplyConversationArea(model domain.ConversationAreaModel) *areas.ConversationAreaController {
	funcName := "town.Town.ApplyConversationArea"
	if area, err := t.ConversationArea(model.ID); err == nil {
		area.UpdateFrom(model, t.FindPlayers)
		return area
	}

	area := areas.FromConversationAreaModel(model, t.FindPlayers)
	t.conversationAreas = append(t.conversationAreas, area)
	t.logger.Debug(funcName, "area_id", area.ID(), "result", "created")
	emitter.Emit(&t.events, ConversationAreaAdded, area)
	return area
}

func (t *Town) ApplyViewingArea(model domain.ViewingAreaModel) *areas.ViewingAreaController {
	funcName := "town.Town.ApplyViewingArea"
	if area, err := t.ViewingArea(model.ID); err == nil {
		area.UpdateFrom(model)
		return area
	}

	area := areas.NewViewingAreaController(model)
	t.viewingAreas = append(t.viewingAreas, area)
	t.logger.Debug(funcName, "area_id", area.ID(), "result", "created")
	emitter.Emit(&t.events, ViewingAreaAdded, area)
	return area
}

func (t *Town) ConversationArea(id string) (*areas.ConversationAreaController, error) {
	for _, area := range t.conversationAreas {
		if area.ID() == id {
			return area, nil
		}
	}

	return nil, domain.ErrAreaNotFound
}

func (t *Town) ViewingArea(id string) (*areas.ViewingAreaController, error) {
	for _, area := range t.viewingAreas {
		if area.ID() == id {
			return area, nil
		}
	}

	return nil, domain.ErrAreaNotFound
}

func (t *Town) ConversationAreas() []*areas.ConversationAreaController {
	return t.conversationAreas
}

func (t *Town) ViewingAreas() []*areas.ViewingAreaController {
	return t.viewingAreas
}

func (t *Town) Snapshot() domain.TownSnapshot {
	snapshot := domain.TownSnapshot{
		Players:           make([]domain.Player, 0, len(t.players)),
		ConversationAreas: make([]domain.ConversationAreaModel, 0, len(t.conversationAreas)),
		ViewingAreas:      make([]domain.ViewingAreaModel, 0, len(t.viewingAreas)),
	}
	for _, p := range t.players {
		snapshot.Players = append(snapshot.Players, *p)
	}
	for _, area := range t.conversationAreas {
		snapshot.ConversationAreas = append(snapshot.ConversationAreas, area.ToConversationAreaModel())
	}
	for _, area := range t.viewingAreas {
		snapshot.ViewingAreas = append(snapshot.ViewingAreas, area.ViewingAreaModel())
	}
	return snapshot
}

func (t *Town) OnPlayersChange(fn func([]*domain.Player)) func() {
	return emitter.On(&t.events, PlayersChange, fn)
}

func (t *Town) OnConversationAreaAdded(fn func(*areas.ConversationAreaController)) func() {
	return emitter.On(&t.events, ConversationAreaAdded, fn)
}

func (t *Town) OnViewingAreaAdded(fn func(*areas.ViewingAreaController)) func() {
	return emitter.On(&t.events, ViewingAreaAdded, fn)
}

// Run executes functions submitted through Do until ctx is done.
func (t *Town) Run(ctx context.Context) {
	funcName := "town.Town.Run"
	t.logger.Debug(funcName, "status", "started")
	for {
		select {
		case <-ctx.Done():
			t.logger.Debug(funcName, "status", "stopped")
			return
		case fn := <-t.inputCh:
			fn()
		}
	}
}

// Do runs fn on the Run goroutine and waits for it to finish.
func (t *Town) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	task := func() {
		defer close(done)
		fn()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case t.inputCh <- task:
	}

	<-done
	return nil
}
