package areas

import (
	"github.com/samber/lo"
	"github.com/sharetube/town/internal/domain"
	"github.com/sharetube/town/pkg/emitter"
)

var (
	TopicChange     = emitter.NewEvent[*string]("topicChange")
	OccupantsChange = emitter.NewEvent[[]*domain.Player]("occupantsChange")
)

// PlayerFinder resolves player IDs into the town's player instances.
type PlayerFinder func(ids []string) []*domain.Player

type ConversationAreaController struct {
	id        string
	topic     *string
	occupants []*domain.Player
	events    emitter.Bus
}

func NewConversationAreaController(id string, topic *string) *ConversationAreaController {
	return &ConversationAreaController{
		id:        id,
		topic:     topic,
		occupants: []*domain.Player{},
	}
}

// FromConversationAreaModel builds a controller from a snapshot. Occupants are
// whatever findPlayers returns; no validation happens here.
func FromConversationAreaModel(model domain.ConversationAreaModel, findPlayers PlayerFinder) *ConversationAreaController {
	c := NewConversationAreaController(model.ID, domain.CloneString(model.Topic))
	c.SetOccupants(findPlayers(model.OccupantsByID))
	return c
}

func (c *ConversationAreaController) ID() string {
	return c.id
}

func (c *ConversationAreaController) Topic() *string {
	return c.topic
}

// SetTopic reports whether the topic changed. topicChange fires only then.
func (c *ConversationAreaController) SetTopic(topic *string) bool {
	if domain.StringsEqual(c.topic, topic) {
		return false
	}

	c.topic = topic
	emitter.Emit(&c.events, TopicChange, topic)
	return true
}

func (c *ConversationAreaController) Occupants() []*domain.Player {
	return c.occupants
}

// SetOccupants compares occupants as a set of player references. A permutation
// of the current list is not a change and the stored slice is kept.
func (c *ConversationAreaController) SetOccupants(occupants []*domain.Player) bool {
	if sameOccupants(c.occupants, occupants) {
		return false
	}

	c.occupants = occupants
	emitter.Emit(&c.events, OccupantsChange, occupants)
	return true
}

func (c *ConversationAreaController) IsEmpty() bool {
	return c.topic == nil || len(c.occupants) == 0
}

// UpdateFrom applies a newer snapshot of the same area. model.ID is ignored.
func (c *ConversationAreaController) UpdateFrom(model domain.ConversationAreaModel, findPlayers PlayerFinder) {
	c.SetTopic(domain.CloneString(model.Topic))
	c.SetOccupants(findPlayers(model.OccupantsByID))
}

func (c *ConversationAreaController) ToConversationAreaModel() domain.ConversationAreaModel {
	return domain.ConversationAreaModel{
		ID:    c.id,
		Topic: domain.CloneString(c.topic),
		OccupantsByID: lo.Map(c.occupants, func(p *domain.Player, _ int) string {
			return p.ID
		}),
	}
}

func (c *ConversationAreaController) Events() *emitter.Bus {
	return &c.events
}

func (c *ConversationAreaController) OnTopicChange(fn func(*string)) func() {
	return emitter.On(&c.events, TopicChange, fn)
}

func (c *ConversationAreaController) OnOccupantsChange(fn func([]*domain.Player)) func() {
	return emitter.On(&c.events, OccupantsChange, fn)
}

func sameOccupants(current, next []*domain.Player) bool {
	if len(current) != len(next) {
		return false
	}

	missing, added := lo.Difference(current, next)
	return len(missing) == 0 && len(added) == 0
}
