package areas

import (
	"reflect"
	"testing"

	"github.com/sharetube/town/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func newPlayers(ids ...string) []*domain.Player {
	players := make([]*domain.Player, 0, len(ids))
	for _, id := range ids {
		players = append(players, &domain.Player{ID: id, Username: "user-" + id})
	}
	return players
}

func sliceAddr(players []*domain.Player) uintptr {
	return reflect.ValueOf(players).Pointer()
}

type topicRecorder struct {
	topics []*string
}

func (r *topicRecorder) record(topic *string) {
	r.topics = append(r.topics, topic)
}

func TestConversationArea_SetTopic(t *testing.T) {
	c := NewConversationAreaController("c1", strPtr("books"))
	var rec topicRecorder
	c.OnTopicChange(rec.record)

	t.Run("same value is a no-op", func(t *testing.T) {
		current := c.Topic()
		changed := c.SetTopic(strPtr("books"))
		assert.False(t, changed)
		assert.Empty(t, rec.topics)
		assert.Same(t, current, c.Topic(), "unchanged topic must keep its identity")
	})

	t.Run("new value fires once", func(t *testing.T) {
		next := strPtr("movies")
		changed := c.SetTopic(next)
		assert.True(t, changed)
		require.Len(t, rec.topics, 1)
		assert.Equal(t, "movies", *rec.topics[0])
		assert.Equal(t, "movies", *c.Topic())
	})

	t.Run("to absent fires once", func(t *testing.T) {
		changed := c.SetTopic(nil)
		assert.True(t, changed)
		require.Len(t, rec.topics, 2)
		assert.Nil(t, rec.topics[1])
		assert.Nil(t, c.Topic())
	})

	t.Run("absent to absent is a no-op", func(t *testing.T) {
		assert.False(t, c.SetTopic(nil))
		assert.Len(t, rec.topics, 2)
	})

	t.Run("from absent fires once", func(t *testing.T) {
		assert.True(t, c.SetTopic(strPtr("")))
		require.Len(t, rec.topics, 3)
		assert.Equal(t, "", *rec.topics[2])
	})
}

func TestConversationArea_TopicListenersInSubscriptionOrder(t *testing.T) {
	c := NewConversationAreaController("c1", nil)
	var order []int
	c.OnTopicChange(func(*string) { order = append(order, 1) })
	c.OnTopicChange(func(*string) { order = append(order, 2) })
	off := c.OnTopicChange(func(*string) { order = append(order, 3) })

	c.SetTopic(strPtr("a"))
	assert.Equal(t, []int{1, 2, 3}, order)

	off()
	c.SetTopic(strPtr("b"))
	assert.Equal(t, []int{1, 2, 3, 1, 2}, order)
}

func TestConversationArea_SetOccupants(t *testing.T) {
	players := newPlayers("p1", "p2", "p3")
	c := NewConversationAreaController("c1", strPtr("topic"))
	var events [][]*domain.Player
	c.OnOccupantsChange(func(occupants []*domain.Player) {
		events = append(events, occupants)
	})

	initial := []*domain.Player{players[0], players[1]}
	require.True(t, c.SetOccupants(initial))
	require.Len(t, events, 1)
	assert.Equal(t, sliceAddr(initial), sliceAddr(c.Occupants()))

	t.Run("permutation is a no-op and keeps the stored slice", func(t *testing.T) {
		permuted := []*domain.Player{players[1], players[0]}
		assert.False(t, c.SetOccupants(permuted))
		assert.Len(t, events, 1)
		assert.Equal(t, sliceAddr(initial), sliceAddr(c.Occupants()))
		assert.Equal(t, []*domain.Player{players[0], players[1]}, c.Occupants())
	})

	t.Run("different membership fires once", func(t *testing.T) {
		next := []*domain.Player{players[0], players[2]}
		assert.True(t, c.SetOccupants(next))
		require.Len(t, events, 2)
		assert.Equal(t, sliceAddr(next), sliceAddr(events[1]))
		assert.Equal(t, sliceAddr(next), sliceAddr(c.Occupants()))
	})

	t.Run("different cardinality fires once", func(t *testing.T) {
		next := []*domain.Player{players[0], players[1], players[2]}
		assert.True(t, c.SetOccupants(next))
		require.Len(t, events, 3)
		assert.Equal(t, next, c.Occupants())
	})

	t.Run("empty list fires once", func(t *testing.T) {
		next := []*domain.Player{}
		assert.True(t, c.SetOccupants(next))
		require.Len(t, events, 4)
		assert.Empty(t, events[3])
		assert.Empty(t, c.Occupants())
	})
}

func TestConversationArea_OccupantsCompareByReference(t *testing.T) {
	c := NewConversationAreaController("c1", nil)
	first := &domain.Player{ID: "p1"}
	c.SetOccupants([]*domain.Player{first})

	sameIDOtherInstance := &domain.Player{ID: "p1"}
	assert.True(t, c.SetOccupants([]*domain.Player{sameIDOtherInstance}))
	assert.Same(t, sameIDOtherInstance, c.Occupants()[0])
}

func TestConversationArea_IsEmpty(t *testing.T) {
	players := newPlayers("p1")

	cases := []struct {
		name      string
		topic     *string
		occupants []*domain.Player
		want      bool
	}{
		{"no topic no occupants", nil, nil, true},
		{"no topic with occupants", nil, players, true},
		{"topic no occupants", strPtr("t"), nil, true},
		{"topic with occupants", strPtr("t"), players, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewConversationAreaController("c1", tc.topic)
			if tc.occupants != nil {
				c.SetOccupants(tc.occupants)
			}
			assert.Equal(t, tc.want, c.IsEmpty())
		})
	}
}

func TestConversationArea_ModelRoundTrip(t *testing.T) {
	players := newPlayers("p1", "p2", "p3")
	byID := map[string]*domain.Player{}
	for _, p := range players {
		byID[p.ID] = p
	}
	finder := func(ids []string) []*domain.Player {
		found := make([]*domain.Player, 0, len(ids))
		for _, id := range ids {
			if p, ok := byID[id]; ok {
				found = append(found, p)
			}
		}
		return found
	}

	t.Run("fully populated", func(t *testing.T) {
		model := domain.ConversationAreaModel{
			ID:            "c1",
			Topic:         strPtr("music"),
			OccupantsByID: []string{"p3", "p1", "p2"},
		}
		c := FromConversationAreaModel(model, finder)
		assert.Equal(t, "c1", c.ID())
		assert.Equal(t, []*domain.Player{players[2], players[0], players[1]}, c.Occupants())
		assert.Equal(t, model, c.ToConversationAreaModel())
	})

	t.Run("topic absent", func(t *testing.T) {
		model := domain.ConversationAreaModel{
			ID:            "c2",
			OccupantsByID: []string{},
		}
		c := FromConversationAreaModel(model, finder)
		assert.True(t, c.IsEmpty())
		assert.Equal(t, model, c.ToConversationAreaModel())
	})

	t.Run("stale ids are dropped by the finder", func(t *testing.T) {
		c := FromConversationAreaModel(domain.ConversationAreaModel{
			ID:            "c3",
			Topic:         strPtr("x"),
			OccupantsByID: []string{"p1", "gone"},
		}, finder)
		assert.Equal(t, []string{"p1"}, c.ToConversationAreaModel().OccupantsByID)
	})
}

func TestConversationArea_UpdateFromKeepsID(t *testing.T) {
	players := newPlayers("p1", "p2")
	finder := func(ids []string) []*domain.Player {
		return players[:len(ids)]
	}
	c := NewConversationAreaController("c1", nil)
	var topics []*string
	occupantEvents := 0
	c.OnTopicChange(func(topic *string) { topics = append(topics, topic) })
	c.OnOccupantsChange(func([]*domain.Player) { occupantEvents++ })

	c.UpdateFrom(domain.ConversationAreaModel{
		ID:            "other",
		Topic:         strPtr("news"),
		OccupantsByID: []string{"p1", "p2"},
	}, finder)

	assert.Equal(t, "c1", c.ID())
	require.Len(t, topics, 1)
	assert.Equal(t, "news", *topics[0])
	assert.Equal(t, 1, occupantEvents)

	c.UpdateFrom(domain.ConversationAreaModel{
		ID:            "c1",
		Topic:         strPtr("news"),
		OccupantsByID: []string{"p2", "p1"},
	}, finder)
	assert.Len(t, topics, 1)
	assert.Equal(t, 1, occupantEvents)
}

func TestConversationArea_EventsBusByName(t *testing.T) {
	c := NewConversationAreaController("c1", nil)
	c.OnTopicChange(func(*string) {})
	c.OnOccupantsChange(func([]*domain.Player) {})

	assert.Equal(t, 1, c.Events().ListenerCount(TopicChange.Name()))
	c.Events().RemoveAllListeners(TopicChange.Name())
	assert.Equal(t, 0, c.Events().ListenerCount(TopicChange.Name()))
	assert.Equal(t, 1, c.Events().ListenerCount(OccupantsChange.Name()))
}
