package remote

import (
	"context"
	"fmt"

	"github.com/sharetube/town/internal/domain"
	"github.com/sharetube/town/pkg/wsrouter"
)

const (
	typeInitialize              = "INITIALIZE"
	typePlayerJoined            = "PLAYER_JOINED"
	typePlayerDisconnected      = "PLAYER_DISCONNECTED"
	typeConversationAreaUpdated = "CONVERSATION_AREA_UPDATED"
	typeViewingAreaUpdated      = "VIEWING_AREA_UPDATED"
	typeUpdateViewingArea       = "UPDATE_VIEWING_AREA"
)

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func (c *Client) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New(c.handleError)

	wsrouter.Handle(mux, typeInitialize, applyValid(c, func(snapshot domain.TownSnapshot) error {
		c.town.Initialize(snapshot)
		return nil
	}))
	wsrouter.Handle(mux, typePlayerJoined, applyValid(c, func(player domain.Player) error {
		c.town.AddPlayer(player)
		return nil
	}))
	wsrouter.Handle(mux, typePlayerDisconnected, applyValid(c, func(player domain.Player) error {
		return c.town.RemovePlayer(player.ID)
	}))
	wsrouter.Handle(mux, typeConversationAreaUpdated, applyValid(c, func(model domain.ConversationAreaModel) error {
		c.town.ApplyConversationArea(model)
		return nil
	}))
	wsrouter.Handle(mux, typeViewingAreaUpdated, applyValid(c, func(model domain.ViewingAreaModel) error {
		c.town.ApplyViewingArea(model)
		return nil
	}))

	return mux
}

// applyValid validates the payload and then runs apply on the town loop.
func applyValid[T any](c *Client, apply func(T) error) func(context.Context, T) error {
	return func(ctx context.Context, input T) error {
		if validationErrors, ok := c.validate.Validate(input); !ok {
			return fmt.Errorf("invalid payload: %w", validationErrors)
		}

		var applyErr error
		if err := c.town.Do(ctx, func() { applyErr = apply(input) }); err != nil {
			return fmt.Errorf("failed to apply payload: %w", err)
		}
		if applyErr != nil {
			return fmt.Errorf("failed to apply payload: %w", applyErr)
		}

		return nil
	}
}

func (c *Client) handleError(ctx context.Context, messageType string, err error) {
	funcName := "remote.Client.handleError"
	c.logger.InfoContext(ctx, funcName, "type", messageType, "error", err)
}
