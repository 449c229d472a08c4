package controller

import (
	"context"
	"log/slog"

	"github.com/sharetube/town/internal/domain"
	"github.com/sharetube/town/internal/town"
	"github.com/sharetube/town/pkg/validator"
)

type iPublisher interface {
	SendViewingAreaUpdate(ctx context.Context, model domain.ViewingAreaModel) error
}

type Controller struct {
	town      *town.Town
	publisher iPublisher
	validate  *validator.Validator
	logger    *slog.Logger
}

func NewController(t *town.Town, publisher iPublisher, logger *slog.Logger) *Controller {
	return &Controller{
		town:      t,
		publisher: publisher,
		validate:  validator.NewValidator(),
		logger:    logger,
	}
}
