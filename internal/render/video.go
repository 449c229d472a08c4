package render

import (
	"log/slog"
	"math"

	"github.com/sharetube/town/internal/areas"
	"github.com/sharetube/town/internal/domain"
)

// DriftTolerance is how far, in seconds, the local player may be from the
// shared position before it is seeked.
const DriftTolerance = 3.0

// VideoPlayer is the embedded player being driven.
type VideoPlayer interface {
	CurrentTime() float64
	SeekTo(sec float64)
	SetPlaying(isPlaying bool)
}

// Publisher receives the area state after a local change.
type Publisher func(model domain.ViewingAreaModel)

type Option func(*options)

type options struct {
	driftTolerance float64
	publish        Publisher
	logger         *slog.Logger
}

func WithDriftTolerance(sec float64) Option {
	return func(o *options) {
		o.driftTolerance = sec
	}
}

func WithPublisher(publish Publisher) Option {
	return func(o *options) {
		o.publish = publish
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		driftTolerance: DriftTolerance,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ViewingAreaVideo keeps a VideoPlayer in step with a ViewingAreaController.
type ViewingAreaVideo struct {
	controller *areas.ViewingAreaController
	player     VideoPlayer
	opts       *options
	offs       []func()
}

func NewViewingAreaVideo(controller *areas.ViewingAreaController, player VideoPlayer, opts ...Option) *ViewingAreaVideo {
	v := &ViewingAreaVideo{
		controller: controller,
		player:     player,
		opts:       newOptions(opts),
	}

	player.SetPlaying(controller.IsPlaying())
	player.SeekTo(controller.ElapsedTimeSec())

	v.offs = append(v.offs,
		controller.OnPlaybackChange(v.onPlaybackChange),
		controller.OnProgressChange(v.onProgressChange),
	)

	return v
}

func (v *ViewingAreaVideo) onPlaybackChange(isPlaying bool) {
	v.player.SetPlaying(isPlaying)
}

func (v *ViewingAreaVideo) onProgressChange(sec float64) {
	funcName := "render.ViewingAreaVideo.onProgressChange"
	current := v.player.CurrentTime()
	if math.Abs(current-sec) <= v.opts.driftTolerance {
		return
	}

	v.opts.logger.Debug(funcName, "area_id", v.controller.ID(), "from", current, "to", sec)
	v.player.SeekTo(sec)
}

// HandleProgress records the position reported by the local player.
func (v *ViewingAreaVideo) HandleProgress(sec float64) {
	v.publishIf(v.controller.SetElapsedTimeSec(sec))
}

func (v *ViewingAreaVideo) HandlePlay() {
	v.publishIf(v.controller.SetIsPlaying(true))
}

func (v *ViewingAreaVideo) HandlePause() {
	v.publishIf(v.controller.SetIsPlaying(false))
}

func (v *ViewingAreaVideo) HandleEnded() {
	v.publishIf(v.controller.SetIsPlaying(false))
}

func (v *ViewingAreaVideo) publishIf(changed bool) {
	if !changed || v.opts.publish == nil {
		return
	}

	v.opts.publish(v.controller.ViewingAreaModel())
}

// Close detaches the player. Safe to call more than once.
func (v *ViewingAreaVideo) Close() {
	for _, off := range v.offs {
		off()
	}
	v.offs = nil
}
