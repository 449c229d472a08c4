package areas

import (
	"github.com/sharetube/town/internal/domain"
	"github.com/sharetube/town/pkg/emitter"
)

var (
	VideoChange    = emitter.NewEvent[*string]("videoChange")
	ProgressChange = emitter.NewEvent[float64]("progressChange")
	PlaybackChange = emitter.NewEvent[bool]("playbackChange")
)

// ViewingAreaController mirrors shared video playback. Each field is tracked
// on its own; there is no transition logic between them.
type ViewingAreaController struct {
	id             string
	video          *string
	elapsedTimeSec float64
	isPlaying      bool
	events         emitter.Bus
}

func NewViewingAreaController(model domain.ViewingAreaModel) *ViewingAreaController {
	return &ViewingAreaController{
		id:             model.ID,
		video:          domain.CloneString(model.Video),
		elapsedTimeSec: model.ElapsedTimeSec,
		isPlaying:      model.IsPlaying,
	}
}

func (c *ViewingAreaController) ID() string {
	return c.id
}

func (c *ViewingAreaController) Video() *string {
	return c.video
}

func (c *ViewingAreaController) SetVideo(video *string) bool {
	if domain.StringsEqual(c.video, video) {
		return false
	}

	c.video = video
	emitter.Emit(&c.events, VideoChange, video)
	return true
}

func (c *ViewingAreaController) ElapsedTimeSec() float64 {
	return c.elapsedTimeSec
}

// SetElapsedTimeSec uses exact equality; any difference is a change.
func (c *ViewingAreaController) SetElapsedTimeSec(sec float64) bool {
	if c.elapsedTimeSec == sec {
		return false
	}

	c.elapsedTimeSec = sec
	emitter.Emit(&c.events, ProgressChange, sec)
	return true
}

func (c *ViewingAreaController) IsPlaying() bool {
	return c.isPlaying
}

func (c *ViewingAreaController) SetIsPlaying(isPlaying bool) bool {
	if c.isPlaying == isPlaying {
		return false
	}

	c.isPlaying = isPlaying
	emitter.Emit(&c.events, PlaybackChange, isPlaying)
	return true
}

// UpdateFrom applies isPlaying, elapsedTimeSec and video, in that order, and
// reports whether any of them changed. The controller keeps its own ID.
func (c *ViewingAreaController) UpdateFrom(model domain.ViewingAreaModel) bool {
	playbackChanged := c.SetIsPlaying(model.IsPlaying)
	progressChanged := c.SetElapsedTimeSec(model.ElapsedTimeSec)
	videoChanged := c.SetVideo(domain.CloneString(model.Video))

	return playbackChanged || progressChanged || videoChanged
}

func (c *ViewingAreaController) ViewingAreaModel() domain.ViewingAreaModel {
	return domain.ViewingAreaModel{
		ID:             c.id,
		IsPlaying:      c.isPlaying,
		ElapsedTimeSec: c.elapsedTimeSec,
		Video:          domain.CloneString(c.video),
	}
}

func (c *ViewingAreaController) Events() *emitter.Bus {
	return &c.events
}

func (c *ViewingAreaController) OnVideoChange(fn func(*string)) func() {
	return emitter.On(&c.events, VideoChange, fn)
}

func (c *ViewingAreaController) OnProgressChange(fn func(float64)) func() {
	return emitter.On(&c.events, ProgressChange, fn)
}

func (c *ViewingAreaController) OnPlaybackChange(fn func(bool)) func() {
	return emitter.On(&c.events, PlaybackChange, fn)
}
