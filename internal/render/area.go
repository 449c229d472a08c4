package render

import (
	"github.com/sharetube/town/internal/areas"
)

// PlayerFactory creates an embedded player for a video URL.
type PlayerFactory func(video string) VideoPlayer

// ViewingArea mounts a ViewingAreaVideo while the area has a video and tears
// it down when the video is cleared or replaced.
type ViewingArea struct {
	controller *areas.ViewingAreaController
	newPlayer  PlayerFactory
	opts       []Option
	video      *ViewingAreaVideo
	off        func()
}

func NewViewingArea(controller *areas.ViewingAreaController, newPlayer PlayerFactory, opts ...Option) *ViewingArea {
	a := &ViewingArea{
		controller: controller,
		newPlayer:  newPlayer,
		opts:       opts,
	}

	a.mount(controller.Video())
	a.off = controller.OnVideoChange(a.mount)

	return a
}

func (a *ViewingArea) mount(video *string) {
	if a.video != nil {
		a.video.Close()
		a.video = nil
	}

	if video == nil {
		return
	}

	a.video = NewViewingAreaVideo(a.controller, a.newPlayer(*video), a.opts...)
}

// NeedsVideo reports that no video is assigned and one must be chosen.
func (a *ViewingArea) NeedsVideo() bool {
	return a.video == nil
}

// Video returns the mounted player glue, or nil.
func (a *ViewingArea) Video() *ViewingAreaVideo {
	return a.video
}

func (a *ViewingArea) Close() {
	if a.off != nil {
		a.off()
		a.off = nil
	}
	a.mount(nil)
}
