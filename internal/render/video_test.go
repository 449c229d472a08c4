package render

import (
	"testing"

	"github.com/sharetube/town/internal/areas"
	"github.com/sharetube/town/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlayer struct {
	video     string
	current   float64
	isPlaying bool
	seeks     []float64
}

func (p *fakePlayer) CurrentTime() float64 {
	return p.current
}

func (p *fakePlayer) SeekTo(sec float64) {
	p.seeks = append(p.seeks, sec)
	p.current = sec
}

func (p *fakePlayer) SetPlaying(isPlaying bool) {
	p.isPlaying = isPlaying
}

func strPtr(s string) *string {
	return &s
}

func newController(model domain.ViewingAreaModel) *areas.ViewingAreaController {
	return areas.NewViewingAreaController(model)
}

func TestViewingAreaVideo_InitialSync(t *testing.T) {
	c := newController(domain.ViewingAreaModel{ID: "v1", IsPlaying: true, ElapsedTimeSec: 30, Video: strPtr("clip")})
	p := &fakePlayer{}

	NewViewingAreaVideo(c, p)

	assert.True(t, p.isPlaying)
	assert.Equal(t, []float64{30}, p.seeks)
}

func TestViewingAreaVideo_PlaybackChange(t *testing.T) {
	c := newController(domain.ViewingAreaModel{ID: "v1"})
	p := &fakePlayer{}
	NewViewingAreaVideo(c, p)

	c.SetIsPlaying(true)
	assert.True(t, p.isPlaying)

	c.SetIsPlaying(false)
	assert.False(t, p.isPlaying)
}

func TestViewingAreaVideo_DriftTolerance(t *testing.T) {
	c := newController(domain.ViewingAreaModel{ID: "v1", ElapsedTimeSec: 10})
	p := &fakePlayer{}
	NewViewingAreaVideo(c, p)
	p.seeks = nil

	t.Run("at the boundary does not seek", func(t *testing.T) {
		p.current = 10
		c.SetElapsedTimeSec(13)
		assert.Empty(t, p.seeks)
	})

	t.Run("past the boundary seeks", func(t *testing.T) {
		p.current = 10
		c.SetElapsedTimeSec(13.01)
		assert.Equal(t, []float64{13.01}, p.seeks)
	})

	t.Run("backwards drift seeks", func(t *testing.T) {
		p.seeks = nil
		p.current = 20
		c.SetElapsedTimeSec(5)
		assert.Equal(t, []float64{5}, p.seeks)
	})
}

func TestViewingAreaVideo_CustomTolerance(t *testing.T) {
	c := newController(domain.ViewingAreaModel{ID: "v1"})
	p := &fakePlayer{}
	NewViewingAreaVideo(c, p, WithDriftTolerance(0.5))
	p.seeks = nil

	c.SetElapsedTimeSec(1)
	assert.Equal(t, []float64{1}, p.seeks)
}

func TestViewingAreaVideo_CloseStopsDriving(t *testing.T) {
	c := newController(domain.ViewingAreaModel{ID: "v1"})
	p := &fakePlayer{}
	v := NewViewingAreaVideo(c, p)
	p.seeks = nil

	v.Close()
	v.Close()
	c.SetIsPlaying(true)
	c.SetElapsedTimeSec(100)

	assert.False(t, p.isPlaying)
	assert.Empty(t, p.seeks)
	assert.Equal(t, 0, c.Events().ListenerCount(areas.ProgressChange.Name()))
}

func TestViewingAreaVideo_LocalEventsWriteBack(t *testing.T) {
	c := newController(domain.ViewingAreaModel{ID: "v1", Video: strPtr("clip")})
	p := &fakePlayer{}
	var published []domain.ViewingAreaModel
	v := NewViewingAreaVideo(c, p, WithPublisher(func(m domain.ViewingAreaModel) {
		published = append(published, m)
	}))
	p.seeks = nil

	v.HandlePlay()
	require.Len(t, published, 1)
	assert.True(t, published[0].IsPlaying)

	p.current = 7
	v.HandleProgress(7)
	require.Len(t, published, 2)
	assert.Equal(t, 7.0, published[1].ElapsedTimeSec)
	assert.Empty(t, p.seeks, "own progress must not seek the player")

	v.HandleProgress(7)
	assert.Len(t, published, 2, "unchanged progress is not published")

	v.HandlePause()
	require.Len(t, published, 3)
	assert.False(t, published[2].IsPlaying)

	v.HandleEnded()
	assert.Len(t, published, 3, "already paused")

	v.HandlePlay()
	v.HandleEnded()
	require.Len(t, published, 5)
	assert.False(t, c.IsPlaying())
}

func TestViewingAreaVideo_WriteBackWithoutPublisher(t *testing.T) {
	c := newController(domain.ViewingAreaModel{ID: "v1"})
	v := NewViewingAreaVideo(c, &fakePlayer{})

	v.HandlePlay()
	v.HandleProgress(3)

	assert.True(t, c.IsPlaying())
	assert.Equal(t, 3.0, c.ElapsedTimeSec())
}
