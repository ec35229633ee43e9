package view

import (
	"fmt"
	"io"
	"sync"

	"github.com/cespare/xxhash/v2"
	qt "github.com/valyala/quicktemplate"
)

type Widget uint8

const (
	WidgetLive Widget = iota
	WidgetState
	WidgetFlow
	WidgetSnackbar
)

func (w Widget) String() string {
	switch w {
	case WidgetLive:
		return "live"
	case WidgetState:
		return "state"
	case WidgetFlow:
		return "flow"
	case WidgetSnackbar:
		return "snackbar"
	default:
		return fmt.Sprintf("widget(%d)", uint8(w))
	}
}

type Frame struct {
	Live     string
	State    string
	Flow     string
	Snackbar string
}

// Screen is the text the consumer shows. Render only writes when the frame
// differs from the last one painted, and a snackbar disappears after one
// paint.
type Screen struct {
	mu      sync.Mutex
	frame   Frame
	last    uint64
	painted bool
}

func NewScreen(initial Frame) *Screen {
	return &Screen{frame: initial}
}

func (s *Screen) Set(w Widget, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch w {
	case WidgetLive:
		s.frame.Live = text
	case WidgetState:
		s.frame.State = text
	case WidgetFlow:
		s.frame.Flow = text
	case WidgetSnackbar:
		s.frame.Snackbar = text
	}
}

// Observer adapts a widget to the flow observer signature.
func (s *Screen) Observer(w Widget) func(string) {
	return func(text string) {
		s.Set(w, text)
	}
}

func (s *Screen) Frame() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

func (s *Screen) Render(w io.Writer) (painted bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bb := qt.AcquireByteBuffer()
	defer qt.ReleaseByteBuffer(bb)
	WritePanel(bb, s.frame)

	sum := xxhash.Sum64(bb.B)
	if s.painted && sum == s.last {
		return false, nil
	}
	if _, err := w.Write(bb.B); err != nil {
		return false, fmt.Errorf("paint screen: %w", err)
	}
	s.last, s.painted = sum, true
	s.frame.Snackbar = ""
	return true, nil
}
