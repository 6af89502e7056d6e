//go:build !linux

package display

import (
	"fmt"

	"github.com/mutschler/fbv/render"
)

// Framebuffer is a Linux fbdev device. Other systems have none.
type Framebuffer struct{}

// OpenFramebuffer always fails outside Linux.
func OpenFramebuffer(path string) (*Framebuffer, error) {
	return nil, fmt.Errorf("framebuffer %s needs linux: %w", path, render.ErrDevice)
}

func (*Framebuffer) Geometry() (render.Geometry, error) { return render.Geometry{}, render.ErrDevice }
func (*Framebuffer) Map() (*render.Surface, error)      { return nil, render.ErrDevice }
func (*Framebuffer) Unmap() error                       { return nil }
func (*Framebuffer) Close() error                       { return nil }
