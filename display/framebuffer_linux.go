//go:build linux

package display

import (
	"errors"
	"fmt"
	"os"
	"unsafe"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/mutschler/fbv/render"
)

// ioctl requests of linux/fb.h
const (
	fbioGetVScreenInfo = 0x4600
	fbioGetFScreenInfo = 0x4602
)

type fbBitfield struct {
	Offset   uint32
	Length   uint32
	MsbRight uint32
}

// fbVarScreenInfo mirrors struct fb_var_screeninfo.
type fbVarScreenInfo struct {
	XRes, YRes               uint32
	XResVirtual, YResVirtual uint32
	XOffset, YOffset         uint32
	BitsPerPixel             uint32
	Grayscale                uint32
	Red, Green, Blue, Transp fbBitfield
	NonStd                   uint32
	Activate                 uint32
	Height, Width            uint32
	AccelFlags               uint32
	PixClock                 uint32
	LeftMargin, RightMargin  uint32
	UpperMargin, LowerMargin uint32
	HSyncLen, VSyncLen       uint32
	Sync, VMode, Rotate      uint32
	Colorspace               uint32
	Reserved                 [4]uint32
}

// fbFixScreenInfo mirrors struct fb_fix_screeninfo.
type fbFixScreenInfo struct {
	ID           [16]byte
	SMemStart    uintptr
	SMemLen      uint32
	Type         uint32
	TypeAux      uint32
	Visual       uint32
	XPanStep     uint16
	YPanStep     uint16
	YWrapStep    uint16
	LineLength   uint32
	MMIOStart    uintptr
	MMIOLen      uint32
	Accel        uint32
	Capabilities uint16
	Reserved     [2]uint16
}

// Framebuffer is a Linux fbdev device such as /dev/fb0.
type Framebuffer struct {
	path string
	f    *os.File
	vi   fbVarScreenInfo
	fi   fbFixScreenInfo
	mem  []byte
}

func ioctl(fd uintptr, req uintptr, arg unsafe.Pointer) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, uintptr(arg)); errno != 0 {
		return errno
	}
	return nil
}

// OpenFramebuffer opens the device at path and reads its screen info.
func OpenFramebuffer(path string) (_ *Framebuffer, err error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open framebuffer: %w: %w", render.ErrDevice, err)
	}
	defer func() {
		if err != nil {
			f.Close()
		}
	}()

	fb := &Framebuffer{path: path, f: f}
	if err := ioctl(f.Fd(), fbioGetVScreenInfo, unsafe.Pointer(&fb.vi)); err != nil {
		return nil, fmt.Errorf("get resolution of %s: %w: %w", path, render.ErrDevice, err)
	}
	if err := ioctl(f.Fd(), fbioGetFScreenInfo, unsafe.Pointer(&fb.fi)); err != nil {
		return nil, fmt.Errorf("get fixed info of %s: %w: %w", path, render.ErrDevice, err)
	}

	vi := fb.vi
	log.WithField("device", path).Infof("framebuffer %dx%d, %d bits, line length %d",
		vi.XRes, vi.YRes, vi.BitsPerPixel, fb.fi.LineLength)
	log.Infof("red %d %d %d", vi.Red.Offset, vi.Red.Length, vi.Red.MsbRight)
	log.Infof("green %d %d %d", vi.Green.Offset, vi.Green.Length, vi.Green.MsbRight)
	log.Infof("blue %d %d %d", vi.Blue.Offset, vi.Blue.Length, vi.Blue.MsbRight)
	if vi.BitsPerPixel == 32 && (vi.Red.Offset != 16 || vi.Blue.Offset != 0) {
		log.Warnf("channel layout is not B,G,R,A, colors will be swapped")
	}
	return fb, nil
}

// Geometry returns the visible resolution and depth of the device.
func (fb *Framebuffer) Geometry() (render.Geometry, error) {
	if fb.f == nil {
		return render.Geometry{}, fmt.Errorf("%s is closed: %w", fb.path, render.ErrDevice)
	}
	return render.Geometry{
		Width:    int(fb.vi.XRes),
		Height:   int(fb.vi.YRes),
		BitDepth: int(fb.vi.BitsPerPixel),
		Stride:   int(fb.fi.LineLength),
	}, nil
}

// Map maps the visible screen memory for writing.
func (fb *Framebuffer) Map() (*render.Surface, error) {
	g, err := fb.Geometry()
	if err != nil {
		return nil, err
	}
	if fb.mem != nil {
		return nil, fmt.Errorf("%s is already mapped: %w", fb.path, render.ErrDevice)
	}
	size := g.RowStride() * g.Height
	if size <= 0 {
		return nil, fmt.Errorf("%s maps %d bytes: %w", fb.path, size, render.ErrDevice)
	}
	mem, err := unix.Mmap(int(fb.f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w: %w", fb.path, render.ErrDevice, err)
	}
	s, err := render.NewSurface(g, mem)
	if err != nil {
		unix.Munmap(mem)
		return nil, err
	}
	fb.mem = mem
	log.Debugf("mapped %s of %s", humanize.Bytes(uint64(size)), fb.path)
	return s, nil
}

// Unmap releases the mapping made by Map.
func (fb *Framebuffer) Unmap() error {
	if fb.mem == nil {
		return nil
	}
	err := unix.Munmap(fb.mem)
	fb.mem = nil
	if err != nil {
		return fmt.Errorf("unmap %s: %w: %w", fb.path, render.ErrDevice, err)
	}
	return nil
}

// Close unmaps the screen memory if needed and closes the device.
func (fb *Framebuffer) Close() error {
	if fb.f == nil {
		return nil
	}
	err := errors.Join(fb.Unmap(), fb.f.Close())
	fb.f = nil
	return err
}
