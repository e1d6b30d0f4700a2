// Package window handles the SDL2 window, its OpenGL context and input.
package window

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/gridcaster/internal/engine/canvas"
	"github.com/Faultbox/gridcaster/internal/engine/input"
	"github.com/Faultbox/gridcaster/internal/logger"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// Config holds window configuration. Width and Height are in window pixels.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
}

// Window wraps the SDL2 window, OpenGL context and frame presenter.
type Window struct {
	config    Config
	sdlWindow *sdl.Window
	glContext sdl.GLContext
	presenter *Presenter

	log *zap.Logger
}

// New creates a new window with OpenGL context.
func New(cfg Config) (*Window, error) {
	w := &Window{
		config: cfg,
		log:    logger.Named("window"),
	}

	w.log.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// We want OpenGL 4.1 Core Profile (max supported on macOS)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}

	var err error
	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	w.glContext, err = w.sdlWindow.GLCreateContext()
	if err != nil {
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	if cfg.VSync {
		if err := sdl.GLSetSwapInterval(1); err != nil {
			w.log.Warn("failed to enable VSync", zap.Error(err))
		}
	} else {
		sdl.GLSetSwapInterval(0)
	}

	width, height := w.GetDrawableSize()
	w.presenter, err = NewPresenter(width, height)
	if err != nil {
		_ = w.Close()
		return nil, err
	}

	w.log.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
	)

	return w, nil
}

// PollEvents drains the SDL queue into dst.
func (w *Window) PollEvents(dst []input.Event) []input.Event {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			dst = append(dst, input.Event{Type: input.EventQuit})

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED && w.presenter != nil {
				w.presenter.Resize(w.GetDrawableSize())
			}

		case *sdl.KeyboardEvent:
			if ev, ok := KeyEvent(e); ok {
				dst = append(dst, ev)
			}

		case *sdl.MouseMotionEvent:
			dst = append(dst, input.PointerMove(float64(e.XRel)))

		case *sdl.MouseButtonEvent:
			if e.Type == sdl.MOUSEBUTTONDOWN {
				dst = append(dst, input.Event{Type: input.EventPointerClick})
			}
		}
	}
	return dst
}

// Present draws the canvas and swaps buffers.
func (w *Window) Present(c *canvas.Canvas) error {
	if err := w.presenter.Draw(c); err != nil {
		return err
	}
	w.sdlWindow.GLSwap()
	return nil
}

// SetPointerCapture toggles relative mouse mode.
func (w *Window) SetPointerCapture(captured bool) error {
	if captured {
		sdl.SetRelativeMouseMode(true)
		if !sdl.GetRelativeMouseMode() {
			return fmt.Errorf("relative mouse mode unavailable: %v", sdl.GetError())
		}
	} else {
		sdl.SetRelativeMouseMode(false)
	}
	w.log.Debug("pointer capture", zap.Bool("captured", captured))
	return nil
}

// Close destroys the window and cleans up SDL2.
func (w *Window) Close() error {
	w.log.Info("closing window")

	if w.presenter != nil {
		w.presenter.Close()
		w.presenter = nil
	}
	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
		w.glContext = nil
	}
	var err error
	if w.sdlWindow != nil {
		err = multierr.Append(err, w.sdlWindow.Destroy())
		w.sdlWindow = nil
	}

	sdl.Quit()
	return err
}

// GetDrawableSize returns the size of the GL drawable in pixels, which differs
// from the window size on high-DPI displays.
func (w *Window) GetDrawableSize() (int, int) {
	width, height := w.sdlWindow.GLGetDrawableSize()
	return int(width), int(height)
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.sdlWindow.SetTitle(title)
}
