package window

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/gridcaster/internal/engine/canvas"
	"github.com/Faultbox/gridcaster/internal/engine/shader"
	"github.com/Faultbox/gridcaster/internal/logger"
)

// Presenter uploads finished canvases to the GPU and draws them as one
// full-window textured quad.
// IMPORTANT: Must be created AFTER the OpenGL context!
type Presenter struct {
	program *shader.Program
	vao     uint32
	vbo     uint32
	texture uint32

	texWidth  int32
	texHeight int32
}

// NewPresenter initializes OpenGL and the blit resources.
func NewPresenter(viewportWidth, viewportHeight int) (*Presenter, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Disable(gl.DEPTH_TEST)
	gl.ClearColor(0, 0, 0, 1)

	program, err := shader.CompileProgram(shader.BlitVertex, shader.BlitFragment)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	p := &Presenter{program: program}
	p.createQuad()
	gl.GenTextures(1, &p.texture)
	gl.BindTexture(gl.TEXTURE_2D, p.texture)
	// Nearest keeps the logical pixels sharp when scaled up.
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	p.program.Use()
	gl.Uniform1i(p.program.Uniform("uFrame"), 0)

	p.Resize(viewportWidth, viewportHeight)
	return p, nil
}

func (p *Presenter) createQuad() {
	quad := shader.BlitQuad

	gl.GenVertexArrays(1, &p.vao)
	gl.BindVertexArray(p.vao)

	gl.GenBuffers(1, &p.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, p.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quad)*4, unsafe.Pointer(&quad[0]), gl.STATIC_DRAW)

	// Position attribute (location = 0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 4*4, nil)
	gl.EnableVertexAttribArray(0)

	// UV attribute (location = 1)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, 4*4, unsafe.Pointer(uintptr(2*4)))
	gl.EnableVertexAttribArray(1)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	logger.Debug("blit quad created",
		zap.Uint32("vao", p.vao),
		zap.Uint32("vbo", p.vbo),
	)
}

// Resize handles window resize.
func (p *Presenter) Resize(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("presenter resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Draw uploads c and draws it. The caller swaps buffers.
func (p *Presenter) Draw(c *canvas.Canvas) error {
	w, h := c.Size()
	pix := c.Pixels()
	if len(pix) == 0 {
		return errors.New("present: empty canvas")
	}

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, p.texture)
	if int32(w) != p.texWidth || int32(h) != p.texHeight {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0,
			gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
		p.texWidth, p.texHeight = int32(w), int32(h)
	} else {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(w), int32(h),
			gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	}

	gl.Clear(gl.COLOR_BUFFER_BIT)
	p.program.Use()
	gl.BindVertexArray(p.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("present: gl error 0x%x", code)
	}
	return nil
}

// Close releases GPU resources.
func (p *Presenter) Close() {
	logger.Info("closing presenter")
	if p.texture != 0 {
		gl.DeleteTextures(1, &p.texture)
	}
	if p.vao != 0 {
		gl.DeleteVertexArrays(1, &p.vao)
	}
	if p.vbo != 0 {
		gl.DeleteBuffers(1, &p.vbo)
	}
	p.program.Delete()
}
