package routemap

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// FiberHost adapts a fiber application to the Host contract. Fiber's
// own route syntax matches the translator's output (":name", ":name?",
// ":name<expr>"), so patterns pass through verbatim.
type FiberHost struct {
	app *fiber.App
}

// NewFiberHost builds a fiber application wrapped as a Host. With no
// opts the default configuration keeps unescaped paths and lenient
// routing.
func NewFiberHost(opts ...func(*fiber.App) *fiber.App) *FiberHost {
	app := fiber.New(fiber.Config{
		UnescapePath:  true,
		StrictRouting: false,
	})

	for _, opt := range opts {
		app = opt(app)
	}

	return &FiberHost{app: app}
}

// WrapFiberApp adopts an existing application instead of building one.
func WrapFiberApp(app *fiber.App) *FiberHost {
	return &FiberHost{app: app}
}

func (h *FiberHost) Add(method, pattern string, handlers ...HandlerFunc) {
	h.app.Add(strings.ToUpper(method), pattern, fiberHandlers(handlers)...)
}

func (h *FiberHost) Mount(pattern string, handlers ...HandlerFunc) {
	args := make([]any, 0, len(handlers)+1)
	args = append(args, pattern)
	for _, handler := range fiberHandlers(handlers) {
		args = append(args, handler)
	}
	h.app.Use(args...)
}

func (h *FiberHost) Listen(address string) error {
	return h.app.Listen(address)
}

func (h *FiberHost) Shutdown(ctx context.Context) error {
	return h.app.ShutdownWithContext(ctx)
}

// App exposes the wrapped application for host-specific wiring.
func (h *FiberHost) App() *fiber.App {
	return h.app
}

func fiberHandlers(handlers []HandlerFunc) []fiber.Handler {
	out := make([]fiber.Handler, len(handlers))
	for i, handler := range handlers {
		h := handler
		out[i] = func(c *fiber.Ctx) error {
			return h(&fiberContext{ctx: c})
		}
	}
	return out
}

type fiberContext struct {
	ctx *fiber.Ctx
}

func (c *fiberContext) Method() string { return c.ctx.Method() }
func (c *fiberContext) Path() string   { return c.ctx.Path() }

func (c *fiberContext) Param(name string, defaultValue ...string) string {
	return c.ctx.Params(name, defaultValue...)
}

func (c *fiberContext) Query(name string, defaultValue ...string) string {
	return c.ctx.Query(name, defaultValue...)
}

func (c *fiberContext) Status(code int) Context {
	c.ctx.Status(code)
	return c
}

func (c *fiberContext) Send(body []byte) error {
	return c.ctx.Send(body)
}

func (c *fiberContext) SendString(body string) error {
	return c.ctx.SendString(body)
}

func (c *fiberContext) JSON(code int, v any) error {
	return c.ctx.Status(code).JSON(v)
}

func (c *fiberContext) Next() error {
	return c.ctx.Next()
}
