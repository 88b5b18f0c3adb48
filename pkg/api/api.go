// Package api exposes a registry of named buffers over HTTP.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"clz-go/pkg/json"
	"clz-go/pkg/log"
	"clz-go/pkg/ops"
	"clz-go/pkg/registry"
	"clz-go/pkg/store"
	"clz-go/pkg/strbuf"
)

var ErrNoStore = errors.New("api: snapshots are not configured")

type Server struct {
	Api      *echo.Echo
	Registry *registry.Registry
	Store    *store.Store // optional
}

// BufferState is the JSON view of a buffer.
type BufferState struct {
	Name     string `json:"name"`
	Content  string `json:"content"`
	Length   int    `json:"length"`
	Capacity int    `json:"capacity"`
}

type createRequest struct {
	Init        string `json:"init"`
	MinCapacity int    `json:"min_capacity"`
}

type opsResponse struct {
	Results []ops.Result `json:"results"`
	Error   string       `json:"error,omitempty"`
}

func New(reg *registry.Registry, st *store.Store) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}
	e.HTTPErrorHandler = errorHandler(e)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info().Str("method", v.Method).Str("uri", v.URI).Int("status", v.Status).Msg("request")
			return nil
		},
	}))

	s := &Server{Api: e, Registry: reg, Store: st}
	e.GET("/buffers", s.listBuffers)
	e.DELETE("/buffers", s.sweepBuffers)
	e.POST("/buffers/:name", s.createBuffer)
	e.GET("/buffers/:name", s.getBuffer)
	e.DELETE("/buffers/:name", s.deleteBuffer)
	e.POST("/buffers/:name/ops", s.applyOps)
	e.POST("/buffers/:name/snapshot", s.snapshot)
	e.POST("/buffers/:name/restore", s.restore)
	return s
}

func (s *Server) Start(addr string) error {
	log.Printf("api listening on %s", addr)
	err := s.Api.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Api.Shutdown(ctx)
}

func (s *Server) listBuffers(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{"buffers": s.Registry.Names()})
}

// sweepBuffers releases buffers whose name starts with ?prefix=, limited to
// empty ones when ?empty=true.
func (s *Server) sweepBuffers(c echo.Context) error {
	prefix := c.QueryParam("prefix")
	emptyOnly := c.QueryParam("empty") == "true"
	n := s.Registry.Sweep(func(name string, b *strbuf.Buffer) bool {
		return strings.HasPrefix(name, prefix) && (!emptyOnly || b.Len() == 0)
	})
	return c.JSON(http.StatusOK, map[string]int{"released": n})
}

func (s *Server) createBuffer(c echo.Context) error {
	var req createRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return err
		}
	}
	name := c.Param("name")
	if err := s.Registry.Create(name, req.Init, req.MinCapacity); err != nil {
		return err
	}
	return s.respondState(c, http.StatusCreated, name)
}

func (s *Server) getBuffer(c echo.Context) error {
	return s.respondState(c, http.StatusOK, c.Param("name"))
}

func (s *Server) deleteBuffer(c echo.Context) error {
	if err := s.Registry.Delete(c.Param("name")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) applyOps(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return err
	}
	list, err := ops.Parse(body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	var results []ops.Result
	var opErr error
	err = s.Registry.With(c.Param("name"), func(b *strbuf.Buffer) error {
		results, opErr = ops.ApplyAll(b, list)
		return nil
	})
	if err != nil {
		return err
	}
	if opErr != nil {
		log.Warn().Str("buffer", c.Param("name")).Err(opErr).Msg("op failed")
		return c.JSON(statusOf(opErr), opsResponse{Results: results, Error: opErr.Error()})
	}
	return c.JSON(http.StatusOK, opsResponse{Results: results})
}

func (s *Server) snapshot(c echo.Context) error {
	if s.Store == nil {
		return ErrNoStore
	}
	name := c.Param("name")
	err := s.Registry.With(name, func(b *strbuf.Buffer) error {
		return s.Store.Save(name, b)
	})
	if err != nil {
		return err
	}
	return s.respondState(c, http.StatusOK, name)
}

func (s *Server) restore(c echo.Context) error {
	if s.Store == nil {
		return ErrNoStore
	}
	name := c.Param("name")
	b, err := s.Store.Load(name, s.Registry.Options()...)
	if err != nil {
		return err
	}
	if err := s.Registry.Put(name, b); err != nil {
		b.Release()
		return err
	}
	return s.respondState(c, http.StatusOK, name)
}

func (s *Server) respondState(c echo.Context, code int, name string) error {
	var st BufferState
	err := s.Registry.With(name, func(b *strbuf.Buffer) error {
		st = BufferState{Name: name, Content: b.String(), Length: b.Len(), Capacity: b.Cap()}
		return nil
	})
	if err != nil {
		return err
	}
	return c.JSON(code, st)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, registry.ErrNotFound), errors.Is(err, store.ErrNoSnapshot):
		return http.StatusNotFound
	case errors.Is(err, registry.ErrExists):
		return http.StatusConflict
	case errors.Is(err, strbuf.ErrAllocationFailed):
		return http.StatusInsufficientStorage
	case errors.Is(err, strbuf.ErrNotFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNoStore):
		return http.StatusNotImplemented
	case errors.Is(err, strbuf.ErrOutOfBounds), errors.Is(err, strbuf.ErrTooSmall),
		errors.Is(err, strbuf.ErrInvalidArgument), errors.Is(err, registry.ErrBadName),
		errors.Is(err, ops.ErrUnknownOp), errors.Is(err, ops.ErrBadByte), errors.Is(err, ops.ErrBadInt):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func errorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var he *echo.HTTPError
		if !errors.As(err, &he) {
			he = echo.NewHTTPError(statusOf(err), err.Error())
		}
		e.DefaultHTTPErrorHandler(he, c)
	}
}

// jsonSerializer routes echo's JSON through pkg/json.
type jsonSerializer struct{}

func (jsonSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	encode := json.Encode
	if indent != "" {
		encode = json.EncodeIndent
	}
	data, err := encode(i)
	if err != nil {
		return err
	}
	_, err = c.Response().Write(data)
	return err
}

func (jsonSerializer) Deserialize(c echo.Context, i interface{}) error {
	data, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return err
	}
	if err := json.Decode(data, i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	return nil
}
