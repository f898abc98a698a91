package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/matt-g-everett/ledmod/action"
	"github.com/matt-g-everett/ledmod/stream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Response is the envelope for every JSON reply.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ViewResponse is a view's presentation state.
type ViewResponse struct {
	Name   string       `json:"name"`
	Hidden bool         `json:"hidden"`
	Alpha  float64      `json:"alpha"`
	Center stream.Point `json:"center"`
	Size   stream.Point `json:"size"`
	Scale  stream.Point `json:"scale"`
	Colour string       `json:"colour"`
}

// PlayResponse describes an animation that was started.
type PlayResponse struct {
	View       string `json:"view"`
	Duration   string `json:"duration"`
	DurationMs int64  `json:"durationMs"`
}

// Api serves the HTTP control surface.
type Api struct {
	engine   *stream.Engine
	player   *stream.Player
	gatherer prometheus.Gatherer
	static   string
	logger   *slog.Logger
}

// NewApi creates an Api. static is the directory of the web client; empty
// disables it.
func NewApi(engine *stream.Engine, player *stream.Player, gatherer prometheus.Gatherer,
	static string, logger *slog.Logger) *Api {

	a := new(Api)
	a.engine = engine
	a.player = player
	a.gatherer = gatherer
	a.static = static
	a.logger = logger
	return a
}

// Handler builds the router.
func (a *Api) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Length", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	if a.static != "" {
		r.Static("/ui", a.static)
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{})))

	views := r.Group("/views")
	{
		views.GET("", a.handleGetViews)
		views.GET("/:name", a.handleGetView)
		views.POST("/:name/play", a.handlePlay)
	}
	return r
}

func (a *Api) viewResponse(l stream.Layer) ViewResponse {
	return ViewResponse{
		Name:   l.Name,
		Hidden: l.State.Hidden,
		Alpha:  l.State.Alpha,
		Center: l.State.Center,
		Size:   l.State.Size,
		Scale:  l.State.Scale,
		Colour: l.State.Colour.Clamped().Hex(),
	}
}

func (a *Api) handleGetViews(c *gin.Context) {
	layers := a.engine.Layers()
	views := make([]ViewResponse, 0, len(layers))
	for _, l := range layers {
		views = append(views, a.viewResponse(l))
	}
	c.JSON(http.StatusOK, Response{Status: "success", Data: views})
}

func (a *Api) handleGetView(c *gin.Context) {
	name := c.Param("name")
	v, ok := a.engine.View(name)
	if !ok {
		c.JSON(http.StatusNotFound, Response{Status: "error", Error: "view " + name + " does not exist"})
		return
	}

	l := stream.Layer{Name: v.Name(), State: a.engine.Presentation(v)}
	c.JSON(http.StatusOK, Response{Status: "success", Data: a.viewResponse(l)})
}

func (a *Api) handlePlay(c *gin.Context) {
	name := c.Param("name")
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Status: "error", Error: err.Error()})
		return
	}

	act, err := action.DecodeAction(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Status: "error", Error: err.Error()})
		return
	}

	m, err := a.player.Play(action.Document{View: name, Action: act})
	if errors.Is(err, stream.ErrUnknownView) {
		c.JSON(http.StatusNotFound, Response{Status: "error", Error: err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Status: "error", Error: err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, Response{Status: "success", Data: PlayResponse{
		View:       name,
		Duration:   m.Duration().String(),
		DurationMs: m.Duration().Milliseconds(),
	}})
}

// Serve listens on addr until ctx is done.
func (a *Api) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: a.Handler()}

	errc := make(chan error, 1)
	go func() {
		a.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
