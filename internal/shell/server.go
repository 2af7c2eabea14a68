// Package shell serves the interactive forecasting page.
package shell

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sartorproj/indexcast/internal/forecast"
)

//go:embed templates/*.html
var templateFS embed.FS

const shutdownTimeout = 10 * time.Second

// Options controls the page defaults.
type Options struct {
	DefaultIndex   string
	DefaultHorizon int
	MaxHorizon     int
	HistoryPoints  int
}

func (o *Options) applyDefaults() {
	if o.DefaultIndex == "" {
		o.DefaultIndex = "NIFTY 50"
	}
	if o.MaxHorizon < forecast.MinHorizon || o.MaxHorizon > forecast.MaxHorizon {
		o.MaxHorizon = forecast.MaxHorizon
	}
	if o.DefaultHorizon < forecast.MinHorizon || o.DefaultHorizon > o.MaxHorizon {
		o.DefaultHorizon = forecast.DefaultHorizon
		if o.DefaultHorizon > o.MaxHorizon {
			o.DefaultHorizon = o.MaxHorizon
		}
	}
	if o.HistoryPoints <= 0 {
		o.HistoryPoints = forecast.HistoryPoints
	}
}

// Server serves HTTP requests for the forecasting shell.
type Server struct {
	session *Session
	opts    Options
	log     logrus.FieldLogger
	router  *gin.Engine
}

// NewServer creates a new HTTP server and sets up routing.
func NewServer(session *Session, opts Options, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	opts.applyDefaults()
	server := &Server{session: session, opts: opts, log: log}

	server.setupRouter()
	return server
}

func (server *Server) setupRouter() {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(server.log))
	router.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	router.GET("/", server.index)
	router.POST("/predict", server.predict)

	api := router.Group("/api")
	api.GET("/forecast", server.apiForecast)
	api.GET("/indexes", server.apiIndexes)

	router.GET("/healthz", server.healthz)
	server.router = router
}

// Start runs the HTTP server on a specific address until ctx is cancelled,
// then shuts it down gracefully.
func (server *Server) Start(ctx context.Context, address string) error {
	srv := &http.Server{Addr: address, Handler: server.router}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
		})
		if len(c.Errors) > 0 {
			entry.WithError(c.Errors.Last()).Warn("request failed")
			return
		}
		entry.Info("request")
	}
}

func errorResponse(err error) gin.H {
	return gin.H{"error": err.Error()}
}
