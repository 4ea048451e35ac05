package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/danmuck/callwire/internal/calls"
	"github.com/danmuck/callwire/internal/observability"
	"github.com/danmuck/callwire/internal/transport"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	EnvelopeContentType = "application/octet-stream"
	// FaultHeader names the fault class of an error envelope.
	FaultHeader = "X-Callwire-Fault"
)

// Registry is the part of *calls.Registry the HTTP surface needs.
type Registry interface {
	InvokeDetailed(request []byte) ([]byte, *calls.CallError)
	Descriptors() []calls.Descriptor
}

// Server exposes a registry over HTTP.
type Server struct {
	name            string
	registry        Registry
	maxPayloadBytes int64
	router          *gin.Engine
	logger          zerolog.Logger
	started         time.Time
}

type Config struct {
	Name            string
	CorsOrigins     []string
	MaxPayloadBytes int64
}

type functionView struct {
	Name      string   `json:"name"`
	Params    []string `json:"params"`
	Result    string   `json:"result"`
	Signature string   `json:"signature"`
}

func New(registry Registry, cfg Config) *Server {
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(cfg.CorsOrigins),
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	if cfg.MaxPayloadBytes <= 0 {
		cfg.MaxPayloadBytes = 8 * 1024 * 1024
	}
	s := &Server{
		name:            cfg.Name,
		registry:        registry,
		maxPayloadBytes: cfg.MaxPayloadBytes,
		router:          r,
		logger:          log.Logger.With().Str("component", "server.http").Logger(),
		started:         time.Now(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve runs the HTTP server on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	s.logger.Info().Str("addr", ln.Addr().String()).Msg("listening")
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"uptime":    time.Since(s.started).String(),
			"service":   s.name,
			"functions": len(s.registry.Descriptors()),
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/functions", func(c *gin.Context) {
		descs := s.registry.Descriptors()
		out := make([]functionView, 0, len(descs))
		for _, d := range descs {
			params := make([]string, len(d.Func.Params))
			for i, p := range d.Func.Params {
				params[i] = p.String()
			}
			out = append(out, functionView{
				Name:      d.Name,
				Params:    params,
				Result:    d.Func.Result.String(),
				Signature: d.Func.Signature(),
			})
		}
		c.JSON(http.StatusOK, gin.H{"functions": out})
	})

	// The status is 200 for every decodable call; failures travel in the
	// response envelope.
	s.router.POST("/invoke", func(c *gin.Context) {
		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, s.maxPayloadBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request too large"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		resp, callErr := transport.Dispatch(s.logger, "http", s.registry, body)
		if callErr != nil {
			c.Header(FaultHeader, callErr.Fault.String())
		}
		c.Data(http.StatusOK, EnvelopeContentType, resp)
	})
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"http://localhost:3000"}
	}
	return out
}
