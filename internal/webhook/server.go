// Package webhook receives DatoCMS webhook calls and forwards them to sinks.
package webhook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fivetwenty-io/dato-client/internal/constants"
	"github.com/fivetwenty-io/dato-client/pkg/dato"
)

// Static errors for err113 compliance.
var (
	ErrSinkFailed = errors.New("webhook sink failed")
)

const (
	deliveryIDKey    = "delivery_id"
	deliveryIDHeader = "X-Delivery-ID"
	shutdownTimeout  = 5 * time.Second
)

// Delivery is one received webhook call.
type Delivery struct {
	ID         string
	ReceivedAt time.Time
	Event      *dato.WebhookEvent
	// Body is the payload exactly as received.
	Body []byte
}

// Sink consumes deliveries.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, delivery *Delivery) error
	Close() error
}

// Config configures a Server.
type Config struct {
	Addr string
	Path string
	// Username and Password enable HTTP basic authentication when Username is set.
	Username string
	Password string
	// RequiredHeaders must all be present with the given values.
	RequiredHeaders map[string]string
	Logger          *zap.Logger
}

// Server is the webhook receiver.
type Server struct {
	config *Config
	router *gin.Engine
	sinks  []Sink
	log    *zap.Logger
}

// NewServer builds the receiver and its routes.
func NewServer(config *Config, sinks ...Sink) *Server {
	if config == nil {
		config = &Config{}
	}

	cfg := *config
	if cfg.Addr == "" {
		cfg.Addr = constants.DefaultWebhookAddr
	}

	if cfg.Path == "" {
		cfg.Path = constants.DefaultWebhookPath
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	server := &Server{
		config: &cfg,
		router: gin.New(),
		sinks:  sinks,
		log:    log.Named("webhook"),
	}

	server.routes()

	return server
}

func (s *Server) routes() {
	s.router.Use(gin.Recovery())
	s.router.Use(deliveryID())
	s.router.Use(accessLog(s.log))

	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sinks": len(s.sinks)})
	})

	handlers := []gin.HandlerFunc{}

	if s.config.Username != "" {
		handlers = append(handlers, gin.BasicAuthForRealm(gin.Accounts{s.config.Username: s.config.Password}, "datocms"))
	}

	if len(s.config.RequiredHeaders) > 0 {
		handlers = append(handlers, requireHeaders(s.config.RequiredHeaders))
	}

	handlers = append(handlers, s.receive)

	s.router.POST(s.config.Path, handlers...)
}

// Handler returns the HTTP handler of the receiver.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.config.Addr
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)

	go func() {
		s.log.Info("listening", zap.String("addr", s.config.Addr), zap.String("path", s.config.Path))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("serving webhooks on %s: %w", s.config.Addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	err := httpServer.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("shutting down webhook server: %w", err)
	}

	s.log.Info("server closed")

	return nil
}

// Close closes every sink.
func (s *Server) Close() error {
	var errs []error

	for _, sink := range s.sinks {
		err := sink.Close()
		if err != nil {
			errs = append(errs, fmt.Errorf("closing %s sink: %w", sink.Name(), err))
		}
	}

	return errors.Join(errs...)
}

func (s *Server) receive(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, constants.MaxWebhookBodyBytes))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})

		return
	}

	event, err := dato.ParseWebhookEvent(body)
	if err != nil {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	delivery := &Delivery{
		ID:         event.WebhookCallID,
		ReceivedAt: time.Now().UTC(),
		Event:      event,
		Body:       body,
	}

	if delivery.ID == "" {
		delivery.ID = c.GetString(deliveryIDKey)
	}

	c.Header(deliveryIDHeader, delivery.ID)

	var failed []string

	for _, sink := range s.sinks {
		err := sink.Deliver(c.Request.Context(), delivery)
		if err != nil {
			_ = c.Error(fmt.Errorf("%w: %s: %w", ErrSinkFailed, sink.Name(), err))
			failed = append(failed, sink.Name())
		}
	}

	if len(failed) > 0 {
		c.JSON(http.StatusBadGateway, gin.H{"delivery_id": delivery.ID, "failed_sinks": failed})

		return
	}

	c.JSON(http.StatusOK, gin.H{"delivery_id": delivery.ID})
}

// deliveryID attaches an id to every request, reusing X-Delivery-ID when sent.
func deliveryID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(deliveryIDHeader)
		if l := len(id); l < 1 || l > 64 {
			id = uuid.NewString()
		}

		c.Set(deliveryIDKey, id)
		c.Next()
	}
}

func requireHeaders(required map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for name, value := range required {
			if c.GetHeader(name) != value {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid header " + name})

				return
			}
		}

		c.Next()
	}
}

// accessLog records each request after it has been handled.
func accessLog(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String(deliveryIDKey, c.GetString(deliveryIDKey)),
		}

		if errs := c.Errors.Errors(); len(errs) > 0 {
			fields = append(fields, zap.Strings("errors", errs))
			log.Warn("request failed", fields...)

			return
		}

		log.Debug("request", fields...)
	}
}
