// Package server is the browser front end of the progressive raytracer. It
// streams passes and tiles over server-sent events and answers pixel
// inspection and live scene swap requests.
package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/golang/glog"
	"github.com/labstack/echo/v4"
	"golang.org/x/xerrors"

	"github.com/scifi6546/ray-tracing-sub001/pkg/renderer"
	"github.com/scifi6546/ray-tracing-sub001/pkg/scene"
)

// Request limits shared by parsing and /api/scene-config
const (
	minWidth, maxWidth          = 16, 2000
	minSamples, maxSamples      = 1, 10000
	minPasses, maxPasses        = 1, 10000
	minDepth, maxDepth          = 0, 500
	minRRBounces, maxRRBounces  = 0, 1000
	minAdaptiveMin, maxAdaptive = 0.0, 1.0
	minThreshold, maxThreshold  = 0.0, 0.5
	defaultScene                = "cornell"
	defaultPasses               = 7
	defaultRRMinBounces         = 5
	defaultAdaptiveMinSamples   = 0.15
	defaultAdaptiveThreshold    = 0.01
	defaultTileSize             = 64
)

// Server handles web requests for the progressive raytracer
type Server struct {
	port int
	echo *echo.Echo

	mu       sync.Mutex
	sessions map[string]*renderSession
}

// renderSession is a render in progress that /api/swap can target
type renderSession struct {
	request   RenderRequest
	raytracer *renderer.ProgressiveRaytracer
}

// NewServer creates a web server listening on port
func NewServer(port int) *Server {
	s := &Server{
		port:     port,
		sessions: make(map[string]*renderSession),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(corsMiddleware)
	e.Static("/", "static")

	e.GET("/api/health", s.handleHealth)
	e.GET("/api/scenes", s.handleScenes)
	e.GET("/api/scene-config", s.handleSceneConfig)
	e.GET("/api/render", s.handleRender)
	e.GET("/api/inspect", s.handleInspect)
	e.POST("/api/swap", s.handleSwap)

	s.echo = e
	return s
}

// Handler returns the server's routes
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	glog.Infof("Starting web server on http://localhost%s", addr)
	if err := s.echo.Start(addr); err != nil && !xerrors.Is(err, http.ErrServerClosed) {
		return xerrors.Errorf("while serving on %s: %w", addr, err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for active ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func corsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Access-Control-Allow-Origin", "*")
		return next(c)
	}
}

// RenderRequest holds the scene and sampling parameters of a request
type RenderRequest struct {
	Scene              string  `json:"scene"`
	Seed               int64   `json:"seed"`
	Width              int     `json:"width"` // 0 keeps the scene's width
	MaxSamples         int     `json:"maxSamples"`
	MaxPasses          int     `json:"maxPasses"`
	MaxDepth           int     `json:"maxDepth"` // 0 keeps the scene's depth
	RRMinBounces       int     `json:"rrMinBounces"`
	AdaptiveMinSamples float64 `json:"adaptiveMinSamples"`
	AdaptiveThreshold  float64 `json:"adaptiveThreshold"`

	// aspectRatio, when set, replaces the scene's aspect ratio so a swapped
	// world fits the running render's image
	aspectRatio float64
}

// parseSceneParams reads the parameters that select and size a world
func parseSceneParams(values url.Values, req *RenderRequest) error {
	req.Scene = values.Get("scene")
	if req.Scene == "" {
		req.Scene = defaultScene
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 0, minWidth, maxWidth); err != nil {
		return err
	}
	if value := values.Get("seed"); value != "" {
		if req.Seed, err = strconv.ParseInt(value, 10, 64); err != nil {
			return xerrors.Errorf("invalid seed: %s", value)
		}
	}
	return nil
}

// parseRenderRequest parses and validates /api/render parameters
func parseRenderRequest(values url.Values) (RenderRequest, error) {
	var req RenderRequest
	if err := parseSceneParams(values, &req); err != nil {
		return req, err
	}

	var err error
	if req.MaxSamples, err = parseIntParam(values, "maxSamples", 0, minSamples, maxSamples); err != nil {
		return req, err
	}
	if req.MaxPasses, err = parseIntParam(values, "maxPasses", defaultPasses, minPasses, maxPasses); err != nil {
		return req, err
	}
	if req.MaxDepth, err = parseIntParam(values, "maxDepth", 0, minDepth, maxDepth); err != nil {
		return req, err
	}
	if req.RRMinBounces, err = parseIntParam(values, "rrMinBounces", defaultRRMinBounces, minRRBounces, maxRRBounces); err != nil {
		return req, err
	}
	if req.AdaptiveMinSamples, err = parseFloatParam(values, "adaptiveMinSamples", defaultAdaptiveMinSamples, minAdaptiveMin, maxAdaptive); err != nil {
		return req, err
	}
	if req.AdaptiveThreshold, err = parseFloatParam(values, "adaptiveThreshold", defaultAdaptiveThreshold, minThreshold, maxThreshold); err != nil {
		return req, err
	}

	if req.Width > 800 && req.MaxSamples > 100 {
		glog.Warningf("Render warning: large image with high samples may render slowly")
	}
	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, xerrors.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, xerrors.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, xerrors.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, xerrors.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// buildWorld constructs req's scene with the request's overrides applied.
// The description is returned too so callers can walk its objects.
func buildWorld(req RenderRequest) (*scene.WorldInfo, *scene.World, error) {
	sc, err := scene.Lookup(req.Scene)
	if err != nil {
		return nil, nil, err
	}
	info, err := sc.Build(scene.Options{Seed: req.Seed})
	if err != nil {
		return nil, nil, xerrors.Errorf("while constructing scene %q: %w", req.Scene, err)
	}
	if info.Name == "" {
		info.Name = req.Scene
	}

	if req.Width > 0 {
		info.CameraConfig.Width = req.Width
	}
	if req.aspectRatio > 0 {
		info.CameraConfig.AspectRatio = req.aspectRatio
	}
	if req.MaxSamples > 0 {
		info.SamplingConfig.SamplesPerPixel = req.MaxSamples
	}
	if req.MaxDepth > 0 {
		info.SamplingConfig.MaxDepth = req.MaxDepth
	}
	info.SamplingConfig.RussianRouletteMinBounces = req.RRMinBounces
	info.SamplingConfig.AdaptiveMinSamples = req.AdaptiveMinSamples
	info.SamplingConfig.AdaptiveThreshold = req.AdaptiveThreshold

	world, err := info.BuildWorld()
	if err != nil {
		return nil, nil, err
	}
	return info, world, nil
}

func (s *Server) addSession(id string, session *renderSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = session
}

func (s *Server) removeSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *Server) session(id string) *renderSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id]
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes by group
func (s *Server) handleScenes(c echo.Context) error {
	return c.JSON(http.StatusOK, scene.ListAllScenes())
}

// handleSceneConfig returns a scene's default settings and the request limits
func (s *Server) handleSceneConfig(c echo.Context) error {
	sceneName := c.QueryParam("scene")
	if sceneName == "" {
		sceneName = defaultScene
	}

	sc, err := scene.Lookup(sceneName)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	info, err := sc.Build(scene.Options{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	config := info.SamplingConfig
	if config.SamplesPerPixel <= 0 {
		config.SamplesPerPixel = scene.DefaultSamplingConfig.SamplesPerPixel
	}
	if config.MaxDepth <= 0 {
		config.MaxDepth = scene.DefaultSamplingConfig.MaxDepth
	}

	type intRange struct {
		Min int `json:"min"`
		Max int `json:"max"`
	}
	type floatRange struct {
		Min float64 `json:"min"`
		Max float64 `json:"max"`
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"scene": sceneName,
		"defaults": map[string]interface{}{
			"width":              info.CameraConfig.Width,
			"height":             info.CameraConfig.Height(),
			"samplesPerPixel":    config.SamplesPerPixel,
			"maxDepth":           config.MaxDepth,
			"maxPasses":          defaultPasses,
			"rrMinBounces":       defaultRRMinBounces,
			"adaptiveMinSamples": defaultAdaptiveMinSamples,
			"adaptiveThreshold":  defaultAdaptiveThreshold,
		},
		"limits": map[string]interface{}{
			"width":              intRange{minWidth, maxWidth},
			"maxSamples":         intRange{minSamples, maxSamples},
			"maxPasses":          intRange{minPasses, maxPasses},
			"maxDepth":           intRange{minDepth, maxDepth},
			"rrMinBounces":       intRange{minRRBounces, maxRRBounces},
			"adaptiveMinSamples": floatRange{minAdaptiveMin, maxAdaptive},
			"adaptiveThreshold":  floatRange{minThreshold, maxThreshold},
		},
	})
}
