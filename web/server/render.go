package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/golang/glog"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/scifi6546/ray-tracing-sub001/pkg/renderer"
)

var renderIDs atomic.Uint64

// SessionEvent is the first event of a render stream. RenderID addresses
// the render in /api/swap.
type SessionEvent struct {
	RenderID    string `json:"renderId"`
	Scene       string `json:"scene"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	TotalPasses int    `json:"totalPasses"`
}

// TileUpdate represents a single tile update sent via SSE
type TileUpdate struct {
	TileX       int    `json:"tileX"`
	TileY       int    `json:"tileY"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG of just this tile
	PassNumber  int    `json:"passNumber"`
	TileNumber  int    `json:"tileNumber"`  // Current tile number in this pass (1-based)
	TotalTiles  int    `json:"totalTiles"`  // Total number of tiles in the image
	TotalPasses int    `json:"totalPasses"` // Total number of passes planned
}

// PassUpdate reports a finished pass
type PassUpdate struct {
	PassNumber      int     `json:"passNumber"`
	TotalPasses     int     `json:"totalPasses"`
	Generation      uint64  `json:"generation"`
	Scene           string  `json:"scene"`
	ElapsedMs       int64   `json:"elapsedMs"`
	TotalPixels     int     `json:"totalPixels"`
	TotalSamples    int     `json:"totalSamples"`
	AverageSamples  float64 `json:"averageSamples"`
	MaxSamples      int     `json:"maxSamples"`
	MinSamples      int     `json:"minSamples"`
	MaxSamplesUsed  int     `json:"maxSamplesUsed"`
	RejectedSamples int     `json:"rejectedSamples"`
	ObjectCount     int     `json:"objectCount"`
	IsLast          bool    `json:"isLast"`
}

// sseEvent is one server-sent event; all events go through a single writer
type sseEvent struct {
	Type string // "session", "console", "tile", "passComplete", "error", "complete"
	Data string
}

// handleRender streams a progressive render of the requested scene. Passes
// and tiles are sent as they finish until the render completes or the
// client disconnects.
func (s *Server) handleRender(c echo.Context) error {
	tracer := otel.Tracer("ray-tracing/server")
	ctx := c.Request().Context()
	var span trace.Span
	ctx, span = tracer.Start(ctx, "Server.handleRender")
	defer span.End()

	req, err := parseRenderRequest(c.QueryParams())
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request: " + err.Error()})
	}
	span.SetAttributes(attribute.String("scene", req.Scene), attribute.Int("width", req.Width))

	_, world, err := buildWorld(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	width, height := world.CameraConfig.Width, world.CameraConfig.Height()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := c.Response()
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	events := make(chan sseEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		writeSSEEvents(ctx, w, events)
	}()

	renderID := fmt.Sprintf("render-%d", renderIDs.Add(1))
	consoleChan := make(chan ConsoleMessage, 50)
	consoleCtx, stopConsole := context.WithCancel(ctx)
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		streamConsoleMessages(consoleCtx, consoleChan, events)
	}()

	config := renderer.ProgressiveConfig{
		TileSize:           defaultTileSize,
		InitialSamples:     1,
		MaxSamplesPerPixel: world.SamplingConfig.SamplesPerPixel,
		MaxPasses:          min(req.MaxPasses, world.SamplingConfig.SamplesPerPixel),
		Seed:               req.Seed,
	}
	raytracer := renderer.NewProgressiveRaytracer(world, width, height, config, NewWebLogger(renderID, consoleChan))

	req.Width = width
	req.aspectRatio = world.CameraConfig.AspectRatio
	s.addSession(renderID, &renderSession{request: req, raytracer: raytracer})
	defer s.removeSession(renderID)

	sendJSON(ctx, events, "session", SessionEvent{
		RenderID:    renderID,
		Scene:       world.Name,
		Width:       width,
		Height:      height,
		TotalPasses: config.MaxPasses,
	})

	startTime := time.Now()
	passChan, tileChan, errChan := raytracer.RenderProgressive(ctx, renderer.RenderOptions{TileUpdates: true})
	renderErr := handleRenderingEvents(ctx, events, raytracer, passChan, tileChan, errChan, config.MaxPasses, startTime)

	stopConsole()
	<-consoleDone

	if renderErr != nil {
		span.RecordError(renderErr)
		span.SetStatus(codes.Error, renderErr.Error())
		glog.Warningf("%s: rendering %q failed: %v", renderID, req.Scene, renderErr)
		send(ctx, events, sseEvent{Type: "error", Data: fmt.Sprintf("Rendering failed: %v", renderErr)})
	} else {
		send(ctx, events, sseEvent{Type: "complete", Data: "Rendering completed"})
	}

	close(events)
	<-writerDone
	return nil
}

// handleRenderingEvents forwards passes and tiles until every render channel
// is closed. It returns the render's error, if any.
func handleRenderingEvents(ctx context.Context, events chan<- sseEvent, raytracer *renderer.ProgressiveRaytracer,
	passChan <-chan renderer.PassResult, tileChan <-chan renderer.TileCompletionResult, errChan <-chan error,
	totalPasses int, startTime time.Time) error {

	for passChan != nil || tileChan != nil || errChan != nil {
		select {
		case result, ok := <-passChan:
			if !ok {
				passChan = nil
				continue
			}
			world := raytracer.World()
			sendJSON(ctx, events, "passComplete", PassUpdate{
				PassNumber:      result.PassNumber,
				TotalPasses:     totalPasses,
				Generation:      result.Generation,
				Scene:           world.Name,
				ElapsedMs:       time.Since(startTime).Milliseconds(),
				TotalPixels:     result.Stats.TotalPixels,
				TotalSamples:    result.Stats.TotalSamples,
				AverageSamples:  result.Stats.AverageSamples,
				MaxSamples:      result.Stats.MaxSamples,
				MinSamples:      result.Stats.MinSamples,
				MaxSamplesUsed:  result.Stats.MaxSamplesUsed,
				RejectedSamples: result.Stats.RejectedSamples,
				ObjectCount:     world.Stats().TotalObjects,
				IsLast:          result.IsLast,
			})

		case tile, ok := <-tileChan:
			if !ok {
				tileChan = nil
				continue
			}
			imageData, err := imageToBase64PNG(tile.TileImage)
			if err != nil {
				glog.Errorf("Error encoding tile image (%d, %d): %v", tile.TileX, tile.TileY, err)
				continue
			}
			sendJSON(ctx, events, "tile", TileUpdate{
				TileX:       tile.TileX,
				TileY:       tile.TileY,
				ImageData:   imageData,
				PassNumber:  tile.PassNumber,
				TileNumber:  tile.TileNumber,
				TotalTiles:  tile.TotalTiles,
				TotalPasses: tile.TotalPasses,
			})

		case err, ok := <-errChan:
			if !ok {
				errChan = nil
				continue
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// writeSSEEvents writes events in order until events is closed or the
// client goes away
func writeSSEEvents(ctx context.Context, w *echo.Response, events <-chan sseEvent) {
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				return
			}
			w.Flush()

		case <-ctx.Done():
			return
		}
	}
}

// streamConsoleMessages forwards logger output as console events. Messages
// are dropped rather than delaying the render when the stream backs up.
func streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, events chan<- sseEvent) {
	for {
		select {
		case msg := <-consoleChan:
			data, err := json.Marshal(msg)
			if err != nil {
				glog.Errorf("Error marshaling console message: %v", err)
				continue
			}
			select {
			case events <- sseEvent{Type: "console", Data: string(data)}:
			default:
			}

		case <-ctx.Done():
			return
		}
	}
}

func sendJSON(ctx context.Context, events chan<- sseEvent, eventType string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		glog.Errorf("Error marshaling %s event: %v", eventType, err)
		return
	}
	send(ctx, events, sseEvent{Type: eventType, Data: string(data)})
}

func send(ctx context.Context, events chan<- sseEvent, event sseEvent) {
	select {
	case events <- event:
	case <-ctx.Done():
	}
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// SwapResponse reports the world a render switched to
type SwapResponse struct {
	RenderID   string `json:"renderId"`
	Scene      string `json:"scene"`
	Generation uint64 `json:"generation"`
}

// handleSwap replaces the world of a running render. The render restarts
// from its first pass; passes of the old world still in flight are dropped.
// A render that already published its last pass answers 409.
func (s *Server) handleSwap(c echo.Context) error {
	tracer := otel.Tracer("ray-tracing/server")
	var span trace.Span
	_, span = tracer.Start(c.Request().Context(), "Server.handleSwap")
	defer span.End()

	renderID := c.QueryParam("renderId")
	session := s.session(renderID)
	if session == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No active render: " + renderID})
	}

	req := session.request
	req.Scene = c.QueryParam("scene")
	if req.Scene == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing scene"})
	}
	if value := c.QueryParam("seed"); value != "" {
		seed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid seed: " + value})
		}
		req.Seed = seed
	}
	span.SetAttributes(attribute.String("render", renderID), attribute.String("scene", req.Scene))

	_, world, err := buildWorld(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := session.raytracer.SwapWorld(world); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, SwapResponse{
		RenderID:   renderID,
		Scene:      world.Name,
		Generation: session.raytracer.Generation(),
	})
}
