// web serves the progressive raytracer to a browser.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/golang/glog"

	"github.com/scifi6546/ray-tracing-sub001/pkg/renderer"
	"github.com/scifi6546/ray-tracing-sub001/web/server"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	flag.Parse()
	defer glog.Flush()

	if err := renderer.RegisterViews(); err != nil {
		glog.Warningf("Metrics disabled: %v", err)
	}

	webServer := server.NewServer(*port)
	glog.Infof("Progressive Raytracer Web Server")
	glog.Infof("Visit http://localhost:%d to start rendering", *port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		errc <- webServer.Start()
	}()

	select {
	case err := <-errc:
		if err != nil {
			glog.Exitf("Error starting server: %v", err)
		}
	case <-ctx.Done():
		glog.Infof("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := webServer.Shutdown(shutdownCtx); err != nil {
			glog.Errorf("Shutdown: %v", err)
		}
	}
}
