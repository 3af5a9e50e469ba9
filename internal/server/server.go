// Package server assembles the viewer HTTP server: REST API, SSE handlers
// and the viewer page.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"github.com/joeblew999/plat-viewer/internal/api"
	"github.com/joeblew999/plat-viewer/internal/api/ui"
	"github.com/joeblew999/plat-viewer/internal/camera"
	"github.com/joeblew999/plat-viewer/internal/geocode"
	"github.com/joeblew999/plat-viewer/internal/viewer"
	"github.com/joeblew999/plat-viewer/internal/web"
)

// Config holds the server configuration.
type Config struct {
	Host      string
	Port      string
	StyleURL  string // vector style endpoint; empty means raster fallback
	SearchURL string // Nominatim-style search endpoint
	Places    string // local places file for offline search (CSV/Parquet)
}

// Server is the viewer HTTP server.
type Server struct {
	config  Config
	mux     *http.ServeMux
	humaAPI huma.API
	viewer  *viewer.Viewer
	index   *geocode.DuckIndex
}

// New creates a viewer server. Call Start to load the style and begin the
// navigation tick loop.
func New(cfg Config) (*Server, error) {
	mux := http.NewServeMux()

	humaConfig := huma.DefaultConfig("plat-viewer API", "1.0.0")
	humaConfig.Info.Description = "Interactive map viewer: style theming, place search, camera control and capture."
	humaConfig.Servers = []*huma.Server{
		{URL: fmt.Sprintf("http://%s:%s", cfg.Host, cfg.Port), Description: "Local server"},
	}
	humaConfig.CreateHooks = []func(huma.Config) huma.Config{}

	humaAPI := humago.New(mux, humaConfig)

	s := &Server{config: cfg, mux: mux, humaAPI: humaAPI}

	searcher, err := s.buildSearcher()
	if err != nil {
		return nil, err
	}

	s.viewer = viewer.New(viewer.Config{
		StyleURL: cfg.StyleURL,
		Searcher: searcher,
	})

	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("building renderer: %w", err)
	}

	s.routes(searcher, renderer)
	return s, nil
}

// buildSearcher picks the search backend: the remote endpoint when
// configured, otherwise the offline DuckDB index when a places file is
// given, otherwise none.
func (s *Server) buildSearcher() (geocode.Searcher, error) {
	if s.config.SearchURL != "" {
		return geocode.NewClient(s.config.SearchURL, nil), nil
	}
	if s.config.Places != "" {
		index, err := geocode.NewDuckIndex(s.config.Places)
		if err != nil {
			return nil, fmt.Errorf("building place index: %w", err)
		}
		s.index = index
		return index, nil
	}
	log.Printf("no search backend configured, search disabled")
	return nil, nil
}

func (s *Server) routes(searcher geocode.Searcher, renderer *web.Renderer) {
	api.NewHandler(s.viewer, searcher).RegisterRoutes(s.humaAPI)

	surface, _ := s.viewer.Surface.(*camera.RemoteSurface)
	ui.NewSearchHandler(s.viewer, renderer).RegisterRoutes(s.humaAPI)
	ui.NewCameraHandler(s.viewer, surface).RegisterRoutes(s.humaAPI)
	ui.NewPaletteHandler(s.viewer, renderer).RegisterRoutes(s.humaAPI)
	ui.NewEventHandler(s.viewer, renderer).RegisterRoutes(s.humaAPI)

	s.mux.Handle("/viewer", web.PageHandler())
	s.mux.HandleFunc("/", s.handleRoot)
}

// Start loads the vector style (degrading to the raster fallback on
// failure) and begins the navigation tick loop.
func (s *Server) Start(ctx context.Context) {
	s.viewer.LoadStyle(ctx)
	s.viewer.StartTicks()
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Close stops the tick loop and releases the offline index.
func (s *Server) Close() error {
	s.viewer.StopTicks()
	if s.index != nil {
		return s.index.Close()
	}
	return nil
}

// OpenAPI returns the API description for spec export.
func (s *Server) OpenAPI() *huma.OpenAPI {
	return s.humaAPI.OpenAPI()
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/viewer", http.StatusFound)
}
