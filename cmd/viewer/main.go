package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/joeblew999/plat-viewer/internal/palette"
	"github.com/joeblew999/plat-viewer/internal/server"
	"github.com/joeblew999/plat-viewer/internal/style"
)

// Options defines all CLI flags and env vars for the viewer server.
// Flags: --host, --port, --style-url, --search-url, --places
// Env vars: SERVICE_HOST, SERVICE_PORT, SERVICE_STYLE_URL, SERVICE_SEARCH_URL, SERVICE_PLACES
type Options struct {
	Host      string `doc:"Host to bind to" default:"0.0.0.0"`
	Port      int    `doc:"Port to listen on" short:"p" default:"8087"`
	StyleURL  string `doc:"Vector style document URL" default:""`
	SearchURL string `doc:"Place search endpoint (Nominatim-compatible)" default:"https://nominatim.openstreetmap.org/search"`
	Places    string `doc:"Local places file (CSV/Parquet) for offline search" default:""`
}

func newServer(opts *Options) (*server.Server, error) {
	return server.New(server.Config{
		Host:      opts.Host,
		Port:      fmt.Sprintf("%d", opts.Port),
		StyleURL:  opts.StyleURL,
		SearchURL: opts.SearchURL,
		Places:    opts.Places,
	})
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		srv, err := newServer(opts)
		if err != nil {
			log.Fatalf("Server setup error: %v", err)
		}

		hooks.OnStart(func() {
			addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
			displayHost := opts.Host
			if displayHost == "0.0.0.0" {
				displayHost = "localhost"
			}
			baseURL := fmt.Sprintf("http://%s:%d", displayHost, opts.Port)

			srv.Start(context.Background())

			fmt.Println()
			fmt.Printf("plat-viewer server starting...\n")
			fmt.Printf("  Server:  %s\n", baseURL)
			fmt.Println()
			fmt.Printf("  Viewer:  %s/viewer\n", baseURL)
			fmt.Printf("  Docs:    %s/docs\n", baseURL)
			fmt.Printf("  OpenAPI: %s/openapi.json\n", baseURL)
			fmt.Println()

			if err := http.ListenAndServe(addr, srv); err != nil {
				log.Fatalf("Server error: %v", err)
			}
		})
		hooks.OnStop(func() {
			srv.Close()
		})
	})

	cli.Root().Use = "viewer"
	cli.Root().Short = "Interactive map viewer with style theming and place search"
	cli.Root().Version = "0.1.0"

	// spec subcommand: export OpenAPI spec
	specCmd := &cobra.Command{
		Use:   "spec",
		Short: "Export OpenAPI spec (JSON by default, --yaml for YAML)",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			srv, err := newServer(opts)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error building server: %v\n", err)
				os.Exit(1)
			}
			spec := srv.OpenAPI()

			useYAML, _ := cmd.Flags().GetBool("yaml")

			var output []byte
			if useYAML {
				output, err = yaml.Marshal(spec)
			} else {
				output, err = json.MarshalIndent(spec, "", "  ")
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error marshaling spec: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(output))
		}),
	}
	specCmd.Flags().BoolP("yaml", "y", false, "Output as YAML instead of JSON")
	cli.Root().AddCommand(specCmd)

	// theme subcommand: apply a palette to a style document offline
	themeCmd := &cobra.Command{
		Use:   "theme",
		Short: "Recolor a style document with a palette file",
		RunE: func(cmd *cobra.Command, args []string) error {
			stylePath, _ := cmd.Flags().GetString("style")
			palettePath, _ := cmd.Flags().GetString("palette")
			outPath, _ := cmd.Flags().GetString("output")

			data, err := os.ReadFile(stylePath)
			if err != nil {
				return fmt.Errorf("reading style: %w", err)
			}
			doc, err := style.Parse(data)
			if err != nil {
				return err
			}

			pal := palette.NewStore()
			if palettePath != "" {
				pal, err = palette.LoadFile(palettePath)
				if err != nil {
					return err
				}
			}

			themed := style.Theme(doc, pal)
			out, err := json.MarshalIndent(themed, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling themed style: %w", err)
			}

			if outPath == "" || outPath == "-" {
				fmt.Println(string(out))
				return nil
			}
			return os.WriteFile(outPath, out, 0644)
		},
	}
	themeCmd.Flags().StringP("style", "s", "", "Input style JSON file")
	themeCmd.Flags().StringP("palette", "c", "", "Palette YAML file (default palette if omitted)")
	themeCmd.Flags().StringP("output", "o", "-", "Output file, - for stdout")
	themeCmd.MarkFlagRequired("style")
	cli.Root().AddCommand(themeCmd)

	// palette subcommand: print the default palette as a YAML seed file
	paletteCmd := &cobra.Command{
		Use:   "palette",
		Short: "Print the default palette as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := palette.NewStore().EncodeYAML()
			if err != nil {
				return err
			}
			fmt.Print(string(out))
			return nil
		},
	}
	cli.Root().AddCommand(paletteCmd)

	cli.Run()
}
