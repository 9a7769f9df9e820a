package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/weft-dev/weft/internal/config"
	"github.com/weft-dev/weft/pkg/render"
)

func renderCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the page to static HTML",
		Long: `Render the demo page to plain HTML, as the live server
would serve it before hydration.

Examples:
  weft render
  weft render --out=index.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromWorkingDir()
			if err != nil {
				return err
			}
			tree := demoApp()
			tree.SetAttribute("id", cfg.Server.MountID)
			r := render.New(render.WithLiveEndpoint(cfg.Server.LivePath))
			page := render.Page{Title: cfg.Server.Title, Body: tree}
			if out == "" {
				return r.RenderPage(os.Stdout, page)
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()
			return r.RenderPage(f, page)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")

	return cmd
}
