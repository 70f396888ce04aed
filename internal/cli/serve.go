package cli

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/indexforge/pkg/catalog"
	pkgio "github.com/matzehuels/indexforge/pkg/io"
	"github.com/matzehuels/indexforge/pkg/registry"
	"github.com/matzehuels/indexforge/pkg/render"
)

// serveCommand creates the serve command exposing a read-only HTTP view of
// the registry.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr        string
		profilePath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the registry and plan visualisations over HTTP",
		Long: `Serve the registry and plan visualisations over HTTP.

Endpoints:
  GET /healthz                 liveness probe
  GET /registry.json           registry snapshot
  GET /registry.dot            recipe graph in DOT format
  GET /registry.svg            recipe graph rendered as SVG
  GET /plan.json?target=X      plan for the given target(s)
  GET /plan.svg?target=X       recipe graph with the plan highlighted`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(addr, profilePath)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8692", "listen address")
	cmd.Flags().StringVarP(&profilePath, "profile", "p", "", "TOML build profile supplying provided inputs")

	return cmd
}

func (c *CLI) runServe(addr, profilePath string) error {
	reg, err := catalog.New(catalog.NewExecToolchain("", catalog.Params{}, c.Logger))
	if err != nil {
		return err
	}
	if profilePath != "" {
		profile, err := loadProfile(profilePath)
		if err != nil {
			return err
		}
		for identifier, filenames := range profile.Provide {
			if err := reg.Provide(identifier, filenames...); err != nil {
				return err
			}
		}
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(30 * time.Second))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	router.Get("/registry.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := pkgio.WriteJSON(reg, w); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	router.Get("/registry.dot", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		fmt.Fprint(w, render.ToDOT(reg))
	})

	router.Get("/registry.svg", func(w http.ResponseWriter, _ *http.Request) {
		writeSVG(w, render.ToDOT(reg))
	})

	router.Get("/plan.json", func(w http.ResponseWriter, r *http.Request) {
		targets := r.URL.Query()["target"]
		if len(targets) == 0 {
			http.Error(w, "at least one target query parameter is required", http.StatusBadRequest)
			return
		}
		plan, err := reg.MakePlan(targets)
		if err != nil {
			var insufficient *registry.InsufficientInputError
			if errors.As(err, &insufficient) {
				http.Error(w, insufficient.Error(), http.StatusUnprocessableEntity)
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := pkgio.WritePlanJSON(targets, plan, w); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	router.Get("/plan.svg", func(w http.ResponseWriter, r *http.Request) {
		targets := r.URL.Query()["target"]
		if len(targets) == 0 {
			http.Error(w, "at least one target query parameter is required", http.StatusBadRequest)
			return
		}
		writeSVG(w, render.ToDOTWithTargets(reg, targets))
	})

	c.Logger.Info("serving registry", "addr", addr)
	return http.ListenAndServe(addr, router)
}

func writeSVG(w http.ResponseWriter, dot string) {
	svg, err := render.RenderSVG(dot)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}
