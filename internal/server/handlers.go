package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/firefly/internal/cli/output"
	"github.com/leapstack-labs/firefly/internal/project"
	"github.com/leapstack-labs/firefly/internal/render"
	"github.com/leapstack-labs/firefly/pkg/core"
)

// reloadScript refreshes the page when the server announces a reload.
const reloadScript = `<script>
new EventSource("/events").addEventListener("datastar-patch-elements", function () { window.location.reload(); });
</script>`

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/", s.handleIndex)
	r.Get("/dashboards/{name}", s.handleMarkup(core.KindDashboard))
	r.Get("/charts/{name}", s.handleMarkup(core.KindChart))
	r.Get("/datasets/{name}", s.handleDataset)
	r.Get("/events", s.handleEvents)

	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var names map[string][]string
	_ = s.withProject(func(p *project.Project) error {
		names = p.List()
		return nil
	})

	body, err := render.ToMarkup(r.Context(), indexBody(names))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writePage(w, r, "Firefly", body)
}

// handleMarkup serves a rendered chart or dashboard as a full page.
func (s *Server) handleMarkup(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")

		var m core.Markup
		err := s.withProject(func(p *project.Project) error {
			var err error
			if kind == core.KindDashboard {
				m, err = p.ShowDashboard(r.Context(), name)
			} else {
				m, err = p.ShowChart(r.Context(), name)
			}
			return err
		})
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writePage(w, r, name, m)
	}
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var t *core.Table
	err := s.withProject(func(p *project.Project) error {
		var err error
		t, err = p.ShowDataset(r.Context(), name)
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(output.DatasetOutput{
		Name:     name,
		Columns:  t.Columns,
		Rows:     t.Records(),
		RowCount: t.Len(),
	})
}

// handleEvents holds an SSE stream open and pushes a reload on every
// successful document reload.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	ch := s.notifier.subscribe()
	defer s.notifier.unsubscribe(ch)

	sse := datastar.NewSSE(w, r)
	for {
		select {
		case <-ch:
			if err := sse.ExecuteScript("window.location.reload()"); err != nil {
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, title string, body core.Markup) {
	if s.watch {
		body += core.Markup("\n" + reloadScript)
	}
	page, err := render.Document(r.Context(), title, body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, page)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var nf *core.NotFoundError
	if errors.As(err, &nf) {
		status = http.StatusNotFound
	} else {
		s.logger.Error("request failed", "error", err)
	}
	http.Error(w, err.Error(), status)
}

// indexBody links every chart, dashboard and dataset.
func indexBody(names map[string][]string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<h1>Firefly</h1>\n")
		for _, section := range []string{project.SectionDashboards, project.SectionCharts, project.SectionDatasets} {
			b.WriteString("<h2>" + section + "</h2>\n<ul>\n")
			for _, name := range names[section] {
				href := "/" + section + "/" + templ.EscapeString(url.PathEscape(name))
				b.WriteString("<li><a href=\"" + href + "\">" + templ.EscapeString(name) + "</a></li>\n")
			}
			b.WriteString("</ul>\n")
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
}
