package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/similicana/pkg/card"
	"github.com/papercomputeco/similicana/pkg/render"
)

//go:embed web/templates/*.tmpl web/static/*
var webFS embed.FS

// pageTemplates adds the page templates to the render fragments.
func pageTemplates() (*template.Template, error) {
	t, err := render.Templates()
	if err != nil {
		return nil, err
	}
	t, err = t.ParseFS(webFS, "web/templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing page templates: %w", err)
	}
	return t, nil
}

type slider struct {
	Factor  card.Factor
	Label   string
	Value   int
	Default int
}

type pageData struct {
	Page        render.Page
	Title       string
	Card        string
	ResultCount int
	DebounceMS  int64
	PollMS      int64
	Sliders     []slider
}

var pageTitles = map[render.Page]string{
	render.PageSingle: "Find Similar Cards",
	render.PageBatch:  "Batch Search",
	render.PageDeck:   "Deck Builder",
}

// handlePage renders one of the three pages. On the single-card page a
// card query parameter is searched as soon as the backend is ready.
func (s *Server) handlePage(page render.Page) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data := pageData{
			Page:        page,
			Title:       pageTitles[page],
			ResultCount: s.config.ResultCount,
			DebounceMS:  s.config.Debounce.Milliseconds(),
			PollMS:      s.config.PollInterval.Milliseconds(),
			Sliders:     sliderValues(s.currentWeights()),
		}
		if page == render.PageSingle {
			data.Card = c.Query("card")
		}

		var buf bytes.Buffer
		if err := s.templates.ExecuteTemplate(&buf, "page", data); err != nil {
			s.logger.Error("failed to render page", "page", string(page), "error", err)
			return c.Status(fiber.StatusInternalServerError).SendString("failed to render page")
		}
		c.Type("html", "utf-8")
		return c.Send(buf.Bytes())
	}
}
