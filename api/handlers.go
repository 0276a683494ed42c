package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/similicana/pkg/card"
	"github.com/papercomputeco/similicana/pkg/client"
	"github.com/papercomputeco/similicana/pkg/render"
	"github.com/papercomputeco/similicana/pkg/session"
	"github.com/papercomputeco/similicana/pkg/weights"
)

// ErrorResponse is the body of every failed relay request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WeightsResponse is the body of /update_weights.
type WeightsResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// handleStatus reports whether the backend has finished loading.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ready": s.ready.Load()})
}

// handleSearchCards relays typeahead lookups.
func (s *Server) handleSearchCards(c *fiber.Ctx) error {
	matches, err := s.backend.SearchCards(c.UserContext(), c.FormValue("search_term"))
	if err != nil {
		return s.fail(c, "", err)
	}
	return c.JSON(matches)
}

// handleFindSimilar renders the results fragment for one card.
func (s *Server) handleFindSimilar(c *fiber.Ctx) error {
	view := &fragmentView{}
	sess := s.newSession(formPage(c), s.resultCount(c))
	ctrl := session.NewSearchController(sess, s.backend, view, s.logger)

	result, err := ctrl.Search(c.UserContext(), c.FormValue("card_name"))
	if err != nil {
		return s.fail(c, view.alert, err)
	}
	return s.fragment(c, "results", result)
}

// handleFindSimilarBatch renders the batch fragment for a card list.
func (s *Server) handleFindSimilarBatch(c *fiber.Ctx) error {
	view := &fragmentView{}
	sess := s.newSession(render.PageBatch, s.resultCount(c))
	ctrl := session.NewBatchController(sess, s.backend, view, s.logger)

	result, err := ctrl.Submit(c.UserContext(), c.FormValue("cards"))
	if err != nil {
		return s.fail(c, view.alert, err)
	}
	return s.fragment(c, "batch", result)
}

// handleAnalyzeDeck renders the deck fragment for a decklist.
func (s *Server) handleAnalyzeDeck(c *fiber.Ctx) error {
	view := &fragmentView{}
	sess := s.newSession(render.PageDeck, s.config.ResultCount)
	ctrl := session.NewDeckController(sess, s.backend, view, s.logger)

	result, err := ctrl.Analyze(c.UserContext(), c.FormValue("decklist"), formBool(c.FormValue("ignoreCollection")))
	if err != nil {
		return s.fail(c, view.alert, err)
	}
	return s.fragment(c, "deck", result)
}

// handleUpdateWeights validates the posted vector and forwards it.
func (s *Server) handleUpdateWeights(c *fiber.Ctx) error {
	var body map[string]float64
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(WeightsResponse{Error: "weights must be a JSON object of numbers"})
	}

	vector := weights.FromMap(body)
	if err := vector.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(WeightsResponse{Error: err.Error()})
	}

	view := &fragmentView{}
	sess := s.newSession(render.PageSingle, s.config.ResultCount)
	sess.SetWeights(vector)
	ctrl := session.NewWeightsController(sess, s.backend, nil, view, s.logger)

	if _, err := ctrl.Apply(c.UserContext()); err != nil {
		msg := view.alert
		if msg == "" {
			msg = session.UserMessage(err)
		}
		return c.Status(statusFor(err)).JSON(WeightsResponse{Error: msg})
	}

	s.setWeights(ctrl.Vector())
	return c.JSON(WeightsResponse{Success: true})
}

// fragment renders the named template as an HTML response.
func (s *Server) fragment(c *fiber.Ctx, name string, data any) error {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("failed to render fragment", "fragment", name, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: session.MsgFetchFailed})
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// fail answers with the user facing message for err. alert is the message
// a controller already showed, if any.
func (s *Server) fail(c *fiber.Ctx, alert string, err error) error {
	msg := alert
	if msg == "" {
		msg = session.UserMessage(err)
		if msg == session.MsgFetchFailed {
			s.logger.Error("backend request failed", "path", c.Path(), "error", err)
		}
	}
	return c.Status(statusFor(err)).JSON(ErrorResponse{Error: msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNotReady):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, session.ErrNoCardName),
		errors.Is(err, session.ErrNoCards),
		errors.Is(err, session.ErrEmptyDecklist),
		errors.Is(err, weights.ErrInvalidWeights):
		return fiber.StatusBadRequest
	case client.IsAPIError(err):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, session.ErrSuperseded):
		return fiber.StatusConflict
	default:
		return fiber.StatusBadGateway
	}
}

// resultCount reads result_count from the form, falling back to the
// configured count.
func (s *Server) resultCount(c *fiber.Ctx) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.FormValue("result_count")))
	if err != nil || n <= 0 {
		return s.config.ResultCount
	}
	return n
}

func formPage(c *fiber.Ctx) render.Page {
	switch p := render.Page(c.FormValue("page")); p {
	case render.PageBatch, render.PageDeck:
		return p
	default:
		return render.PageSingle
	}
}

func formBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "on", "yes":
		return true
	default:
		return false
	}
}

// sliderValues returns the slider position of every factor, in display order.
func sliderValues(v weights.Vector) []slider {
	sliders := make([]slider, 0, len(card.Factors))
	state := weights.NewPanel(v).State()
	defaults := weights.NewPanel(weights.Defaults()).State()
	for _, f := range card.Factors {
		sliders = append(sliders, slider{
			Factor:  f,
			Label:   f.Label(),
			Value:   state.Sliders[f],
			Default: defaults.Sliders[f],
		})
	}
	return sliders
}
