package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/similicana/pkg/card"
	"github.com/papercomputeco/similicana/pkg/client"
	"github.com/papercomputeco/similicana/pkg/typeahead"
	"github.com/papercomputeco/similicana/pkg/utils"
)

const (
	defaultResultCount = 5
	maxTextLen         = 200
)

var (
	searchCardsToolName    = "search_cards"
	searchCardsDescription = "Search Disney Lorcana cards by name. Returns up to ten cards whose name contains the query, with the simple name to pass to find_similar_cards."

	findSimilarToolName    = "find_similar_cards"
	findSimilarDescription = "Find the Disney Lorcana cards most similar to a card. Returns the target card and the similar cards with their overall similarity and per-factor breakdown (ink cost, strength, willpower, lore, ability, mechanics, color, type, inkwell)."
)

// SearchCardsInput represents the input arguments for the search_cards tool.
type SearchCardsInput struct {
	Query string `json:"query" jsonschema:"part of a card name, at least two characters"`
}

// SearchCardsOutput represents the output of the search_cards tool.
type SearchCardsOutput struct {
	Query   string      `json:"query"`
	Matches []CardMatch `json:"matches"`
	Count   int         `json:"count"`
}

// CardMatch is one search_cards result.
type CardMatch struct {
	SimpleName string `json:"simple_name"`
	Name       string `json:"name"`
	ImageURL   string `json:"image_url,omitempty"`
}

// FindSimilarInput represents the input arguments for the find_similar_cards tool.
type FindSimilarInput struct {
	CardName    string `json:"card_name" jsonschema:"the card's simple name as returned by search_cards"`
	ResultCount int    `json:"result_count,omitempty" jsonschema:"number of similar cards to return (default: 5)"`
}

// FindSimilarOutput represents the output of the find_similar_cards tool.
type FindSimilarOutput struct {
	Target  CardSummary   `json:"target"`
	Similar []CardSummary `json:"similar"`
	Count   int           `json:"count"`
}

// CardSummary is a card as reported to agents.
type CardSummary struct {
	Name              string             `json:"name"`
	SimpleName        string             `json:"simple_name"`
	Color             string             `json:"color,omitempty"`
	Type              string             `json:"type,omitempty"`
	Cost              *int               `json:"cost,omitempty"`
	Strength          *int               `json:"strength,omitempty"`
	Willpower         *int               `json:"willpower,omitempty"`
	Lore              *int               `json:"lore,omitempty"`
	Text              string             `json:"text,omitempty"`
	Mechanics         []string           `json:"mechanics,omitempty"`
	OverallSimilarity float64            `json:"overall_similarity,omitempty"`
	Similarities      map[string]float64 `json:"similarities,omitempty"`
	PriceURL          string             `json:"price_url,omitempty"`
}

// handleSearchCards processes a search_cards request.
func (s *Server) handleSearchCards(ctx context.Context, _ *mcp.CallToolRequest, input SearchCardsInput) (*mcp.CallToolResult, SearchCardsOutput, error) {
	query := strings.TrimSpace(input.Query)
	if utf8.RuneCountInString(query) < typeahead.MinQueryLength {
		return errorResult(fmt.Sprintf("query must be at least %d characters", typeahead.MinQueryLength)), SearchCardsOutput{Matches: []CardMatch{}}, nil
	}

	s.config.Logger.Debug("MCP search_cards request", "query", query)

	matches, err := s.config.Backend.SearchCards(ctx, query)
	if err != nil {
		s.config.Logger.Error("failed to search cards", "error", err)
		return backendErrorResult("Card search failed", err), SearchCardsOutput{Matches: []CardMatch{}}, nil
	}

	output := SearchCardsOutput{
		Query:   query,
		Matches: make([]CardMatch, 0, len(matches)),
	}
	for _, m := range matches {
		output.Matches = append(output.Matches, CardMatch{SimpleName: m.SimpleName, Name: m.Name, ImageURL: m.ImageURL})
	}
	output.Count = len(output.Matches)

	return jsonResult(output)
}

// handleFindSimilar processes a find_similar_cards request.
func (s *Server) handleFindSimilar(ctx context.Context, _ *mcp.CallToolRequest, input FindSimilarInput) (*mcp.CallToolResult, FindSimilarOutput, error) {
	name := strings.TrimSpace(input.CardName)
	if name == "" {
		return errorResult("card_name is required"), FindSimilarOutput{Similar: []CardSummary{}}, nil
	}

	count := input.ResultCount
	if count <= 0 {
		count = s.config.ResultCount
	}

	s.config.Logger.Debug("MCP find_similar_cards request", "card", name, "result_count", count)

	resp, err := s.config.Backend.FindSimilar(ctx, name, count)
	if err != nil {
		s.config.Logger.Error("failed to find similar cards", "card", name, "error", err)
		return backendErrorResult("Similarity search failed", err), FindSimilarOutput{Similar: []CardSummary{}}, nil
	}

	output := FindSimilarOutput{
		Target:  summarize(*resp.TargetCard),
		Similar: make([]CardSummary, 0, len(resp.SimilarCards)),
	}
	for _, c := range resp.SimilarCards {
		output.Similar = append(output.Similar, summarize(c))
	}
	output.Count = len(output.Similar)

	return jsonResult(output)
}

// summarize converts a backend card into a CardSummary.
func summarize(c card.Card) CardSummary {
	summary := CardSummary{
		Name:              c.Name(),
		SimpleName:        c.SimpleName,
		Color:             c.Details.Color,
		Type:              c.Details.Type,
		Cost:              statPtr(c.Details.Cost),
		Strength:          statPtr(c.Details.Strength),
		Willpower:         statPtr(c.Details.Willpower),
		Lore:              statPtr(c.Details.Lore),
		Text:              utils.Truncate(c.Details.FullText, maxTextLen),
		Mechanics:         c.Details.Mechanics,
		OverallSimilarity: c.OverallSimilarity,
		PriceURL:          c.CardTraderURL,
	}
	if len(c.Similarities) > 0 {
		summary.Similarities = make(map[string]float64, len(c.Similarities))
		for f, score := range c.Similarities {
			summary.Similarities[string(f)] = score
		}
	}
	return summary
}

func statPtr(s card.Stat) *int {
	if !s.Valid {
		return nil
	}
	v := s.Value
	return &v
}

// jsonResult returns output both as structured content and, for clients
// that only read text, as serialized JSON.
func jsonResult[T any](output T) (*mcp.CallToolResult, T, error) {
	jsonBytes, err := json.Marshal(output)
	if err != nil {
		var zero T
		return errorResult(fmt.Sprintf("Failed to serialize results: %v", err)), zero, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}

// backendErrorResult reports a backend message verbatim and anything else
// with the prefix.
func backendErrorResult(prefix string, err error) *mcp.CallToolResult {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return errorResult(apiErr.Message)
	}
	return errorResult(fmt.Sprintf("%s: %v", prefix, err))
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}
