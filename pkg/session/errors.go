package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/papercomputeco/similicana/pkg/client"
	"github.com/papercomputeco/similicana/pkg/weights"
)

// Messages shown to users.
const (
	MsgNotReady      = "System is still initializing, please wait..."
	MsgFetchFailed   = "An error occurred while fetching results"
	MsgDeckFormat    = "Final deck data is not in the expected format."
	MsgNoCards       = "Enter at least one card name"
	MsgNoCardName    = "Enter a card name"
	MsgEmptyDecklist = "Enter a decklist"
)

var (
	// ErrNotReady is returned when an action is attempted before the backend
	// has reported ready.
	ErrNotReady = errors.New("backend is still initializing")

	// ErrNoCardName is returned by a search with a blank card name.
	ErrNoCardName = errors.New("no card name given")

	// ErrNoCards is returned by a batch whose input has no card names.
	ErrNoCards = errors.New("no card names given")

	// ErrEmptyDecklist is returned by a deck analysis with a blank decklist.
	ErrEmptyDecklist = errors.New("decklist is empty")

	// ErrSuperseded is returned by a search whose response arrived after a
	// newer search was issued. Its result is discarded.
	ErrSuperseded = errors.New("search superseded by a newer search")
)

// UserMessage returns the text shown to users for err. Backend messages are
// returned verbatim. Failures without a user facing cause get the generic
// fetch message.
func UserMessage(err error) string {
	var apiErr *client.APIError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotReady):
		return MsgNotReady
	case errors.Is(err, ErrNoCardName):
		return MsgNoCardName
	case errors.Is(err, ErrNoCards):
		return MsgNoCards
	case errors.Is(err, ErrEmptyDecklist):
		return MsgEmptyDecklist
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, client.ErrUnexpectedDeckFormat):
		return MsgDeckFormat
	case errors.Is(err, weights.ErrInvalidWeights):
		return err.Error()
	default:
		return MsgFetchFailed
	}
}

// report alerts the user about err and logs it. Cancellation and superseded
// searches are not reported.
func report(view View, logger *slog.Logger, op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrSuperseded) {
		return err
	}

	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		logger.Warn(op+" rejected by backend", "detail", apiErr.Detail())
	case UserMessage(err) == MsgFetchFailed:
		logger.Error(op+" failed", "error", err)
	default:
		logger.Debug(op+" not performed", "reason", err)
	}

	view.Alert(UserMessage(err))
	return err
}
