package application

import (
	"context"
	"errors"

	"homecmd/internal/domain"
)

// InputSource delivers utterances or tagged trees to the assistant.
type InputSource interface {
	Start(ctx context.Context) error
	Stop() error
	NextInput(ctx context.Context) (domain.Input, error)
	Name() string
}

// ErrSourceClosed is returned by NextInput once the source has been stopped.
var ErrSourceClosed = errors.New("input source closed")
