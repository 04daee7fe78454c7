package resolve

import "errors"

var (
	ErrNoTarget         = errors.New("no item or action keyword")
	ErrActionRequired   = errors.New("item needs an action keyword")
	ErrMissingSlot      = errors.New("missing slot")
	ErrUnknownIntent    = errors.New("unknown intent")
	ErrNoState          = errors.New("no state value")
	ErrUnsupportedInput = errors.New("unsupported input")
)
