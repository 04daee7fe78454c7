package domain

// Input is either FreeText or TaggedIntent.
type Input interface {
	isInput()
}

// FreeText is a raw utterance, possibly holding several sub-commands.
type FreeText string

// TaggedIntent wraps an entity tree; it always denotes one command.
type TaggedIntent struct {
	Tree EntityTree
}

func (FreeText) isInput()     {}
func (TaggedIntent) isInput() {}
