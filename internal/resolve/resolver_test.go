package resolve_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homecmd/internal/domain"
	"homecmd/internal/resolve"
)

type unsupportedInput struct{ domain.FreeText }

func TestResolver_MultiCommandInOrder(t *testing.T) {
	r := resolve.New(domain.DefaultVocabulary())

	outcomes := slices.Collect(r.Resolve(domain.FreeText("Lights on and volume 50")))
	require.Len(t, outcomes, 2)

	require.NoError(t, outcomes[0].Err)
	assert.Equal(t, "lights on", outcomes[0].Source)
	assert.Equal(t, "ha/bedroom-mark/lights", outcomes[0].Command.Topic("ha/"))
	assert.Equal(t, "ON", outcomes[0].Command.Payload())

	require.NoError(t, outcomes[1].Err)
	assert.Equal(t, "ha/bedroom-mark/media/volume", outcomes[1].Command.Topic("ha/"))
	assert.Equal(t, "50", outcomes[1].Command.Payload())
}

func TestResolver_FailureDoesNotAbortSiblings(t *testing.T) {
	r := resolve.New(domain.DefaultVocabulary())

	outcomes := slices.Collect(r.Resolve(domain.FreeText("open the door and kitchen lights off")))
	require.Len(t, outcomes, 2)
	assert.ErrorIs(t, outcomes[0].Err, resolve.ErrNoTarget)
	require.NoError(t, outcomes[1].Err)
	assert.Equal(t, "ha/kitchen/lights", outcomes[1].Command.Topic("ha/"))
}

func TestResolver_TaggedIsSingleAndIdempotent(t *testing.T) {
	r := resolve.New(domain.DefaultVocabulary())
	in := domain.TaggedIntent{Tree: parseTree(t,
		`{"intent":"lights","entities":{"room":[{"value":"hall"}],"light_item":[{"value":"lights"}],"on_off":[{"value":"on and off"}]}}`)}

	first := slices.Collect(r.Resolve(in))
	second := slices.Collect(r.Resolve(in))

	require.Len(t, first, 1)
	require.NoError(t, first[0].Err)
	assert.Equal(t, "lights", first[0].Source)
	assert.Equal(t, first, second)
}

func TestResolver_UnsupportedInput(t *testing.T) {
	r := resolve.New(domain.DefaultVocabulary())

	for _, in := range []domain.Input{nil, unsupportedInput{"lights on"}} {
		outcomes := slices.Collect(r.Resolve(in))
		require.Len(t, outcomes, 1)
		assert.ErrorIs(t, outcomes[0].Err, resolve.ErrUnsupportedInput)
	}
}

func TestResolver_Relevant(t *testing.T) {
	r := resolve.New(domain.DefaultVocabulary())

	tests := []struct {
		name string
		in   domain.Input
		want bool
	}{
		{"item keyword", domain.FreeText("Kitchen LIGHTS on"), true},
		{"action keyword", domain.FreeText("volume 20"), true},
		{"location only", domain.FreeText("what is in the kitchen"), false},
		{"location with state only", domain.FreeText("kitchen on"), false},
		{"substring is not a word", domain.FreeText("spotlights"), false},
		{"known intent", domain.TaggedIntent{Tree: domain.EntityTree{Intent: domain.IntentSceneChange}}, true},
		{"unknown intent", domain.TaggedIntent{Tree: domain.EntityTree{Intent: "weather"}}, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Relevant(tt.in))
		})
	}
}
