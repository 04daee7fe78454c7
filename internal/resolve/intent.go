package resolve

import (
	"fmt"

	"homecmd/internal/domain"
)

// Tree resolves a tagged entity tree into a single command.
func Tree(v *domain.Vocabulary, tree domain.EntityTree) (domain.Command, error) {
	var (
		cmd domain.Command
		err error
	)

	switch tree.Intent {
	case domain.IntentLights:
		cmd, err = lightsCommand(tree)
	case domain.IntentPlayMedia:
		cmd, err = mediaCommand(tree)
	case domain.IntentThermostatSet:
		cmd, err = thermostatCommand(tree)
	case domain.IntentSceneChange:
		cmd, err = sceneCommand(tree)
	default:
		return domain.Command{}, fmt.Errorf("%w: %q", ErrUnknownIntent, tree.Intent)
	}
	if err != nil {
		return domain.Command{}, fmt.Errorf("%s: %w", tree.Intent, err)
	}

	cmd.Location = taggedRoom(v, tree)
	if !cmd.Valid() {
		return domain.Command{}, fmt.Errorf("%s: %w", tree.Intent, ErrNoState)
	}
	return cmd, nil
}

func lightsCommand(tree domain.EntityTree) (domain.Command, error) {
	item, ok := tree.Slot(domain.SlotLightItem)
	if !ok {
		item, ok = tree.Slot(domain.SlotLightGroup)
	}
	if !ok || item == "" {
		return domain.Command{}, ErrNoTarget
	}
	if item == "amplifier" {
		item = "amp"
	}

	state, err := requireSlot(tree, domain.SlotOnOff)
	if err != nil {
		return domain.Command{}, err
	}
	return domain.Command{Suffix: item, State: state}, nil
}

func mediaCommand(tree domain.EntityTree) (domain.Command, error) {
	action, err := requireSlot(tree, domain.SlotMediaAction)
	if err != nil {
		return domain.Command{}, err
	}

	state := "on"
	if action == "volume" {
		if state, err = requireSlot(tree, domain.SlotVolumePercent); err != nil {
			return domain.Command{}, err
		}
	}
	return domain.Command{Suffix: "media/" + action, State: state}, nil
}

func thermostatCommand(tree domain.EntityTree) (domain.Command, error) {
	temp, ok := tree.Slot(domain.SlotTemperature)
	if !ok {
		return domain.Command{}, fmt.Errorf("%w: %s", ErrMissingSlot, domain.SlotTemperature)
	}
	return domain.Command{Suffix: "setpoint", State: temp}, nil
}

func sceneCommand(tree domain.EntityTree) (domain.Command, error) {
	scene, err := requireSlot(tree, domain.SlotScene)
	if err != nil {
		return domain.Command{}, err
	}
	return domain.Command{Suffix: "scene", State: scene}, nil
}

func requireSlot(tree domain.EntityTree, name string) (string, error) {
	v, ok := tree.Slot(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingSlot, name)
	}
	return v, nil
}
