package game

import (
	"maps"
	"slices"

	"collision3d/internal/input"
)

// boundKeys fixes the polling order so simultaneous presses apply the same
// way every frame.
var boundKeys = slices.Sorted(maps.Keys(input.RaylibKeys))

// pollActions returns the actions whose keys fire this frame.
func pollActions(d *input.Debouncer, isDown func(key int32) bool) []input.Action {
	var actions []input.Action
	for _, key := range boundKeys {
		a := input.RaylibKeys[key]
		if d.Poll(a, isDown(key)) {
			actions = append(actions, a)
		}
	}
	return actions
}
