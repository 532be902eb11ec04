// Package input maps keys from either frame driver onto demo actions.
package input

import rl "github.com/gen2brain/raylib-go/raylib"

// Action is a semantic demo command, independent of the key that triggered it.
type Action uint8

const (
	ActionNone Action = iota

	// Spawning
	ActionDropRandom    // R
	ActionRedrop        // T, same xz as the last drop
	ActionDropGrid      // N, walk a grid over the terrain
	ActionPrevFace      // U
	ActionNextFace      // I
	ActionCycleVertex   // D
	ActionDropFirstLast // F, over the first and last faces
	ActionSpawnNext     // Up, next inactive pool body
	ActionDropRay       // Y, ray-collider probe
	ActionClear         // X

	// Terrain and simulation
	ActionToggleLowFaces   // H
	ActionNextTerrain      // Tab
	ActionSlowMotion       // Space
	ActionToggleBroadPhase // B
	ActionSaveSnapshot     // K
	ActionLoadSnapshot     // L

	// View
	ActionCameraMode // C
	ActionZoomIn     // Q
	ActionZoomOut    // A
	ActionTurnLeft   // O
	ActionTurnRight  // P
	ActionWireframe  // W
	ActionToggleHUD  // G

	ActionQuit // Escape
)

var actionNames = map[Action]string{
	ActionDropRandom:       "drop random",
	ActionRedrop:           "redrop",
	ActionDropGrid:         "drop grid",
	ActionPrevFace:         "previous face",
	ActionNextFace:         "next face",
	ActionCycleVertex:      "cycle vertex",
	ActionDropFirstLast:    "drop first/last",
	ActionSpawnNext:        "spawn next",
	ActionDropRay:          "drop ray",
	ActionClear:            "clear",
	ActionToggleLowFaces:   "toggle low faces",
	ActionNextTerrain:      "next terrain",
	ActionSlowMotion:       "slow motion",
	ActionToggleBroadPhase: "toggle broad phase",
	ActionSaveSnapshot:     "save snapshot",
	ActionLoadSnapshot:     "load snapshot",
	ActionCameraMode:       "camera mode",
	ActionZoomIn:           "zoom in",
	ActionZoomOut:          "zoom out",
	ActionTurnLeft:         "turn left",
	ActionTurnRight:        "turn right",
	ActionWireframe:        "wireframe",
	ActionToggleHUD:        "toggle hud",
	ActionQuit:             "quit",
}

// Repeats reports whether holding the key should keep firing the action.
func (a Action) Repeats() bool {
	switch a {
	case ActionZoomIn, ActionZoomOut, ActionTurnLeft, ActionTurnRight:
		return true
	}
	return false
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "none"
}

// RaylibKeys binds raylib key codes for the window driver.
var RaylibKeys = map[int32]Action{
	rl.KeyR:      ActionDropRandom,
	rl.KeyT:      ActionRedrop,
	rl.KeyN:      ActionDropGrid,
	rl.KeyU:      ActionPrevFace,
	rl.KeyI:      ActionNextFace,
	rl.KeyD:      ActionCycleVertex,
	rl.KeyF:      ActionDropFirstLast,
	rl.KeyUp:     ActionSpawnNext,
	rl.KeyY:      ActionDropRay,
	rl.KeyX:      ActionClear,
	rl.KeyH:      ActionToggleLowFaces,
	rl.KeyTab:    ActionNextTerrain,
	rl.KeySpace:  ActionSlowMotion,
	rl.KeyB:      ActionToggleBroadPhase,
	rl.KeyK:      ActionSaveSnapshot,
	rl.KeyL:      ActionLoadSnapshot,
	rl.KeyC:      ActionCameraMode,
	rl.KeyQ:      ActionZoomIn,
	rl.KeyA:      ActionZoomOut,
	rl.KeyO:      ActionTurnLeft,
	rl.KeyP:      ActionTurnRight,
	rl.KeyW:      ActionWireframe,
	rl.KeyG:      ActionToggleHUD,
	rl.KeyEscape: ActionQuit,
}

// RuneKeys binds printable keys for the terminal driver.
var RuneKeys = map[rune]Action{
	'r': ActionDropRandom,
	't': ActionRedrop,
	'n': ActionDropGrid,
	'u': ActionPrevFace,
	'i': ActionNextFace,
	'd': ActionCycleVertex,
	'f': ActionDropFirstLast,
	'y': ActionDropRay,
	'x': ActionClear,
	'h': ActionToggleLowFaces,
	' ': ActionSlowMotion,
	'b': ActionToggleBroadPhase,
	'k': ActionSaveSnapshot,
	'l': ActionLoadSnapshot,
	'q': ActionQuit,
}
