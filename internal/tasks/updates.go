package tasks

import (
	"fmt"

	"github.com/desertthunder/raocow/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	CreateContainers Phase = iota
	CreateVideos
	LinkVideos
)

func (p Phase) String() string {
	switch p {
	case CreateContainers:
		return "create_containers"
	case CreateVideos:
		return "create_videos"
	case LinkVideos:
		return "link_videos"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func phaseStartedUpdate(phase Phase, total int) ProgressUpdate {
	var msg string
	switch phase {
	case CreateContainers:
		msg = fmt.Sprintf("Creating %d channels and series...", total)
	case CreateVideos:
		msg = fmt.Sprintf("Creating %d videos...", total)
	case LinkVideos:
		msg = fmt.Sprintf("Linking %d memberships...", total)
	}
	return ProgressUpdate{Phase: phase, Step: 0, Total: total, Message: msg}
}

func itemCreatedUpdate(phase Phase, step, total int, item Item) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s %s", step, total, item.Kind, item.ID),
		Data:    item,
	}
}

func itemFailedUpdate(phase Phase, step, total int, f Failure) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s %q: %v", step, total, f.Kind, f.Name, f.Err),
		Data:    f,
	}
}

func linkUpdate(step, total int, container models.Kind, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LinkVideos,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s %s", step, total, container, name),
	}
}
