// ABOUTME: Toolkit-independent drag-and-drop state machine for the board
// ABOUTME: Idle -> Dragging -> HoveringTarget -> Idle, emitting move requests on drop
package pipeline

import (
	"github.com/harperreed/crmboard/models"
)

// DragState identifies where the machine is.
type DragState int

const (
	Idle DragState = iota
	Dragging
	HoveringTarget
)

func (s DragState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case HoveringTarget:
		return "hovering"
	}
	return "unknown"
}

// MoveRequest is the side effect of a drop onto a different stage.
type MoveRequest struct {
	Deal   models.Deal
	Target models.Stage
}

// DragMachine tracks one drag gesture at a time. The zero value is Idle.
type DragMachine struct {
	state     DragState
	deal      models.Deal
	candidate models.Stage
}

func (m *DragMachine) State() DragState {
	return m.state
}

// Deal returns the deal being dragged, if any.
func (m *DragMachine) Deal() (models.Deal, bool) {
	if m.state == Idle {
		return models.Deal{}, false
	}
	return m.deal, true
}

// Candidate returns the stage currently hovered, if any.
func (m *DragMachine) Candidate() (models.Stage, bool) {
	if m.state != HoveringTarget {
		return "", false
	}
	return m.candidate, true
}

// DragStart picks up a deal. Only legal while Idle.
func (m *DragMachine) DragStart(deal models.Deal) error {
	if m.state != Idle {
		return m.reject("drag start")
	}
	if _, err := dealStage(deal); err != nil {
		return err
	}
	m.state = Dragging
	m.deal = deal
	return nil
}

// DragOver hovers a stage. The most recent hover wins.
func (m *DragMachine) DragOver(stage models.Stage) error {
	if m.state == Idle {
		return m.reject("drag over")
	}
	target, err := models.ParseStage(string(stage))
	if err != nil {
		return err
	}
	m.state = HoveringTarget
	m.candidate = target
	return nil
}

// DragLeave drops the hovered candidate without ending the drag.
func (m *DragMachine) DragLeave() error {
	if m.state == Idle {
		return m.reject("drag leave")
	}
	m.state = Dragging
	m.candidate = ""
	return nil
}

// Drop ends the gesture over the hovered stage. It returns a MoveRequest
// only when the candidate differs from the deal's stage.
func (m *DragMachine) Drop() (*MoveRequest, error) {
	if m.state != HoveringTarget {
		return nil, m.reject("drop")
	}
	deal, target := m.deal, m.candidate
	m.reset()

	from, err := dealStage(deal)
	if err != nil {
		return nil, err
	}
	if from == target {
		return nil, nil
	}
	return &MoveRequest{Deal: deal, Target: target}, nil
}

// DragEnd abandons the gesture with no side effect.
func (m *DragMachine) DragEnd() error {
	if m.state == Idle {
		return m.reject("drag end")
	}
	m.reset()
	return nil
}

func (m *DragMachine) reset() {
	m.state = Idle
	m.deal = models.Deal{}
	m.candidate = ""
}

func (m *DragMachine) reject(event string) error {
	return &models.StateError{State: m.state.String(), Event: event}
}
