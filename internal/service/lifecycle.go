// lifecycle.go
package service

import (
	"time"

	"marketplace-admin/internal/model"
)

// Action es un comando de transición sobre una orden.
type Action string

const (
	ActionConfirm  Action = "confirm"
	ActionProcess  Action = "process"
	ActionDispatch Action = "dispatch"
	ActionEnRoute  Action = "en_route"
	ActionDeliver  Action = "deliver"
	ActionCancel   Action = "cancel"
)

// Actions son las acciones habilitadas, derivadas solo de los timestamps.
type Actions struct {
	CanConfirm      bool `json:"canConfirm"`
	CanProcess      bool `json:"canProcess"`
	CanDispatch     bool `json:"canDispatch"`
	CanGoEnRoute    bool `json:"canGoEnRoute"`
	CanDeliver      bool `json:"canDeliver"`
	CanCancel       bool `json:"canCancel"`
	CanAssignDriver bool `json:"canAssignDriver"`
}

func DeriveActions(o *model.Order) Actions {
	open := o.DeliveredAt == nil && o.CancelledAt == nil
	return Actions{
		CanConfirm:      o.ConfirmedAt == nil,
		CanProcess:      o.ConfirmedAt != nil && o.InProcessAt == nil,
		CanDispatch:     o.InProcessAt != nil && o.DispatchedAt == nil,
		CanGoEnRoute:    o.DispatchedAt != nil && o.EnRouteAt == nil && open,
		CanDeliver:      o.DispatchedAt != nil && open,
		CanCancel:       o.DeliveredAt == nil,
		CanAssignDriver: open,
	}
}

func (a Actions) allows(action Action) bool {
	switch action {
	case ActionConfirm:
		return a.CanConfirm
	case ActionProcess:
		return a.CanProcess
	case ActionDispatch:
		return a.CanDispatch
	case ActionEnRoute:
		return a.CanGoEnRoute
	case ActionDeliver:
		return a.CanDeliver
	case ActionCancel:
		return a.CanCancel
	}
	return false
}

// DeriveState reconstruye el estado para órdenes que no tienen el campo state.
func DeriveState(o *model.Order) model.OrderState {
	switch {
	case o.CancelledAt != nil:
		return model.StateCancelled
	case o.DeliveredAt != nil:
		return model.StateDelivered
	case o.EnRouteAt != nil:
		return model.StateEnRoute
	case o.DispatchedAt != nil:
		return model.StateDispatched
	case o.InProcessAt != nil:
		return model.StateInProcess
	case o.ConfirmedAt != nil:
		return model.StateConfirmed
	}
	return model.StateCreated
}

// CurrentState usa el estado guardado y cae a la derivación si falta.
func CurrentState(o *model.Order) model.OrderState {
	if o.State != "" {
		return o.State
	}
	return DeriveState(o)
}

type transition struct {
	to model.OrderState
}

// Transiciones permitidas por estado. Los estados finales no tienen salida.
var transitions = map[model.OrderState]map[Action]transition{
	model.StateCreated: {
		ActionConfirm: {to: model.StateConfirmed},
		ActionCancel:  {to: model.StateCancelled},
	},
	model.StateConfirmed: {
		ActionProcess: {to: model.StateInProcess},
		ActionCancel:  {to: model.StateCancelled},
	},
	model.StateInProcess: {
		ActionDispatch: {to: model.StateDispatched},
		ActionCancel:   {to: model.StateCancelled},
	},
	model.StateDispatched: {
		ActionEnRoute: {to: model.StateEnRoute},
		ActionDeliver: {to: model.StateDelivered},
		ActionCancel:  {to: model.StateCancelled},
	},
	model.StateEnRoute: {
		ActionDeliver: {to: model.StateDelivered},
		ActionCancel:  {to: model.StateCancelled},
	},
	model.StateDelivered: {},
	model.StateCancelled: {},
}

// ParseAction valida el nombre de acción que llega por la API.
func ParseAction(s string) (Action, bool) {
	a := Action(s)
	switch a {
	case ActionConfirm, ActionProcess, ActionDispatch, ActionEnRoute, ActionDeliver, ActionCancel:
		return a, true
	}
	return "", false
}

// PlanTransition valida la acción contra los timestamps y contra la tabla de
// estados y devuelve los campos a escribir.
func PlanTransition(o *model.Order, action Action, now time.Time) (map[string]any, model.OrderState, error) {
	if !DeriveActions(o).allows(action) {
		return nil, "", ErrInvalidTransition
	}
	t, ok := transitions[CurrentState(o)][action]
	if !ok {
		return nil, "", ErrInvalidTransition
	}

	set := map[string]any{"state": t.to}
	switch action {
	case ActionConfirm:
		set["estadoText"] = model.StatusConfirmed
		set["confirmedAt"] = now
	case ActionProcess:
		set["estadoText"] = model.StatusInProcess
		set["inProcessAt"] = now
	case ActionDispatch:
		set["dispatchedAt"] = now
	case ActionEnRoute:
		set["estadoText"] = model.StatusEnRoute
		set["enRouteAt"] = now
	case ActionDeliver:
		set["estadoText"] = model.StatusDelivered
		set["estadoBool"] = false
		set["estadoFiltros"] = []string{model.StatusFilterAll, model.StatusDelivered}
		set["deliveredAt"] = now
	case ActionCancel:
		set["estadoText"] = model.StatusCancelled
		set["estadoBool"] = false
		set["estadoFiltros"] = []string{model.StatusFilterAll, model.StatusCancelled}
		set["cancelledAt"] = now
	}
	return set, t.to, nil
}
