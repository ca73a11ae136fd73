// Package notify entrega las notificaciones que salen de la cola hacia los
// canales reales (funciones HTTP y Telegram).
package notify

import (
	"context"
	"errors"
	"fmt"

	"marketplace-admin/internal/model"
)

// ErrPermanent marca fallos que no se arreglan reintentando.
var ErrPermanent = errors.New("permanent notification failure")

type Dispatcher interface {
	Dispatch(ctx context.Context, n model.Notification) error
}

// Named lo implementan los canales que se pueden identificar entre reintentos.
type Named interface {
	Name() string
}

// Multi entrega por todos los canales e informa todos los errores juntos.
type Multi []Dispatcher

func (m Multi) Dispatch(ctx context.Context, n model.Notification) error {
	_, err := m.DispatchPending(ctx, n, nil)
	return err
}

// DispatchPending salta los canales que ya entregaron en un intento anterior y
// devuelve la lista acumulada de canales entregados.
func (m Multi) DispatchPending(ctx context.Context, n model.Notification, delivered []string) ([]string, error) {
	done := make(map[string]bool, len(delivered))
	for _, name := range delivered {
		done[name] = true
	}
	out := append([]string(nil), delivered...)

	var errs []error
	for i, d := range m {
		name := channelName(d, i)
		if done[name] {
			continue
		}
		if err := d.Dispatch(ctx, n); err != nil {
			errs = append(errs, err)
			continue
		}
		done[name] = true
		out = append(out, name)
	}
	return out, errors.Join(errs...)
}

func channelName(d Dispatcher, i int) string {
	if nd, ok := d.(Named); ok {
		return nd.Name()
	}
	return fmt.Sprintf("channel-%d", i)
}

// IsPermanent es verdadero solo si todos los errores unidos son permanentes.
func IsPermanent(err error) bool {
	if err == nil {
		return false
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			if !IsPermanent(e) {
				return false
			}
		}
		return true
	}
	return errors.Is(err, ErrPermanent)
}
