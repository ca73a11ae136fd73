package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"

	"marketplace-admin/internal/keywords"
	"marketplace-admin/internal/model"
	"marketplace-admin/internal/pricing"
	"marketplace-admin/internal/repository"
)

const (
	MinSearchLength = 6
	MaxSearchHits   = 20
)

type OrderRepository interface {
	FindByID(ctx context.Context, id string) (*model.Order, error)
	List(ctx context.Context, f repository.OrderFilter) ([]*model.Order, error)
	UpdateFields(ctx context.Context, id string, version int64, set bson.M) error
	Watch(ctx context.Context, id string) (<-chan *model.Order, error)
}

type DriverDirectory interface {
	ListAvailableDrivers(ctx context.Context, city string) ([]*model.User, error)
}

type ProductSearcher interface {
	SearchByNamePrefix(ctx context.Context, uuidEmpresa, prefix string, limit int64) ([]*model.Product, error)
	SearchByKeyword(ctx context.Context, uuidEmpresa, keyword string, limit int64) ([]*model.Product, error)
}

// Notifier encola notificaciones; la entrega ocurre fuera de la petición.
type Notifier interface {
	Enqueue(ctx context.Context, n model.Notification) error
}

// Summary es el resumen financiero que se muestra en el detalle.
type Summary struct {
	SubTotal         float64 `json:"subTotal"`
	Shipping         float64 `json:"shipping"`
	ServiceFee       float64 `json:"serviceFee"`
	PriorityDelivery float64 `json:"priorityDelivery"`
	Tip              float64 `json:"tip"`
	Discount         float64 `json:"discount"`
	TotalApp         float64 `json:"totalApp"`
	TotalCosto       float64 `json:"totalCosto"`
	DriverPayout     float64 `json:"driverPayout"`
	Profit           float64 `json:"profit"`
}

type OrderDetail struct {
	Order   *model.Order     `json:"order"`
	State   model.OrderState `json:"state"`
	Actions Actions          `json:"actions"`
	Summary Summary          `json:"summary"`
}

// SearchHit es un producto encontrado con la línea que se agregaría al borrador.
type SearchHit struct {
	Product *model.Product  `json:"product"`
	Line    model.OrderItem `json:"line"`
}

type OrderService struct {
	orders   OrderRepository
	drivers  DriverDirectory
	products ProductSearcher
	notifier Notifier
	log      *slog.Logger
	now      func() time.Time
}

func NewOrderService(orders OrderRepository, drivers DriverDirectory, products ProductSearcher, notifier Notifier, log *slog.Logger) *OrderService {
	return &OrderService{
		orders:   orders,
		drivers:  drivers,
		products: products,
		notifier: notifier,
		log:      log.With("component", "order_service"),
		now:      time.Now,
	}
}

// BuildDetail deriva estado, acciones y resumen de la orden.
func BuildDetail(o *model.Order) *OrderDetail {
	return &OrderDetail{
		Order:   o,
		State:   CurrentState(o),
		Actions: DeriveActions(o),
		Summary: Summarize(o),
	}
}

// Summarize usa totalCosto guardado si existe; si no, lo suma desde los ítems.
func Summarize(o *model.Order) Summary {
	cost := pricing.OrderTotals(o.Items, pricing.FeesOf(o)).TotalCosto
	if o.TotalCosto != nil {
		cost = *o.TotalCosto
	}
	payout := PayoutAmount(o.PagoDriver)
	return Summary{
		SubTotal:         o.SubTotal,
		Shipping:         o.Shipping,
		ServiceFee:       o.ServiceFee,
		PriorityDelivery: o.PriorityDelivery,
		Tip:              o.Tip,
		Discount:         o.Discount,
		TotalApp:         o.TotalApp,
		TotalCosto:       cost,
		DriverPayout:     payout,
		Profit:           pricing.Profit(o.TotalApp, cost, payout),
	}
}

// PayoutAmount interpreta pagoDriver; el texto no numérico cuenta como 0.
func PayoutAmount(v any) float64 {
	switch p := v.(type) {
	case float64:
		if finite(p) {
			return p
		}
	case int32:
		return float64(p)
	case int64:
		return float64(p)
	case int:
		return float64(p)
	case string:
		if f, ok := parseAmount(p); ok {
			return f
		}
	}
	return 0
}

// parseAmount solo acepta números finitos: ParseFloat también lee "NaN" e "inf".
func parseAmount(raw string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || !finite(f) {
		return 0, false
	}
	return f, true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (s *OrderService) Detail(ctx context.Context, id string) (*OrderDetail, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return BuildDetail(o), nil
}

func (s *OrderService) List(ctx context.Context, f repository.OrderFilter) ([]*model.Order, error) {
	return s.orders.List(ctx, f)
}

// load trae la orden y valida la versión esperada si el cliente la envía.
func (s *OrderService) load(ctx context.Context, id string, expected *int64) (*model.Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expected != nil && *expected != o.Version {
		return nil, ErrVersionConflict
	}
	return o, nil
}

// Transition aplica una acción del ciclo de vida y notifica a quien corresponda.
func (s *OrderService) Transition(ctx context.Context, id string, action Action, expected *int64) (*OrderDetail, error) {
	o, err := s.load(ctx, id, expected)
	if err != nil {
		return nil, err
	}

	set, to, err := PlanTransition(o, action, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("%w: %s desde %s", err, action, CurrentState(o))
	}
	if err := s.orders.UpdateFields(ctx, id, o.Version, bson.M(set)); err != nil {
		return nil, err
	}
	s.log.Info("order transitioned", "order_id", id, "action", action, "state", to)

	if n, ok := transitionNotification(o, action); ok {
		s.notify(ctx, n)
	}
	return s.Detail(ctx, id)
}

func transitionNotification(o *model.Order, action Action) (model.Notification, bool) {
	data := map[string]string{"orderId": o.ID.Hex(), "numeroDeOrden": o.NumeroDeOrden}
	switch action {
	case ActionConfirm:
		return model.Notification{
			Target:   model.TargetBusiness,
			TargetID: o.TiendaIDText,
			Title:    "Nueva orden confirmada",
			Body:     fmt.Sprintf("La orden #%s fue confirmada. Puedes comenzar a prepararla.", o.NumeroDeOrden),
			Data:     data,
		}, true
	case ActionProcess:
		return customerNotification(o, "Tu orden está en proceso",
			fmt.Sprintf("%s está preparando tu orden #%s.", o.NombreEmpresa, o.NumeroDeOrden), data), true
	case ActionEnRoute:
		return customerNotification(o, "Tu orden va en camino",
			fmt.Sprintf("El repartidor lleva tu orden #%s.", o.NumeroDeOrden), data), true
	case ActionDeliver:
		return customerNotification(o, "Orden entregada",
			fmt.Sprintf("Tu orden #%s fue entregada. ¡Buen provecho!", o.NumeroDeOrden), data), true
	case ActionCancel:
		return customerNotification(o, "Orden cancelada",
			fmt.Sprintf("Tu orden #%s fue cancelada.", o.NumeroDeOrden), data), true
	}
	return model.Notification{}, false
}

func customerNotification(o *model.Order, title, body string, data map[string]string) model.Notification {
	return model.Notification{Target: model.TargetUser, TargetID: o.UserID, Title: title, Body: body, Data: data}
}

// notify nunca falla hacia el llamador: el cambio de estado ya quedó guardado.
func (s *OrderService) notify(ctx context.Context, n model.Notification) {
	if n.TargetID == "" {
		s.log.Warn("notification without target", "target", n.Target, "title", n.Title)
		return
	}
	n.CreatedAt = s.now().UTC()
	if err := s.notifier.Enqueue(ctx, n); err != nil {
		s.log.Error("enqueue notification failed", "target", n.Target, "target_id", n.TargetID, "error", err)
	}
}

// Drivers devuelve los candidatos para la ciudad de la orden.
func (s *OrderService) Drivers(ctx context.Context, id string) ([]*model.User, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.drivers.ListAvailableDrivers(ctx, orderCity(o))
}

func orderCity(o *model.Order) string {
	if o.NombreCiudad != "" {
		return o.NombreCiudad
	}
	return o.ShippingAddress.Ciudad
}

// AssignDriver asigna un repartidor que esté en la lista de candidatos.
func (s *OrderService) AssignDriver(ctx context.Context, id, driverID string, expected *int64) (*OrderDetail, error) {
	o, err := s.load(ctx, id, expected)
	if err != nil {
		return nil, err
	}
	if !DeriveActions(o).CanAssignDriver {
		return nil, fmt.Errorf("%w: asignar repartidor en %s", ErrInvalidTransition, CurrentState(o))
	}

	city := orderCity(o)
	candidates, err := s.drivers.ListAvailableDrivers(ctx, city)
	if err != nil {
		return nil, err
	}
	var driver *model.User
	for _, d := range candidates {
		if d.ID.Hex() == driverID || d.UID == driverID {
			driver = d
			break
		}
	}
	if driver == nil {
		return nil, ErrDriverNotEligible
	}

	set := bson.M{
		"driverId":       driver.UID,
		"driverName":     driver.Nombre,
		"driverCity":     driver.Ciudad,
		"driverAsignado": true,
		"driver":         model.DriverRef{ID: driver.ID, UID: driver.UID, Nombre: driver.Nombre, Phone: driver.Telefono},
	}
	if err := s.orders.UpdateFields(ctx, id, o.Version, set); err != nil {
		return nil, err
	}
	s.log.Info("driver assigned", "order_id", id, "driver_uid", driver.UID, "city", city)

	s.notify(ctx, model.Notification{
		Target:   model.TargetUser,
		TargetID: driver.UID,
		Title:    "Nueva orden asignada",
		Body:     fmt.Sprintf("Se te asignó la orden #%s de %s.", o.NumeroDeOrden, o.NombreEmpresa),
		Data:     map[string]string{"orderId": o.ID.Hex(), "numeroDeOrden": o.NumeroDeOrden},
	})
	return s.Detail(ctx, id)
}

// ReplaceItems reemplaza la lista de ítems y recalcula los totales en una sola escritura.
func (s *OrderService) ReplaceItems(ctx context.Context, id string, items []model.OrderItem, expected *int64) (*OrderDetail, error) {
	for i, it := range items {
		if it.Cantidad < 1 {
			return nil, validationError("la cantidad del ítem %d debe ser al menos 1", i+1)
		}
		if strings.TrimSpace(it.NombreProducto) == "" {
			return nil, validationError("el ítem %d no tiene nombre", i+1)
		}
	}

	o, err := s.load(ctx, id, expected)
	if err != nil {
		return nil, err
	}

	lines := make([]model.OrderItem, len(items))
	for i := range items {
		lines[i] = items[i]
		pricing.RecomputeItem(&lines[i])
	}
	totals := pricing.OrderTotals(lines, pricing.FeesOf(o))

	set := bson.M{
		"itemsOrder": lines,
		"subTotal":   totals.SubTotal,
		"totalCosto": totals.TotalCosto,
		"totalApp":   totals.TotalApp,
	}
	if err := s.orders.UpdateFields(ctx, id, o.Version, set); err != nil {
		return nil, err
	}
	s.log.Info("order items replaced", "order_id", id, "items", len(lines), "total_app", totals.TotalApp)
	return s.Detail(ctx, id)
}

// ParsePayout convierte a número si se puede; si no, guarda el texto tal cual.
func ParsePayout(raw string) any {
	if f, ok := parseAmount(raw); ok {
		return f
	}
	return raw
}

func (s *OrderService) SetDriverPayout(ctx context.Context, id, raw string, expected *int64) (*OrderDetail, error) {
	o, err := s.load(ctx, id, expected)
	if err != nil {
		return nil, err
	}
	if err := s.orders.UpdateFields(ctx, id, o.Version, bson.M{"pagoDriver": ParsePayout(raw)}); err != nil {
		return nil, err
	}
	return s.Detail(ctx, id)
}

// SearchCatalog busca productos del negocio de la orden por prefijo de nombre y
// por palabra clave en paralelo, y une los resultados.
func (s *OrderService) SearchCatalog(ctx context.Context, id, term string) ([]SearchHit, error) {
	term = strings.TrimSpace(term)
	if len([]rune(term)) < MinSearchLength {
		return nil, validationError("la búsqueda necesita al menos %d caracteres", MinSearchLength)
	}

	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var byName, byKeyword []*model.Product
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		byName, err = s.products.SearchByNamePrefix(gctx, o.TiendaIDText, term, MaxSearchHits)
		return err
	})
	g.Go(func() error {
		var err error
		byKeyword, err = s.products.SearchByKeyword(gctx, o.TiendaIDText, keywords.Normalize(term), MaxSearchHits)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("search catalog: %w", err)
	}

	seen := make(map[string]struct{})
	hits := make([]SearchHit, 0, MaxSearchHits)
	for _, p := range append(byName, byKeyword...) {
		key := p.ID.Hex()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		hits = append(hits, SearchHit{Product: p, Line: DraftLine(p)})
		if len(hits) == MaxSearchHits {
			break
		}
	}
	return hits, nil
}

// DraftLine arma la línea nueva: en la app vale sale_price si es positivo, si no price.
func DraftLine(p *model.Product) model.OrderItem {
	appPrice := p.Price
	if p.SalePrice > 0 {
		appPrice = p.SalePrice
	}
	it := model.OrderItem{
		ProductID:         p.UUID,
		NombreProducto:    p.Name,
		Cantidad:          1,
		PrecioUnitarioApp: appPrice,
		PrecioUnitarioTnd: p.Price,
		Imagen:            p.Imagen,
	}
	pricing.RecomputeItem(&it)
	return it
}

// Watch emite el detalle completo cada vez que cambia la orden.
func (s *OrderService) Watch(ctx context.Context, id string) (<-chan *OrderDetail, error) {
	if _, err := s.orders.FindByID(ctx, id); err != nil {
		return nil, err
	}
	snapshots, err := s.orders.Watch(ctx, id)
	if err != nil {
		return nil, err
	}

	out := make(chan *OrderDetail)
	go func() {
		defer close(out)
		for o := range snapshots {
			var d *OrderDetail
			if o != nil {
				d = BuildDetail(o)
			}
			select {
			case out <- d:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
