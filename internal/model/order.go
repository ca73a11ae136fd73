// order.go
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Etiquetas de estado tal como las guarda la app de clientes en estadoText.
const (
	StatusSent       = "Enviado"
	StatusConfirmed  = "Confirmado"
	StatusInProcess  = "En Proceso"
	StatusEnRoute    = "En Camino"
	StatusDelivered  = "Entregado"
	StatusCancelled  = "Cancelado"
	StatusFilterAll  = "Todos"
	DeliveryHomeForm = "Domicilio"
)

// StatusLabels es el vocabulario cerrado de estadoText.
var StatusLabels = []string{StatusSent, StatusConfirmed, StatusInProcess, StatusEnRoute, StatusDelivered, StatusCancelled}

// OrderState es el estado explícito de la máquina de estados.
type OrderState string

const (
	StateCreated    OrderState = "created"
	StateConfirmed  OrderState = "confirmed"
	StateInProcess  OrderState = "in_process"
	StateDispatched OrderState = "dispatched"
	StateEnRoute    OrderState = "en_route"
	StateDelivered  OrderState = "delivered"
	StateCancelled  OrderState = "cancelled"
)

type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	NumeroDeOrden string             `bson:"numeroDeOrden" json:"numeroDeOrden"`
	IDOrderText   string             `bson:"idOrderText,omitempty" json:"idOrderText,omitempty"`

	State         OrderState `bson:"state,omitempty" json:"state"`
	Version       int64      `bson:"version" json:"version"`
	EstadoText    string     `bson:"estadoText" json:"estadoText"`
	EstadoBool    bool       `bson:"estadoBool" json:"estadoBool"`
	EstadoFiltros []string   `bson:"estadoFiltros,omitempty" json:"estadoFiltros,omitempty"`

	CreatedAt    time.Time  `bson:"createdAt" json:"createdAt"`
	ConfirmedAt  *time.Time `bson:"confirmedAt,omitempty" json:"confirmedAt,omitempty"`
	InProcessAt  *time.Time `bson:"inProcessAt,omitempty" json:"inProcessAt,omitempty"`
	DispatchedAt *time.Time `bson:"dispatchedAt,omitempty" json:"dispatchedAt,omitempty"`
	EnRouteAt    *time.Time `bson:"enRouteAt,omitempty" json:"enRouteAt,omitempty"`
	DeliveredAt  *time.Time `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	CancelledAt  *time.Time `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`

	SubTotal         float64  `bson:"subTotal" json:"subTotal"`
	Shipping         float64  `bson:"shipping" json:"shipping"`
	ServiceFee       float64  `bson:"serviceFee" json:"serviceFee"`
	PriorityDelivery float64  `bson:"priorityDelivery" json:"priorityDelivery"`
	Tip              float64  `bson:"tip" json:"tip"`
	Discount         float64  `bson:"discount" json:"discount"`
	TotalApp         float64  `bson:"totalApp" json:"totalApp"`
	TotalCosto       *float64 `bson:"totalCosto,omitempty" json:"totalCosto,omitempty"`

	// PagoDriver puede ser número o el texto tal cual lo escribió el operador.
	PagoDriver any `bson:"pagoDriver,omitempty" json:"pagoDriver,omitempty"`

	TiendaIDText   string `bson:"tiendaIdText" json:"tiendaIdText"`
	NombreEmpresa  string `bson:"nombreEmpresa" json:"nombreEmpresa"`
	LogoEmpresa    string `bson:"logoEmpresa,omitempty" json:"logoEmpresa,omitempty"`
	NombreCiudad   string `bson:"nombreCiudad" json:"nombreCiudad"`
	UserID         string `bson:"userId" json:"userId"`
	NameCliente    string `bson:"nameCliente" json:"nameCliente"`
	TelefonoPrinc  string `bson:"telefonoPrincipal" json:"telefonoPrincipal"`
	MetodoDePago   string `bson:"metodoDePago,omitempty" json:"metodoDePago,omitempty"`
	FormaDeEntrega string `bson:"formaDeEntrega,omitempty" json:"formaDeEntrega,omitempty"`
	TarjetaUsada   string `bson:"tarjetaUsada,omitempty" json:"tarjetaUsada,omitempty"`
	ConPrioridad   bool   `bson:"conEntregaPrioritaria" json:"conEntregaPrioritaria"`
	Note           string `bson:"note,omitempty" json:"note,omitempty"`
	DiscountCoupon string `bson:"discountCoupon,omitempty" json:"discountCoupon,omitempty"`
	ConRTN         bool   `bson:"conRTN" json:"conRTN"`
	DatosRTN       *RTN   `bson:"datosRTN,omitempty" json:"datosRTN,omitempty"`

	DriverID       string     `bson:"driverId,omitempty" json:"driverId,omitempty"`
	DriverName     string     `bson:"driverName,omitempty" json:"driverName,omitempty"`
	DriverCity     string     `bson:"driverCity,omitempty" json:"driverCity,omitempty"`
	DriverAsignado bool       `bson:"driverAsignado" json:"driverAsignado"`
	Driver         *DriverRef `bson:"driver,omitempty" json:"driver,omitempty"`

	ShippingAddress Address     `bson:"shippingAddress" json:"shippingAddress"`
	Items           []OrderItem `bson:"itemsOrder" json:"itemsOrder"`
}

// OrderItem tiene dos carriles de precio: el de la app (cliente) y el de la tienda.
type OrderItem struct {
	ProductID         string   `bson:"productId,omitempty" json:"productId,omitempty"`
	NombreProducto    string   `bson:"nombreProducto" json:"nombreProducto"`
	Cantidad          int      `bson:"cantidad" json:"cantidad"`
	PrecioUnitarioApp float64  `bson:"precioUnitarioCalculadoApp" json:"precioUnitarioCalculadoApp"`
	SubtotalApp       float64  `bson:"subtotalItemCalculadoApp" json:"subtotalItemCalculadoApp"`
	PrecioUnitarioTnd float64  `bson:"precioUnitarioCalculadoTienda" json:"precioUnitarioCalculadoTienda"`
	SubtotalTienda    float64  `bson:"subtotalItemCalculadoTienda" json:"subtotalItemCalculadoTienda"`
	Modificadores     []string `bson:"modificadoresSeleccionados,omitempty" json:"modificadoresSeleccionados,omitempty"`
	Extras            []string `bson:"extrasSeleccionados,omitempty" json:"extrasSeleccionados,omitempty"`
	NotasItem         string   `bson:"notasItem,omitempty" json:"notasItem,omitempty"`
	Imagen            string   `bson:"imagen,omitempty" json:"imagen,omitempty"`
}

type Address struct {
	Alias       string `bson:"alias" json:"alias"`
	Ciudad      string `bson:"ciudad" json:"ciudad"`
	FullAddress string `bson:"fullAddress" json:"fullAddress"`
	Colonia     string `bson:"colonia,omitempty" json:"colonia,omitempty"`
	Telefono    string `bson:"telefono,omitempty" json:"telefono,omitempty"`
}

type RTN struct {
	NombreRTN string `bson:"nombreRTN" json:"nombreRTN"`
	NumeroRTN string `bson:"numeroRTN" json:"numeroRTN"`
	Correo    string `bson:"correoElectronico" json:"correoElectronico"`
}

// DriverRef es la referencia desnormalizada al repartidor asignado.
type DriverRef struct {
	ID     primitive.ObjectID `bson:"_id" json:"id"`
	UID    string             `bson:"uid" json:"uid"`
	Nombre string             `bson:"nombre" json:"nombre"`
	Phone  string             `bson:"telefono,omitempty" json:"telefono,omitempty"`
}
