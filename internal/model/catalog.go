// catalog.go
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	SubcategoryAll      = "Todos"
	CategoryTagDefault  = "todas"
	CategoryTagFeatured = "destacadas"
	SelectionSingle     = "unica"
	SelectionMultiple   = "multiple"
)

type GeoPoint struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

type StoreHours struct {
	DiaSemana    string `bson:"diaSemana" json:"diaSemana"`
	HoraApertura string `bson:"horaApertura" json:"horaApertura"`
	HoraCierre   string `bson:"horaCierre" json:"horaCierre"`
}

// Business es un negocio afiliado (colección NegociosAfiliados).
type Business struct {
	ID                       primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UUIDEmpresa              string              `bson:"uuidEmpresa" json:"uuidEmpresa"`
	Nombre                   string              `bson:"NombredelNegocio" json:"NombredelNegocio"`
	Identificador            string              `bson:"identificador" json:"identificador"`
	CategoriaTexto           string              `bson:"categoriaTexto" json:"categoriaTexto"`
	SubCategoria             string              `bson:"subCategoria" json:"subCategoria"`
	Tags                     []string            `bson:"tags" json:"tags"`
	CompraMinima             float64             `bson:"compraMinima" json:"compraMinima"`
	Posicion                 int                 `bson:"posicion" json:"posicion"`
	Ciudad                   string              `bson:"ciudad" json:"ciudad"`
	Colonia                  string              `bson:"colonia" json:"colonia"`
	Direccion                string              `bson:"Direccion" json:"Direccion"`
	Ubicacion                GeoPoint            `bson:"ubicacion" json:"ubicacion"`
	Mostrar                  bool                `bson:"mostrar" json:"mostrar"`
	Abierto                  bool                `bson:"AbiertooCerrado" json:"AbiertooCerrado"`
	RecibePagosOnline        bool                `bson:"recibePagosOnline" json:"recibePagosOnline"`
	SePuedeRecoger           bool                `bson:"sepuederecoger" json:"sepuederecoger"`
	TieneEntregaPrioritaria  bool                `bson:"tiene_entrega_prioritaria" json:"tiene_entrega_prioritaria"`
	PrecioEntregaPrioritaria float64             `bson:"precio_entrega_prioritaria" json:"precio_entrega_prioritaria"`
	DescripcionPrioritaria   string              `bson:"descripcionEntregaPrioritaria" json:"descripcionEntregaPrioritaria"`
	TieneMensaje             bool                `bson:"tieneMensaje" json:"tieneMensaje"`
	MensajeNuevo             string              `bson:"mensajeNuevo" json:"mensajeNuevo"`
	MostrarComoSuper         bool                `bson:"mostrarComoSuper" json:"mostrarComoSuper"`
	ColorFondoDestacados     string              `bson:"colorFondoDestacados" json:"colorFondoDestacados"`
	ColorFondoPromociones    string              `bson:"colorFondoPromociones" json:"colorFondoPromociones"`
	HorarioTienda            []StoreHours        `bson:"horarioTienda" json:"horarioTienda"`
	Imagen                   string              `bson:"Imagen" json:"Imagen"`
	ImagenBanner             string              `bson:"imagenBanner" json:"imagenBanner"`
	SearchKeywords           []string            `bson:"searchKeywords" json:"searchKeywords"`
	ConfiguracionEnvios      *primitive.ObjectID `bson:"configuracionEnvios" json:"configuracionEnvios"`
	TelegramChatID           int64               `bson:"telegramChatId,omitempty" json:"telegramChatId,omitempty"`
}

type FreeShippingByAmount struct {
	Activo             bool    `bson:"activo" json:"activo"`
	MontoMinimo        float64 `bson:"montoMinimo" json:"montoMinimo"`
	MensajePromocional string  `bson:"mensajePromocional" json:"mensajePromocional"`
}

type FixedShippingDiscount struct {
	Activo                 bool    `bson:"activo" json:"activo"`
	CantidadDescuento      float64 `bson:"cantidadDescuento" json:"cantidadDescuento"`
	MontoMinimoParaAplicar float64 `bson:"montoMinimoParaAplicar" json:"montoMinimoParaAplicar"`
	MensajePromocional     string  `bson:"mensajePromocional" json:"mensajePromocional"`
}

type EstimatedTime struct {
	PreparacionMin   float64 `bson:"tiempoPreparacionMin" json:"tiempoPreparacionMin"`
	PreparacionMax   float64 `bson:"tiempoPreparacionMax" json:"tiempoPreparacionMax"`
	VelocidadKmMin   float64 `bson:"velocidadEntregaKmPorMin" json:"velocidadEntregaKmPorMin"`
	AdicionalFijoMin float64 `bson:"tiempoAdicionalFijoMin" json:"tiempoAdicionalFijoMin"`
}

// ShippingConfig vive en configuracionEnvios y apunta de regreso al negocio.
type ShippingConfig struct {
	ID                     primitive.ObjectID    `bson:"_id,omitempty" json:"id"`
	UUIDEmpresa            string                `bson:"uuidEmpresa" json:"uuidEmpresa"`
	IDNegocio              primitive.ObjectID    `bson:"idNegocio" json:"idNegocio"`
	CostoBase              float64               `bson:"costoBase" json:"costoBase"`
	CostoPorKm             float64               `bson:"costoPorKm" json:"costoPorKm"`
	DistanciaMinimaGratis  float64               `bson:"distanciaMinimaGratis" json:"distanciaMinimaGratis"`
	PromocionGratisActiva  bool                  `bson:"promocionEnvioGratisActive" json:"promocionEnvioGratisActive"`
	NombrePromocionGratis  string                `bson:"nombrePromocionEnvioGratis" json:"nombrePromocionEnvioGratis"`
	FinPromocionGratis     *time.Time            `bson:"fechaFinPromocionEnvioGratis" json:"fechaFinPromocionEnvioGratis"`
	EnvioGratisMontoMinimo FreeShippingByAmount  `bson:"envioGratisPorMontoMinimo" json:"envioGratisPorMontoMinimo"`
	DescuentoFijoEnvio     FixedShippingDiscount `bson:"descuentoFijoEnvio" json:"descuentoFijoEnvio"`
	TiempoPromedio         EstimatedTime         `bson:"tiempoPromedioEstimado" json:"tiempoPromedioEstimado"`
}

// Category es una categoría interna de un negocio (colección Categorias).
type Category struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UUID              string             `bson:"uuid" json:"uuid"`
	Categoria         string             `bson:"Categoria" json:"Categoria"`
	Imagen            string             `bson:"Imagen" json:"Imagen"`
	EmpresaTexto      string             `bson:"empresaenTexto" json:"empresaenTexto"`
	UUIDEmpresa       string             `bson:"uuidEmpresa" json:"uuidEmpresa"`
	Posicion          int                `bson:"posicion" json:"posicion"`
	Disponible        bool               `bson:"disponible" json:"disponible"`
	Destacada         bool               `bson:"categoriaDestacada" json:"categoriaDestacada"`
	SubCategoriasText []string           `bson:"subCategoriasText" json:"subCategoriasText"`
	Tags              []string           `bson:"tags" json:"tags"`
}

type Variant struct {
	EsDefault      bool    `bson:"esDefault" json:"esDefault"`
	NombreVariante string  `bson:"nombreVariante" json:"nombreVariante"`
	PrecioTienda   float64 `bson:"precioTienda" json:"precioTienda"`
	AdicionalApp   float64 `bson:"adicionalApp" json:"adicionalApp"`
	PrecioVentaApp float64 `bson:"precioVentaApp" json:"precioVentaApp"`
	Disponible     bool    `bson:"disponible" json:"disponible"`
}

type ExtraItem struct {
	TituloDelGrupo string  `bson:"tituloDelGrupo" json:"tituloDelGrupo"`
	Nombre         string  `bson:"nombre" json:"nombre"`
	Costo          float64 `bson:"costo" json:"costo"`
	AdicionalApp   float64 `bson:"adicionalApp" json:"adicionalApp"`
	PrecioVentaApp float64 `bson:"precioVentaApp" json:"precioVentaApp"`
}

type ExtraGroup struct {
	TituloDelGrupo string      `bson:"tituloDelGrupo" json:"tituloDelGrupo"`
	TipoSeleccion  string      `bson:"tipoDeSeleccion" json:"tipoDeSeleccion"`
	Items          []ExtraItem `bson:"items" json:"items"`
}

// Product vive en la colección productos; UUID es el id estable para cruces.
type Product struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UUID              string             `bson:"uuid" json:"uuid"`
	UUIDEmpresa       string             `bson:"uuidEmpresa" json:"uuidEmpresa"`
	Empresa           string             `bson:"Empresa" json:"Empresa"`
	Name              string             `bson:"name" json:"name"`
	Description       string             `bson:"description" json:"description"`
	Price             float64            `bson:"price" json:"price"`
	AdicionalApp      float64            `bson:"adicional_para_la_app" json:"adicional_para_la_app"`
	SalePrice         float64            `bson:"sale_price" json:"sale_price"`
	Quantity          int                `bson:"quantity" json:"quantity"`
	Imagen            string             `bson:"Imagen" json:"Imagen"`
	Posicion          int                `bson:"posicion" json:"posicion"`
	TieneDescuento    bool               `bson:"tiene_descuento" json:"tiene_descuento"`
	PrecioDescuento   float64            `bson:"precio_descuento" json:"precio_descuento"`
	Disponible        bool               `bson:"disponible" json:"disponible"`
	Destacado         bool               `bson:"producto_destacado" json:"producto_destacado"`
	Categorias        []string           `bson:"categorias" json:"categorias"`
	CategoriaTexto    string             `bson:"categoriaenTexto" json:"categoriaenTexto"`
	SubCategoriasText []string           `bson:"subCategoriasText" json:"subCategoriasText"`
	TieneVariantes    bool               `bson:"tieneVariantes" json:"tieneVariantes"`
	Variantes         []Variant          `bson:"variantesProducto" json:"variantesProducto"`
	GruposDeExtras    []ExtraGroup       `bson:"gruposDeExtras" json:"gruposDeExtras"`
	Tags              []string           `bson:"tags" json:"tags"`
	SKU               string             `bson:"sku" json:"sku"`
	SearchKeywords    []string           `bson:"searchKeywords" json:"searchKeywords"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	ModifiedAt        time.Time          `bson:"modified_at" json:"modified_at"`
}

type ModifierOption struct {
	OpcionID           string  `bson:"opcionID" json:"opcionID"`
	Nombre             string  `bson:"nombre" json:"nombre"`
	AjustePrecioTienda float64 `bson:"ajustePrecioTienda" json:"ajustePrecioTienda"`
	AdicionalApp       float64 `bson:"adicionalApp" json:"adicionalApp"`
	TotalVariation     float64 `bson:"totalVariation" json:"totalVariation"`
	ImageURL           string  `bson:"imageUrl" json:"imageUrl"`
}

// ModifierGroup se relaciona con el producto por productoId; productId es el campo legado.
type ModifierGroup struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IDModificador  string             `bson:"idModificador" json:"idModificador"`
	ProductoID     string             `bson:"productoId" json:"productoId"`
	LegacyProduct  string             `bson:"productId,omitempty" json:"productId,omitempty"`
	BusinessIDText string             `bson:"businessIDText" json:"businessIDText"`
	Nombre         string             `bson:"nombre" json:"nombre"`
	TipoSeleccion  string             `bson:"tipoSeleccion" json:"tipoSeleccion"`
	MinSeleccion   int                `bson:"minSeleccion" json:"minSeleccion"`
	MaxSeleccion   int                `bson:"maxSeleccion" json:"maxSeleccion"`
	Orden          int                `bson:"orden" json:"orden"`
	Opciones       []ModifierOption   `bson:"opciones" json:"opciones"`
}

type MarketplaceSubcategory struct {
	Nombre    string `bson:"nombre" json:"nombre"`
	ImagenURL string `bson:"imagenUrl" json:"imagenUrl"`
}

// MarketplaceCategory es una categoría de la portada del marketplace.
type MarketplaceCategory struct {
	ID            primitive.ObjectID       `bson:"_id,omitempty" json:"id"`
	Nombre        string                   `bson:"categorieName" json:"categorieName"`
	Ciudades      []string                 `bson:"ciudades" json:"ciudades"`
	Visible       bool                     `bson:"visible" json:"visible"`
	Image         string                   `bson:"image" json:"image"`
	Position      int                      `bson:"position" json:"position"`
	Subcategorias []MarketplaceSubcategory `bson:"subcategorias" json:"subcategorias"`
	BannerGrande  bool                     `bson:"banner_grande" json:"banner_grande"`
}
