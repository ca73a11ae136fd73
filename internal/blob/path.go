package blob

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// CleanPath normaliza una ruta de blob: sin barras iniciales ni segmentos "..".
func CleanPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	p = path.Clean("/" + p)
	return strings.TrimPrefix(p, "/")
}

// Rutas con las que se guardan las imágenes de cada entidad.

func ProductImagePath(uuidEmpresa, productUUID string) string {
	return fmt.Sprintf("product_images/%s/%s", uuidEmpresa, productUUID)
}

func CategoryImagePath(uuidEmpresa, categoryUUID string) string {
	return fmt.Sprintf("category_images/%s/%s", uuidEmpresa, categoryUUID)
}

func BusinessImagePath(uuidEmpresa, fileName string, now time.Time) string {
	return fmt.Sprintf("business_images/%s/%s-%d", uuidEmpresa, path.Base(fileName), now.UnixMilli())
}

func BusinessBannerPath(uuidEmpresa, fileName string, now time.Time) string {
	return fmt.Sprintf("business_banners/%s/%s-%d", uuidEmpresa, path.Base(fileName), now.UnixMilli())
}

func MarketplaceImagePath(fileName string, now time.Time) string {
	return fmt.Sprintf("marketplace_images/%d-%s", now.UnixMilli(), path.Base(fileName))
}

func MarketplaceSubcategoryImagePath(fileName string, now time.Time) string {
	return fmt.Sprintf("marketplace_images/subcategories/%d-sub-%s", now.UnixMilli(), path.Base(fileName))
}

func ModifierOptionImagePath(productUUID, optionID string) string {
	return fmt.Sprintf("modifier_options/%s/%s", productUUID, optionID)
}
