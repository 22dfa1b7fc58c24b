// Package catalog parses raw product documents from the hosted backend into
// validated Product records. Backend documents drifted across schema
// versions (localized text objects vs plain strings, three image layouts,
// renamed stock fields), so every field has one well-defined fallback order
// and missing data defaults instead of erroring.
package catalog

import (
	"matjar/internal/models"
)

// Defaults applied when a document omits a field.
const (
	DefaultMaxSellingPrice  = 30000
	DefaultMaxOrderQuantity = 6
)

// ParseProduct converts a raw backend document into a Product. It never
// fails: unparseable fields take their documented defaults so rendering
// stays resilient to schema drift.
func ParseProduct(id string, doc map[string]any) *models.Product {
	p := &models.Product{
		ID:               id,
		Name:             localizedText(doc["name"]),
		Description:      localizedText(doc["description"]),
		Badge:            localizedText(doc["badge"]),
		CategoryID:       stringField(doc["categoryId"]),
		ImageURL:         imageURL(doc),
		WholesalePrice:   intField(doc["wholesalePrice"], 0),
		MinSellingPrice:  intField(doc["minSellingPrice"], 0),
		MaxSellingPrice:  intField(doc["maxSellingPrice"], DefaultMaxSellingPrice),
		Stock:            stock(doc),
		MaxOrderQuantity: intField(doc["maxOrderQuantity"], DefaultMaxOrderQuantity),
	}
	p.Variants = parseVariantSchema(doc["variantSchema"], p.WholesalePrice, p.Stock)
	return p
}

// localizedText resolves a field that may be a plain string or a localized
// object. The fallback order is Arabic, then English, then Kurdish.
func localizedText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		for _, lang := range []string{"ar", "en", "ku"} {
			if s, ok := t[lang].(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func stringField(v any) string {
	s, _ := v.(string)
	return s
}

// intField accepts JSON numbers (decoded as float64) and ints.
func intField(v any, fallback int) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	}
	return fallback
}

// stock prefers the newer "quantity" field over the legacy "stock" field and
// treats a missing value as out of stock.
func stock(doc map[string]any) int {
	if n := intField(doc["quantity"], -1); n >= 0 {
		return n
	}
	return intField(doc["stock"], 0)
}

// imageURL resolves the display image. Priority: the primary image of the
// media array, then the media array's first image, then the flat imageUrl
// field, then the legacy images array.
func imageURL(doc map[string]any) string {
	if media, ok := doc["media"].([]any); ok {
		first := ""
		for _, entry := range media {
			m, ok := entry.(map[string]any)
			if !ok || stringField(m["type"]) != "image" {
				continue
			}
			url := stringField(m["url"])
			if url == "" {
				continue
			}
			if primary, _ := m["isPrimary"].(bool); primary {
				return url
			}
			if first == "" {
				first = url
			}
		}
		if first != "" {
			return first
		}
	}
	if url := stringField(doc["imageUrl"]); url != "" {
		return url
	}
	if images, ok := doc["images"].([]any); ok && len(images) > 0 {
		return stringField(images[0])
	}
	return ""
}

// parseVariantSchema turns the backend's variant schema into color variants
// with nested size options. Two layouts exist: color options carrying their
// own "sizes" arrays (with per-size price and quantity), and a flat schema
// with a separate size dimension whose options apply to every color. Flat
// sizes carry no price or stock of their own, so they inherit the product's
// base values.
func parseVariantSchema(v any, basePrice, baseStock int) []models.ColorVariant {
	schema, ok := v.([]any)
	if !ok {
		return nil
	}

	var variants []models.ColorVariant
	var flatSizes []models.SizeOption

	for _, entry := range schema {
		dim, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		options, _ := dim["options"].([]any)
		switch stringField(dim["type"]) {
		case "color":
			for _, o := range options {
				opt, ok := o.(map[string]any)
				if !ok {
					continue
				}
				variants = append(variants, models.ColorVariant{
					Name:     optionLabel(opt),
					ImageURL: stringField(opt["imageUrl"]),
					Sizes:    parseSizes(opt["sizes"], basePrice, baseStock),
				})
			}
		case "size":
			for _, o := range options {
				opt, ok := o.(map[string]any)
				if !ok {
					continue
				}
				flatSizes = append(flatSizes, models.SizeOption{
					Value:          optionLabel(opt),
					Quantity:       baseStock,
					WholesalePrice: basePrice,
				})
			}
		}
	}

	if len(flatSizes) > 0 {
		for i := range variants {
			if len(variants[i].Sizes) == 0 {
				variants[i].Sizes = append([]models.SizeOption(nil), flatSizes...)
			}
		}
		// A size dimension without any color dimension still needs a home.
		if len(variants) == 0 {
			variants = append(variants, models.ColorVariant{Sizes: flatSizes})
		}
	}
	return variants
}

func parseSizes(v any, basePrice, baseStock int) []models.SizeOption {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	var sizes []models.SizeOption
	for _, entry := range raw {
		s, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		value := stringField(s["value"])
		if value == "" {
			value = optionLabel(s)
		}
		sizes = append(sizes, models.SizeOption{
			Value:          value,
			Quantity:       intField(s["quantity"], baseStock),
			WholesalePrice: intField(s["wholesalePrice"], basePrice),
		})
	}
	return sizes
}

// optionLabel prefers the localized label and falls back to the raw value.
func optionLabel(opt map[string]any) string {
	if label := localizedText(opt["label"]); label != "" {
		return label
	}
	return stringField(opt["value"])
}
