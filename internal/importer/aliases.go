package importer

import (
	"fmt"

	"kvadrat-crm/inventory/internal/normalize"
)

// Logical fields of the unit grid. The four load-bearing ones abort the
// import when no header resolves to them.
const (
	FieldBlockName  = "block_name"
	FieldUnitType   = "unit_type"
	FieldStatus     = "status"
	FieldRooms      = "rooms"
	FieldUnitNumber = "unit_number"
	FieldAreaSqm    = "area_sqm"
	FieldFloor      = "floor"
)

// chessHeaderAliases maps each logical unit-grid field to the normalized
// header spellings seen in the wild. Keys on the right-hand side must already
// be in normalize.Header form.
var chessHeaderAliases = map[string][]string{
	FieldBlockName:  {"блок", "block", "корпус"},
	FieldUnitType:   {"тип", "type"},
	FieldStatus:     {"статус", "status"},
	FieldRooms:      {"колвокомнат", "количествокомнат", "rooms"},
	FieldUnitNumber: {"номерпомещения", "номерпомещение", "номер", "квартира", "кв"},
	FieldAreaSqm:    {"площадьм2", "площадь", "area"},
	FieldFloor:      {"этаж", "floor"},
}

var chessRequiredFields = []string{FieldBlockName, FieldStatus, FieldUnitNumber, FieldFloor}

// contractHeaderMap maps normalized registry headers to entry fields. The
// registry has a denser layout than the unit grid, so this is a direct
// header→field map rather than a per-field alias list.
var contractHeaderMap = map[string]string{
	"договора":             "contract_number",
	"недоговора":           "contract_number",
	"датадоговора":         "contract_date",
	"блок":                 "block_name",
	"этаж":                 "floor",
	"кв":                   "apartment_number",
	"квартиры":             "apartment_number",
	"номерпомещения":       "apartment_number",
	"колвоком":             "rooms",
	"квадратураквартиры":   "area_sqm",
	"общстоимостьдоговора": "total_price",
	"стоимость1квм":        "price_per_sqm",
	"процент1взноса":       "down_payment_percent",
	"сумма1взноса":         "down_payment_amount",
	"фио":                  "buyer_full_name",
	"серияпаспорта":        "buyer_passport_series",
	"пинфл":                "buyer_pinfl",
	"кемвыдан":             "issued_by",
	"адреспрописки":        "registration_address",
	"номертел":             "phone_number",
	"отделпродаж":          "sales_department",
}

// ValidateAliases checks the chess alias table for accidental overlap: one
// normalized spelling claiming two logical fields would make header
// resolution order-dependent. Called once from the composition root.
func ValidateAliases() error {
	claimed := map[string]string{}
	for field, aliases := range chessHeaderAliases {
		for _, alias := range aliases {
			if normalize.Header(alias) != alias {
				return fmt.Errorf("alias %q of field %q is not in normalized form", alias, field)
			}
			if prev, ok := claimed[alias]; ok && prev != field {
				return fmt.Errorf("alias %q claimed by both %q and %q", alias, prev, field)
			}
			claimed[alias] = field
		}
	}
	return nil
}

// mapHeaders resolves each logical field to a column index using the alias
// table. First matching column wins; unresolvable fields are simply absent.
func mapHeaders(headers []string, aliases map[string][]string) map[string]int {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalize.Header(h)
	}

	headerMap := map[string]int{}
	for field, patterns := range aliases {
		for idx, header := range normalized {
			if header == "" {
				continue
			}
			for _, pattern := range patterns {
				if header == pattern {
					headerMap[field] = idx
					break
				}
			}
			if _, ok := headerMap[field]; ok {
				break
			}
		}
	}
	return headerMap
}
