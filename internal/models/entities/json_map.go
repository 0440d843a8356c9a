package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONMap stores an open-ended column map as a JSON(B) column. Used for the
// unit grid's raw payload and the contract registry's extra data, both of
// which must survive spreadsheet layout drift verbatim.
type JSONMap map[string]string

var _ driver.Valuer = (JSONMap)(nil)

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(src interface{}) error {
	if src == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into JSONMap", src)
	}
	return json.Unmarshal(data, m)
}
