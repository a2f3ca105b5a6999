package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"reflect"
)

// PropertyMap holds the loose browser signals (screen, language) persisted
// alongside a visit without promoting them to columns.
type PropertyMap map[string]interface{}

// Value implements driver.Valuer, marshalling the map to JSONB.
func (p PropertyMap) Value() (driver.Value, error) {
	j, err := json.Marshal(p)
	return j, err
}

// Scan implements sql.Scanner, unmarshalling JSONB back into the map.
func (p *PropertyMap) Scan(src interface{}) error {
	v := reflect.ValueOf(src)
	if !v.IsValid() || v.IsNil() {
		return nil
	}

	source, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("Type assertion .([]byte) failed.")
	}

	var i interface{}
	if err := json.Unmarshal(source, &i); err != nil {
		return err
	}
	if i == nil {
		return nil
	}

	*p, ok = i.(map[string]interface{})
	if !ok {
		return fmt.Errorf("Type assertion .(map[string]interface{}) failed.")
	}
	return nil
}
