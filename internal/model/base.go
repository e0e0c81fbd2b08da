package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// JSONMap represents a generic JSON object stored in a JSON/TEXT column.
type JSONMap map[string]interface{}

// Value implements driver.Valuer. A nil map is stored as NULL; anything else
// is bound as JSON text so both JSONB and TEXT columns accept it.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode json map: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported json map source %T", src)
	}
	if len(raw) == 0 {
		*m = nil
		return nil
	}
	out := JSONMap{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("failed to decode json map: %w", err)
	}
	*m = out
	return nil
}

// FlexibleID is an integer id that also decodes from a numeric JSON string,
// so both {"userId": 7} and {"userId": "7"} bind.
type FlexibleID int64

func (id *FlexibleID) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
		if raw == "" {
			*id = 0
			return nil
		}
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return &json.UnmarshalTypeError{Value: "string " + strconv.Quote(raw), Type: reflect.TypeOf(int64(0))}
	}
	*id = FlexibleID(n)
	return nil
}
