package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSONMap is a map stored as a JSONB column. Used for form field validation
// rules and history snapshots.
type JSONMap map[string]any

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	b, err := toBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, m)
}

// StringList is a string slice stored as a JSONB column. Used for the options
// of select/radio form fields.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}
	b, err := toBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, l)
}

func toBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, errors.New("unsupported type for JSON column")
	}
}
