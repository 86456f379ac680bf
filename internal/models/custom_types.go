package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// StringList custom type for JSONB-backed string arrays
type StringList []string

// Scan implements the sql.Scanner interface
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	var temp []string
	if err := json.Unmarshal(bytes, &temp); err != nil {
		return err
	}

	*l = temp
	return nil
}

// Value implements the driver.Valuer interface
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	return json.Marshal([]string(l))
}
