package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// Number is a float that decodes from either a JSON number or a numeric string.
// The backend is loose about which one it sends for nutrient values. Null and
// blank strings decode as zero; booleans are rejected.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case bool:
		return fmt.Errorf("coercing %s to number: booleans are not numbers", data)
	case string:
		raw = strings.TrimSpace(v)
		if raw == "" {
			*n = 0
			return nil
		}
	}

	f, err := cast.ToFloat64E(raw)
	if err != nil {
		return fmt.Errorf("coercing %s to number: %w", data, err)
	}

	*n = Number(f)
	return nil
}

func (n Number) Float() float64 {
	return float64(n)
}

// ID is an identifier the backend may send as an integer or a string.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s, err := cast.ToStringE(raw)
	if err != nil {
		return fmt.Errorf("coercing %s to id: %w", data, err)
	}

	*id = ID(s)
	return nil
}

func (id ID) String() string {
	return string(id)
}
