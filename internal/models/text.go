// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// DefaultLang is the mandatory fallback language for every localized field.
const DefaultLang = "en"

// Text is a localized string keyed by language code ("en", "hi", "gu", ...).
// Entries decoded from JSON null are dropped, so a present key always
// carries a defined value.
type Text map[string]string

// UnmarshalJSON decodes a language map, skipping null entries.
func (t *Text) UnmarshalJSON(b []byte) error {
	var raw map[string]*string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == nil {
		*t = nil
		return nil
	}
	out := make(Text, len(raw))
	for lang, v := range raw {
		if v != nil {
			out[lang] = *v
		}
	}
	*t = out
	return nil
}

// Lookup returns the value for lang and whether it is defined.
func (t Text) Lookup(lang string) (string, bool) {
	v, ok := t[lang]
	return v, ok
}

// Value implements driver.Valuer, storing the map as a JSONB document.
func (t Text) Value() (driver.Value, error) {
	if t == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]string(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for JSONB columns.
func (t *Text) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = nil
		return nil
	case []byte:
		return t.UnmarshalJSON(v)
	case string:
		return t.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("text scan: unsupported type %T", src)
	}
}
