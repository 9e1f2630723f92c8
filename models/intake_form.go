package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
)

const (
	// form field carrying the rescue date
	rescueDateField = "leidmis_kp"
	// form field referencing uploaded photos, never mirrored to the sheet
	photoField = "pildid"
)

// FormField is a single submitted form field.
type FormField struct {
	Key   string
	Value any
}

// IntakeForm is the add-cat form payload. The mirrored spreadsheet row
// must reproduce the form's fields in submission order, so the payload
// is decoded with a token walk instead of a map.
type IntakeForm struct {
	Fields []FormField
}

// UnmarshalJSON decodes a JSON object preserving key order.
func (f *IntakeForm) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("intake form must be a JSON object")
	}

	f.Fields = nil
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return errors.New("invalid intake form key")
		}
		var val any
		if err := dec.Decode(&val); err != nil {
			return err
		}
		f.Fields = append(f.Fields, FormField{Key: key, Value: val})
	}

	_, err = dec.Token() // closing brace
	return err
}

// RescueDate parses the leidmis_kp field. A missing, empty or
// unparseable value yields nil, matching the nullable column.
func (f *IntakeForm) RescueDate() *time.Time {
	for _, field := range f.Fields {
		if field.Key != rescueDateField {
			continue
		}
		s, ok := field.Value.(string)
		if !ok || s == "" {
			return nil
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, s); err == nil {
				return &t
			}
		}
		return nil
	}
	return nil
}

// SheetValues returns the mirrored row values: the generated animal id
// first, then every form value in submission order with the photo
// reference stripped.
func (f *IntakeForm) SheetValues(animalID uint) []any {
	values := []any{animalID}
	for _, field := range f.Fields {
		if field.Key == photoField {
			continue
		}
		values = append(values, field.Value)
	}
	return values
}
