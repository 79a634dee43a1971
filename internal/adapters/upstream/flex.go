package upstream

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Neither upstream keeps a stable schema: identifiers arrive as numbers
// or strings, money as numbers or decimal-comma strings like "1250,50".
// These types absorb that at decode time so normalizers see plain Go
// values.

// FlexString decodes a JSON string, number or bool into a string.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(string(b))
	return nil
}

func (f FlexString) String() string { return string(f) }

// FlexFloat decodes a JSON number or numeric string ("8,0" included).
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil // unparsable money is treated as absent, not fatal
		}
		*f = FlexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

// FlexInt decodes a JSON number or numeric string into an int.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	var ff FlexFloat
	if err := ff.UnmarshalJSON(b); err != nil {
		return err
	}
	*f = FlexInt(int(ff))
	return nil
}

// List tolerates both a bare JSON array and a {"data": [...]} envelope.
type List[T any] struct {
	Items []T
}

func (l *List[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		return json.Unmarshal(b, &l.Items)
	}
	var env struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	l.Items = env.Data
	return nil
}
