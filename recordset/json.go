package recordset

import (
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/teranos/paddock/errors"
)

// DecodeJSON reads a JSON array of objects into a Set. Object keys become
// columns in the order they first appear in the document, so two decodes of the
// same bytes always yield the same schema. Numbers stay json.Number to keep the
// provider's exact textual form.
func DecodeJSON(r io.Reader) (*Set, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrap(err, "read array start")
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, errors.Newf("expected JSON array, got %v", tok)
	}

	s := New(nil)
	for dec.More() {
		row, keys, err := decodeObject(dec)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", s.Len())
		}
		for _, k := range keys {
			s.addColumn(k)
		}
		s.rows = append(s.rows, row)
	}

	if _, err := dec.Token(); err != nil {
		return nil, errors.Wrap(err, "read array end")
	}
	return s, nil
}

func decodeObject(dec *json.Decoder) (Row, []string, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, errors.Newf("expected object, got %v", tok)
	}

	row := make(Row)
	var keys []string
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := kt.(string)
		if !ok {
			return nil, nil, errors.Newf("expected object key, got %v", kt)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, nil, errors.Wrapf(err, "value of %q", key)
		}
		if _, dup := row[key]; !dup {
			keys = append(keys, key)
		}
		row[key] = v
	}

	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return row, keys, nil
}

// Format renders a cell value as text for flat output. Null renders empty.
// Nested arrays and objects render as compact JSON with sorted keys.
func Format(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(data)
	}
}
