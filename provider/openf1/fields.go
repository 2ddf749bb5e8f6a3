package openf1

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/teranos/paddock/recordset"
)

func intField(r recordset.Row, key string) (int, bool) {
	switch v := r[key].(type) {
	case json.Number:
		n, err := strconv.Atoi(v.String())
		return n, err == nil
	case int:
		return v, true
	case float64:
		return int(v), true
	}
	return 0, false
}

func stringField(r recordset.Row, key string) string {
	s, _ := r[key].(string)
	return s
}

// timeField parses OpenF1 timestamps such as "2023-03-05T15:00:00+00:00".
func timeField(r recordset.Row, key string) (time.Time, bool) {
	s := stringField(r, key)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}
