package ledger

import (
	"bytes"
	"encoding/json"
)

// NumberText is numeric user input kept as typed. It decodes from either a
// JSON string ("0,5") or a JSON number (0.5).
type NumberText string

// UnmarshalJSON implements json.Unmarshaler.
func (t *NumberText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = NumberText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*t = NumberText(n.String())
	return nil
}
