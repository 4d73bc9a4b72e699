package model

import (
	"bytes"
	"encoding/json"
)

// ID is a launch identifier. The provider emits numeric ids, the state file
// keeps them as strings, so both encodings are accepted on input.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

type Provider struct {
	Name string `json:"name"`
}

type Launch struct {
	ID          ID       `json:"id"`
	Provider    Provider `json:"provider"`
	Name        string   `json:"name"`
	Description string   `json:"launch_description"`
	QuickText   string   `json:"quicktext"`
	T0          string   `json:"t0"`
}

type LaunchList struct {
	Result []Launch `json:"result"`
}

type Notification struct {
	Title   string
	Message string
	Tags    []string
}
