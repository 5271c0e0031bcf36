package models

import "encoding/json"

// EncodeList marshals a string list for a JSON text column. A nil list is
// stored as "[]" so reads never produce null.
func EncodeList(list []string) string {
	if list == nil {
		list = []string{}
	}
	b, _ := json.Marshal(list)
	return string(b)
}

// DecodeList unmarshals a JSON text column written by EncodeList.
func DecodeList(raw string) ([]string, error) {
	list := []string{}
	if raw == "" {
		return list, nil
	}
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, err
	}
	return list, nil
}
