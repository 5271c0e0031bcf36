package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Subject identifies the owner of a token. Locally issued accounts carry the
// numeric row id; identities from the external provider carry its opaque
// string id. It is encoded as a JSON number or string respectively.
type Subject struct {
	local    int64
	external string
}

func LocalSubject(id int64) Subject { return Subject{local: id} }

func ExternalSubject(id string) Subject { return Subject{external: id} }

// IsLocal reports whether the subject refers to a row in local storage.
func (s Subject) IsLocal() bool { return s.external == "" }

// LocalID returns the numeric id; it is zero for external subjects.
func (s Subject) LocalID() int64 { return s.local }

func (s Subject) String() string {
	if s.IsLocal() {
		return strconv.FormatInt(s.local, 10)
	}
	return s.external
}

func (s Subject) MarshalJSON() ([]byte, error) {
	if s.IsLocal() {
		return []byte(strconv.FormatInt(s.local, 10)), nil
	}
	return json.Marshal(s.external)
}

func (s *Subject) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var ext string
		if err := json.Unmarshal(data, &ext); err != nil {
			return err
		}
		if ext == "" {
			return fmt.Errorf("empty subject id")
		}
		*s = ExternalSubject(ext)
		return nil
	}
	id, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid subject id %s: %w", data, err)
	}
	*s = LocalSubject(id)
	return nil
}
