package router

import "encoding/json"

// Payload is the decoded JSON body of a request. A missing, malformed,
// or non-object body decodes to an empty Payload, so every downstream
// field lookup reads as "absent" instead of failing the request.
type Payload map[string]any

func decodePayload(raw []byte) Payload {
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil || p == nil {
		return Payload{}
	}
	return p
}

// String returns the field as a string. A missing field or one of the
// wrong type reads as absent.
func (p Payload) String(key string) (string, bool) {
	v, ok := p[key].(string)
	return v, ok
}

// Bool returns the field as a bool, with the same absent-on-wrong-type
// behavior as String.
func (p Payload) Bool(key string) (bool, bool) {
	v, ok := p[key].(bool)
	return v, ok
}
