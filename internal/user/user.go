package user

import (
	"encoding/json"
	"time"
)

type User struct {
	ID        string    `json:"id" bson:"_id"`
	FirstName string    `json:"firstName" bson:"firstName"`
	LastName  string    `json:"lastName" bson:"lastName"`
	Age       int       `json:"age" bson:"age"`
	Email     string    `json:"email" bson:"email"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Registration is the raw request body of POST /register. Fields stay
// undecoded so that a missing key, an explicit null and a wrong JSON type
// can be told apart.
type Registration struct {
	FirstName json.RawMessage `json:"firstName"`
	LastName  json.RawMessage `json:"lastName"`
	Age       json.RawMessage `json:"age"`
	Email     json.RawMessage `json:"email"`
}

// NewRegistration builds a Registration from Go values. A nil value leaves
// the field out of the request.
func NewRegistration(firstName, lastName, age, email any) (Registration, error) {
	var reg Registration
	targets := []struct {
		value any
		dst   *json.RawMessage
	}{
		{firstName, &reg.FirstName},
		{lastName, &reg.LastName},
		{age, &reg.Age},
		{email, &reg.Email},
	}
	for _, t := range targets {
		if t.value == nil {
			continue
		}
		b, err := json.Marshal(t.value)
		if err != nil {
			return Registration{}, err
		}
		*t.dst = b
	}
	return reg, nil
}

// fields decodes the present fields into plain JSON values. Absent fields are
// left out of the map; a JSON null is kept as a nil value.
func (r Registration) fields() (map[string]any, error) {
	raw := map[string]json.RawMessage{
		"firstName": r.FirstName,
		"lastName":  r.LastName,
		"age":       r.Age,
		"email":     r.Email,
	}

	out := make(map[string]any, len(raw))
	for field, msg := range raw {
		if len(msg) == 0 {
			continue
		}
		var v any
		if err := json.Unmarshal(msg, &v); err != nil {
			return nil, err
		}
		out[field] = v
	}
	return out, nil
}
