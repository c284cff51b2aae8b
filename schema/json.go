package schema

import (
	"encoding/json"
	"math"
)

// jsonFloat encodes finite values as JSON numbers and NaN or infinities as the
// strings "NaN", "+Inf" and "-Inf", which encoding/json rejects as numbers.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	}
	return json.Marshal(v)
}

// MarshalJSON keeps the struct tags of MemberScore while allowing non-finite scores.
func (m MemberScore) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name         string    `json:"name"`
		Weight       jsonFloat `json:"weight"`
		Mode         Mode      `json:"mode"`
		Score        jsonFloat `json:"score"`
		Contribution jsonFloat `json:"contribution"`
	}{m.Name, jsonFloat(m.Weight), m.Mode, jsonFloat(m.Score), jsonFloat(m.Contribution)})
}

// MarshalJSON keeps the struct tags of ComparisonResult while allowing non-finite scores.
func (r ComparisonResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Left    string        `json:"left"`
		Right   string        `json:"right"`
		Score   jsonFloat     `json:"score"`
		Members []MemberScore `json:"members,omitempty"`
	}{r.Left, r.Right, jsonFloat(r.Score), r.Members})
}
