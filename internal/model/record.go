package model

// Record is a schema-agnostic map for any data source. Values are one of
// string, float64/int, bool, []interface{} or a nested Record-shaped map.
type Record map[string]interface{}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
