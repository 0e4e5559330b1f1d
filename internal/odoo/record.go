package odoo

// Odoo's wire format has two quirks the helpers below absorb: empty scalar
// fields arrive as false rather than null/"", and many2one fields arrive as
// [id, display_name] pairs.

// Str returns the string value of a field, or "" when the field is empty.
func Str(r Record, key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

// Float returns the numeric value of a field, or 0 when empty.
func Float(r Record, key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// Relation returns the display name of a many2one field, or "" when unset.
func Relation(r Record, key string) string {
	pair, ok := r[key].([]any)
	if !ok || len(pair) < 2 {
		return ""
	}
	name, _ := pair[1].(string)
	return name
}

// ID returns the record's id.
func ID(r Record) (int, bool) {
	return asInt(r["id"])
}

func recordIDs(records []Record) []any {
	ids := make([]any, 0, len(records))
	for _, r := range records {
		if id, ok := ID(r); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
