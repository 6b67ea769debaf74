package domain

// Todo is the persisted entity. The id doubles as the creation timestamp:
// it is minted from the clock and created_at is set to the same value.
type Todo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Deadline  string `json:"deadline"`
	CreatedAt string `json:"created_at"`
	Completed bool   `json:"completed"`
}

// Truthy reports the truthiness of a decoded JSON value. Records written by
// older clients may hold completed as a number, a string or nothing at all;
// false, 0, "" and null read as false, everything else as true.
func Truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	case nil:
		return false
	default:
		// objects and arrays
		return true
	}
}
