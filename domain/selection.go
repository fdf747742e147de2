package domain

// Selection is the dashboard's active flag and active detail field.
type Selection struct {
	ActiveFlag  string `json:"active_flag"`
	DetailField string `json:"detail_field"`
}
