package output

// ListOutput is the JSON form of the list command.
type ListOutput struct {
	Connections []string `json:"connections"`
	Datasets    []string `json:"datasets"`
	Charts      []string `json:"charts"`
	Dashboards  []string `json:"dashboards"`
}

// DatasetOutput is the JSON form of a dataset result.
type DatasetOutput struct {
	Name     string           `json:"name"`
	Columns  []string         `json:"columns"`
	Rows     []map[string]any `json:"rows"`
	RowCount int              `json:"row_count"`
}

// MarkupOutput is the JSON form of a rendered chart or dashboard.
type MarkupOutput struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
	HTML string `json:"html"`
}
