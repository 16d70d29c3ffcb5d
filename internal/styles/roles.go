package styles

// Roles maps the semantic terminal roles to design token names.
type Roles struct {
	Title   string `json:"title"`
	Text    string `json:"text"`
	Muted   string `json:"muted"`
	Accent  string `json:"accent"`
	Border  string `json:"border"`
	Success string `json:"success"`
	Warning string `json:"warning"`
	Error   string `json:"error"`
}

// DefaultRoles matches the token names of the builtin portal definition.
var DefaultRoles = Roles{
	Title:   "primary-color",
	Text:    "text-color",
	Muted:   "muted-color",
	Accent:  "secondary-color",
	Border:  "border-color",
	Success: "success-color",
	Warning: "warning-color",
	Error:   "danger-color",
}

func (r Roles) entries() []roleEntry {
	return []roleEntry{
		{"title", r.Title},
		{"text", r.Text},
		{"muted", r.Muted},
		{"accent", r.Accent},
		{"border", r.Border},
		{"success", r.Success},
		{"warning", r.Warning},
		{"error", r.Error},
	}
}

type roleEntry struct {
	role  string
	token string
}
