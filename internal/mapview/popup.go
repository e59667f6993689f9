package mapview

import (
	"bytes"
	"strconv"
	"strings"
	"text/template"

	"github.com/garnizeh/techstaff/pkg/models"
)

var funcs = template.FuncMap{
	"amount": func(f *float64) string { return strconv.FormatFloat(*f, 'f', -1, 64) },
	// text dereferences an optional string; blank text renders as empty.
	"text": func(s *string) string {
		if s == nil {
			return ""
		}
		return strings.TrimSpace(*s)
	},
}

var missionTmpl = template.Must(template.New("mission").Funcs(funcs).Parse(
	`{{.Title}}
{{.Description}}
📍 {{.Location}}
{{- if .Salary}}
💰 {{amount .Salary}} €/jour
{{- end}}
{{- with text .Requirements}}
⚡ {{.}}
{{- end}}
Statut: {{.Status}}`))

var technicianTmpl = template.Must(template.New("technician").Parse(
	`{{.Name}}
Spécialité: {{.Specialty.Label}}
{{if .Availability}}Disponible{{else}}Indisponible{{end}}`))

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func missionPopup(m *models.Mission) (string, error) {
	return render(missionTmpl, m)
}

func technicianPopup(t *models.Technician) (string, error) {
	return render(technicianTmpl, t)
}
