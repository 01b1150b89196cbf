package views

import (
	"io"
	"strings"
	"text/template"

	"coursepick/internal/models/response_models"
)

var textTpl = template.Must(template.New("text").Funcs(template.FuncMap{
	"credits": response_models.FormatCredits,
	"deref": func(p *float64) float64 {
		if p == nil {
			return 0
		}
		return *p
	},
	"join": func(items []string) string { return strings.Join(items, "、") },
}).Parse(plainTextTemplate))

// WriteText prints an outcome for a terminal. A failed outcome prints only its error.
func WriteText(w io.Writer, outcome response_models.Outcome) error {
	return textTpl.Execute(w, outcome)
}

const plainTextTemplate = `{{if .Failed}}错误: {{.Error}}
{{else}}{{if .Message}}{{.Message}}
{{end}}{{if .TotalCredits}}总学分: {{credits (deref .TotalCredits)}}
{{end}}{{range .Semesters}}
=== 第{{.Label}}学期 ({{credits .Credits}} 学分) ===
{{range .Courses}}- {{.Name}} | {{.CreditsLabel}} 学分{{if .Time}} | {{.Time}}{{end}}{{if .Teacher}} | {{.Teacher}}{{end}}{{if .Location}} | {{.Location}}{{end}}{{if .Note}} | {{.Note}}{{end}}{{if .SubjectCategory}} | {{join .SubjectCategory}}{{end}}
{{end}}{{end}}{{end}}`
