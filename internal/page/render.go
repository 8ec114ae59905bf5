package page

import (
	"embed"
	"html/template"
	"io"
	"saved-jobs-go/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Alert messages shown after a redirect.
const (
	AlertRemoveFailed = "remove-failed"
	AlertRateLimited  = "rate-limited"
)

var alertText = map[string]string{
	AlertRemoveFailed: "Failed to remove job",
	AlertRateLimited:  "Too many removals, please wait a moment and try again",
}

// Routes are the URLs the rendered page links to.
type Routes struct {
	List       string
	Browse     string
	Unsave     func(id models.JobID) string
	JobDetails func(id models.JobID) string
}

// Data is everything a template needs.
type Data struct {
	View
	Routes Routes
	Alert  string
}

// AlertText is the user-facing text for the data's alert code, if any.
func (d Data) AlertText() string {
	return alertText[d.Alert]
}

// Is reports whether the page is in state s. Templates call it by name.
func (d Data) Is(s string) bool {
	return d.State().String() == s
}

type cardData struct {
	Routes Routes
	Job    models.SavedJob
}

func newCardData(routes Routes, job models.SavedJob) cardData {
	return cardData{Routes: routes, Job: job}
}

// Renderer executes the page templates.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("page").Funcs(template.FuncMap{
		"salary":   FormatSalary,
		"cardData": newCardData,
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Page renders the whole document.
func (r *Renderer) Page(w io.Writer, data Data) error {
	return r.tmpl.ExecuteTemplate(w, "document", data)
}

// List renders only the list container, for in-place updates.
func (r *Renderer) List(w io.Writer, data Data) error {
	return r.tmpl.ExecuteTemplate(w, "list", data)
}
