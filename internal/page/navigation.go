package page

import (
	"net/http"
	"net/url"
	"saved-jobs-go/internal/models"
)

// BrowseJobsPath is the job listing route.
const BrowseJobsPath = "/jobs"

// JobDetailPath is the route of a job's detail page.
func JobDetailPath(id models.JobID) string {
	return BrowseJobsPath + "/" + url.PathEscape(string(id))
}

// Navigator performs a route change for the page.
type Navigator interface {
	Navigate(w http.ResponseWriter, r *http.Request, path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(w http.ResponseWriter, r *http.Request, path string)

func (f NavigatorFunc) Navigate(w http.ResponseWriter, r *http.Request, path string) {
	f(w, r, path)
}

// RedirectNavigator navigates with a 303 redirect, optionally under a base URL
// when the job pages are served by another application.
type RedirectNavigator struct {
	BaseURL string
}

func (n RedirectNavigator) Navigate(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, n.BaseURL+path, http.StatusSeeOther)
}
