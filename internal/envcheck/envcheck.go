// Package envcheck prints the secrets the deployed application requires.
// The checklist is advisory: values are never read, generated, or validated,
// setting them stays the operator's responsibility.
package envcheck

import (
	"fmt"
	"io"
)

// Var names a required config var and what it is for.
type Var struct {
	Name        string
	Description string
}

// DefaultVars lists the config vars the analyzer reads at runtime.
func DefaultVars() []Var {
	return []Var{
		{Name: "OPENAI_API_KEY", Description: "OpenAI API key used for resume scoring"},
		{Name: "SPREADSHEET_ID", Description: "Google Sheets spreadsheet holding candidates and jobs"},
		{Name: "SHEET1_ID", Description: "sheet/tab ID of the candidate rows"},
		{Name: "JOBS_SHEET_ID", Description: "sheet/tab ID of the job descriptions"},
	}
}

// Checklist holds the vars to remind the operator about.
type Checklist struct {
	vars []Var
}

// NewChecklist builds a checklist; nil or empty vars fall back to DefaultVars.
func NewChecklist(vars []Var) *Checklist {
	if len(vars) == 0 {
		vars = DefaultVars()
	}
	return &Checklist{vars: vars}
}

// Names returns the config var names in checklist order.
func (c *Checklist) Names() []string {
	names := make([]string, 0, len(c.vars))
	for _, v := range c.vars {
		names = append(names, v.Name)
	}
	return names
}

// Print writes the operator checklist to w.
func (c *Checklist) Print(w io.Writer, app string) {
	fmt.Fprintf(w, "Before the app can run, set its config vars:\n\n")
	for _, v := range c.vars {
		fmt.Fprintf(w, "  heroku config:set %s=... --app %s\n", v.Name, app)
		if v.Description != "" {
			fmt.Fprintf(w, "      %s\n", v.Description)
		}
	}
	fmt.Fprintf(w, "\nValues are yours to supply; this tool never reads or stores them.\n")
}
