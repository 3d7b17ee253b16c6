package project

import "github.com/maerl/reporting/internal/domain/update"

// Project is a funded piece of work with its own logframe.
type Project struct {
	ID             int64  `json:"id"`
	Slug           string `json:"slug"`
	Name           string `json:"name"`
	HighlightColor string `json:"highlight_color"`
}

// Dashboard is the overview page: the latest updates and the projects they
// belong to.
type Dashboard struct {
	Projects []update.ProjectSummary `json:"projects"`
	Updates  []update.Row            `json:"updates"`
}
