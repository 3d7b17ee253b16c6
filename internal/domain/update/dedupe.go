package update

// DedupeProjects returns the distinct projects referenced by updates in
// first-seen order. Updates without an embedded project are skipped.
func DedupeProjects(updates []Update) []ProjectSummary {
	seen := make(map[int64]struct{}, len(updates))
	out := make([]ProjectSummary, 0)
	for _, u := range updates {
		if u.Project == nil {
			continue
		}
		if _, ok := seen[u.Project.ID]; ok {
			continue
		}
		seen[u.Project.ID] = struct{}{}
		out = append(out, ProjectSummary{
			ID:    u.Project.ID,
			Name:  u.Project.Name,
			Color: u.Project.HighlightColor,
		})
	}
	return out
}
