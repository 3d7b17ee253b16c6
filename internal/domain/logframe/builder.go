package logframe

import (
	"fmt"
	"strings"

	"github.com/maerl/reporting/internal/domain/errs"
)

// Build turns one denormalized project record into a logframe tree.
//
// Node order at every level is the input order. Outputs in the flat list that
// are not reachable through any outcome measurable are collected in
// Tree.Unassigned and reported as OrphanOutput warnings. The record is not
// modified and the returned tree shares no slices with it.
func Build(rec ProjectRecord) (Tree, []Warning, error) {
	if strings.TrimSpace(rec.Name) == "" {
		return Tree{}, nil, errs.Missing("name")
	}
	if strings.TrimSpace(rec.Slug) == "" {
		return Tree{}, nil, errs.Missing("slug")
	}

	var warnings []Warning
	tree := Tree{
		Project:    ProjectHeader{ID: rec.ID, Slug: rec.Slug, Name: rec.Name},
		Impacts:    append([]Impact{}, rec.Impacts...),
		Outcomes:   make([]OutcomeNode, 0, len(rec.Outcomes)),
		Unassigned: []Output{},
	}

	if len(rec.Impacts) > 1 {
		warnings = append(warnings, Warning{
			Kind:    WarningMultipleImpacts,
			Message: fmt.Sprintf("project %s has %d impacts", rec.Slug, len(rec.Impacts)),
		})
	}

	assigned := make(map[int64]struct{})
	for _, oc := range rec.Outcomes {
		node := OutcomeNode{
			Outcome:     oc.Outcome,
			Measurables: make([]MeasurableNode, 0, len(oc.Measurables)),
		}
		for _, m := range oc.Measurables {
			mn := MeasurableNode{
				OutcomeMeasurable: m.OutcomeMeasurable,
				Outputs:           make([]Output, 0, len(m.Outputs)),
			}
			for _, out := range m.Outputs {
				mn.Outputs = append(mn.Outputs, cloneOutput(out))
				assigned[out.ID] = struct{}{}
				if out.ProjectID != 0 && rec.ID != 0 && out.ProjectID != rec.ID {
					warnings = append(warnings, Warning{
						Kind:     WarningProjectMismatch,
						OutputID: out.ID,
						Message: fmt.Sprintf("output %d references project %d but sits under project %d",
							out.ID, out.ProjectID, rec.ID),
					})
				}
			}
			node.Measurables = append(node.Measurables, mn)
		}
		tree.Outcomes = append(tree.Outcomes, node)
	}

	for _, out := range rec.Outputs {
		if _, ok := assigned[out.ID]; ok {
			continue
		}
		tree.Unassigned = append(tree.Unassigned, cloneOutput(out))
		warnings = append(warnings, Warning{
			Kind:     WarningOrphanOutput,
			OutputID: out.ID,
			Message:  fmt.Sprintf("output %d (%s) is not linked to any outcome measurable", out.ID, out.Code),
		})
	}

	return tree, warnings, nil
}

func cloneOutput(out Output) Output {
	if out.OutcomeMeasurableID != nil {
		id := *out.OutcomeMeasurableID
		out.OutcomeMeasurableID = &id
	}
	return out
}

// Output returns the output with the given id wherever it sits in the tree.
func (t Tree) Output(id int64) (Output, bool) {
	for _, oc := range t.Outcomes {
		for _, m := range oc.Measurables {
			for _, out := range m.Outputs {
				if out.ID == id {
					return out, true
				}
			}
		}
	}
	for _, out := range t.Unassigned {
		if out.ID == id {
			return out, true
		}
	}
	return Output{}, false
}

// Impact returns the first impact, which is the one the project page shows.
func (t Tree) Impact() (Impact, bool) {
	if len(t.Impacts) == 0 {
		return Impact{}, false
	}
	return t.Impacts[0], true
}

// NextOutputMeasurableCode proposes a code for a new measurable appended to
// existing.
func NextOutputMeasurableCode(existing []OutputMeasurable) string {
	return fmt.Sprintf("OP0.%d", len(existing)+1)
}
