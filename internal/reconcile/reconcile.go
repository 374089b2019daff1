// Package reconcile diffs the authoritative chart set against the set read
// from the generated component.
package reconcile

import (
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/andbeder/PurpleFox/internal/chart"
)

// equalOpts treats nil and empty collections alike and compares field
// mappings as key/value sets.
var equalOpts = cmp.Options{
	cmp.FilterPath(func(p cmp.Path) bool {
		return p.Last().Type() != fieldMappingsType
	}, cmpopts.EquateEmpty()),
	cmp.Comparer(func(a, b chart.FieldMappings) bool { return a.SameMappings(b) }),
}

var fieldMappingsType = reflect.TypeOf(chart.FieldMappings(nil))

// Reconcile returns the changes that turn current into authoritative. Adds
// and updates follow authoritative order; removes follow, in current order.
// Every change names target as the artifact to patch.
func Reconcile(authoritative, current *chart.Set, target string) (*chart.ChangeSet, error) {
	authIndex, err := authoritative.Index()
	if err != nil {
		return nil, err
	}
	curIndex, err := current.Index()
	if err != nil {
		return nil, err
	}

	cs := &chart.ChangeSet{Changes: []chart.Change{}}
	for _, exp := range authoritative.Charts {
		i, ok := curIndex[exp.NormalizedID()]
		if !ok {
			cs.Changes = append(cs.Changes, chart.Change{
				ChartID:        exp.ID,
				Action:         chart.ActionAdd,
				TargetArtifact: target,
			})
			continue
		}

		mismatches, err := Compare(current.Charts[i], exp)
		if err != nil {
			return nil, err
		}
		if len(mismatches) > 0 {
			cs.Changes = append(cs.Changes, chart.Change{
				ChartID:        exp.ID,
				Action:         chart.ActionUpdate,
				TargetArtifact: target,
				Mismatches:     mismatches,
			})
		}
	}

	for _, cur := range current.Charts {
		if _, ok := authIndex[cur.NormalizedID()]; !ok {
			cs.Changes = append(cs.Changes, chart.Change{
				ChartID:        cur.ID,
				Action:         chart.ActionRemove,
				TargetArtifact: target,
			})
		}
	}
	return cs, nil
}

// Compare returns one mismatch per differing property, in the fixed order
// dashboard, title, type, query, fieldMappings, style.
func Compare(cur, exp chart.Definition) ([]chart.Mismatch, error) {
	props := []struct {
		name     string
		cur, exp any
	}{
		{chart.PropDashboard, cur.Dashboard, exp.Dashboard},
		{chart.PropTitle, cur.Title, exp.Title},
		{chart.PropType, cur.Type, exp.Type},
		{chart.PropQuery, cur.Query, exp.Query},
		{chart.PropFieldMappings, cur.FieldMappings, exp.FieldMappings},
		{chart.PropStyle, cur.Style, exp.Style},
	}

	var out []chart.Mismatch
	for _, p := range props {
		if cmp.Equal(p.cur, p.exp, equalOpts) {
			continue
		}
		m, err := chart.NewMismatch(p.name, p.cur, p.exp)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
