package draft

import "fmt"

// Kind names a form transition.
type Kind string

// Form transitions triggered from the page.
const (
	KindAddCompetitor    Kind = "add_competitor"
	KindRemoveCompetitor Kind = "remove_competitor"
	KindEditCompetitor   Kind = "edit_competitor"
	KindAddKeyword       Kind = "add_keyword"
	KindRemoveKeyword    Kind = "remove_keyword"
	KindEditKeyword      Kind = "edit_keyword"
	KindSetOwnWebsite    Kind = "set_own_website"
	KindSetSearchDepth   Kind = "set_search_depth"
)

// Action is one form transition. Index applies to row actions, Value to edits
// and Depth to KindSetSearchDepth.
type Action struct {
	Kind  Kind
	Index int
	Value string
	Depth int
}

// Apply is the reducer: it returns the draft after the action.
func (d Draft) Apply(a Action) (Draft, error) {
	switch a.Kind {
	case KindAddCompetitor:
		return d.AddCompetitor(), nil
	case KindRemoveCompetitor:
		return d.RemoveCompetitor(a.Index), nil
	case KindEditCompetitor:
		return d.EditCompetitor(a.Index, a.Value), nil
	case KindAddKeyword:
		return d.AddKeyword(), nil
	case KindRemoveKeyword:
		return d.RemoveKeyword(a.Index), nil
	case KindEditKeyword:
		return d.EditKeyword(a.Index, a.Value), nil
	case KindSetOwnWebsite:
		return d.SetOwnWebsite(a.Value), nil
	case KindSetSearchDepth:
		return d.SetSearchDepth(a.Depth), nil
	default:
		return d, fmt.Errorf("unknown form action %q", a.Kind)
	}
}
