package pages

import (
	"github.com/FarmaSync/edups/filter"
	"github.com/FarmaSync/edups/store"
)

// Level is the severity of a notice.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// MarshalText encodes the level by name in JSON.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Notice is a message shown above (or instead of) the table.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// SearchState is the search page's form and drill-down state.
type SearchState struct {
	Query    string        `json:"query"`
	Result   filter.Result `json:"result"`
	Selected string        `json:"selected,omitempty"`
}

// View is everything a surface needs to draw one page.
type View struct {
	Page     PageID           `json:"-"`
	Slug     string           `json:"page"`
	Title    string           `json:"title"`
	Subtitle string           `json:"subtitle,omitempty"`
	Table    *store.ResultSet `json:"table,omitempty"`
	Notices  []Notice         `json:"notices"`
	Search   *SearchState     `json:"search,omitempty"`
}

func newView(p PageID) View {
	return View{Page: p, Slug: p.Slug(), Title: p.Title(), Notices: []Notice{}}
}

func (v *View) notify(level Level, msg string) {
	v.Notices = append(v.Notices, Notice{Level: level, Message: msg})
}

// HasError reports whether the view carries an error notice.
func (v View) HasError() bool {
	for _, n := range v.Notices {
		if n.Level == LevelError {
			return true
		}
	}
	return false
}
