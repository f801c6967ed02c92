package pages

import (
	"context"
	"fmt"

	"github.com/FarmaSync/edups/filter"
	"github.com/FarmaSync/edups/interfaces"
	"github.com/FarmaSync/edups/logging"
	"github.com/FarmaSync/edups/store"
)

// Request carries the user input of one page view. Only the search page reads it.
type Request struct {
	Query    string
	Selected string
}

// Renderer produces a view from scratch. It never writes to the store.
type Renderer func(ctx context.Context, src interfaces.DataSource, req Request) View

// Notice texts of the search page.
const (
	MsgEnterKeyword   = "Please enter a keyword to search for prescribing products."
	MsgNoProducts     = "No prescribing products match your search query."
	MsgSearchFailed   = "An error occurred while fetching data"
	brandsSubtitleFmt = "Brands under '%s':"
	noBrandsFmt       = "No brands found for the prescribing product '%s'."
)

// tablePage renders one unfiltered query as a table.
func tablePage(page PageID, id store.QueryID) Renderer {
	errPrefix := "Error fetching " + page.Title()
	return func(ctx context.Context, src interfaces.DataSource, _ Request) View {
		v := newView(page)
		rs, err := src.Fetch(ctx, id)
		if err != nil {
			v.fail(errPrefix, id, err)
			return v
		}
		v.Table = rs
		return v
	}
}

func renderSearch(ctx context.Context, src interfaces.DataSource, req Request) View {
	v := newView(PageSearch)
	v.Search = &SearchState{Query: req.Query}

	names, err := src.Fetch(ctx, store.QueryProductNames)
	if err != nil {
		v.fail(MsgSearchFailed, store.QueryProductNames, err)
		return v
	}

	result := filter.Apply(firstColumn(names), req.Query)
	v.Search.Result = result

	switch {
	case !result.Searched:
		v.notify(LevelInfo, MsgEnterKeyword)
		return v
	case result.Empty():
		v.notify(LevelWarning, MsgNoProducts)
		return v
	}

	selected := req.Selected
	stored, ok := result.StoredName(selected)
	if !ok {
		selected = result.Matches[0]
		stored, _ = result.StoredName(selected)
	}
	v.Search.Selected = selected

	// Brands are keyed on the name as stored, which may carry padding the display drops.
	brands, err := src.Fetch(ctx, store.QueryBrandsForProduct, stored)
	if err != nil {
		v.fail(MsgSearchFailed, store.QueryBrandsForProduct, err)
		return v
	}
	if brands.Empty() {
		v.notify(LevelWarning, fmt.Sprintf(noBrandsFmt, selected))
		return v
	}

	v.Subtitle = fmt.Sprintf(brandsSubtitleFmt, selected)
	v.Table = brands
	return v
}

func (v *View) fail(prefix string, id store.QueryID, err error) {
	logging.Error("Page query failed", "page", v.Page.String(), "query", id.String(), "error", err)
	v.notify(LevelError, fmt.Sprintf("%s: %v", prefix, err))
}

// firstColumn reads the single projected column whatever case the driver reports it in.
func firstColumn(rs *store.ResultSet) []string {
	if rs == nil || len(rs.Columns) == 0 {
		return nil
	}
	return rs.Strings(rs.Columns[0])
}
