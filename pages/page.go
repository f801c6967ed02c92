// Package pages renders the formulary views. Each page maps to one catalog query
// (the search page to a query, a filter and a dependent query) and produces a View
// that the web and terminal surfaces draw.
package pages

import "strings"

// PageID is the closed set of views the dashboard can show.
type PageID int

const (
	PageHome PageID = iota
	PageSearch
	PagePrescribingProducts
	PageBrands
	PageActiveIngredients
	PageDosageForms
)

// AppTitle is shown above every page.
const AppTitle = "EHR Medications Formulary Database Demo"

// Search form labels.
const (
	SearchInputLabel  = "Enter Prescribing Product Name:"
	SearchSelectLabel = "Select a Prescribing Product:"
)

type pageMeta struct {
	slug  string
	label string
	title string
}

var meta = map[PageID]pageMeta{
	PageHome:                {slug: "", label: "Home", title: AppTitle},
	PageSearch:              {slug: "search", label: "Search Prescribing Product", title: "Search Prescribing Products and View Associated Brands"},
	PagePrescribingProducts: {slug: "prescribing-products", label: "Prescribing Products", title: "Prescribing Products"},
	PageBrands:              {slug: "brands", label: "Brands", title: "Brands"},
	PageActiveIngredients:   {slug: "active-ingredients", label: "Active Ingredients", title: "Active Ingredients"},
	PageDosageForms:         {slug: "dosage-forms", label: "Dosage Forms", title: "Dosage Forms"},
}

var menu = []PageID{
	PageSearch,
	PagePrescribingProducts,
	PageBrands,
	PageActiveIngredients,
	PageDosageForms,
}

// Menu returns the selectable pages in sidebar order.
func Menu() []PageID {
	out := make([]PageID, len(menu))
	copy(out, menu)
	return out
}

// ParsePageID resolves a URL slug. The idle page has no slug and is never returned.
func ParsePageID(slug string) (PageID, bool) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	for _, id := range menu {
		if meta[id].slug == slug {
			return id, true
		}
	}
	return PageHome, false
}

// Slug is the URL path segment of the page.
func (p PageID) Slug() string { return meta[p].slug }

// Label is the menu button text.
func (p PageID) Label() string { return meta[p].label }

// Title is the page header.
func (p PageID) Title() string { return meta[p].title }

func (p PageID) String() string {
	if p == PageHome {
		return "home"
	}
	if m, ok := meta[p]; ok {
		return m.slug
	}
	return "unknown"
}
