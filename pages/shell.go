package pages

import (
	"context"

	"github.com/FarmaSync/edups/interfaces"
	"github.com/FarmaSync/edups/store"
)

// storeQuery maps each table page to its catalog query.
var storeQuery = map[PageID]store.QueryID{
	PagePrescribingProducts: store.QueryPrescribingProducts,
	PageBrands:              store.QueryBrands,
	PageActiveIngredients:   store.QueryActiveIngredients,
	PageDosageForms:         store.QueryDosageForms,
}

// Shell dispatches a page selection to its renderer. It keeps no history and caches nothing.
type Shell struct {
	src       interfaces.DataSource
	renderers map[PageID]Renderer
}

// NewShell builds the navigation shell over an injected data source.
func NewShell(src interfaces.DataSource) *Shell {
	return &Shell{
		src: src,
		renderers: map[PageID]Renderer{
			PageSearch:              renderSearch,
			PagePrescribingProducts: tablePage(PagePrescribingProducts, storeQuery[PagePrescribingProducts]),
			PageBrands:              tablePage(PageBrands, storeQuery[PageBrands]),
			PageActiveIngredients:   tablePage(PageActiveIngredients, storeQuery[PageActiveIngredients]),
			PageDosageForms:         tablePage(PageDosageForms, storeQuery[PageDosageForms]),
		},
	}
}

// Render runs the renderer of page. The idle page and unknown ids yield the idle view.
func (s *Shell) Render(ctx context.Context, page PageID, req Request) View {
	render, ok := s.renderers[page]
	if !ok {
		return Idle()
	}
	return render(ctx, s.src, req)
}

// Idle is the view shown before any page is picked.
func Idle() View {
	v := newView(PageHome)
	v.notify(LevelInfo, "Select a page from the menu.")
	return v
}
