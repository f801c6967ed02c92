package store

// QueryID names one of the read-only queries the dashboard is allowed to run.
type QueryID int

const (
	QueryProductNames QueryID = iota + 1
	QueryActiveIngredients
	QueryDosageForms
	QueryPrescribingProducts
	QueryBrands
	QueryBrandsForProduct
)

type catalogEntry struct {
	name   string
	sql    string
	params int
}

// Queries use ? placeholders; Store rebinds them for drivers that want $n.
var catalog = map[QueryID]catalogEntry{
	QueryProductNames: {
		name: "product_names",
		sql:  `SELECT DISTINCT PrescribingProduct FROM prescribing_products ORDER BY PrescribingProduct ASC`,
	},
	QueryActiveIngredients: {
		name: "active_ingredients",
		sql:  `SELECT * FROM active_ingredients`,
	},
	QueryDosageForms: {
		name: "dosage_forms",
		sql:  `SELECT * FROM dosage_forms`,
	},
	QueryPrescribingProducts: {
		name: "prescribing_products",
		sql: `SELECT pp.ProductID, ai.ActiveIngredientName, df.DosageFormDescription, pp.PrescribingProduct, pp.Strength
		FROM prescribing_products pp
		JOIN active_ingredients ai ON pp.ActiveIngredientID = ai.IngredientID
		JOIN dosage_forms df ON pp.DosageFormID = df.DosageFormID`,
	},
	QueryBrands: {
		name: "brands",
		sql: `SELECT b.BrandID, b.BrandName, b.ProductID, pp.PrescribingProduct, pp.Strength
		FROM brands b
		JOIN prescribing_products pp ON b.ProductID = pp.ProductID`,
	},
	QueryBrandsForProduct: {
		name: "brands_for_product",
		sql: `SELECT b.BrandName
		FROM brands b
		JOIN prescribing_products pp ON b.ProductID = pp.ProductID
		WHERE pp.PrescribingProduct = ?
		ORDER BY b.BrandName ASC`,
		params: 1,
	},
}

func (id QueryID) String() string {
	if entry, ok := catalog[id]; ok {
		return entry.name
	}
	return "unknown"
}
