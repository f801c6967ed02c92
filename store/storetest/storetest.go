// Package storetest builds small formulary databases for tests.
package storetest

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

// Schema mirrors the tables of ehr_medications.db.
const Schema = `
CREATE TABLE active_ingredients (
	IngredientID INTEGER PRIMARY KEY,
	ActiveIngredientName TEXT NOT NULL
);
CREATE TABLE dosage_forms (
	DosageFormID INTEGER PRIMARY KEY,
	DosageFormDescription TEXT NOT NULL
);
CREATE TABLE prescribing_products (
	ProductID INTEGER PRIMARY KEY,
	ActiveIngredientID INTEGER NOT NULL REFERENCES active_ingredients(IngredientID),
	DosageFormID INTEGER NOT NULL REFERENCES dosage_forms(DosageFormID),
	PrescribingProduct TEXT NOT NULL,
	Strength TEXT
);
CREATE TABLE brands (
	BrandID INTEGER PRIMARY KEY,
	BrandName TEXT NOT NULL,
	ProductID INTEGER NOT NULL REFERENCES prescribing_products(ProductID)
);
`

// Fixtures: three products, Metformin has no brand.
const Fixtures = `
INSERT INTO active_ingredients (IngredientID, ActiveIngredientName) VALUES
	(1, 'Amoxicillin'), (2, 'Amlodipine'), (3, 'Metformin');
INSERT INTO dosage_forms (DosageFormID, DosageFormDescription) VALUES
	(1, 'Capsule'), (2, 'Tablet');
INSERT INTO prescribing_products (ProductID, ActiveIngredientID, DosageFormID, PrescribingProduct, Strength) VALUES
	(1, 1, 1, 'Amoxicillin 500mg', '500 mg'),
	(2, 2, 2, 'Amlodipine 5mg', '5 mg'),
	(3, 3, 2, 'Metformin', '850 mg');
INSERT INTO brands (BrandID, BrandName, ProductID) VALUES
	(1, 'Trimox', 1), (2, 'Amoxil', 1), (3, 'Norvasc', 2);
`

// NewSQLite creates a fixture database in a temp dir and returns its path and an open handle.
// The handle is closed when the test ends.
func NewSQLite(tb testing.TB) (string, *sql.DB) {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "ehr_medications.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	tb.Cleanup(func() { _ = db.Close() })

	for _, script := range []string{Schema, Fixtures} {
		for _, stmt := range strings.Split(script, ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			if _, err := db.Exec(stmt); err != nil {
				tb.Fatalf("seed sqlite: %v", err)
			}
		}
	}
	return path, db
}
