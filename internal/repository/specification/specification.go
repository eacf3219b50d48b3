package specification

import "gorm.io/gorm"

// Specification narrows a query. Specs compose in the order given.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}

// ApplyAll folds specs onto db; nil entries are skipped
func ApplyAll(db *gorm.DB, specs ...Specification) *gorm.DB {
	for _, spec := range specs {
		if spec != nil {
			db = spec.Apply(db)
		}
	}
	return db
}
