package db_models

import (
	"database/sql/driver"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// TextArray is a text[] column on Postgres and the same array literal in a text column
// on other dialects.
type TextArray pq.StringArray

func (a TextArray) Value() (driver.Value, error) {
	return pq.StringArray(a).Value()
}

func (a *TextArray) Scan(src any) error {
	return (*pq.StringArray)(a).Scan(src)
}

func (TextArray) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}
