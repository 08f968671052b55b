package persistence

import (
	"gorm.io/gorm"

	"github.com/udyog/backend/internal/domain/shared"
)

// sortableColumns is the allow-list for ORDER BY input. Anything else falls
// back to created_at to keep user input out of the SQL.
var sortableColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"code":       true,
}

func orderClause(filter shared.Filter) string {
	column := filter.OrderBy
	if !sortableColumns[column] {
		column = "created_at"
	}
	dir := "DESC"
	if filter.OrderDir == "asc" {
		dir = "ASC"
	}
	return column + " " + dir
}

func paginate(query *gorm.DB, filter shared.Filter) *gorm.DB {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	return query.Offset((page - 1) * pageSize).Limit(pageSize)
}

func searchClause(query *gorm.DB, filter shared.Filter, columns ...string) *gorm.DB {
	if filter.Search == "" || len(columns) == 0 {
		return query
	}
	pattern := "%" + filter.Search + "%"
	clause := query.Session(&gorm.Session{NewDB: true})
	for i, col := range columns {
		if i == 0 {
			clause = clause.Where(col+" ILIKE ?", pattern)
		} else {
			clause = clause.Or(col+" ILIKE ?", pattern)
		}
	}
	return query.Where(clause)
}
