package persistence

import (
	"errors"
	"strings"
	"time"

	"github.com/tunerp/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC. Anything else is DESC.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when it is whitelisted, else defaultField
func ValidateSortField(sortField string, allowed map[string]bool, defaultField string) string {
	sortField = strings.TrimSpace(sortField)
	if allowed[sortField] {
		return sortField
	}
	return defaultField
}

// Allowed sort fields per table
var (
	productSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "name": true,
		"stock_quantity": true, "sale_price": true, "purchase_price": true,
	}
	partnerSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "name": true,
	}
	documentSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "total_ttc": true,
		"amount_paid": true, "amount_remaining": true, "status": true,
	}
	returnSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "total_refund": true, "status": true,
	}
	datedSortFields = map[string]bool{
		"created_at": true, "date": true, "amount": true,
	}
	employeeSortFields = map[string]bool{
		"created_at": true, "first_name": true, "last_name": true,
		"position": true, "salary": true, "hire_date": true,
	}
	companySortFields = map[string]bool{
		"created_at": true, "name": true,
	}
)

// contains builds a case-insensitive LIKE pattern
func contains(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}

// searchAny matches pattern against any of columns, case-insensitively
func searchAny(query *gorm.DB, search string, columns ...string) *gorm.DB {
	if strings.TrimSpace(search) == "" {
		return query
	}
	pattern := contains(search)
	clauses := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, c := range columns {
		clauses[i] = "LOWER(" + c + ") LIKE ?"
		args[i] = pattern
	}
	return query.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

// dateRange bounds column with the filter's From/To. To includes its whole day.
func dateRange(query *gorm.DB, column string, from, to time.Time) *gorm.DB {
	if !from.IsZero() {
		query = query.Where(column+" >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where(column+" <= ?", shared.EndOfDay(to))
	}
	return query
}

// paginate applies ordering and paging
func paginate(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// notFound maps gorm.ErrRecordNotFound to shared.ErrNotFound
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// deleted returns ErrNotFound when the delete matched no row
func deleted(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
