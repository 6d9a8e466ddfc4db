package services

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/sahbikhalfaoui/parapharmacie-verte1-sub000/models"
	"github.com/sahbikhalfaoui/parapharmacie-verte1-sub000/utils"
	"github.com/shopspring/decimal"
)

// AllFilter is the sentinel the storefront sends for "no filter" on the
// category and subcategory dropdowns.
const AllFilter = "Tous"

const (
	SortByName   = "name"
	SortByPrice  = "price"
	SortByRating = "rating"

	DefaultPageSize = 12
	maxPageSize     = 100
)

type CatalogQuery struct {
	Category    string
	Subcategory string
	Search      string
	MinPrice    *decimal.Decimal // nil means unbounded
	MaxPrice    *decimal.Decimal
	MinRating   float64
	SortBy      string
	SortDesc    bool
	Page        int
	PageSize    int
}

// CatalogPage is the product-list response envelope. The list endpoint always
// returns this shape, never a bare array.
type CatalogPage struct {
	Products   []models.Product `json:"products"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
}

// ParseCatalogQuery extracts filter/sort/page parameters from the query
// string. Malformed values never fail the request: bad numbers fall back to
// "no bound", unknown sort keys to name ascending.
func ParseCatalogQuery(values url.Values) CatalogQuery {
	q := CatalogQuery{
		Category:    values.Get("category"),
		Subcategory: values.Get("subcategory"),
		Search:      values.Get("search"),
		SortBy:      SortByName,
		Page:        1,
		PageSize:    DefaultPageSize,
	}
	if q.Category == "" {
		q.Category = AllFilter
	}
	if q.Subcategory == "" {
		q.Subcategory = AllFilter
	}

	if d, err := decimal.NewFromString(values.Get("minPrice")); err == nil {
		q.MinPrice = &d
	}
	if d, err := decimal.NewFromString(values.Get("maxPrice")); err == nil {
		q.MaxPrice = &d
	}
	if r, err := strconv.ParseFloat(values.Get("minRating"), 64); err == nil && r > 0 {
		q.MinRating = r
	}

	switch values.Get("sortBy") {
	case SortByPrice:
		q.SortBy = SortByPrice
	case SortByRating:
		q.SortBy = SortByRating
	}
	q.SortDesc = values.Get("sortDir") == "desc"

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page >= 1 {
		q.Page = page
	}
	if size, err := strconv.Atoi(values.Get("pageSize")); err == nil && size >= 1 && size <= maxPageSize {
		q.PageSize = size
	}
	return q
}

// RunCatalogQuery filters, sorts and paginates the product list.
func RunCatalogQuery(products []models.Product, q CatalogQuery) CatalogPage {
	filtered := FilterProducts(products, q)
	SortProducts(filtered, q.SortBy, q.SortDesc)
	page, totalPages := PaginateProducts(filtered, q.Page, q.PageSize)
	return CatalogPage{
		Products:   page,
		Total:      len(filtered),
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages,
	}
}

// FilterProducts keeps the products matching every active filter. A price
// range with min > max matches nothing; no swap correction is applied.
func FilterProducts(products []models.Product, q CatalogQuery) []models.Product {
	search := strings.ToLower(q.Search)
	kept := make([]models.Product, 0, len(products))
	for _, p := range products {
		if q.Category != AllFilter && !strings.EqualFold(p.CategoryName, q.Category) {
			continue
		}
		if q.Subcategory != AllFilter && !strings.EqualFold(p.SubcategoryName, q.Subcategory) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if !priceInRange(p.Price, q.MinPrice, q.MaxPrice) {
			continue
		}
		if p.AverageRating < q.MinRating {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

func priceInRange(price string, min, max *decimal.Decimal) bool {
	if min == nil && max == nil {
		return true
	}
	d, err := utils.ParsePrice(price)
	if err != nil {
		return false
	}
	if min != nil && d.LessThan(*min) {
		return false
	}
	if max != nil && d.GreaterThan(*max) {
		return false
	}
	return true
}

// SortProducts sorts in place. The sort is stable: products with equal keys
// keep their original relative order.
func SortProducts(products []models.Product, sortBy string, desc bool) {
	var less func(a, b models.Product) bool
	switch sortBy {
	case SortByPrice:
		less = func(a, b models.Product) bool {
			return priceValue(a.Price).LessThan(priceValue(b.Price))
		}
	case SortByRating:
		less = func(a, b models.Product) bool {
			return a.AverageRating < b.AverageRating
		}
	default:
		less = func(a, b models.Product) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	}

	sort.SliceStable(products, func(i, j int) bool {
		if desc {
			return less(products[j], products[i])
		}
		return less(products[i], products[j])
	})
}

// priceValue treats an unparseable price as zero for sorting so the product
// still shows up somewhere rather than breaking the comparator.
func priceValue(price string) decimal.Decimal {
	d, err := utils.ParsePrice(price)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// PaginateProducts returns the 1-based page window and the total page count.
// An out-of-range page yields an empty page, not a clamped one.
func PaginateProducts(products []models.Product, page, pageSize int) ([]models.Product, int) {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	totalPages := (len(products) + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if page < 1 || start >= len(products) {
		return []models.Product{}, totalPages
	}
	end := start + pageSize
	if end > len(products) {
		end = len(products)
	}
	return products[start:end], totalPages
}
