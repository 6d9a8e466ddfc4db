package services

import (
	"net/url"
	"testing"

	"github.com/sahbikhalfaoui/parapharmacie-verte1-sub000/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decimalPtr(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return &d
}

func catalogProduct(name, price string, rating float64) models.Product {
	return models.Product{
		Name:          name,
		Price:         price,
		AverageRating: rating,
	}
}

func names(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func TestPriceFilterSortPaginate(t *testing.T) {
	products := []models.Product{
		catalogProduct("B", "10.000 DT", 3),
		catalogProduct("A", "20.000 DT", 5),
		catalogProduct("C", "15.000 DT", 4),
	}

	q := ParseCatalogQuery(url.Values{
		"minPrice": {"10"},
		"maxPrice": {"20"},
		"sortBy":   {"price"},
		"sortDir":  {"desc"},
		"pageSize": {"2"},
	})

	page1 := RunCatalogQuery(products, q)
	assert.Equal(t, 3, page1.Total)
	assert.Equal(t, 2, page1.TotalPages)
	assert.Equal(t, []string{"A", "C"}, names(page1.Products))

	q.Page = 2
	page2 := RunCatalogQuery(products, q)
	assert.Equal(t, []string{"B"}, names(page2.Products))
}

func TestFilterMinGreaterThanMaxYieldsEmpty(t *testing.T) {
	products := []models.Product{
		catalogProduct("A", "15.000 DT", 4),
	}

	q := ParseCatalogQuery(url.Values{
		"minPrice": {"20"},
		"maxPrice": {"10"},
	})

	result := FilterProducts(products, q)
	assert.Empty(t, result)
}

func TestFilterPriceRangeInclusive(t *testing.T) {
	products := []models.Product{
		catalogProduct("Low", "10.000 DT", 0),
		catalogProduct("High", "20.000 DT", 0),
		catalogProduct("Under", "9.999 DT", 0),
		catalogProduct("Over", "20.001 DT", 0),
	}

	q := ParseCatalogQuery(url.Values{"minPrice": {"10"}, "maxPrice": {"20"}})

	result := FilterProducts(products, q)
	assert.Equal(t, []string{"Low", "High"}, names(result))
}

func TestFilterByCategoryAndSubcategory(t *testing.T) {
	visage := catalogProduct("Crème visage", "12.000 DT", 4)
	visage.CategoryName = "Soins"
	visage.SubcategoryName = "Visage"
	corps := catalogProduct("Lait corps", "9.500 DT", 4)
	corps.CategoryName = "Soins"
	corps.SubcategoryName = "Corps"
	bebe := catalogProduct("Couches", "25.000 DT", 5)
	bebe.CategoryName = "Bébé"

	products := []models.Product{visage, corps, bebe}

	all := FilterProducts(products, ParseCatalogQuery(url.Values{}))
	assert.Len(t, all, 3)

	soins := FilterProducts(products, ParseCatalogQuery(url.Values{"category": {"Soins"}}))
	assert.Equal(t, []string{"Crème visage", "Lait corps"}, names(soins))

	soinsVisage := FilterProducts(products, ParseCatalogQuery(url.Values{
		"category":    {"Soins"},
		"subcategory": {"Visage"},
	}))
	assert.Equal(t, []string{"Crème visage"}, names(soinsVisage))

	// "Tous" is an explicit no-filter sentinel
	tous := FilterProducts(products, ParseCatalogQuery(url.Values{"category": {"Tous"}}))
	assert.Len(t, tous, 3)
}

func TestFilterSearchCaseInsensitive(t *testing.T) {
	products := []models.Product{
		catalogProduct("Shampooing Doux", "8.000 DT", 0),
		catalogProduct("Gel Douche", "6.500 DT", 0),
		catalogProduct("Dentifrice", "4.000 DT", 0),
	}

	result := FilterProducts(products, ParseCatalogQuery(url.Values{"search": {"dou"}}))
	assert.Equal(t, []string{"Shampooing Doux", "Gel Douche"}, names(result))
}

func TestFilterMinRatingIsStrictLowerBound(t *testing.T) {
	products := []models.Product{
		catalogProduct("Below", "5.000 DT", 3.9),
		catalogProduct("Equal", "5.000 DT", 4.0),
		catalogProduct("Above", "5.000 DT", 4.5),
		catalogProduct("Unrated", "5.000 DT", 0),
	}

	result := FilterProducts(products, ParseCatalogQuery(url.Values{"minRating": {"4"}}))
	assert.Equal(t, []string{"Equal", "Above"}, names(result))
}

// Applying the filters one at a time, in any order, matches applying them all
// at once.
func TestFilterOrderIndependent(t *testing.T) {
	a := catalogProduct("Sérum", "30.000 DT", 4.5)
	a.CategoryName = "Soins"
	b := catalogProduct("Sérum nuit", "55.000 DT", 4.8)
	b.CategoryName = "Soins"
	c := catalogProduct("Vitamines", "35.000 DT", 4.6)
	c.CategoryName = "Compléments"
	d := catalogProduct("Sérum contour", "32.000 DT", 3.2)
	d.CategoryName = "Soins"
	products := []models.Product{a, b, c, d}

	combined := FilterProducts(products, CatalogQuery{
		Category:    "Soins",
		Subcategory: AllFilter,
		Search:      "sérum",
		MinPrice:    decimalPtr(t, "25"),
		MaxPrice:    decimalPtr(t, "40"),
		MinRating:   4,
	})

	categoryOnly := CatalogQuery{Category: "Soins", Subcategory: AllFilter}
	searchOnly := CatalogQuery{Category: AllFilter, Subcategory: AllFilter, Search: "sérum"}
	priceOnly := CatalogQuery{Category: AllFilter, Subcategory: AllFilter, MinPrice: decimalPtr(t, "25"), MaxPrice: decimalPtr(t, "40")}
	ratingOnly := CatalogQuery{Category: AllFilter, Subcategory: AllFilter, MinRating: 4}

	orderings := [][]CatalogQuery{
		{categoryOnly, searchOnly, priceOnly, ratingOnly},
		{ratingOnly, priceOnly, searchOnly, categoryOnly},
		{priceOnly, categoryOnly, ratingOnly, searchOnly},
	}
	for _, ordering := range orderings {
		result := products
		for _, q := range ordering {
			result = FilterProducts(result, q)
		}
		assert.Equal(t, names(combined), names(result))
	}
	assert.Equal(t, []string{"Sérum"}, names(combined))
}

func TestSortStableForEqualKeys(t *testing.T) {
	products := []models.Product{
		catalogProduct("First", "10.000 DT", 4),
		catalogProduct("Second", "10.000 DT", 4),
		catalogProduct("Third", "10.000 DT", 4),
	}

	for _, sortBy := range []string{SortByPrice, SortByRating} {
		for _, desc := range []bool{false, true} {
			sorted := make([]models.Product, len(products))
			copy(sorted, products)
			SortProducts(sorted, sortBy, desc)
			assert.Equal(t, []string{"First", "Second", "Third"}, names(sorted),
				"sortBy=%s desc=%v", sortBy, desc)
		}
	}
}

func TestSortByNameCaseInsensitive(t *testing.T) {
	products := []models.Product{
		catalogProduct("banane", "1.000 DT", 0),
		catalogProduct("Abricot", "1.000 DT", 0),
		catalogProduct("cerise", "1.000 DT", 0),
	}

	SortProducts(products, SortByName, false)
	assert.Equal(t, []string{"Abricot", "banane", "cerise"}, names(products))

	SortProducts(products, SortByName, true)
	assert.Equal(t, []string{"cerise", "banane", "Abricot"}, names(products))
}

func TestSortByRatingDescending(t *testing.T) {
	products := []models.Product{
		catalogProduct("Mid", "1.000 DT", 3.5),
		catalogProduct("Top", "1.000 DT", 4.9),
		catalogProduct("Unrated", "1.000 DT", 0),
	}

	SortProducts(products, SortByRating, true)
	assert.Equal(t, []string{"Top", "Mid", "Unrated"}, names(products))
}

// Concatenating every page reproduces the full list with no duplicates or
// omissions.
func TestPaginationCoversWholeList(t *testing.T) {
	var products []models.Product
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		products = append(products, catalogProduct(name, "1.000 DT", 0))
	}

	const pageSize = 3
	_, totalPages := PaginateProducts(products, 1, pageSize)
	require.Equal(t, 3, totalPages)

	var concatenated []models.Product
	for page := 1; page <= totalPages; page++ {
		window, _ := PaginateProducts(products, page, pageSize)
		concatenated = append(concatenated, window...)
	}
	assert.Equal(t, names(products), names(concatenated))
}

func TestPaginationOutOfRangePageIsEmpty(t *testing.T) {
	products := []models.Product{
		catalogProduct("a", "1.000 DT", 0),
		catalogProduct("b", "1.000 DT", 0),
	}

	window, totalPages := PaginateProducts(products, 5, 2)
	assert.Empty(t, window)
	assert.Equal(t, 1, totalPages)
}

func TestPaginationEmptyListHasZeroPages(t *testing.T) {
	window, totalPages := PaginateProducts(nil, 1, 10)
	assert.Empty(t, window)
	assert.Zero(t, totalPages)
}

func TestParseCatalogQueryDefaults(t *testing.T) {
	q := ParseCatalogQuery(url.Values{})

	assert.Equal(t, AllFilter, q.Category)
	assert.Equal(t, AllFilter, q.Subcategory)
	assert.Empty(t, q.Search)
	assert.Nil(t, q.MinPrice)
	assert.Nil(t, q.MaxPrice)
	assert.Zero(t, q.MinRating)
	assert.Equal(t, SortByName, q.SortBy)
	assert.False(t, q.SortDesc)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultPageSize, q.PageSize)
}

func TestParseCatalogQueryMalformedFallsBack(t *testing.T) {
	q := ParseCatalogQuery(url.Values{
		"minPrice":  {"abc"},
		"maxPrice":  {""},
		"minRating": {"beaucoup"},
		"sortBy":    {"popularity"},
		"page":      {"0"},
		"pageSize":  {"-3"},
	})

	assert.Nil(t, q.MinPrice)
	assert.Nil(t, q.MaxPrice)
	assert.Zero(t, q.MinRating)
	assert.Equal(t, SortByName, q.SortBy)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultPageSize, q.PageSize)
}
