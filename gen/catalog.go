package gen

import (
	_ "embed"

	"github.com/storelens/storelens/entity"
	"github.com/tidwall/gjson"
)

//go:embed catalog.json
var catalogJSON []byte

// Catalog returns the fixed product catalog. The catalog ships with the
// binary; it is not randomized and identical for every run.
func Catalog() []entity.Product {
	var products []entity.Product
	gjson.GetBytes(catalogJSON, "products").ForEach(func(_, v gjson.Result) bool {
		products = append(products, entity.Product{
			ID:       v.Get("id").Int(),
			Name:     v.Get("name").String(),
			Category: v.Get("category").String(),
			Price:    v.Get("price").Float(),
		})
		return true
	})
	return products
}
