package retailers

import (
	"strings"
)

// categoryRule maps a keyword group to a retailer category code.
// Rules are evaluated in order against the lowercased query and the
// first hit wins, so more specific keyword groups must precede
// broader ones ("t-shirt" before "shirt").
type categoryRule struct {
	keywords []string
	code     string
}

type categoryTable struct {
	rules       []categoryRule
	defaultCode string
}

// classify is total: every input maps to exactly one category code.
func (t categoryTable) classify(query string) string {
	query = strings.ToLower(query)
	for _, rule := range t.rules {
		for _, kw := range rule.keywords {
			if strings.Contains(query, kw) {
				return rule.code
			}
		}
	}
	return t.defaultCode
}

// myntraCategories routes queries to Myntra's men-<slug> listing
// pages. The slugs are Myntra's own URL vocabulary; edit here when
// their taxonomy shifts.
var myntraCategories = categoryTable{
	rules: []categoryRule{
		{keywords: []string{"t-shirt", "tshirt", "t shirt"}, code: "tshirts"},
		{keywords: []string{"shirt", "oxford", "chambray", "button down", "dress shirt"}, code: "shirts"},
		{keywords: []string{"jeans", "denim"}, code: "jeans"},
		{keywords: []string{"trouser", "chino", "pant"}, code: "trousers"},
		{keywords: []string{"jacket", "bomber", "denim jacket"}, code: "jackets"},
		{keywords: []string{"hoodie"}, code: "sweatshirts"},
		{keywords: []string{"polo"}, code: "polos"},
		{keywords: []string{"suit"}, code: "suits"},
		{keywords: []string{"shoe", "sneaker", "footwear"}, code: "casual-shoes"},
		{keywords: []string{"formal shoe"}, code: "formal-shoes"},
		{keywords: []string{"boot"}, code: "boots"},
		{keywords: []string{"short"}, code: "shorts"},
		{keywords: []string{"swim", "trunk"}, code: "swimwear"},
		{keywords: []string{"belt"}, code: "belts"},
		{keywords: []string{"sunglass"}, code: "sunglasses"},
		{keywords: []string{"watch"}, code: "watches"},
		{keywords: []string{"bag"}, code: "bags"},
		{keywords: []string{"coat", "overcoat"}, code: "coats"},
	},
	defaultCode: "clothing",
}

// ajioCategories routes queries to Ajio's numeric taxonomy IDs under
// /s/<id>. Not interchangeable with Myntra's slugs.
var ajioCategories = categoryTable{
	rules: []categoryRule{
		{keywords: []string{"t-shirt", "tshirt", "t shirt"}, code: "830216001"}, // men's t-shirts
		{keywords: []string{"shirt", "oxford", "chambray", "button down", "dress shirt"}, code: "830216003"}, // men's shirts
		{keywords: []string{"jeans", "denim"}, code: "830216013"},               // men's jeans
		{keywords: []string{"trouser", "chino", "pant"}, code: "830216005"},     // men's trousers
		{keywords: []string{"jacket", "bomber", "denim jacket"}, code: "830216002"}, // men's jackets
		{keywords: []string{"hoodie"}, code: "830216011"},                       // men's sweatshirts
		{keywords: []string{"polo"}, code: "830216001"},                         // men's t-shirts & polos
		{keywords: []string{"suit"}, code: "830216004"},                         // men's suits
		{keywords: []string{"shoe", "sneaker", "footwear"}, code: "830216006"},  // men's casual shoes
		{keywords: []string{"formal shoe"}, code: "830216007"},                  // men's formal shoes
		{keywords: []string{"boot"}, code: "830216008"},                         // men's boots
		{keywords: []string{"short"}, code: "830216014"},                        // men's shorts
	},
	defaultCode: "men",
}
