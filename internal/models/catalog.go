package models

import "slices"

// PriceRange bounds the unit price drawn for a category.
type PriceRange struct {
	Min float64
	Max float64
}

var Categories = []string{
	"Electronics",
	"Clothing",
	"Home & Garden",
	"Sports",
	"Books",
	"Toys",
	"Food",
	"Beauty",
}

var CategoryPrices = map[string]PriceRange{
	"Electronics":   {Min: 500, Max: 5000},
	"Clothing":      {Min: 50, Max: 500},
	"Home & Garden": {Min: 30, Max: 800},
	"Sports":        {Min: 100, Max: 1500},
	"Books":         {Min: 20, Max: 150},
	"Toys":          {Min: 25, Max: 400},
	"Food":          {Min: 10, Max: 200},
	"Beauty":        {Min: 15, Max: 300},
}

var Regions = []string{"North", "Northeast", "Center-West", "Southeast", "South"}

var RegionCities = map[string][]string{
	"North":       {"Manaus", "Belém", "Porto Velho"},
	"Northeast":   {"Salvador", "Recife", "Fortaleza", "Natal"},
	"Center-West": {"Brasília", "Goiânia", "Campo Grande"},
	"Southeast":   {"São Paulo", "Rio de Janeiro", "Belo Horizonte", "Vitória"},
	"South":       {"Curitiba", "Porto Alegre", "Florianópolis"},
}

var DiscountLevels = []int{0, 5, 10, 15, 20, 25, 30}

var Statuses = []Status{StatusCompleted, StatusPending, StatusCancelled}

var PaymentMethods = []PaymentMethod{PaymentCreditCard, PaymentDebitCard, PaymentPIX, PaymentBankSlip}

const SellerCount = 20

// CityInRegion reports whether city is one of the fixed cities of region.
func CityInRegion(region, city string) bool {
	return slices.Contains(RegionCities[region], city)
}

func ValidDiscount(percent int) bool {
	return slices.Contains(DiscountLevels, percent)
}
