// Package analytics computes the chart data of the dashboard and
// analytics screens from a page of products.
package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/crm_dashboard/internal/catalog"
)

const (
	DashboardLimit = 30
	AnalyticsLimit = 100

	priceChartSize   = 10
	pieSlices        = 5
	topCategoryCount = 5
	scatterSize      = 30
	labelLen         = 15
)

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type PricePoint struct {
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Rating float64 `json:"rating"`
}

type PieSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type PriceRange struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

type ScatterPoint struct {
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Rating float64 `json:"rating"`
	Stock  int     `json:"stock"`
}

type Dashboard struct {
	TotalRevenue  float64         `json:"totalRevenue"`
	TotalProducts int             `json:"totalProducts"`
	AvgRating     float64         `json:"avgRating"`
	Categories    []CategoryCount `json:"categoryData"`
	PriceData     []PricePoint    `json:"priceData"`
	PieData       []PieSlice      `json:"pieData"`
}

type Insights struct {
	HighRated   int `json:"highPerforming"`
	WellStocked int `json:"wellStocked"`
	Premium     int `json:"premium"`
	Restock     int `json:"needsRestocking"`
}

type Analytics struct {
	TotalValue    float64         `json:"totalValue"`
	AvgPrice      float64         `json:"avgPrice"`
	TotalProducts int             `json:"totalProducts"`
	LowStock      int             `json:"lowStock"`
	TopCategories []CategoryCount `json:"topCategories"`
	PriceRanges   []PriceRange    `json:"priceRanges"`
	Scatter       []ScatterPoint  `json:"scatterData"`
	Insights      Insights        `json:"insights"`
}

func BuildDashboard(products []catalog.Product) Dashboard {
	d := Dashboard{
		TotalProducts: len(products),
		Categories:    CategoryCounts(products),
		PriceData:     make([]PricePoint, 0, min(len(products), priceChartSize)),
	}

	revenue, ratings := decimal.Zero, decimal.Zero
	for _, p := range products {
		revenue = revenue.Add(decimal.NewFromFloat(p.Price))
		ratings = ratings.Add(decimal.NewFromFloat(p.Rating))
	}
	d.TotalRevenue = revenue.Round(2).InexactFloat64()
	d.AvgRating = average(ratings, len(products))

	for _, p := range products[:min(len(products), priceChartSize)] {
		d.PriceData = append(d.PriceData, PricePoint{Name: Label(p.Title), Price: p.Price, Rating: p.Rating})
	}

	d.PieData = make([]PieSlice, 0, min(len(d.Categories), pieSlices))
	for _, c := range d.Categories[:min(len(d.Categories), pieSlices)] {
		d.PieData = append(d.PieData, PieSlice{Name: c.Category, Value: c.Count})
	}
	return d
}

func BuildAnalytics(products []catalog.Product) Analytics {
	a := Analytics{
		TotalProducts: len(products),
		Scatter:       make([]ScatterPoint, 0, min(len(products), scatterSize)),
	}

	value, prices := decimal.Zero, decimal.Zero
	ranges := []PriceRange{{Range: "$0-50"}, {Range: "$51-100"}, {Range: "$101-500"}, {Range: "$500+"}}
	for _, p := range products {
		price := decimal.NewFromFloat(p.Price)
		value = value.Add(price.Mul(decimal.NewFromInt(int64(p.Stock))))
		prices = prices.Add(price)

		switch {
		case p.Price <= 50:
			ranges[0].Count++
		case p.Price <= 100:
			ranges[1].Count++
		case p.Price <= 500:
			ranges[2].Count++
		default:
			ranges[3].Count++
		}

		if p.Stock < 10 {
			a.LowStock++
		}
		if p.Rating > 4.5 {
			a.Insights.HighRated++
		}
		if p.Stock > 50 {
			a.Insights.WellStocked++
		}
		if p.Price > 100 {
			a.Insights.Premium++
		}
		if p.Stock < 5 {
			a.Insights.Restock++
		}
	}
	a.TotalValue = value.Round(2).InexactFloat64()
	a.AvgPrice = average(prices, len(products))
	a.PriceRanges = ranges
	a.TopCategories = TopCategories(products, topCategoryCount)

	for _, p := range products[:min(len(products), scatterSize)] {
		a.Scatter = append(a.Scatter, ScatterPoint{Name: Label(p.Title), Price: p.Price, Rating: p.Rating, Stock: p.Stock})
	}
	return a
}

// CategoryCounts counts products per category in first-seen order.
func CategoryCounts(products []catalog.Product) []CategoryCount {
	out := []CategoryCount{}
	pos := make(map[string]int)
	for _, p := range products {
		i, ok := pos[p.Category]
		if !ok {
			i = len(out)
			pos[p.Category] = i
			out = append(out, CategoryCount{Category: p.Category})
		}
		out[i].Count++
	}
	return out
}

// TopCategories returns the n largest categories. Ties keep first-seen
// order.
func TopCategories(products []catalog.Product, n int) []CategoryCount {
	counts := CategoryCounts(products)
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	return counts[:min(len(counts), n)]
}

// Label shortens a product title for chart axes.
func Label(title string) string {
	r := []rune(title)
	return string(r[:min(len(r), labelLen)]) + "..."
}

func average(sum decimal.Decimal, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum.Div(decimal.NewFromInt(int64(n))).Round(2).InexactFloat64()
}
