package aggregate_test

import (
	"testing"

	aggregate "github.com/agrofair/portal/internal/domain/aggregate"
	"github.com/agrofair/portal/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCompute_Empty(t *testing.T) {
	Convey("Given no exhibitor records", t, func() {
		stats := aggregate.Compute(nil)

		Convey("Then every total is zero", func() {
			So(stats.TotalVolume, ShouldEqual, 0)
			So(stats.TotalVisitors, ShouldEqual, 0)
			So(stats.ExhibitorCount, ShouldEqual, 0)
		})

		Convey("And the mean ticket is zero, not NaN", func() {
			So(stats.MeanTicket, ShouldEqual, 0)
		})

		Convey("And the group lists are empty", func() {
			So(stats.TopCities, ShouldBeEmpty)
			So(stats.Categories, ShouldBeEmpty)
			So(stats.CategoriesByVolume, ShouldBeEmpty)
		})
	})
}

func TestCompute_Totals(t *testing.T) {
	Convey("Given three records across two cities", t, func() {
		records := []model.Exhibitor{
			{Name: "A", Category: model.CategoryCafe, City: "Porto Velho", BusinessVolume: 1000, Visitors: 5},
			{Name: "B", Category: model.CategoryCafe, City: "Ariquemes", BusinessVolume: 2500, Visitors: 7},
			{Name: "C", Category: model.CategoryCarne, City: "Porto Velho", BusinessVolume: 500, Visitors: 3},
		}
		stats := aggregate.Compute(records)

		Convey("Then the totals sum every record", func() {
			So(stats.TotalVolume, ShouldEqual, 4000)
			So(stats.TotalVisitors, ShouldEqual, 15)
			So(stats.ExhibitorCount, ShouldEqual, 3)
		})

		Convey("And the mean ticket divides volume by record count", func() {
			So(stats.MeanTicket, ShouldAlmostEqual, 4000.0/3.0)
		})

		Convey("And city totals partition the total volume", func() {
			var sum float64
			for _, city := range stats.TopCities {
				sum += city.Volume
			}
			So(sum, ShouldEqual, stats.TotalVolume)
		})

		Convey("And category totals partition the total volume", func() {
			var sum float64
			for _, cat := range stats.Categories {
				sum += cat.Volume
			}
			So(sum, ShouldEqual, stats.TotalVolume)
		})
	})
}

func TestCompute_TopCities(t *testing.T) {
	Convey("Given records spread over six cities", t, func() {
		records := []model.Exhibitor{
			{City: "Porto Velho", BusinessVolume: 100},
			{City: "Ji-Paraná", BusinessVolume: 600},
			{City: "Ariquemes", BusinessVolume: 200},
			{City: "Vilhena", BusinessVolume: 500},
			{City: "Cacoal", BusinessVolume: 300},
			{City: "Jaru", BusinessVolume: 400},
		}
		stats := aggregate.Compute(records)

		Convey("Then only the five largest cities remain, descending", func() {
			So(stats.TopCities, ShouldHaveLength, 5)
			So(stats.TopCities[0].Key, ShouldEqual, "Ji-Paraná")
			So(stats.TopCities[0].Volume, ShouldEqual, 600)
			So(stats.TopCities[4].Key, ShouldEqual, "Ariquemes")
			for i := 1; i < len(stats.TopCities); i++ {
				So(stats.TopCities[i].Volume, ShouldBeLessThanOrEqualTo, stats.TopCities[i-1].Volume)
			}
		})

		Convey("And the smallest city falls off the list", func() {
			for _, city := range stats.TopCities {
				So(city.Key, ShouldNotEqual, "Porto Velho")
			}
		})
	})

	Convey("Given cities with equal volume", t, func() {
		records := []model.Exhibitor{
			{City: "Jaru", BusinessVolume: 100},
			{City: "Cacoal", BusinessVolume: 100},
			{City: "Vilhena", BusinessVolume: 100},
		}
		stats := aggregate.Compute(records)

		Convey("Then ties keep first-seen order", func() {
			So(stats.TopCities[0].Key, ShouldEqual, "Jaru")
			So(stats.TopCities[1].Key, ShouldEqual, "Cacoal")
			So(stats.TopCities[2].Key, ShouldEqual, "Vilhena")
		})
	})

	Convey("Given city names differing only in case", t, func() {
		records := []model.Exhibitor{
			{City: "Porto Velho", BusinessVolume: 100},
			{City: "porto velho", BusinessVolume: 200},
		}
		stats := aggregate.Compute(records)

		Convey("Then they form distinct groups", func() {
			So(stats.TopCities, ShouldHaveLength, 2)
		})
	})
}

func TestCompute_Categories(t *testing.T) {
	Convey("Given records in three categories", t, func() {
		records := []model.Exhibitor{
			{Category: model.CategoryCafe, BusinessVolume: 300},
			{Category: model.CategoryApicultura, BusinessVolume: 100},
			{Category: model.CategoryCarne, BusinessVolume: 200},
			{Category: model.CategoryCafe, BusinessVolume: 50},
		}
		stats := aggregate.Compute(records)

		Convey("Then Categories keeps discovery order with summed volumes", func() {
			So(stats.Categories, ShouldHaveLength, 3)
			So(stats.Categories[0].Key, ShouldEqual, string(model.CategoryCafe))
			So(stats.Categories[0].Volume, ShouldEqual, 350)
			So(stats.Categories[1].Key, ShouldEqual, string(model.CategoryApicultura))
			So(stats.Categories[2].Key, ShouldEqual, string(model.CategoryCarne))
		})

		Convey("And CategoriesByVolume orders ascending", func() {
			So(stats.CategoriesByVolume[0].Key, ShouldEqual, string(model.CategoryApicultura))
			So(stats.CategoriesByVolume[1].Key, ShouldEqual, string(model.CategoryCarne))
			So(stats.CategoriesByVolume[2].Key, ShouldEqual, string(model.CategoryCafe))
		})
	})
}

func TestCompute_InputUntouched(t *testing.T) {
	Convey("Given a record slice", t, func() {
		records := []model.Exhibitor{
			{Name: "A", City: "Jaru", BusinessVolume: 10},
			{Name: "B", City: "Cacoal", BusinessVolume: 20},
		}
		before := make([]model.Exhibitor, len(records))
		copy(before, records)

		aggregate.Compute(records)

		Convey("Then the input is left unmodified", func() {
			So(records, ShouldResemble, before)
		})
	})
}
