package analytics

import (
	"reflect"
	"testing"
	"time"

	"github.com/j-veylop/bike-sharing-dashboard/internal/models"
)

func day(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func hourRows(pairs ...[2]int64) []models.HourlyRecord {
	rows := make([]models.HourlyRecord, len(pairs))
	for i, p := range pairs {
		rows[i] = models.HourlyRecord{Date: day("2011-01-01"), Month: 1, Hour: int(p[0]), Count: p[1]}
	}
	return rows
}

func TestExampleBusyQuietAndPeak(t *testing.T) {
	rows := hourRows([2]int64{8, 500}, [2]int64{17, 600}, [2]int64{3, 10})

	classified, mean := ClassifyBusyQuiet(HourlyRentals(rows))
	if mean != 370 {
		t.Errorf("mean = %v, want 370", mean)
	}

	want := map[int]string{3: models.HourTypeQuiet, 8: models.HourTypeBusy, 17: models.HourTypeBusy}
	if len(classified) != 3 {
		t.Fatalf("classified len = %d, want 3", len(classified))
	}
	for _, c := range classified {
		if c.HourType != want[c.Hour] {
			t.Errorf("hour %d = %s, want %s", c.Hour, c.HourType, want[c.Hour])
		}
	}

	peak := PeakHours(rows)
	wantPeak := []models.HourTotal{{Hour: 17, TotalCount: 600}, {Hour: 8, TotalCount: 500}, {Hour: 3, TotalCount: 10}}
	if !reflect.DeepEqual(peak, wantPeak) {
		t.Errorf("PeakHours = %+v, want %+v", peak, wantPeak)
	}
}

func TestExampleHolidayMonth(t *testing.T) {
	rows := []models.HourlyRecord{
		{Date: day("2011-07-04"), Hour: 9, Month: 7, Holiday: 1, Count: 200},
		{Date: day("2011-07-04"), Hour: 10, Month: 7, Holiday: 1, Count: 300},
	}

	got := MonthlyRentals(rows)
	want := []models.MonthlyRental{{Month: 7, HolidayRaw: 1, Holiday: models.LabelHoliday, TotalCount: 500}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MonthlyRentals = %+v, want %+v", got, want)
	}
}

func TestMonthlyRentals_Ordering(t *testing.T) {
	rows := []models.HourlyRecord{
		{Month: 3, Holiday: 1, Count: 1},
		{Month: 1, Holiday: 1, Count: 2},
		{Month: 3, Holiday: 0, Count: 3},
		{Month: 1, Holiday: 0, Count: 4},
		{Month: 1, Holiday: 2, Count: 5},
	}

	got := MonthlyRentals(rows)
	want := []models.MonthlyRental{
		{Month: 1, HolidayRaw: 0, Holiday: models.LabelWorkingDay, TotalCount: 4},
		{Month: 1, HolidayRaw: 1, Holiday: models.LabelHoliday, TotalCount: 2},
		{Month: 1, HolidayRaw: 2, Holiday: "", TotalCount: 5},
		{Month: 3, HolidayRaw: 0, Holiday: models.LabelWorkingDay, TotalCount: 3},
		{Month: 3, HolidayRaw: 1, Holiday: models.LabelHoliday, TotalCount: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MonthlyRentals = %+v, want %+v", got, want)
	}
}

func TestMonthlyRentalsDaily(t *testing.T) {
	rows := []models.DailyRecord{
		{Month: 2, Holiday: 0, Count: 100},
		{Month: 2, Holiday: 0, Count: 50},
	}
	got := MonthlyRentalsDaily(rows)
	if len(got) != 1 || got[0].TotalCount != 150 || got[0].Holiday != models.LabelWorkingDay {
		t.Errorf("MonthlyRentalsDaily = %+v", got)
	}
}

func TestHourlyRentals_AscendingNoZeroFill(t *testing.T) {
	rows := hourRows([2]int64{23, 1}, [2]int64{0, 2}, [2]int64{12, 3}, [2]int64{0, 4})
	got := HourlyRentals(rows)
	want := []models.HourTotal{{Hour: 0, TotalCount: 6}, {Hour: 12, TotalCount: 3}, {Hour: 23, TotalCount: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("HourlyRentals = %+v, want %+v", got, want)
	}
}

func TestPeakHours_CardinalityAndOrder(t *testing.T) {
	tests := []struct {
		name    string
		hours   int
		wantLen int
	}{
		{"Empty", 0, 0},
		{"Three", 3, 3},
		{"Five", 5, 5},
		{"FullDay", 24, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rows []models.HourlyRecord
			for h := range tt.hours {
				rows = append(rows, models.HourlyRecord{Hour: h, Count: int64((h * 37) % 11)})
			}

			peak := PeakHours(rows)
			if len(peak) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(peak), tt.wantLen)
			}
			for i := 1; i < len(peak); i++ {
				if peak[i].TotalCount > peak[i-1].TotalCount {
					t.Errorf("peak not non-increasing at %d: %+v", i, peak)
				}
			}
		})
	}
}

func TestPeakHours_TiesKeepHourOrder(t *testing.T) {
	rows := hourRows([2]int64{9, 5}, [2]int64{2, 5}, [2]int64{7, 5}, [2]int64{1, 9})
	got := PeakHours(rows)
	wantHours := []int{1, 2, 7, 9}
	for i, h := range wantHours {
		if got[i].Hour != h {
			t.Errorf("position %d hour = %d, want %d", i, got[i].Hour, h)
		}
	}
}

func TestTopHours_DoesNotModifyInput(t *testing.T) {
	in := []models.HourTotal{{Hour: 0, TotalCount: 1}, {Hour: 1, TotalCount: 2}}
	_ = TopHours(in, 5)
	if in[0].Hour != 0 || in[1].Hour != 1 {
		t.Errorf("input reordered: %+v", in)
	}
}

func TestClassifyBusyQuiet(t *testing.T) {
	tests := []struct {
		name     string
		totals   []models.HourTotal
		wantBusy int
	}{
		{"Empty", nil, 0},
		{"AllEqual", []models.HourTotal{{Hour: 0, TotalCount: 5}, {Hour: 1, TotalCount: 5}}, 0},
		{"Single", []models.HourTotal{{Hour: 4, TotalCount: 100}}, 0},
		{"OneAbove", []models.HourTotal{{Hour: 0, TotalCount: 1}, {Hour: 1, TotalCount: 1}, {Hour: 2, TotalCount: 10}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, mean := ClassifyBusyQuiet(tt.totals)
			if len(got) != len(tt.totals) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.totals))
			}
			busy := 0
			for _, c := range got {
				if c.IsBusy() != (float64(c.TotalCount) > mean) {
					t.Errorf("hour %d classified %s with total %d and mean %v", c.Hour, c.HourType, c.TotalCount, mean)
				}
				if c.IsBusy() {
					busy++
				}
			}
			if busy != tt.wantBusy {
				t.Errorf("busy = %d, want %d", busy, tt.wantBusy)
			}
		})
	}
}

func sampleDataset() *models.Dataset {
	var hourly []models.HourlyRecord
	var daily []models.DailyRecord
	start := day("2011-12-30")
	for d := range 4 {
		date := start.AddDate(0, 0, d)
		holiday := 0
		if d == 2 {
			holiday = 1
		}
		var dayTotal int64
		for h := range 24 {
			count := int64((h+1)*(d+1)) % 97
			hourly = append(hourly, models.HourlyRecord{
				Date: date, Hour: h, Month: int(date.Month()), Holiday: holiday, Count: count,
			})
			dayTotal += count
		}
		daily = append(daily, models.DailyRecord{Date: date, Month: int(date.Month()), Holiday: holiday, Count: dayTotal})
	}
	return &models.Dataset{Daily: daily, Hourly: hourly}
}

func TestCompute_ConservationOfTotals(t *testing.T) {
	ds := sampleDataset()
	full := models.DateRange{Start: day("2011-12-30"), End: day("2012-01-02")}

	for _, grain := range []models.Grain{models.GrainHourly, models.GrainDaily} {
		t.Run(grain.String(), func(t *testing.T) {
			s := Compute(ds, full, grain)

			var want int64
			for _, r := range ds.Hourly {
				want += r.Count
			}
			if s.TotalRentals != want {
				t.Errorf("TotalRentals = %d, want %d", s.TotalRentals, want)
			}
			if s.MonthlyTotal() != want {
				t.Errorf("monthly total = %d, want %d", s.MonthlyTotal(), want)
			}
			var hourly, classified int64
			for _, h := range s.Hourly {
				hourly += h.TotalCount
			}
			for _, c := range s.Classified {
				classified += c.TotalCount
			}
			if hourly != want || classified != want {
				t.Errorf("hourly = %d, classified = %d, want %d", hourly, classified, want)
			}
			if s.RowCount != len(ds.Hourly) {
				t.Errorf("RowCount = %d, want %d", s.RowCount, len(ds.Hourly))
			}
		})
	}
}

func TestCompute_MonthlyGroupsSpanYear(t *testing.T) {
	ds := sampleDataset()
	s := Compute(ds, models.DateRange{Start: day("2011-12-30"), End: day("2012-01-02")}, models.GrainHourly)

	// Months 1 and 12 each appear; January has both day types.
	if len(s.Monthly) != 3 {
		t.Fatalf("monthly = %+v", s.Monthly)
	}
	if s.Monthly[0].Month != 1 || s.Monthly[0].Holiday != models.LabelWorkingDay {
		t.Errorf("monthly[0] = %+v", s.Monthly[0])
	}
	if s.Monthly[1].Month != 1 || s.Monthly[1].Holiday != models.LabelHoliday {
		t.Errorf("monthly[1] = %+v", s.Monthly[1])
	}
	if s.Monthly[2].Month != 12 {
		t.Errorf("monthly[2] = %+v", s.Monthly[2])
	}
}

func TestCompute_SingleDay(t *testing.T) {
	ds := sampleDataset()
	one := models.DateRange{Start: day("2012-01-01"), End: day("2012-01-01")}
	s := Compute(ds, one, models.GrainHourly)

	if s.RowCount != 24 {
		t.Errorf("RowCount = %d, want 24", s.RowCount)
	}
	if len(s.Monthly) != 1 || s.Monthly[0].Holiday != models.LabelHoliday {
		t.Errorf("Monthly = %+v", s.Monthly)
	}
}

func TestCompute_EmptySelection(t *testing.T) {
	ds := sampleDataset()
	s := Compute(ds, models.DateRange{Start: day("2015-01-01"), End: day("2015-01-31")}, models.GrainHourly)

	if s.HasData() {
		t.Error("summary should be empty")
	}
	if len(s.Monthly) != 0 || len(s.Hourly) != 0 || len(s.PeakHours) != 0 || len(s.Classified) != 0 {
		t.Errorf("expected empty tables, got %+v", s)
	}

	nilSummary := Compute(nil, models.DateRange{}, models.GrainHourly)
	if nilSummary.HasData() || nilSummary.Monthly == nil {
		t.Errorf("nil dataset summary = %+v", nilSummary)
	}
}

func TestCompute_Idempotent(t *testing.T) {
	ds := sampleDataset()
	r := models.DateRange{Start: day("2011-12-31"), End: day("2012-01-01")}

	first := Compute(ds, r, models.GrainHourly)
	second := Compute(ds, r, models.GrainHourly)
	if !reflect.DeepEqual(first, second) {
		t.Error("Compute is not idempotent")
	}
}
