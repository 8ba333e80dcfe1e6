package models

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestHolidayLabel(t *testing.T) {
	tests := []struct {
		flag int
		want string
	}{
		{0, LabelWorkingDay},
		{1, LabelHoliday},
		{2, ""},
		{-1, ""},
	}
	for _, tt := range tests {
		if got := HolidayLabel(tt.flag); got != tt.want {
			t.Errorf("HolidayLabel(%d) = %q, want %q", tt.flag, got, tt.want)
		}
	}
}

func TestMonthName(t *testing.T) {
	if got := MonthName(1); got != "Jan" {
		t.Errorf("MonthName(1) = %q, want Jan", got)
	}
	if got := MonthName(12); got != "Dec" {
		t.Errorf("MonthName(12) = %q, want Dec", got)
	}
	if got := MonthName(13); got != "?" {
		t.Errorf("MonthName(13) = %q, want ?", got)
	}
}

func TestDateRange_Contains(t *testing.T) {
	r := DateRange{Start: day("2011-01-05"), End: day("2011-01-10")}

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"Start", day("2011-01-05"), true},
		{"End", day("2011-01-10"), true},
		{"EndWithTime", day("2011-01-10").Add(23 * time.Hour), true},
		{"Before", day("2011-01-04"), false},
		{"After", day("2011-01-11"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.at); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestDateRange_Days(t *testing.T) {
	r := DateRange{Start: day("2011-01-01"), End: day("2011-01-01")}
	if r.Days() != 1 {
		t.Errorf("Days() = %d, want 1", r.Days())
	}
	r.End = day("2011-12-31")
	if r.Days() != 365 {
		t.Errorf("Days() = %d, want 365", r.Days())
	}
	r.End = day("2010-12-31")
	if r.Days() != 0 {
		t.Errorf("Days() = %d, want 0 for reversed range", r.Days())
	}
}

func TestDateRange_String(t *testing.T) {
	r := DateRange{Start: day("2011-01-01"), End: day("2012-12-31")}
	if got := r.String(); got != "2011-01-01..2012-12-31" {
		t.Errorf("String() = %q", got)
	}
	if !(DateRange{}).IsZero() {
		t.Error("zero range should report IsZero")
	}
}

func TestParseGrain(t *testing.T) {
	tests := []struct {
		in      string
		want    Grain
		wantErr bool
	}{
		{"hourly", GrainHourly, false},
		{"", GrainHourly, false},
		{"daily", GrainDaily, false},
		{"weekly", GrainHourly, true},
	}
	for _, tt := range tests {
		got, err := ParseGrain(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseGrain(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseGrain(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if GrainDaily.String() != "daily" || Grain(9).String() != "unknown" {
		t.Error("Grain.String mismatch")
	}
}

func TestSummary_Helpers(t *testing.T) {
	s := &Summary{
		RowCount: 3,
		Monthly: []MonthlyRental{
			{Month: 1, Holiday: LabelWorkingDay, TotalCount: 100},
			{Month: 1, Holiday: LabelHoliday, TotalCount: 20},
		},
		Classified: []ClassifiedHour{
			{Hour: 8, TotalCount: 500, HourType: HourTypeBusy},
			{Hour: 3, TotalCount: 10, HourType: HourTypeQuiet},
		},
	}
	if !s.HasData() {
		t.Error("HasData should be true")
	}
	if s.BusyCount() != 1 {
		t.Errorf("BusyCount = %d, want 1", s.BusyCount())
	}
	if s.MonthlyTotal() != 120 {
		t.Errorf("MonthlyTotal = %d, want 120", s.MonthlyTotal())
	}

	var empty *Summary
	if empty.HasData() {
		t.Error("nil summary should have no data")
	}
}

func TestDataset_IsEmpty(t *testing.T) {
	var ds *Dataset
	if !ds.IsEmpty() {
		t.Error("nil dataset should be empty")
	}
	ds = &Dataset{Hourly: []HourlyRecord{{Hour: 1}}}
	if ds.IsEmpty() {
		t.Error("dataset with rows should not be empty")
	}
}

func TestChartSpecs(t *testing.T) {
	wantTitles := []string{
		"Total Bike Rentals per Month",
		"Total Rentals Per Hour",
		"Top 5 Peak Hours for Bike Rentals",
		"Busy and Quiet Hours",
	}
	if len(Charts) != len(wantTitles) {
		t.Fatalf("Charts has %d entries, want %d", len(Charts), len(wantTitles))
	}

	files := make(map[string]bool)
	for i, c := range Charts {
		spec := c.Spec()
		if spec.Title != wantTitles[i] {
			t.Errorf("chart %d title = %q, want %q", i, spec.Title, wantTitles[i])
		}
		if spec.YLabel != "Total Rentals (cnt)" {
			t.Errorf("chart %d YLabel = %q", i, spec.YLabel)
		}
		if files[spec.FileName] {
			t.Errorf("duplicate file name %q", spec.FileName)
		}
		files[spec.FileName] = true
	}
}

func TestChartColors(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{HolidayColor(LabelHoliday), ColorHoliday},
		{HolidayColor(LabelWorkingDay), ColorWorkingDay},
		{HolidayColor(""), ColorUnlabelled},
		{HourTypeColor(HourTypeBusy), ColorBusy},
		{HourTypeColor(HourTypeQuiet), ColorQuiet},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("color = %q, want %q", tt.got, tt.want)
		}
	}
}

func TestStoreStats_HasImport(t *testing.T) {
	if (StoreStats{}).HasImport() {
		t.Error("zero stats should report no import")
	}
	if !(StoreStats{LastImport: time.Now()}).HasImport() {
		t.Error("stats with an import time should report an import")
	}
}
