// Package pillars derives the four stem/branch pillars from a solar-corrected date and hour.
package pillars

import (
	"fmt"
	"time"

	"github.com/Veraticus/four-pillars/internal/common"
	"github.com/Veraticus/four-pillars/internal/model"
)

const (
	// ReferenceJDN is the Julian Day Number the day cycle is anchored to.
	ReferenceJDN = 2423821
	// dayBranchOffset aligns the branch cycle with ReferenceJDN.
	dayBranchOffset = 2
	// baseYear is a 甲子 year; year stems and branches count from here.
	baseYear = 1924
)

// Solar-term boundaries on the civil calendar, in calendar order.
// A date on or after a boundary belongs to the listed branch until the next boundary.
var monthBoundaries = [...]struct {
	month  time.Month
	day    int
	branch model.Branch
}{
	{time.January, 6, 1},   // 丑
	{time.February, 4, 2},  // 寅
	{time.March, 6, 3},     // 卯
	{time.April, 5, 4},     // 辰
	{time.May, 6, 5},       // 巳
	{time.June, 6, 6},      // 午
	{time.July, 7, 7},      // 未
	{time.August, 8, 8},    // 申
	{time.September, 8, 9}, // 酉
	{time.October, 8, 10},  // 戌
	{time.November, 7, 11}, // 亥
	{time.December, 7, 0},  // 子
}

// yearStartMonth and yearStartDay mark the fixed civil approximation of 立春.
const (
	yearStartMonth = time.February
	yearStartDay   = 4
)

// hourStemBase is the stem of the 子 hour indexed by day stem mod 5.
var hourStemBase = [5]model.Stem{0, 2, 4, 6, 8}

// Calculate returns the chart for a solar-corrected date and hour.
func Calculate(year, month, day, hour int) (model.Chart, error) {
	if err := Validate(year, month, day, hour); err != nil {
		return model.Chart{}, err
	}

	yearPillar := YearPillar(year, month, day)
	dayPillar := DayPillar(year, month, day, hour)
	return model.Chart{
		Year:  yearPillar,
		Month: MonthPillar(yearPillar.Stem, month, day),
		Day:   dayPillar,
		Hour:  HourPillar(dayPillar.Stem, hour),
	}, nil
}

// Validate rejects out-of-range calendar input with ErrInvalidDate.
func Validate(year, month, day, hour int) error {
	if year < 1 || year > 9999 {
		return fmt.Errorf("%w: year %d out of range", common.ErrInvalidDate, year)
	}
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month %d out of range", common.ErrInvalidDate, month)
	}
	if limit := DaysIn(year, month); day < 1 || day > limit {
		return fmt.Errorf("%w: day %d out of range for %04d-%02d", common.ErrInvalidDate, day, year, month)
	}
	if hour < 0 || hour > 23 {
		return fmt.Errorf("%w: hour %d out of range", common.ErrInvalidDate, hour)
	}
	return nil
}

// DaysIn returns the number of days in the given Gregorian month.
func DaysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ChineseYear returns the civil year adjusted for the Feb 4 year boundary.
func ChineseYear(year, month, day int) int {
	if beforeBoundary(time.Month(month), day, yearStartMonth, yearStartDay) {
		return year - 1
	}
	return year
}

// YearPillar returns the year pillar, treating dates before Feb 4 as the prior year.
func YearPillar(year, month, day int) model.Pillar {
	offset := ChineseYear(year, month, day) - baseYear
	return model.Pillar{
		Stem:   model.Stem(floorMod(offset, model.StemCount)),
		Branch: model.Branch(floorMod(offset, model.BranchCount)),
	}
}

// MonthBranch returns the branch of the solar month containing the date.
func MonthBranch(month, day int) model.Branch {
	// 子 carries over from the December boundary of the previous year.
	branch := model.Branch(0)
	for _, b := range monthBoundaries {
		if beforeBoundary(time.Month(month), day, b.month, b.day) {
			break
		}
		branch = b.branch
	}
	return branch
}

// MonthPillar returns the month pillar for a year stem and civil date.
// The first month (寅) stem is fixed by the year stem and later months follow in lockstep.
func MonthPillar(yearStem model.Stem, month, day int) model.Pillar {
	branch := MonthBranch(month, day)
	position := floorMod(int(branch)-2, model.BranchCount)
	first := int(yearStem)*2 + 2
	return model.Pillar{
		Stem:   model.Stem(floorMod(first+position, model.StemCount)),
		Branch: branch,
	}
}

// JulianDayNumber returns the Julian Day Number of a proleptic Gregorian date.
func JulianDayNumber(year, month, day int) int {
	a := (14 - month) / 12
	y := year + 4800 - a
	m := month + 12*a - 3
	return day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
}

// DayPillar returns the day pillar. The day starts at 23:00.
func DayPillar(year, month, day, hour int) model.Pillar {
	jdn := JulianDayNumber(year, month, day)
	if hour >= 23 {
		jdn++
	}
	return DayPillarFromJDN(jdn)
}

// DayPillarFromJDN returns the day pillar for a Julian Day Number.
func DayPillarFromJDN(jdn int) model.Pillar {
	offset := jdn - ReferenceJDN
	return model.Pillar{
		Stem:   model.Stem(floorMod(offset, model.StemCount)),
		Branch: model.Branch(floorMod(offset+dayBranchOffset, model.BranchCount)),
	}
}

// HourBranch returns the two-hour block branch for a clock hour.
func HourBranch(hour int) model.Branch {
	return model.Branch(floorMod((hour+1)/2, model.BranchCount))
}

// HourPillar returns the hour pillar for a day stem and clock hour.
func HourPillar(dayStem model.Stem, hour int) model.Pillar {
	branch := HourBranch(hour)
	base := hourStemBase[floorMod(int(dayStem), 5)]
	return model.Pillar{
		Stem:   model.Stem(floorMod(int(base)+int(branch), model.StemCount)),
		Branch: branch,
	}
}

func beforeBoundary(month time.Month, day int, boundaryMonth time.Month, boundaryDay int) bool {
	return month < boundaryMonth || (month == boundaryMonth && day < boundaryDay)
}

func floorMod(a, n int) int {
	return ((a % n) + n) % n
}
