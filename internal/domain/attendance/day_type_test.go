package attendance

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayType_Multipliers(t *testing.T) {
	tests := []struct {
		dayType  DayType
		overtime string
		holiday  string
		isHol    bool
	}{
		{DayTypeRegular, "1.25", "0", false},
		{DayTypeRestDay, "1.30", "0", false},
		{DayTypeRegularHoliday, "2.00", "1.00", true},
		{DayTypeSpecialHoliday, "1.30", "0.30", true},
		{DayTypeDoubleHoliday, "3.00", "2.00", true},
		{DayTypeRestDayHoliday, "2.60", "1.30", true},
	}

	require.Len(t, tests, len(DayTypes))
	for _, tt := range tests {
		t.Run(tt.dayType.String(), func(t *testing.T) {
			ot, ok := tt.dayType.OvertimeMultiplier()
			require.True(t, ok)
			assert.True(t, ot.Equal(decimal.RequireFromString(tt.overtime)))

			hol, ok := tt.dayType.HolidayMultiplier()
			require.True(t, ok)
			assert.True(t, hol.Equal(decimal.RequireFromString(tt.holiday)))

			assert.Equal(t, tt.isHol, tt.dayType.IsHoliday())
			assert.True(t, tt.dayType.Valid())
		})
	}
}

func TestDayType_Unknown(t *testing.T) {
	for _, d := range []DayType{0, 7, -1} {
		_, ok := d.OvertimeMultiplier()
		assert.False(t, ok)
		_, ok = d.HolidayMultiplier()
		assert.False(t, ok)
		assert.False(t, d.Valid())
		assert.False(t, d.IsHoliday())

		_, err := d.MarshalText()
		assert.ErrorIs(t, err, ErrUnknownDayType)
	}
}

func TestParseDayType(t *testing.T) {
	tests := []struct {
		in   string
		want DayType
	}{
		{"Regular", DayTypeRegular},
		{"rest_day", DayTypeRestDay},
		{"REGULARHOLIDAY", DayTypeRegularHoliday},
		{"special_holiday", DayTypeSpecialHoliday},
		{"DoubleHoliday", DayTypeDoubleHoliday},
		{" rest_day_holiday ", DayTypeRestDayHoliday},
	}
	for _, tt := range tests {
		got, err := ParseDayType(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseDayType("holiday")
	assert.ErrorIs(t, err, ErrUnknownDayType)
}

func TestDayType_JSON(t *testing.T) {
	type payload struct {
		DayType DayType `json:"day_type"`
	}

	b, err := json.Marshal(payload{DayType: DayTypeSpecialHoliday})
	require.NoError(t, err)
	assert.JSONEq(t, `{"day_type":"SpecialHoliday"}`, string(b))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"day_type":"rest_day"}`), &p))
	assert.Equal(t, DayTypeRestDay, p.DayType)

	assert.Error(t, json.Unmarshal([]byte(`{"day_type":"weekend"}`), &p))
}
