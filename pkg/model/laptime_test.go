//nolint:funlen // ok for tests
package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLapTime(t *testing.T) {
	type test struct {
		name    string
		arg     string
		want    string
		wantErr bool
	}
	tests := []test{
		{name: "minute format", arg: "1:26.572", want: "1:26.572"},
		{name: "plain seconds", arg: "86.572", want: "1:26.572"},
		{name: "below a minute", arg: "59.999", want: "59.999"},
		{name: "whitespace", arg: " 1:10.346 ", want: "1:10.346"},
		{name: "empty means unset", arg: "", want: ""},
		{name: "garbage", arg: "fast", wantErr: true},
		{name: "broken minutes", arg: "x:26.572", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseLapTime(tc.arg)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestLapTimeValid(t *testing.T) {
	unset, err := ParseLapTime("")
	assert.NoError(t, err)
	assert.False(t, unset.Valid())

	set, err := ParseLapTime("1:10.346")
	assert.NoError(t, err)
	assert.True(t, set.Valid())
	assert.Equal(t, "70.346", set.Seconds().String())
}

func TestBestLap(t *testing.T) {
	mustParse := func(arg string) LapTime {
		ret, err := ParseLapTime(arg)
		if err != nil {
			t.Fatalf("parse %s: %v", arg, err)
		}
		return ret
	}
	// the last segment reached wins even when a slower time was set there
	row := RawQualifyingRow{
		Q1: mustParse("1:10.100"),
		Q2: mustParse("1:10.500"),
		Q3: mustParse("1:10.900"),
	}
	assert.Equal(t, "1:10.900", row.BestLap().String())

	row.Q3 = LapTime{}
	assert.Equal(t, "1:10.500", row.BestLap().String())

	row.Q2 = LapTime{}
	assert.Equal(t, "1:10.100", row.BestLap().String())

	empty := RawQualifyingRow{}
	assert.False(t, empty.BestLap().Valid())
}
