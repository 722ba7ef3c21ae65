package format

import (
	"math"
	"strings"
	"testing"
)

func TestPercent(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0.3, "30.00%"},
		{0.1, "10.00%"},
		{0.25, "25.00%"},
		{-0.05, "-5.00%"},
		{0, "0.00%"},
		{0.123456, "12.35%"},
		{math.NaN(), "0.00%"},
		{math.Inf(1), "0.00%"},
	}
	for _, c := range cases {
		if got := Percent(c.in); got != c.want {
			t.Errorf("Percent(%v)=%q want %q", c.in, got, c.want)
		}
	}
}

func TestMoney(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0.6, "$0.60"},
		{20, "$20.00"},
		{1200, "$1200.00"},
		{0.125, "$0.13"},
		{-1.5, "$-1.50"},
		{10.7 / 4, "$2.67"},
		{2.675, "$2.67"},
		{1.005, "$1.00"},
		{1.015, "$1.01"},
		{2.5e-3, "$0.00"},
		{1e22, "$1" + strings.Repeat("0", 22) + ".00"},
	}
	for _, c := range cases {
		if got := Money(c.in); got != c.want {
			t.Errorf("Money(%v)=%q want %q", c.in, got, c.want)
		}
	}
}

func TestUnits(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{60, "60"},
		{59.6, "60"},
		{2.5, "3"},
		{2.49, "2"},
		{-2.5, "-2"},
		{0, "0"},
	}
	for _, c := range cases {
		if got := Units(c.in); got != c.want {
			t.Errorf("Units(%v)=%q want %q", c.in, got, c.want)
		}
	}
}

func TestPercentValue(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{37.5, "37.50%"},
		{2.675, "2.67%"},
		{1.005, "1.00%"},
		{0.125, "0.13%"},
		{math.NaN(), "0.00%"},
	}
	for _, c := range cases {
		if got := PercentValue(c.in); got != c.want {
			t.Errorf("PercentValue(%v)=%q want %q", c.in, got, c.want)
		}
	}
}
