package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatIndianNumber(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{100000, "1,00,000"},
		{1234567, "12,34,567"},
		{123456789, "12,34,56,789"},
		{1234.5, "1,234.5"},
		{-1234567, "-12,34,567"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatIndianNumber(tt.amount), "amount %v", tt.amount)
	}
}

func TestParseIndianNumber(t *testing.T) {
	assert.Equal(t, float64(1234567), ParseIndianNumber("12,34,567"))
	assert.Equal(t, float64(1000.25), ParseIndianNumber(" 1,000.25 "))
	assert.Equal(t, float64(0), ParseIndianNumber("not a number"))
}

func TestIndianNumberLabel(t *testing.T) {
	assert.Equal(t, "₹2.5 Crores", IndianNumberLabel(25000000))
	assert.Equal(t, "₹1.0 Crore", IndianNumberLabel(10000000))
	assert.Equal(t, "₹3.5 Lakhs", IndianNumberLabel(350000))
	assert.Equal(t, "₹1.0 Lakh", IndianNumberLabel(100000))
	assert.Equal(t, "₹5.0 Thousand", IndianNumberLabel(5000))
	assert.Equal(t, "₹500", IndianNumberLabel(500))
}
