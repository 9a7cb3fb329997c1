package model

import "testing"

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"typical amount", "99.00", 99.0},
		{"with cents", "1234.56", 1234.56},
		{"integer string", "45", 45.0},
		{"zero", "0", 0},
		{"empty string", "", 0},
		{"malformed", "abc", 0},
		{"negative refund", "-10.50", -10.50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAmount(tt.input)
			if got != tt.want {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		decimals int
		want     string
	}{
		{"two decimals", 99.0, 2, "99.00"},
		{"rounding up", 99.005, 2, "99.01"},
		{"rounding down", 99.004, 2, "99.00"},
		{"rounding carries across units", 9.999, 2, "10.00"},
		{"rounding carries to new digit", 999.995, 2, "1000.00"},
		{"no grouping separators", 1234.5, 2, "1234.50"},
		{"millions ungrouped", 1234567.89, 2, "1234567.89"},
		{"zero decimal currency", 1500.0, 0, "1500"},
		{"zero decimal rounds half up", 1500.5, 0, "1501"},
		{"negative", -1234.5, 2, "-1234.50"},
		{"negative decimals clamped", 12.3, -1, "12"},
		{"truncating extra precision", 19.991234, 2, "19.99"},
		{"zero", 0, 2, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatAmount(tt.value, tt.decimals)
			if got != tt.want {
				t.Errorf("FormatAmount(%v, %d) = %q, want %q", tt.value, tt.decimals, got, tt.want)
			}
		})
	}
}

func TestUnitPrice(t *testing.T) {
	tests := []struct {
		name     string
		total    string
		quantity int
		want     float64
	}{
		{"simple division", "100.00", 4, 25.0},
		{"quantity one", "19.99", 1, 19.99},
		{"zero quantity clamped", "50.00", 0, 50.0},
		{"negative quantity clamped", "50.00", -3, 50.0},
		{"empty total", "", 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UnitPrice(tt.total, tt.quantity)
			if got != tt.want {
				t.Errorf("UnitPrice(%q, %d) = %v, want %v", tt.total, tt.quantity, got, tt.want)
			}
		})
	}
}

func TestDecodeCurrencySymbol(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"numeric entity dollar", "&#36;", "$"},
		{"named entity euro", "&euro;", "€"},
		{"named entity pound", "&pound;", "£"},
		{"plain symbol passes through", "$", "$"},
		{"nbsp becomes regular space", "kr&nbsp;", "kr "},
		{"raw nbsp rune", "kr ", "kr "},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeCurrencySymbol(tt.input)
			if got != tt.want {
				t.Errorf("DecodeCurrencySymbol(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
