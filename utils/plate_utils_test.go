package utils

import "testing"

func TestFormatVehiclePlate(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "abc1234", "ABC1234"},
		{"with dash", "ABC-1234", "ABC1234"},
		{"with spaces", " abc 1234 ", "ABC1234"},
		{"mercosul", "abc1d23", "ABC1D23"},
		{"already normalized", "ABC1234", "ABC1234"},
		{"empty", "", ""},
		{"only separators", "--  .", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FormatVehiclePlate(tc.input)
			if got != tc.want {
				t.Errorf("FormatVehiclePlate(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestFormatVehiclePlateIdempotent(t *testing.T) {
	inputs := []string{"abc1234", "ABC-1234", "a b c 1 2 3 4"}
	for _, input := range inputs {
		once := FormatVehiclePlate(input)
		twice := FormatVehiclePlate(once)
		if once != twice {
			t.Errorf("normalization of %q not idempotent: %q != %q", input, once, twice)
		}
	}
}

func TestFormatVehiclePlateEquivalentForms(t *testing.T) {
	// 同一车牌的不同书写形式必须归一到同一个值
	if FormatVehiclePlate("abc1234") != FormatVehiclePlate("ABC-1234") {
		t.Errorf("equivalent plate spellings normalized differently: %q vs %q",
			FormatVehiclePlate("abc1234"), FormatVehiclePlate("ABC-1234"))
	}
}

func TestIsValidVehiclePlate(t *testing.T) {
	cases := []struct {
		plate string
		want  bool
	}{
		{"ABC1234", true},
		{"abc-1234", true},
		{"AB123", false},
		{"", false},
		{"ABCD12345", false},
	}

	for _, tc := range cases {
		if got := IsValidVehiclePlate(tc.plate); got != tc.want {
			t.Errorf("IsValidVehiclePlate(%q) = %v, want %v", tc.plate, got, tc.want)
		}
	}
}
