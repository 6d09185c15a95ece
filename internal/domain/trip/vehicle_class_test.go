package trip

import "testing"

func TestNormalizeVehicleClass(t *testing.T) {
	tests := []struct {
		in   string
		want VehicleClass
	}{
		{"Boda", ClassA},
		{" motor ", ClassA},
		{"BIKE", ClassA},
		{"bajaji", ClassB},
		{"TukTuk", ClassB},
		{"auto", ClassB},
		{"Hiace", ClassC},
		{"coaster", ClassC},
		{"VAN", ClassC},
		{"minibus", ClassC},
		{"xl", ClassC},
		{"sedan", ClassD},
		{"Car", ClassD},
		{"SUV", ClassD},
		{"CLASS_A", ClassA},
		{"class c", ClassC},
		{"", ClassUnknown},
		{"rickshaw", ClassUnknown},
		{"boeing 747", ClassUnknown},
	}
	for _, tt := range tests {
		if got := NormalizeVehicleClass(tt.in); got != tt.want {
			t.Errorf("NormalizeVehicleClass(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestVehicleClassKnown(t *testing.T) {
	if ClassUnknown.Known() {
		t.Error("ClassUnknown must not be a known class")
	}
	if !ClassC.Known() {
		t.Error("ClassC must be a known class")
	}
}
