package models

import "testing"

func TestValidCategory(t *testing.T) {
	for _, c := range PlaceCategories {
		if !ValidCategory(c) {
			t.Errorf("ValidCategory(%q) = false", c)
		}
	}
	for _, c := range []string{"", "clinic", "Bar", "Gym"} {
		if ValidCategory(c) {
			t.Errorf("ValidCategory(%q) = true", c)
		}
	}
}
