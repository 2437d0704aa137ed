package models

import "testing"

func TestEmergencyContacts_Sorted(t *testing.T) {
	contacts := DefaultEmergencyContacts().Sorted()

	want := []Contact{
		{Service: "POLICE", Number: "100"},
		{Service: "AMBULANCE", Number: "102"},
		{Service: "NATIONAL EMERGENCY", Number: "112"},
		{Service: "WOMEN HELPLINE", Number: "1091"},
	}

	if len(contacts) != len(want) {
		t.Fatalf("len(Sorted()) = %d, want %d", len(contacts), len(want))
	}
	for i := range want {
		if contacts[i] != want[i] {
			t.Errorf("Sorted()[%d] = %+v, want %+v", i, contacts[i], want[i])
		}
	}
}

func TestEmergencyContacts_SortedEmpty(t *testing.T) {
	if got := (EmergencyContacts{}).Sorted(); len(got) != 0 {
		t.Errorf("Sorted() on empty contacts = %v, want empty", got)
	}
}
