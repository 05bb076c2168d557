package main

import "testing"

func TestGenerateID(t *testing.T) {
	id := GenerateID(4)
	if len(id) != 8 {
		t.Errorf("len(GenerateID(4)) = %d, want 8", len(id))
	}
	if GenerateID(4) == id {
		t.Error("consecutive ids collide")
	}
}

func TestGenerateUUID(t *testing.T) {
	u := GenerateUUID()
	if len(u) != 36 {
		t.Fatalf("len = %d, want 36: %q", len(u), u)
	}
	for _, i := range []int{8, 13, 18, 23} {
		if u[i] != '-' {
			t.Errorf("missing separator at %d: %q", i, u)
		}
	}
	if u[14] != '4' {
		t.Errorf("version nibble = %c, want 4", u[14])
	}
	if GenerateUUID() == u {
		t.Error("consecutive uuids collide")
	}
}
