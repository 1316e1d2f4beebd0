package handlers

import "testing"

func TestChatIDCommutative(t *testing.T) {
	a := "64a000000000000000000001"
	b := "64a000000000000000000002"

	if ChatID(a, b) != ChatID(b, a) {
		t.Errorf("ChatID not commutative: %s vs %s", ChatID(a, b), ChatID(b, a))
	}
}

func TestChatIDOrdersLexicographically(t *testing.T) {
	a := "64a000000000000000000002"
	b := "64a000000000000000000001"

	got := ChatID(a, b)
	want := b + "_" + a
	if got != want {
		t.Errorf("ChatID(%s, %s) = %s, want %s", a, b, got, want)
	}
}
