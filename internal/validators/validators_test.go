package validators

import "testing"

func TestIsEmail(t *testing.T) {
	cases := map[string]bool{
		"ayse@example.com":        true,
		"Ayse <ayse@example.com>": false,
		"no-at-sign.example.com":  false,
		"ayse@localhost":          false,
		"":                        false,
	}
	for in, want := range cases {
		if got := IsEmail(in); got != want {
			t.Errorf("IsEmail(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	got, err := NormalizePhone("0532 123 45 67", "TR")
	if err != nil {
		t.Fatal(err)
	}
	if got != "+905321234567" {
		t.Fatalf("got %s", got)
	}

	got, err = NormalizePhone("+1 650-253-0000", "TR")
	if err != nil {
		t.Fatal(err)
	}
	if got != "+16502530000" {
		t.Fatalf("got %s", got)
	}

	if _, err := NormalizePhone("12", "TR"); err != ErrInvalidPhone {
		t.Fatalf("expected ErrInvalidPhone, got %v", err)
	}
}
