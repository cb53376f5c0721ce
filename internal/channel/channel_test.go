package channel

import "testing"

func TestBaseChannel_Resolve(t *testing.T) {
	base := &BaseChannel{
		Identities: map[string]string{
			"1001": "ana.petrov@acmecorp.com",
			"1002": "  ",
		},
	}

	email, ok := base.Resolve("1001")
	if !ok {
		t.Fatal("expected mapped sender to resolve")
	}
	if email != "ana.petrov@acmecorp.com" {
		t.Fatalf("expected ana's email, got %q", email)
	}

	if _, ok := base.Resolve(" 1001 "); !ok {
		t.Fatal("expected sender id to be trimmed before lookup")
	}

	if _, ok := base.Resolve("1002"); ok {
		t.Fatal("expected blank mapping to be rejected")
	}
	if _, ok := base.Resolve("9999"); ok {
		t.Fatal("expected unmapped sender to be rejected")
	}
}

func TestBaseChannel_ResolveEmptyMap(t *testing.T) {
	base := &BaseChannel{}
	if _, ok := base.Resolve("anyone"); ok {
		t.Fatal("a channel without identities must reject every sender")
	}
}
