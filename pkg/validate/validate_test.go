package validate

import (
	"strings"
	"testing"
)

func TestCheckEmail(t *testing.T) {
	valid := []string{"bob@x.com", "a@b.c", "first.last@sub.example.org"}
	for _, email := range valid {
		if v := Check(FieldEmail, email); v != nil {
			t.Fatalf("expected %q to be valid, got %q", email, v.Message)
		}
	}

	invalid := []string{"", "plainaddress", "missing-domain@", "@no-local.com", "no-dot@domain", "dot-before@.", "spaces in@local.com"}
	for _, email := range invalid {
		if v := Check(FieldEmail, email); v == nil {
			t.Fatalf("expected %q to be rejected", email)
		}
	}
}

func TestCheckPasswordBounds(t *testing.T) {
	if v := Check(FieldPassword, strings.Repeat("a", 5)); v == nil {
		t.Fatal("expected 5-char password to be rejected")
	}
	if v := Check(FieldPassword, strings.Repeat("a", 65)); v == nil {
		t.Fatal("expected 65-char password to be rejected")
	}
	for _, n := range []int{6, 64} {
		if v := Check(FieldPassword, strings.Repeat("a", n)); v != nil {
			t.Fatalf("expected %d-char password to pass, got %q", n, v.Message)
		}
	}
	if v := Check(FieldPassword, ""); v == nil || v.Message != "password is required" {
		t.Fatalf("expected required violation, got %+v", v)
	}
}

func TestCheckUsernameBounds(t *testing.T) {
	if v := Check(FieldUsername, "ab"); v == nil {
		t.Fatal("expected 2-char username to be rejected")
	}
	if v := Check(FieldUsername, strings.Repeat("u", 33)); v == nil {
		t.Fatal("expected 33-char username to be rejected")
	}
	if v := Check(FieldUsername, "bob"); v != nil {
		t.Fatalf("expected username to pass, got %q", v.Message)
	}
}

func TestCheckGitHubKeyBounds(t *testing.T) {
	if v := Check(FieldGitHubKey, "short"); v == nil {
		t.Fatal("expected short github key to be rejected")
	}
	if v := Check(FieldGitHubKey, strings.Repeat("k", 129)); v == nil {
		t.Fatal("expected 129-char github key to be rejected")
	}
	if v := Check(FieldGitHubKey, "ghkey1234567"); v != nil {
		t.Fatalf("expected github key to pass, got %q", v.Message)
	}
}

func TestLoginCollectsAllViolations(t *testing.T) {
	violations := Login("", "abc")
	if len(violations) != 2 {
		t.Fatalf("expected 2 violations, got %d: %+v", len(violations), violations)
	}
	if violations[0].Field != FieldEmail || violations[1].Field != FieldPassword {
		t.Fatalf("unexpected violation order: %+v", violations)
	}
}

func TestLoginIgnoresRegisterOnlyFields(t *testing.T) {
	if violations := Login("bob@x.com", "secret1"); len(violations) != 0 {
		t.Fatalf("expected no violations, got %+v", violations)
	}
}

func TestRegistrationCollectsAllViolations(t *testing.T) {
	violations := Registration("ab", "not-an-email", "123", "short")
	if len(violations) != 4 {
		t.Fatalf("expected 4 violations, got %d: %+v", len(violations), violations)
	}
	fields := map[string]bool{}
	for _, v := range violations {
		fields[v.Field] = true
	}
	for _, field := range []string{FieldUsername, FieldEmail, FieldPassword, FieldGitHubKey} {
		if !fields[field] {
			t.Fatalf("missing violation for %s", field)
		}
	}
}

func TestRegistrationValid(t *testing.T) {
	if violations := Registration("bob", "bob@x.com", "secret1", "ghkey1234567"); len(violations) != 0 {
		t.Fatalf("expected no violations, got %+v", violations)
	}
}
