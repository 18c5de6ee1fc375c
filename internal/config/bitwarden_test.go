package config

import (
	"context"
	"errors"
	"testing"
)

func TestParseSecretList(t *testing.T) {
	raw := []byte(`[
  {"object":"secret","id":"1","key":"jwt_secret","value":"abc","projectId":"p"},
  {"object":"secret","id":"2","key":"email_password","value":"pw","projectId":"p"}
]`)
	got, err := parseSecretList(raw)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 2 || got["jwt_secret"] != "abc" || got["email_password"] != "pw" {
		t.Errorf("unexpected secrets %v", got)
	}
}

func TestParseSecretList_Invalid(t *testing.T) {
	if _, err := parseSecretList([]byte("not json")); err == nil {
		t.Fatal("expected error")
	}
}

func TestBitwardenCLI_RejectsProjectID(t *testing.T) {
	cli := BitwardenCLI{Binary: "bws-does-not-exist"}
	_, err := cli.Secrets(context.Background(), "Project$")
	if !errors.Is(err, ErrInvalidProjectID) {
		t.Fatalf("expected ErrInvalidProjectID, got %v", err)
	}
}

func TestBitwardenCLI_MissingBinary(t *testing.T) {
	cli := BitwardenCLI{Binary: "bws-does-not-exist-anywhere"}
	if _, err := cli.Secrets(context.Background(), "abc"); err == nil {
		t.Fatal("expected error when the binary is missing")
	}
}
