package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/civicreport/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer([]byte("super-secret"), 0)

	tok, err := issuer.Issue(42)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	got, err := issuer.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if got != 42 {
		t.Fatalf("userID mismatch: got %d want 42", got)
	}
}

func TestIssue_ZeroTTLOmitsExpiry(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer([]byte("k"), 0)
	tok, err := issuer.Issue(7)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		t.Fatalf("ParseUnverified error: %v", err)
	}
	if claims.ExpiresAt != nil {
		t.Fatalf("expected no exp claim, got %v", claims.ExpiresAt)
	}
	if claims.Subject != "7" {
		t.Fatalf("subject mismatch: %q", claims.Subject)
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer([]byte("secret"), time.Minute)
	issued := time.Now()
	issuer.now = func() time.Time { return issued }

	tok, err := issuer.Issue(1)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	issuer.now = func() time.Time { return issued.Add(2 * time.Minute) }

	_, err = issuer.Verify(tok)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenIssuer([]byte("right-secret"), 0).Issue(2)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = NewTokenIssuer([]byte("wrong-secret"), 0).Verify(tok)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestVerify_TamperedSignature(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer([]byte("k"), 0)
	tok, err := issuer.Issue(3)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	parts := strings.Split(tok, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := issuer.Verify(tampered); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestVerify_TamperedSubject(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer([]byte("k"), 0)
	tok, err := issuer.Issue(3)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	other, err := issuer.Issue(4)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	a := strings.Split(tok, ".")
	b := strings.Split(other, ".")
	spliced := a[0] + "." + b[1] + "." + a[2]

	if _, err := issuer.Verify(spliced); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{Subject: "5"}).SignedString(secret)
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}

	if _, err := NewTokenIssuer(secret, 0).Verify(tok); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestVerify_NonNumericSubject(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "alice"}).SignedString(secret)
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}

	if _, err := NewTokenIssuer(secret, 0).Verify(tok); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestVerify_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := NewTokenIssuer([]byte("k"), 0).Verify("not.a.jwt")
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "valid", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "trailing space", header: "Bearer abc ", want: "abc"},
		{name: "empty", header: "", wantErr: true},
		{name: "no token", header: "Bearer ", wantErr: true},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", wantErr: true},
		{name: "lowercase scheme", header: "bearer abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BearerToken(tt.header)
			if tt.wantErr {
				if !errors.Is(err, common.ErrInvalidToken) {
					t.Fatalf("expected common.ErrInvalidToken, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q want %q", got, tt.want)
			}
		})
	}
}
