package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestCodec(leeway time.Duration) *TokenCodec {
	return NewTokenCodec([]byte("test-secret"), time.Hour, 24*time.Hour, leeway)
}

func TestIssueAndVerifyRoundtrip(t *testing.T) {
	codec := newTestCodec(0)
	subject := uuid.New()

	for _, purpose := range []TokenPurpose{PurposeAccess, PurposeRefresh} {
		token, err := codec.Issue(subject, purpose)
		if err != nil {
			t.Fatalf("Issue(%s) failed: %v", purpose, err)
		}

		got, gotPurpose, err := codec.Verify(token)
		if err != nil {
			t.Fatalf("Verify(%s) failed: %v", purpose, err)
		}
		if got != subject {
			t.Errorf("Verify returned subject %s, want %s", got, subject)
		}
		if gotPurpose != purpose {
			t.Errorf("Verify returned purpose %s, want %s", gotPurpose, purpose)
		}
	}
}

func TestVerifyWrongKey(t *testing.T) {
	codec := newTestCodec(0)
	other := NewTokenCodec([]byte("different-secret"), time.Hour, 24*time.Hour, 0)

	token, err := codec.Issue(uuid.New(), PurposeAccess)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, _, err := other.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify with wrong key returned %v, want ErrInvalidToken", err)
	}
}

func TestVerifyGarbage(t *testing.T) {
	codec := newTestCodec(0)

	for _, tokenString := range []string{"", "not-a-token", "a.b.c"} {
		if _, _, err := codec.Verify(tokenString); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q) returned %v, want ErrInvalidToken", tokenString, err)
		}
	}
}

func TestVerifyExpired(t *testing.T) {
	codec := newTestCodec(0)
	issued := time.Now()
	codec.now = func() time.Time { return issued }

	token, err := codec.Issue(uuid.New(), PurposeAccess)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// Just past the access TTL
	codec.now = func() time.Time { return issued.Add(time.Hour + time.Second) }
	if _, _, err := codec.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Verify after expiry returned %v, want ErrTokenExpired", err)
	}

	// Just inside the access TTL
	codec.now = func() time.Time { return issued.Add(time.Hour - time.Second) }
	if _, _, err := codec.Verify(token); err != nil {
		t.Errorf("Verify before expiry returned %v, want nil", err)
	}
}

func TestVerifyLeeway(t *testing.T) {
	codec := newTestCodec(2 * time.Minute)
	issued := time.Now()
	codec.now = func() time.Time { return issued }

	token, err := codec.Issue(uuid.New(), PurposeAccess)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// One minute past expiry, inside the two minute leeway
	codec.now = func() time.Time { return issued.Add(time.Hour + time.Minute) }
	if _, _, err := codec.Verify(token); err != nil {
		t.Errorf("Verify within leeway returned %v, want nil", err)
	}

	// Three minutes past expiry, outside the leeway
	codec.now = func() time.Time { return issued.Add(time.Hour + 3*time.Minute) }
	if _, _, err := codec.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Verify beyond leeway returned %v, want ErrTokenExpired", err)
	}
}

func TestVerifyPurposeMismatch(t *testing.T) {
	codec := newTestCodec(0)
	subject := uuid.New()

	refreshToken, err := codec.Issue(subject, PurposeRefresh)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := codec.VerifyPurpose(refreshToken, PurposeAccess); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("VerifyPurpose(refresh as access) returned %v, want ErrInvalidToken", err)
	}

	got, err := codec.VerifyPurpose(refreshToken, PurposeRefresh)
	if err != nil {
		t.Fatalf("VerifyPurpose(refresh) failed: %v", err)
	}
	if got != subject {
		t.Errorf("VerifyPurpose returned subject %s, want %s", got, subject)
	}
}
