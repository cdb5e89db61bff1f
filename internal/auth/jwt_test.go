package auth

import "testing"

func TestGenerateAndValidateToken(t *testing.T) {
	InitJWT("test-secret")

	token, err := GenerateToken(42, "0xabc123")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("expected user id 42, got %d", claims.UserID)
	}
	if claims.WalletAddress != "0xabc123" {
		t.Errorf("expected wallet 0xabc123, got %q", claims.WalletAddress)
	}
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	InitJWT("test-secret")

	token, err := GenerateToken(1, "0xabc")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := ValidateToken(token + "x"); err == nil {
		t.Error("tampered token accepted")
	}
	if _, err := ValidateToken("not-a-token"); err == nil {
		t.Error("garbage token accepted")
	}

	// Tokens signed under a different secret must not validate.
	InitJWT("other-secret")
	if _, err := ValidateToken(token); err == nil {
		t.Error("token accepted under wrong secret")
	}
	InitJWT("test-secret")
}
