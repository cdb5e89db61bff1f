package auth

import (
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

func signPersonal(t *testing.T, message string) (address, signature string) {
	t.Helper()

	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}
	// Wallets emit the recovery byte as 27/28.
	sig[crypto.RecoveryIDOffset] += 27

	return crypto.PubkeyToAddress(key.PublicKey).Hex(), hexutil.Encode(sig)
}

func TestVerifyPersonalSignature(t *testing.T) {
	message := "Welcome to Public Notepad!\n\nNonce: abc123"
	address, signature := signPersonal(t, message)

	if !VerifyPersonalSignature(message, signature, address) {
		t.Error("valid signature rejected")
	}

	// A different message does not verify.
	if VerifyPersonalSignature("tampered message", signature, address) {
		t.Error("signature accepted for wrong message")
	}

	// A different signer does not verify.
	otherAddress, _ := signPersonal(t, message)
	if VerifyPersonalSignature(message, signature, otherAddress) {
		t.Error("signature accepted for wrong address")
	}
}

func TestVerifyPersonalSignatureMalformed(t *testing.T) {
	message := "hello"
	address, signature := signPersonal(t, message)

	cases := []struct {
		name      string
		signature string
		address   string
	}{
		{"not hex", "zzzz", address},
		{"too short", "0x1234", address},
		{"empty", "", address},
		{"bad address", signature, "not-an-address"},
	}
	for _, tc := range cases {
		if VerifyPersonalSignature(message, tc.signature, tc.address) {
			t.Errorf("%s: malformed input accepted", tc.name)
		}
	}
}

func TestValidWalletAddress(t *testing.T) {
	if !ValidWalletAddress("0x1234567890abcdef1234567890abcdef12345678") {
		t.Error("well-formed address rejected")
	}
	if ValidWalletAddress("0x123") {
		t.Error("short address accepted")
	}
	if ValidWalletAddress("") {
		t.Error("empty address accepted")
	}
}

func TestNormalizeWalletAddress(t *testing.T) {
	if got := NormalizeWalletAddress("0xABCdef"); got != "0xabcdef" {
		t.Errorf("expected lowercase form, got %q", got)
	}
}
