package auth

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ValidWalletAddress reports whether addr is a well-formed 0x address.
func ValidWalletAddress(addr string) bool {
	return common.IsHexAddress(addr)
}

// NormalizeWalletAddress lowercases an address into its canonical form.
func NormalizeWalletAddress(addr string) string {
	return strings.ToLower(addr)
}

// VerifyPersonalSignature checks that signature is a valid personal_sign of
// message by the given wallet address. Signatures arrive hex-encoded with
// the recovery byte either 0/1 or 27/28 depending on the wallet.
func VerifyPersonalSignature(message, signature, address string) bool {
	if !common.IsHexAddress(address) {
		return false
	}

	sig, err := hexutil.Decode(signature)
	if err != nil || len(sig) != crypto.SignatureLength {
		return false
	}

	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig = append([]byte(nil), sig...)
		sig[crypto.RecoveryIDOffset] -= 27
	}

	hash := accounts.TextHash([]byte(message))
	pubKey, err := crypto.SigToPub(hash, sig)
	if err != nil {
		return false
	}

	recovered := crypto.PubkeyToAddress(*pubKey)
	return recovered == common.HexToAddress(address)
}
