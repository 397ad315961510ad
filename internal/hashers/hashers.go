// Package hashers verifies password credential records in every format the
// accounts database has ever stored and produces records in the current one.
//
// A credential record is a single string:
//
//	sha512$<salt>$<hexdigest>                current
//	sha512+MD5$<salt>$<hexdigest>            legacy, digest over md5hex(password)
//	sha512+base64$<b64 salt>$<hexdigest>     legacy, salt base64, UTF-8 then Latin-1
//	sha512+MD5+base64$<b64 salt>$<hexdigest> legacy, both of the above
//	<32 hex characters>                      legacy, unsalted md5
//
// Nothing in this package returns an error for a malformed record: it simply
// does not match.
package hashers

import (
	"crypto/md5"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/dmitrijs2005/addonaccounts/internal/common"
	"golang.org/x/text/encoding/charmap"
)

// Algorithm is the tag in front of the first '$' of a credential record.
type Algorithm string

const (
	SHA512          Algorithm = "sha512"
	SHA512MD5       Algorithm = "sha512+MD5"
	SHA512Base64    Algorithm = "sha512+base64"
	SHA512MD5Base64 Algorithm = "sha512+MD5+base64"
	// MD5 has no tag in the record; it is identified by shape.
	MD5 Algorithm = "md5"
)

// Current is the algorithm new records are written with.
const Current = SHA512

// UnusablePrefix marks a record that can never be used to log in.
const UnusablePrefix = "!"

const saltBytes = 6

var (
	ErrInvalidSalt      = errors.New("salt must not contain '$'")
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
)

type verifier func(candidate, salt, digest string) bool

var verifiers = map[Algorithm]verifier{
	SHA512:          salted(false, false),
	SHA512MD5:       salted(true, false),
	SHA512Base64:    salted(false, true),
	SHA512MD5Base64: salted(true, true),
	MD5:             unsaltedMD5,
}

// Check reports whether candidate matches the stored record.
func Check(candidate, encoded string) bool {
	if !IsUsable(encoded) {
		return false
	}
	algo, salt, digest, ok := split(encoded)
	if !ok {
		return false
	}
	return verifiers[algo](candidate, salt, digest)
}

// CheckOptional is Check for a candidate that may be absent. A nil
// candidate never matches.
func CheckOptional(candidate *string, encoded string) bool {
	if candidate == nil {
		return false
	}
	return Check(*candidate, encoded)
}

// UpgradeIfNeeded returns a fresh current-format record for candidate when
// encoded uses a legacy algorithm. It must only be called after Check
// returned true for the same pair.
func UpgradeIfNeeded(candidate, encoded string) (string, bool) {
	algo, ok := Identify(encoded)
	if !ok || algo == Current {
		return "", false
	}
	upgraded, err := Encode(candidate)
	if err != nil {
		return "", false
	}
	return upgraded, true
}

// IsUsable reports whether encoded can ever match a password. The format
// is not inspected: legacy and unrecognized records are usable.
func IsUsable(encoded string) bool {
	return encoded != "" && !strings.HasPrefix(encoded, UnusablePrefix)
}

// Identify returns the algorithm of a recognized record.
func Identify(encoded string) (Algorithm, bool) {
	algo, _, _, ok := split(encoded)
	return algo, ok
}

// Encode hashes password into a current-format record with a random salt.
func Encode(password string) (string, error) {
	salt, err := common.MakeRandHexString(saltBytes)
	if err != nil {
		return "", err
	}
	return MakePassword(password, salt, Current)
}

// MakeUnusable returns a record for which IsUsable is false.
func MakeUnusable() string {
	suffix, err := common.MakeRandHexString(20)
	if err != nil {
		return UnusablePrefix
	}
	return UnusablePrefix + suffix
}

// MakePassword deterministically encodes password with salt. For the base64
// algorithms salt is the raw salt and is stored base64 encoded; the MD5
// algorithm ignores salt.
func MakePassword(password, salt string, algo Algorithm) (string, error) {
	if _, ok := verifiers[algo]; !ok {
		return "", ErrUnknownAlgorithm
	}
	if algo == MD5 {
		return md5hex([]byte(password)), nil
	}
	if strings.Contains(salt, "$") {
		return "", ErrInvalidSalt
	}

	value := []byte(password)
	if algo == SHA512MD5 || algo == SHA512MD5Base64 {
		value = []byte(md5hex(value))
	}
	stored := salt
	if algo == SHA512Base64 || algo == SHA512MD5Base64 {
		stored = base64.StdEncoding.EncodeToString([]byte(salt))
	}
	return string(algo) + "$" + stored + "$" + hexdigest([]byte(salt), value), nil
}

func split(encoded string) (algo Algorithm, salt, digest string, ok bool) {
	if !strings.Contains(encoded, "$") {
		if isMD5Hex(encoded) {
			return MD5, "", encoded, true
		}
		return "", "", "", false
	}
	parts := strings.Split(encoded, "$")
	if len(parts) != 3 {
		return "", "", "", false
	}
	algo = Algorithm(parts[0])
	if _, known := verifiers[algo]; !known || algo == MD5 {
		return "", "", "", false
	}
	return algo, parts[1], parts[2], true
}

func salted(withMD5, base64Salt bool) verifier {
	return func(candidate, salt, digest string) bool {
		rawSalt := []byte(salt)
		if base64Salt {
			decoded, err := base64.StdEncoding.DecodeString(salt)
			if err != nil {
				return false
			}
			rawSalt = decoded
		}

		value := []byte(candidate)
		if withMD5 {
			value = []byte(md5hex(value))
		}
		if equalDigest(hexdigest(rawSalt, value), digest) {
			return true
		}
		if !base64Salt || withMD5 {
			return false
		}

		// Imported accounts were hashed with whatever encoding the client
		// used, so Latin-1 is tried after UTF-8.
		latin1, err := charmap.ISO8859_1.NewEncoder().String(candidate)
		if err != nil || latin1 == candidate {
			return false
		}
		return equalDigest(hexdigest(rawSalt, []byte(latin1)), digest)
	}
}

func unsaltedMD5(candidate, _, digest string) bool {
	return equalDigest(md5hex([]byte(candidate)), digest)
}

func hexdigest(salt, value []byte) string {
	h := sha512.New()
	h.Write(salt)
	h.Write(value)
	return hex.EncodeToString(h.Sum(nil))
}

func md5hex(b []byte) string {
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:])
}

func equalDigest(computed, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(computed), []byte(stored)) == 1
}

func isMD5Hex(s string) bool {
	if len(s) != 32 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
