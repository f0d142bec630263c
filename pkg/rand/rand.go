package rand

// Credit to https://www.calhoun.io/creating-random-strings-in-go/

import (
	"math/rand"
)

const (
	hexCharset = "0123456789abcdef"
	digits     = "0123456789"

	sysIDLength  = 32
	numberDigits = 7
)

// StringWithCharset returns a random string drawn from charset. The
// package-level math/rand source is used since it is safe for concurrent use.
func StringWithCharset(length int, charset string) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}

// SysID returns a random 32 character lowercase hex string shaped like a ServiceNow sys_id
func SysID() string {
	return StringWithCharset(sysIDLength, hexCharset)
}

// Number returns a record number such as INC0012345 for the given prefix
func Number(prefix string) string {
	return prefix + StringWithCharset(numberDigits, digits)
}
