package app

import (
	"strings"

	"github.com/google/uuid"
)

// serialAlphabet is base32 without the easily confused 0/O and 1/I.
const serialAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const serialLength = 6

// NewSerial returns a random 6-character serial for result ids.
func NewSerial() string {
	id := uuid.New()
	var b strings.Builder
	b.Grow(serialLength)
	for i := 0; i < serialLength; i++ {
		b.WriteByte(serialAlphabet[int(id[i])%len(serialAlphabet)])
	}
	return b.String()
}

// FormatResultID renders MB-<PREFIX>-<SERIAL>.
func FormatResultID(prefix, serial string) string {
	return "MB-" + strings.ToUpper(prefix) + "-" + serial
}
