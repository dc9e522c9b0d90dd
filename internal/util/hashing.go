package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// HashMatrix fingerprints a feature matrix. Equal matrices give equal
// hashes; row boundaries are part of the input, so [[1,2]] and [[1],[2]]
// differ.
func HashMatrix(features [][]float64) string {
	buffer := GetBytesBuffer()
	defer PutBytesBuffer(buffer)
	for _, row := range features {
		for i, v := range row {
			if i > 0 {
				buffer.WriteByte(',')
			}
			buffer.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		buffer.WriteByte('\n')
	}
	sum := sha256.Sum256(buffer.Bytes())
	return hex.EncodeToString(sum[:])
}
