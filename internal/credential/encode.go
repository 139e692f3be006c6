package credential

import (
	"encoding/json"
	"fmt"
)

// Snapshot is the signed view of a product at issuance time. Field order is
// the wire contract: signer and verifier must produce byte-identical output
// for the same logical snapshot, on any platform.
type Snapshot struct {
	ProductID   uint64 `json:"productId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MinTemp     int64  `json:"minTemp"`
	MaxTemp     int64  `json:"maxTemp"`
	Quantity    uint64 `json:"quantity"`
	MfgDate     string `json:"mfgDate"`
	Timestamp   int64  `json:"timestamp"`
}

// EncodeSnapshot deterministically serializes a snapshot into the
// signing/verification input. Struct field order fixes the key order and
// base-10 integer formatting is locale-independent, so the encoding never
// varies between platforms.
func EncodeSnapshot(s Snapshot) []byte {
	// json.Marshal cannot fail for these field types.
	data, _ := json.Marshal(s)
	return data
}

// FormatTempRange renders the human-readable range carried in the credential's
// product section.
func FormatTempRange(minTemp, maxTemp int64) string {
	return fmt.Sprintf("%d°C to %d°C", minTemp, maxTemp)
}

// ParseTempRange inverts FormatTempRange. The verifier needs the numeric
// bounds back to rebuild the signed snapshot from a credential.
func ParseTempRange(s string) (minTemp, maxTemp int64, err error) {
	if _, err = fmt.Sscanf(s, "%d°C to %d°C", &minTemp, &maxTemp); err != nil {
		return 0, 0, fmt.Errorf("malformed temperature range %q: %w", s, err)
	}
	return minTemp, maxTemp, nil
}
