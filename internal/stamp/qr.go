package stamp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// Payload is the machine-readable content of the stamp's QR code. Token lets
// a verifier detect tampering with the printed case code.
type Payload struct {
	DocumentID string `json:"document_id"`
	CaseCode   string `json:"case_code"`
	Token      string `json:"token"`
}

// IntegrityToken derives a deterministic HMAC-SHA256 tag over the document id
// and case code, truncated for stamp real estate.
func IntegrityToken(secret, documentID, caseCode string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(documentID))
	mac.Write([]byte("|"))
	mac.Write([]byte(caseCode))
	return hex.EncodeToString(mac.Sum(nil))[:32]
}

// EncodeQR rasterizes the payload as a PNG of size x size pixels. Output is a
// deterministic function of the payload.
func EncodeQR(p Payload, size int) ([]byte, error) {
	content, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode qr payload: %w", err)
	}
	png, err := qrcode.Encode(string(content), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("rasterize qr: %w", err)
	}
	return png, nil
}
