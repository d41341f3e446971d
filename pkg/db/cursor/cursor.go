// Package cursor implements HMAC-signed keyset pagination tokens.
// A token is base64(json{datetime,id}) + "." + base64(hmac-sha256).
package cursor

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"strings"
)

type Data struct {
	Datetime string `json:"datetime"`
	ID       int    `json:"id,omitempty"`
}

func signature(encoded string) string {
	mac := hmac.New(sha256.New, []byte(os.Getenv("CURSOR_SECRET_KEY")))
	mac.Write([]byte(encoded))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func verify(encoded string, sig string) bool {
	return hmac.Equal([]byte(sig), []byte(signature(encoded)))
}

func Encode(datetime string, id int) string {
	jsonData, _ := json.Marshal(Data{Datetime: datetime, ID: id})
	encoded := base64.StdEncoding.EncodeToString(jsonData)

	return encoded + "." + signature(encoded)
}

func Decode(token string) (string, int, error) {
	parts := strings.Split(token, ".")

	if len(parts) != 2 {
		return "", 0, errors.New("invalid cursor format")
	}

	if !verify(parts[0], parts[1]) {
		return "", 0, errors.New("invalid cursor signature")
	}

	decoded, err := base64.StdEncoding.DecodeString(parts[0])

	if err != nil {
		return "", 0, err
	}

	var data Data
	json.Unmarshal(decoded, &data)

	return data.Datetime, data.ID, nil
}
