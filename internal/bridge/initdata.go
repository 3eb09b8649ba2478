package bridge

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

var (
	// ErrMissingHash indicates initData carried no hash parameter.
	ErrMissingHash = errors.New("init data: missing hash")
	// ErrHashMismatch indicates the initData signature does not match the bot token.
	ErrHashMismatch = errors.New("init data: hash mismatch")
	// ErrExpired indicates auth_date is older than the allowed age.
	ErrExpired = errors.New("init data: expired")
	// ErrMissingAuthDate indicates auth_date is absent while an age limit applies.
	ErrMissingAuthDate = errors.New("init data: missing auth_date")
)

// InitData is the parsed Telegram WebApp launch data.
type InitData struct {
	QueryID      string
	User         *User
	AuthDate     time.Time
	StartParam   string
	ChatType     string
	ChatInstance string
	Hash         string
}

// ParseInitData parses the raw initData query string without verifying it.
func ParseInitData(raw string) (InitData, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return InitData{}, fmt.Errorf("init data: parse query: %w", err)
	}
	data := InitData{
		QueryID:      values.Get("query_id"),
		StartParam:   values.Get("start_param"),
		ChatType:     values.Get("chat_type"),
		ChatInstance: values.Get("chat_instance"),
		Hash:         values.Get("hash"),
	}
	if rawUser := values.Get("user"); rawUser != "" {
		var user User
		if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
			return InitData{}, fmt.Errorf("init data: parse user: %w", err)
		}
		data.User = &user
	}
	if rawDate := values.Get("auth_date"); rawDate != "" {
		seconds, err := strconv.ParseInt(rawDate, 10, 64)
		if err != nil {
			return InitData{}, fmt.Errorf("init data: parse auth_date: %w", err)
		}
		data.AuthDate = time.Unix(seconds, 0).UTC()
	}
	return data, nil
}

// VerifyInitData parses raw and checks its HMAC-SHA256 signature against the
// bot token. A positive maxAge also rejects launch data older than maxAge.
func VerifyInitData(raw, botToken string, maxAge time.Duration, now time.Time) (InitData, error) {
	data, err := ParseInitData(raw)
	if err != nil {
		return InitData{}, err
	}
	if data.Hash == "" {
		return InitData{}, ErrMissingHash
	}
	values, err := url.ParseQuery(raw)
	if err != nil {
		return InitData{}, fmt.Errorf("init data: parse query: %w", err)
	}
	expected := SignInitData(values, botToken)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(data.Hash))) {
		return InitData{}, ErrHashMismatch
	}
	if maxAge > 0 {
		if data.AuthDate.IsZero() {
			return InitData{}, ErrMissingAuthDate
		}
		if now.Sub(data.AuthDate) > maxAge {
			return InitData{}, fmt.Errorf("%w: issued %s", ErrExpired, data.AuthDate.Format(time.RFC3339))
		}
	}
	return data, nil
}

// SignInitData returns the hex hash Telegram computes for values. The hash
// parameter itself is excluded from the data-check string.
func SignInitData(values url.Values, botToken string) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		if key == "hash" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, key+"="+values.Get(key))
	}
	secret := hmacSHA256([]byte("WebAppData"), []byte(botToken))
	return hex.EncodeToString(hmacSHA256(secret, []byte(strings.Join(lines, "\n"))))
}

func hmacSHA256(key, message []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(message)
	return mac.Sum(nil)
}
