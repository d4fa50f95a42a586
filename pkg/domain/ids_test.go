package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "github.com/nova19-exe/eBhutanza/pkg/domain-errors"
)

var parsers = map[string]func(string) error{
	"user":          func(s string) error { _, err := ParseUserID(s); return err },
	"session":       func(s string) error { _, err := ParseSessionID(s); return err },
	"incorporation": func(s string) error { _, err := ParseIncorporationID(s); return err },
}

func TestParseRejectsUntrustedInput(t *testing.T) {
	inputs := map[string]string{
		"empty":        "",
		"nil uuid":     uuid.Nil.String(),
		"garbage":      "not-a-uuid",
		"sql":          "'; DROP TABLE kv_entries;--",
		"path":         "../../../etc/passwd",
		"null byte":    "550e8400\x00-e29b-41d4-a716-446655440000",
		"oversized":    strings.Repeat("a", 1000),
		"whitespace":   "   ",
		"trailing gap": "550e8400-e29b-41d4-a716-446655440000 ",
	}
	for kind, parse := range parsers {
		for name, input := range inputs {
			t.Run(kind+"/"+name, func(t *testing.T) {
				err := parse(input)
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			})
		}
	}
}

func TestParseAcceptsValidUUIDs(t *testing.T) {
	for kind, parse := range parsers {
		for _, input := range []string{
			uuid.NewString(),
			"550E8400-E29B-41D4-A716-446655440000",
		} {
			assert.NoError(t, parse(input), kind)
		}
	}

	raw := uuid.New()
	got, err := ParseUserID(raw.String())
	require.NoError(t, err)
	assert.Equal(t, UserID(raw), got)
	assert.False(t, got.IsNil())
	assert.True(t, UserID{}.IsNil())
}

func TestIDsSerialiseAsStrings(t *testing.T) {
	type envelope struct {
		User          UserID          `json:"userId"`
		Incorporation IncorporationID `json:"incorporationId"`
	}
	in := envelope{User: NewUserID(), Incorporation: NewIncorporationID()}

	raw, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"userId":"`+in.User.String()+`","incorporationId":"`+in.Incorporation.String()+`"}`,
		string(raw))

	var out envelope
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, in, out)
}

func FuzzParseUserID(f *testing.F) {
	f.Add("")
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add(string([]byte{0x00, 0xff}))

	f.Fuzz(func(t *testing.T, input string) {
		parsed, err := ParseUserID(input)
		if err != nil {
			return
		}
		again, err := ParseUserID(parsed.String())
		if err != nil || again != parsed {
			t.Fatalf("accepted %q but %q does not parse back", input, parsed.String())
		}
	})
}
