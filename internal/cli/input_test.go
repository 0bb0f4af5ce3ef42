package cli

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("  hello world \n"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleText_EOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	require.ErrorIs(t, err, io.EOF)
}

func TestGetMultiline(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"stops on empty line", "a\nb\n\nc\n", "a\nb"},
		{"crlf", "a\r\nb\r\n\r\n", "a\nb"},
		{"eof without blank line", "a\nb", "a\nb"},
		{"immediate blank line", "\n", ""},
		{"surrounding space trimmed", "  a  \n\n", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetMultiline(rdr(tt.input), "Text:", &out)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func stubReadPassword(t *testing.T, fn func(int) ([]byte, error)) {
	t.Helper()
	orig := readPassword
	readPassword = fn
	t.Cleanup(func() { readPassword = orig })
}

func TestGetPassword(t *testing.T) {
	stubReadPassword(t, func(int) ([]byte, error) { return []byte("secret"), nil })

	var out bytes.Buffer
	pw, err := GetPassword(&out, "Password")
	require.NoError(t, err)
	assert.Equal(t, []byte("secret"), pw)
	assert.Equal(t, "Password: \n", out.String())
}

func TestGetPassword_Error(t *testing.T) {
	stubReadPassword(t, func(int) ([]byte, error) { return nil, errors.New("boom") })

	var out bytes.Buffer
	_, err := GetPassword(&out, "Password")
	require.Error(t, err)
}

func stubPasswords(t *testing.T, answers ...string) {
	t.Helper()
	orig := getPassword
	t.Cleanup(func() { getPassword = orig })

	i := 0
	getPassword = func(io.Writer, string) ([]byte, error) {
		if i >= len(answers) {
			return nil, io.EOF
		}
		pw := []byte(answers[i])
		i++
		return pw, nil
	}
}

func TestGetNewPassword(t *testing.T) {
	stubPasswords(t, "pw", "pw")
	pw, err := GetNewPassword(io.Discard)
	require.NoError(t, err)
	assert.Equal(t, []byte("pw"), pw)
}

func TestGetNewPassword_Mismatch(t *testing.T) {
	stubPasswords(t, "pw", "other")
	_, err := GetNewPassword(io.Discard)
	require.ErrorIs(t, err, ErrPasswordMismatch)
}

func TestGetNewPassword_ReadError(t *testing.T) {
	stubPasswords(t, "pw")
	_, err := GetNewPassword(io.Discard)
	require.ErrorIs(t, err, io.EOF)
}
