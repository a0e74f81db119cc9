package main

import (
	"strings"
	"testing"

	"github.com/hachimi-installer/hachimi-installer/internal/delta"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskToken(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"normal token", "ghp_abcdefghijklmnop", "ghp_...mnop"},
		{"nine chars", "123456789", "1234...6789"},
		{"eight chars or less", "12345678", "***"},
		{"empty", "", "***"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, maskToken(tt.input))
		})
	}
}

func TestReadToken_Piped(t *testing.T) {
	tok, err := readToken(strings.NewReader("  ghp_secret \n"))
	require.NoError(t, err)
	assert.Equal(t, "ghp_secret", tok)

	tok, err = readToken(strings.NewReader("no-newline"))
	require.NoError(t, err)
	assert.Equal(t, "no-newline", tok)
}

func TestAuth_LoginStatusLogout(t *testing.T) {
	s := newSetup(t, delta.SHA256Hex(fakeExe))
	base := []string{"--config", s.config, "--data", s.data}

	out, err := runCLI(t, nil, append(base, "auth", "status")...)
	require.NoError(t, err)
	assert.Contains(t, out, "not configured")

	out, err = runCLI(t, strings.NewReader("ghp_abcdefgh1234\n"), append(base, "auth", "login", "--no-validate")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Token saved.")

	out, err = runCLI(t, nil, append(base, "auth", "status")...)
	require.NoError(t, err)
	assert.Contains(t, out, "ghp_...1234")
	assert.NotContains(t, out, "abcdefgh")

	t.Setenv("GITHUB_TOKEN", "env_token_98765")
	out, err = runCLI(t, nil, append(base, "auth", "status")...)
	require.NoError(t, err)
	assert.Contains(t, out, "from GITHUB_TOKEN")
	t.Setenv("GITHUB_TOKEN", "")

	_, err = runCLI(t, nil, append(base, "auth", "logout")...)
	require.NoError(t, err)
	out, err = runCLI(t, nil, append(base, "auth", "status")...)
	require.NoError(t, err)
	assert.Contains(t, out, "not configured")
}

func TestAuth_EmptyToken(t *testing.T) {
	s := newSetup(t, delta.SHA256Hex(fakeExe))
	_, err := runCLI(t, strings.NewReader("\n"), "--config", s.config, "--data", s.data, "auth", "login", "--no-validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be empty")
}
