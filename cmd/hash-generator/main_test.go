package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/phrazzld/lumen-api/internal/domain"
)

func TestRun(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("correct-horse-battery\n\nтест-пароль-123\n")

	require.NoError(t, run(in, &out, bcrypt.MinCost))

	hashes := strings.Fields(out.String())
	require.Len(t, hashes, 2)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hashes[0]), []byte("correct-horse-battery")))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hashes[1]), []byte("тест-пароль-123")))
}

func TestRun_RejectsShortPassword(t *testing.T) {
	var out bytes.Buffer
	err := run(strings.NewReader("short\n"), &out, bcrypt.MinCost)

	assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
	assert.Contains(t, err.Error(), "line 1")
	assert.Empty(t, out.String())
}
