package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	t.Setenv("APP_ENV", "test")
	t.Setenv("STORE_DRIVER", "file")
	t.Setenv("STORE_PATH", filepath.Join(t.TempDir(), "db.json"))
	t.Setenv("REDIS_URL", mr.Addr())
	return mr
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSeedAndUsers(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "seed", "--posts", "3", "--comments", "0", "--seed", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Created 3 demo posts")

	out, err = run(t, "users")
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(strings.TrimSpace(out), "\n")+1)
	assert.Contains(t, out, "artcreator")
}

func TestResetRequiresForce(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "reset")
	assert.Error(t, err)

	out, err := run(t, "reset", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Store reset to seed data")
}

func TestOrphans(t *testing.T) {
	mr := setupEnv(t)

	out, err := run(t, "orphans")
	require.NoError(t, err)
	assert.Contains(t, out, "No orphaned generations")

	_, err = mr.Push("generation:orphans",
		`{"prompt":"a red kite","authorId":"2","imageUrl":"https://img.example/k.png","reason":"disk full","recordedAt":"2024-06-01T12:00:00Z"}`)
	require.NoError(t, err)

	out, err = run(t, "orphans", "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "https://img.example/k.png")
	assert.Contains(t, out, "author=2")
	assert.Contains(t, out, "reason: disk full")
}

func TestValidatePrompt(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "validate-prompt", "a calm mountain lake")
	require.NoError(t, err)
	assert.Contains(t, out, "Prompt is valid")

	_, err = run(t, "validate-prompt", "explicit scene")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Prompt contains inappropriate content")
}
