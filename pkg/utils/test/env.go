package test

import (
	"os"
	"strings"
	"testing"
)

// Cloud is the set of environment variables a cloud backed test needs.
type Cloud struct {
	t    testing.TB
	vars map[string]string
}

// RequireCloud skips t unless every key is set to a non-empty value. All
// missing keys are reported at once.
func RequireCloud(t testing.TB, keys ...string) *Cloud {
	t.Helper()

	c := &Cloud{t: t, vars: make(map[string]string, len(keys))}
	var missing []string
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			c.vars[key] = v
			continue
		}
		missing = append(missing, key)
	}
	if len(missing) > 0 {
		t.Skipf("cloud test disabled, set %s", strings.Join(missing, ", "))
	}
	return c
}

// Get returns a variable passed to RequireCloud.
func (c *Cloud) Get(key string) string {
	c.t.Helper()
	v, ok := c.vars[key]
	if !ok {
		c.t.Fatalf("%s was not passed to RequireCloud", key)
	}
	return v
}
