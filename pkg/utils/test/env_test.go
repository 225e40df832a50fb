package test_test

import (
	"testing"

	"github.com/feelcast/feelcast/pkg/utils/test"
	"github.com/m-mizutani/gt"
)

func TestRequireCloud(t *testing.T) {
	t.Setenv("FEELCAST_TEST_BUCKET", "voices-dev")
	c := test.RequireCloud(t, "FEELCAST_TEST_BUCKET")
	gt.Equal(t, c.Get("FEELCAST_TEST_BUCKET"), "voices-dev")

	t.Run("skips when unset", func(t *testing.T) {
		t.Setenv("FEELCAST_TEST_BUCKET", "")
		test.RequireCloud(t, "FEELCAST_TEST_BUCKET")
		t.Error("should have been skipped")
	})
}
