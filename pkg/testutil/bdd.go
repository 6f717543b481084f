package testutil

import "testing"

// Given, When, and Then wrap t.Run so router-level scenarios read as
// behavior descriptions. Investigation flows span several requests
// (create, then read the verdict back), and the nesting keeps the
// subtest names aligned with those steps.

func Given(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Given "+desc, fn)
}

func When(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("When "+desc, fn)
}

func Then(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Then "+desc, fn)
}
