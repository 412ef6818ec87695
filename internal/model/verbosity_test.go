package model

import "testing"

// TestVerbosityString tests the String method of Verbosity.
func TestVerbosityString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		verbosity Verbosity
		expected  string
	}{
		{VerbosityError, "ERROR"},
		{VerbosityWarning, "WARNING"},
		{VerbosityInfo, "INFO"},
		{VerbosityFull, "FULL"},
		{VerbosityDebug, "DEBUG"},
		{Verbosity(999), "UNKNOWN"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			t.Parallel()
			if tc.verbosity.String() != tc.expected {
				t.Errorf("got %q, expected %q", tc.verbosity.String(), tc.expected)
			}
		})
	}
}

// TestParseVerbosity tests numeric conversion and its bounds.
func TestParseVerbosity(t *testing.T) {
	t.Parallel()

	t.Run("accepts 0 through 4", func(t *testing.T) {
		t.Parallel()

		expected := []Verbosity{VerbosityError, VerbosityWarning, VerbosityInfo, VerbosityFull, VerbosityDebug}
		for n, want := range expected {
			got, err := ParseVerbosity(n)
			if err != nil {
				t.Fatalf("ParseVerbosity(%d): unexpected error: %v", n, err)
			}
			if got != want {
				t.Errorf("ParseVerbosity(%d) = %v, want %v", n, got, want)
			}
		}
	})

	t.Run("rejects out of range values", func(t *testing.T) {
		t.Parallel()

		for _, n := range []int{-1, 5, 42} {
			if _, err := ParseVerbosity(n); err == nil {
				t.Errorf("ParseVerbosity(%d): expected error", n)
			}
		}
	})
}

// TestVerbosityOrdering tests that the gating comparisons hold.
func TestVerbosityOrdering(t *testing.T) {
	t.Parallel()

	if !(VerbosityError < VerbosityWarning && VerbosityWarning < VerbosityInfo &&
		VerbosityInfo < VerbosityFull && VerbosityFull < VerbosityDebug) {
		t.Error("verbosity levels are not strictly increasing")
	}
}
