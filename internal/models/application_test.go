package models

import "testing"

func TestIsValidApplicationStatus(t *testing.T) {
	testCases := []struct {
		status ApplicationStatus
		want   bool
	}{
		{StatusPending, true},
		{StatusReviewed, true},
		{StatusShortlisted, true},
		{StatusRejected, true},
		{StatusAccepted, true},
		{"archived", false},
		{"", false},
		{"Pending", false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.status), func(t *testing.T) {
			if got := IsValidApplicationStatus(tc.status); got != tc.want {
				t.Errorf("IsValidApplicationStatus(%q) = %v, want %v", tc.status, got, tc.want)
			}
		})
	}
}
