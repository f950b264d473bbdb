package models

import "testing"

func TestHasAnalysis(t *testing.T) {
	testCases := []struct {
		name string
		cv   CV
		want bool
	}{
		{
			name: "completed analysis with result",
			cv: CV{
				IsAnalyzed:     true,
				AnalysisStatus: AnalysisCompleted,
				AnalysisResult: &AnalysisResult{Score: 80},
			},
			want: true,
		},
		{
			name: "not yet analyzed",
			cv:   CV{AnalysisStatus: AnalysisPending},
			want: false,
		},
		{
			name: "analyzed flag set but no result",
			cv:   CV{IsAnalyzed: true, AnalysisStatus: AnalysisCompleted},
			want: false,
		},
		{
			name: "failed run with partial result",
			cv: CV{
				IsAnalyzed:     true,
				AnalysisStatus: AnalysisFailed,
				AnalysisResult: &AnalysisResult{},
			},
			want: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cv.HasAnalysis(); got != tc.want {
				t.Errorf("HasAnalysis() = %v, want %v", got, tc.want)
			}
		})
	}
}
