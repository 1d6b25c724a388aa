package selfimprovement

import "testing"

func TestPriority(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		obs         int
		confidence  float64
		isFailure   bool
		want        float64
	}{
		{"baseline", 0, 0, false, 1},
		{"observations capped at 2", 100, 0, false, 3},
		{"confidence scales by 2", 0, 0.5, false, 2},
		{"failure adds 1", 0, 0, true, 2},
		{"all combined", 25, 0.8, true, 1 + 2 + 1.6 + 1},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Priority(tc.obs, tc.confidence, tc.isFailure)
			if diff := got - tc.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("Priority(%d, %v, %v) = %v, want %v", tc.obs, tc.confidence, tc.isFailure, got, tc.want)
			}
		})
	}
}
