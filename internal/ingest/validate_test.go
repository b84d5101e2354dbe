package ingest

import (
	"database/sql"
	"testing"

	"github.com/jthorne/paceline/internal/models"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		a    models.Activity
		want []string
	}{
		{
			name: "clean record",
			a:    models.Activity{DistanceM: 5000, ElapsedSec: 1800, MovingSec: 1700},
			want: nil,
		},
		{
			name: "zero distance",
			a:    models.Activity{DistanceM: 0, ElapsedSec: 1800, MovingSec: 1700},
			want: []string{FlagDistanceZero},
		},
		{
			name: "negative distance",
			a:    models.Activity{DistanceM: -10, ElapsedSec: 1800, MovingSec: 1700},
			want: []string{FlagDistanceNegative},
		},
		{
			name: "moving exceeds elapsed",
			a:    models.Activity{DistanceM: 5000, ElapsedSec: 1000, MovingSec: 1700},
			want: []string{FlagMovingOverElapsed},
		},
		{
			name: "negative calories",
			a: models.Activity{
				DistanceM: 5000, ElapsedSec: 1800, MovingSec: 1700,
				Calories: sql.NullFloat64{Float64: -5, Valid: true},
			},
			want: []string{FlagCaloriesNegative},
		},
		{
			name: "implausible grade",
			a: models.Activity{
				DistanceM: 5000, ElapsedSec: 1800, MovingSec: 1700,
				MaxGrade: sql.NullFloat64{Float64: 250, Valid: true},
			},
			want: []string{FlagGradeImplausible},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.a)
			if len(got) != len(tt.want) {
				t.Fatalf("flags = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("flags = %v, want %v", got, tt.want)
				}
			}
		})
	}
}
