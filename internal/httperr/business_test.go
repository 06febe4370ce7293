package httperr

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestIsBusinessThroughWrapping(t *testing.T) {
	err := fmt.Errorf("create: %w", ErrBusiness("holiday_overlap"))

	if !IsBusiness(err, "holiday_overlap") {
		t.Fatal("expected wrapped business error to match")
	}
	if IsBusiness(err, "availability_overlap") {
		t.Fatal("unexpected match on a different code")
	}

	code, ok := AsBusiness(err)
	if !ok || code != "holiday_overlap" {
		t.Fatalf("AsBusiness = %q, %v", code, ok)
	}
}

func TestIsUniqueConflict(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"gorm translated", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), true},
		{"pg unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"pg other", &pgconn.PgError{Code: "23503"}, false},
		{"plain", fmt.Errorf("boom"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsUniqueConflict(tc.err); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}
