package paytable

import (
	"reflect"
	"testing"
)

var testTable = &Paytable{
	Name:      "test",
	Increment: 5,
	Rows: []Row{
		{MinPlayers: 1, MaxPlayers: 4, Percentages: []int{10000}},
		{MinPlayers: 5, MaxPlayers: 9, Percentages: []int{5000, 3000, 2000}},
	},
}

func TestPayoutRoundsAndRedistributes(t *testing.T) {
	tests := []struct {
		name       string
		pool       int64
		numPlayers int
		want       []int64
	}{
		{"exact split", 1000, 6, []int64{500, 300, 200}},
		{"remainder goes to the top", 1013, 6, []int64{510, 303, 200}},
		{"remainder spills over", 1024, 6, []int64{515, 309, 200}},
		{"winner take all", 999, 3, []int64{999}},
		{"empty pool", 0, 6, []int64{0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := testTable.Payout(tt.pool, tt.numPlayers)
			if err != nil {
				t.Fatalf("Payout() returned error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Payout(%d, %d) = %v, want %v", tt.pool, tt.numPlayers, got, tt.want)
			}
		})
	}
}

func TestPayoutErrors(t *testing.T) {
	if prizes, err := testTable.Payout(1000, 0); err == nil {
		t.Errorf("expected error for 0 players, got %v", prizes)
	}
	if prizes, err := testTable.Payout(1000, 10); err == nil {
		t.Errorf("expected error for uncovered field size, got %v", prizes)
	}
	if prizes, err := testTable.Payout(-5, 6); err == nil {
		t.Errorf("expected error for negative pool, got %v", prizes)
	}
}

func TestPrizes(t *testing.T) {
	got, err := testTable.Prizes(1000, 6)
	if err != nil {
		t.Fatalf("Prizes() returned error: %v", err)
	}
	want := []float64{500, 300, 200}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Prizes() = %v, want %v", got, want)
	}
}

func TestPaidPlaces(t *testing.T) {
	for n, want := range map[int]int{0: 0, 1: 1, 4: 1, 5: 3, 9: 3, 10: 0} {
		if got := testTable.PaidPlaces(n); got != want {
			t.Errorf("PaidPlaces(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestValidate(t *testing.T) {
	if err := testTable.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	short := testTable.Clone()
	short.Rows[1].Percentages = []int{5000, 3000}
	if err := short.Validate(); err == nil {
		t.Errorf("Validate() accepted a row summing to 8000")
	}

	tooMany := testTable.Clone()
	tooMany.Rows[0].Percentages = []int{6000, 4000}
	if err := tooMany.Validate(); err == nil {
		t.Errorf("Validate() accepted a row paying more places than players")
	}
}
