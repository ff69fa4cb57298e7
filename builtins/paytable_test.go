package builtins

import (
	"errors"
	"testing"

	"github.com/ts4z/icmev/he"
)

func TestBuiltinsValidate(t *testing.T) {
	for _, name := range Names() {
		pt, err := Paytable(name)
		if err != nil {
			t.Fatalf("Paytable(%q) returned error: %v", name, err)
		}
		if err := pt.Validate(); err != nil {
			t.Errorf("paytable %q: %v", name, err)
		}
	}
}

func TestBARGEPayout(t *testing.T) {
	tests := []struct {
		name          string
		prizePool     int64
		numPlayers    int
		wantNumPrizes int
	}{
		{
			name:          "2 players - winner takes all",
			prizePool:     999983,
			numPlayers:    2,
			wantNumPrizes: 1,
		},
		{
			name:          "5 players - top 2 (BARGE 5-8)",
			prizePool:     999983,
			numPlayers:    5,
			wantNumPrizes: 2,
		},
		{
			name:          "10 players - top 3 (BARGE 9-15)",
			prizePool:     999983,
			numPlayers:    10,
			wantNumPrizes: 3,
		},
		{
			name:          "50 players - top 7 (BARGE 48-55)",
			prizePool:     999983,
			numPlayers:    50,
			wantNumPrizes: 7,
		},
		{
			name:          "small pool still adds up",
			prizePool:     100,
			numPlayers:    5,
			wantNumPrizes: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pt, err := Paytable("BARGE")
			if err != nil {
				t.Fatalf("Paytable() returned error: %v", err)
			}
			prizes, err := pt.Payout(tt.prizePool, tt.numPlayers)
			if err != nil {
				t.Fatalf("Payout() returned error: %v", err)
			}

			if len(prizes) != tt.wantNumPrizes {
				t.Errorf("got %d prizes, want %d", len(prizes), tt.wantNumPrizes)
			}

			total := int64(0)
			for _, p := range prizes {
				total += p
			}
			if total != tt.prizePool {
				t.Errorf("total prizes = %d, want %d", total, tt.prizePool)
			}

			for i := 1; i < len(prizes); i++ {
				if prizes[i] > prizes[i-1] {
					t.Errorf("prize[%d] = %d > prize[%d] = %d (should be descending)",
						i, prizes[i], i-1, prizes[i-1])
				}
			}

			t.Logf("Prize pool: %d, Players: %d", tt.prizePool, tt.numPlayers)
			for i, prize := range prizes {
				t.Logf("  Place %d: %d (%.2f%%)", i+1, prize, float64(prize)/float64(tt.prizePool)*100)
			}
		})
	}
}

func TestPaytableUnknown(t *testing.T) {
	_, err := Paytable("nope")
	var coded *he.HTTPError
	if !errors.As(err, &coded) {
		t.Fatalf("Paytable(nope) error = %v, want *he.HTTPError", err)
	}
	if coded.Code() != 404 {
		t.Errorf("code = %d, want 404", coded.Code())
	}
}

func TestPaytableReturnsCopy(t *testing.T) {
	a, _ := Paytable("barge")
	a.Rows[0].Percentages[0] = 1
	b, _ := Paytable("barge")
	if b.Rows[0].Percentages[0] != 10000 {
		t.Errorf("built-in table was modified through a returned copy")
	}
}
