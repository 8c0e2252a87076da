package components

import (
	"testing"

	"github.com/pthm-cable/impulse/physics"
)

func TestCoinOnlyTouchesPlayer(t *testing.T) {
	tests := []struct {
		name  string
		other func() bool
		want  bool
	}{
		{"player", func() bool { return CoinFilter().CanCollide(PlayerFilter()) }, true},
		{"default body", func() bool { return CoinFilter().CanCollide(physics.DefaultFilter()) }, false},
		{"another coin", func() bool { return CoinFilter().CanCollide(CoinFilter()) }, false},
		{"player vs default", func() bool { return PlayerFilter().CanCollide(physics.DefaultFilter()) }, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.other(); got != tc.want {
				t.Errorf("CanCollide = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	if KindCoin.String() != "coin" || KindPlayer.String() != "player" {
		t.Errorf("names = %q, %q", KindCoin, KindPlayer)
	}
	if Kind(99).String() != "unknown" {
		t.Errorf("out of range kind = %q", Kind(99))
	}
}
