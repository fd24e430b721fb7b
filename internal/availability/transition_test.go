package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseState(t *testing.T) {
	tests := []struct {
		token string
		want  State
	}{
		{"room", Room},
		{"no_room", NoRoom},
		{"  room\n", Room},
		{"\tno_room  ", NoRoom},
		{"", NoRoom},
		{"ROOM", NoRoom},
		{"garbage", NoRoom},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseState(tt.token))
		})
	}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name       string
		prior      State
		available  bool
		wantNext   State
		wantNotify bool
	}{
		{"no room stays no room", NoRoom, false, NoRoom, false},
		{"room appears", NoRoom, true, Room, true},
		{"room disappears", Room, false, NoRoom, false},
		{"room persists without renotify", Room, true, Room, false},
		{"unknown prior treated as no room", State("weird"), true, Room, true},
		{"empty prior treated as no room", State(""), false, NoRoom, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.prior, Signal{Available: tt.available})
			assert.Equal(t, tt.wantNext, d.Next)
			assert.Equal(t, tt.wantNotify, d.Notify)
			assert.Equal(t, tt.wantNotify, d.Appeared())
		})
	}
}

func TestDecide_RepeatedAvailableNotifiesOnce(t *testing.T) {
	state := NoRoom
	notifications := 0

	for i := 0; i < 5; i++ {
		d := Decide(state, Signal{Available: true, Details: "Room 12"})
		if d.Notify {
			notifications++
		}
		state = d.Next
	}

	assert.Equal(t, 1, notifications)
	assert.Equal(t, Room, state)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "room", Room.String())
	assert.Equal(t, "no_room", NoRoom.String())
	assert.Equal(t, "no_room", State("").String())
}
