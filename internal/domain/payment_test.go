package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionCount(t *testing.T) {
	tests := []struct {
		name    string
		actions map[string]json.RawMessage
		want    int
	}{
		{
			name: "no actions",
			want: 0,
		},
		{
			name: "single action objects count as one each",
			actions: map[string]json.RawMessage{
				"authorization": json.RawMessage(`{"id":"a1"}`),
				"capture":       json.RawMessage(`{"id":"c1"}`),
			},
			want: 2,
		},
		{
			name: "arrays count by length",
			actions: map[string]json.RawMessage{
				"risk_analyses": json.RawMessage(`[{"id":"r1"},{"id":"r2"},{"id":"r3"}]`),
			},
			want: 3,
		},
		{
			name: "mixed singletons and arrays",
			actions: map[string]json.RawMessage{
				"authorization": json.RawMessage(`{"id":"a1"}`),
				"risk_analyses": json.RawMessage(`[{"id":"r1"},{"id":"r2"}]`),
				"refunds":       json.RawMessage(`[]`),
			},
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &PaymentResource{ActionsByType: tt.actions}
			assert.Equal(t, tt.want, p.ActionCount())
		})
	}
}

func TestEligibleForRisk(t *testing.T) {
	tests := []struct {
		state string
		want  bool
	}{
		{state: PaymentStateInitial, want: true},
		{state: PaymentStateAuthorized, want: true},
		{state: PaymentStateNotValid, want: false},
		{state: "captured", want: false},
		{state: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			p := &PaymentResource{PaymentState: PaymentState{CurrentState: tt.state}}
			assert.Equal(t, tt.want, p.EligibleForRisk())
		})
	}
}
