package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"plain error", cause, Unclassified},
		{"validation", Invalid("op", "bad"), Validation},
		{"not found", Missing("op", "gone"), NotFound},
		{"lookup", Lookup("op", cause), TransientLookup},
		{"store", Store("op", cause), Persistence},
		{"wrapped", fmt.Errorf("outer: %w", Missing("op", "gone")), NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Store("save snapshot", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "save snapshot: boom", err.Error())
	assert.True(t, Is(err, Persistence))
	assert.False(t, Is(nil, Persistence))
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "Flight number cannot be empty.", MessageOf(Invalid("op", "Flight number cannot be empty.")))
	assert.Equal(t, "", MessageOf(errors.New("x")))
}
