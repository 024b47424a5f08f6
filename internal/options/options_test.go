package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type target struct {
	a, b int
}

func TestApply_InOrder(t *testing.T) {
	tgt := &target{}
	err := Apply(tgt,
		NoError(func(tg *target) { tg.a = 1 }),
		NoError(func(tg *target) { tg.b = tg.a + 1 }),
	)
	require.NoError(t, err)
	require.Equal(t, &target{a: 1, b: 2}, tgt)
}

func TestApply_StopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	tgt := &target{}
	err := Apply(tgt,
		NoError(func(tg *target) { tg.a = 1 }),
		New(func(tg *target) error { return boom }),
		NoError(func(tg *target) { tg.b = 9 }),
	)
	require.ErrorIs(t, err, boom)
	require.Equal(t, &target{a: 1}, tgt)
}
