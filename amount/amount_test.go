package amount_test

import (
	"testing"

	"github.com/lvlath-vrp/alns/amount"
	"github.com/stretchr/testify/require"
)

func TestAdd_WidensToOperandLength(t *testing.T) {
	a := amount.New(10, 20)
	a.Add(amount.New(5, 15, 25))
	require.Equal(t, []float64{15, 35, 25}, a.Values())
}

func TestSub_KeepsOwnLengthWhenWider(t *testing.T) {
	a := amount.New(10, 20, 30)
	a.Sub(amount.New(5, 15))
	require.Equal(t, []float64{5, 5, 30}, a.Values())
}

func TestSum_ThreeOperands(t *testing.T) {
	a := amount.New(1, 2, 3)
	b := amount.New(4, 5, 4)
	c := amount.New(4, 5, 4)

	got := amount.Sum(amount.Sum(a, b), c)
	require.Equal(t, amount.New(9, 12, 11).Values(), got.Values())
}

func TestGet_OutOfRangeIsZero(t *testing.T) {
	a := amount.New(1, 2)
	require.Equal(t, 0.0, a.Get(5))
	require.Equal(t, 2.0, a.Get(1))
}

func TestIsEmpty(t *testing.T) {
	require.True(t, amount.Amount{}.IsEmpty())
	require.True(t, amount.New(0, 0).IsEmpty())
	require.False(t, amount.New(0, 1).IsEmpty())
}

func TestIsCapacitySatisfied(t *testing.T) {
	cap := amount.New(10, 10)
	require.True(t, amount.IsCapacitySatisfied(cap, amount.New(10, 5)))
	require.False(t, amount.IsCapacitySatisfied(cap, amount.New(11, 5)))
	require.False(t, amount.IsCapacitySatisfied(cap, amount.New(0, 0, 1)))
}

func TestExcess(t *testing.T) {
	cap := amount.New(10, 10)
	got := amount.Excess(cap, amount.New(12, 3, 4))
	require.Equal(t, []float64{2, 0, 4}, got.Values())
}

func TestCompare_Lexicographic(t *testing.T) {
	require.Equal(t, -1, amount.Compare(amount.New(1, 2), amount.New(1, 3)))
	require.Equal(t, 1, amount.Compare(amount.New(2), amount.New(1, 99)))
	require.Equal(t, 0, amount.Compare(amount.New(1, 0), amount.New(1)))
}

func TestExpr_AccumulateIsAllocationFreeEquivalent(t *testing.T) {
	var dst amount.Amount
	dst.Set(0, 10)

	expr := amount.Expr{}.Plus(amount.New(1, 2)).Minus(amount.New(0, 1, 5))
	expr.Accumulate(&dst)

	require.Equal(t, []float64{11, 1, -5}, dst.Values())
}

func TestSumExpr_Eval(t *testing.T) {
	got := amount.SumExpr(amount.New(1, 1), amount.New(2, 2), amount.New(3)).Eval()
	require.Equal(t, []float64{6, 3}, got.Values())
}

func TestClone_IsIndependent(t *testing.T) {
	a := amount.New(1, 2, 3)
	b := a.Clone()
	b.Set(0, 99)
	require.Equal(t, 1.0, a.Get(0))
	require.Equal(t, 99.0, b.Get(0))
}
