package ledger

import (
	"testing"

	"github.com/theirongolddev/cbudget/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDefaultSeed(t *testing.T) {
	l := Default()
	require.Equal(t, 18, l.Len())

	names := l.Names()
	assert.Equal(t, "Rumah Sewa", names[0])
	assert.Equal(t, "Claude", names[len(names)-1])

	ninja, ok := l.Get("Ninja")
	require.True(t, ok)
	assert.True(t, ninja.Amount.Equal(d("290")))
	assert.Equal(t, model.Fixed, ninja.Classification)

	makan, ok := l.Get("Makan")
	require.True(t, ok)
	assert.Equal(t, model.Flexible, makan.Classification)
}

func TestAddAppendsFlexible(t *testing.T) {
	l := New()
	require.NoError(t, l.Add("Gym", d("45.50")))
	require.NoError(t, l.Add("Netflix", d("17")))

	assert.Equal(t, []string{"Gym", "Netflix"}, l.Names())
	gym, _ := l.Get("Gym")
	assert.Equal(t, model.Flexible, gym.Classification)
	assert.True(t, gym.Amount.Equal(d("45.5")))
}

func TestAddRejectsInvalidInput(t *testing.T) {
	l := Default()
	before := l.Entries()

	assert.ErrorIs(t, l.Add("", d("10")), model.ErrInvalidInput)
	assert.ErrorIs(t, l.Add("  ", d("10")), model.ErrInvalidInput)
	assert.ErrorIs(t, l.Add("Gym", d("-1")), model.ErrInvalidInput)

	assert.Equal(t, before, l.Entries())
}

func TestAddZeroAmountAllowed(t *testing.T) {
	l := New()
	require.NoError(t, l.Add("Placeholder", decimal.Zero))
	assert.Equal(t, 1, l.Len())
}

func TestAddDuplicateIsLastWriteWinsInPlace(t *testing.T) {
	l := Default()
	_, _ = l.Toggle("Makan") // flexible -> fixed

	require.NoError(t, l.Add("Makan", d("750")))

	assert.Equal(t, 18, l.Len(), "duplicate add must not grow the ledger")
	assert.Equal(t, 13, indexOf(l.Names(), "Makan"), "position is kept")
	makan, _ := l.Get("Makan")
	assert.True(t, makan.Amount.Equal(d("750")))
	assert.Equal(t, model.Fixed, makan.Classification, "classification is kept")
}

func TestAddThenDeleteRestoresLedger(t *testing.T) {
	l := Default()
	before := l.Entries()

	require.NoError(t, l.Add("Gym", d("45")))
	l.Delete("Gym")

	assert.Equal(t, before, l.Entries())
}

func TestDeleteMissingIsNoop(t *testing.T) {
	l := Default()
	before := l.Entries()

	l.Delete("Nonexistent")

	assert.Equal(t, before, l.Entries())
}

func TestDeleteRemovesEntry(t *testing.T) {
	l := Default()
	l.Delete("TNG")

	assert.Equal(t, 17, l.Len())
	_, ok := l.Get("TNG")
	assert.False(t, ok)
}

func TestSetAmount(t *testing.T) {
	l := Default()

	require.NoError(t, l.SetAmount("Ninja", d("310.25")))
	ninja, _ := l.Get("Ninja")
	assert.True(t, ninja.Amount.Equal(d("310.25")))

	require.NoError(t, l.SetAmount("Nonexistent", d("5")))
	assert.Equal(t, 18, l.Len())
}

func TestSetAmountNegativeLeavesPriorAmount(t *testing.T) {
	l := Default()

	err := l.SetAmount("Ninja", d("-5"))
	require.ErrorIs(t, err, model.ErrInvalidInput)

	ninja, _ := l.Get("Ninja")
	assert.True(t, ninja.Amount.Equal(d("290.0")), "got %s", ninja.Amount)
}

func TestToggle(t *testing.T) {
	l := Default()

	class, ok := l.Toggle("Ninja")
	require.True(t, ok)
	assert.Equal(t, model.Flexible, class)

	class, ok = l.Toggle("Ninja")
	require.True(t, ok)
	assert.Equal(t, model.Fixed, class)

	_, ok = l.Toggle("Nonexistent")
	assert.False(t, ok)
}

func TestRenameKeepsPositionAmountAndClass(t *testing.T) {
	l := Default()

	require.NoError(t, l.Rename("Ninja", "Motorbike"))

	names := l.Names()
	assert.Equal(t, "Motorbike", names[1])
	_, ok := l.Get("Ninja")
	assert.False(t, ok)

	bike, _ := l.Get("Motorbike")
	assert.True(t, bike.Amount.Equal(d("290")))
	assert.Equal(t, model.Fixed, bike.Classification)
}

func TestRenameOntoExistingDropsOther(t *testing.T) {
	l := Default()

	require.NoError(t, l.Rename("Claude", "Ninja"))

	assert.Equal(t, 17, l.Len())
	names := l.Names()
	assert.Equal(t, "Ninja", names[len(names)-1])
	ninja, _ := l.Get("Ninja")
	assert.True(t, ninja.Amount.Equal(d("88")))
}

func TestRenameEarlierOntoLaterEntry(t *testing.T) {
	l := New()
	require.NoError(t, l.Add("A", d("1")))
	require.NoError(t, l.Add("B", d("2")))
	require.NoError(t, l.Add("C", d("3")))

	require.NoError(t, l.Rename("A", "C"))

	assert.Equal(t, []string{"C", "B"}, l.Names())
	c, _ := l.Get("C")
	assert.True(t, c.Amount.Equal(d("1")))
}

func TestRenameValidation(t *testing.T) {
	l := Default()
	assert.ErrorIs(t, l.Rename("Ninja", ""), model.ErrInvalidInput)
	require.NoError(t, l.Rename("Nonexistent", "Other"))
	assert.Equal(t, 18, l.Len())
}

func TestLookupsTrimNames(t *testing.T) {
	l := Default()
	n := l.Len()

	require.NoError(t, l.SetAmount(" Ninja ", d("300")))
	c, ok := l.Get("Ninja\t")
	require.True(t, ok)
	assert.True(t, c.Amount.Equal(d("300")))

	class, ok := l.Toggle("  Ninja")
	require.True(t, ok)
	assert.Equal(t, c.Classification.Toggled(), class)

	before := indexOf(l.Names(), "Ninja")
	require.NoError(t, l.Rename(" Ninja ", "Ninja"))
	assert.Equal(t, n, l.Len())
	assert.Equal(t, before, indexOf(l.Names(), "Ninja"))

	l.Delete(" Ninja ")
	assert.Equal(t, n-1, l.Len())
	_, ok = l.Get("Ninja")
	assert.False(t, ok)
}

func TestSyncReplacesLedger(t *testing.T) {
	l := Default()

	err := l.Sync([]model.Entry{
		{Name: "Ninja", Amount: d("300")},
		{Name: "Gym", Amount: d("45")},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Ninja", "Gym"}, l.Names())
	ninja, _ := l.Get("Ninja")
	assert.Equal(t, model.Fixed, ninja.Classification, "classification carries over by name")
	gym, _ := l.Get("Gym")
	assert.Equal(t, model.Flexible, gym.Classification)
}

func TestSyncCollapsesDuplicatesLastWriteWins(t *testing.T) {
	l := New()

	err := l.Sync([]model.Entry{
		{Name: "Rent", Amount: d("900")},
		{Name: "Food", Amount: d("300")},
		{Name: "Rent", Amount: d("950")},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Rent", "Food"}, l.Names())
	rent, _ := l.Get("Rent")
	assert.True(t, rent.Amount.Equal(d("950")))
}

func TestSyncIsAllOrNothing(t *testing.T) {
	l := Default()
	before := l.Entries()

	err := l.Sync([]model.Entry{
		{Name: "Ninja", Amount: d("300")},
		{Name: "Broken", Amount: d("-1")},
	})
	require.ErrorIs(t, err, model.ErrInvalidInput)
	assert.Equal(t, before, l.Entries())
}

func TestEntriesReturnsCopy(t *testing.T) {
	l := Default()
	es := l.Entries()
	es[0].Amount = d("1")

	rent, _ := l.Get("Rumah Sewa")
	assert.True(t, rent.Amount.Equal(d("938")))
}

func TestCloneIsIndependent(t *testing.T) {
	l := Default()
	c := l.Clone()
	c.Delete("Ninja")

	assert.Equal(t, 18, l.Len())
	assert.Equal(t, 17, c.Len())
}

func TestFromCommitments(t *testing.T) {
	l, err := FromCommitments([]model.Commitment{
		{Name: " Rent ", Amount: d("900"), Classification: model.Fixed},
		{Name: "Food", Amount: d("300")},
		{Name: "Rent", Amount: d("950"), Classification: model.Fixed},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Rent", "Food"}, l.Names())

	food, _ := l.Get("Food")
	assert.Equal(t, model.Flexible, food.Classification)

	_, err = FromCommitments([]model.Commitment{{Name: "", Amount: d("1")}})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
