package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Manga")
	assert.NoError(t, err)
	assert.Equal(t, KindManga, k)

	k, err = ParseKind(" anime ")
	assert.NoError(t, err)
	assert.Equal(t, KindAnime, k)

	_, err = ParseKind("novel")
	assert.Error(t, err)
}

func TestEntry_PrimaryTag(t *testing.T) {
	assert.Equal(t, "", Entry{}.PrimaryTag())
	assert.Equal(t, "A", Entry{CustomLists: []string{"A", "B"}}.PrimaryTag())
	assert.Equal(t, "B", Entry{CustomLists: []string{"  ", "B"}}.PrimaryTag())
}

func TestEntry_Validate(t *testing.T) {
	assert.NoError(t, Entry{Kind: KindManga, MediaID: 7}.Validate())
	assert.ErrorIs(t, Entry{Kind: KindAnime}.Validate(), ErrInvalidEntry)
	assert.ErrorIs(t, Entry{Kind: Kind(9), MediaID: 1}.Validate(), ErrInvalidEntry)
}

func TestStatus_Valid(t *testing.T) {
	assert.True(t, StatusRepeating.Valid())
	assert.False(t, Status("WATCHING").Valid())
}

func TestFuzzyDate_IsZero(t *testing.T) {
	year := 2020
	var nilDate *FuzzyDate
	assert.True(t, nilDate.IsZero())
	assert.True(t, (&FuzzyDate{}).IsZero())
	assert.False(t, (&FuzzyDate{Year: &year}).IsZero())
}

func TestMergeResidual(t *testing.T) {
	attempted := []Entry{anime(1), anime(2), manga(2), anime(3)}
	failed := []Entry{anime(3), anime(1)}
	missing := []Entry{anime(1), manga(2)}

	got := mergeResidual(attempted, failed, missing)
	assert.Equal(t, []Key{{KindAnime, 1}, {KindManga, 2}, {KindAnime, 3}}, []Key{got[0].Key(), got[1].Key(), got[2].Key()})
	assert.Len(t, got, 3)
}
