package sqlite_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"intake/internal/testutil"
)

func TestCaseRepository_SaveAssignsID(t *testing.T) {
	repo := testutil.NewCaseRepo(t)

	c := testutil.NewCase().Build()
	require.Zero(t, c.ID)

	require.NoError(t, repo.Save(c))
	require.NotZero(t, c.ID, "insert must assign the row id")
}

func TestCaseRepository_RoundTrip(t *testing.T) {
	repo := testutil.NewCaseRepo(t)

	c := testutil.NewCase().
		WithSubject("Noise complaint upstairs").
		WithPerson("rel-12", true).
		WithBusiness("", false).
		Completed().
		Build()
	require.NoError(t, repo.Save(c))

	got, err := repo.GetByGUID(c.GUID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, c.ID, got.ID)
	require.Equal(t, "Noise complaint upstairs", got.Subject)
	require.Equal(t, "rel-12", got.PersonRelationID)
	require.True(t, got.PersonExisting)
	require.Empty(t, got.BusinessRelationID)
	require.False(t, got.BusinessExisting)
	require.True(t, got.Completed())
	require.Equal(t, c.CreatedAt.Unix(), got.CreatedAt.Unix())
}

func TestCaseRepository_GetByGUID_Absent(t *testing.T) {
	repo := testutil.NewCaseRepo(t)

	got, err := repo.GetByGUID("no-such-guid")
	require.NoError(t, err)
	require.Nil(t, got, "absent case is (nil, nil), not an error")
}

func TestCaseRepository_SaveUpdatesExisting(t *testing.T) {
	repo := testutil.NewCaseRepo(t)

	c := testutil.NewCase().Build()
	require.NoError(t, repo.Save(c))
	firstID := c.ID

	c.Subject = "Amended subject"
	c.PersonRelationID = "rel-99"
	c.PersonExisting = true
	c.UpdatedAt = time.Now().Truncate(time.Second)
	require.NoError(t, repo.Save(c))
	require.Equal(t, firstID, c.ID, "update must not reassign the id")

	got, err := repo.GetByGUID(c.GUID)
	require.NoError(t, err)
	require.Equal(t, "Amended subject", got.Subject)
	require.Equal(t, "rel-99", got.PersonRelationID)
}

func TestCaseRepository_List_NewestFirst(t *testing.T) {
	repo := testutil.NewCaseRepo(t)

	older := testutil.NewCase().WithSubject("older").Build()
	older.CreatedAt = older.CreatedAt.Add(-time.Hour)
	older.UpdatedAt = older.CreatedAt
	require.NoError(t, repo.Save(older))

	newer := testutil.NewCase().WithSubject("newer").Build()
	require.NoError(t, repo.Save(newer))

	cases, err := repo.List()
	require.NoError(t, err)
	require.Len(t, cases, 2)
	require.Equal(t, "newer", cases[0].Subject)
	require.Equal(t, "older", cases[1].Subject)
}

func TestCaseRepository_List_Empty(t *testing.T) {
	repo := testutil.NewCaseRepo(t)

	cases, err := repo.List()
	require.NoError(t, err)
	require.Empty(t, cases)
}

func TestCaseRepository_IncompleteCase_NullCompletedAt(t *testing.T) {
	repo := testutil.NewCaseRepo(t)

	c := testutil.NewCase().Build()
	require.NoError(t, repo.Save(c))

	got, err := repo.GetByGUID(c.GUID)
	require.NoError(t, err)
	require.Nil(t, got.CompletedAt)
	require.False(t, got.Completed())
}
