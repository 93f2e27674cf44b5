package event

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andydlo/neighborhood-connect/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	st := store.NewMemory()
	t.Cleanup(func() { st.Close() })
	return NewService(NewRepository(st))
}

func newEventRequest(name string, date time.Time) *CreateEventRequest {
	return &CreateEventRequest{
		Name:        name,
		Type:        "Gathering",
		Description: "Monthly block party",
		Address:     "123 Oak St",
		Date:        date,
	}
}

func TestCreateMakesCreatorAnAttendee(t *testing.T) {
	svc := newTestService(t)

	e, err := svc.Create(context.Background(), "alice@example.com",
		newEventRequest("Block Party", time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, []string{"alice@example.com"}, e.Attendees)
	assert.True(t, e.IsAttending("alice@example.com"))
}

func TestCreatePersistsDateToSecondPrecision(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	when := time.Date(2026, 9, 12, 18, 0, 0, 123456789, time.UTC)
	e, err := svc.Create(ctx, "alice@example.com", newEventRequest("Block Party", when))
	require.NoError(t, err)

	fresh, err := svc.repo.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, when.Unix(), fresh.Date.Unix())
	assert.True(t, e.Date.Equal(fresh.Date))
}

func TestSignUpAndUnsubscribe(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	e, err := svc.Create(ctx, "alice@example.com",
		newEventRequest("Block Party", time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	signed, err := svc.SignUp(ctx, e.ID, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice@example.com", "bob@example.com"}, signed.Attendees)

	_, err = svc.SignUp(ctx, e.ID, "bob@example.com")
	assert.ErrorIs(t, err, ErrAlreadySignedUp)

	left, err := svc.Unsubscribe(ctx, e.ID, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice@example.com"}, left.Attendees)

	_, err = svc.Unsubscribe(ctx, e.ID, "bob@example.com")
	assert.ErrorIs(t, err, ErrNotSignedUp)
}

func TestCreatorMayUnsubscribe(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	e, err := svc.Create(ctx, "alice@example.com",
		newEventRequest("Block Party", time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	// Unlike group creators, an event creator can remove themselves; the
	// attendee list may end up empty.
	left, err := svc.Unsubscribe(ctx, e.ID, "alice@example.com")
	require.NoError(t, err)
	assert.Empty(t, left.Attendees)
}

func TestSignUpUnknownEvent(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.SignUp(context.Background(), "missing", "bob@example.com")
	assert.ErrorIs(t, err, ErrEventNotFound)

	_, err = svc.Unsubscribe(context.Background(), "missing", "bob@example.com")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestMineSortsSoonestFirst(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	later, err := svc.Create(ctx, "alice@example.com",
		newEventRequest("Fall Concert", time.Date(2026, 10, 3, 19, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	sooner, err := svc.Create(ctx, "alice@example.com",
		newEventRequest("Block Party", time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	// An event alice is not attending stays out of her list.
	_, err = svc.Create(ctx, "bob@example.com",
		newEventRequest("Chess Night", time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	mine, err := svc.Mine(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, sooner.ID, mine[0].ID)
	assert.Equal(t, later.ID, mine[1].ID)
}
