package directory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andydlo/neighborhood-connect/internal/event"
	"github.com/andydlo/neighborhood-connect/internal/neighborhood"
	"github.com/andydlo/neighborhood-connect/internal/store"
)

func writeGroup(t *testing.T, st store.Store, id, creator string, members ...string) {
	t.Helper()
	n := neighborhood.Neighborhood{
		ID:           id,
		GroupName:    "Group " + id,
		AgeRange:     "18-25",
		ZipCode:      "94110",
		Users:        append([]string{creator}, members...),
		CreatorEmail: creator,
	}
	require.NoError(t, st.Write(context.Background(), neighborhood.Collection, id, n.Encode()))
}

func writeEvent(t *testing.T, st store.Store, id string, date time.Time, attendees ...string) {
	t.Helper()
	e := event.Event{
		ID:          id,
		Name:        "Event " + id,
		Type:        "Gathering",
		Description: "desc",
		Address:     "123 Oak St",
		Date:        date,
		Attendees:   attendees,
	}
	require.NoError(t, st.Write(context.Background(), event.Collection, id, e.Encode()))
}

func waitForView(t *testing.T, sub *ViewSubscription, ok func(HomeView) bool) HomeView {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case view, open := <-sub.Views():
			if !open {
				t.Fatal("view channel closed while waiting")
			}
			if ok(view) {
				return view
			}
		case <-deadline:
			t.Fatal("timed out waiting for view")
		}
	}
}

func TestIndexSearch(t *testing.T) {
	ix := NewIndex()
	ix.SetGroups([]store.Snapshot{
		{Key: "g1", Fields: store.Fields{
			"groupName": "Oak St", "ageRange": "18-25", "zipCode": "94110",
			"users": []string{"alice@example.com"}, "creatorEmail": "alice@example.com",
		}},
		{Key: "g2", Fields: store.Fields{
			"groupName": "Seniors", "ageRange": "56+", "zipCode": "94110",
			"users": []string{"bob@example.com"}, "creatorEmail": "bob@example.com",
		}},
		{Key: "broken", Fields: store.Fields{"groupName": "No Zip"}},
	})

	matches := ix.Search("94110", 20)
	require.Len(t, matches, 1)
	assert.Equal(t, "g1", matches[0].ID)

	matches = ix.Search("94110", 70)
	require.Len(t, matches, 1)
	assert.Equal(t, "g2", matches[0].ID)

	assert.Empty(t, ix.Search("10001", 20))
}

func TestIndexPartitionGroups(t *testing.T) {
	ix := NewIndex()
	ix.SetGroups([]store.Snapshot{
		{Key: "created", Fields: store.Fields{
			"groupName": "Mine", "ageRange": "18-25", "zipCode": "94110",
			"users": []string{"alice@example.com"}, "creatorEmail": "alice@example.com",
		}},
		{Key: "joined", Fields: store.Fields{
			"groupName": "Theirs", "ageRange": "18-25", "zipCode": "94110",
			"users": []string{"bob@example.com", "alice@example.com"}, "creatorEmail": "bob@example.com",
		}},
		{Key: "other", Fields: store.Fields{
			"groupName": "Not mine", "ageRange": "18-25", "zipCode": "94110",
			"users": []string{"carol@example.com"}, "creatorEmail": "carol@example.com",
		}},
	})

	created, joined := ix.PartitionGroups("alice@example.com")
	require.Len(t, created, 1)
	assert.Equal(t, "created", created[0].ID)
	require.Len(t, joined, 1)
	assert.Equal(t, "joined", joined[0].ID)
}

func TestIndexPartitionEventsSortsAttending(t *testing.T) {
	ix := NewIndex()
	base := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	ix.SetEvents([]store.Snapshot{
		{Key: "later", Fields: (&event.Event{
			Name: "Later", Type: "Party", Description: "d", Address: "a",
			Date: base.Add(48 * time.Hour), Attendees: []string{"alice@example.com"},
		}).Encode()},
		{Key: "sooner", Fields: (&event.Event{
			Name: "Sooner", Type: "Party", Description: "d", Address: "a",
			Date: base, Attendees: []string{"alice@example.com"},
		}).Encode()},
		{Key: "open", Fields: (&event.Event{
			Name: "Open", Type: "Party", Description: "d", Address: "a",
			Date: base, Attendees: []string{"bob@example.com"},
		}).Encode()},
	})

	attending, available := ix.PartitionEvents("alice@example.com")
	require.Len(t, attending, 2)
	assert.Equal(t, "sooner", attending[0].ID)
	assert.Equal(t, "later", attending[1].ID)
	require.Len(t, available, 1)
	assert.Equal(t, "open", available[0].ID)
}

func TestProjectorPushesRecomputedViews(t *testing.T) {
	st := store.NewMemory()
	defer st.Close()

	writeGroup(t, st, "g1", "alice@example.com")

	p := NewProjector(NewIndex())
	p.Run(st)
	defer p.Stop()

	sub := p.Subscribe("alice@example.com")
	defer sub.Close()

	// The subscription delivers a view immediately; the initial store
	// snapshot may or may not have been applied yet, so wait for the state
	// to converge.
	waitForView(t, sub, func(v HomeView) bool {
		return len(v.Created) == 1 && v.Created[0].ID == "g1"
	})

	// Every directory change triggers a full recompute for all subscribers.
	writeGroup(t, st, "g2", "bob@example.com", "alice@example.com")
	view := waitForView(t, sub, func(v HomeView) bool {
		return len(v.Joined) == 1
	})
	assert.Equal(t, "g2", view.Joined[0].ID)

	writeEvent(t, st, "e1", time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC), "alice@example.com")
	view = waitForView(t, sub, func(v HomeView) bool {
		return len(v.Attending) == 1
	})
	assert.Equal(t, "e1", view.Attending[0].ID)
}

func TestProjectorViewsArePerUser(t *testing.T) {
	st := store.NewMemory()
	defer st.Close()

	writeGroup(t, st, "g1", "alice@example.com")
	writeEvent(t, st, "e1", time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC), "alice@example.com")

	p := NewProjector(NewIndex())
	p.Run(st)
	defer p.Stop()

	alice := p.Subscribe("alice@example.com")
	defer alice.Close()
	bob := p.Subscribe("bob@example.com")
	defer bob.Close()

	waitForView(t, alice, func(v HomeView) bool {
		return len(v.Created) == 1 && len(v.Attending) == 1
	})
	waitForView(t, bob, func(v HomeView) bool {
		return len(v.Created) == 0 && len(v.Joined) == 0 &&
			len(v.Attending) == 0 && len(v.Available) == 1
	})
}

func TestViewSubscriptionClose(t *testing.T) {
	st := store.NewMemory()
	defer st.Close()

	p := NewProjector(NewIndex())
	p.Run(st)
	defer p.Stop()

	sub := p.Subscribe("alice@example.com")
	sub.Close()
	sub.Close() // idempotent

	// A write after Close must not panic on a closed channel.
	writeGroup(t, st, "g1", "alice@example.com")
	time.Sleep(20 * time.Millisecond)

	_, open := <-sub.Views()
	assert.False(t, open)
}
