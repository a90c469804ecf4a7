package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrokerDeliversOnlyToTable(t *testing.T) {
	b := NewBroker()
	ctx := context.Background()

	var sections, projects []Event
	_, err := b.Subscribe(ctx, TableSections, func(ev Event) { sections = append(sections, ev) })
	require.NoError(t, err)
	_, err = b.Subscribe(ctx, TableProjects, func(ev Event) { projects = append(projects, ev) })
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, Event{Table: TableSections, Op: OpUpdate, ID: "s1"}))

	require.Len(t, sections, 1)
	assert.Equal(t, "s1", sections[0].ID)
	assert.Empty(t, projects)
}

func TestBrokerCloseStopsDelivery(t *testing.T) {
	b := NewBroker()
	ctx := context.Background()

	calls := 0
	sub, err := b.Subscribe(ctx, TableArticles, func(Event) { calls++ })
	require.NoError(t, err)
	assert.Equal(t, 1, b.Subscribers(TableArticles))

	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close())
	assert.Equal(t, 0, b.Subscribers(TableArticles))

	require.NoError(t, b.Publish(ctx, Event{Table: TableArticles, Op: OpDelete}))
	assert.Zero(t, calls)
}

func TestChannelName(t *testing.T) {
	assert.Equal(t, "portfolio:changes:portfolio_content", Channel(TableSections))
}
