package grid_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lokeswaran22/time/grid"
	memstore "github.com/lokeswaran22/time/grid/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestEditor() (*grid.Editor, *memstore.Memory) {
	mem := memstore.NewMemory()
	return grid.NewEditor(mem, mem), mem
}

func key(slot grid.TimeSlot) grid.CellKey {
	return grid.CellKey{Date: testDate, Employee: empE, Slot: slot}
}

var actor = grid.Attribution{EmployeeName: "E", EditedBy: "admin"}

// countingStore wraps a CellStore and counts mutations, optionally
// failing the nth Set call.
type countingStore struct {
	grid.CellStore
	sets       int
	deletes    int
	failSetAt  int // 1-based; 0 disables
	failDelete bool
}

var errInjected = errors.New("injected store failure")

func (c *countingStore) Set(ctx context.Context, k grid.CellKey, cell grid.Cell) error {
	c.sets++
	if c.failSetAt > 0 && c.sets == c.failSetAt {
		return errInjected
	}
	return c.CellStore.Set(ctx, k, cell)
}

func (c *countingStore) Delete(ctx context.Context, k grid.CellKey) error {
	c.deletes++
	if c.failDelete {
		return errInjected
	}
	return c.CellStore.Delete(ctx, k)
}

// =============================================================================
// SINGLE-CELL TESTS
// =============================================================================

func TestSetActivity_RoundTrip(t *testing.T) {
	editor, mem := newTestEditor()
	ctx := context.Background()

	cell := grid.Cell{Type: grid.ActivityProof, StartPage: grid.Page(10), EndPage: grid.Page(19)}
	require.NoError(t, editor.SetActivity(ctx, key("9:00-10:00"), cell, actor))

	got, err := mem.Get(ctx, key("9:00-10:00"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, grid.ActivityProof, got.Type)
	assert.Equal(t, 10, got.PagesDone())
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestSetActivity_LastWriteWins(t *testing.T) {
	// GIVEN: two sequential writes to the same key with different types
	// THEN: exactly one cell remains, holding the second write
	editor, mem := newTestEditor()
	ctx := context.Background()

	require.NoError(t, editor.SetActivity(ctx, key("9:00-10:00"),
		grid.Cell{Type: grid.ActivityWork, Description: "intake"}, actor))
	require.NoError(t, editor.SetActivity(ctx, key("9:00-10:00"),
		grid.Cell{Type: grid.ActivityBreak}, actor))

	assert.Equal(t, 1, mem.Len())
	got, _ := mem.Get(ctx, key("9:00-10:00"))
	require.NotNil(t, got)
	assert.Equal(t, grid.ActivityBreak, got.Type)
}

func TestSetActivity_Validation(t *testing.T) {
	editor, mem := newTestEditor()
	ctx := context.Background()

	tests := []struct {
		name    string
		slot    grid.TimeSlot
		cell    grid.Cell
		wantErr error
	}{
		{"unknown type", "9:00-10:00", grid.Cell{Type: "vacation"}, grid.ErrMissingType},
		{"empty type", "9:00-10:00", grid.Cell{}, grid.ErrMissingType},
		{"work needs description", "9:00-10:00", grid.Cell{Type: grid.ActivityWork}, grid.ErrMissingDescription},
		{"meeting needs description", "9:00-10:00", grid.Cell{Type: grid.ActivityMeeting}, grid.ErrMissingDescription},
		{"permission needs reason", "9:00-10:00", grid.Cell{Type: grid.ActivityPermission}, grid.ErrMissingReason},
		{"unknown slot", "8:00-9:00", grid.Cell{Type: grid.ActivityBreak}, grid.ErrSlotNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := editor.SetActivity(ctx, key(tt.slot), tt.cell, actor)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, grid.IsValidation(err))
		})
	}

	// No write happened for any of the rejected cells.
	assert.Equal(t, 0, mem.Len())
}

func TestSetActivity_StripsPagesFromNonPaginatedTypes(t *testing.T) {
	editor, mem := newTestEditor()
	ctx := context.Background()

	cell := grid.Cell{
		Type:        grid.ActivityWork,
		Description: "intake",
		StartPage:   grid.Page(1),
		EndPage:     grid.Page(9),
	}
	require.NoError(t, editor.SetActivity(ctx, key("9:00-10:00"), cell, actor))

	got, _ := mem.Get(ctx, key("9:00-10:00"))
	require.NotNil(t, got)
	assert.Nil(t, got.StartPage)
	assert.Nil(t, got.EndPage)
}

func TestClearActivity(t *testing.T) {
	editor, mem := newTestEditor()
	ctx := context.Background()

	require.NoError(t, editor.SetActivity(ctx, key("9:00-10:00"),
		grid.Cell{Type: grid.ActivityBreak}, actor))
	require.NoError(t, editor.ClearActivity(ctx, key("9:00-10:00"), actor))

	got, err := mem.Get(ctx, key("9:00-10:00"))
	require.NoError(t, err)
	assert.Nil(t, got)

	// Clearing an absent cell is a quiet success.
	require.NoError(t, editor.ClearActivity(ctx, key("9:00-10:00"), actor))
}

// =============================================================================
// FULL-DAY LEAVE TESTS
// =============================================================================

func TestMarkFullDayLeave_ClearsEveryOtherSlot(t *testing.T) {
	// GIVEN: activity scattered across the day
	editor, mem := newTestEditor()
	ctx := context.Background()

	require.NoError(t, editor.SetActivity(ctx, key("9:00-10:00"),
		grid.Cell{Type: grid.ActivityProof, StartPage: grid.Page(1), EndPage: grid.Page(5)}, actor))
	require.NoError(t, editor.SetActivity(ctx, key("13:00-14:00"),
		grid.Cell{Type: grid.ActivityLunch}, actor))
	require.NoError(t, editor.SetActivity(ctx, key("21:00-22:00"),
		grid.Cell{Type: grid.ActivityWork, Description: "wrapup"}, actor))

	// WHEN: the day is marked as full leave
	require.NoError(t, editor.MarkFullDayLeave(ctx, testDate, empE, actor))

	// THEN: the marker sits at the first slot and every other slot is empty
	marker, err := mem.Get(ctx, key(grid.FirstSlot()))
	require.NoError(t, err)
	require.NotNil(t, marker)
	assert.True(t, marker.IsFullDayLeave())

	for _, slot := range grid.Slots() {
		if slot == grid.FirstSlot() {
			continue
		}
		got, err := mem.Get(ctx, key(slot))
		require.NoError(t, err)
		assert.Nil(t, got, "slot %s should be empty", slot)
	}

	on, err := editor.IsOnFullDayLeave(ctx, testDate, empE)
	require.NoError(t, err)
	assert.True(t, on)
}

func TestClearFullDayLeave_RemovesMarkerOnly(t *testing.T) {
	editor, mem := newTestEditor()
	ctx := context.Background()

	require.NoError(t, editor.MarkFullDayLeave(ctx, testDate, empE, actor))
	require.NoError(t, editor.ClearFullDayLeave(ctx, testDate, empE, actor))

	assert.Equal(t, 0, mem.Len())

	on, err := editor.IsOnFullDayLeave(ctx, testDate, empE)
	require.NoError(t, err)
	assert.False(t, on)
}

func TestMarkFullDayLeave_LeaveAlwaysWins(t *testing.T) {
	// Existing activity at the first slot is overwritten, not merged.
	editor, mem := newTestEditor()
	ctx := context.Background()

	require.NoError(t, editor.SetActivity(ctx, key(grid.FirstSlot()),
		grid.Cell{Type: grid.ActivityProof, StartPage: grid.Page(1), EndPage: grid.Page(99)}, actor))
	require.NoError(t, editor.MarkFullDayLeave(ctx, testDate, empE, actor))

	got, _ := mem.Get(ctx, key(grid.FirstSlot()))
	require.NotNil(t, got)
	assert.True(t, got.IsFullDayLeave())
	assert.Equal(t, 1, mem.Len())
}

// =============================================================================
// RANGE TESTS
// =============================================================================

func TestMarkRange_Leave(t *testing.T) {
	editor, mem := newTestEditor()
	ctx := context.Background()

	req := grid.RangeRequest{
		Date:     testDate,
		Employee: empE,
		Start:    "10:00-11:00",
		End:      "12:00-13:00",
		Type:     grid.ActivityLeave,
	}
	require.NoError(t, editor.MarkRange(ctx, req, actor))

	assert.Equal(t, 3, mem.Len())
	for _, slot := range []grid.TimeSlot{"10:00-11:00", "11:00-12:00", "12:00-13:00"} {
		got, err := mem.Get(ctx, key(slot))
		require.NoError(t, err)
		require.NotNil(t, got, "slot %s", slot)
		assert.Equal(t, grid.ActivityLeave, got.Type)
	}

	// The range never touched the first slot, so the day is not full leave.
	on, _ := editor.IsOnFullDayLeave(ctx, testDate, empE)
	assert.False(t, on)
}

func TestMarkRange_PermissionWithoutReason_ZeroWrites(t *testing.T) {
	counting := &countingStore{CellStore: memstore.NewMemory()}
	editor := grid.NewEditor(counting, nil)

	req := grid.RangeRequest{
		Date:     testDate,
		Employee: empE,
		Start:    "9:00-10:00",
		End:      "18:00-19:00",
		Type:     grid.ActivityPermission,
	}
	err := editor.MarkRange(context.Background(), req, actor)

	assert.ErrorIs(t, err, grid.ErrMissingReason)
	assert.Zero(t, counting.sets)
	assert.Zero(t, counting.deletes)
}

func TestMarkRange_InvertedRange_ZeroWrites(t *testing.T) {
	counting := &countingStore{CellStore: memstore.NewMemory()}
	editor := grid.NewEditor(counting, nil)

	req := grid.RangeRequest{
		Date:        testDate,
		Employee:    empE,
		Start:       "18:00-19:00",
		End:         "9:00-10:00",
		Type:        grid.ActivityLeave,
		Description: "x",
	}
	err := editor.MarkRange(context.Background(), req, actor)

	assert.ErrorIs(t, err, grid.ErrInvalidRange)
	var rangeErr *grid.RangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Greater(t, rangeErr.StartIndex, rangeErr.EndIndex)
	assert.Zero(t, counting.sets)
}

func TestMarkRange_RejectsNonRangeTypes(t *testing.T) {
	counting := &countingStore{CellStore: memstore.NewMemory()}
	editor := grid.NewEditor(counting, nil)

	req := grid.RangeRequest{
		Date:     testDate,
		Employee: empE,
		Start:    "9:00-10:00",
		End:      "10:00-11:00",
		Type:     grid.ActivityWork,
	}
	err := editor.MarkRange(context.Background(), req, actor)
	assert.ErrorIs(t, err, grid.ErrInvalidRangeType)
	assert.Zero(t, counting.sets)
}

func TestMarkRange_UnknownSlot(t *testing.T) {
	counting := &countingStore{CellStore: memstore.NewMemory()}
	editor := grid.NewEditor(counting, nil)

	req := grid.RangeRequest{
		Date:     testDate,
		Employee: empE,
		Start:    "8:00-9:00",
		End:      "10:00-11:00",
		Type:     grid.ActivityLeave,
	}
	err := editor.MarkRange(context.Background(), req, actor)
	assert.ErrorIs(t, err, grid.ErrSlotNotFound)
	assert.Zero(t, counting.sets)
}

func TestMarkRange_FullDayFlagBypassesRange(t *testing.T) {
	// The checkbox wins: an inverted selection is ignored entirely.
	mem := memstore.NewMemory()
	editor := grid.NewEditor(mem, mem)
	ctx := context.Background()

	req := grid.RangeRequest{
		Date:     testDate,
		Employee: empE,
		Start:    "18:00-19:00",
		End:      "9:00-10:00",
		Type:     grid.ActivityLeave,
		FullDay:  true,
	}
	require.NoError(t, editor.MarkRange(ctx, req, actor))

	on, err := editor.IsOnFullDayLeave(ctx, testDate, empE)
	require.NoError(t, err)
	assert.True(t, on)
}

// =============================================================================
// SAGA PARTIAL-FAILURE TESTS
// =============================================================================

func TestMarkRange_PartialFailureKeepsPrefix(t *testing.T) {
	// GIVEN: a store that fails on the third write
	counting := &countingStore{CellStore: memstore.NewMemory(), failSetAt: 3}
	editor := grid.NewEditor(counting, nil)
	ctx := context.Background()

	req := grid.RangeRequest{
		Date:     testDate,
		Employee: empE,
		Start:    "9:00-10:00",
		End:      "13:00-14:00",
		Type:     grid.ActivityLeave,
	}

	// WHEN: the range saga runs
	err := editor.MarkRange(ctx, req, actor)

	// THEN: the failure surfaces, and the first two slots stay committed
	require.ErrorIs(t, err, errInjected)
	assert.False(t, grid.IsValidation(err))

	for i, slot := range []grid.TimeSlot{"9:00-10:00", "10:00-11:00", "11:00-12:00"} {
		got, gerr := counting.CellStore.Get(ctx, key(slot))
		require.NoError(t, gerr)
		if i < 2 {
			assert.NotNil(t, got, "slot %s should remain committed", slot)
		} else {
			assert.Nil(t, got, "slot %s should not have been written", slot)
		}
	}
}

func TestMarkFullDayLeave_DeleteFailureKeepsMarker(t *testing.T) {
	mem := memstore.NewMemory()
	ctx := context.Background()

	// Pre-existing activity that the transition will try to clear.
	require.NoError(t, mem.Set(ctx, key("10:00-11:00"), grid.Cell{Type: grid.ActivityBreak}))

	counting := &countingStore{CellStore: mem, failDelete: true}
	editor := grid.NewEditor(counting, nil)

	err := editor.MarkFullDayLeave(ctx, testDate, empE, actor)
	require.ErrorIs(t, err, errInjected)

	// The marker write happened before the failing clear.
	marker, _ := mem.Get(ctx, key(grid.FirstSlot()))
	require.NotNil(t, marker)
	assert.True(t, marker.IsFullDayLeave())
}

// =============================================================================
// AUDIT PAIRING TESTS
// =============================================================================

func TestEditor_AuditPairing(t *testing.T) {
	editor, mem := newTestEditor()
	ctx := context.Background()

	require.NoError(t, editor.SetActivity(ctx, key("9:00-10:00"),
		grid.Cell{Type: grid.ActivityWork, Description: "intake"}, actor))
	require.NoError(t, editor.SetActivity(ctx, key("9:00-10:00"),
		grid.Cell{Type: grid.ActivityWork, Description: "triage"}, actor))
	require.NoError(t, editor.ClearActivity(ctx, key("9:00-10:00"), actor))

	entries, err := mem.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Newest first: cleared, updated, added.
	assert.Equal(t, grid.AuditCleared, entries[0].Action)
	assert.Equal(t, grid.AuditUpdated, entries[1].Action)
	assert.Equal(t, grid.AuditAdded, entries[2].Action)
	for _, e := range entries {
		assert.Equal(t, "E", e.EmployeeName)
		assert.Equal(t, "admin", e.EditedBy)
		assert.NotEmpty(t, e.ID)
	}
}

func TestEditor_ClearingAbsentCellIsNotLogged(t *testing.T) {
	editor, mem := newTestEditor()
	ctx := context.Background()

	require.NoError(t, editor.ClearActivity(ctx, key("9:00-10:00"), actor))

	entries, err := mem.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
