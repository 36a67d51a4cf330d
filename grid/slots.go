package grid

// =============================================================================
// SLOT CATALOG - The fixed working-day partition
// =============================================================================
// Thirteen hourly slots, identical for every day. The order is significant:
// it defines adjacency for range operations, and the first slot doubles as
// the day-marker slot for full-day leave.

var daySlots = [13]TimeSlot{
	"9:00-10:00",
	"10:00-11:00",
	"11:00-12:00",
	"12:00-13:00",
	"13:00-14:00",
	"14:00-15:00",
	"15:00-16:00",
	"16:00-17:00",
	"17:00-18:00",
	"18:00-19:00",
	"19:00-20:00",
	"20:00-21:00",
	"21:00-22:00",
}

// Slots returns the ordered catalog. The caller owns the returned slice.
func Slots() []TimeSlot {
	out := make([]TimeSlot, len(daySlots))
	copy(out, daySlots[:])
	return out
}

// SlotCount is the number of slots in a working day.
func SlotCount() int { return len(daySlots) }

// SlotIndex returns the catalog position of slot, or false if the label
// is not in the catalog.
func SlotIndex(slot TimeSlot) (int, bool) {
	for i, s := range daySlots {
		if s == slot {
			return i, true
		}
	}
	return 0, false
}

// FirstSlot is the day-marker slot used for full-day leave.
func FirstSlot() TimeSlot { return daySlots[0] }

// LastSlot returns the final slot of the working day.
func LastSlot() TimeSlot { return daySlots[len(daySlots)-1] }
