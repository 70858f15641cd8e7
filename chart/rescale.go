package chart

import "golang.org/x/exp/constraints"

// scale multiplies every value by factor in place.
func scale[T constraints.Unsigned](factor T, values ...*T) {
	for _, v := range values {
		*v *= factor
	}
}

type positioned interface {
	Position() uint32
	setPosition(tick uint32)
}

// rescalePreservingGaps multiplies the tick of every event by factor, except that an event
// exactly one tick after its predecessor stays one tick after the predecessor's scaled
// position. Such events mean "together with the previous one" rather than a real gap.
//
// Adjacency is always judged on the original ticks: 10, 11, 12 scaled by 3 becomes
// 30, 31, 34 and not 30, 31, 32.
func rescalePreservingGaps[E positioned](events []E, factor uint32) {
	if len(events) == 0 {
		return
	}
	prev := events[0].Position()
	events[0].setPosition(prev * factor)
	for _, e := range events[1:] {
		original := e.Position()
		if original == prev+1 {
			e.setPosition(prev*factor + 1)
		} else {
			e.setPosition(original * factor)
		}
		prev = original
	}
}
