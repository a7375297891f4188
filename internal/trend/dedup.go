package trend

// occurrence keys one entity within one program.
type occurrence struct {
	program string
	entity  string
}

// Deduplicate keeps the first event of every (program, entity) pair.
// Events of the same entity in different programs are all kept, and the
// relative order of the surviving events is unchanged.
func Deduplicate(events []Event) []Event {
	if len(events) == 0 {
		return nil
	}

	seen := make(map[occurrence]struct{}, len(events))
	out := make([]Event, 0, len(events))

	for _, ev := range events {
		key := occurrence{program: ev.ProgramID, entity: ev.EntityID}
		if _, dup := seen[key]; dup {
			continue
		}

		seen[key] = struct{}{}
		out = append(out, ev)
	}

	return out
}
