package trend_test

import (
	"time"

	"github.com/Sumatoshi-tech/encore/internal/trend"
)

func ev(entity, program string, year int) trend.Event {
	return trend.Event{
		EntityID:  entity,
		ProgramID: program,
		Timestamp: time.Date(year, time.March, 14, 20, 0, 0, 0, time.UTC),
	}
}

func workEv(title, composer, program string, year int) trend.Event {
	e := ev(title, program, year)
	e.Attribution = composer

	return e
}

// seriesByEntity indexes a frame's series for lookups in assertions.
func seriesByEntity(frame trend.Frame) map[string]trend.Series {
	out := make(map[string]trend.Series, len(frame.Series))

	for _, s := range frame.Series {
		out[s.Entity] = s
	}

	return out
}

func frameNamed(t interface{ Fatalf(string, ...any) }, res *trend.Result, name string) trend.Frame {
	for _, f := range res.Frames {
		if f.Name == name {
			return f
		}
	}

	t.Fatalf("frame %q not found in %v", name, res.Labels)

	return trend.Frame{}
}
