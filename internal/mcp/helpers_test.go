package mcp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/encore/internal/archive"
	"github.com/Sumatoshi-tech/encore/internal/config"
	"github.com/Sumatoshi-tech/encore/internal/explore"
)

func row(program, composer, title string, year int) archive.WorkRow {
	return archive.WorkRow{
		ID:        program + "-" + title,
		ProgramID: program,
		Composer:  composer,
		Title:     title,
		Date:      time.Date(year, time.February, 2, 0, 0, 0, 0, time.UTC),
		Dated:     true,
	}
}

func testDeps(t *testing.T) ServerDeps {
	t.Helper()

	ds := &archive.Dataset{
		Concerts: []archive.ConcertRow{
			{ID: "c1", ProgramID: "1", Date: time.Date(1920, time.February, 2, 0, 0, 0, 0, time.UTC), Dated: true},
			{ID: "c2", ProgramID: "2", Date: time.Date(1921, time.February, 2, 0, 0, 0, 0, time.UTC), Dated: true},
		},
		Works: []archive.WorkRow{
			row("1", "Sibelius,  Jean", "Finlandia", 1920),
			row("1", "Sibelius,  Jean", "Symphony No. 2", 1920),
			row("2", "Elgar,  Edward", "Enigma Variations", 1921),
		},
	}

	svc, err := explore.NewService(explore.NewCatalog(ds), explore.Options{})
	require.NoError(t, err)

	defaults := config.Defaults().Trend
	defaults.StartYear = 1900
	defaults.EndYear = 1930

	return ServerDeps{Service: svc, Defaults: defaults, Version: "test"}
}
