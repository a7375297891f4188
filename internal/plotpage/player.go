package plotpage

import (
	"fmt"
	"io"
)

// PlayerFrame is the chart state shown at one step of a Player.
type PlayerFrame struct {
	Label  string     `json:"label"`
	Series []XYSeries `json:"series"`
}

// Player animates an XY line chart through a sequence of frames with a
// slider and a play button. It must render after the chart it drives.
type Player struct {
	ChartID  string
	Theme    Theme
	Interval int // Milliseconds between frames while playing.
	Markers  bool
	Frames   []PlayerFrame
}

type playerSeries struct {
	Name  string  `json:"name"`
	Color string  `json:"color"`
	Data  [][]int `json:"data"`
}

type playerFrame struct {
	Label  string         `json:"label"`
	Series []playerSeries `json:"series"`
}

type playerData struct {
	ChartID  string
	Interval int
	Last     int
	Markers  bool
	Frames   []playerFrame
}

const defaultInterval = 400

// Render writes the controls and the driving script.
func (p *Player) Render(w io.Writer) error {
	if len(p.Frames) == 0 {
		return nil
	}

	interval := p.Interval
	if interval <= 0 {
		interval = defaultInterval
	}

	data := playerData{
		ChartID:  p.ChartID,
		Interval: interval,
		Last:     len(p.Frames) - 1,
		Markers:  p.Markers,
		Frames:   make([]playerFrame, len(p.Frames)),
	}

	for i, f := range p.Frames {
		frame := playerFrame{Label: f.Label, Series: make([]playerSeries, len(f.Series))}

		for j, s := range f.Series {
			color := s.Color
			if color == "" {
				color = SeriesColor(p.Theme, j)
			}

			pairs := make([][]int, len(s.Points))
			for k, pt := range s.Points {
				pairs[k] = []int{pt.X, pt.Y}
			}

			frame.Series[j] = playerSeries{Name: s.Name, Color: color, Data: pairs}
		}

		data.Frames[i] = frame
	}

	html, err := renderTemplate("player.html", data)
	if err != nil {
		return fmt.Errorf("render player: %w", err)
	}

	_, err = io.WriteString(w, string(html))
	if err != nil {
		return fmt.Errorf("writing player: %w", err)
	}

	return nil
}
