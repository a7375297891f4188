package plotpage

import "strconv"

// Option is one choice of a Select.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Select is a drop-down control.
type Select struct {
	Name    string
	Label   string
	Options []Option
}

// Toggle is a checkbox control.
type Toggle struct {
	Name     string
	Label    string
	Checked  bool
	Disabled bool
}

// TextInput is a free-text control. Suggestions feed a datalist.
type TextInput struct {
	Name        string
	Label       string
	Value       string
	Placeholder string
	Suggestions []string
}

// Form is a GET form of chart controls shown above the sections.
// Hidden fields are submitted as-is.
type Form struct {
	Action  string
	Hidden  map[string]string
	Selects []Select
	Toggles []Toggle
	Inputs  []TextInput
	Submit  string
}

// IntSelect builds a select over integer choices, marking current.
func IntSelect(name, label string, choices []int, current int) Select {
	s := Select{Name: name, Label: label, Options: make([]Option, len(choices))}

	for i, c := range choices {
		v := strconv.Itoa(c)
		s.Options[i] = Option{Value: v, Label: v, Selected: c == current}
	}

	return s
}

// StringSelect builds a select over string choices, marking current.
func StringSelect(name, label string, choices []string, current string) Select {
	s := Select{Name: name, Label: label, Options: make([]Option, len(choices))}

	for i, c := range choices {
		s.Options[i] = Option{Value: c, Label: c, Selected: c == current}
	}

	return s
}
