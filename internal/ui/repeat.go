package ui

// RepeatMode represents the current repeat setting.
type RepeatMode int

const (
	// RepeatAll wraps from the last track back to the first.
	RepeatAll RepeatMode = iota
	RepeatOne
	// RepeatOff stops after the last track.
	RepeatOff
)

// Next cycles to the next repeat mode.
func (r RepeatMode) Next() RepeatMode {
	switch r {
	case RepeatAll:
		return RepeatOne
	case RepeatOne:
		return RepeatOff
	default:
		return RepeatAll
	}
}

// String returns the name of the repeat mode.
func (r RepeatMode) String() string {
	switch r {
	case RepeatOne:
		return "one"
	case RepeatOff:
		return "off"
	default:
		return "all"
	}
}

// Icon returns a visual indicator for the repeat mode.
func (r RepeatMode) Icon() string {
	switch r {
	case RepeatOne:
		return "[repeat one]"
	case RepeatOff:
		return ""
	default:
		return "[repeat]"
	}
}
