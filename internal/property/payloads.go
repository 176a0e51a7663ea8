package property

import "strings"

// ButtonPayload is the value domain of button-typed properties.
type ButtonPayload string

// Button payload values.
const (
	ButtonPressed         ButtonPayload = "pressed"
	ButtonReleased        ButtonPayload = "released"
	ButtonClicked         ButtonPayload = "clicked"
	ButtonDoubleClicked   ButtonPayload = "double_clicked"
	ButtonTripleClicked   ButtonPayload = "triple_clicked"
	ButtonLongClicked     ButtonPayload = "long_clicked"
	ButtonExtraLongClicked ButtonPayload = "extra_long_clicked"
)

// AllButtonPayloads returns all valid button payload values.
func AllButtonPayloads() []ButtonPayload {
	return []ButtonPayload{
		ButtonPressed, ButtonReleased, ButtonClicked, ButtonDoubleClicked,
		ButtonTripleClicked, ButtonLongClicked, ButtonExtraLongClicked,
	}
}

// SwitchPayload is the value domain of switch-typed properties.
type SwitchPayload string

// Switch payload values.
const (
	SwitchOn     SwitchPayload = "on"
	SwitchOff    SwitchPayload = "off"
	SwitchToggle SwitchPayload = "toggle"
)

// AllSwitchPayloads returns all valid switch payload values.
func AllSwitchPayloads() []SwitchPayload {
	return []SwitchPayload{SwitchOn, SwitchOff, SwitchToggle}
}

// CoverPayload is the value domain of cover-typed properties.
type CoverPayload string

// Cover payload values.
const (
	CoverOpen        CoverPayload = "open"
	CoverOpened      CoverPayload = "opened"
	CoverOpening     CoverPayload = "opening"
	CoverClose       CoverPayload = "close"
	CoverClosed      CoverPayload = "closed"
	CoverClosing     CoverPayload = "closing"
	CoverStop        CoverPayload = "stop"
	CoverStopped     CoverPayload = "stopped"
	CoverCalibrate   CoverPayload = "calibrate"
	CoverCalibrating CoverPayload = "calibrating"
)

// AllCoverPayloads returns all valid cover payload values.
func AllCoverPayloads() []CoverPayload {
	return []CoverPayload{
		CoverOpen, CoverOpened, CoverOpening, CoverClose, CoverClosed,
		CoverClosing, CoverStop, CoverStopped, CoverCalibrate, CoverCalibrating,
	}
}

// matchButtonPayload matches an input string case-insensitively against the
// button payload values.
func matchButtonPayload(input string) (ButtonPayload, bool) {
	for _, p := range AllButtonPayloads() {
		if strings.EqualFold(string(p), input) {
			return p, true
		}
	}
	return "", false
}

func matchSwitchPayload(input string) (SwitchPayload, bool) {
	for _, p := range AllSwitchPayloads() {
		if strings.EqualFold(string(p), input) {
			return p, true
		}
	}
	return "", false
}

func matchCoverPayload(input string) (CoverPayload, bool) {
	for _, p := range AllCoverPayloads() {
		if strings.EqualFold(string(p), input) {
			return p, true
		}
	}
	return "", false
}
