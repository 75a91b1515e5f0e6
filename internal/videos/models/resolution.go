package models

type Resolution string

const (
	P144  Resolution = "P144"
	P240  Resolution = "P240"
	P360  Resolution = "P360"
	P480  Resolution = "P480"
	P720  Resolution = "P720"
	P1080 Resolution = "P1080"
	P1440 Resolution = "P1440"
	P2160 Resolution = "P2160"
)

var knownResolutions = map[Resolution]struct{}{
	P144:  {},
	P240:  {},
	P360:  {},
	P480:  {},
	P720:  {},
	P1080: {},
	P1440: {},
	P2160: {},
}

func (r Resolution) Valid() bool {
	_, ok := knownResolutions[r]
	return ok
}
