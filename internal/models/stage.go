package models

type Stage string

const (
	StageOne   Stage = "stage1"
	StageTwo   Stage = "stage2"
	StageThree Stage = "stage3"
)

// Stages lists the onboarding stages in progression order.
var Stages = []Stage{StageOne, StageTwo, StageThree}

// ValidStage reports whether s is a known stage value.
func ValidStage(s Stage) bool {
	for _, stage := range Stages {
		if s == stage {
			return true
		}
	}
	return false
}

// Next returns the stage following s. ok is false when s is terminal
// or unknown.
func (s Stage) Next() (next Stage, ok bool) {
	for i, stage := range Stages {
		if s == stage && i+1 < len(Stages) {
			return Stages[i+1], true
		}
	}
	return "", false
}
