package domain

import "fmt"

// ScheduledTrainingDay is one skeleton entry of a WeeklyPlan, produced by
// the Strategy node before any concrete variation has been chosen.
type ScheduledTrainingDay struct {
	DayIndex    int    `json:"dayIndex"`
	Focus       string `json:"focus"`
	Description string `json:"description"`
	SystemGoal  string `json:"systemGoal"`
}

// WeeklyPlan is the skeleton produced by the Strategy node (3) and
// consumed by every later node in the loop.
type WeeklyPlan struct {
	TotalTrainingDays int                    `json:"totalTrainingDays"`
	TrainingDays      []int                  `json:"trainingDays"`
	StartDate         string                 `json:"startDate"`
	GoalDescription   string                 `json:"goalDescription"`
	Schedule          []ScheduledTrainingDay `json:"schedule"`
}

// Validate checks every WeeklyPlan invariant from the data model section.
func (p *WeeklyPlan) Validate() error {
	if p.TotalTrainingDays < 1 || p.TotalTrainingDays > 7 {
		return fmt.Errorf("totalTrainingDays must be in [1,7], got %d", p.TotalTrainingDays)
	}
	if len(p.TrainingDays) != p.TotalTrainingDays {
		return fmt.Errorf("trainingDays length %d does not match totalTrainingDays %d", len(p.TrainingDays), p.TotalTrainingDays)
	}
	if len(p.Schedule) != p.TotalTrainingDays {
		return fmt.Errorf("schedule length %d does not match totalTrainingDays %d", len(p.Schedule), p.TotalTrainingDays)
	}
	seen := make(map[int]bool, len(p.TrainingDays))
	for _, d := range p.TrainingDays {
		if d < 0 || d > 6 {
			return fmt.Errorf("trainingDays entry %d out of [0,6]", d)
		}
		if seen[d] {
			return fmt.Errorf("trainingDays contains duplicate day %d", d)
		}
		seen[d] = true
	}
	for i, entry := range p.Schedule {
		if entry.DayIndex != p.TrainingDays[i] {
			return fmt.Errorf("schedule[%d].dayIndex=%d does not match trainingDays[%d]=%d", i, entry.DayIndex, i, p.TrainingDays[i])
		}
		if entry.Focus == "" || entry.Description == "" || entry.SystemGoal == "" {
			return fmt.Errorf("schedule[%d] has an empty focus/description/systemGoal", i)
		}
	}
	return nil
}

// TrainingSession is a fully-populated scheduled day with concrete
// variations and a calendar date, the output of the Assembler node (6).
type TrainingSession struct {
	DayIndex    int                 `json:"dayIndex"`
	Date        string              `json:"date"`
	Focus       string              `json:"focus"`
	Description string              `json:"description"`
	Warmup      []ExerciseVariation `json:"warmup"`
	Workout     []ExerciseVariation `json:"workout"`
	Cooldown    []ExerciseVariation `json:"cooldown"`
}
