package challenge

import (
	"time"

	"github.com/twentyhard/twentyhard/internal/model"
)

const (
	TaskWorkout1 = "workout1"
	TaskWorkout2 = "workout2"
	TaskDiet     = "diet"
	TaskWater    = "water"
	TaskReading  = "reading"
	TaskPhoto    = "photo"
	TaskWeight   = "weight"
)

// CoreTasks are the canonical six. An empty task list falls back to them.
var CoreTasks = []string{TaskWorkout1, TaskWorkout2, TaskWater, TaskDiet, TaskPhoto, TaskReading}

// DefaultTasks is the template for new challenges. Weight is mandatory.
func DefaultTasks() []model.CustomTask {
	return []model.CustomTask{
		{ID: TaskWorkout1, Label: "Workout I (45 min)", Enabled: true},
		{ID: TaskWorkout2, Label: "Workout II (45 min)", Enabled: true},
		{ID: TaskDiet, Label: "Stick to Elite Diet", Enabled: true},
		{ID: TaskWater, Label: "Drink 4L Water", Enabled: true},
		{ID: TaskReading, Label: "Read 10 Pages", Enabled: true},
		{ID: TaskPhoto, Label: "Progress Photo", Enabled: true},
		{ID: TaskWeight, Label: "Log Daily Weight", Enabled: true},
	}
}

// IsLockedTask reports whether id may never be disabled.
func IsLockedTask(id string) bool {
	if id == TaskWeight {
		return true
	}
	for _, c := range CoreTasks {
		if c == id {
			return true
		}
	}
	return false
}

// TaskSatisfied decides a single entry. Boolean true satisfies every task
// except weight, which needs an in-range number.
func TaskSatisfied(id string, v any, day string, loc *time.Location) bool {
	if id == TaskWeight {
		return ValidateWeight(v)
	}
	if isTrue(v) {
		return true
	}
	switch id {
	case TaskWorkout1, TaskWorkout2:
		return ValidateWorkout(v)
	case TaskWater:
		return ValidateWater(v)
	case TaskDiet:
		return ValidateDiet(v)
	case TaskPhoto:
		return ValidatePhoto(v, day, loc)
	case TaskReading:
		return ValidateReading(v)
	default:
		return false
	}
}

// RequiredTasks returns the ids that must be satisfied under list.
func RequiredTasks(list []model.CustomTask) []string {
	if len(list) == 0 {
		return CoreTasks
	}
	ids := make([]string, 0, len(list))
	for _, t := range list {
		if t.Enabled {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// IsDayComplete applies the completion rule to one day's tasks.
func IsDayComplete(tasks model.Tasks, list []model.CustomTask, day string, loc *time.Location) bool {
	for _, id := range RequiredTasks(list) {
		if !TaskSatisfied(id, tasks[id], day, loc) {
			return false
		}
	}
	return true
}

// DayStatus classifies a day that is still open for edits.
func DayStatus(day string, tasks model.Tasks, list []model.CustomTask, today string, loc *time.Location) string {
	if IsDayComplete(tasks, list, day, loc) {
		return model.DayStatusCompleted
	}
	if day < today && hasUnsatisfied(day, tasks, loc) {
		return model.DayStatusFailed
	}
	return model.DayStatusPending
}

func hasUnsatisfied(day string, tasks model.Tasks, loc *time.Location) bool {
	for id, v := range tasks {
		if b, ok := v.(bool); ok {
			if !b {
				return true
			}
			continue
		}
		if !TaskSatisfied(id, v, day, loc) {
			return true
		}
	}
	return false
}

// DayReport is the strict per-day verdict with every failure reason.
type DayReport struct {
	Date          string   `json:"date"`
	Valid         bool     `json:"valid"`
	Failures      []string `json:"failures"`
	FailureReason string   `json:"failureReason,omitempty"`
}

// ValidateDayCompletion lists every reason the day falls short.
func ValidateDayCompletion(log model.DayLog, list []model.CustomTask, loc *time.Location) DayReport {
	failures := []string{}
	for _, id := range RequiredTasks(list) {
		v := log.Tasks[id]
		if TaskSatisfied(id, v, log.Date, loc) {
			continue
		}
		failures = append(failures, failureCode(id, v))
	}
	r := DayReport{Date: log.Date, Valid: len(failures) == 0, Failures: failures}
	if len(failures) > 0 {
		r.FailureReason = failures[0]
	}
	return r
}

func failureCode(id string, v any) string {
	switch id {
	case TaskWorkout1, TaskWorkout2:
		prefix := "workout_1"
		if id == TaskWorkout2 {
			prefix = "workout_2"
		}
		if m, ok := asMap(v); ok && isTrue(m["logged"]) {
			return prefix + "_invalid"
		}
		return prefix + "_missing"
	case TaskWater:
		return "water_insufficient"
	case TaskDiet:
		return "diet_non_compliant"
	case TaskPhoto:
		return "photo_missing"
	case TaskReading:
		return "reading_insufficient"
	case TaskWeight:
		if v == nil {
			return "weight_missing"
		}
		return "weight_invalid"
	default:
		return id + "_missing"
	}
}
