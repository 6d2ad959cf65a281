package model

type WeightGoal struct {
	StartWeight     float64       `json:"startWeight" bson:"start_weight"`
	GoalWeight      float64       `json:"goalWeight" bson:"goal_weight"`
	Days            int           `json:"days" bson:"days"`
	DailyLossTarget float64       `json:"dailyLossTarget" bson:"daily_loss_target"`
	Tolerance       float64       `json:"tolerance" bson:"tolerance"`
	StartDate       string        `json:"startDate" bson:"start_date"`
	WeightLog       []WeightEntry `json:"weightLog" bson:"weight_log"`
}

type WeightEntry struct {
	Date   string  `json:"date" bson:"date"`
	Weight float64 `json:"weight" bson:"weight"`
}
