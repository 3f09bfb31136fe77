package models

// DayPlanRequest asks the assistant for a day plan around a booked desk's
// location.
type DayPlanRequest struct {
	Location    string `json:"location" binding:"required"`
	Preferences string `json:"preferences,omitempty"`
}

// Activity is a single entry in a generated day plan.
type Activity struct {
	Time    string `json:"time"`
	Title   string `json:"title"`
	Details string `json:"details"`
}

// DayPlan groups activities by part of day.
type DayPlan struct {
	Morning   []Activity `json:"morning"`
	Afternoon []Activity `json:"afternoon"`
	Evening   []Activity `json:"evening"`
}
