package api

type credentialsInput struct {
	Username string `json:"username" form:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" form:"password" validate:"required,max=128"`
}

type updateUsernameInput struct {
	Username string `json:"username" form:"username" validate:"required,min=3,max=32"`
}

type updatePasswordInput struct {
	CurrentPassword string `json:"current_password" form:"current_password" validate:"required,max=128"`
	NewPassword     string `json:"new_password" form:"new_password" validate:"required,min=8,max=128"`
}

type deleteAccountInput struct {
	Password string `json:"password" form:"password" validate:"required,max=128"`
}

type logInput struct {
	Symptoms []string `json:"symptoms" validate:"max=12,dive,oneof=cramps headache bloating fatigue acne back_pain nausea breast_tenderness insomnia cravings mood_swings spotting"`
	Mood     string   `json:"mood" validate:"omitempty,oneof=happy calm sad anxious irritable energetic tired"`
	Flow     string   `json:"flow" validate:"omitempty,oneof=light medium heavy"`
	Notes    string   `json:"notes" validate:"max=2000"`
}

type createLogInput struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	logInput
}
