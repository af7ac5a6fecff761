package models

type Employee struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Phone    string  `json:"phone"`
	Role     string  `json:"role"`
	Salary   float64 `json:"salary"`
	Document string  `json:"document"`
	Shift    string  `json:"shift"`
}

// OnShiftAt reports whether the employee's shift covers the given hour.
// Morning 6-14, afternoon 14-22, night 22-6.
func (e *Employee) OnShiftAt(hour int) bool {
	switch e.Shift {
	case ShiftMorning:
		return hour >= 6 && hour < 14
	case ShiftAfternoon:
		return hour >= 14 && hour < 22
	case ShiftNight:
		return hour >= 22 || hour < 6
	}
	return false
}
