package shift

type ShiftResponse struct {
	Name      string    `json:"name"`
	StartTime TimeOfDay `json:"start_time"`
	EndTime   TimeOfDay `json:"end_time"`
	Overnight bool      `json:"overnight"`
}

func NewShiftResponse(s ShiftDefinition) ShiftResponse {
	return ShiftResponse{
		Name:      s.Name,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Overnight: s.Overnight(),
	}
}
