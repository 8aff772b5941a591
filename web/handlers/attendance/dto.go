package attendance

// MarkRequest is a kiosk tap: the employee id and nothing else.
type MarkRequest struct {
	EmployeeID string `json:"employeeId" binding:"required"`
}

// WFHRequest carries an explicit IN/OUT intent for remote work.
type WFHRequest struct {
	EmployeeID string `json:"employeeId" binding:"required"`
	Type       string `json:"type" binding:"required,oneof=IN OUT"`
}

type WFHResponse struct {
	Message string `json:"message"`
}
